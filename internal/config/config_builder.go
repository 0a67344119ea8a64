// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type configBuilder struct {
	environ map[string]string
	layers  []*RunConfig
	args    []string
	err     error
}

func newConfigBuilder(environ map[string]string) *configBuilder {
	return &configBuilder{
		environ: environ,
		layers:  make([]*RunConfig, 0, 2),
	}
}

func (b *configBuilder) build() (*Invocation, error) {
	if b.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, b.err)
	}

	cfg := new(RunConfig)
	for _, layer := range b.layers {
		if err := mergo.Merge(cfg, layer); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	var sw switches
	fs := newFlagSet(cfg, &sw)
	if err := fs.Parse(b.args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	if sw.version {
		return nil, ErrVersionRequested
	}
	if sw.help {
		return nil, ErrHelpRequested
	}

	// an explicit flag beats the opposite value inherited from the environment
	if fs.Changed("no-eventlet") && !fs.Changed("eventlet") {
		sw.eventlet = false
	}
	if fs.Changed("eventlet") && !fs.Changed("no-eventlet") {
		sw.noEventlet = false
	}
	switch {
	case sw.eventlet && sw.noEventlet:
		return nil, fmt.Errorf("%w: --eventlet and --no-eventlet are mutually exclusive", ErrConflictingBackend)
	case sw.eventlet:
		cfg.Backend = BackendOn
	case sw.noEventlet:
		cfg.Backend = BackendOff
	default:
		cfg.Backend = BackendAuto
	}

	cfg.Verbosity = 0
	if sw.verbose {
		cfg.Verbosity = 1
	}
	cfg.AuthMethods = cleanList(cfg.AuthMethods)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rest := fs.Args()
	mainArgs := make([]string, len(b.args)-len(rest))
	copy(mainArgs, b.args)

	return &Invocation{
		Config:   *cfg,
		MainArgs: mainArgs,
		Args:     append([]string(nil), rest...),
	}, nil
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg, err := parseEnv(b.environ)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.layers = append(b.layers, envCfg)
	return b
}

func (b *configBuilder) withHostEnv() *configBuilder {
	hostCfg, err := parseHostEnv(b.environ)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.layers = append(b.layers, hostCfg)
	return b
}

func (b *configBuilder) withArgs(args []string) *configBuilder {
	b.args = args
	return b
}

// Resolve merges environ and args into an [Invocation] with the precedence
// explicit flag > non-empty environment variable > documented default.
//
// Flag parsing stops at the first non-flag token, which is returned as
// Invocation.Args[0] together with the untouched remainder.
//
// Returns [ErrHelpRequested] or [ErrVersionRequested] when the caller asked
// for help or version output. Any malformed flag or environment value yields
// an error wrapping [ErrInvalidArguments] or [ErrInvalidConfig].
func Resolve(args []string, environ map[string]string) (*Invocation, error) {
	return newConfigBuilder(environ).
		withEnv().
		withHostEnv().
		withArgs(args).
		build()
}
