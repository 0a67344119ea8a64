// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli is the swiftly dispatcher. [CLI.Run] resolves the
// configuration of one invocation, selects the runtime backends and the
// transport, runs the subcommand and maps its outcome to an exit code.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/MKhiriev/go-swiftly/internal/adapter"
	"github.com/MKhiriev/go-swiftly/internal/backend"
	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/internal/commands"
	"github.com/MKhiriev/go-swiftly/internal/config"
	"github.com/MKhiriev/go-swiftly/internal/crypto"
	"github.com/MKhiriev/go-swiftly/internal/logger"
	"github.com/MKhiriev/go-swiftly/internal/workers"
	"github.com/MKhiriev/go-swiftly/models"
	"github.com/rs/zerolog"
)

// Options configures a CLI. Zero fields take the defaults noted.
type Options struct {
	Stdin  io.Reader // os.Stdin
	Stdout io.Writer // os.Stdout
	Stderr io.Writer // os.Stderr

	// Environ is the environment options are resolved from. Nil means an
	// empty environment.
	Environ map[string]string

	// TempDir holds the auth cache. Default: os.TempDir().
	TempDir string

	BuildInfo models.AppBuildInfo

	// Commands is the command table. Default: commands.All().
	Commands []command.Command

	// Probe and Policy drive cooperative backend auto-detection.
	// Defaults: backend.GoRuntimeProbe and backend.DefaultPolicy.
	Probe  backend.Probe
	Policy backend.Policy

	// Cipher overrides the encrypt/decrypt stream cipher.
	Cipher crypto.StreamCipher

	Now func() time.Time // time.Now
}

// CLI dispatches invocations. It holds no per-run state, so Run may be
// called concurrently (fordo does).
type CLI struct {
	opts     Options
	stdout   io.Writer
	stderr   io.Writer
	registry *Registry
	help     *HelpComposer
}

// New builds a CLI. It panics if the command table has duplicate names.
func New(opts Options) *CLI {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Environ == nil {
		opts.Environ = map[string]string{}
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.Commands == nil {
		opts.Commands = commands.All()
	}
	if opts.Probe == nil {
		opts.Probe = backend.GoRuntimeProbe
	}
	if opts.Policy.MinVersion == "" {
		opts.Policy = backend.DefaultPolicy
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	registry := NewRegistry(opts.Commands)
	return &CLI{
		opts:     opts,
		stdout:   command.NewLockedWriter(opts.Stdout),
		stderr:   command.NewLockedWriter(opts.Stderr),
		registry: registry,
		help:     NewHelpComposer(registry),
	}
}

// Run executes one invocation and returns its exit code. It never panics.
func (c *CLI) Run(ctx context.Context, args []string) (code int) {
	begin := c.opts.Now()
	defer func() {
		if r := recover(); r != nil {
			code = c.reportPanic(r)
		}
	}()

	inv, err := config.Resolve(args, c.opts.Environ)
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		fmt.Fprintln(c.stdout, c.opts.BuildInfo.String())
		return 1
	case errors.Is(err, config.ErrHelpRequested):
		fmt.Fprint(c.stdout, c.help.Main())
		return 1
	case err != nil:
		fmt.Fprintf(c.stderr, "%s\n\nswiftly: error: %s\n", c.help.UsageLine(), err)
		return 1
	}

	if len(inv.Args) == 0 {
		fmt.Fprint(c.stdout, c.help.Main())
		return 1
	}

	cfg := inv.Config
	sel := backend.Select(cfg, c.opts.Probe, c.opts.Policy)

	var verbose *logger.Verbose
	if cfg.Verbosity > 0 {
		verbose = logger.NewVerbose(c.stderr, begin)
	}
	log := newLogger(cfg, c.stderr)

	factory := c.newFactory(cfg, sel, verbose, log)

	name := inv.Args[0]
	cmd, ok := c.registry.Lookup(name)
	if !ok {
		fmt.Fprintf(c.stderr, "ERROR unknown command '%s'\n", name)
		return 1
	}

	cmdLog := log.GetChildLogger()
	cmdLog.UpdateContext(func(lc zerolog.Context) zerolog.Context {
		return lc.Str("command", cmd.Name())
	})
	ctx = cmdLog.WithContext(ctx)

	cmdLog.Debug().
		Bool("cooperative", sel.Cooperative).
		Bool("direct", sel.Direct).
		Int("pool_limit", sel.PoolLimit).
		Msg("dispatching")

	cc := &command.Context{
		Config:           cfg,
		Clients:          factory,
		Verbose:          verbose,
		Logger:           cmdLog,
		Stdin:            c.opts.Stdin,
		Stdout:           c.stdout,
		Stderr:           c.stderr,
		Runner:           sel.Runner,
		Pool:             workers.NewPool(sel.PoolLimit),
		Cooperative:      sel.Cooperative,
		Cipher:           c.opts.Cipher,
		Environ:          c.opts.Environ,
		OriginalArgs:     args,
		OriginalMainArgs: inv.MainArgs,
		Begin:            begin,
		Now:              c.opts.Now,
		Dispatch:         c.Run,
		Help:             c.helpText,
	}

	return c.exitCode(cmd.Run(ctx, cc, inv.Args[1:]))
}

func newLogger(cfg config.RunConfig, w io.Writer) *logger.Logger {
	if cfg.LogFormat == config.LogFormatJSON {
		return logger.NewLogger("swiftly", w, cfg.LogLevel)
	}
	return logger.NewConsoleLogger("swiftly", w, cfg.LogLevel)
}

// newFactory builds the transport factory. The direct transport never sees
// the auth fields.
func (c *CLI) newFactory(cfg config.RunConfig, sel backend.Selection, verbose *logger.Verbose, log *logger.Logger) adapter.Factory {
	if sel.Direct {
		return adapter.NewDirectManager(adapter.DirectOptions{
			Path:     cfg.Direct,
			Endpoint: cfg.DirectEndpoint,
			Proxy:    cfg.Proxy,
			Attempts: cfg.Attempts(),
			Verbose:  verbose.Func(),
			Logger:   log,
		})
	}

	cachePath := ""
	if cfg.CacheAuth {
		cachePath = adapter.AuthCachePath(c.opts.TempDir, cfg.User)
	}
	return adapter.NewStandardManager(adapter.StandardOptions{
		AuthURL:       cfg.AuthURL,
		AuthUser:      cfg.AuthUser,
		AuthKey:       cfg.AuthKey,
		AuthTenant:    cfg.AuthTenant,
		AuthMethods:   cfg.AuthMethods,
		Region:        cfg.Region,
		SNet:          cfg.SNet,
		Proxy:         cfg.Proxy,
		Attempts:      cfg.Attempts(),
		AuthCachePath: cachePath,
		Verbose:       verbose.Func(),
		Logger:        log,
	})
}

func (c *CLI) helpText(name string) (string, bool) {
	if name == "" {
		return c.help.Main(), true
	}
	cmd, ok := c.registry.Lookup(name)
	if !ok {
		return "", false
	}
	return cmd.Usage().Help(), true
}

func (c *CLI) exitCode(err error) int {
	if err == nil {
		return 0
	}

	var cmdErr *command.Error
	if errors.As(err, &cmdErr) {
		if cmdErr.Message != "" {
			fmt.Fprintf(c.stderr, "ERROR %s\n", cmdErr.Message)
		}
		return cmdErr.ExitCode()
	}

	fmt.Fprint(c.stderr, trace(err))
	return 1
}

func (c *CLI) reportPanic(r any) int {
	fmt.Fprintf(c.stderr, "panic: %v\n\n%s\n", r, debug.Stack())
	return 1
}

// trace renders err and every error it wraps with their types.
func trace(err error) string {
	var b strings.Builder
	b.WriteString("Traceback (error chain):\n")
	queue := []error{err}
	for depth := 0; len(queue) > 0; depth++ {
		next := queue[:0:0]
		for _, e := range queue {
			fmt.Fprintf(&b, "%s%T: %v\n", strings.Repeat("  ", depth+1), e, e)
			switch u := e.(type) {
			case interface{ Unwrap() []error }:
				next = append(next, u.Unwrap()...)
			case interface{ Unwrap() error }:
				if inner := u.Unwrap(); inner != nil {
					next = append(next, inner)
				}
			}
		}
		queue = next
	}
	return b.String()
}
