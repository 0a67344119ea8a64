// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envBool parses an environment value case-insensitively against the literal
// "true"; every other value, including "1" and "yes", is false.
type envBool bool

// UnmarshalText implements encoding.TextUnmarshaler for caarlos0/env.
func (b *envBool) UnmarshalText(text []byte) error {
	*b = envBool(strings.EqualFold(strings.TrimSpace(string(text)), "true"))
	return nil
}

// swiftlyEnv mirrors every command-line option. All names are resolved with
// the [EnvPrefix] prefix. Empty variables are treated as unset.
type swiftlyEnv struct {
	AuthURL        string   `env:"AUTH_URL"`
	AuthUser       string   `env:"AUTH_USER"`
	AuthKey        string   `env:"AUTH_KEY"`
	AuthTenant     string   `env:"AUTH_TENANT"`
	AuthMethods    []string `env:"AUTH_METHODS" envSeparator:","`
	Region         string   `env:"REGION"`
	Direct         string   `env:"DIRECT"`
	DirectEndpoint string   `env:"DIRECT_ENDPOINT" envDefault:"http://127.0.0.1:8080"`
	Proxy          string   `env:"PROXY"`
	SNet           envBool  `env:"SNET"`
	Retries        int      `env:"RETRIES" envDefault:"4"`
	CacheAuth      envBool  `env:"CACHE_AUTH"`
	CDN            envBool  `env:"CDN"`
	Concurrency    int      `env:"CONCURRENCY" envDefault:"1"`
	Eventlet       envBool  `env:"EVENTLET"`
	NoEventlet     envBool  `env:"NO_EVENTLET"`
	Verbose        envBool  `env:"VERBOSE"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat      string   `env:"LOG_FORMAT" envDefault:"console"`
}

// hostEnv holds the unprefixed variables the client reads from the host.
type hostEnv struct {
	User string `env:"USER" envDefault:"user"`
}

// parseEnv populates a [RunConfig] layer from environ using the caarlos0/env
// library. environ is injected so tests never touch the process environment.
//
// Returns a wrapped error if a value cannot be converted to its target type
// (e.g. SWIFTLY_RETRIES=many).
func parseEnv(environ map[string]string) (*RunConfig, error) {
	var e swiftlyEnv
	err := env.ParseWithOptions(&e, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	})
	if err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	if e.Eventlet && e.NoEventlet {
		return nil, fmt.Errorf("%w: %sEVENTLET and %sNO_EVENTLET are both true",
			ErrConflictingBackend, EnvPrefix, EnvPrefix)
	}

	backend := BackendAuto
	switch {
	case bool(e.Eventlet):
		backend = BackendOn
	case bool(e.NoEventlet):
		backend = BackendOff
	}

	verbosity := 0
	if e.Verbose {
		verbosity = 1
	}

	return &RunConfig{
		AuthURL:        e.AuthURL,
		AuthUser:       e.AuthUser,
		AuthKey:        e.AuthKey,
		AuthTenant:     e.AuthTenant,
		AuthMethods:    cleanList(e.AuthMethods),
		Region:         e.Region,
		Direct:         e.Direct,
		DirectEndpoint: e.DirectEndpoint,
		Proxy:          e.Proxy,
		SNet:           bool(e.SNet),
		Retries:        e.Retries,
		CacheAuth:      bool(e.CacheAuth),
		CDN:            bool(e.CDN),
		Concurrency:    e.Concurrency,
		Backend:        backend,
		Verbosity:      verbosity,
		LogLevel:       e.LogLevel,
		LogFormat:      strings.ToLower(strings.TrimSpace(e.LogFormat)),
	}, nil
}

// parseHostEnv reads the unprefixed host variables into a config layer.
func parseHostEnv(environ map[string]string) (*RunConfig, error) {
	var h hostEnv
	if err := env.ParseWithOptions(&h, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("error getting host env configs: %w", err)
	}

	return &RunConfig{User: h.User}, nil
}

// cleanList trims each element and drops empty ones.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
