// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks the invariants of a resolved [RunConfig].
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *RunConfig) validate() error {
	if cfg.Retries < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRetries, cfg.Retries)
	}

	if cfg.Concurrency < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidConcurrency, cfg.Concurrency)
	}

	switch cfg.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, cfg.LogFormat)
	}

	return nil
}

// Attempts is the total number of tries the transport may make per request.
func (cfg RunConfig) Attempts() int {
	return cfg.Retries + 1
}

// UsesDirect reports whether the direct transport was requested.
func (cfg RunConfig) UsesDirect() bool {
	return cfg.Direct != ""
}
