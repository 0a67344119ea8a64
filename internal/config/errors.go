// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Short-circuit signals returned by [Resolve]. They are not failures but the
// caller must not continue processing the invocation.
var (
	// ErrHelpRequested indicates -h/--help was passed.
	ErrHelpRequested = errors.New("help requested")
	// ErrVersionRequested indicates --version was passed.
	ErrVersionRequested = errors.New("version requested")
)

// Resolution errors returned by [Resolve].
var (
	// ErrInvalidArguments indicates a malformed command line (unknown flag,
	// missing value, non-integer value).
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrInvalidConfig indicates a malformed environment value.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrConflictingBackend indicates the cooperative backend was both
	// enabled and disabled.
	ErrConflictingBackend = errors.New("conflicting backend options")
	// ErrInvalidRetries indicates a negative retry count.
	ErrInvalidRetries = errors.New("retries must be zero or greater")
	// ErrInvalidConcurrency indicates a concurrency limit below one.
	ErrInvalidConcurrency = errors.New("concurrency must be one or greater")
)
