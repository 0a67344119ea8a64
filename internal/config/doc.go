// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config resolves the configuration of a single swiftly invocation.
//
// Every option is read from two sources with the following precedence
// (earlier wins):
//  1. Command-line flags, parsed with spf13/pflag up to the first non-flag
//     token (the subcommand name)
//  2. SWIFTLY_* environment variables, parsed with caarlos0/env; empty
//     variables count as unset and booleans are true only for "true"
//     (case-insensitive)
//  3. Documented defaults (retries 4, concurrency 1, booleans false)
//
// The main entry point is [Resolve], which returns an [Invocation] holding
// the immutable [RunConfig] plus the split argument vector.
package config
