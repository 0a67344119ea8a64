// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package commands holds the swiftly subcommands.
//
// Each command is a stateless value implementing [command.Command]; its
// options are parsed into a fresh struct on every Run. [All] returns the
// static table the dispatcher registers.
package commands
