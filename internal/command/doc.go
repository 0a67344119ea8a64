// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package command defines the contract between the dispatcher and the
// subcommands: the [Command] interface, the structured [Usage] the help
// text is built from, the per-run [Context], and the [Error] type a
// subcommand returns to choose its own exit code.
package command
