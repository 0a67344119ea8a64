// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package command

import (
	"context"
	"io"
	"time"

	"github.com/MKhiriev/go-swiftly/internal/adapter"
	"github.com/MKhiriev/go-swiftly/internal/backend"
	"github.com/MKhiriev/go-swiftly/internal/config"
	"github.com/MKhiriev/go-swiftly/internal/crypto"
	"github.com/MKhiriev/go-swiftly/internal/logger"
	"github.com/MKhiriev/go-swiftly/internal/workers"
)

// DispatchFunc runs a complete argument vector (main options, command
// name, command arguments) and returns its exit code.
type DispatchFunc func(ctx context.Context, args []string) int

// HelpFunc returns the help text for a command name, or the main help for
// the empty name. ok is false for unknown commands.
type HelpFunc func(name string) (text string, ok bool)

// Context is everything a command needs for one invocation. The dispatcher
// builds a new Context per run; commands must not keep it afterwards.
type Context struct {
	Config config.RunConfig

	// Clients hands out transport clients; return each with PutClient.
	Clients adapter.Factory

	// Verbose is nil when verbosity is off.
	Verbose *logger.Verbose
	Logger  *logger.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Runner      backend.Runner
	Pool        *workers.Pool
	Cooperative bool
	Cipher      crypto.StreamCipher

	// Environ is the environment the invocation was resolved from.
	Environ map[string]string

	// OriginalArgs is the full argument vector of the invocation and
	// OriginalMainArgs the part of it before the command name.
	OriginalArgs     []string
	OriginalMainArgs []string

	// Begin is when the invocation started.
	Begin time.Time
	Now   func() time.Time

	Dispatch DispatchFunc
	Help     HelpFunc
}

// Verbosef writes a verbose line when verbosity is on.
func (c *Context) Verbosef(format string, args ...any) {
	c.Verbose.Verbosef(format, args...)
}

// WithClient borrows a client for the duration of fn.
func (c *Context) WithClient(fn func(client adapter.Client) error) error {
	client := c.Clients.GetClient()
	defer c.Clients.PutClient(client)
	return fn(client)
}

// Time returns the current time, honouring Now when set.
func (c *Context) Time() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
