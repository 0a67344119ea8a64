// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// Command describes one subprocess invocation.
type Command struct {
	Name   string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ShellCommand runs script through /bin/sh -c.
func ShellCommand(script string) Command {
	return Command{Name: "/bin/sh", Args: []string{"-c", script}}
}

// ExitError reports a subprocess that ran but exited non-zero.
type ExitError struct {
	Name string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
}

// Runner starts a subprocess and waits for it.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// BlockingRunner runs the subprocess to completion regardless of ctx; it
// matches the native backend, where the caller's goroutine simply blocks.
type BlockingRunner struct{}

// Run implements [Runner].
func (BlockingRunner) Run(_ context.Context, c Command) error {
	cmd := exec.Command(c.Name, c.Args...)
	return run(cmd, c)
}

// CooperativeRunner ties the subprocess to ctx: cancellation kills it, so a
// failing sibling in a worker pool does not leave stragglers behind.
type CooperativeRunner struct {
	// WaitDelay bounds how long I/O copying may continue after a kill.
	WaitDelay time.Duration
}

// Run implements [Runner].
func (r CooperativeRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 5 * time.Second
	}
	if err := run(cmd, c); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", c.Name, ctxErr)
		}
		return err
	}
	return nil
}

func run(cmd *exec.Cmd, c Command) error {
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Name: c.Name, Code: exitErr.ExitCode()}
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", c.Name, err)
	}
	return nil
}
