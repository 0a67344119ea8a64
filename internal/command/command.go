// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// HelpWidth is the column every help text is wrapped to.
const HelpWidth = 79

// Command is one subcommand of the CLI.
type Command interface {
	// Name is the word that selects the command on the command line.
	Name() string

	// Usage describes the command for help output.
	Usage() Usage

	// Run executes the command. args are the arguments after the command
	// name. A returned *Error selects the exit code; any other error is
	// reported as an unexpected failure.
	Run(ctx context.Context, cc *Context, args []string) error
}

// Usage is the structured help of a command.
type Usage struct {
	// Synopsis is a single line, e.g. "get [options] [path]".
	Synopsis string

	// Description holds one paragraph per element.
	Description []string

	// Options is the rendered option block, or empty.
	Options string
}

// Summary is the first paragraph of the description, used in the command
// list of the main help.
func (u Usage) Summary() string {
	if len(u.Description) == 0 {
		return ""
	}
	return u.Description[0]
}

// Help renders the full help text of the command.
func (u Usage) Help() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: swiftly [main_options] %s\n", u.Synopsis)
	for _, paragraph := range u.Description {
		b.WriteString("\n")
		b.WriteString(wordwrap.WrapString(paragraph, HelpWidth))
		b.WriteString("\n")
	}
	if u.Options != "" {
		b.WriteString("\nOptions:\n")
		b.WriteString(u.Options)
	}
	return b.String()
}

// Error is a failure the command has already described to the user. The
// dispatcher prints "ERROR <Message>" when Message is not empty and exits
// with Code; a zero Code exits with 1.
type Error struct {
	Message string
	Code    int
}

// Errorf returns an *Error with code 1 and a formatted message.
func Errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Code: 1}
}

// Silent returns an *Error that only sets the exit code.
func Silent(code int) *Error {
	return &Error{Code: code}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.ExitCode())
	}
	return e.Message
}

// ExitCode is the process exit code for e.
func (e *Error) ExitCode() int {
	if e.Code == 0 {
		return 1
	}
	return e.Code
}
