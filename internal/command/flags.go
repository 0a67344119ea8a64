// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package command

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/pflag"
)

// NewFlagSet returns a flag set for a command with -h/--help registered.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false
	fs.BoolP("help", "h", false, "Shows this help text.")
	return fs
}

// Options renders the option block of fs for [Usage].
func Options(fs *pflag.FlagSet) string {
	return fs.FlagUsagesWrapped(HelpWidth)
}

// Parse parses args for cmd and returns the positional arguments.
//
// With -h/--help the command help goes to stdout; a parse failure prints
// the error and the command help to stderr. Both return a silent *Error
// with code 1.
func (c *Context) Parse(cmd Command, fs *pflag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(c.Stdout, cmd.Usage().Help())
			return nil, Silent(1)
		}
		fmt.Fprintf(c.Stderr, "%s\n\n%s", err, cmd.Usage().Help())
		return nil, Silent(1)
	}
	if help, _ := fs.GetBool("help"); help {
		fmt.Fprint(c.Stdout, cmd.Usage().Help())
		return nil, Silent(1)
	}
	return fs.Args(), nil
}

// ParseHeaders converts "Name: value" strings into a header set.
func ParseHeaders(values []string) (http.Header, error) {
	headers := http.Header{}
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, Errorf("Invalid header %q; expected \"Name: value\"", v)
		}
		headers.Add(name, strings.TrimSpace(value))
	}
	return headers, nil
}

// UsageError prints a message and the command help to stderr and returns a
// silent *Error with code 1.
func (c *Context) UsageError(cmd Command, format string, args ...any) error {
	fmt.Fprintf(c.Stderr, format+"\n\n", args...)
	fmt.Fprint(c.Stderr, cmd.Usage().Help())
	return Silent(1)
}
