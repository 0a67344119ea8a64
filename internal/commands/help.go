// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/spf13/pflag"
)

type helpCommand struct{}

func (helpCommand) Name() string { return "help" }

func (c helpCommand) flags() *pflag.FlagSet {
	return command.NewFlagSet(c.Name())
}

func (c helpCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "help [command]",
		Description: []string{
			"Outputs help information for the given [command] or general help if no [command] is given.",
		},
		Options: command.Options(c.flags()),
	}
}

func (c helpCommand) Run(_ context.Context, cc *command.Context, args []string) error {
	args, err := cc.Parse(c, c.flags(), args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return cc.UsageError(c, "help takes at most one command name")
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	text, ok := cc.Help(name)
	if !ok {
		return command.Errorf("unknown command '%s'", name)
	}

	fmt.Fprint(cc.Stdout, text)
	return nil
}
