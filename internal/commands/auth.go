// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-swiftly/internal/adapter"
	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/spf13/pflag"
)

type authCommand struct{}

func (authCommand) Name() string { return "auth" }

func (c authCommand) flags() *pflag.FlagSet {
	return command.NewFlagSet(c.Name())
}

func (c authCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "auth",
		Description: []string{
			"Outputs auth information.",
		},
		Options: command.Options(c.flags()),
	}
}

func (c authCommand) Run(ctx context.Context, cc *command.Context, args []string) error {
	args, err := cc.Parse(c, c.flags(), args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return cc.UsageError(c, "auth takes no arguments")
	}

	return cc.WithClient(func(client adapter.Client) error {
		if err := client.Auth(ctx); err != nil {
			return requestError("auth", err)
		}

		info := client.Info()
		out := http.Header{}
		if info.DirectPath != "" {
			out["Direct Storage Path"] = []string{info.DirectPath}
		}
		out["Storage URL"] = []string{info.StorageURL}
		if info.AuthToken != "" {
			out["Auth Token"] = []string{info.AuthToken}
		}
		if info.CDNURL != "" {
			out["CDN Management URL"] = []string{info.CDNURL}
		}
		writeHeaders(cc.Stdout, out)
		return nil
	})
}
