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

type headCommand struct{}

type headOptions struct {
	headers []string
}

func (headCommand) Name() string { return "head" }

func (c headCommand) flags(o *headOptions) *pflag.FlagSet {
	fs := command.NewFlagSet(c.Name())
	fs.StringArrayVarP(&o.headers, "header", "H", nil,
		`Add a header to the request. This can be used multiple times for multiple headers. Examples: -H "If-Match: abc" -H "If-None-Match: def"`)
	return fs
}

func (c headCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "head [options] [path]",
		Description: []string{
			"Outputs the resulting headers from a HEAD request of the [path] given. If no [path] is given, a HEAD request on the account is performed.",
		},
		Options: command.Options(c.flags(&headOptions{})),
	}
}

func (c headCommand) Run(ctx context.Context, cc *command.Context, args []string) error {
	var o headOptions
	args, err := cc.Parse(c, c.flags(&o), args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return cc.UsageError(c, "head takes at most one path")
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	headers, err := command.ParseHeaders(o.headers)
	if err != nil {
		return err
	}

	container, object := splitPath(path)
	return cc.WithClient(func(client adapter.Client) error {
		resp, err := client.Do(ctx, adapter.Request{
			Method:    http.MethodHead,
			Container: container,
			Object:    object,
			Headers:   headers,
			CDN:       cc.Config.CDN,
		})
		if err != nil {
			return requestError(displayPath(path), err)
		}

		writeHeaders(cc.Stdout, resp.Headers)
		return nil
	})
}
