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

type postCommand struct{}

type postOptions struct {
	headers []string
}

func (postCommand) Name() string { return "post" }

func (c postCommand) flags(o *postOptions) *pflag.FlagSet {
	fs := command.NewFlagSet(c.Name())
	fs.StringArrayVarP(&o.headers, "header", "H", nil,
		`Add a header to the request. This can be used multiple times for multiple headers. Examples: -H "X-Object-Meta-Color: blue" -H "Content-Type: text/plain"`)
	return fs
}

func (c postCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "post [options] [path]",
		Description: []string{
			"Issues a POST request of the [path] given, setting the headers given with -H. If no [path] is given, a POST request on the account is performed.",
		},
		Options: command.Options(c.flags(&postOptions{})),
	}
}

func (c postCommand) Run(ctx context.Context, cc *command.Context, args []string) error {
	var o postOptions
	args, err := cc.Parse(c, c.flags(&o), args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return cc.UsageError(c, "post takes at most one path")
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
		_, err := client.Do(ctx, adapter.Request{
			Method:    http.MethodPost,
			Container: container,
			Object:    object,
			Headers:   headers,
			CDN:       cc.Config.CDN,
		})
		return requestError(displayPath(path), err)
	})
}
