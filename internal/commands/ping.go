// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-swiftly/internal/adapter"
	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/internal/utils"
	"github.com/spf13/pflag"
)

const pingObject = "swiftly-ping-object"

type pingCommand struct{}

type pingOptions struct {
	container string
}

func (pingCommand) Name() string { return "ping" }

func (c pingCommand) flags(o *pingOptions) *pflag.FlagSet {
	fs := command.NewFlagSet(c.Name())
	fs.StringVar(&o.container, "container", "",
		"The container to use for the object round trip; it is created and deleted again. Default: swiftly-ping-<random id>.")
	return fs
}

func (c pingCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "ping [options]",
		Description: []string{
			"Runs a timed round trip against the cluster: auth, a HEAD of the account, then a container and an object created, read back and deleted. Each step is printed with the seconds it took.",
		},
		Options: command.Options(c.flags(&pingOptions{})),
	}
}

func (c pingCommand) Run(ctx context.Context, cc *command.Context, args []string) error {
	var o pingOptions
	args, err := cc.Parse(c, c.flags(&o), args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return cc.UsageError(c, "ping takes no arguments")
	}

	container := o.container
	if container == "" {
		container = "swiftly-ping-" + utils.NewUUIDGenerator().Generate()
	}
	payload := []byte("swiftly ping " + container)

	return cc.WithClient(func(client adapter.Client) error {
		begin := cc.Time()
		step := func(name string, fn func() error) error {
			start := cc.Time()
			err := fn()
			fmt.Fprintf(cc.Stdout, "%7.3fs %s\n", cc.Time().Sub(start).Seconds(), name)
			return err
		}
		request := func(method, object string, body []byte) func() error {
			return func() error {
				req := adapter.Request{Method: method, Container: container, Object: object}
				if body != nil {
					req.Body = bytes.NewReader(body)
				}
				resp, err := client.Do(ctx, req)
				if err != nil {
					return requestError(joinPath(container, object), err)
				}
				if method == http.MethodGet && !bytes.Equal(resp.Content, payload) {
					return command.Errorf("GET %s: content does not match what was written", joinPath(container, object))
				}
				return nil
			}
		}

		steps := []struct {
			name string
			fn   func() error
		}{
			{"auth", func() error { return requestError("auth", client.Auth(ctx)) }},
			{"account head", func() error {
				_, err := client.Do(ctx, adapter.Request{Method: http.MethodHead})
				return requestError("account", err)
			}},
			{"container put", request(http.MethodPut, "", nil)},
			{"object put", request(http.MethodPut, pingObject, payload)},
			{"object get", request(http.MethodGet, pingObject, nil)},
			{"object delete", request(http.MethodDelete, pingObject, nil)},
			{"container delete", request(http.MethodDelete, "", nil)},
		}
		for _, s := range steps {
			if err := step(s.name, s.fn); err != nil {
				return err
			}
		}

		fmt.Fprintf(cc.Stdout, "%7.3fs total\n", cc.Time().Sub(begin).Seconds())
		return nil
	})
}
