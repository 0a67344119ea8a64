// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/go-swiftly/internal/adapter"
	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/internal/logger"
	"github.com/MKhiriev/go-swiftly/models"
	"github.com/spf13/pflag"
)

// untilEmptyWait is the pause between --until-empty rounds.
var untilEmptyWait = time.Second

type deleteCommand struct{}

type deleteOptions struct {
	headers       []string
	recursive     bool
	untilEmpty    bool
	ignoreMissing bool
}

func (deleteCommand) Name() string { return "delete" }

func (c deleteCommand) flags(o *deleteOptions) *pflag.FlagSet {
	fs := command.NewFlagSet(c.Name())
	fs.StringArrayVarP(&o.headers, "header", "H", nil,
		`Add a header to the request. This can be used multiple times for multiple headers. Examples: -H "If-Match: abc" -H "If-None-Match: def"`)
	fs.BoolVar(&o.recursive, "recursive", false,
		"Normally a delete for a non-empty container will error with a 409 Conflict; --recursive will first delete all objects in a container and then delete the container itself, concurrently up to the --concurrency limit.")
	fs.BoolVar(&o.untilEmpty, "until-empty", false,
		"If used with --recursive, will attempt to empty the container over and over until it is empty, since listings can lag behind deletions.")
	fs.BoolVar(&o.ignoreMissing, "ignore-404", false,
		"Ignores 404 Not Found responses.")
	return fs
}

func (c deleteCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "delete [options] <path>",
		Description: []string{
			"Issues a DELETE request of the <path> given.",
		},
		Options: command.Options(c.flags(&deleteOptions{})),
	}
}

func (c deleteCommand) Run(ctx context.Context, cc *command.Context, args []string) error {
	var o deleteOptions
	args, err := cc.Parse(c, c.flags(&o), args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return cc.UsageError(c, "delete requires exactly one path")
	}

	container, object := splitPath(args[0])
	if container == "" {
		return command.Errorf("Refusing to delete the account")
	}
	if o.untilEmpty && !o.recursive {
		return cc.UsageError(c, "--until-empty requires --recursive")
	}
	headers, err := command.ParseHeaders(o.headers)
	if err != nil {
		return err
	}

	if object != "" || !o.recursive {
		return cc.WithClient(func(client adapter.Client) error {
			err := remove(ctx, cc, client, container, object, headers, o.ignoreMissing)
			return requestError(joinPath(container, object), err)
		})
	}

	for {
		if err = c.deleteContents(ctx, cc, container); err != nil {
			return err
		}

		err = cc.WithClient(func(client adapter.Client) error {
			return remove(ctx, cc, client, container, "", headers, o.ignoreMissing)
		})
		if !o.untilEmpty || !errors.Is(err, adapter.ErrConflict) {
			return requestError(container, err)
		}

		cc.Verbosef("Container %s not yet empty; trying again", container)
		logger.FromContext(ctx).Debug().Str("container", container).Msg("container not empty, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(untilEmptyWait):
		}
	}
}

func (c deleteCommand) deleteContents(ctx context.Context, cc *command.Context, container string) error {
	g := cc.Pool.Group(ctx)
	listErr := cc.WithClient(func(client adapter.Client) error {
		return list(g.Context(), cc, client, container, listingQuery{}, func(item models.ListingItem) error {
			if item.Name == "" {
				return nil
			}
			name := item.Name
			g.Go(func(ctx context.Context) error {
				cc.Verbosef("Deleting %s/%s", container, name)
				return cc.WithClient(func(client adapter.Client) error {
					// objects may already be gone when listings lag
					err := remove(ctx, cc, client, container, name, nil, true)
					return requestError(joinPath(container, name), err)
				})
			})
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return listErr
}

func remove(ctx context.Context, cc *command.Context, client adapter.Client, container, object string, headers http.Header, ignoreMissing bool) error {
	_, err := client.Do(ctx, adapter.Request{
		Method:    http.MethodDelete,
		Container: container,
		Object:    object,
		Headers:   headers,
		CDN:       cc.Config.CDN,
	})
	if ignoreMissing && errors.Is(err, adapter.ErrNotFound) {
		return nil
	}
	return err
}
