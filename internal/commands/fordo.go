// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/MKhiriev/go-swiftly/internal/adapter"
	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/models"
	"github.com/spf13/pflag"
)

// itemPlaceholder is replaced with each listed path.
const itemPlaceholder = "<item>"

type fordoCommand struct{}

type fordoOptions struct {
	query listingQuery
}

func (fordoCommand) Name() string { return "fordo" }

func (c fordoCommand) flags(o *fordoOptions) *pflag.FlagSet {
	fs := command.NewFlagSet(c.Name())
	fs.SetInterspersed(false)
	fs.StringVarP(&o.query.Prefix, "prefix", "p", "", "Only items beginning with this prefix are used.")
	fs.StringVarP(&o.query.Delimiter, "delimiter", "d", "", "Names are rolled up at this delimiter.")
	return fs
}

func (c fordoCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "fordo [options] <path> do [options] <command> [options] <args>",
		Description: []string{
			"For each item in the listing of <path>, issues the <command> given, replacing " + itemPlaceholder + " in <args> with the item's path. The main options given to swiftly are passed to each command.",
			"Commands run concurrently up to the --concurrency limit. The alias \"for\" may be used instead of \"fordo\".",
			`Example: swiftly for container do delete "<item>"`,
		},
		Options: command.Options(c.flags(&fordoOptions{})),
	}
}

func (c fordoCommand) Run(ctx context.Context, cc *command.Context, args []string) error {
	var o fordoOptions
	args, err := cc.Parse(c, c.flags(&o), args)
	if err != nil {
		return err
	}
	if len(args) < 3 || args[1] != "do" {
		return cc.UsageError(c, "fordo requires <path> do <command...>")
	}

	container, object := splitPath(args[0])
	if object != "" {
		return cc.UsageError(c, "fordo requires an account or container path")
	}
	template := args[2:]

	var issued, failed atomic.Int64
	g := cc.Pool.Group(ctx)
	listErr := cc.WithClient(func(client adapter.Client) error {
		return list(g.Context(), cc, client, container, o.query, func(item models.ListingItem) error {
			path := item.Key()
			if container != "" {
				path = joinPath(container, path)
			}

			argv := slices.Clone(cc.OriginalMainArgs)
			for _, arg := range template {
				argv = append(argv, strings.ReplaceAll(arg, itemPlaceholder, path))
			}

			issued.Add(1)
			g.Go(func(ctx context.Context) error {
				cc.Verbosef("Issuing %v", argv)
				if code := cc.Dispatch(ctx, argv); code != 0 {
					failed.Add(1)
					cc.Logger.Debug().Str("item", path).Int("code", code).Msg("fordo command failed")
				}
				return nil
			})
			return nil
		})
	})

	if err = g.Wait(); err != nil {
		return err
	}
	if listErr != nil {
		return listErr
	}
	if n := failed.Load(); n > 0 {
		return command.Errorf("%d of %d commands failed", n, issued.Load())
	}
	return nil
}
