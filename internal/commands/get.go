// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-swiftly/internal/adapter"
	"github.com/MKhiriev/go-swiftly/internal/backend"
	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/models"
	"github.com/spf13/pflag"
)

type getCommand struct{}

type getOptions struct {
	headers    []string
	output     string
	subCommand string
	query      listingQuery
	full       bool
	allObjects bool
}

func (getCommand) Name() string { return "get" }

func (c getCommand) flags(o *getOptions) *pflag.FlagSet {
	fs := command.NewFlagSet(c.Name())
	fs.StringArrayVarP(&o.headers, "header", "H", nil,
		`Add a header to the request. This can be used multiple times for multiple headers. Examples: -H "If-Match: abc" -H "If-None-Match: def"`)
	fs.StringVarP(&o.output, "output", "o", "",
		"Indicates where to send the output; default is standard output. With --all-objects this is the directory the objects are written under.")
	fs.StringVar(&o.subCommand, "sub-command", "",
		"Sends the contents of each object downloaded as standard input to the shell command given.")
	fs.StringVarP(&o.query.Prefix, "prefix", "p", "", "For account and container listings, only names beginning with this prefix are returned.")
	fs.StringVarP(&o.query.Delimiter, "delimiter", "d", "", "For account and container listings, names are rolled up at this delimiter.")
	fs.IntVarP(&o.query.Limit, "limit", "l", 0, "For account and container listings, at most this many names are returned.")
	fs.StringVar(&o.query.Marker, "marker", "", "For account and container listings, only names after this marker are returned.")
	fs.StringVar(&o.query.EndMarker, "end-marker", "", "For account and container listings, only names before this marker are returned.")
	fs.BoolVarP(&o.full, "full", "f", false, "For account and container listings, outputs additional information about each item.")
	fs.BoolVarP(&o.allObjects, "all-objects", "a", false,
		"Downloads every object of the container given, concurrently up to the --concurrency limit. Requires --output or --sub-command.")
	return fs
}

func (c getCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "get [options] [path]",
		Description: []string{
			"Outputs the resulting contents from a GET request of the [path] given. If no [path] is given, a GET request on the account is performed.",
		},
		Options: command.Options(c.flags(&getOptions{})),
	}
}

func (c getCommand) Run(ctx context.Context, cc *command.Context, args []string) error {
	var o getOptions
	args, err := cc.Parse(c, c.flags(&o), args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return cc.UsageError(c, "get takes at most one path")
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
	switch {
	case o.allObjects:
		if container == "" || object != "" {
			return cc.UsageError(c, "--all-objects requires a container path")
		}
		if o.output == "" && o.subCommand == "" {
			return cc.UsageError(c, "--all-objects requires --output or --sub-command")
		}
		return c.getAll(ctx, cc, container, headers, o)
	case object == "":
		return c.listing(ctx, cc, container, o)
	default:
		return cc.WithClient(func(client adapter.Client) error {
			return download(ctx, cc, client, container, object, headers, o.output, o.subCommand)
		})
	}
}

func (c getCommand) listing(ctx context.Context, cc *command.Context, container string, o getOptions) error {
	return cc.WithClient(func(client adapter.Client) error {
		return list(ctx, cc, client, container, o.query, func(item models.ListingItem) error {
			switch {
			case !o.full || item.Name == "":
				fmt.Fprintln(cc.Stdout, item.Key())
			case container == "":
				fmt.Fprintf(cc.Stdout, "%12d %12d %s\n", item.Count, item.Bytes, item.Name)
			default:
				fmt.Fprintf(cc.Stdout, "%12d %-32s %-26s %s\n", item.Bytes, item.Hash, item.LastModified, item.Name)
			}
			return nil
		})
	})
}

func (c getCommand) getAll(ctx context.Context, cc *command.Context, container string, headers http.Header, o getOptions) error {
	root := filepath.Clean(o.output)

	g := cc.Pool.Group(ctx)
	listErr := cc.WithClient(func(client adapter.Client) error {
		return list(g.Context(), cc, client, container, o.query, func(item models.ListingItem) error {
			if item.Name == "" {
				return nil
			}

			dest := ""
			if o.output != "" {
				dest = filepath.Join(root, filepath.FromSlash(item.Name))
				if !strings.HasPrefix(dest, root+string(filepath.Separator)) {
					return command.Errorf("Refusing to write %q outside of %s", item.Name, root)
				}
			}

			name := item.Name
			g.Go(func(ctx context.Context) error {
				cc.Verbosef("Downloading %s/%s", container, name)
				return cc.WithClient(func(client adapter.Client) error {
					return download(ctx, cc, client, container, name, headers, dest, o.subCommand)
				})
			})
			return nil
		})
	})

	// a failed download cancels the listing; report the download error
	if err := g.Wait(); err != nil {
		return err
	}
	return listErr
}

// download writes one object to dest (standard output when empty or "-"),
// or pipes it into subCommand.
func download(ctx context.Context, cc *command.Context, client adapter.Client, container, object string, headers http.Header, dest, subCommand string) error {
	path := joinPath(container, object)
	resp, err := client.Do(ctx, adapter.Request{
		Method:    http.MethodGet,
		Container: container,
		Object:    object,
		Headers:   headers,
		CDN:       cc.Config.CDN,
		Stream:    true,
	})
	if err != nil {
		return requestError(path, err)
	}
	defer resp.Body.Close()

	if subCommand != "" {
		cmd := backend.ShellCommand(subCommand)
		cmd.Stdin = resp.Body
		cmd.Stdout = cc.Stdout
		cmd.Stderr = cc.Stderr

		err = cc.Runner.Run(ctx, cmd)
		var exitErr *backend.ExitError
		if errors.As(err, &exitErr) {
			return command.Errorf("Sub-command for %s exited with code %d", path, exitErr.Code)
		}
		return err
	}

	if dest == "" || dest == "-" {
		if _, err = io.Copy(cc.Stdout, resp.Body); err != nil {
			return fmt.Errorf("copy %s: %w", path, err)
		}
		return nil
	}

	if err = os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dest, err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err = io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return f.Close()
}
