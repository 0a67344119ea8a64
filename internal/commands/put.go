// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/MKhiriev/go-swiftly/internal/adapter"
	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/internal/workers"
	"github.com/spf13/pflag"
)

type putCommand struct{}

type putOptions struct {
	headers []string
	input   string
}

func (putCommand) Name() string { return "put" }

func (c putCommand) flags(o *putOptions) *pflag.FlagSet {
	fs := command.NewFlagSet(c.Name())
	fs.StringArrayVarP(&o.headers, "header", "H", nil,
		`Add a header to the request. This can be used multiple times for multiple headers. Examples: -H "X-Object-Meta-Color: blue" -H "Content-Type: text/plain"`)
	fs.StringVarP(&o.input, "input", "i", "",
		`Indicates where to read the contents from; default is standard input. If the path is a directory, every file under it is uploaded concurrently, named by its relative path. If <path> names only a container, the object is named after the file.`)
	return fs
}

func (c putCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "put [options] <path>",
		Description: []string{
			"Performs a PUT request on the <path> given. If the <path> is an object, the contents for the object are read from standard input or the --input given.",
		},
		Options: command.Options(c.flags(&putOptions{})),
	}
}

func (c putCommand) Run(ctx context.Context, cc *command.Context, args []string) error {
	var o putOptions
	args, err := cc.Parse(c, c.flags(&o), args)
	if err != nil {
		return err
	}
	if len(args) != 1 || args[0] == "" {
		return cc.UsageError(c, "put requires exactly one path")
	}

	headers, err := command.ParseHeaders(o.headers)
	if err != nil {
		return err
	}

	container, object := splitPath(args[0])
	if container == "" {
		return cc.UsageError(c, "put requires a container path")
	}

	if o.input == "" {
		var body io.Reader
		if object != "" {
			body = cc.Stdin
		}
		return cc.WithClient(func(client adapter.Client) error {
			return upload(ctx, cc, client, container, object, headers, body)
		})
	}

	stat, err := os.Stat(o.input)
	if err != nil {
		return command.Errorf("Could not read %s: %s", o.input, err)
	}
	if stat.IsDir() {
		return c.putDir(ctx, cc, container, object, headers, o.input)
	}

	if object == "" {
		object = filepath.Base(o.input)
	}
	return cc.WithClient(func(client adapter.Client) error {
		return uploadFile(ctx, cc, client, container, object, headers, o.input)
	})
}

func (c putCommand) putDir(ctx context.Context, cc *command.Context, container, prefix string, headers http.Header, dir string) error {
	var uploads []workers.Task
	err := filepath.WalkDir(dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, name)
		if err != nil {
			return err
		}
		object := path.Join(prefix, filepath.ToSlash(rel))

		uploads = append(uploads, func(ctx context.Context) error {
			cc.Verbosef("Uploading %s to %s/%s", name, container, object)
			return cc.WithClient(func(client adapter.Client) error {
				return uploadFile(ctx, cc, client, container, object, headers, name)
			})
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", dir, err)
	}

	return cc.Pool.Execute(ctx, uploads...)
}

func uploadFile(ctx context.Context, cc *command.Context, client adapter.Client, container, object string, headers http.Header, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return command.Errorf("Could not read %s: %s", name, err)
	}
	defer f.Close()

	return upload(ctx, cc, client, container, object, headers, f)
}

func upload(ctx context.Context, cc *command.Context, client adapter.Client, container, object string, headers http.Header, body io.Reader) error {
	_, err := client.Do(ctx, adapter.Request{
		Method:    http.MethodPut,
		Container: container,
		Object:    object,
		Headers:   headers,
		Body:      body,
		CDN:       cc.Config.CDN,
	})
	return requestError(joinPath(container, object), err)
}
