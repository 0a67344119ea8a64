// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MKhiriev/go-swiftly/internal/adapter"
	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/internal/utils"
	"github.com/spf13/pflag"
)

const (
	tempURLKeyHeader      = "X-Account-Meta-Temp-Url-Key"
	defaultTempURLSeconds = 3600
)

// tempURLSigners maps --digest values to HMAC hex signers.
var tempURLSigners = map[string]func(data, key string) string{
	"sha1": func(data, key string) string {
		return utils.HashStringWith(sha1.New, data, key)
	},
	"sha256": utils.HashString,
}

type tempurlCommand struct{}

type tempurlOptions struct {
	method string
	digest string
}

func (tempurlCommand) Name() string { return "tempurl" }

func (c tempurlCommand) flags(o *tempurlOptions) *pflag.FlagSet {
	fs := command.NewFlagSet(c.Name())
	fs.StringVarP(&o.method, "method", "m", http.MethodGet, "The method the temporary URL allows.")
	fs.StringVar(&o.digest, "digest", "sha1", "The HMAC digest to sign with: sha1 or sha256.")
	return fs
}

func (c tempurlCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "tempurl [options] <path> [seconds]",
		Description: []string{
			"Outputs a temporary URL for the <path> given, valid for [seconds] (default " + strconv.Itoa(defaultTempURLSeconds) + "). The account must have " + tempURLKeyHeader + " set.",
		},
		Options: command.Options(c.flags(&tempurlOptions{})),
	}
}

func (c tempurlCommand) Run(ctx context.Context, cc *command.Context, args []string) error {
	var o tempurlOptions
	args, err := cc.Parse(c, c.flags(&o), args)
	if err != nil {
		return err
	}
	if len(args) < 1 || len(args) > 2 {
		return cc.UsageError(c, "tempurl requires a path and optional seconds")
	}

	container, object := splitPath(args[0])
	if container == "" || object == "" {
		return cc.UsageError(c, "tempurl requires an object path")
	}
	seconds := defaultTempURLSeconds
	if len(args) == 2 {
		if seconds, err = strconv.Atoi(args[1]); err != nil || seconds <= 0 {
			return cc.UsageError(c, "invalid seconds %q", args[1])
		}
	}
	sign, ok := tempURLSigners[o.digest]
	if !ok {
		return cc.UsageError(c, "unknown digest %q", o.digest)
	}

	return cc.WithClient(func(client adapter.Client) error {
		resp, err := client.Do(ctx, adapter.Request{Method: http.MethodHead})
		if err != nil {
			return requestError("account", err)
		}
		key := resp.Headers.Get(tempURLKeyHeader)
		if key == "" {
			return command.Errorf("No %s set on the account", tempURLKeyHeader)
		}

		storage, err := url.Parse(client.Info().StorageURL)
		if err != nil {
			return fmt.Errorf("parse storage url: %w", err)
		}

		expires := cc.Time().Unix() + int64(seconds)
		signed := storage.Path + "/" + joinPath(container, object)
		sig := sign(fmt.Sprintf("%s\n%d\n%s", o.method, expires, signed), key)

		target := *storage
		target.RawPath = ""
		target.Path = signed
		target.RawQuery = url.Values{
			"temp_url_sig":     {sig},
			"temp_url_expires": {strconv.FormatInt(expires, 10)},
		}.Encode()
		fmt.Fprintln(cc.Stdout, target.String())
		return nil
	})
}
