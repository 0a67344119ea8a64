// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/models"
	"github.com/spf13/pflag"
)

// Transaction ids look like tx<21 hex>-<10 hex unix time><extra>.
const (
	transPrefixLen = 23
	transTimeLen   = 10
)

type transCommand struct{}

func (transCommand) Name() string { return "trans" }

func (c transCommand) flags() *pflag.FlagSet {
	return command.NewFlagSet(c.Name())
}

func (c transCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "trans [trans_id]",
		Description: []string{
			"Outputs information about the transaction id given, such as when it was created and any extra information given with X-Trans-Id-Extra.",
		},
		Options: command.Options(c.flags()),
	}
}

func (c transCommand) Run(_ context.Context, cc *command.Context, args []string) error {
	args, err := cc.Parse(c, c.flags(), args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return cc.UsageError(c, "trans requires exactly one transaction id")
	}

	info, err := parseTransID(args[0])
	if err != nil {
		return err
	}

	out := http.Header{
		"Trans ID": {info.ID},
		"UTC Time": {info.Time.Format(time.DateTime)},
	}
	if info.Extra != "" {
		out["Extra"] = []string{info.Extra}
	}
	writeHeaders(cc.Stdout, out)
	return nil
}

func parseTransID(id string) (models.TransInfo, error) {
	if !strings.HasPrefix(id, "tx") || len(id) < transPrefixLen+1+transTimeLen || id[transPrefixLen] != '-' {
		return models.TransInfo{}, command.Errorf("Invalid trans id %q", id)
	}

	stamp := id[transPrefixLen+1 : transPrefixLen+1+transTimeLen]
	seconds, err := strconv.ParseInt(stamp, 16, 64)
	if err != nil {
		return models.TransInfo{}, command.Errorf("Invalid trans id %q: bad timestamp %q", id, stamp)
	}

	extra := strings.TrimPrefix(id[transPrefixLen+1+transTimeLen:], "-")
	if unescaped, err := url.PathUnescape(extra); err == nil {
		extra = unescaped
	}

	return models.TransInfo{
		ID:    id,
		Time:  time.Unix(seconds, 0).UTC(),
		Extra: extra,
	}, nil
}
