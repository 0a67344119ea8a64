// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-swiftly/internal/adapter"
	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/models"
)

// All returns every subcommand.
func All() []command.Command {
	return []command.Command{
		authCommand{},
		decryptCommand{},
		deleteCommand{},
		encryptCommand{},
		fordoCommand{},
		getCommand{},
		headCommand{},
		helpCommand{},
		pingCommand{},
		postCommand{},
		putCommand{},
		tempurlCommand{},
		transCommand{},
	}
}

// splitPath splits "container/object/name" at the first slash. A leading
// slash is ignored.
func splitPath(path string) (container, object string) {
	path = strings.TrimPrefix(path, "/")
	container, object, _ = strings.Cut(path, "/")
	return container, object
}

// joinPath is the inverse of splitPath.
func joinPath(container, object string) string {
	if object == "" {
		return container
	}
	return container + "/" + object
}

func displayPath(path string) string {
	if path == "" {
		return "account"
	}
	return path
}

// requestError turns expected transport failures into user-facing
// *command.Error values. Anything else is returned unchanged and reported
// with a trace.
func requestError(what string, err error) error {
	var statusErr *adapter.StatusError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &statusErr):
		return command.Errorf("%s %s: %s", statusErr.Method, what, statusErr.Status)
	case errors.Is(err, adapter.ErrAuthFailed),
		errors.Is(err, adapter.ErrNoAuthURL),
		errors.Is(err, adapter.ErrCDNUnsupported):
		return command.Errorf("%s", err)
	default:
		return err
	}
}

// listingQuery holds the listing parameters shared by get, delete and fordo.
type listingQuery struct {
	Prefix    string
	Delimiter string
	Marker    string
	EndMarker string
	Limit     int
}

// list walks the JSON listing of container, or of the account when
// container is empty, page by page.
func list(ctx context.Context, cc *command.Context, client adapter.Client, container string, q listingQuery, fn func(models.ListingItem) error) error {
	marker := q.Marker
	seen := 0
	for {
		query := url.Values{"format": {"json"}}
		for key, value := range map[string]string{
			"prefix":     q.Prefix,
			"delimiter":  q.Delimiter,
			"marker":     marker,
			"end_marker": q.EndMarker,
		} {
			if value != "" {
				query.Set(key, value)
			}
		}
		if q.Limit > 0 {
			query.Set("limit", strconv.Itoa(q.Limit-seen))
		}

		resp, err := client.Do(ctx, adapter.Request{
			Method:    http.MethodGet,
			Container: container,
			Query:     query,
			CDN:       cc.Config.CDN,
		})
		if err != nil {
			return requestError(displayPath(container), err)
		}

		var items []models.ListingItem
		if len(resp.Content) > 0 {
			if err = json.Unmarshal(resp.Content, &items); err != nil {
				return fmt.Errorf("decode listing of %s: %w", displayPath(container), err)
			}
		}
		if len(items) == 0 {
			return nil
		}

		for _, item := range items {
			if err = fn(item); err != nil {
				return err
			}
			seen++
			if q.Limit > 0 && seen >= q.Limit {
				return nil
			}
		}
		marker = items[len(items)-1].Key()
	}
}

// writeHeaders prints headers sorted by name with the values aligned.
func writeHeaders(w io.Writer, headers http.Header) {
	names := make([]string, 0, len(headers))
	width := 0
	for name := range headers {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range headers[name] {
			fmt.Fprintf(w, "%-*s %s\n", width+1, name+":", value)
		}
	}
}
