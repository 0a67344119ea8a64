package adapter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/go-swiftly/internal/logger"
	"github.com/MKhiriev/go-swiftly/internal/utils"
)

// maxErrorBody caps how much of a streamed error body is kept for the
// StatusError message.
const maxErrorBody = 64 << 10

// VerboseFunc receives user-facing diagnostic lines.
type VerboseFunc func(format string, args ...any)

func (f VerboseFunc) orNop() VerboseFunc {
	if f == nil {
		return func(string, ...any) {}
	}
	return f
}

// transport performs raw storage requests for both client kinds.
type transport struct {
	http    *utils.HTTPClient
	verbose VerboseFunc
	logger  *logger.Logger
}

func newTransport(attempts int, proxy string, verbose VerboseFunc, log *logger.Logger) transport {
	if log == nil {
		log = logger.Nop()
	}
	return transport{
		http: utils.NewHTTPClient(utils.HTTPClientOptions{
			Attempts: attempts,
			Proxy:    proxy,
			IDs:      utils.NewUUIDGenerator(),
		}),
		verbose: verbose.orNop(),
		logger:  log,
	}
}

func (t transport) do(ctx context.Context, baseURL, token string, req Request) (*Response, error) {
	target := strings.TrimRight(baseURL, "/") + req.Path()

	r := t.http.R().SetContext(ctx)
	if token != "" {
		r.SetHeader("X-Auth-Token", token)
	}
	if len(req.Headers) > 0 {
		r.SetHeaderMultiValues(req.Headers)
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(utils.ReplayableBody(req.Body))
	}
	if req.Stream {
		r.SetDoNotParseResponse(true)
	}

	t.verbose("> %s %s", req.Method, target)
	resp, err := r.Execute(req.Method, target)
	if err != nil {
		t.logger.Debug().Err(err).Str("method", req.Method).Str("url", target).Msg("request failed")
		return nil, fmt.Errorf("%s %s: %w", req.Method, target, err)
	}
	t.verbose("< %s %s", resp.Status(), target)

	out := &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Headers:    resp.Header(),
	}
	if req.Stream {
		out.Body = resp.RawBody()
	} else {
		out.Content = resp.Body()
	}

	if err = mapHTTPError(req.Method, target, out); err != nil {
		if out.Body != nil {
			if statusErr, ok := err.(*StatusError); ok {
				content, _ := io.ReadAll(io.LimitReader(out.Body, maxErrorBody))
				statusErr.Body = strings.TrimSpace(string(content))
			}
			_ = out.Body.Close()
		}
		return nil, err
	}

	return out, nil
}
