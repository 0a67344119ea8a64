package adapter

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-swiftly/internal/logger"
	"github.com/MKhiriev/go-swiftly/models"
)

// DirectOptions configures a [DirectClient].
type DirectOptions struct {
	// Path is the account path, e.g. /v1/AUTH_test.
	Path string

	// Endpoint is the backend address the account path is resolved against.
	Endpoint string

	Proxy    string
	Attempts int

	Verbose VerboseFunc
	Logger  *logger.Logger
}

// DirectClient addresses an account path without authenticating. It never
// sends an auth token and has no CDN management URL.
type DirectClient struct {
	transport

	info models.AuthInfo
}

// NewDirectClient constructs a [DirectClient].
func NewDirectClient(opts DirectOptions) *DirectClient {
	path := "/" + strings.Trim(opts.Path, "/")
	return &DirectClient{
		transport: newTransport(opts.Attempts, opts.Proxy, opts.Verbose, opts.Logger),
		info: models.AuthInfo{
			StorageURL: strings.TrimRight(opts.Endpoint, "/") + path,
			DirectPath: path,
		},
	}
}

// Auth implements [Client]; there is nothing to do.
func (c *DirectClient) Auth(context.Context) error {
	return nil
}

// Info implements [Client].
func (c *DirectClient) Info() models.AuthInfo {
	return c.info
}

// Reset implements [Client]; there is nothing to forget.
func (c *DirectClient) Reset() {}

// Do implements [Client].
func (c *DirectClient) Do(ctx context.Context, req Request) (*Response, error) {
	if req.CDN {
		return nil, ErrCDNUnsupported
	}
	return c.do(ctx, c.info.StorageURL, "", req)
}
