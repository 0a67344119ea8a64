package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/MKhiriev/go-swiftly/internal/logger"
	"github.com/MKhiriev/go-swiftly/internal/utils"
	"github.com/MKhiriev/go-swiftly/models"
)

// StandardOptions configures a [StandardClient].
type StandardOptions struct {
	AuthURL     string
	AuthUser    string
	AuthKey     string
	AuthTenant  string
	AuthMethods []string
	Region      string
	SNet        bool
	Proxy       string

	// Attempts is the total number of tries per request.
	Attempts int

	// AuthCachePath enables the on-disk auth cache when non-empty.
	AuthCachePath string

	Verbose VerboseFunc
	Logger  *logger.Logger
}

// StandardClient talks to the storage service through its public proxy,
// authenticating with one of the configured auth methods.
type StandardClient struct {
	transport

	opts  StandardOptions
	cache *authCache

	mu   sync.Mutex
	info models.AuthInfo
}

// NewStandardClient constructs a [StandardClient]. No request is made until
// Auth or Do is called.
func NewStandardClient(opts StandardOptions) *StandardClient {
	c := &StandardClient{
		transport: newTransport(opts.Attempts, opts.Proxy, opts.Verbose, opts.Logger),
		opts:      opts,
	}
	if opts.AuthCachePath != "" {
		c.cache = newAuthCache(opts.AuthCachePath, c.logger)
	}
	return c
}

// Auth implements [Client]. A cached auth record is used when the cache is
// enabled and holds one; otherwise the auth methods are tried in order.
func (c *StandardClient) Auth(ctx context.Context) error {
	if c.cache != nil {
		if info, ok := c.cache.load(); ok {
			c.verbose("Using cached auth info from %s", c.cache.path)
			c.setInfo(info)
			return nil
		}
	}

	info, err := c.authenticate(ctx)
	if err != nil {
		return err
	}

	if c.opts.SNet {
		if info.StorageURL, err = snetURL(info.StorageURL); err != nil {
			return err
		}
	}
	c.setInfo(info)

	if c.cache != nil {
		if err = c.cache.store(info); err != nil {
			c.logger.Warn().Err(err).Str("path", c.cache.path).Msg("failed to write auth cache")
		}
	}
	return nil
}

// Info implements [Client].
func (c *StandardClient) Info() models.AuthInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info
}

// Reset implements [Client].
func (c *StandardClient) Reset() {
	c.setInfo(models.AuthInfo{})
	if c.cache != nil {
		c.cache.clear()
	}
}

// Do implements [Client]. A 401 reply triggers one fresh authentication and
// a retry, provided the request body can be replayed.
func (c *StandardClient) Do(ctx context.Context, req Request) (*Response, error) {
	if c.Info().IsZero() {
		if err := c.Auth(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.send(ctx, req)
	if !errors.Is(err, ErrUnauthorized) || !utils.Rewind(req.Body) {
		return resp, err
	}

	c.verbose("Auth token rejected; reauthenticating")
	c.Reset()
	if err = c.Auth(ctx); err != nil {
		return nil, err
	}
	return c.send(ctx, req)
}

func (c *StandardClient) send(ctx context.Context, req Request) (*Response, error) {
	info := c.Info()
	base := info.StorageURL
	if req.CDN {
		if info.CDNURL == "" {
			return nil, ErrCDNUnsupported
		}
		base = info.CDNURL
	}
	return c.do(ctx, base, info.AuthToken, req)
}

func (c *StandardClient) setInfo(info models.AuthInfo) {
	c.mu.Lock()
	c.info = info
	c.mu.Unlock()
}

// snetURL prefixes the host of storageURL with "snet-".
func snetURL(storageURL string) (string, error) {
	u, err := url.Parse(storageURL)
	if err != nil {
		return "", fmt.Errorf("parse storage url: %w", err)
	}
	u.Host = "snet-" + u.Host
	return u.String(), nil
}
