package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-swiftly/models"
)

// Auth method names accepted in AuthMethods.
const (
	MethodAuth1                    = "auth1"
	MethodAuth2Key                 = "auth2key"
	MethodAuth2Password            = "auth2password"
	MethodAuth2PasswordForceTenant = "auth2password_force_tenant"
)

const (
	serviceObjectStore = "object-store"
	serviceObjectCDN   = "rax:object-cdn"
)

// defaultMethods picks the method order when none is configured: v2 style
// auth URLs try the token API first.
func defaultMethods(authURL string) []string {
	if strings.Contains(authURL, "v2") {
		return []string{MethodAuth2Key, MethodAuth2Password, MethodAuth2PasswordForceTenant, MethodAuth1}
	}
	return []string{MethodAuth1, MethodAuth2Key, MethodAuth2Password, MethodAuth2PasswordForceTenant}
}

func (c *StandardClient) authenticate(ctx context.Context) (models.AuthInfo, error) {
	if c.opts.AuthURL == "" {
		return models.AuthInfo{}, ErrNoAuthURL
	}

	methods := c.opts.AuthMethods
	if len(methods) == 0 {
		methods = defaultMethods(c.opts.AuthURL)
	}

	var errs []error
	for _, method := range methods {
		var (
			info models.AuthInfo
			err  error
		)
		switch method {
		case MethodAuth1:
			info, err = c.auth1(ctx)
		case MethodAuth2Key, MethodAuth2Password, MethodAuth2PasswordForceTenant:
			info, err = c.auth2(ctx, method)
		default:
			err = fmt.Errorf("%w %q", ErrUnknownAuthMethod, method)
		}
		if err == nil {
			c.verbose("Authenticated with %s", method)
			return info, nil
		}

		c.verbose("Auth method %s failed: %s", method, err)
		errs = append(errs, fmt.Errorf("%s: %w", method, err))
	}

	return models.AuthInfo{}, fmt.Errorf("%w: %w", ErrAuthFailed, errors.Join(errs...))
}

func (c *StandardClient) auth1(ctx context.Context) (models.AuthInfo, error) {
	c.verbose("> GET %s", c.opts.AuthURL)
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Auth-User", c.opts.AuthUser).
		SetHeader("X-Auth-Key", c.opts.AuthKey).
		Get(c.opts.AuthURL)
	if err != nil {
		return models.AuthInfo{}, fmt.Errorf("auth1 request: %w", err)
	}
	c.verbose("< %s %s", resp.Status(), c.opts.AuthURL)

	out := &Response{StatusCode: resp.StatusCode(), Status: resp.Status(), Headers: resp.Header(), Content: resp.Body()}
	if err = mapHTTPError(http.MethodGet, c.opts.AuthURL, out); err != nil {
		return models.AuthInfo{}, err
	}

	info := models.AuthInfo{
		StorageURL: out.Headers.Get("X-Storage-Url"),
		CDNURL:     out.Headers.Get("X-CDN-Management-Url"),
		AuthToken:  out.Headers.Get("X-Auth-Token"),
	}
	if info.AuthToken == "" {
		info.AuthToken = out.Headers.Get("X-Storage-Token")
	}
	if info.StorageURL == "" || info.AuthToken == "" {
		return models.AuthInfo{}, ErrNoEndpoint
	}
	return info, nil
}

type auth2Request struct {
	Auth auth2Credentials `json:"auth"`
}

type auth2Credentials struct {
	APIKey     *auth2APIKey   `json:"RAX-KSKEY:apiKeyCredentials,omitempty"`
	Password   *auth2Password `json:"passwordCredentials,omitempty"`
	TenantName string         `json:"tenantName,omitempty"`
}

type auth2APIKey struct {
	Username string `json:"username"`
	APIKey   string `json:"apiKey"`
}

type auth2Password struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type auth2Response struct {
	Access struct {
		Token struct {
			ID string `json:"id"`
		} `json:"token"`
		ServiceCatalog []auth2Service `json:"serviceCatalog"`
	} `json:"access"`
}

type auth2Service struct {
	Type      string          `json:"type"`
	Endpoints []auth2Endpoint `json:"endpoints"`
}

type auth2Endpoint struct {
	Region      string `json:"region"`
	PublicURL   string `json:"publicURL"`
	InternalURL string `json:"internalURL"`
}

func (c *StandardClient) auth2Body(method string) auth2Request {
	var body auth2Request
	switch method {
	case MethodAuth2Key:
		body.Auth.APIKey = &auth2APIKey{Username: c.opts.AuthUser, APIKey: c.opts.AuthKey}
	default:
		body.Auth.Password = &auth2Password{Username: c.opts.AuthUser, Password: c.opts.AuthKey}
	}

	body.Auth.TenantName = c.opts.AuthTenant
	if method == MethodAuth2PasswordForceTenant && body.Auth.TenantName == "" {
		body.Auth.TenantName = c.opts.AuthUser
	}
	return body
}

func (c *StandardClient) auth2(ctx context.Context, method string) (models.AuthInfo, error) {
	target := strings.TrimRight(c.opts.AuthURL, "/")
	if !strings.HasSuffix(target, "/tokens") {
		target += "/tokens"
	}

	c.verbose("> POST %s", target)
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(c.auth2Body(method)).
		Post(target)
	if err != nil {
		return models.AuthInfo{}, fmt.Errorf("%s request: %w", method, err)
	}
	c.verbose("< %s %s", resp.Status(), target)

	out := &Response{StatusCode: resp.StatusCode(), Status: resp.Status(), Headers: resp.Header(), Content: resp.Body()}
	if err = mapHTTPError(http.MethodPost, target, out); err != nil {
		return models.AuthInfo{}, err
	}

	var body auth2Response
	if err = json.Unmarshal(out.Content, &body); err != nil {
		return models.AuthInfo{}, fmt.Errorf("decode %s response: %w", method, err)
	}

	info := models.AuthInfo{
		AuthToken:  body.Access.Token.ID,
		StorageURL: c.endpoint(body.Access.ServiceCatalog, serviceObjectStore),
		CDNURL:     c.endpoint(body.Access.ServiceCatalog, serviceObjectCDN),
	}
	if info.StorageURL == "" || info.AuthToken == "" {
		return models.AuthInfo{}, ErrNoEndpoint
	}
	return info, nil
}

// endpoint returns the public URL of the first endpoint of serviceType in
// the configured region, or in any region when none is configured.
func (c *StandardClient) endpoint(catalog []auth2Service, serviceType string) string {
	for _, service := range catalog {
		if service.Type != serviceType {
			continue
		}
		for _, ep := range service.Endpoints {
			if c.opts.Region == "" || strings.EqualFold(ep.Region, c.opts.Region) {
				return ep.PublicURL
			}
		}
	}
	return ""
}
