package utils

import (
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// TransIDExtraHeader tags every request so that it can be found in the
// storage cluster logs.
const TransIDExtraHeader = "X-Trans-Id-Extra"

// HTTPClientOptions configures NewHTTPClient.
type HTTPClientOptions struct {
	// Attempts is the total number of tries per request (retries + 1).
	// Values below one are treated as one.
	Attempts int

	// Proxy is an optional HTTP proxy URL.
	Proxy string

	// Timeout bounds a single attempt. Zero means no timeout.
	Timeout time.Duration

	// RetryWait is the initial backoff between attempts.
	RetryWait time.Duration

	// IDs generates the X-Trans-Id-Extra value. Nil disables tagging.
	IDs *UUIDGenerator
}

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient(utils.HTTPClientOptions{Attempts: 5})
//	resp, err := client.R().Get("https://example.com")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates and returns a new HTTPClient instance configured
// with the retry count, proxy and request tagging from opts.
//
// Requests are retried on transport errors and 5xx responses until
// opts.Attempts is exhausted. A request whose body cannot be rewound
// (see [Rewind]) is sent once. Each call returns an independent client with
// its own connection pool.
func NewHTTPClient(opts HTTPClientOptions) *HTTPClient {
	client := resty.New()

	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}
	client.
		SetRetryCount(attempts - 1).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r == nil {
				// the request never reached the wire
				return err != nil
			}
			if err == nil && r.StatusCode() < http.StatusInternalServerError {
				return false
			}
			return Rewind(r.Request.Body)
		})

	if opts.RetryWait > 0 {
		client.SetRetryWaitTime(opts.RetryWait)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Proxy != "" {
		client.SetProxy(opts.Proxy)
	}
	if opts.IDs != nil {
		ids := opts.IDs
		client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if r.Header.Get(TransIDExtraHeader) == "" {
				r.SetHeader(TransIDExtraHeader, ids.Generate())
			}
			return nil
		})
	}

	return &HTTPClient{Client: client}
}

// ReplayableBody hides the Close method of body so that net/http does not
// close it after the first attempt. Seekable bodies stay seekable.
func ReplayableBody(body io.Reader) io.Reader {
	switch b := body.(type) {
	case nil:
		return nil
	case io.ReadSeeker:
		return seekableBody{ReadSeeker: b}
	default:
		return streamBody{Reader: b}
	}
}

type seekableBody struct{ io.ReadSeeker }

type streamBody struct{ io.Reader }

// Rewind moves body back to its start for another attempt. It reports
// false when body cannot be replayed. A nil body is always replayable.
func Rewind(body any) bool {
	if body == nil {
		return true
	}
	seeker, ok := body.(io.Seeker)
	if !ok {
		return false
	}
	_, err := seeker.Seek(0, io.SeekStart)
	return err == nil
}
