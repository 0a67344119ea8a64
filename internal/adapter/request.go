package adapter

import (
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request names an account (empty Container), a container (empty Object) or
// an object, plus the method and optional query, headers and body.
type Request struct {
	Method    string
	Container string
	Object    string
	Query     url.Values
	Headers   http.Header
	Body      io.Reader

	// CDN sends the request to the CDN management URL instead of the
	// storage URL.
	CDN bool

	// Stream leaves the response body open in Response.Body instead of
	// buffering it into Response.Content. The caller must close it.
	Stream bool
}

// Response is a successful (2xx) reply.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header

	// Content holds the buffered body when the request was not streamed.
	Content []byte

	// Body is the open body of a streamed request.
	Body io.ReadCloser
}

// Path returns the escaped account-relative path of req, e.g.
// "/container/dir/object%20name". Slashes inside object names are kept.
func (r Request) Path() string {
	if r.Container == "" {
		return ""
	}

	path := "/" + url.PathEscape(r.Container)
	if r.Object != "" {
		segments := strings.Split(r.Object, "/")
		for i, s := range segments {
			segments[i] = url.PathEscape(s)
		}
		path += "/" + strings.Join(segments, "/")
	}
	return path
}
