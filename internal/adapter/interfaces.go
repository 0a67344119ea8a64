// Package adapter provides the transport clients swiftly uses to talk to a
// Swift cluster.
//
// [StandardClient] authenticates against an auth endpoint and issues requests
// through the cluster's public proxy. [DirectClient] skips authentication and
// addresses an account path on a backend endpoint directly. Subcommands never
// construct clients themselves: they borrow them from a [Factory] (the
// [ClientManager]) built by the dispatcher.
//
// Non-2xx responses are returned as *[StatusError] values that wrap the
// sentinel errors in errors.go, so callers can use [errors.Is] (e.g.
// [ErrNotFound] for 404).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-swiftly/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/client_mock.go -package=mock

// Client is a single connection to the storage service. A Client is not
// safe for concurrent use; concurrent callers each borrow their own from a
// [Factory].
type Client interface {
	// Auth authenticates (or loads cached credentials) and records the
	// storage URL and token. The direct transport has nothing to do here.
	Auth(ctx context.Context) error

	// Info returns the current auth information. It is the zero value until
	// Auth has succeeded.
	Info() models.AuthInfo

	// Do performs req against the account, container or object it names,
	// authenticating first if needed. Non-2xx statuses yield a *StatusError.
	Do(ctx context.Context, req Request) (*Response, error)

	// Reset forgets auth information, including any cached copy on disk.
	Reset()
}

// Factory hands out clients. Implementations must be safe for concurrent use.
type Factory interface {
	// GetClient returns an idle client or a new one.
	GetClient() Client

	// PutClient returns a client for reuse.
	PutClient(c Client)
}
