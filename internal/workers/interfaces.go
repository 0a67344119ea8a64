// Package workers runs the nested, independent actions of a subcommand
// (per-object deletes, per-item fordo runs, container downloads) with a
// bounded number of them in flight at once.
//
// Nested pools multiply: an outer pool of N whose tasks each use an inner
// pool of N can have up to N*N actions running at the same time.
package workers

import "context"

// Task is one unit of work run by a [Pool].
//
// Implementations should honour ctx: it is cancelled as soon as a sibling
// task in the same group fails.
//
// Example implementation:
//
//	task := func(ctx context.Context) error {
//	    return client.Delete(ctx, container, object)
//	}
type Task func(ctx context.Context) error
