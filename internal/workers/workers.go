package workers

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool bounds how many tasks run concurrently. A Pool is immutable and may
// be shared; each fan-out starts its own [Group].
type Pool struct {
	limit int64
}

// NewPool returns a Pool running at most limit tasks at a time. Limits
// below one are treated as one, which runs tasks sequentially in submission
// order.
func NewPool(limit int) *Pool {
	if limit < 1 {
		limit = 1
	}
	return &Pool{limit: int64(limit)}
}

// Limit returns the maximum number of concurrent tasks.
func (p *Pool) Limit() int {
	return int(p.limit)
}

// Group starts a fan-out bound to ctx.
func (p *Pool) Group(ctx context.Context) *Group {
	eg, groupCtx := errgroup.WithContext(ctx)
	return &Group{
		sem: semaphore.NewWeighted(p.limit),
		eg:  eg,
		ctx: groupCtx,
	}
}

// Execute runs all tasks and returns the first error encountered, cancelling
// the remaining ones.
func (p *Pool) Execute(ctx context.Context, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}

	g := p.Group(ctx)
	for _, task := range tasks {
		g.Go(task)
	}
	return g.Wait()
}

// Group is a single fan-out over a Pool.
type Group struct {
	sem *semaphore.Weighted
	eg  *errgroup.Group
	ctx context.Context
}

// Context returns the group context, cancelled on the first task failure.
func (g *Group) Context() context.Context {
	return g.ctx
}

// Go schedules task, blocking the caller until a slot is free so that
// producers walking large listings are throttled too.
func (g *Group) Go(task Task) {
	if err := g.sem.Acquire(g.ctx, 1); err != nil {
		g.eg.Go(func() error {
			return fmt.Errorf("acquire worker slot: %w", err)
		})
		return
	}

	g.eg.Go(func() (err error) {
		defer g.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: debug.Stack()}
			}
		}()
		return task(g.ctx)
	})
}

// PanicError is returned in place of a task that panicked, so the panic
// reaches the dispatcher instead of killing the process.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v\n\n%s", e.Value, e.Stack)
}

// Unwrap exposes a panic value that is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Wait blocks until every scheduled task has finished and returns the first
// error.
func (g *Group) Wait() error {
	return g.eg.Wait()
}
