package listquery

import (
	"context"
	"sync"
	"time"
)

// Fetcher issues the list request for one QueryState.
type Fetcher[T any] interface {
	List(ctx context.Context, req Request) (ResultSet[T], error)
}

type FetcherFunc[T any] func(ctx context.Context, req Request) (ResultSet[T], error)

func (f FetcherFunc[T]) List(ctx context.Context, req Request) (ResultSet[T], error) {
	return f(ctx, req)
}

// Observer receives coordinator lifecycle events, typically for metrics.
type Observer interface {
	Dispatched(entity string)
	Discarded(entity string)
	Settled(entity string, status Status, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) Dispatched(string)                     {}
func (nopObserver) Discarded(string)                      {}
func (nopObserver) Settled(string, Status, time.Duration) {}

// Options configure a Coordinator or Controller. Zero values pick defaults.
type Options struct {
	Observer       Observer
	Clock          Clock
	DebounceWindow time.Duration
	Location       Location
	// OnChange runs after every published transition, outside the lock.
	OnChange func()
}

func (o Options) withDefaults() Options {
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	if o.Clock == nil {
		o.Clock = SystemClock
	}
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = DefaultDebounceWindow
	}
	return o
}

// Coordinator owns the QueryState and the current RequestToken. Each accepted
// change mints a token and issues one request; only the response carrying the
// current token is published, so results land in dispatch order no matter
// when the network settles them.
type Coordinator[T any] struct {
	schema Schema
	fetch  Fetcher[T]
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	snap     Snapshot[T]
	minted   uint64
	closed   bool
	inflight sync.WaitGroup
}

func NewCoordinator[T any](schema Schema, fetch Fetcher[T], initial QueryState, opts Options) *Coordinator[T] {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator[T]{
		schema: schema,
		fetch:  fetch,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		snap: Snapshot[T]{
			Status:    StatusIdle,
			Query:     initial,
			UpdatedAt: opts.Clock.Now(),
		},
	}
}

// Apply reduces the intent into a new QueryState and dispatches it. A rejected
// intent leaves the state untouched.
func (c *Coordinator[T]) Apply(in Intent) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	next, err := Reduce(c.schema, c.snap.Query, in)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.snap.Query = next
	c.dispatchLocked()
	c.mu.Unlock()

	c.changed()
	return nil
}

// Dispatch re-issues the current QueryState, superseding anything in flight.
func (c *Coordinator[T]) Dispatch() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.dispatchLocked()
	c.mu.Unlock()

	c.changed()
	return nil
}

func (c *Coordinator[T]) dispatchLocked() {
	c.minted++
	token := c.minted
	c.snap.Token = token
	c.snap.Status = StatusLoading
	c.snap.Err = nil
	c.snap.Dismissed = false
	c.snap.UpdatedAt = c.opts.Clock.Now()

	req := c.schema.Request(c.snap.Query)
	started := c.opts.Clock.Now()
	c.opts.Observer.Dispatched(c.schema.Entity)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		res, err := c.fetch.List(c.ctx, req)
		c.settle(token, started, res, err)
	}()
}

func (c *Coordinator[T]) settle(token uint64, started time.Time, res ResultSet[T], err error) {
	c.mu.Lock()
	if c.closed || token != c.snap.Token {
		c.mu.Unlock()
		c.opts.Observer.Discarded(c.schema.Entity)
		return
	}

	if err != nil {
		c.snap.Status = StatusError
		c.snap.Err = err
	} else {
		if res.Rows == nil {
			res.Rows = []T{}
		}
		if !res.TotalKnown {
			res.Total = 0
		}
		c.snap.Status = StatusSuccess
		c.snap.Result = &res
	}
	c.snap.UpdatedAt = c.opts.Clock.Now()
	status := c.snap.Status
	c.mu.Unlock()

	c.opts.Observer.Settled(c.schema.Entity, status, c.opts.Clock.Now().Sub(started))
	c.changed()
}

func (c *Coordinator[T]) changed() {
	if c.opts.OnChange != nil {
		c.opts.OnChange()
	}
}

// Snapshot returns a copy of the published state.
func (c *Coordinator[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.snap
	s.Query.Filters = s.Query.Filters.Clone()
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}

func (c *Coordinator[T]) Query() QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.snap.Query
	q.Filters = q.Filters.Clone()
	return q
}

// DismissError hides the error banner; the status stays error until the next dispatch.
func (c *Coordinator[T]) DismissError() {
	c.mu.Lock()
	changed := c.snap.Err != nil && !c.snap.Dismissed
	c.snap.Dismissed = true
	c.mu.Unlock()
	if changed {
		c.changed()
	}
}

// Wait blocks until every request dispatched so far has settled.
func (c *Coordinator[T]) Wait() {
	c.inflight.Wait()
}

// Close stops publishing. In-flight requests are cancelled and their results dropped.
func (c *Coordinator[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}
