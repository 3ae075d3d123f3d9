package listquery

import "fmt"

// View is the type-erased surface of a list controller: intents in,
// presentation out.
type View interface {
	Start() error
	SetPage(page int) error
	SetPageSize(size int) error
	SetSort(property string) error
	SetFilter(key string, value any) error
	DismissError()
	Reload() error
	Query() QueryState
	Filters() FilterMap
	Location() Location
	Present() any
	Close()
}

// Controller wires Filter Store -> Debouncer -> Coordinator for one list.
type Controller[T any] struct {
	schema   Schema
	loc      Location
	store    *FilterStore
	debounce *Debouncer
	coord    *Coordinator[T]
}

var _ View = (*Controller[struct{}])(nil)

// NewController mounts a list. Filters in initial are the restored raw
// filters; the URL key in opts.Location wins over them.
func NewController[T any](schema Schema, fetch Fetcher[T], initial QueryState, opts Options) *Controller[T] {
	opts = opts.withDefaults()
	if initial.PageSize <= 0 {
		initial.PageSize = schema.Initial(nil).PageSize
	}
	if initial.Sort.Property == "" {
		initial.Sort = schema.DefaultSort
	}

	store := NewFilterStore(schema, opts.Location, initial.Filters)
	initial.Filters = store.Values()

	c := &Controller[T]{
		schema: schema,
		loc:    opts.Location,
		store:  store,
		coord:  NewCoordinator(schema, fetch, initial, opts),
	}
	c.debounce = NewDebouncer(opts.Clock, opts.DebounceWindow, initial.Filters, func(f FilterMap) {
		// Closed controllers drop late emissions.
		_ = c.coord.Apply(FiltersChanged{Filters: f})
	})
	return c
}

// Start issues the mount fetch.
func (c *Controller[T]) Start() error {
	return c.coord.Dispatch()
}

func (c *Controller[T]) SetPage(page int) error {
	return c.coord.Apply(SetPage{Page: page})
}

func (c *Controller[T]) SetPageSize(size int) error {
	return c.coord.Apply(SetPageSize{PageSize: size})
}

func (c *Controller[T]) SetSort(property string) error {
	return c.coord.Apply(SetSort{Property: property})
}

// SetFilter records the raw value immediately and schedules the debounced
// QueryState update.
func (c *Controller[T]) SetFilter(key string, value any) error {
	filters, err := c.store.Set(key, value)
	if err != nil {
		return fmt.Errorf("set filter %s: %w", key, err)
	}
	c.debounce.Push(filters)
	return nil
}

func (c *Controller[T]) DismissError() {
	c.coord.DismissError()
}

// Reload re-dispatches the current QueryState.
func (c *Controller[T]) Reload() error {
	return c.coord.Dispatch()
}

func (c *Controller[T]) Query() QueryState {
	return c.coord.Query()
}

// Filters returns the raw Filter Store contents, which may be ahead of Query().Filters.
func (c *Controller[T]) Filters() FilterMap {
	return c.store.Values()
}

// Location is the navigable URL the controller mirrors its URL key into.
func (c *Controller[T]) Location() Location {
	return c.loc
}

func (c *Controller[T]) Snapshot() Snapshot[T] {
	return c.coord.Snapshot()
}

func (c *Controller[T]) Render() Rendered[T] {
	r := Render(c.schema, c.coord.Snapshot())
	r.Filters = c.store.Values()
	r.Pending = c.debounce.Pending()
	if u, ok := c.loc.(interface{ String() string }); ok {
		r.URL = u.String()
	}
	return r
}

func (c *Controller[T]) Present() any {
	return c.Render()
}

// Wait blocks until every dispatched request has settled.
func (c *Controller[T]) Wait() {
	c.coord.Wait()
}

func (c *Controller[T]) Close() {
	c.debounce.Stop()
	c.coord.Close()
}
