package listquery

import "fmt"

// Intent is a user action that proposes a new QueryState.
type Intent interface {
	intent()
}

type SetPage struct{ Page int }

type SetPageSize struct{ PageSize int }

type SetSort struct{ Property string }

// FiltersChanged carries the debounced Filter Store contents.
type FiltersChanged struct{ Filters FilterMap }

func (SetPage) intent()        {}
func (SetPageSize) intent()    {}
func (SetSort) intent()        {}
func (FiltersChanged) intent() {}

// Reduce is the pure transition function over intents. The returned state
// never shares its FilterMap with q.
func Reduce(schema Schema, q QueryState, in Intent) (QueryState, error) {
	next := QueryState{
		PageSpec: q.PageSpec,
		Sort:     q.Sort,
		Filters:  q.Filters.Clone(),
	}

	switch in := in.(type) {
	case SetPage:
		if in.Page < 0 {
			return q, ErrInvalidPage
		}
		next.Page = in.Page

	case SetPageSize:
		if !schema.AllowsPageSize(in.PageSize) {
			return q, fmt.Errorf("%w: %d", ErrInvalidPageSize, in.PageSize)
		}
		next.PageSize = in.PageSize
		next.Page = 0

	case SetSort:
		f, ok := schema.field(in.Property)
		if !ok {
			return q, fmt.Errorf("%w: %s", ErrUnsortable, in.Property)
		}
		if q.Sort.Property == in.Property {
			next.Sort.Order = q.Sort.Order.Flip()
		} else {
			order := f.DefaultOrder
			if order == "" {
				order = Asc
			}
			next.Sort = SortSpec{Property: in.Property, Order: order}
		}
		next.Page = 0

	case FiltersChanged:
		filters := FilterMap{}
		for k, v := range in.Filters {
			if !schema.AllowsFilter(k) {
				return q, fmt.Errorf("%w: %s", ErrUnknownFilter, k)
			}
			nv, err := normalizeValue(v)
			if err != nil {
				return q, err
			}
			if !pruned(nv) {
				filters[k] = nv
			}
		}
		next.Filters = filters
		next.Page = 0

	default:
		return q, fmt.Errorf("listquery: unhandled intent %T", in)
	}

	return next, nil
}
