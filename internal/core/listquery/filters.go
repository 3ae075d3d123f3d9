package listquery

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
)

// FilterMap maps filter keys to scalar values. A key is never present with
// "" or false; absence means no constraint.
type FilterMap map[string]any

func (m FilterMap) Clone() FilterMap {
	out := make(FilterMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equal compares two maps structurally.
func (m FilterMap) Equal(other FilterMap) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// String returns the value stored for key formatted as a query parameter.
func (m FilterMap) String(key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// FormatValue renders a filter value as a query parameter.
func FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// normalizeValue coerces accepted scalar types to string, bool, int64 or
// float64 so that stored values stay comparable.
func normalizeValue(v any) (any, error) {
	switch t := v.(type) {
	case string, bool, int64, float64:
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case float32:
		return float64(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, ErrInvalidValue
		}
		return f, nil
	default:
		return nil, ErrInvalidValue
	}
}

func pruned(v any) bool {
	return v == "" || v == false
}

// Location is the navigable URL of the page hosting a list. Replace swaps the
// query string in place, without a navigation reload.
type Location interface {
	Query() url.Values
	Replace(query url.Values)
}

// URL is an in-memory Location.
type URL struct {
	mu sync.Mutex
	u  url.URL
}

func NewURL(path, rawQuery string) *URL {
	return &URL{u: url.URL{Path: path, RawQuery: rawQuery}}
}

func (l *URL) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.u.Query()
}

func (l *URL) Replace(query url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.u.RawQuery = query.Encode()
}

func (l *URL) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.u.String()
}

// FilterStore holds the immediate (not yet debounced) filter values.
type FilterStore struct {
	mu      sync.Mutex
	schema  Schema
	loc     Location
	filters FilterMap
}

// NewFilterStore mounts a store. The schema's URL key is read from loc and
// takes precedence over initial; an initial value missing from the URL is
// written back so both agree. Initial keys the schema does not allow are dropped.
func NewFilterStore(schema Schema, loc Location, initial FilterMap) *FilterStore {
	fs := &FilterStore{schema: schema, loc: loc, filters: FilterMap{}}
	for k, v := range initial {
		if !schema.AllowsFilter(k) {
			continue
		}
		if nv, err := normalizeValue(v); err == nil && !pruned(nv) {
			fs.filters[k] = nv
		}
	}

	if schema.URLKey == "" || loc == nil {
		return fs
	}
	if term := loc.Query().Get(schema.URLKey); term != "" {
		fs.filters[schema.URLKey] = term
	} else if _, ok := fs.filters[schema.URLKey]; ok {
		fs.mirror(fs.filters)
	}
	return fs
}

// Set writes one filter and returns the resulting map. "" and false remove the key.
func (fs *FilterStore) Set(key string, value any) (FilterMap, error) {
	if !fs.schema.AllowsFilter(key) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, key)
	}
	v, err := normalizeValue(value)
	if err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	next := fs.filters.Clone()
	if pruned(v) {
		delete(next, key)
	} else {
		next[key] = v
	}
	fs.filters = next

	if key == fs.schema.URLKey && fs.loc != nil {
		fs.mirror(next)
	}
	return next.Clone(), nil
}

func (fs *FilterStore) Values() FilterMap {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.filters.Clone()
}

func (fs *FilterStore) mirror(filters FilterMap) {
	q := fs.loc.Query()
	if _, ok := filters[fs.schema.URLKey]; ok {
		q.Set(fs.schema.URLKey, filters.String(fs.schema.URLKey))
	} else {
		q.Del(fs.schema.URLKey)
	}
	fs.loc.Replace(q)
}
