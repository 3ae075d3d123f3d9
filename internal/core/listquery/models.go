package listquery

import (
	"errors"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrInvalidPage     = errors.New("page must be zero or greater")
	ErrInvalidPageSize = errors.New("page size not allowed")
	ErrUnsortable      = errors.New("property is not sortable")
	ErrUnknownFilter   = errors.New("unknown filter key")
	ErrInvalidValue    = errors.New("filter value must be a string, number or boolean")
	ErrClosed          = errors.New("list view closed")
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func (o Order) Flip() Order {
	if o == Asc {
		return Desc
	}
	return Asc
}

type SortSpec struct {
	Property string `json:"property"`
	Order    Order  `json:"order"`
}

// String renders the sort in the API's "field:direction" form.
func (s SortSpec) String() string {
	return s.Property + ":" + string(s.Order)
}

type PageSpec struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// QueryState is the request descriptor a list fetch is derived from.
// Transitions always build a new value; Filters is never shared with a caller.
type QueryState struct {
	PageSpec
	Sort    SortSpec  `json:"sort"`
	Filters FilterMap `json:"filters"`
}

// Request is what a Fetcher receives. Filters are keyed by filter key; the
// schema's parameter renames are applied by Params.
type Request struct {
	Skip    int
	Limit   int
	Sort    SortSpec
	Filters FilterMap
	params  map[string]string
}

// Params builds the list endpoint query string.
func (r Request) Params() url.Values {
	v := url.Values{}
	v.Set("skip", strconv.Itoa(r.Skip))
	v.Set("limit", strconv.Itoa(r.Limit))
	if r.Sort.Property != "" {
		v.Set("sort", r.Sort.String())
	}
	for key, value := range r.Filters {
		name := key
		if renamed, ok := r.params[key]; ok {
			name = renamed
		}
		v.Set(name, FormatValue(value))
	}
	return v
}

// ResultSet is replaced wholesale on every accepted response.
// TotalKnown is false when the API sent no total-count signal.
type ResultSet[T any] struct {
	Rows       []T  `json:"rows"`
	Total      int  `json:"total"`
	TotalKnown bool `json:"total_known"`
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Snapshot is the read-only published state of one list.
type Snapshot[T any] struct {
	Status    Status
	Query     QueryState
	Result    *ResultSet[T]
	Err       error
	Dismissed bool
	Token     uint64
	UpdatedAt time.Time
}
