package listquery

import "slices"

// Field is a sortable column and the order it starts in when first selected.
type Field struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	DefaultOrder Order  `json:"default_order"`
}

// Schema parameterizes the controller for one entity type.
type Schema struct {
	Entity          string
	Fields          []Field
	DefaultSort     SortSpec
	FilterKeys      []string
	ParamNames      map[string]string // filter key -> API parameter, when they differ
	PageSizes       []int
	DefaultPageSize int
	URLKey          string // filter key mirrored in the navigable URL, "" for none
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Sortable reports whether property is in the schema's whitelist.
func (s Schema) Sortable(property string) bool {
	_, ok := s.field(property)
	return ok
}

func (s Schema) AllowsFilter(key string) bool {
	return len(s.FilterKeys) == 0 || slices.Contains(s.FilterKeys, key)
}

func (s Schema) AllowsPageSize(n int) bool {
	if n <= 0 {
		return false
	}
	return len(s.PageSizes) == 0 || slices.Contains(s.PageSizes, n)
}

// Initial returns the state a freshly mounted list starts from.
func (s Schema) Initial(filters FilterMap) QueryState {
	size := s.DefaultPageSize
	if size <= 0 {
		size = 10
		if len(s.PageSizes) > 0 {
			size = s.PageSizes[0]
		}
	}
	return QueryState{
		PageSpec: PageSpec{Page: 0, PageSize: size},
		Sort:     s.DefaultSort,
		Filters:  filters.Clone(),
	}
}

// Request maps a state to the fetch request, applying parameter renames.
func (s Schema) Request(q QueryState) Request {
	return Request{
		Skip:    q.Page * q.PageSize,
		Limit:   q.PageSize,
		Sort:    q.Sort,
		Filters: q.Filters.Clone(),
		params:  s.ParamNames,
	}
}
