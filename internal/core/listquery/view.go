package listquery

// Column is a sortable header with its indicator.
type Column struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
	Order  Order  `json:"order,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	PageSizes  []int `json:"page_sizes,omitempty"`
	Total      int   `json:"total"`
	TotalKnown bool  `json:"total_known"`
	PageCount  int   `json:"page_count"` // 0 when the total is unknown
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type Banner struct {
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

// Rendered is the presentation of one list view.
type Rendered[T any] struct {
	Status     Status     `json:"status"`
	Loading    bool       `json:"loading"`
	Rows       []T        `json:"rows"`
	Skeleton   int        `json:"skeleton_rows"`
	Columns    []Column   `json:"columns"`
	Sort       SortSpec   `json:"sort"`
	Filters    FilterMap  `json:"filters"`
	Pagination Pagination `json:"pagination"`
	Error      *Banner    `json:"error,omitempty"`
	URL        string     `json:"url,omitempty"`
	Pending    bool       `json:"filters_pending"`
}

// Render is a pure function of the snapshot. Rows from the previous result
// stay visible while loading; skeleton rows are only shown when there is
// nothing published yet.
func Render[T any](schema Schema, s Snapshot[T]) Rendered[T] {
	q := s.Query
	out := Rendered[T]{
		Status:  s.Status,
		Loading: s.Status == StatusLoading,
		Rows:    []T{},
		Sort:    q.Sort,
		Filters: q.Filters.Clone(),
	}

	for _, f := range schema.Fields {
		col := Column{Name: f.Name, Label: f.Label}
		if f.Name == q.Sort.Property {
			col.Active = true
			col.Order = q.Sort.Order
		}
		out.Columns = append(out.Columns, col)
	}

	if s.Result != nil {
		out.Rows = s.Result.Rows
	}
	if (s.Status == StatusLoading || s.Status == StatusIdle) && s.Result == nil {
		out.Skeleton = q.PageSize
	}

	out.Pagination = paginate(schema, q.PageSpec, s.Result)

	if s.Status == StatusError && s.Err != nil && !s.Dismissed {
		out.Error = &Banner{Message: s.Err.Error(), Dismissible: true}
	}
	return out
}

func paginate[T any](schema Schema, p PageSpec, res *ResultSet[T]) Pagination {
	pg := Pagination{
		Page:      p.Page,
		PageSize:  p.PageSize,
		PageSizes: schema.PageSizes,
		HasPrev:   p.Page > 0,
	}
	if res == nil {
		return pg
	}
	if res.TotalKnown {
		pg.Total = res.Total
		pg.TotalKnown = true
		if p.PageSize > 0 {
			pg.PageCount = (res.Total + p.PageSize - 1) / p.PageSize
		}
		pg.HasNext = (p.Page+1)*p.PageSize < res.Total
	} else {
		// Without a total, a full page is the only hint that more rows exist.
		pg.HasNext = len(res.Rows) == p.PageSize && p.PageSize > 0
	}
	return pg
}
