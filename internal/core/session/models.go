package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/legisdash/legisdash/internal/core/listquery"
)

var (
	ErrNotFound    = errors.New("view session not found")
	ErrUnknownKind = errors.New("unknown view kind")
	ErrUnsupported = errors.New("intent not supported by this view")
)

type Kind string

const (
	KindPropositions Kind = "propositions"
	KindDeputies     Kind = "deputies"
	KindAgenda       Kind = "agenda"
)

// Path is the dashboard page a view of this kind lives on.
func (k Kind) Path() string {
	switch k {
	case KindPropositions:
		return "/dashboard/proposals"
	case KindDeputies:
		return "/dashboard/deputados"
	case KindAgenda:
		return "/dashboard"
	}
	return ""
}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindPropositions, KindDeputies, KindAgenda:
		return k, nil
	}
	return "", ErrUnknownKind
}

// Record is the persisted form of a view. Request tokens and results are
// never stored; a restored view always refetches.
type Record struct {
	ID        uuid.UUID           `json:"id"`
	Kind      Kind                `json:"kind"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"page_size"`
	Sort      listquery.SortSpec  `json:"sort"`
	Filters   listquery.FilterMap `json:"filters"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (r *Record) Query() listquery.QueryState {
	return listquery.QueryState{
		PageSpec: listquery.PageSpec{Page: r.Page, PageSize: r.PageSize},
		Sort:     r.Sort,
		Filters:  r.Filters.Clone(),
	}
}

// View is what a session owns: a list controller or the agenda.
type View interface {
	Start() error
	DismissError()
	Reload() error
	Query() listquery.QueryState
	Filters() listquery.FilterMap
	Present() any
	Close()
}

type Session struct {
	ID        uuid.UUID
	Kind      Kind
	View      View
	CreatedAt time.Time

	lastSeen time.Time
}
