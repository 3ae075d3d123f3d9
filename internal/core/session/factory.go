package session

import (
	"time"

	"github.com/legisdash/legisdash/internal/core/deputy"
	"github.com/legisdash/legisdash/internal/core/event"
	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/core/proposition"
)

// Factory builds the view for a kind. opts.Location carries the view URL.
type Factory interface {
	New(kind Kind, initial listquery.QueryState, opts listquery.Options) (View, error)
}

// Views is the production Factory.
type Views struct {
	Propositions *proposition.Service
	Deputies     *deputy.Service
	Events       listquery.Fetcher[event.Event]
}

func (v Views) New(kind Kind, initial listquery.QueryState, opts listquery.Options) (View, error) {
	switch kind {
	case KindPropositions:
		return v.Propositions.NewController(initial, opts), nil
	case KindDeputies:
		return v.Deputies.NewController(initial, opts), nil
	case KindAgenda:
		week, ok := event.WeekOf(initial.Filters)
		if !ok && opts.Location != nil {
			// ?week=YYYY-MM-DD deep-links to the week containing that date.
			if t, err := time.Parse("2006-01-02", opts.Location.Query().Get("week")); err == nil {
				week = t
			}
		}
		return event.NewAgenda(v.Events, week, opts), nil
	}
	return nil, ErrUnknownKind
}
