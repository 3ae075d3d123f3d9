package event

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/upstream"
)

const dateLayout = "2006-01-02"

var weekdays = [7]string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

// WeekStart returns midnight of the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekFilters is the date range filter for the week starting at monday.
func WeekFilters(monday time.Time) listquery.FilterMap {
	return listquery.FilterMap{
		FromKey: monday.Format(dateLayout),
		ToKey:   monday.AddDate(0, 0, 6).Format(dateLayout),
	}
}

// WeekOf recovers the week from stored filters.
func WeekOf(filters listquery.FilterMap) (time.Time, bool) {
	s, ok := filters[FromKey].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return WeekStart(t), true
}

// Calendar is the presented weekly agenda.
type Calendar struct {
	Status    listquery.Status  `json:"status"`
	Loading   bool              `json:"loading"`
	WeekStart string            `json:"week_start"`
	WeekEnd   string            `json:"week_end"`
	Days      []Day             `json:"days"`
	Total     int               `json:"total"`
	Error     *listquery.Banner `json:"error,omitempty"`
}

// Agenda is a list controller over one calendar week. Navigation replaces
// the date range and goes through the same token discipline as any list.
type Agenda struct {
	clock listquery.Clock
	coord *listquery.Coordinator[Event]

	nav sync.Mutex // serializes read-modify-write of the week
}

func NewAgenda(fetch listquery.Fetcher[Event], week time.Time, opts listquery.Options) *Agenda {
	if opts.Clock == nil {
		opts.Clock = listquery.SystemClock
	}
	if week.IsZero() {
		week = opts.Clock.Now()
	}
	monday := WeekStart(week)
	return &Agenda{
		clock: opts.Clock,
		coord: listquery.NewCoordinator(Schema, fetch, Schema.Initial(WeekFilters(monday)), opts),
	}
}

// Fetcher decodes the events list endpoint.
func Fetcher(client *upstream.Client) listquery.Fetcher[Event] {
	return listquery.FetcherFunc[Event](func(ctx context.Context, req listquery.Request) (listquery.ResultSet[Event], error) {
		return upstream.ListOf[Event](ctx, client, Resource, req.Params(), RowSchema)
	})
}

func (a *Agenda) Start() error {
	return a.coord.Dispatch()
}

// ShiftWeek moves n weeks forward, or back for negative n.
func (a *Agenda) ShiftWeek(n int) error {
	a.nav.Lock()
	defer a.nav.Unlock()
	return a.goTo(a.Week().AddDate(0, 0, 7*n))
}

// GoToWeek jumps to the week containing t.
func (a *Agenda) GoToWeek(t time.Time) error {
	a.nav.Lock()
	defer a.nav.Unlock()
	return a.goTo(WeekStart(t))
}

func (a *Agenda) goTo(monday time.Time) error {
	return a.coord.Apply(listquery.FiltersChanged{Filters: WeekFilters(monday)})
}

// Week is the Monday of the queried week.
func (a *Agenda) Week() time.Time {
	monday, _ := WeekOf(a.coord.Query().Filters)
	return monday
}

func (a *Agenda) DismissError() { a.coord.DismissError() }

func (a *Agenda) Reload() error { return a.coord.Dispatch() }

func (a *Agenda) Query() listquery.QueryState { return a.coord.Query() }

func (a *Agenda) Filters() listquery.FilterMap { return a.coord.Query().Filters }

func (a *Agenda) Wait() { a.coord.Wait() }

func (a *Agenda) Close() { a.coord.Close() }

func (a *Agenda) Present() any { return a.Render() }

// Render lays the published events out over the seven days of the queried
// week. Rows are kept while a newer week is loading.
func (a *Agenda) Render() Calendar {
	snap := a.coord.Snapshot()
	monday, _ := WeekOf(snap.Query.Filters)
	var rows []Event
	if snap.Result != nil {
		rows = snap.Result.Rows
	}

	cal := Calendar{
		Status:    snap.Status,
		Loading:   snap.Status == listquery.StatusLoading,
		WeekStart: monday.Format(dateLayout),
		WeekEnd:   monday.AddDate(0, 0, 6).Format(dateLayout),
		Days:      GroupByDay(monday, rows, a.clock.Now()),
	}
	for _, d := range cal.Days {
		cal.Total += len(d.Events) + d.Overflow
	}
	if snap.Status == listquery.StatusError && snap.Err != nil && !snap.Dismissed {
		cal.Error = &listquery.Banner{Message: snap.Err.Error(), Dismissible: true}
	}
	return cal
}

// GroupByDay buckets events by start date over the week starting at monday,
// each day sorted by start time and truncated to MaxVisiblePerDay. Events
// outside the week or without a parseable start are left out.
func GroupByDay(monday time.Time, events []Event, now time.Time) []Day {
	today := now.Format(dateLayout)
	days := make([]Day, 7)
	index := make(map[string]int, 7)
	for i := range days {
		date := monday.AddDate(0, 0, i).Format(dateLayout)
		days[i] = Day{Date: date, Weekday: weekdays[i], Today: date == today, Events: []Event{}}
		index[date] = i
	}

	buckets := make([][]Event, 7)
	for _, e := range events {
		t, err := upstream.ParseTime(e.DataHoraInicio)
		if err != nil {
			continue
		}
		i, ok := index[t.Format(dateLayout)]
		if !ok {
			continue
		}
		e.start = t
		buckets[i] = append(buckets[i], e)
	}

	for i, b := range buckets {
		sort.SliceStable(b, func(x, y int) bool { return b[x].start.Before(b[y].start) })
		if len(b) > MaxVisiblePerDay {
			days[i].Overflow = len(b) - MaxVisiblePerDay
			b = b[:MaxVisiblePerDay]
		}
		days[i].Events = append(days[i].Events, b...)
	}
	return days
}
