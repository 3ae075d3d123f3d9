package event

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/legisdash/legisdash/internal/core/listquery"
)

// Wednesday 2025-06-04.
var midweek = time.Date(2025, 6, 4, 15, 0, 0, 0, time.UTC)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC), "2025-06-02"},  // Monday
		{time.Date(2025, 6, 4, 15, 0, 0, 0, time.UTC), "2025-06-02"}, // Wednesday
		{time.Date(2025, 6, 8, 23, 0, 0, 0, time.UTC), "2025-06-02"}, // Sunday
		{time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), "2025-06-09"},  // next Monday
	}
	for _, tt := range tests {
		if got := WeekStart(tt.in).Format(dateLayout); got != tt.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tt.in.Format(time.RFC3339), got, tt.want)
		}
	}
}

type recordingFetcher struct {
	mu   sync.Mutex
	reqs []listquery.Request
	rows []Event
}

func (f *recordingFetcher) List(ctx context.Context, req listquery.Request) (listquery.ResultSet[Event], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return listquery.ResultSet[Event]{Rows: f.rows}, nil
}

func (f *recordingFetcher) last() listquery.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reqs[len(f.reqs)-1]
}

func TestAgenda_RequestsWeekRange(t *testing.T) {
	f := &recordingFetcher{}
	a := NewAgenda(f, midweek, listquery.Options{})
	defer a.Close()

	if err := a.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	a.Wait()

	p := f.last().Params()
	if p.Get("data_inicio") != "2025-06-02" || p.Get("data_fim") != "2025-06-08" {
		t.Errorf("unexpected range %v", p)
	}
	if p.Get("limit") != "200" || p.Get("sort") != "dataHoraInicio:asc" {
		t.Errorf("unexpected params %v", p)
	}
}

func TestAgenda_Navigation(t *testing.T) {
	f := &recordingFetcher{}
	a := NewAgenda(f, midweek, listquery.Options{})
	defer a.Close()

	if err := a.ShiftWeek(1); err != nil {
		t.Fatalf("shift: %v", err)
	}
	a.Wait()
	if got := f.last().Params().Get("data_inicio"); got != "2025-06-09" {
		t.Errorf("next week should start 2025-06-09, got %s", got)
	}

	if err := a.ShiftWeek(-2); err != nil {
		t.Fatalf("shift: %v", err)
	}
	a.Wait()
	if got := a.Week().Format(dateLayout); got != "2025-05-26" {
		t.Errorf("expected week of 2025-05-26, got %s", got)
	}

	if err := a.GoToWeek(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("go to: %v", err)
	}
	a.Wait()
	cal := a.Render()
	if cal.WeekStart != "2025-12-22" || cal.WeekEnd != "2025-12-28" {
		t.Errorf("unexpected week %s..%s", cal.WeekStart, cal.WeekEnd)
	}
}

func TestAgenda_OlderWeekArrivingLastIsDiscarded(t *testing.T) {
	release := map[string]chan struct{}{
		"2025-06-02": make(chan struct{}),
		"2025-06-09": make(chan struct{}),
	}
	fetch := listquery.FetcherFunc[Event](func(ctx context.Context, req listquery.Request) (listquery.ResultSet[Event], error) {
		from := req.Filters.String(FromKey)
		<-release[from]
		return listquery.ResultSet[Event]{Rows: []Event{{ID: 1, DataHoraInicio: from + "T10:00:00", Descricao: from}}}, nil
	})

	a := NewAgenda(fetch, midweek, listquery.Options{})
	defer a.Close()

	a.Start()
	a.ShiftWeek(1)

	close(release["2025-06-09"])
	close(release["2025-06-02"])
	a.Wait()

	cal := a.Render()
	if cal.WeekStart != "2025-06-09" {
		t.Fatalf("expected the newer week, got %s", cal.WeekStart)
	}
	if cal.Total != 1 || cal.Days[0].Events[0].Descricao != "2025-06-09" {
		t.Errorf("stale week leaked into the calendar: %+v", cal.Days)
	}
}

func TestAgenda_ErrorBanner(t *testing.T) {
	fetch := listquery.FetcherFunc[Event](func(ctx context.Context, req listquery.Request) (listquery.ResultSet[Event], error) {
		return listquery.ResultSet[Event]{}, fmt.Errorf("boom")
	})
	a := NewAgenda(fetch, midweek, listquery.Options{})
	defer a.Close()

	a.Start()
	a.Wait()

	if cal := a.Render(); cal.Error == nil || cal.Status != listquery.StatusError {
		t.Fatalf("expected error banner, got %+v", cal)
	}
	a.DismissError()
	if cal := a.Render(); cal.Error != nil {
		t.Error("dismissed banner should be hidden")
	}
}

func TestGroupByDay(t *testing.T) {
	monday := WeekStart(midweek)
	var events []Event
	for i := 6; i >= 1; i-- {
		events = append(events, Event{ID: i, DataHoraInicio: fmt.Sprintf("2025-06-03T%02d:00:00", 8+i)})
	}
	events = append(events,
		Event{ID: 100, DataHoraInicio: "2025-06-08T09:00:00"},
		Event{ID: 200, DataHoraInicio: "2025-06-09T09:00:00"}, // next week
		Event{ID: 300, DataHoraInicio: "sem data"},
	)

	days := GroupByDay(monday, events, midweek)

	if len(days) != 7 || days[0].Date != "2025-06-02" || days[6].Weekday != "Dom" {
		t.Fatalf("unexpected days %+v", days)
	}
	tuesday := days[1]
	if len(tuesday.Events) != MaxVisiblePerDay || tuesday.Overflow != 2 {
		t.Errorf("expected %d visible and 2 overflow, got %d and %d", MaxVisiblePerDay, len(tuesday.Events), tuesday.Overflow)
	}
	for i, want := range []int{1, 2, 3, 4} {
		if tuesday.Events[i].ID != want {
			t.Errorf("tuesday event %d = %d, want %d", i, tuesday.Events[i].ID, want)
		}
	}
	if len(days[6].Events) != 1 || days[6].Events[0].ID != 100 {
		t.Errorf("sunday should hold event 100, got %+v", days[6].Events)
	}
	if !days[2].Today {
		t.Error("wednesday should be marked as today")
	}
	if days[0].Events == nil {
		t.Error("empty days should render an empty list")
	}
}

func TestWeekOf(t *testing.T) {
	w, ok := WeekOf(listquery.FilterMap{FromKey: "2025-06-05"})
	if !ok || w.Format(dateLayout) != "2025-06-02" {
		t.Errorf("unexpected week %v %v", w, ok)
	}
	if _, ok := WeekOf(listquery.FilterMap{}); ok {
		t.Error("missing range should not resolve a week")
	}
}
