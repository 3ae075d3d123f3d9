package listquery

import (
	"errors"
	"testing"
	"time"
)

func newTestController(f Fetcher[string], loc Location, clock *manualClock, obs Observer) *Controller[string] {
	return NewController[string](testSchema, f, QueryState{}, Options{
		Clock:          clock,
		Location:       loc,
		Observer:       obs,
		DebounceWindow: 500 * time.Millisecond,
	})
}

func TestController_FilterEditSupersedesPendingMountFetch(t *testing.T) {
	clock := newManualClock()
	f := newGatedFetcher()
	obs := newCountingObserver()
	c := newTestController(f, nil, clock, obs)
	defer c.Close()

	// A: mount with the default sort and no filters.
	c.Start()
	a := f.next()
	if a.req.Sort.String() != "dataApresentacao:desc" || len(a.req.Filters) != 0 {
		t.Fatalf("unexpected mount request %+v", a.req)
	}

	// B: the type filter lands after the debounce window while A is still pending.
	if err := c.SetFilter("siglaTipo", "PEC"); err != nil {
		t.Fatalf("set filter: %v", err)
	}
	clock.Advance(500 * time.Millisecond)
	b := f.next()
	if b.req.Filters["siglaTipo"] != "PEC" || b.req.Skip != 0 {
		t.Fatalf("unexpected filtered request %+v", b.req)
	}

	b.release <- fetchResult{res: rows("PEC 45/2019")}
	waitFor(obs.settles)
	a.release <- fetchResult{res: rows("PL 1/2025", "PLP 2/2025")}
	c.Wait()

	r := c.Render()
	if r.Status != StatusSuccess || len(r.Rows) != 1 || r.Rows[0] != "PEC 45/2019" {
		t.Errorf("expected B's rows, got %s %v", r.Status, r.Rows)
	}
}

func TestController_DebouncedFiltersProduceOneDispatch(t *testing.T) {
	clock := newManualClock()
	f := newGatedFetcher()
	obs := newCountingObserver()
	c := newTestController(f, nil, clock, obs)
	defer c.Close()

	for i, term := range []string{"s", "sa", "sau", "saude"} {
		if i > 0 {
			clock.Advance(100 * time.Millisecond)
		}
		c.SetFilter("search", term)
	}
	if !c.Render().Pending {
		t.Error("expected pending filter propagation")
	}
	if q := c.Query(); len(q.Filters) != 0 {
		t.Errorf("query filters changed before quiescence: %v", q.Filters)
	}
	if c.Filters()["search"] != "saude" {
		t.Error("raw filter store should update immediately")
	}

	clock.Advance(500 * time.Millisecond)
	call := f.next()
	if call.req.Filters["search"] != "saude" {
		t.Errorf("expected last typed value, got %v", call.req.Filters)
	}
	if obs.dispatched != 1 {
		t.Errorf("expected one dispatch, got %d", obs.dispatched)
	}
	call.release <- fetchResult{res: rows()}
	c.Wait()
}

func TestController_FilterResetsPage(t *testing.T) {
	clock := newManualClock()
	f := newGatedFetcher()
	c := newTestController(f, nil, clock, nil)
	defer c.Close()

	c.SetPage(4)
	f.next().release <- fetchResult{res: rows("x")}
	c.Wait()

	c.SetFilter("scope", "Nacional")
	clock.Advance(500 * time.Millisecond)
	f.next().release <- fetchResult{res: rows("y")}
	c.Wait()

	if q := c.Query(); q.Page != 0 {
		t.Errorf("filter change should reset page, got %d", q.Page)
	}
}

func TestController_SearchRoundTripsThroughURL(t *testing.T) {
	clock := newManualClock()
	f := newGatedFetcher()
	loc := NewURL("/dashboard/proposals", "search=educa%C3%A7%C3%A3o")
	c := newTestController(f, loc, clock, nil)
	defer c.Close()

	if c.Query().Filters["search"] != "educação" {
		t.Fatalf("mount should seed search from the URL, got %v", c.Query().Filters)
	}

	c.Start()
	call := f.next()
	if call.req.Params().Get("ementa__ilike") != "educação" {
		t.Errorf("mount request should carry the search term, got %v", call.req.Params())
	}
	call.release <- fetchResult{res: rows()}
	c.Wait()

	c.SetFilter("search", "")
	if loc.Query().Has("search") {
		t.Error("clearing the search should remove it from the URL")
	}
	if r := c.Render(); r.URL != "/dashboard/proposals" {
		t.Errorf("unexpected rendered URL %q", r.URL)
	}
	clock.Advance(500 * time.Millisecond)
	f.next().release <- fetchResult{res: rows()}
	c.Wait()
}

func TestController_RejectsInvalidIntents(t *testing.T) {
	c := newTestController(newGatedFetcher(), nil, newManualClock(), nil)
	defer c.Close()

	if err := c.SetFilter("cpf", "123"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("expected ErrUnknownFilter, got %v", err)
	}
	if err := c.SetSort("ementa"); !errors.Is(err, ErrUnsortable) {
		t.Errorf("expected ErrUnsortable, got %v", err)
	}
	if err := c.SetPageSize(11); !errors.Is(err, ErrInvalidPageSize) {
		t.Errorf("expected ErrInvalidPageSize, got %v", err)
	}
}

func TestController_CloseStopsDebouncedDispatch(t *testing.T) {
	clock := newManualClock()
	obs := newCountingObserver()
	c := newTestController(newGatedFetcher(), nil, clock, obs)

	c.SetFilter("siglaTipo", "PL")
	c.Close()
	clock.Advance(time.Second)

	if obs.dispatched != 0 {
		t.Errorf("closed controller dispatched %d requests", obs.dispatched)
	}
}

func TestController_RestoredUnknownKeyDoesNotBlockFilterEdits(t *testing.T) {
	clock := newManualClock()
	f := newGatedFetcher()
	c := NewController[string](testSchema, f, QueryState{Filters: FilterMap{"relator": "x"}}, Options{
		Clock:          clock,
		DebounceWindow: 500 * time.Millisecond,
	})
	defer c.Close()

	c.Start()
	mount := f.next()
	if _, ok := mount.req.Filters["relator"]; ok {
		t.Fatalf("unknown key reached the request: %v", mount.req.Filters)
	}

	if err := c.SetFilter("siglaTipo", "PEC"); err != nil {
		t.Fatalf("set filter: %v", err)
	}
	clock.Advance(500 * time.Millisecond)
	call := f.next()
	if call.req.Filters["siglaTipo"] != "PEC" {
		t.Errorf("debounced edit did not propagate, got %v", call.req.Filters)
	}
	if q := c.Query(); q.Filters["siglaTipo"] != "PEC" {
		t.Errorf("query not updated: %v", q.Filters)
	}

	mount.release <- fetchResult{res: rows()}
	call.release <- fetchResult{res: rows("PEC 1/2025")}
	c.Wait()
}
