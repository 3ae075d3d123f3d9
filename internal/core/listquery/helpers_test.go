package listquery

import (
	"context"
	"sync"
	"time"
)

// manualClock fires timers only when Advance is called.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	f       func()
	fired   bool
	stopped bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward, running due timers in order.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var next *manualTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

type fetchResult struct {
	res ResultSet[string]
	err error
}

type pendingCall struct {
	req     Request
	release chan fetchResult
}

// gatedFetcher blocks every request until the test releases it.
type gatedFetcher struct {
	started chan *pendingCall
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{started: make(chan *pendingCall, 16)}
}

func (f *gatedFetcher) List(ctx context.Context, req Request) (ResultSet[string], error) {
	call := &pendingCall{req: req, release: make(chan fetchResult, 1)}
	f.started <- call
	select {
	case r := <-call.release:
		return r.res, r.err
	case <-ctx.Done():
		return ResultSet[string]{}, ctx.Err()
	}
}

func (f *gatedFetcher) next() *pendingCall {
	select {
	case c := <-f.started:
		return c
	case <-time.After(2 * time.Second):
		panic("no request was dispatched")
	}
}

// countingObserver records coordinator events.
type countingObserver struct {
	mu         sync.Mutex
	dispatched int
	discarded  int
	settled    map[Status]int
	discards   chan struct{}
	settles    chan struct{}
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		settled:  map[Status]int{},
		discards: make(chan struct{}, 16),
		settles:  make(chan struct{}, 16),
	}
}

func (o *countingObserver) Dispatched(string) {
	o.mu.Lock()
	o.dispatched++
	o.mu.Unlock()
}

func (o *countingObserver) Discarded(string) {
	o.mu.Lock()
	o.discarded++
	o.mu.Unlock()
	o.discards <- struct{}{}
}

func (o *countingObserver) Settled(_ string, s Status, _ time.Duration) {
	o.mu.Lock()
	o.settled[s]++
	o.mu.Unlock()
	o.settles <- struct{}{}
}

func waitFor(ch chan struct{}) {
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		panic("timed out waiting for coordinator event")
	}
}

var testSchema = Schema{
	Entity: "propositions",
	Fields: []Field{
		{Name: "id", Label: "ID", DefaultOrder: Asc},
		{Name: "ano", Label: "Ano", DefaultOrder: Desc},
		{Name: "dataApresentacao", Label: "Apresentação", DefaultOrder: Desc},
		{Name: "impact_score", Label: "Impacto", DefaultOrder: Desc},
	},
	DefaultSort:     SortSpec{Property: "dataApresentacao", Order: Desc},
	FilterKeys:      []string{"search", "siglaTipo", "scope", "ano", "scored"},
	ParamNames:      map[string]string{"search": "ementa__ilike"},
	PageSizes:       []int{5, 10, 25},
	DefaultPageSize: 10,
	URLKey:          "search",
}
