package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/logger"
	"github.com/legisdash/legisdash/internal/metrics"
)

// Manager owns the live views. Each session has exactly one owned controller;
// records are saved after every accepted intent so a view survives a restart.
type Manager struct {
	repo    Repository
	factory Factory
	log     *logger.Logger
	metrics *metrics.Metrics
	opts    listquery.Options
	now     func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	// saveMu orders record writes against Close so a late change cannot
	// resurrect a deleted record.
	saveMu sync.Mutex
}

func NewManager(repo Repository, factory Factory, log *logger.Logger, m *metrics.Metrics, opts listquery.Options) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	if m != nil && opts.Observer == nil {
		opts.Observer = m.ListObserver()
	}
	return &Manager{
		repo:     repo,
		factory:  factory,
		log:      log.Component("session"),
		metrics:  m,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Open mounts a new view. rawQuery is the query string of the page URL, so
// ?search= deep links seed the filter.
func (m *Manager) Open(ctx context.Context, kind Kind, rawQuery string) (*Session, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	id := uuid.New()
	s, err := m.mount(id, kind, listquery.QueryState{}, rawQuery, time.Time{})
	if err != nil {
		return nil, err
	}
	if err := m.persist(ctx, id); err != nil {
		m.drop(id)
		return nil, fmt.Errorf("save session: %w", err)
	}
	m.log.Info().Str("session_id", id.String()).Str("kind", string(kind)).Msg("view opened")
	return s, nil
}

// Get returns a live session, restoring it from the repository when this
// process has no controller for it.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = m.now()
	}
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	rec, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	s, err = m.mount(id, rec.Kind, rec.Query(), "", rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.log.Info().Str("session_id", id.String()).Str("kind", string(rec.Kind)).Msg("view restored")
	return s, nil
}

// Do runs an intent against the session's view and persists the result.
// A rejected intent is not saved.
func (m *Manager) Do(ctx context.Context, id uuid.UUID, intent func(View) error) (*Session, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := intent(s.View); err != nil {
		return s, err
	}
	// Raw filter edits change no published state, so save here as well.
	if err := m.persist(ctx, id); err != nil {
		m.log.Warn().Err(err).Str("session_id", id.String()).Msg("failed to persist view")
	}
	return s, nil
}

func (m *Manager) Close(ctx context.Context, id uuid.UUID) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	found := m.drop(id)

	rec, err := m.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil && !found {
		return ErrNotFound
	}
	return m.repo.Delete(ctx, id)
}

// Sweep closes views idle for longer than maxIdle and returns how many live
// views were closed.
func (m *Manager) Sweep(ctx context.Context, maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.gaugeLocked()
	m.mu.Unlock()

	for _, s := range idle {
		s.View.Close()
	}
	if n, err := m.repo.DeleteIdle(ctx, cutoff); err != nil {
		m.log.Warn().Err(err).Msg("failed to delete idle view records")
	} else if n > 0 || len(idle) > 0 {
		m.log.Info().Int("closed", len(idle)).Int64("deleted", n).Msg("idle views swept")
	}
	return len(idle)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx, maxIdle)
		}
	}
}

// Shutdown closes every live controller. Records are kept.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.gaugeLocked()
	m.mu.Unlock()

	for _, s := range sessions {
		s.View.Close()
	}
}

// Len is the number of live views.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) mount(id uuid.UUID, kind Kind, initial listquery.QueryState, rawQuery string, created time.Time) (*Session, error) {
	opts := m.opts
	opts.Location = listquery.NewURL(kind.Path(), rawQuery)
	// Every published transition is saved, including the page reset of a
	// debounced filter change.
	onChange := opts.OnChange
	opts.OnChange = func() {
		if err := m.persist(context.Background(), id); err != nil {
			m.log.Warn().Err(err).Str("session_id", id.String()).Msg("failed to persist view")
		}
		if onChange != nil {
			onChange()
		}
	}

	view, err := m.factory.New(kind, initial, opts)
	if err != nil {
		return nil, err
	}
	now := m.now()
	if created.IsZero() {
		created = now
	}
	s := &Session{ID: id, Kind: kind, View: view, CreatedAt: created, lastSeen: now}

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		// Restored concurrently; keep the first controller.
		m.mu.Unlock()
		view.Close()
		return existing, nil
	}
	m.sessions[id] = s
	m.gaugeLocked()
	m.mu.Unlock()

	if err := view.Start(); err != nil {
		m.drop(id)
		return nil, err
	}
	return s, nil
}

func (m *Manager) drop(id uuid.UUID) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.gaugeLocked()
	m.mu.Unlock()
	if ok {
		s.View.Close()
	}
	return ok
}

// persist saves the session if it is still live.
func (m *Manager) persist(ctx context.Context, id uuid.UUID) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return m.save(ctx, s)
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	q := s.View.Query()
	rec := &Record{
		ID:        s.ID,
		Kind:      s.Kind,
		Page:      q.Page,
		PageSize:  q.PageSize,
		Sort:      q.Sort,
		Filters:   s.View.Filters(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: m.now(),
	}
	return m.repo.Save(ctx, rec)
}

func (m *Manager) gaugeLocked() {
	if m.metrics != nil {
		m.metrics.SessionsActive.Set(float64(len(m.sessions)))
	}
}
