package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/storage/postgres"
)

// Repository persists view records. Get returns nil, nil for a missing record.
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteIdle(ctx context.Context, before time.Time) (int64, error)
}

var Schema = []string{
	`CREATE TABLE IF NOT EXISTS view_sessions (
		id UUID PRIMARY KEY,
		kind TEXT NOT NULL,
		page INTEGER NOT NULL DEFAULT 0,
		page_size INTEGER NOT NULL,
		sort_property TEXT NOT NULL DEFAULT '',
		sort_order TEXT NOT NULL DEFAULT 'asc',
		filters JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_view_sessions_updated_at ON view_sessions (updated_at)`,
}

type PostgresRepository struct {
	db *postgres.Client
}

func NewPostgresRepository(db *postgres.Client) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Migrate(ctx context.Context) error {
	return r.db.Migrate(ctx, Schema...)
}

func (r *PostgresRepository) Save(ctx context.Context, rec *Record) error {
	filters, err := json.Marshal(rec.Filters)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO view_sessions (id, kind, page, page_size, sort_property, sort_order, filters, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			page = EXCLUDED.page,
			page_size = EXCLUDED.page_size,
			sort_property = EXCLUDED.sort_property,
			sort_order = EXCLUDED.sort_order,
			filters = EXCLUDED.filters,
			updated_at = EXCLUDED.updated_at`
	_, err = r.db.DB.ExecContext(ctx, query,
		rec.ID, string(rec.Kind), rec.Page, rec.PageSize, rec.Sort.Property, string(rec.Sort.Order),
		filters, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	query := `
		SELECT id, kind, page, page_size, sort_property, sort_order, filters, created_at, updated_at
		FROM view_sessions WHERE id = $1`
	rec := &Record{}
	var kind, order string
	var filters []byte
	err := r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &kind, &rec.Page, &rec.PageSize, &rec.Sort.Property, &order,
		&filters, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.Kind = Kind(kind)
	rec.Sort.Order = listquery.Order(order)
	if err := json.Unmarshal(filters, &rec.Filters); err != nil {
		return nil, err
	}
	if rec.Filters == nil {
		rec.Filters = listquery.FilterMap{}
	}
	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.DB.ExecContext(ctx, `DELETE FROM view_sessions WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM view_sessions WHERE updated_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// MemoryRepository keeps records for the life of the process.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]Record)}
}

func (r *MemoryRepository) Save(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	cp.Filters = rec.Filters.Clone()
	r.records[rec.ID] = cp
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	rec.Filters = rec.Filters.Clone()
	return &rec, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

func (r *MemoryRepository) DeleteIdle(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, rec := range r.records {
		if rec.UpdatedAt.Before(before) {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}
