package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/chalkline/assistant-api/internal/store"
	"github.com/chalkline/assistant-api/internal/store/model"
)

// DB is the query surface shared by *sqlx.DB and *sqlx.Tx.
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository.
type SqliteRepository struct {
	db       *sqlx.DB
	executor DB
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) Settings() store.SettingsRepository {
	return &settingsRepo{db: r.executor}
}

func (r *SqliteRepository) Requests() store.RequestRepository {
	return &requestRepo{db: r.executor, sqlxDB: r.db}
}

type settingsRepo struct {
	db DB
}

func (r *settingsRepo) GetTenantSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	var s model.TenantSettings
	query := `SELECT * FROM tenant_settings WHERE tenant_id = ?`
	if err := r.db.GetContext(ctx, &s, query, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) GetSystemSettings(ctx context.Context) (*model.SystemSettings, error) {
	var s model.SystemSettings
	query := `SELECT * FROM system_settings WHERE id = 1`
	if err := r.db.GetContext(ctx, &s, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) UpsertTenantSettings(ctx context.Context, s *model.TenantSettings) error {
	s.UpdatedAt = time.Now()
	query := `
	INSERT INTO tenant_settings (tenant_id, provider, api_key, model, base_url, updated_at)
	VALUES (:tenant_id, :provider, :api_key, :model, :base_url, :updated_at)
	ON CONFLICT(tenant_id) DO UPDATE SET
		provider = excluded.provider,
		api_key = excluded.api_key,
		model = excluded.model,
		base_url = excluded.base_url,
		updated_at = excluded.updated_at`
	_, err := r.db.NamedExecContext(ctx, query, s)
	return err
}

func (r *settingsRepo) UpsertSystemSettings(ctx context.Context, s *model.SystemSettings) error {
	s.ID = 1
	s.UpdatedAt = time.Now()
	query := `
	INSERT INTO system_settings (id, provider, api_key, model, base_url, updated_at)
	VALUES (:id, :provider, :api_key, :model, :base_url, :updated_at)
	ON CONFLICT(id) DO UPDATE SET
		provider = excluded.provider,
		api_key = excluded.api_key,
		model = excluded.model,
		base_url = excluded.base_url,
		updated_at = excluded.updated_at`
	_, err := r.db.NamedExecContext(ctx, query, s)
	return err
}

type requestRepo struct {
	db     DB
	sqlxDB *sqlx.DB
}

func (r *requestRepo) InsertBatch(ctx context.Context, logs []*model.RequestLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := r.sqlxDB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO request_logs (id, tenant_id, mode, provider, model, demo_mode, latency_ms, section_count, created_at)
	VALUES (:id, :tenant_id, :mode, :provider, :model, :demo_mode, :latency_ms, :section_count, :created_at)`

	for _, l := range logs {
		if _, err := tx.NamedExecContext(ctx, query, l); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
