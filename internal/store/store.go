package store

import (
	"context"
	"errors"

	"github.com/chalkline/assistant-api/internal/store/model"
)

// ErrNotFound is returned when a settings row does not exist. Callers
// treat it as "this tier is unconfigured", not as a failure.
var ErrNotFound = errors.New("not found")

// SettingsReader is the read-only view the orchestrator resolves
// credentials through. Settings are re-read per request so that
// admin-updated credentials take effect without a restart.
type SettingsReader interface {
	GetTenantSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error)
	GetSystemSettings(ctx context.Context) (*model.SystemSettings, error)
}

type SettingsRepository interface {
	SettingsReader
	UpsertTenantSettings(ctx context.Context, s *model.TenantSettings) error
	UpsertSystemSettings(ctx context.Context, s *model.SystemSettings) error
}

type RequestRepository interface {
	InsertBatch(ctx context.Context, logs []*model.RequestLog) error
}

// Repository is the top-level persistence surface.
type Repository interface {
	Settings() SettingsRepository
	Requests() RequestRepository
	Close() error
}
