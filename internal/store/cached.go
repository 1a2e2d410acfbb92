package store

import (
	"context"
	"time"

	"github.com/chalkline/assistant-api/internal/store/cache"
	"github.com/chalkline/assistant-api/internal/store/model"
)

const systemSettingsKey = "settings:system"

// CachedSettings wraps a SettingsReader with a short-TTL cache for the
// system tier. Tenant settings are never cached: they can change
// between calls and staleness there means using another tenant's
// intent. The system tier is deployment-wide and a few seconds of
// staleness is acceptable. Scoping the cache behind this explicit
// accessor keeps it out of ambient global state and testable.
type CachedSettings struct {
	inner SettingsReader
	cache cache.CacheService
	ttl   time.Duration
}

func NewCachedSettings(inner SettingsReader, c cache.CacheService, ttl time.Duration) *CachedSettings {
	return &CachedSettings{inner: inner, cache: c, ttl: ttl}
}

func (s *CachedSettings) GetTenantSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	return s.inner.GetTenantSettings(ctx, tenantID)
}

func (s *CachedSettings) GetSystemSettings(ctx context.Context) (*model.SystemSettings, error) {
	var cached model.SystemSettings
	if err := s.cache.Get(ctx, systemSettingsKey, &cached); err == nil {
		return &cached, nil
	}

	settings, err := s.inner.GetSystemSettings(ctx)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, systemSettingsKey, settings, s.ttl)
	return settings, nil
}

// Invalidate drops the cached system tier, for admin update paths.
func (s *CachedSettings) Invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, systemSettingsKey)
}
