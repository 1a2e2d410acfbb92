package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chalkline/assistant-api/internal/store/cache"
	"github.com/chalkline/assistant-api/internal/store/model"
)

type countingReader struct {
	tenantCalls int
	systemCalls int
}

func (r *countingReader) GetTenantSettings(_ context.Context, tenantID string) (*model.TenantSettings, error) {
	r.tenantCalls++
	return &model.TenantSettings{TenantID: tenantID, Provider: "openai"}, nil
}

func (r *countingReader) GetSystemSettings(context.Context) (*model.SystemSettings, error) {
	r.systemCalls++
	return &model.SystemSettings{ID: 1, Provider: "anthropic"}, nil
}

func TestCachedSettingsSystemTier(t *testing.T) {
	reader := &countingReader{}
	cached := NewCachedSettings(reader, cache.NewMemoryCache(), time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s, err := cached.GetSystemSettings(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "anthropic", s.Provider)
	}
	assert.Equal(t, 1, reader.systemCalls)

	cached.Invalidate(ctx)
	_, err := cached.GetSystemSettings(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, reader.systemCalls)
}

func TestCachedSettingsTenantTierNeverCached(t *testing.T) {
	reader := &countingReader{}
	cached := NewCachedSettings(reader, cache.NewMemoryCache(), time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s, err := cached.GetTenantSettings(ctx, "t-1")
		assert.NoError(t, err)
		assert.Equal(t, "t-1", s.TenantID)
	}
	assert.Equal(t, 3, reader.tenantCalls)
}
