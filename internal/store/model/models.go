package model

import "time"

// TenantSettings is one tenant's AI configuration. API keys land here
// already decrypted by the admin layer; this service never performs
// encryption or decryption itself.
type TenantSettings struct {
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	Provider  string    `db:"provider" json:"provider"`
	APIKey    string    `db:"api_key" json:"-"`
	Model     string    `db:"model" json:"model"`
	BaseURL   string    `db:"base_url" json:"base_url"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SystemSettings is the deployment-wide default AI configuration,
// consulted when a tenant has none of its own.
type SystemSettings struct {
	ID        int       `db:"id" json:"id"`
	Provider  string    `db:"provider" json:"provider"`
	APIKey    string    `db:"api_key" json:"-"`
	Model     string    `db:"model" json:"model"`
	BaseURL   string    `db:"base_url" json:"base_url"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RequestLog is one orchestrator invocation, persisted asynchronously
// for usage reporting.
type RequestLog struct {
	ID         string    `db:"id" json:"id"`
	TenantID   string    `db:"tenant_id" json:"tenant_id"`
	Mode       string    `db:"mode" json:"mode"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	DemoMode   bool      `db:"demo_mode" json:"demo_mode"`
	LatencyMS  int64     `db:"latency_ms" json:"latency_ms"`
	SectionCnt int       `db:"section_count" json:"section_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
