package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/chalkline/assistant-api/internal/store/model"
	"github.com/chalkline/assistant-api/internal/store/sqlite"
)

func main() {
	repo, err := sqlite.NewSQLiteStorage("assistant.db")
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()

	system := &model.SystemSettings{
		ID:        1,
		Provider:  "openai",
		APIKey:    "changeme",
		Model:     "gpt-4o-mini",
		UpdatedAt: time.Now(),
	}
	if err := repo.Settings().UpsertSystemSettings(ctx, system); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Seeded system settings (demo mode until a real key is set)")

	tenantID := uuid.New().String()
	tenant := &model.TenantSettings{
		TenantID:  tenantID,
		Provider:  "anthropic",
		APIKey:    "changeme",
		Model:     "claude-3-5-sonnet-20240620",
		UpdatedAt: time.Now(),
	}
	if err := repo.Settings().UpsertTenantSettings(ctx, tenant); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seeded tenant: %s\n", tenantID)
	fmt.Printf("Use this ID in requests: {\"tenant_id\": %q}\n", tenantID)
}
