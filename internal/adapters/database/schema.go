package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/clients/postgres"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the facility and review tables if they do not exist.
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	if _, err := client.DB().ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
