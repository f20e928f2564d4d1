package postgres

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Practitionerbookingdesign/backend/migrations"
)

// Migrate applies all pending schema migrations from the embedded
// migrations directory.
func (c *Client) Migrate(ctx context.Context) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(migrations.FS)

	if err := goose.UpContext(ctx, c.db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, c.db)
	if err != nil {
		return fmt.Errorf("get migration version: %w", err)
	}

	log.Info().Int64("version", version).Msg("database migrations applied")
	return nil
}
