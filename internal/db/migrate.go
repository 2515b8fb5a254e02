package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/geocoder89/contacthub/internal/db/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded schema migrations. Goose wants a
// database/sql handle, so this opens a short-lived one next to the pool.
func RunMigrations(ctx context.Context, dbURL string) error {
	handle, err := sql.Open("pgx", dbURL)

	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}

	defer handle.Close()

	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, handle, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
