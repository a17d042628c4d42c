package clubmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating clubs table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS clubs (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(200) NOT NULL,
				abbreviation VARCHAR(50),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_clubs_name ON clubs(name);
			CREATE INDEX IF NOT EXISTS idx_clubs_abbreviation ON clubs(abbreviation);
		`)
		if err != nil {
			return fmt.Errorf("failed to create clubs table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping clubs table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS clubs;`); err != nil {
			return fmt.Errorf("failed to drop clubs table: %w", err)
		}
		return nil
	})
}
