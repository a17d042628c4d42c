package competitormigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating competitors table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS competitors (
				id BIGSERIAL PRIMARY KEY,
				first_name VARCHAR(100) NOT NULL,
				middle_name VARCHAR(100),
				last_name VARCHAR(100) NOT NULL,
				registration BIGINT,
				competitor_number VARCHAR(50),
				date_of_birth DATE,
				category VARCHAR(50) NOT NULL DEFAULT 'none',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_competitors_registration ON competitors(registration);
			CREATE INDEX IF NOT EXISTS idx_competitors_name ON competitors(LOWER(first_name), LOWER(last_name));
		`)
		if err != nil {
			return fmt.Errorf("failed to create competitors table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping competitors table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS competitors;`); err != nil {
			return fmt.Errorf("failed to drop competitors table: %w", err)
		}
		return nil
	})
}
