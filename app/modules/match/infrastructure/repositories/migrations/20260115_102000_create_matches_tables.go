package matchmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating matches and stages tables...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS matches (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				date TIMESTAMPTZ,
				club_id BIGINT REFERENCES clubs(id),
				firearm VARCHAR(50),
				category VARCHAR(50),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				edited_at TIMESTAMPTZ,
				refreshed_at TIMESTAMPTZ
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_name ON matches(name);
			CREATE INDEX IF NOT EXISTS idx_matches_club_id ON matches(club_id);

			CREATE TABLE IF NOT EXISTS stages (
				id BIGSERIAL PRIMARY KEY,
				match_id BIGINT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
				number INT NOT NULL,
				paper INT NOT NULL DEFAULT 0,
				poppers INT NOT NULL DEFAULT 0,
				plates INT NOT NULL DEFAULT 0,
				min_rounds INT NOT NULL DEFAULT 0,
				max_points INT NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (match_id, number)
			);
		`)
		if err != nil {
			return fmt.Errorf("failed to create matches tables: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping matches and stages tables...")

		if _, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS stages;
			DROP TABLE IF EXISTS matches;
		`); err != nil {
			return fmt.Errorf("failed to drop matches tables: %w", err)
		}
		return nil
	})
}
