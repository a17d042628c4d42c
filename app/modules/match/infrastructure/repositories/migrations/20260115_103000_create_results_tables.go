package matchmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating match result tables...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS match_competitors (
				id BIGSERIAL PRIMARY KEY,
				match_id BIGINT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
				competitor_id BIGINT NOT NULL REFERENCES competitors(id),
				division VARCHAR(50),
				discipline VARCHAR(50),
				power_factor VARCHAR(50),
				match_points DOUBLE PRECISION NOT NULL DEFAULT 0,
				match_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (match_id, competitor_id)
			);

			CREATE TABLE IF NOT EXISTS stage_competitors (
				id BIGSERIAL PRIMARY KEY,
				stage_id BIGINT NOT NULL REFERENCES stages(id) ON DELETE CASCADE,
				competitor_id BIGINT NOT NULL REFERENCES competitors(id),
				a INT NOT NULL DEFAULT 0,
				b INT NOT NULL DEFAULT 0,
				c INT NOT NULL DEFAULT 0,
				d INT NOT NULL DEFAULT 0,
				misses INT NOT NULL DEFAULT 0,
				penalties INT NOT NULL DEFAULT 0,
				procedurals INT NOT NULL DEFAULT 0,
				time DOUBLE PRECISION NOT NULL DEFAULT 0,
				hit_factor DOUBLE PRECISION NOT NULL DEFAULT 0,
				stage_points DOUBLE PRECISION NOT NULL DEFAULT 0,
				stage_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
				stage_rank INT NOT NULL DEFAULT 0,
				disqualified BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (stage_id, competitor_id)
			);

			CREATE TABLE IF NOT EXISTS club_matches (
				id BIGSERIAL PRIMARY KEY,
				club_id BIGINT NOT NULL REFERENCES clubs(id),
				match_id BIGINT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				refreshed_at TIMESTAMPTZ,
				UNIQUE (club_id, match_id)
			);

			CREATE TABLE IF NOT EXISTS club_match_competitors (
				id BIGSERIAL PRIMARY KEY,
				club_match_id BIGINT NOT NULL REFERENCES club_matches(id) ON DELETE CASCADE,
				competitor_id BIGINT NOT NULL REFERENCES competitors(id),
				points DOUBLE PRECISION NOT NULL DEFAULT 0,
				percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (club_match_id, competitor_id)
			);
		`)
		if err != nil {
			return fmt.Errorf("failed to create match result tables: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping match result tables...")

		if _, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS club_match_competitors;
			DROP TABLE IF EXISTS club_matches;
			DROP TABLE IF EXISTS stage_competitors;
			DROP TABLE IF EXISTS match_competitors;
		`); err != nil {
			return fmt.Errorf("failed to drop match result tables: %w", err)
		}
		return nil
	})
}
