package database

import (
	"context"
	"fmt"

	"github.com/NeilMac555/odds-tracker/internal/config"
)

// Schema statements for the odds snapshot table. Kept as idempotent DDL so
// the init-db command can be re-run safely against an existing database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS odds_snapshots (
		id BIGSERIAL PRIMARY KEY,
		league TEXT NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		bookmaker TEXT NOT NULL,
		home_odds DOUBLE PRECISION,
		draw_odds DOUBLE PRECISION,
		away_odds DOUBLE PRECISION,
		collected_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		scheduled_start TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_odds_snapshots_market_time
		ON odds_snapshots (league, home_team, away_team, bookmaker, collected_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_odds_snapshots_collected_at
		ON odds_snapshots (collected_at DESC)`,
}

// InitSchema creates the odds snapshot table and its indexes if they do not
// already exist.
func InitSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

// Initialize creates a database connection pool and optionally applies the
// schema. Collectors run with applySchema=false in production; migrations are
// applied once via the init-db command.
func Initialize(ctx context.Context, cfg *config.DatabaseConfig, applySchema bool) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if applySchema {
		if err := InitSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}
