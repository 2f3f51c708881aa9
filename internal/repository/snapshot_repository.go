package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/NeilMac555/odds-tracker/internal/database"
	"github.com/NeilMac555/odds-tracker/internal/models"
)

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) SnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

const snapshotColumns = "id, league, home_team, away_team, bookmaker, home_odds, draw_odds, away_odds, collected_at, scheduled_start"

// Insert appends a single odds snapshot. No dedup is performed at write time.
func (r *PostgresSnapshotRepository) Insert(ctx context.Context, snapshot *models.OddsSnapshot) error {
	query := `
		INSERT INTO odds_snapshots (league, home_team, away_team, bookmaker, home_odds, draw_odds, away_odds, collected_at, scheduled_start)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		snapshot.League, snapshot.HomeTeam, snapshot.AwayTeam, snapshot.Bookmaker,
		snapshot.HomeOdds, snapshot.DrawOdds, snapshot.AwayOdds,
		snapshot.CollectedAt, snapshot.ScheduledStart,
	)
	if err != nil {
		return fmt.Errorf("failed to insert odds snapshot: %w", err)
	}

	return nil
}

// InsertBatch appends multiple odds snapshots using a bulk COPY
func (r *PostgresSnapshotRepository) InsertBatch(ctx context.Context, snapshots []*models.OddsSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	columns := []string{"league", "home_team", "away_team", "bookmaker", "home_odds", "draw_odds", "away_odds", "collected_at", "scheduled_start"}

	rows := make([][]interface{}, len(snapshots))
	for i, s := range snapshots {
		rows[i] = []interface{}{
			s.League, s.HomeTeam, s.AwayTeam, s.Bookmaker,
			s.HomeOdds, s.DrawOdds, s.AwayOdds, s.CollectedAt, s.ScheduledStart,
		}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"odds_snapshots"}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to batch insert odds snapshots: %w", err)
	}

	if count != int64(len(snapshots)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(snapshots))
	}

	return nil
}

// LatestPerMarket retrieves the most recent snapshot per market within the
// trailing duration. Ties on collected_at resolve to the last-inserted row.
func (r *PostgresSnapshotRepository) LatestPerMarket(ctx context.Context, within time.Duration, windowStart, windowEnd time.Time) ([]*models.OddsSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM (
			SELECT *,
			       ROW_NUMBER() OVER (
			           PARTITION BY league, home_team, away_team, bookmaker
			           ORDER BY collected_at DESC, id DESC
			       ) AS rn
			FROM odds_snapshots
			WHERE collected_at >= now() - $1::interval
			  AND scheduled_start IS NOT NULL
			  AND scheduled_start >= $2
			  AND scheduled_start < $3
		) ranked
		WHERE rn = 1
		ORDER BY league, home_team, bookmaker
	`, snapshotColumns)

	rows, err := r.db.GetPool().Query(ctx, query, within.String(), windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest odds per market: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// History retrieves all snapshots for one fixture within the trailing
// duration, ascending by collection time.
func (r *PostgresSnapshotRepository) History(ctx context.Context, league, homeTeam, awayTeam string, within time.Duration) ([]*models.OddsSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM odds_snapshots
		WHERE league = $1
		  AND home_team = $2
		  AND away_team = $3
		  AND collected_at >= now() - $4::interval
		ORDER BY collected_at ASC, id ASC
	`, snapshotColumns)

	rows, err := r.db.GetPool().Query(ctx, query, league, homeTeam, awayTeam, within.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query odds history: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ListMarkets retrieves the distinct market keys observed within the trailing
// duration whose kickoff falls inside [windowStart, windowEnd). Rows without
// a kickoff never match the window and are dropped.
func (r *PostgresSnapshotRepository) ListMarkets(ctx context.Context, within time.Duration, windowStart, windowEnd time.Time) ([]models.Market, error) {
	query := `
		SELECT DISTINCT league, home_team, away_team, bookmaker
		FROM odds_snapshots
		WHERE collected_at >= now() - $1::interval
		  AND scheduled_start IS NOT NULL
		  AND scheduled_start >= $2
		  AND scheduled_start < $3
		ORDER BY league, home_team, away_team, bookmaker
	`

	rows, err := r.db.GetPool().Query(ctx, query, within.String(), windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query markets: %w", err)
	}
	defer rows.Close()

	var markets []models.Market
	for rows.Next() {
		var m models.Market
		if err := rows.Scan(&m.League, &m.HomeTeam, &m.AwayTeam, &m.Bookmaker); err != nil {
			return nil, fmt.Errorf("failed to scan market: %w", err)
		}
		markets = append(markets, m)
	}

	return markets, rows.Err()
}

// MarketSnapshots retrieves one market's rows within the trailing duration,
// ascending by collection time with insertion order breaking timestamp ties.
// A non-positive duration means "since open": no time bound is applied.
func (r *PostgresSnapshotRepository) MarketSnapshots(ctx context.Context, market models.Market, within time.Duration) ([]*models.OddsSnapshot, error) {
	timeFilter := ""
	args := []interface{}{market.League, market.HomeTeam, market.AwayTeam, market.Bookmaker}
	if within > 0 {
		timeFilter = "AND collected_at >= now() - $5::interval"
		args = append(args, within.String())
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM odds_snapshots
		WHERE league = $1
		  AND home_team = $2
		  AND away_team = $3
		  AND bookmaker = $4
		  %s
		ORDER BY collected_at ASC, id ASC
	`, snapshotColumns, timeFilter)

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query market snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

func scanSnapshots(rows pgx.Rows) ([]*models.OddsSnapshot, error) {
	var snapshots []*models.OddsSnapshot
	for rows.Next() {
		snapshot := &models.OddsSnapshot{}
		err := rows.Scan(
			&snapshot.ID, &snapshot.League, &snapshot.HomeTeam, &snapshot.AwayTeam,
			&snapshot.Bookmaker, &snapshot.HomeOdds, &snapshot.DrawOdds, &snapshot.AwayOdds,
			&snapshot.CollectedAt, &snapshot.ScheduledStart,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan odds snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}
