package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/petanque-voyages/booking-system/models"
)

var ErrStandingNotFound = errors.New("standing not found")

type StandingRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, standing *models.Standing) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Standing, error)
	ListByPool(ctx context.Context, exec SQLExecutor, tournamentID int, pool string) ([]*models.Standing, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Upsert writes the row keyed by (tournament_id, team_id), fully replacing any
// prior values. Standings are recomputed from scratch, so every column is
// overwritten on conflict.
func (r *postgresStandingRepository) Upsert(ctx context.Context, exec SQLExecutor, standing *models.Standing) error {
	executor := r.getExecutor(exec)
	if standing.UpdatedAt.IsZero() {
		standing.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO standings
			(tournament_id, team_id, pool, played, wins, draws, losses,
			 points_for, points_against, points_diff, points, rank, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (tournament_id, team_id) DO UPDATE SET
			pool = EXCLUDED.pool,
			played = EXCLUDED.played,
			wins = EXCLUDED.wins,
			draws = EXCLUDED.draws,
			losses = EXCLUDED.losses,
			points_for = EXCLUDED.points_for,
			points_against = EXCLUDED.points_against,
			points_diff = EXCLUDED.points_diff,
			points = EXCLUDED.points,
			rank = EXCLUDED.rank,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		standing.TournamentID, standing.TeamID, standing.Pool,
		standing.Played, standing.Wins, standing.Draws, standing.Losses,
		standing.PointsFor, standing.PointsAgainst, standing.PointsDiff,
		standing.Points, standing.Rank, standing.UpdatedAt,
	).Scan(&standing.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert standing for t:%d team:%d: %w", standing.TournamentID, standing.TeamID, err)
	}
	return nil
}

func (r *postgresStandingRepository) scanStanding(rowScanner interface{ Scan(...interface{}) error }) (*models.Standing, error) {
	var s models.Standing
	err := rowScanner.Scan(
		&s.ID, &s.TournamentID, &s.TeamID, &s.Pool, &s.Played, &s.Wins, &s.Draws,
		&s.Losses, &s.PointsFor, &s.PointsAgainst, &s.PointsDiff, &s.Points, &s.Rank, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStandingNotFound
		}
		return nil, err
	}
	return &s, nil
}

const standingColumns = `id, tournament_id, team_id, pool, played, wins, draws, losses,
	       points_for, points_against, points_diff, points, rank, updated_at`

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Standing, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + standingColumns + `
		FROM standings
		WHERE tournament_id = $1
		ORDER BY pool ASC, rank ASC, team_id ASC`
	return r.queryStandings(ctx, executor, query, tournamentID)
}

func (r *postgresStandingRepository) ListByPool(ctx context.Context, exec SQLExecutor, tournamentID int, pool string) ([]*models.Standing, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + standingColumns + `
		FROM standings
		WHERE tournament_id = $1 AND pool = $2
		ORDER BY rank ASC, team_id ASC`
	return r.queryStandings(ctx, executor, query, tournamentID, pool)
}

func (r *postgresStandingRepository) queryStandings(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.Standing, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	standings := make([]*models.Standing, 0)
	for rows.Next() {
		s, scanErr := r.scanStanding(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}

func (r *postgresStandingRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM standings WHERE tournament_id = $1`
	_, err := executor.ExecContext(ctx, query, tournamentID)
	return err
}
