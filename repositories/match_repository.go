package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/petanque-voyages/booking-system/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchTeamInvalid       = errors.New("match team conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, roundType *models.RoundType, pool *string) ([]*models.Match, error)
	ListKnockout(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
	UpdateScoreStatus(ctx context.Context, exec SQLExecutor, id int, scoreA, scoreB int, status models.MatchStatus) error
	SetTeam(ctx context.Context, exec SQLExecutor, id int, side string, teamID int) error
	DeletePoolMatches(ctx context.Context, exec SQLExecutor, tournamentID int) error
	DeleteKnockoutMatches(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, round_type, pool, match_number, slot,
	       team_a_id, team_b_id, score_a, score_b, status, court, scheduled_at, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, round_type, pool, match_number, slot, team_a_id, team_b_id,
			 score_a, score_b, status, court, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.TournamentID,
		match.RoundType,
		match.Pool,
		match.MatchNumber,
		match.Slot,
		match.TeamAID,
		match.TeamBID,
		match.ScoreA,
		match.ScoreB,
		match.Status,
		match.Court,
		match.ScheduledAt,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.RoundType, &m.Pool, &m.MatchNumber, &m.Slot,
		&m.TeamAID, &m.TeamBID, &m.ScoreA, &m.ScoreB, &m.Status, &m.Court, &m.ScheduledAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, roundType *models.RoundType, pool *string) ([]*models.Match, error) {
	executor := r.getExecutor(exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if roundType != nil {
		queryBuilder.WriteString(" AND round_type = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *roundType)
		placeholderIndex++
	}
	if pool != nil {
		queryBuilder.WriteString(" AND pool = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *pool)
	}

	queryBuilder.WriteString(" ORDER BY match_number ASC")

	return r.queryMatches(ctx, executor, queryBuilder.String(), args...)
}

func (r *postgresMatchRepository) ListKnockout(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1 AND round_type <> 'pool'
		ORDER BY match_number ASC`
	return r.queryMatches(ctx, executor, query, tournamentID)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateScoreStatus(ctx context.Context, exec SQLExecutor, id int, scoreA, scoreB int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET score_a = $1, score_b = $2, status = $3 WHERE id = $4`
	result, err := executor.ExecContext(ctx, query, scoreA, scoreB, status, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// SetTeam writes one team into one side of a match without touching the other
// slot. side must be "A" or "B".
func (r *postgresMatchRepository) SetTeam(ctx context.Context, exec SQLExecutor, id int, side string, teamID int) error {
	executor := r.getExecutor(exec)
	var query string
	switch side {
	case "A":
		query = `UPDATE matches SET team_a_id = $1 WHERE id = $2`
	case "B":
		query = `UPDATE matches SET team_b_id = $1 WHERE id = $2`
	default:
		return fmt.Errorf("invalid match side %q", side)
	}
	result, err := executor.ExecContext(ctx, query, teamID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeletePoolMatches(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM matches WHERE tournament_id = $1 AND round_type = 'pool'`
	_, err := executor.ExecContext(ctx, query, tournamentID)
	return err
}

func (r *postgresMatchRepository) DeleteKnockoutMatches(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM matches WHERE tournament_id = $1 AND round_type <> 'pool'`
	_, err := executor.ExecContext(ctx, query, tournamentID)
	return err
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_team_a_id_fkey", "matches_team_b_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
