package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/petanque-voyages/booking-system/models"
	"github.com/petanque-voyages/booking-system/repositories"
	"github.com/petanque-voyages/booking-system/tournament"
	"golang.org/x/sync/errgroup"
)

// Broadcaster pushes live events to websocket rooms. Satisfied by
// *tournament.Hub; nil-able for tests.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message tournament.Message)
}

type UpdateMatchInput struct {
	ScoreA *int                `json:"score_a"`
	ScoreB *int                `json:"score_b"`
	Status *models.MatchStatus `json:"status"`
}

type CreateTournamentInput struct {
	Name      string  `json:"name"`
	Location  *string `json:"location"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]*models.Tournament, error)
	GetOverview(ctx context.Context, tournamentID int) (*models.Tournament, error)

	GeneratePoolMatches(ctx context.Context, tournamentID int) (int, error)
	GenerateKnockout(ctx context.Context, tournamentID int) (int, error)
	UpdateMatch(ctx context.Context, tournamentID, matchID int, input UpdateMatchInput) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
	ListStandings(ctx context.Context, tournamentID int) ([]*models.Standing, error)
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	hub            Broadcaster
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	hub Broadcaster,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	t := &models.Tournament{
		Name:     input.Name,
		Location: input.Location,
		Status:   models.TournamentUpcoming,
	}
	if err := parseDate(input.StartDate, &t.StartDate); err != nil {
		return nil, fmt.Errorf("%w: invalid start_date", ErrValidationFailed)
	}
	if err := parseDate(input.EndDate, &t.EndDate); err != nil {
		return nil, fmt.Errorf("%w: invalid end_date", ErrValidationFailed)
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return t, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]*models.Tournament, error) {
	return s.tournamentRepo.List(ctx)
}

// GetOverview loads the tournament together with its teams, matches and
// standings in parallel and resolves team references on matches and standings.
func (s *tournamentService) GetOverview(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		teams, err := s.teamRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
		}
		t.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, nil, tournamentID, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
		}
		t.Matches = matches
		return nil
	})
	g.Go(func() error {
		standings, err := s.standingRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list standings for tournament %d: %w", tournamentID, err)
		}
		t.Standings = standings
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := teamIndex(t.Teams)
	attachTeamsToMatches(t.Matches, index)
	attachTeamsToStandings(t.Standings, index)
	return t, nil
}

// GeneratePoolMatches (re)creates every pool fixture for the tournament:
// existing pool matches and all standings are deleted first, then the
// round-robin fixtures and one zeroed standing per pooled team are inserted,
// all inside one transaction. Validation runs before any write, so a usage
// error leaves the tournament untouched.
func (s *tournamentService) GeneratePoolMatches(ctx context.Context, tournamentID int) (int, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return 0, ErrTournamentNotFound
		}
		return 0, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}

	fixtures, err := tournament.GeneratePoolMatches(teams, 1)
	if err != nil {
		return 0, err
	}

	pooled := make(map[int]string)
	for _, t := range teams {
		if t.Pool != nil && *t.Pool != "" {
			pooled[t.ID] = *t.Pool
		}
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.matchRepo.DeletePoolMatches(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete pool matches: %w", err)
		}
		if err := s.standingRepo.DeleteByTournament(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete standings: %w", err)
		}

		for _, f := range fixtures {
			pool := f.Pool
			teamA, teamB := f.TeamAID, f.TeamBID
			m := &models.Match{
				TournamentID: tournamentID,
				RoundType:    models.RoundPool,
				Pool:         &pool,
				MatchNumber:  f.MatchNumber,
				TeamAID:      &teamA,
				TeamBID:      &teamB,
				Status:       models.MatchScheduled,
			}
			if err := s.matchRepo.Create(ctx, tx, m); err != nil {
				return fmt.Errorf("failed to create pool match %d: %w", f.MatchNumber, err)
			}
		}

		// Rank starts at 0 and is assigned by the first recomputation.
		for teamID, pool := range pooled {
			zero := &models.Standing{
				TournamentID: tournamentID,
				TeamID:       teamID,
				Pool:         pool,
			}
			if err := s.standingRepo.Upsert(ctx, tx, zero); err != nil {
				return err
			}
		}

		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentPoolStage)
	})
	if err != nil {
		return 0, err
	}

	s.broadcast(tournamentID, tournament.EventBracketRegenerate, map[string]interface{}{
		"stage":           "pool",
		"matches_created": len(fixtures),
	})
	return len(fixtures), nil
}

// GenerateKnockout deletes any existing knockout matches and seeds a fresh
// bracket from the current standings. Seeding is validated before the
// transaction opens; fewer than 4 qualifiers performs no writes.
func (s *tournamentService) GenerateKnockout(ctx context.Context, tournamentID int) (int, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return 0, ErrTournamentNotFound
		}
		return 0, err
	}

	standings, err := s.standingRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to list standings for tournament %d: %w", tournamentID, err)
	}

	poolRound := models.RoundPool
	poolMatches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, &poolRound, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to list pool matches for tournament %d: %w", tournamentID, err)
	}
	startNumber := 1
	for _, m := range poolMatches {
		if m.MatchNumber >= startNumber {
			startNumber = m.MatchNumber + 1
		}
	}

	bracket, err := tournament.SeedKnockout(standings, startNumber)
	if err != nil {
		return 0, err
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.matchRepo.DeleteKnockoutMatches(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete knockout matches: %w", err)
		}
		for _, bm := range bracket {
			m := &models.Match{
				TournamentID: tournamentID,
				RoundType:    bm.RoundType,
				MatchNumber:  bm.MatchNumber,
				Slot:         bm.Slot,
				TeamAID:      bm.TeamAID,
				TeamBID:      bm.TeamBID,
				Status:       models.MatchScheduled,
			}
			if err := s.matchRepo.Create(ctx, tx, m); err != nil {
				return fmt.Errorf("failed to create %s match slot %d: %w", bm.RoundType, bm.Slot, err)
			}
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentKnockout)
	})
	if err != nil {
		return 0, err
	}

	s.broadcast(tournamentID, tournament.EventBracketRegenerate, map[string]interface{}{
		"stage":           "knockout",
		"matches_created": len(bracket),
	})
	return len(bracket), nil
}

// UpdateMatch persists a score/status change. When a pool match finishes, its
// pool's standings are recomputed and upserted; when a knockout match
// finishes, the winner (and in semifinals the loser) is written into the next
// round's slot. All writes of one update, including the triggered ones, share
// a transaction, so a failed advancement never leaves a half-updated bracket.
func (s *tournamentService) UpdateMatch(ctx context.Context, tournamentID, matchID int, input UpdateMatchInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if match.TournamentID != tournamentID {
		return nil, ErrMatchNotFound
	}
	if match.RoundType.IsKnockout() && (match.TeamAID == nil || match.TeamBID == nil) {
		return nil, ErrKnockoutPairingDenied
	}

	if input.ScoreA != nil {
		match.ScoreA = *input.ScoreA
	}
	if input.ScoreB != nil {
		match.ScoreB = *input.ScoreB
	}
	if input.Status != nil {
		match.Status = *input.Status
	}

	if match.ScoreA < 0 || match.ScoreB < 0 {
		return nil, ErrNegativeScore
	}
	switch match.Status {
	case models.MatchScheduled, models.MatchLive, models.MatchFinished:
	default:
		return nil, ErrInvalidMatchStatus
	}
	finished := match.Status == models.MatchFinished
	if finished && match.RoundType.IsKnockout() && match.ScoreA == match.ScoreB {
		return nil, tournament.ErrKnockoutDraw
	}

	var (
		poolStandings []*models.Standing
		advanced      []tournament.SlotAssignment
	)

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.matchRepo.UpdateScoreStatus(ctx, tx, match.ID, match.ScoreA, match.ScoreB, match.Status); err != nil {
			return err
		}
		if !finished {
			return nil
		}

		if match.RoundType == models.RoundPool {
			if match.Pool == nil {
				return fmt.Errorf("pool match %d has no pool label", match.ID)
			}
			if err := s.recomputePoolStandings(ctx, tx, tournamentID, *match.Pool); err != nil {
				return err
			}
			rows, err := s.standingRepo.ListByPool(ctx, tx, tournamentID, *match.Pool)
			if err != nil {
				return fmt.Errorf("failed to read back standings for pool %s: %w", *match.Pool, err)
			}
			poolStandings = rows
			return nil
		}

		knockout, err := s.matchRepo.ListKnockout(ctx, tx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list knockout matches: %w", err)
		}
		assignments, err := tournament.Advance(match, knockout)
		if err != nil {
			return err
		}
		for _, a := range assignments {
			if err := s.matchRepo.SetTeam(ctx, tx, a.MatchID, string(a.Side), a.TeamID); err != nil {
				return fmt.Errorf("failed to advance team %d into match %d: %w", a.TeamID, a.MatchID, err)
			}
		}
		advanced = assignments

		if match.RoundType == models.RoundFinal {
			return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentCompleted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(tournamentID, tournament.EventMatchUpdated, match)
	if poolStandings != nil {
		s.broadcast(tournamentID, tournament.EventStandingsUpdated, map[string]interface{}{
			"pool":      *match.Pool,
			"standings": poolStandings,
		})
	}
	if len(advanced) > 0 {
		s.broadcast(tournamentID, tournament.EventBracketAdvanced, advanced)
	}
	return match, nil
}

func (s *tournamentService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	attachTeamsToMatches(matches, teamIndex(teams))
	return matches, nil
}

func (s *tournamentService) ListStandings(ctx context.Context, tournamentID int) ([]*models.Standing, error) {
	standings, err := s.standingRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings for tournament %d: %w", tournamentID, err)
	}
	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	attachTeamsToStandings(standings, teamIndex(teams))
	return standings, nil
}

// recomputePoolStandings rebuilds one pool's table from scratch inside the
// caller's transaction and upserts every row.
func (s *tournamentService) recomputePoolStandings(ctx context.Context, tx *sql.Tx, tournamentID int, pool string) error {
	teams, err := s.teamRepo.ListByTournament(ctx, tx, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to list teams for standings: %w", err)
	}
	poolTeams := make([]*models.Team, 0)
	for _, t := range teams {
		if t.Pool != nil && *t.Pool == pool {
			poolTeams = append(poolTeams, t)
		}
	}

	poolRound := models.RoundPool
	matches, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID, &poolRound, &pool)
	if err != nil {
		return fmt.Errorf("failed to list pool matches for standings: %w", err)
	}

	standings := tournament.ComputeStandings(tournamentID, pool, poolTeams, matches)
	for _, st := range standings {
		if err := s.standingRepo.Upsert(ctx, tx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s *tournamentService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *tournamentService) broadcast(tournamentID int, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	room := strconv.Itoa(tournamentID)
	s.hub.BroadcastToRoom(room, tournament.Message{Type: eventType, Payload: payload, RoomID: room})
}

func teamIndex(teams []*models.Team) map[int]*models.Team {
	index := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		index[t.ID] = t
	}
	return index
}

func attachTeamsToMatches(matches []*models.Match, index map[int]*models.Team) {
	for _, m := range matches {
		if m.TeamAID != nil {
			m.TeamA = index[*m.TeamAID]
		}
		if m.TeamBID != nil {
			m.TeamB = index[*m.TeamBID]
		}
	}
}

func attachTeamsToStandings(standings []*models.Standing, index map[int]*models.Team) {
	for _, s := range standings {
		s.Team = index[s.TeamID]
	}
}
