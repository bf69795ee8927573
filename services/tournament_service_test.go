package services

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petanque-voyages/booking-system/models"
	"github.com/petanque-voyages/booking-system/repositories"
	"github.com/petanque-voyages/booking-system/tournament"
)

func strPtr(s string) *string                        { return &s }
func intPtr(i int) *int                              { return &i }
func statusPtr(s models.MatchStatus) *models.MatchStatus { return &s }

// In-memory fakes. The transaction handle is ignored, state changes apply
// immediately; transactional boundaries themselves are covered by sqlmock's
// Begin/Commit expectations.

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func (f *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	t.ID = len(f.tournaments) + 1
	f.tournaments[t.ID] = t
	return nil
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (f *fakeTournamentRepo) List(_ context.Context) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0, len(f.tournaments))
	for _, t := range f.tournaments {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (f *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	delete(f.tournaments, id)
	return nil
}

type fakeTeamRepo struct {
	teams []*models.Team
}

func (f *fakeTeamRepo) Create(_ context.Context, t *models.Team) error {
	t.ID = len(f.teams) + 1
	f.teams = append(f.teams, t)
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	for _, t := range f.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Team, error) {
	out := make([]*models.Team, 0)
	for _, t := range f.teams {
		if t.TournamentID == tournamentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) Update(_ context.Context, _ *models.Team) error            { return nil }
func (f *fakeTeamRepo) UpdatePhotoKey(_ context.Context, _ int, _ *string) error  { return nil }
func (f *fakeTeamRepo) Delete(_ context.Context, _ int) error                     { return nil }

type fakeMatchRepo struct {
	matches []*models.Match
	nextID  int
}

func (f *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	f.nextID++
	m.ID = f.nextID
	f.matches = append(f.matches, m)
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	for _, m := range f.matches {
		if m.ID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int, roundType *models.RoundType, pool *string) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range f.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if roundType != nil && m.RoundType != *roundType {
			continue
		}
		if pool != nil && (m.Pool == nil || *m.Pool != *pool) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMatchRepo) ListKnockout(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range f.matches {
		if m.TournamentID == tournamentID && m.RoundType != models.RoundPool {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateScoreStatus(_ context.Context, _ repositories.SQLExecutor, id, scoreA, scoreB int, status models.MatchStatus) error {
	for _, m := range f.matches {
		if m.ID == id {
			m.ScoreA, m.ScoreB, m.Status = scoreA, scoreB, status
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) SetTeam(_ context.Context, _ repositories.SQLExecutor, id int, side string, teamID int) error {
	for _, m := range f.matches {
		if m.ID == id {
			if side == "A" {
				m.TeamAID = &teamID
			} else {
				m.TeamBID = &teamID
			}
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) DeletePoolMatches(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	kept := f.matches[:0]
	for _, m := range f.matches {
		if m.TournamentID == tournamentID && m.RoundType == models.RoundPool {
			continue
		}
		kept = append(kept, m)
	}
	f.matches = kept
	return nil
}

func (f *fakeMatchRepo) DeleteKnockoutMatches(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	kept := f.matches[:0]
	for _, m := range f.matches {
		if m.TournamentID == tournamentID && m.RoundType != models.RoundPool {
			continue
		}
		kept = append(kept, m)
	}
	f.matches = kept
	return nil
}

type fakeStandingRepo struct {
	standings map[int]*models.Standing // keyed by team ID, single tournament
}

func (f *fakeStandingRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, s *models.Standing) error {
	f.standings[s.TeamID] = s
	return nil
}

func (f *fakeStandingRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Standing, error) {
	out := make([]*models.Standing, 0, len(f.standings))
	for _, s := range f.standings {
		if s.TournamentID == tournamentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStandingRepo) ListByPool(_ context.Context, _ repositories.SQLExecutor, tournamentID int, pool string) ([]*models.Standing, error) {
	out := make([]*models.Standing, 0)
	for _, s := range f.standings {
		if s.TournamentID == tournamentID && s.Pool == pool {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStandingRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for teamID, s := range f.standings {
		if s.TournamentID == tournamentID {
			delete(f.standings, teamID)
		}
	}
	return nil
}

type recordingHub struct {
	messages []tournament.Message
}

func (h *recordingHub) BroadcastToRoom(_ string, message tournament.Message) {
	h.messages = append(h.messages, message)
}

type serviceFixture struct {
	svc       TournamentService
	db        *sql.DB
	mock      sqlmock.Sqlmock
	tournRepo *fakeTournamentRepo
	teamRepo  *fakeTeamRepo
	matchRepo *fakeMatchRepo
	standRepo *fakeStandingRepo
	hub       *recordingHub
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &serviceFixture{
		db:        db,
		mock:      mock,
		tournRepo: &fakeTournamentRepo{tournaments: map[int]*models.Tournament{}},
		teamRepo:  &fakeTeamRepo{},
		matchRepo: &fakeMatchRepo{},
		standRepo: &fakeStandingRepo{standings: map[int]*models.Standing{}},
		hub:       &recordingHub{},
	}
	f.svc = NewTournamentService(
		db,
		f.tournRepo,
		f.teamRepo,
		f.matchRepo,
		f.standRepo,
		f.hub,
		slog.New(slog.NewTextHandler(testWriter{t}, nil)),
	)
	return f
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func (f *serviceFixture) addTournament(status models.TournamentStatus) *models.Tournament {
	t := &models.Tournament{Name: "Grand Prix", Status: status}
	_ = f.tournRepo.Create(context.Background(), t)
	return t
}

func (f *serviceFixture) addTeam(tournamentID int, pool string) *models.Team {
	team := &models.Team{TournamentID: tournamentID, Name: "team", Pool: strPtr(pool)}
	_ = f.teamRepo.Create(context.Background(), team)
	return team
}

func (f *serviceFixture) expectTx() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func TestGeneratePoolMatchesService(t *testing.T) {
	t.Run("creates fixtures and zeroed standings", func(t *testing.T) {
		f := newServiceFixture(t)
		tour := f.addTournament(models.TournamentUpcoming)
		for i := 0; i < 3; i++ {
			f.addTeam(tour.ID, "A")
		}
		for i := 0; i < 3; i++ {
			f.addTeam(tour.ID, "B")
		}
		f.expectTx()

		created, err := f.svc.GeneratePoolMatches(context.Background(), tour.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, created)
		assert.Len(t, f.matchRepo.matches, 6)
		assert.Len(t, f.standRepo.standings, 6)
		for _, s := range f.standRepo.standings {
			assert.Zero(t, s.Points)
			assert.Zero(t, s.Played)
		}
		assert.Equal(t, models.TournamentPoolStage, tour.Status)
		require.NotEmpty(t, f.hub.messages)
		assert.Equal(t, tournament.EventBracketRegenerate, f.hub.messages[0].Type)
	})

	t.Run("regeneration replaces rather than appends", func(t *testing.T) {
		f := newServiceFixture(t)
		tour := f.addTournament(models.TournamentUpcoming)
		for i := 0; i < 4; i++ {
			f.addTeam(tour.ID, "A")
		}
		f.expectTx()
		_, err := f.svc.GeneratePoolMatches(context.Background(), tour.ID)
		require.NoError(t, err)

		f.expectTx()
		created, err := f.svc.GeneratePoolMatches(context.Background(), tour.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, created)
		assert.Len(t, f.matchRepo.matches, 6, "old fixtures must be gone")
	})

	t.Run("no pooled teams performs no writes", func(t *testing.T) {
		f := newServiceFixture(t)
		tour := f.addTournament(models.TournamentUpcoming)
		team := &models.Team{TournamentID: tour.ID, Name: "unassigned"}
		_ = f.teamRepo.Create(context.Background(), team)

		_, err := f.svc.GeneratePoolMatches(context.Background(), tour.ID)
		assert.ErrorIs(t, err, tournament.ErrNoPooledTeams)
		assert.Empty(t, f.matchRepo.matches)
		require.NoError(t, f.mock.ExpectationsWereMet(), "no transaction should have been opened")
	})

	t.Run("unknown tournament", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.GeneratePoolMatches(context.Background(), 99)
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})
}

func TestGenerateKnockoutService(t *testing.T) {
	t.Run("numbering continues after pool matches", func(t *testing.T) {
		f := newServiceFixture(t)
		tour := f.addTournament(models.TournamentPoolStage)
		teams := make([]*models.Team, 0, 6)
		for i := 0; i < 3; i++ {
			teams = append(teams, f.addTeam(tour.ID, "A"))
		}
		for i := 0; i < 3; i++ {
			teams = append(teams, f.addTeam(tour.ID, "B"))
		}

		f.expectTx()
		created, err := f.svc.GeneratePoolMatches(context.Background(), tour.ID)
		require.NoError(t, err)
		require.Equal(t, 6, created)

		// Give each pool a ranking.
		rank := 1
		for _, team := range teams {
			f.standRepo.standings[team.ID].Rank = rank
			rank++
			if rank > 3 {
				rank = 1
			}
		}

		f.expectTx()
		created, err = f.svc.GenerateKnockout(context.Background(), tour.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, created)

		knockout, _ := f.matchRepo.ListKnockout(context.Background(), nil, tour.ID)
		require.Len(t, knockout, 4)
		for _, m := range knockout {
			assert.Greater(t, m.MatchNumber, 6, "knockout numbering continues after the pools")
		}
		assert.Equal(t, models.TournamentKnockout, tour.Status)
	})

	t.Run("insufficient qualifiers performs no writes", func(t *testing.T) {
		f := newServiceFixture(t)
		tour := f.addTournament(models.TournamentPoolStage)
		f.standRepo.standings[1] = &models.Standing{TournamentID: tour.ID, TeamID: 1, Pool: "A", Rank: 1}

		_, err := f.svc.GenerateKnockout(context.Background(), tour.ID)
		assert.ErrorIs(t, err, tournament.ErrNotEnoughQualifiers)
		require.NoError(t, f.mock.ExpectationsWereMet())
	})
}

func TestUpdateMatchService(t *testing.T) {
	setupPool := func(t *testing.T) (*serviceFixture, *models.Tournament) {
		f := newServiceFixture(t)
		tour := f.addTournament(models.TournamentUpcoming)
		for i := 0; i < 3; i++ {
			f.addTeam(tour.ID, "A")
		}
		f.expectTx()
		_, err := f.svc.GeneratePoolMatches(context.Background(), tour.ID)
		require.NoError(t, err)
		return f, tour
	}

	t.Run("finishing a pool match recomputes its standings", func(t *testing.T) {
		f, tour := setupPool(t)
		match := f.matchRepo.matches[0]

		f.expectTx()
		updated, err := f.svc.UpdateMatch(context.Background(), tour.ID, match.ID, UpdateMatchInput{
			ScoreA: intPtr(13),
			ScoreB: intPtr(7),
			Status: statusPtr(models.MatchFinished),
		})
		require.NoError(t, err)
		assert.Equal(t, models.MatchFinished, updated.Status)

		winner := f.standRepo.standings[*match.TeamAID]
		require.NotNil(t, winner)
		assert.Equal(t, 3, winner.Points)
		assert.Equal(t, 1, winner.Rank)
		assert.Equal(t, 6, winner.PointsDiff)

		types := make([]string, 0, len(f.hub.messages))
		for _, m := range f.hub.messages {
			types = append(types, m.Type)
		}
		assert.Contains(t, types, tournament.EventMatchUpdated)
		assert.Contains(t, types, tournament.EventStandingsUpdated)

		// The standings event carries the pool's freshly recomputed table.
		for _, m := range f.hub.messages {
			if m.Type != tournament.EventStandingsUpdated {
				continue
			}
			payload, ok := m.Payload.(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, "A", payload["pool"])
			rows, ok := payload["standings"].([]*models.Standing)
			require.True(t, ok)
			assert.Len(t, rows, 3)
		}
	})

	t.Run("score correction rebuilds the table from scratch", func(t *testing.T) {
		f, tour := setupPool(t)
		match := f.matchRepo.matches[0]

		f.expectTx()
		_, err := f.svc.UpdateMatch(context.Background(), tour.ID, match.ID, UpdateMatchInput{
			ScoreA: intPtr(13), ScoreB: intPtr(7), Status: statusPtr(models.MatchFinished),
		})
		require.NoError(t, err)

		f.expectTx()
		_, err = f.svc.UpdateMatch(context.Background(), tour.ID, match.ID, UpdateMatchInput{
			ScoreA: intPtr(2), ScoreB: intPtr(13),
		})
		require.NoError(t, err)

		formerWinner := f.standRepo.standings[*match.TeamAID]
		assert.Equal(t, 0, formerWinner.Points, "old result must leave no residue")
		assert.Equal(t, 1, formerWinner.Losses)
	})

	t.Run("negative score rejected before any write", func(t *testing.T) {
		f, tour := setupPool(t)
		match := f.matchRepo.matches[0]

		_, err := f.svc.UpdateMatch(context.Background(), tour.ID, match.ID, UpdateMatchInput{
			ScoreA: intPtr(-1),
		})
		assert.ErrorIs(t, err, ErrNegativeScore)
	})

	t.Run("match from another tournament is invisible", func(t *testing.T) {
		f, _ := setupPool(t)
		other := f.addTournament(models.TournamentUpcoming)
		match := f.matchRepo.matches[0]

		_, err := f.svc.UpdateMatch(context.Background(), other.ID, match.ID, UpdateMatchInput{})
		assert.ErrorIs(t, err, ErrMatchNotFound)
	})
}

func TestUpdateMatchKnockoutAdvancement(t *testing.T) {
	// Builds a seeded two-pool bracket: SF0, SF1, third place, final.
	setupKnockout := func(t *testing.T) (*serviceFixture, *models.Tournament, []*models.Match) {
		f := newServiceFixture(t)
		tour := f.addTournament(models.TournamentKnockout)

		seed := func(round models.RoundType, slot int, teamA, teamB *int) *models.Match {
			m := &models.Match{
				TournamentID: tour.ID,
				RoundType:    round,
				Slot:         slot,
				TeamAID:      teamA,
				TeamBID:      teamB,
				Status:       models.MatchScheduled,
			}
			require.NoError(t, f.matchRepo.Create(context.Background(), nil, m))
			return m
		}
		sf0 := seed(models.RoundSemifinal, 0, intPtr(1), intPtr(4))
		sf1 := seed(models.RoundSemifinal, 1, intPtr(3), intPtr(2))
		third := seed(models.RoundThirdPlace, 0, nil, nil)
		final := seed(models.RoundFinal, 0, nil, nil)
		return f, tour, []*models.Match{sf0, sf1, third, final}
	}

	t.Run("semifinal winner reaches final, loser third place", func(t *testing.T) {
		f, tour, bracket := setupKnockout(t)
		sf0, third, final := bracket[0], bracket[2], bracket[3]

		f.expectTx()
		_, err := f.svc.UpdateMatch(context.Background(), tour.ID, sf0.ID, UpdateMatchInput{
			ScoreA: intPtr(13), ScoreB: intPtr(9), Status: statusPtr(models.MatchFinished),
		})
		require.NoError(t, err)

		require.NotNil(t, final.TeamAID)
		assert.Equal(t, 1, *final.TeamAID)
		require.NotNil(t, third.TeamAID)
		assert.Equal(t, 4, *third.TeamAID)
		assert.Nil(t, final.TeamBID, "other semifinal not played yet")

		types := make([]string, 0, len(f.hub.messages))
		for _, m := range f.hub.messages {
			types = append(types, m.Type)
		}
		assert.Contains(t, types, tournament.EventBracketAdvanced)
	})

	t.Run("second semifinal fills the B sides", func(t *testing.T) {
		f, tour, bracket := setupKnockout(t)
		sf1, third, final := bracket[1], bracket[2], bracket[3]

		f.expectTx()
		_, err := f.svc.UpdateMatch(context.Background(), tour.ID, sf1.ID, UpdateMatchInput{
			ScoreA: intPtr(6), ScoreB: intPtr(13), Status: statusPtr(models.MatchFinished),
		})
		require.NoError(t, err)

		require.NotNil(t, final.TeamBID)
		assert.Equal(t, 2, *final.TeamBID)
		require.NotNil(t, third.TeamBID)
		assert.Equal(t, 3, *third.TeamBID)
	})

	t.Run("finishing the final completes the tournament", func(t *testing.T) {
		f, tour, bracket := setupKnockout(t)
		final := bracket[3]
		final.TeamAID, final.TeamBID = intPtr(1), intPtr(2)

		f.expectTx()
		_, err := f.svc.UpdateMatch(context.Background(), tour.ID, final.ID, UpdateMatchInput{
			ScoreA: intPtr(13), ScoreB: intPtr(11), Status: statusPtr(models.MatchFinished),
		})
		require.NoError(t, err)
		assert.Equal(t, models.TournamentCompleted, tour.Status)
	})

	t.Run("unpaired knockout match cannot be scored", func(t *testing.T) {
		f, tour, bracket := setupKnockout(t)
		final := bracket[3]

		_, err := f.svc.UpdateMatch(context.Background(), tour.ID, final.ID, UpdateMatchInput{
			ScoreA: intPtr(13), ScoreB: intPtr(1), Status: statusPtr(models.MatchFinished),
		})
		assert.ErrorIs(t, err, ErrKnockoutPairingDenied)
	})

	t.Run("knockout draw rejected before any write", func(t *testing.T) {
		f, tour, bracket := setupKnockout(t)
		sf0 := bracket[0]

		_, err := f.svc.UpdateMatch(context.Background(), tour.ID, sf0.ID, UpdateMatchInput{
			ScoreA: intPtr(9), ScoreB: intPtr(9), Status: statusPtr(models.MatchFinished),
		})
		assert.ErrorIs(t, err, tournament.ErrKnockoutDraw)
		assert.Equal(t, models.MatchScheduled, sf0.Status)
		require.NoError(t, f.mock.ExpectationsWereMet())
	})
}
