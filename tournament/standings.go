package tournament

import (
	"sort"
	"time"

	"github.com/petanque-voyages/booking-system/models"
)

const (
	pointsPerWin  = 3
	pointsPerDraw = 1
)

// ComputeStandings derives the full ranked table for one pool from its
// finished matches. Every team in the pool gets a row even with zero finished
// matches. Ordering: points desc, score differential desc, points-for desc,
// then team ID asc so fully tied teams still rank deterministically.
func ComputeStandings(tournamentID int, pool string, teams []*models.Team, matches []*models.Match) []*models.Standing {
	rows := make(map[int]*models.Standing, len(teams))
	for _, t := range teams {
		rows[t.ID] = &models.Standing{
			TournamentID: tournamentID,
			TeamID:       t.ID,
			Pool:         pool,
		}
	}

	for _, m := range matches {
		if m.Status != models.MatchFinished || m.RoundType != models.RoundPool {
			continue
		}
		if m.Pool == nil || *m.Pool != pool {
			continue
		}
		// Pool matches always carry both teams; guard anyway.
		if m.TeamAID == nil || m.TeamBID == nil {
			continue
		}
		a, okA := rows[*m.TeamAID]
		b, okB := rows[*m.TeamBID]
		if !okA || !okB {
			continue
		}

		a.Played++
		b.Played++
		a.PointsFor += m.ScoreA
		a.PointsAgainst += m.ScoreB
		b.PointsFor += m.ScoreB
		b.PointsAgainst += m.ScoreA

		switch {
		case m.ScoreA > m.ScoreB:
			a.Wins++
			b.Losses++
			a.Points += pointsPerWin
		case m.ScoreB > m.ScoreA:
			b.Wins++
			a.Losses++
			b.Points += pointsPerWin
		default:
			a.Draws++
			b.Draws++
			a.Points += pointsPerDraw
			b.Points += pointsPerDraw
		}
	}

	standings := make([]*models.Standing, 0, len(rows))
	now := time.Now()
	for _, s := range rows {
		s.PointsDiff = s.PointsFor - s.PointsAgainst
		s.UpdatedAt = now
		standings = append(standings, s)
	}

	sort.Slice(standings, func(i, j int) bool {
		si, sj := standings[i], standings[j]
		if si.Points != sj.Points {
			return si.Points > sj.Points
		}
		if si.PointsDiff != sj.PointsDiff {
			return si.PointsDiff > sj.PointsDiff
		}
		if si.PointsFor != sj.PointsFor {
			return si.PointsFor > sj.PointsFor
		}
		return si.TeamID < sj.TeamID
	})
	for i, s := range standings {
		s.Rank = i + 1
	}
	return standings
}
