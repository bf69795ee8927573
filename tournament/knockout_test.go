package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petanque-voyages/booking-system/models"
)

func standing(pool string, rank, teamID int) *models.Standing {
	return &models.Standing{TournamentID: 1, Pool: pool, Rank: rank, TeamID: teamID}
}

func TestSeedKnockout(t *testing.T) {
	t.Run("two pools seed semifinals directly", func(t *testing.T) {
		standings := []*models.Standing{
			standing("A", 1, 11), standing("A", 2, 12), standing("A", 3, 13),
			standing("B", 1, 21), standing("B", 2, 22), standing("B", 3, 23),
		}

		matches, err := SeedKnockout(standings, 20)
		require.NoError(t, err)
		require.Len(t, matches, 4)

		sf0, sf1, third, final := matches[0], matches[1], matches[2], matches[3]

		assert.Equal(t, models.RoundSemifinal, sf0.RoundType)
		assert.Equal(t, 0, sf0.Slot)
		assert.Equal(t, 11, *sf0.TeamAID, "winner of A meets runner-up of B")
		assert.Equal(t, 22, *sf0.TeamBID)

		assert.Equal(t, models.RoundSemifinal, sf1.RoundType)
		assert.Equal(t, 1, sf1.Slot)
		assert.Equal(t, 21, *sf1.TeamAID)
		assert.Equal(t, 12, *sf1.TeamBID)

		assert.Equal(t, models.RoundThirdPlace, third.RoundType)
		assert.Nil(t, third.TeamAID)
		assert.Equal(t, models.RoundFinal, final.RoundType)
		assert.Nil(t, final.TeamBID)

		// Numbering continues where the pools left off.
		for i, m := range matches {
			assert.Equal(t, 20+i, m.MatchNumber)
		}
	})

	t.Run("four pools seed quarterfinals from cross-pool template", func(t *testing.T) {
		standings := []*models.Standing{
			standing("A", 1, 11), standing("A", 2, 12),
			standing("B", 1, 21), standing("B", 2, 22),
			standing("C", 1, 31), standing("C", 2, 32),
			standing("D", 1, 41), standing("D", 2, 42),
		}

		matches, err := SeedKnockout(standings, 1)
		require.NoError(t, err)
		require.Len(t, matches, 8)

		qf := matches[:4]
		for slot, m := range qf {
			assert.Equal(t, models.RoundQuarterfinal, m.RoundType)
			assert.Equal(t, slot, m.Slot)
			require.NotNil(t, m.TeamAID)
			require.NotNil(t, m.TeamBID)
		}
		assert.Equal(t, 11, *qf[0].TeamAID)
		assert.Equal(t, 42, *qf[0].TeamBID)
		assert.Equal(t, 21, *qf[1].TeamAID)
		assert.Equal(t, 32, *qf[1].TeamBID)
		assert.Equal(t, 31, *qf[2].TeamAID)
		assert.Equal(t, 22, *qf[2].TeamBID)
		assert.Equal(t, 41, *qf[3].TeamAID)
		assert.Equal(t, 12, *qf[3].TeamBID)

		// No quarterfinal repeats a pool pairing.
		poolOf := map[int]string{11: "A", 12: "A", 21: "B", 22: "B", 31: "C", 32: "C", 41: "D", 42: "D"}
		for _, m := range qf {
			assert.NotEqual(t, poolOf[*m.TeamAID], poolOf[*m.TeamBID])
		}

		assert.Equal(t, models.RoundSemifinal, matches[4].RoundType)
		assert.Nil(t, matches[4].TeamAID, "semifinals wait for quarterfinal winners")
		assert.Equal(t, models.RoundThirdPlace, matches[6].RoundType)
		assert.Equal(t, models.RoundFinal, matches[7].RoundType)
	})

	t.Run("fewer than four qualifiers is rejected", func(t *testing.T) {
		standings := []*models.Standing{
			standing("A", 1, 11), standing("A", 2, 12),
			standing("B", 1, 21),
		}
		_, err := SeedKnockout(standings, 1)
		assert.ErrorIs(t, err, ErrNotEnoughQualifiers)
	})

	t.Run("four qualifiers spread over three pools is rejected", func(t *testing.T) {
		// Enough teams qualify overall, but pool B cannot supply a runner-up,
		// so direct semifinals would seed a hole instead of a team.
		standings := []*models.Standing{
			standing("A", 1, 11), standing("A", 2, 12),
			standing("B", 1, 21),
			standing("C", 1, 31),
		}
		matches, err := SeedKnockout(standings, 1)
		assert.ErrorIs(t, err, ErrUnevenQualifiers)
		assert.Nil(t, matches)
	})

	t.Run("eight qualifiers over five thin pools is rejected", func(t *testing.T) {
		standings := []*models.Standing{
			standing("A", 1, 11), standing("A", 2, 12),
			standing("B", 1, 21), standing("B", 2, 22),
			standing("C", 1, 31), standing("C", 2, 32),
			standing("D", 1, 41),
			standing("E", 1, 51),
		}
		_, err := SeedKnockout(standings, 1)
		assert.ErrorIs(t, err, ErrUnevenQualifiers)
	})
}

func knockoutMatch(id int, round models.RoundType, slot int) *models.Match {
	return &models.Match{ID: id, TournamentID: 1, RoundType: round, Slot: slot}
}

func TestAdvance(t *testing.T) {
	bracket := []*models.Match{
		knockoutMatch(101, models.RoundQuarterfinal, 0),
		knockoutMatch(102, models.RoundQuarterfinal, 1),
		knockoutMatch(103, models.RoundQuarterfinal, 2),
		knockoutMatch(104, models.RoundQuarterfinal, 3),
		knockoutMatch(105, models.RoundSemifinal, 0),
		knockoutMatch(106, models.RoundSemifinal, 1),
		knockoutMatch(107, models.RoundThirdPlace, 0),
		knockoutMatch(108, models.RoundFinal, 0),
	}

	t.Run("quarterfinal winner goes to the right semifinal side", func(t *testing.T) {
		cases := []struct {
			slot     int
			wantID   int
			wantSide Side
		}{
			{slot: 0, wantID: 105, wantSide: SideA},
			{slot: 1, wantID: 105, wantSide: SideB},
			{slot: 2, wantID: 106, wantSide: SideA},
			{slot: 3, wantID: 106, wantSide: SideB},
		}
		for _, tc := range cases {
			finished := knockoutMatch(0, models.RoundQuarterfinal, tc.slot)
			finished.TeamAID, finished.TeamBID = intPtr(1), intPtr(2)
			finished.ScoreA, finished.ScoreB = 13, 7

			writes, err := Advance(finished, bracket)
			require.NoError(t, err)
			require.Len(t, writes, 1)
			assert.Equal(t, tc.wantID, writes[0].MatchID)
			assert.Equal(t, tc.wantSide, writes[0].Side)
			assert.Equal(t, 1, writes[0].TeamID)
		}
	})

	t.Run("semifinal sends winner to final and loser to third place", func(t *testing.T) {
		finished := knockoutMatch(0, models.RoundSemifinal, 1)
		finished.TeamAID, finished.TeamBID = intPtr(5), intPtr(6)
		finished.ScoreA, finished.ScoreB = 4, 13

		writes, err := Advance(finished, bracket)
		require.NoError(t, err)
		require.Len(t, writes, 2)

		assert.Equal(t, SlotAssignment{MatchID: 108, Side: SideB, TeamID: 6}, writes[0])
		assert.Equal(t, SlotAssignment{MatchID: 107, Side: SideB, TeamID: 5}, writes[1])
	})

	t.Run("final and third place advance nobody", func(t *testing.T) {
		for _, round := range []models.RoundType{models.RoundFinal, models.RoundThirdPlace} {
			finished := knockoutMatch(0, round, 0)
			finished.TeamAID, finished.TeamBID = intPtr(1), intPtr(2)
			finished.ScoreA, finished.ScoreB = 13, 9

			writes, err := Advance(finished, bracket)
			require.NoError(t, err)
			assert.Empty(t, writes)
		}
	})

	t.Run("draw is rejected", func(t *testing.T) {
		finished := knockoutMatch(0, models.RoundQuarterfinal, 0)
		finished.TeamAID, finished.TeamBID = intPtr(1), intPtr(2)
		finished.ScoreA, finished.ScoreB = 9, 9

		_, err := Advance(finished, bracket)
		assert.ErrorIs(t, err, ErrKnockoutDraw)
	})

	t.Run("missing teams is rejected", func(t *testing.T) {
		finished := knockoutMatch(0, models.RoundSemifinal, 0)
		finished.ScoreA, finished.ScoreB = 13, 2

		_, err := Advance(finished, bracket)
		assert.ErrorIs(t, err, ErrMatchTeamsUnset)
	})

	t.Run("target match absent from bracket", func(t *testing.T) {
		finished := knockoutMatch(0, models.RoundQuarterfinal, 1)
		finished.TeamAID, finished.TeamBID = intPtr(1), intPtr(2)
		finished.ScoreA, finished.ScoreB = 13, 2

		_, err := Advance(finished, []*models.Match{})
		assert.ErrorIs(t, err, ErrTargetMatchMissing)
	})
}
