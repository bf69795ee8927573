package tournament

import (
	"errors"
	"fmt"
	"sort"

	"github.com/petanque-voyages/booking-system/models"
)

var (
	ErrNotEnoughQualifiers = errors.New("at least 4 qualified teams are required for a knockout stage")
	ErrUnevenQualifiers    = errors.New("qualifiers are spread across too many pools for bracket seeding")
	ErrKnockoutDraw        = errors.New("a knockout match cannot end in a draw")
	ErrMatchTeamsUnset     = errors.New("knockout match finished without both teams set")
	ErrTargetMatchMissing  = errors.New("advancement target match not found")
)

// BracketMatch is a knockout fixture produced by the seeder, not yet persisted.
// Slot is the match's 0-based position within its round; advancement addresses
// matches by (round, slot), never by assuming a single row per round type.
type BracketMatch struct {
	RoundType   models.RoundType
	Slot        int
	MatchNumber int
	TeamAID     *int
	TeamBID     *int
}

// Side identifies a team slot of a match.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// SlotAssignment is one advancement write: put TeamID into the given side of
// the given match.
type SlotAssignment struct {
	MatchID int
	Side    Side
	TeamID  int
}

// SeedKnockout seeds the elimination bracket from final pool standings. The
// top 2 of every pool qualify. With 8 or more qualifiers a quarterfinal round
// is generated using the fixed 4-pool cross-pairing template (pools beyond the
// fourth never reach the template; historical behavior kept as-is). With fewer
// than 8 the semifinals are seeded directly from the first two pools, each of
// which must have qualified 2 teams. Two
// semifinals, a third-place match and a final are always created; empty team
// slots are filled later by advancement. Match numbers continue from
// startNumber in bracket order.
func SeedKnockout(standings []*models.Standing, startNumber int) ([]BracketMatch, error) {
	byPool := make(map[string][]*models.Standing)
	for _, s := range standings {
		byPool[s.Pool] = append(byPool[s.Pool], s)
	}
	labels := make([]string, 0, len(byPool))
	for label := range byPool {
		sort.Slice(byPool[label], func(i, j int) bool {
			return byPool[label][i].Rank < byPool[label][j].Rank
		})
		labels = append(labels, label)
	}
	sort.Strings(labels)

	qualified := 0
	rankedTeam := func(pool string, rank int) (int, bool) {
		rows := byPool[pool]
		if rank > len(rows) {
			return 0, false
		}
		return rows[rank-1].TeamID, true
	}
	for _, label := range labels {
		if len(byPool[label]) >= 2 {
			qualified += 2
		} else {
			qualified += len(byPool[label])
		}
	}
	if qualified < 4 {
		return nil, fmt.Errorf("%w (found %d)", ErrNotEnoughQualifiers, qualified)
	}

	number := startNumber
	next := func() int {
		n := number
		number++
		return n
	}
	matches := make([]BracketMatch, 0, 8)

	if qualified >= 8 && len(labels) >= 4 {
		// Fixed cross-pool template avoiding same-pool rematches in round 1.
		last := len(labels) - 1
		pairs := [4][2]struct {
			pool string
			rank int
		}{
			{{labels[0], 1}, {labels[last], 2}},
			{{labels[1], 1}, {labels[last-1], 2}},
			{{labels[2], 1}, {labels[1], 2}},
			{{labels[3], 1}, {labels[0], 2}},
		}
		for slot, pair := range pairs {
			aID, okA := rankedTeam(pair[0].pool, pair[0].rank)
			bID, okB := rankedTeam(pair[1].pool, pair[1].rank)
			if !okA || !okB {
				return nil, fmt.Errorf("%w: pool %s or %s has fewer than 2 ranked teams", ErrUnevenQualifiers, pair[0].pool, pair[1].pool)
			}
			a, b := aID, bID
			matches = append(matches, BracketMatch{
				RoundType:   models.RoundQuarterfinal,
				Slot:        slot,
				MatchNumber: next(),
				TeamAID:     &a,
				TeamBID:     &b,
			})
		}
		matches = append(matches,
			BracketMatch{RoundType: models.RoundSemifinal, Slot: 0, MatchNumber: next()},
			BracketMatch{RoundType: models.RoundSemifinal, Slot: 1, MatchNumber: next()},
		)
	} else {
		a1, okA1 := rankedTeam(labels[0], 1)
		a2, okA2 := rankedTeam(labels[0], 2)
		b1, okB1 := rankedTeam(labels[1], 1)
		b2, okB2 := rankedTeam(labels[1], 2)
		if !okA1 || !okA2 || !okB1 || !okB2 {
			return nil, fmt.Errorf("%w: pools %s and %s must each qualify 2 teams", ErrUnevenQualifiers, labels[0], labels[1])
		}
		matches = append(matches,
			BracketMatch{RoundType: models.RoundSemifinal, Slot: 0, MatchNumber: next(), TeamAID: &a1, TeamBID: &b2},
			BracketMatch{RoundType: models.RoundSemifinal, Slot: 1, MatchNumber: next(), TeamAID: &b1, TeamBID: &a2},
		)
	}

	matches = append(matches,
		BracketMatch{RoundType: models.RoundThirdPlace, Slot: 0, MatchNumber: next()},
		BracketMatch{RoundType: models.RoundFinal, Slot: 0, MatchNumber: next()},
	)
	return matches, nil
}

// Advance computes the slot writes that follow a finished knockout match:
// quarterfinal winners feed the semifinal at slot/2 (side A when the
// quarterfinal slot is even), semifinal 0 sends its winner to the final's A
// slot and its loser to the third-place A slot, semifinal 1 fills the B slots.
// Finals and the third-place match advance nobody.
func Advance(finished *models.Match, knockout []*models.Match) ([]SlotAssignment, error) {
	if finished.ScoreA == finished.ScoreB {
		return nil, ErrKnockoutDraw
	}
	if finished.TeamAID == nil || finished.TeamBID == nil {
		return nil, ErrMatchTeamsUnset
	}

	winner, loser := *finished.TeamAID, *finished.TeamBID
	if finished.ScoreB > finished.ScoreA {
		winner, loser = loser, winner
	}

	find := func(round models.RoundType, slot int) (*models.Match, error) {
		for _, m := range knockout {
			if m.RoundType == round && m.Slot == slot {
				return m, nil
			}
		}
		return nil, fmt.Errorf("%w: %s slot %d", ErrTargetMatchMissing, round, slot)
	}

	switch finished.RoundType {
	case models.RoundQuarterfinal:
		semi, err := find(models.RoundSemifinal, finished.Slot/2)
		if err != nil {
			return nil, err
		}
		side := SideA
		if finished.Slot%2 == 1 {
			side = SideB
		}
		return []SlotAssignment{{MatchID: semi.ID, Side: side, TeamID: winner}}, nil

	case models.RoundSemifinal:
		final, err := find(models.RoundFinal, 0)
		if err != nil {
			return nil, err
		}
		third, err := find(models.RoundThirdPlace, 0)
		if err != nil {
			return nil, err
		}
		side := SideA
		if finished.Slot == 1 {
			side = SideB
		}
		return []SlotAssignment{
			{MatchID: final.ID, Side: side, TeamID: winner},
			{MatchID: third.ID, Side: side, TeamID: loser},
		}, nil

	case models.RoundThirdPlace, models.RoundFinal:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected round type %q for advancement", finished.RoundType)
}
