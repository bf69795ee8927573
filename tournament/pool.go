package tournament

import (
	"errors"
	"sort"

	"github.com/petanque-voyages/booking-system/models"
)

var ErrNoPooledTeams = errors.New("no teams assigned to pools")

// Fixture is a pool pairing produced by the generator, not yet persisted.
type Fixture struct {
	Pool        string
	MatchNumber int
	TeamAID     int
	TeamBID     int
}

// GeneratePoolMatches builds the full round-robin fixture list for every pool.
// Teams without a pool assignment are skipped. Pools are processed in
// lexicographic order and match numbers run consecutively across pools,
// starting at startNumber, so they are globally unique and increase by pool
// order.
func GeneratePoolMatches(teams []*models.Team, startNumber int) ([]Fixture, error) {
	pools := make(map[string][]*models.Team)
	for _, t := range teams {
		if t.Pool == nil || *t.Pool == "" {
			continue
		}
		pools[*t.Pool] = append(pools[*t.Pool], t)
	}
	if len(pools) == 0 {
		return nil, ErrNoPooledTeams
	}

	labels := make([]string, 0, len(pools))
	for label := range pools {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fixtures := make([]Fixture, 0)
	number := startNumber
	for _, label := range labels {
		members := pools[label]
		sortTeamsForPairing(members)
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				fixtures = append(fixtures, Fixture{
					Pool:        label,
					MatchNumber: number,
					TeamAID:     members[i].ID,
					TeamBID:     members[j].ID,
				})
				number++
			}
		}
	}
	return fixtures, nil
}

// sortTeamsForPairing fixes the enumeration order inside a pool: seeded teams
// first by seed, then the rest by ID. Keeps regeneration deterministic for an
// unchanged pool assignment.
func sortTeamsForPairing(teams []*models.Team) {
	sort.Slice(teams, func(i, j int) bool {
		si, sj := teams[i].Seed, teams[j].Seed
		switch {
		case si != nil && sj != nil && *si != *sj:
			return *si < *sj
		case si != nil && sj == nil:
			return true
		case si == nil && sj != nil:
			return false
		}
		return teams[i].ID < teams[j].ID
	})
}
