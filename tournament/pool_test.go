package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petanque-voyages/booking-system/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func pooledTeam(id int, pool string) *models.Team {
	return &models.Team{ID: id, Pool: strPtr(pool)}
}

func TestGeneratePoolMatches(t *testing.T) {
	t.Run("round robin within a single pool", func(t *testing.T) {
		teams := []*models.Team{
			pooledTeam(1, "A"),
			pooledTeam(2, "A"),
			pooledTeam(3, "A"),
			pooledTeam(4, "A"),
		}

		fixtures, err := GeneratePoolMatches(teams, 1)
		require.NoError(t, err)

		// 4 teams -> C(4,2) = 6 pairings, each pair exactly once.
		require.Len(t, fixtures, 6)
		seen := make(map[[2]int]bool)
		for _, f := range fixtures {
			pair := [2]int{f.TeamAID, f.TeamBID}
			assert.False(t, seen[pair], "pair %v generated twice", pair)
			assert.NotEqual(t, f.TeamAID, f.TeamBID)
			seen[pair] = true
		}
	})

	t.Run("match numbers run consecutively across pools", func(t *testing.T) {
		teams := []*models.Team{
			pooledTeam(1, "B"),
			pooledTeam(2, "B"),
			pooledTeam(3, "B"),
			pooledTeam(4, "A"),
			pooledTeam(5, "A"),
			pooledTeam(6, "A"),
		}

		fixtures, err := GeneratePoolMatches(teams, 10)
		require.NoError(t, err)
		require.Len(t, fixtures, 6)

		for i, f := range fixtures {
			assert.Equal(t, 10+i, f.MatchNumber)
		}
		// Pool A comes before pool B regardless of team insertion order.
		assert.Equal(t, "A", fixtures[0].Pool)
		assert.Equal(t, "B", fixtures[5].Pool)
	})

	t.Run("seeded teams are enumerated first", func(t *testing.T) {
		seeded := pooledTeam(9, "A")
		seeded.Seed = intPtr(1)
		teams := []*models.Team{
			pooledTeam(3, "A"),
			seeded,
			pooledTeam(5, "A"),
		}

		fixtures, err := GeneratePoolMatches(teams, 1)
		require.NoError(t, err)
		require.Len(t, fixtures, 3)
		assert.Equal(t, 9, fixtures[0].TeamAID)
		assert.Equal(t, 9, fixtures[1].TeamAID)
	})

	t.Run("regeneration is deterministic", func(t *testing.T) {
		teams := []*models.Team{
			pooledTeam(7, "A"),
			pooledTeam(2, "A"),
			pooledTeam(5, "B"),
			pooledTeam(1, "B"),
		}

		first, err := GeneratePoolMatches(teams, 1)
		require.NoError(t, err)
		second, err := GeneratePoolMatches(teams, 1)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("teams without a pool are skipped", func(t *testing.T) {
		teams := []*models.Team{
			pooledTeam(1, "A"),
			pooledTeam(2, "A"),
			{ID: 3},
			{ID: 4, Pool: strPtr("")},
		}

		fixtures, err := GeneratePoolMatches(teams, 1)
		require.NoError(t, err)
		require.Len(t, fixtures, 1)
		assert.Equal(t, 1, fixtures[0].TeamAID)
		assert.Equal(t, 2, fixtures[0].TeamBID)
	})

	t.Run("no pooled teams at all", func(t *testing.T) {
		_, err := GeneratePoolMatches([]*models.Team{{ID: 1}, {ID: 2}}, 1)
		assert.ErrorIs(t, err, ErrNoPooledTeams)
	})
}
