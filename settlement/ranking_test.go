package settlement

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestRankPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		teams  []TeamAggregate
		winner string
	}{
		{
			name:   "higher total",
			teams:  []TeamAggregate{{TeamID: "a", Total: 10}, {TeamID: "b", Total: 11}},
			winner: "b",
		},
		{
			name: "chicken dinners break total tie",
			teams: []TeamAggregate{
				{TeamID: "a", Total: 10, ChickenDinners: 0, PlacementPoints: 9},
				{TeamID: "b", Total: 10, ChickenDinners: 1, PlacementPoints: 1},
			},
			winner: "b",
		},
		{
			name: "placement points break dinner tie",
			teams: []TeamAggregate{
				{TeamID: "a", Total: 10, ChickenDinners: 1, PlacementPoints: 4, Kills: 6},
				{TeamID: "b", Total: 10, ChickenDinners: 1, PlacementPoints: 6, Kills: 4},
			},
			winner: "b",
		},
		{
			name: "kills break points tie",
			teams: []TeamAggregate{
				{TeamID: "a", Total: 10, PlacementPoints: 5, Kills: 5, LastMatchPosition: 1},
				{TeamID: "b", Total: 10, PlacementPoints: 5, Kills: 6, LastMatchPosition: 9},
			},
			winner: "b",
		},
		{
			name: "lower last match position breaks kills tie",
			teams: []TeamAggregate{
				{TeamID: "a", Total: 10, PlacementPoints: 5, Kills: 5, LastMatchPosition: 4},
				{TeamID: "b", Total: 10, PlacementPoints: 5, Kills: 5, LastMatchPosition: 2},
			},
			winner: "b",
		},
		{
			name: "team id settles full ties",
			teams: []TeamAggregate{
				{TeamID: "z", Total: 10, LastMatchPosition: 2},
				{TeamID: "m", Total: 10, LastMatchPosition: 2},
			},
			winner: "m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := Rank(tt.teams)
			assert.Equal(t, tt.winner, ranked[0].TeamID)
		})
	}
}

func randomTeams(r *rand.Rand, n int) []TeamAggregate {
	teams := make([]TeamAggregate, n)
	for i := range teams {
		kills := int64(r.Intn(4))
		pts := int64(r.Intn(4))
		teams[i] = TeamAggregate{
			TeamID:            string(rune('a' + i)),
			Kills:             kills,
			PlacementPoints:   pts,
			Total:             kills + pts,
			ChickenDinners:    r.Intn(2),
			LastMatchPosition: 1 + r.Intn(3),
		}
	}
	return teams
}

func TestRankIsDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	teams := randomTeams(r, 20)
	first := Rank(teams)

	for i := 0; i < 25; i++ {
		shuffled := append([]TeamAggregate(nil), teams...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if diff := cmp.Diff(first, Rank(shuffled)); diff != "" {
			t.Fatalf("ranking depends on input order (-first +shuffled):\n%s", diff)
		}
	}
	assert.Equal(t, first, Rank(first), "sorting a sorted list is a no-op")
}

func TestCompareIsTransitive(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	teams := randomTeams(r, 12)
	for _, a := range teams {
		assert.Equal(t, 0, Compare(a, a))
		for _, b := range teams {
			assert.Equal(t, -Compare(b, a), Compare(a, b), "antisymmetry for %s/%s", a.TeamID, b.TeamID)
			for _, c := range teams {
				if Compare(a, b) < 0 && Compare(b, c) < 0 {
					assert.Negative(t, Compare(a, c), "%s<%s<%s", a.TeamID, b.TeamID, c.TeamID)
				}
			}
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	teams := []TeamAggregate{{TeamID: "a", Total: 1}, {TeamID: "b", Total: 2}}
	_ = Rank(teams)
	assert.Equal(t, "a", teams[0].TeamID)
}
