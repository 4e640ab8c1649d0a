package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []MatchResult {
	return []MatchResult{
		{MatchID: "m1", MatchNumber: 1, TeamID: "A", Position: 1, Players: []PlayerKills{{"a1", 3}, {"a2", 2}}},
		{MatchID: "m1", MatchNumber: 1, TeamID: "B", Position: 2, Players: []PlayerKills{{"b1", 4}}},
		{MatchID: "m2", MatchNumber: 2, TeamID: "A", Position: 3, Players: []PlayerKills{{"a1", 1}}},
		{MatchID: "m2", MatchNumber: 2, TeamID: "B", Position: 1, Players: []PlayerKills{{"b1", 0}}},
	}
}

func sampleRosters() map[string]Roster {
	return map[string]Roster{
		"A": {Name: "Alpha", Members: []Member{{PlayerID: "a1", Name: "Ash"}, {PlayerID: "a2", Name: "Ava"}}},
		"B": {Name: "Bravo", Members: []Member{{PlayerID: "b1", Name: "Ben", IsUCExempt: true}}},
		"C": {Name: "Idle", Members: []Member{{PlayerID: "c1", Name: "Cy"}}},
	}
}

func TestAggregate(t *testing.T) {
	teams := Aggregate(sampleResults(), sampleRosters(), DefaultPolicy().PlacementPoints)
	require.Len(t, teams, 2, "team without results must be excluded")

	a := teams[0]
	assert.Equal(t, "A", a.TeamID)
	assert.Equal(t, "Alpha", a.TeamName)
	assert.Equal(t, int64(6), a.Kills)
	assert.Equal(t, int64(15), a.PlacementPoints)
	assert.Equal(t, int64(21), a.Total)
	assert.Equal(t, 1, a.ChickenDinners)
	assert.Equal(t, 3, a.LastMatchPosition, "last match position comes from the last match folded")
	assert.Equal(t, 2, a.MatchesPlayed)
	assert.Len(t, a.Members, 2)

	b := teams[1]
	assert.Equal(t, int64(4), b.Kills)
	assert.Equal(t, int64(16), b.PlacementPoints)
	assert.Equal(t, int64(20), b.Total)
	assert.Equal(t, 1, b.LastMatchPosition)
	assert.True(t, b.Members[0].IsUCExempt)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, sampleRosters(), DefaultPolicy().PlacementPoints))
}

func TestPointsTable(t *testing.T) {
	pts := PointsTable{10, 6}
	assert.Equal(t, int64(10), pts.For(1))
	assert.Equal(t, int64(6), pts.For(2))
	assert.Equal(t, int64(0), pts.For(3))
	assert.Equal(t, int64(0), pts.For(0))
}

func TestParticipation(t *testing.T) {
	appearances, total := Participation(sampleResults())
	assert.Equal(t, 2, total)
	assert.Equal(t, map[string]int{"a1": 2, "a2": 1, "b1": 2}, appearances)
}

func TestSoloPlayers(t *testing.T) {
	solo := SoloPlayers(sampleResults())
	assert.True(t, solo["b1"], "only player in every record")
	assert.False(t, solo["a1"], "had a teammate in match 1")
	assert.False(t, solo["a2"])

	dup := []MatchResult{
		{MatchID: "m1", TeamID: "S", Position: 1, Players: []PlayerKills{{"s1", 2}, {"s1", 1}}},
	}
	assert.True(t, SoloPlayers(dup)["s1"], "duplicate rows for the same player still count as one")
}
