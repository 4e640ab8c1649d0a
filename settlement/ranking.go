package settlement

import (
	"cmp"
	"slices"
	"strings"
)

// Compare orders a before b when a ranks higher. Keys, in order: total, chicken
// dinners, placement points, kills (all higher first), last match position (lower
// first), team id (ascending).
func Compare(a, b TeamAggregate) int {
	if c := cmp.Compare(b.Total, a.Total); c != 0 {
		return c
	}
	if c := cmp.Compare(b.ChickenDinners, a.ChickenDinners); c != 0 {
		return c
	}
	if c := cmp.Compare(b.PlacementPoints, a.PlacementPoints); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Kills, a.Kills); c != 0 {
		return c
	}
	if c := cmp.Compare(a.LastMatchPosition, b.LastMatchPosition); c != 0 {
		return c
	}
	return strings.Compare(a.TeamID, b.TeamID)
}

// Rank returns a sorted copy of teams, best first.
func Rank(teams []TeamAggregate) []TeamAggregate {
	ranked := slices.Clone(teams)
	slices.SortStableFunc(ranked, Compare)
	return ranked
}
