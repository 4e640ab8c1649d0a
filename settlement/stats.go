package settlement

// PointsTable maps a finishing position (index 0 is 1st) to placement points.
type PointsTable []int64

// For returns the points for a 1-based position; positions off the table score zero.
func (t PointsTable) For(position int) int64 {
	if position < 1 || position > len(t) {
		return 0
	}
	return t[position-1]
}

// PlayerKills is one player's line in a team-in-match record.
type PlayerKills struct {
	PlayerID string
	Kills    int
}

// MatchResult is one team's result in one match.
type MatchResult struct {
	MatchID     string
	MatchNumber int
	TeamID      string
	Position    int
	Players     []PlayerKills
}

// Member is a rostered player with the flags settlement cares about.
type Member struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	IsUCExempt bool   `json:"is_uc_exempt"`
	IsBanned   bool   `json:"is_banned"`
}

// TeamAggregate is the ranking-ready fold of a team's matches.
type TeamAggregate struct {
	TeamID            string   `json:"team_id"`
	TeamName          string   `json:"team_name"`
	Kills             int64    `json:"kills"`
	PlacementPoints   int64    `json:"placement_points"`
	Total             int64    `json:"total"`
	ChickenDinners    int      `json:"chicken_dinners"`
	LastMatchPosition int      `json:"last_match_position"`
	MatchesPlayed     int      `json:"matches_played"`
	Members           []Member `json:"members"`
}

// Roster is a team's name and ordered member list.
type Roster struct {
	Name    string
	Members []Member
}

// Aggregate folds results, taken in the order given, into one TeamAggregate per team.
// Teams appear in first-seen order. Teams with no results are not returned.
func Aggregate(results []MatchResult, rosters map[string]Roster, points PointsTable) []TeamAggregate {
	index := make(map[string]int)
	var teams []TeamAggregate

	for _, r := range results {
		i, ok := index[r.TeamID]
		if !ok {
			roster := rosters[r.TeamID]
			teams = append(teams, TeamAggregate{
				TeamID:   r.TeamID,
				TeamName: roster.Name,
				Members:  append([]Member(nil), roster.Members...),
			})
			i = len(teams) - 1
			index[r.TeamID] = i
		}

		var kills int64
		for _, p := range r.Players {
			kills += int64(p.Kills)
		}
		pts := points.For(r.Position)

		t := &teams[i]
		t.Kills += kills
		t.PlacementPoints += pts
		t.Total += kills + pts
		if r.Position == 1 {
			t.ChickenDinners++
		}
		t.LastMatchPosition = r.Position
		t.MatchesPlayed++
	}
	return teams
}

// Participation counts, per player, the distinct matches they appeared in, plus the
// number of distinct matches played in the tournament.
func Participation(results []MatchResult) (appearances map[string]int, totalMatches int) {
	matches := make(map[string]struct{})
	seen := make(map[string]map[string]struct{})
	for _, r := range results {
		matches[r.MatchID] = struct{}{}
		for _, p := range r.Players {
			if seen[p.PlayerID] == nil {
				seen[p.PlayerID] = make(map[string]struct{})
			}
			seen[p.PlayerID][r.MatchID] = struct{}{}
		}
	}
	appearances = make(map[string]int, len(seen))
	for id, m := range seen {
		appearances[id] = len(m)
	}
	return appearances, len(matches)
}

// SoloPlayers reports players who were the only distinct player in every
// team-in-match record they appear in.
func SoloPlayers(results []MatchResult) map[string]bool {
	type key struct{ match, team string }
	distinct := make(map[key]map[string]struct{})
	for _, r := range results {
		k := key{r.MatchID, r.TeamID}
		if distinct[k] == nil {
			distinct[k] = make(map[string]struct{})
		}
		for _, p := range r.Players {
			distinct[k][p.PlayerID] = struct{}{}
		}
	}

	solo := make(map[string]bool)
	for _, players := range distinct {
		alone := len(players) == 1
		for id := range players {
			prev, seen := solo[id]
			solo[id] = alone && (!seen || prev)
		}
	}
	return solo
}
