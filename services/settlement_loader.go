package services

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"tournament-settlement-system/models"
	"tournament-settlement-system/settlement"
)

// tournamentSnapshot is everything settlement reads about one tournament.
type tournamentSnapshot struct {
	Tournament    models.Tournament
	Rosters       map[string]settlement.Roster
	Results       []settlement.MatchResult
	TotalPlayers  int
	UCExemptCount int
	TeamCount     int
}

func loadTournament(db *gorm.DB, id string) (*models.Tournament, error) {
	var t models.Tournament
	if err := db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("load tournament %s: %w", id, err)
	}
	return &t, nil
}

func loadSnapshot(db *gorm.DB, t models.Tournament) (*tournamentSnapshot, error) {
	snap := &tournamentSnapshot{Tournament: t, Rosters: make(map[string]settlement.Roster)}

	var teams []models.Team
	if err := db.
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC, id ASC") }).
		Preload("Players.Player").
		Where("tournament_id = ?", t.ID).
		Order("team_number ASC, id ASC").
		Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}

	distinct := make(map[string]bool)
	for _, team := range teams {
		roster := settlement.Roster{Name: team.Name}
		for _, tp := range team.Players {
			roster.Members = append(roster.Members, settlement.Member{
				PlayerID:   tp.PlayerID,
				Name:       tp.Player.DisplayName,
				IsUCExempt: tp.Player.IsUCExempt,
				IsBanned:   tp.Player.IsBanned,
			})
			if _, seen := distinct[tp.PlayerID]; !seen {
				distinct[tp.PlayerID] = tp.Player.IsUCExempt
			}
		}
		snap.Rosters[team.ID] = roster
	}
	snap.TeamCount = len(teams)
	snap.TotalPlayers = len(distinct)
	for _, exempt := range distinct {
		if exempt {
			snap.UCExemptCount++
		}
	}

	results, err := loadResults(db, t.ID)
	if err != nil {
		return nil, err
	}
	snap.Results = results
	return snap, nil
}

// loadResults returns team-in-match results ordered by match number, then team id.
func loadResults(db *gorm.DB, tournamentID string) ([]settlement.MatchResult, error) {
	var matches []models.Match
	if err := db.Where("tournament_id = ?", tournamentID).Order("match_number ASC, id ASC").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	order := make(map[string]int, len(matches))
	numbers := make(map[string]int, len(matches))
	for i, m := range matches {
		order[m.ID] = i
		numbers[m.ID] = m.MatchNumber
	}

	var stats []models.TeamStat
	if err := db.Where("tournament_id = ?", tournamentID).Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("load team stats: %w", err)
	}
	var playerStats []models.TeamPlayerStat
	if err := db.Where("tournament_id = ?", tournamentID).Order("id ASC").Find(&playerStats).Error; err != nil {
		return nil, fmt.Errorf("load player stats: %w", err)
	}

	type key struct{ match, team string }
	players := make(map[key][]settlement.PlayerKills)
	for _, ps := range playerStats {
		k := key{ps.MatchID, ps.TeamID}
		players[k] = append(players[k], settlement.PlayerKills{PlayerID: ps.PlayerID, Kills: ps.Kills})
	}

	results := make([]settlement.MatchResult, 0, len(stats))
	for _, st := range stats {
		if _, ok := order[st.MatchID]; !ok {
			continue
		}
		results = append(results, settlement.MatchResult{
			MatchID:     st.MatchID,
			MatchNumber: numbers[st.MatchID],
			TeamID:      st.TeamID,
			Position:    st.Position,
			Players:     players[key{st.MatchID, st.TeamID}],
		})
	}
	slices.SortStableFunc(results, func(a, b settlement.MatchResult) int {
		if c := cmp.Compare(order[a.MatchID], order[b.MatchID]); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})
	return results, nil
}

// priorWins counts, per player, the distinct winning teams they played for in the
// last window settled tournaments of the season, most recently declared first.
func priorWins(db *gorm.DB, t models.Tournament, window int, playerIDs []string) (map[string]int, error) {
	wins := make(map[string]int)
	if window <= 0 || len(playerIDs) == 0 {
		return wins, nil
	}

	var tournamentIDs []string
	if err := db.Model(&models.Tournament{}).
		Where("season_id = ? AND id <> ? AND is_winner_declared = ?", t.SeasonID, t.ID, true).
		Order("COALESCE(winner_declared_at, created_at) DESC, id DESC").
		Limit(window).
		Pluck("id", &tournamentIDs).Error; err != nil {
		return nil, fmt.Errorf("load recent tournaments: %w", err)
	}
	if len(tournamentIDs) == 0 {
		return wins, nil
	}

	var teamIDs []string
	if err := db.Model(&models.TournamentWinner{}).
		Where("tournament_id IN ?", tournamentIDs).
		Distinct().
		Pluck("team_id", &teamIDs).Error; err != nil {
		return nil, fmt.Errorf("load recent winners: %w", err)
	}
	if len(teamIDs) == 0 {
		return wins, nil
	}

	var rows []struct {
		PlayerID string
		TeamID   string
	}
	if err := db.Model(&models.TeamPlayerStat{}).
		Distinct("player_id", "team_id").
		Where("team_id IN ? AND player_id IN ?", teamIDs, playerIDs).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load winner appearances: %w", err)
	}
	for _, r := range rows {
		wins[r.PlayerID]++
	}
	return wins, nil
}
