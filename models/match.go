package models

import "time"

type Match struct {
	ID           string `json:"id" gorm:"primaryKey"`
	TournamentID string `json:"tournament_id" gorm:"not null;index"`
	MatchNumber  int    `json:"match_number" gorm:"not null"`

	Timestamps
}

// TeamStat is a team's finishing position in one match. (match, team) is the team-in-match key.
type TeamStat struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	MatchID      string    `json:"match_id" gorm:"not null;uniqueIndex:idx_team_stat_match_team"`
	TournamentID string    `json:"tournament_id" gorm:"not null;index"`
	TeamID       string    `json:"team_id" gorm:"not null;uniqueIndex:idx_team_stat_match_team"`
	Position     int       `json:"position" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Match Match `json:"-" gorm:"foreignKey:MatchID"`
}

// TeamPlayerStat records which player played for which team in a match, and their kills.
type TeamPlayerStat struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	MatchID      string    `json:"match_id" gorm:"not null;index"`
	TournamentID string    `json:"tournament_id" gorm:"not null;index"`
	TeamID       string    `json:"team_id" gorm:"not null;index"`
	PlayerID     string    `json:"player_id" gorm:"not null;index"`
	Kills        int       `json:"kills" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}
