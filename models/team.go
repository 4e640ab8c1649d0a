package models

import "time"

// Player is the local snapshot of a participant.
type Player struct {
	ID          string `json:"id" gorm:"primaryKey"`
	DisplayName string `json:"display_name" gorm:"not null;index"`
	IsUCExempt  bool   `json:"is_uc_exempt" gorm:"default:false"` // plays without paying the entry fee
	IsBanned    bool   `json:"is_banned" gorm:"default:false"`

	Timestamps
}

type Team struct {
	ID           string `json:"id" gorm:"primaryKey"`
	TournamentID string `json:"tournament_id" gorm:"not null;index"`
	Name         string `json:"name"`
	TeamNumber   int    `json:"team_number" gorm:"default:0"`

	Players []TeamPlayer `json:"players,omitempty" gorm:"foreignKey:TeamID"`

	Timestamps
}

// TeamPlayer is the roster link between a team and a player.
type TeamPlayer struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TeamID    string    `json:"team_id" gorm:"not null;uniqueIndex:idx_team_player"`
	PlayerID  string    `json:"player_id" gorm:"not null;uniqueIndex:idx_team_player;index"`
	SortOrder int       `json:"sort_order" gorm:"column:sort_order;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Player Player `json:"player" gorm:"foreignKey:PlayerID"`
}
