package models

import (
	"time"
)

type TournamentStatus string

const (
	TournamentStatusActive   TournamentStatus = "ACTIVE"
	TournamentStatusInactive TournamentStatus = "INACTIVE"
)

// Tournament is a paid-entry event whose winners are declared exactly once.
type Tournament struct {
	ID               string           `json:"id" gorm:"primaryKey"`
	SeasonID         string           `json:"season_id" gorm:"not null;index"`
	Name             string           `json:"name" gorm:"not null"`
	EntryFee         int64            `json:"entry_fee" gorm:"default:0"`
	Status           TournamentStatus `json:"status" gorm:"type:varchar(16);default:'ACTIVE'"`
	IsWinnerDeclared bool             `json:"is_winner_declared" gorm:"default:false;index"`
	WinnerDeclaredAt *time.Time       `json:"winner_declared_at,omitempty"`
	ReceiptKey       string           `json:"receipt_key,omitempty"`

	Season Season `json:"-" gorm:"foreignKey:SeasonID"`
	Teams  []Team `json:"teams,omitempty" gorm:"foreignKey:TournamentID"`

	Timestamps
}

// TournamentWinner is one declared placement. Unique per (tournament, position).
type TournamentWinner struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	TournamentID  string    `json:"tournament_id" gorm:"not null;uniqueIndex:idx_winner_tournament_position"`
	TeamID        string    `json:"team_id" gorm:"not null;index"`
	Position      int       `json:"position" gorm:"not null;uniqueIndex:idx_winner_tournament_position"`
	Amount        int64     `json:"amount" gorm:"not null"`
	IsDistributed bool      `json:"is_distributed" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}
