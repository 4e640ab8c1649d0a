package models

import (
	"time"

	"gorm.io/datatypes"
)

type RedistributionStatus string

const (
	RedistributionStatusPending RedistributionStatus = "pending"
	RedistributionStatusDone    RedistributionStatus = "done"
	RedistributionStatusFailed  RedistributionStatus = "failed"
)

// RedistributionTask is written in the settlement transaction and drained afterwards.
type RedistributionTask struct {
	ID             string               `json:"id" gorm:"primaryKey"`
	TournamentID   string               `json:"tournament_id" gorm:"not null;uniqueIndex"`
	TournamentName string               `json:"tournament_name"`
	SeasonID       string               `json:"season_id" gorm:"not null;index"`
	Status         RedistributionStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending';index"`
	Attempts       int                  `json:"attempts" gorm:"default:0"`
	LastError      string               `json:"last_error,omitempty" gorm:"type:text"`
	Payload        datatypes.JSON       `json:"payload"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time            `json:"updated_at" gorm:"autoUpdateTime"`
}

// SoloTaxContribution is one solo player's tax inside a task payload.
type SoloTaxContribution struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Amount     int64  `json:"amount"`
}
