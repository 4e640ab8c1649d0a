package models

import (
	"time"

	"gorm.io/datatypes"
)

// RewardType distinguishes placement prizes from loser compensation.
type RewardType string

const (
	RewardTypeWinner      RewardType = "WINNER"
	RewardTypeSoloSupport RewardType = "SOLO_SUPPORT"
)

// PendingReward is an unclaimed credit owed to a player. Append-only.
type PendingReward struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	PlayerID     string         `json:"player_id" gorm:"not null;index"`
	TournamentID string         `json:"tournament_id,omitempty" gorm:"index"`
	Type         RewardType     `json:"type" gorm:"type:varchar(16);not null;index"`
	Amount       int64          `json:"amount" gorm:"not null"`
	Position     *int           `json:"position,omitempty"`
	Message      string         `json:"message" gorm:"type:text"`
	Details      datatypes.JSON `json:"details,omitempty"`
	IsClaimed    bool           `json:"is_claimed" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
}
