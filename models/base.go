package models

import (
	"time"

	"gorm.io/gorm"
)

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// All lists every table owned by the settlement service, in migration order.
func All() []interface{} {
	return []interface{}{
		&Season{},
		&Player{},
		&Tournament{},
		&Team{},
		&TeamPlayer{},
		&Match{},
		&TeamStat{},
		&TeamPlayerStat{},
		&TournamentWinner{},
		&PendingReward{},
		&Notification{},
		&Income{},
		&SoloTaxPool{},
		&Transaction{},
		&RedistributionTask{},
	}
}
