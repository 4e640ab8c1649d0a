package models

import "time"

// SoloTaxPool accumulates undistributed solo tax for a season. Never negative.
type SoloTaxPool struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	SeasonID   string    `json:"season_id" gorm:"not null;uniqueIndex"`
	Amount     int64     `json:"amount" gorm:"not null;default:0"`
	DonorNames string    `json:"donor_names" gorm:"type:text"` // comma separated, no duplicates
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
