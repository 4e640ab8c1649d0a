package models

import "time"

type NotificationType string

const (
	NotificationTypeWinner      NotificationType = "tournament_winner"
	NotificationTypeSoloSupport NotificationType = "solo_support"
)

// Notification is created next to every PendingReward; delivery happens elsewhere.
type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey"`
	PlayerID  string           `json:"player_id" gorm:"not null;index"`
	Title     string           `json:"title" gorm:"not null"`
	Message   string           `json:"message" gorm:"type:text"`
	Type      NotificationType `json:"type" gorm:"type:varchar(32);not null"`
	Link      string           `json:"link"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at" gorm:"autoCreateTime"`
}
