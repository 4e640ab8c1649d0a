package models

import "time"

type IncomeSource string

const (
	IncomeSourceSystem IncomeSource = "system"
)

type IncomeSide string

const (
	IncomeSideOrganizer IncomeSide = "organizer"
	IncomeSideFund      IncomeSide = "fund"
)

// Income is one organizer or fund share booked by a settlement.
type Income struct {
	ID             string       `json:"id" gorm:"primaryKey"`
	Amount         int64        `json:"amount" gorm:"not null"`
	Side           IncomeSide   `json:"side" gorm:"type:varchar(16);not null"`
	Description    string       `json:"description" gorm:"type:text"`
	TournamentID   string       `json:"tournament_id" gorm:"not null;index"`
	TournamentName string       `json:"tournament_name"`
	Source         IncomeSource `json:"source" gorm:"type:varchar(16);default:'system'"`
	CreatedAt      time.Time    `json:"created_at" gorm:"autoCreateTime"`
}
