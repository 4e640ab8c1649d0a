package models

import "time"

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// Transaction is a player wallet ledger row. Entry fees are debits, prizes are credits.
type Transaction struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	PlayerID    string          `json:"player_id" gorm:"not null;index"`
	Amount      int64           `json:"amount" gorm:"not null"`
	Type        TransactionType `json:"type" gorm:"type:varchar(8);not null"`
	Description string          `json:"description" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
}
