package models

import "time"

type TransactionType string

const (
	DepositTransaction    TransactionType = "deposit"
	WithdrawalTransaction TransactionType = "withdrawal"
	CardPurchase          TransactionType = "card_purchase"
	PrizePayout           TransactionType = "prize"
)

type Transaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"index" json:"user_id"`
	Type         TransactionType `json:"type"`
	Amount       float64         `json:"amount"` // positive credit, negative debit
	BalanceAfter float64         `json:"balance_after"`
	Reference    string          `json:"reference"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}
