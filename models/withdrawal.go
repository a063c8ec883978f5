package models

import "time"

type Withdrawal struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"not null;index" json:"userId"`
	Amount      float64       `gorm:"not null" json:"amount"`
	Status      PaymentStatus `json:"status"`
	Reference   string        `gorm:"uniqueIndex;not null" json:"reference"`
	BankAccount string        `json:"bankAccount"` // stored masked
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
