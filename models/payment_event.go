package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentEvent records every webhook delivery. EventID is unique so a
// replayed delivery is detected and never applied twice.
type PaymentEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventID     string         `gorm:"uniqueIndex;not null" json:"event_id"`
	Type        string         `json:"type"`
	Payload     datatypes.JSON `json:"payload"`
	ProcessedAt time.Time      `json:"processed_at"`
	CreatedAt   time.Time      `json:"created_at"`
}
