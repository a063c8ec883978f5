package models

import "time"

type Card struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	GameID    uint       `gorm:"index" json:"game_id"`
	UserID    uint       `gorm:"index" json:"user_id"`
	IsWinner  bool       `json:"is_winner"`
	Active    bool       `json:"active"` // soft-deactivation, never deleted mid-game
	Cells     []CardCell `gorm:"foreignKey:CardID" json:"cells"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CardCell is one of the 25 positions of a card, row-major. Number is null
// only at the free center cell.
type CardCell struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CardID   uint   `gorm:"index" json:"card_id"`
	Position int    `json:"position"` // 0-24
	Column   string `json:"column"`   // B/I/N/G/O
	Number   *int   `json:"number"`
	IsFree   bool   `json:"is_free"`
	IsMarked bool   `json:"is_marked"`
}
