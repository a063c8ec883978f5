package models

import "time"

// GameParticipant links a user to a game they joined. One row per pair.
type GameParticipant struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GameID   uint      `gorm:"uniqueIndex:idx_game_user" json:"game_id"`
	UserID   uint      `gorm:"uniqueIndex:idx_game_user" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}
