package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type GameStatus string

const (
	GameScheduled  GameStatus = "SCHEDULED"
	GameOpen       GameStatus = "OPEN"
	GameInProgress GameStatus = "IN_PROGRESS"
	GamePaused     GameStatus = "PAUSED"
	GameCompleted  GameStatus = "COMPLETED"
	GameCancelled  GameStatus = "CANCELLED"
)

// MarkMode controls whether ball draws mark cards automatically or marking
// is left to the player.
type MarkMode string

const (
	MarkAuto   MarkMode = "auto"
	MarkManual MarkMode = "manual"
)

type Game struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `json:"title"`
	Status         GameStatus     `json:"status"`
	MarkMode       MarkMode       `json:"mark_mode"`
	WinningPattern string         `json:"winning_pattern"` // pattern configured for this round
	CardPrice      float64        `json:"card_price"`      // in Perlas
	PrizePool      float64        `json:"prize_pool"`
	MaxPlayers     int            `json:"max_players"`
	BallsJSON      datatypes.JSON `json:"-"` // ordered drawn balls in DB
	CurrentBall    int            `json:"current_ball"`
	ScheduledAt    *time.Time     `json:"scheduled_at"`
	StartedAt      *time.Time     `json:"started_at"`
	EndedAt        *time.Time     `json:"ended_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// legalTransitions encodes the status graph; no way back to
// SCHEDULED/OPEN once a game is in progress.
var legalTransitions = map[GameStatus][]GameStatus{
	GameScheduled:  {GameOpen, GameCancelled},
	GameOpen:       {GameInProgress, GameCancelled},
	GameInProgress: {GamePaused, GameCompleted, GameCancelled},
	GamePaused:     {GameInProgress, GameCompleted, GameCancelled},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to GameStatus) bool {
	for _, s := range legalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Balls decodes the ordered drawn-ball sequence.
func (g *Game) Balls() []int {
	if len(g.BallsJSON) == 0 {
		return nil
	}
	var balls []int
	if err := json.Unmarshal(g.BallsJSON, &balls); err != nil {
		return nil
	}
	return balls
}

// SetBalls encodes the drawn-ball sequence for storage.
func (g *Game) SetBalls(balls []int) {
	b, _ := json.Marshal(balls)
	g.BallsJSON = datatypes.JSON(b)
}
