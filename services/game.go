package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bingolaperla/perla-backend/apperrors"
	"github.com/bingolaperla/perla-backend/bingo"
	"github.com/bingolaperla/perla-backend/models"
	"github.com/bingolaperla/perla-backend/scheduler"
	"github.com/bingolaperla/perla-backend/utils/logger"
)

// Notifier pushes a game-state payload to everyone watching a game.
type Notifier interface {
	NotifyGame(gameID uint, payload interface{})
}

// Winner describes one card that won a round.
type Winner struct {
	CardID  uint              `json:"card_id"`
	UserID  uint              `json:"user_id"`
	Pattern bingo.PatternName `json:"pattern"`
	Prize   float64           `json:"prize"`
}

// DrawResult is what a draw-ball call returns: the updated game plus any
// winners the draw produced.
type DrawResult struct {
	Game    *models.Game `json:"game"`
	Ball    int          `json:"ball"`
	Winners []Winner     `json:"winners"`
}

// AnnounceResult is the outcome of a player's bingo claim. An unmet claim
// is an expected outcome, not an error.
type AnnounceResult struct {
	IsValid        bool              `json:"isValid"`
	Message        string            `json:"message"`
	WinningPattern bingo.PatternName `json:"winningPattern,omitempty"`
	Prize          float64           `json:"prize,omitempty"`
}

// GameService drives the game lifecycle: status transitions, ball draws,
// mark propagation, win detection, prize payout.
type GameService struct {
	provider GameProvider
	registry *scheduler.Registry
	notifier Notifier

	mu  sync.Mutex
	rng *rand.Rand
}

func NewGameService(provider GameProvider, registry *scheduler.Registry, notifier Notifier) *GameService {
	return &GameService{
		provider: provider,
		registry: registry,
		notifier: notifier,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type CreateGameInput struct {
	Title          string
	MarkMode       models.MarkMode
	WinningPattern string
	CardPrice      float64
	PrizePool      float64
	MaxPlayers     int
	ScheduledAt    *time.Time
}

func (s *GameService) Create(in CreateGameInput) (*models.Game, error) {
	if in.Title == "" {
		return nil, apperrors.Validationf("title is required")
	}
	if _, ok := bingo.PatternByName(bingo.PatternName(in.WinningPattern)); !ok {
		return nil, apperrors.Validationf("unknown pattern %q", in.WinningPattern)
	}
	if in.MarkMode == "" {
		in.MarkMode = models.MarkAuto
	}
	if in.MarkMode != models.MarkAuto && in.MarkMode != models.MarkManual {
		return nil, apperrors.Validationf("mark_mode must be %q or %q", models.MarkAuto, models.MarkManual)
	}
	if in.MaxPlayers <= 0 {
		in.MaxPlayers = 300
	}

	game := &models.Game{
		Title:          in.Title,
		Status:         models.GameScheduled,
		MarkMode:       in.MarkMode,
		WinningPattern: in.WinningPattern,
		CardPrice:      in.CardPrice,
		PrizePool:      in.PrizePool,
		MaxPlayers:     in.MaxPlayers,
		ScheduledAt:    in.ScheduledAt,
	}
	game.SetBalls(nil)
	if err := s.provider.CreateGame(game); err != nil {
		return nil, err
	}
	logger.Infof("game %d created (%s, pattern %s)", game.ID, game.MarkMode, game.WinningPattern)
	return game, nil
}

func (s *GameService) Get(id uint) (*models.Game, error) {
	return s.provider.GetGame(id)
}

func (s *GameService) List() ([]models.Game, error) {
	return s.provider.ListGames()
}

// SetStatus applies a lifecycle transition, rejecting anything outside the
// status graph.
func (s *GameService) SetStatus(id uint, to models.GameStatus) (*models.Game, error) {
	game, err := s.provider.GetGame(id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(game.Status, to) {
		return nil, apperrors.Conflictf("cannot move game %d from %s to %s", id, game.Status, to)
	}

	ok, err := s.provider.TransitionGame(id, game.Status, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Conflictf("game %d changed state concurrently", id)
	}

	now := time.Now()
	switch to {
	case models.GameInProgress:
		if game.StartedAt == nil {
			game.StartedAt = &now
		}
	case models.GameCompleted, models.GameCancelled:
		game.EndedAt = &now
	}
	game.Status = to
	if err := s.provider.SaveGame(game); err != nil {
		return nil, err
	}

	// a game leaving IN_PROGRESS must not keep drawing
	if to != models.GameInProgress && s.registry != nil {
		s.registry.Stop(id)
	}

	s.notify(game, nil)
	logger.Infof("game %d is now %s", id, to)
	return game, nil
}

// Join registers a user as a player, enforcing MaxPlayers. Joining twice
// is a no-op.
func (s *GameService) Join(gameID, userID uint) (*models.Game, error) {
	game, err := s.provider.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameOpen && game.Status != models.GameScheduled {
		return nil, apperrors.Conflictf("game %d is %s and cannot be joined", gameID, game.Status)
	}
	if _, err := s.provider.GetUser(userID); err != nil {
		return nil, err
	}

	count, err := s.provider.CountParticipants(gameID)
	if err != nil {
		return nil, err
	}
	if int(count) >= game.MaxPlayers {
		return nil, apperrors.Conflictf("game %d is full (%d players)", gameID, game.MaxPlayers)
	}

	if _, err := s.provider.AddParticipant(gameID, userID); err != nil {
		return nil, err
	}
	return game, nil
}

// nextBall picks and persists the next ball. The read-append-save runs
// under the service mutex so an autodraw tick and a manual draw cannot
// both extend the same sequence from a stale read.
func (s *GameService) nextBall(gameID uint) (*models.Game, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.provider.GetGame(gameID)
	if err != nil {
		return nil, 0, err
	}
	if game.Status != models.GameInProgress {
		return nil, 0, apperrors.Conflictf("game %d is %s, balls can only be drawn while IN_PROGRESS", gameID, game.Status)
	}

	balls := game.Balls()
	remaining := bingo.RemainingBalls(balls)
	if len(remaining) == 0 {
		return nil, 0, apperrors.Conflictf("game %d has drawn all %d balls", gameID, bingo.MaxBall)
	}

	ball := remaining[s.rng.Intn(len(remaining))]
	game.SetBalls(append(balls, ball))
	game.CurrentBall = ball
	if err := s.provider.SaveGame(game); err != nil {
		return nil, 0, err
	}
	return game, ball, nil
}

// DrawBall draws the next ball, propagates marks in auto mode, and detects
// winners against the game's configured pattern.
func (s *GameService) DrawBall(gameID uint) (*DrawResult, error) {
	game, ball, err := s.nextBall(gameID)
	if err != nil {
		return nil, err
	}

	cards, err := s.provider.ActiveCardsByGame(gameID)
	if err != nil {
		return nil, err
	}

	if game.MarkMode == models.MarkAuto {
		for _, card := range cards {
			for i := range card.Cells {
				cell := &card.Cells[i]
				if cell.Number != nil && *cell.Number == ball && !cell.IsMarked {
					cell.IsMarked = true
					if err := s.provider.MarkCell(card.ID, cell.Position); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	result := &DrawResult{Game: game, Ball: ball}

	// winner detection is automatic only when marking is; manual games
	// settle via announce-bingo. An unknown configured pattern skips
	// detection, a zero pattern would match every card.
	pattern, knownPattern := bingo.PatternByName(bingo.PatternName(game.WinningPattern))
	if game.MarkMode == models.MarkAuto && knownPattern {
		for _, card := range cards {
			if card.IsWinner {
				continue
			}
			if pattern.Satisfied(cellsToLayout(card.Cells)) {
				winner, err := s.crownWinner(game, card, pattern)
				if err != nil {
					return nil, err
				}
				result.Winners = append(result.Winners, *winner)
			}
		}
		if len(result.Winners) > 0 {
			if _, err := s.provider.TransitionGame(gameID, models.GameInProgress, models.GameCompleted); err != nil {
				return nil, err
			}
			game.Status = models.GameCompleted
			now := time.Now()
			game.EndedAt = &now
			if err := s.provider.SaveGame(game); err != nil {
				return nil, err
			}
		}
	}

	s.notify(game, result.Winners)
	return result, nil
}

// AnnounceBingo validates a player's claim for a specific pattern. The
// status-guarded transition settles two claims racing on the same game:
// the first to flip the game wins, the loser gets an invalid result.
func (s *GameService) AnnounceBingo(userID, gameID, cardID uint, patternName string) (*AnnounceResult, error) {
	pattern, ok := bingo.PatternByName(bingo.PatternName(patternName))
	if !ok {
		return nil, apperrors.Validationf("unknown pattern %q", patternName)
	}

	card, err := s.provider.GetCard(cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID || card.GameID != gameID {
		return nil, apperrors.NotFoundf("card %d not found", cardID)
	}

	game, err := s.provider.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameInProgress {
		return nil, apperrors.Conflictf("game %d is %s, bingo can only be announced while IN_PROGRESS", gameID, game.Status)
	}

	layout := cellsToLayout(card.Cells)
	satisfied := false
	if game.MarkMode == models.MarkManual {
		// manual mode checks the claim against what was actually drawn,
		// not against the player's marks
		drawn := make(map[int]bool)
		for _, b := range game.Balls() {
			drawn[b] = true
		}
		satisfied = pattern.SatisfiedByDrawn(layout, drawn)
	} else {
		satisfied = pattern.Satisfied(layout)
	}

	if !satisfied {
		return &AnnounceResult{
			IsValid: false,
			Message: fmt.Sprintf("pattern %s is not satisfied on card %d", pattern.Name, cardID),
		}, nil
	}

	won, err := s.provider.TransitionGame(gameID, models.GameInProgress, models.GameCompleted)
	if err != nil {
		return nil, err
	}
	if !won {
		return &AnnounceResult{
			IsValid: false,
			Message: "another bingo was already accepted for this game",
		}, nil
	}

	winner, err := s.crownWinner(game, card, pattern)
	if err != nil {
		return nil, err
	}

	game.Status = models.GameCompleted
	now := time.Now()
	game.EndedAt = &now
	if err := s.provider.SaveGame(game); err != nil {
		return nil, err
	}
	if s.registry != nil {
		go s.registry.Stop(gameID)
	}

	s.notify(game, []Winner{*winner})
	return &AnnounceResult{
		IsValid:        true,
		Message:        fmt.Sprintf("BINGO! %s confirmed on card %d", pattern.Name, cardID),
		WinningPattern: pattern.Name,
		Prize:          winner.Prize,
	}, nil
}

// crownWinner flags the card and credits the prize.
func (s *GameService) crownWinner(game *models.Game, card *models.Card, pattern bingo.Pattern) (*Winner, error) {
	if err := s.provider.SetCardWinner(card.ID); err != nil {
		return nil, err
	}

	prize := bingo.Prize(pattern.Name, game.PrizePool)
	if prize > 0 {
		ref := fmt.Sprintf("game-%d-card-%d", game.ID, card.ID)
		if _, err := s.provider.AdjustBalance(card.UserID, prize, models.PrizePayout, ref,
			fmt.Sprintf("prize for %s in game %d", pattern.Name, game.ID)); err != nil {
			return nil, err
		}
	}

	logger.Infof("game %d: card %d (user %d) won %s, prize %.2f", game.ID, card.ID, card.UserID, pattern.Name, prize)
	return &Winner{
		CardID:  card.ID,
		UserID:  card.UserID,
		Pattern: pattern.Name,
		Prize:   prize,
	}, nil
}

// StartAutoDraw attaches a draw loop to an in-progress game.
func (s *GameService) StartAutoDraw(gameID uint, interval time.Duration) error {
	game, err := s.provider.GetGame(gameID)
	if err != nil {
		return err
	}
	if game.Status != models.GameInProgress {
		return apperrors.Conflictf("game %d is %s, autodraw requires IN_PROGRESS", gameID, game.Status)
	}
	if s.registry == nil {
		return apperrors.Conflictf("autodraw is not enabled")
	}

	started := s.registry.Start(gameID, interval, func() bool {
		res, err := s.DrawBall(gameID)
		if err != nil {
			logger.Warnf("autodraw for game %d stopped: %v", gameID, err)
			return false
		}
		return len(res.Winners) == 0
	})
	if !started {
		return apperrors.Conflictf("autodraw already running for game %d", gameID)
	}
	return nil
}

// StopAutoDraw detaches the game's draw loop, if any.
func (s *GameService) StopAutoDraw(gameID uint) bool {
	if s.registry == nil {
		return false
	}
	return s.registry.Stop(gameID)
}

func (s *GameService) notify(game *models.Game, winners []Winner) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyGame(game.ID, map[string]interface{}{
		"type":         "game_state",
		"game_id":      game.ID,
		"status":       game.Status,
		"current_ball": game.CurrentBall,
		"balls_drawn":  game.Balls(),
		"winners":      winners,
	})
}
