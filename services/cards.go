package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/bingolaperla/perla-backend/apperrors"
	"github.com/bingolaperla/perla-backend/bingo"
	"github.com/bingolaperla/perla-backend/models"
	"github.com/bingolaperla/perla-backend/utils/logger"
)

// CardService generates, marks and evaluates cards for one user at a time.
type CardService struct {
	provider GameProvider
	maxCards int

	mu  sync.Mutex
	gen *bingo.Generator
}

func NewCardService(provider GameProvider, maxCards int) *CardService {
	return &CardService{
		provider: provider,
		maxCards: maxCards,
		gen:      bingo.NewGenerator(time.Now().UnixNano()),
	}
}

// GenerateCards buys n cards for a user in a game: validates the per-user
// cap and the game status, debits the wallet, persists card + cells.
func (s *CardService) GenerateCards(userID, gameID uint, n int) ([]*models.Card, error) {
	if n < 1 {
		return nil, apperrors.Validationf("count must be at least 1")
	}

	game, err := s.provider.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameOpen && game.Status != models.GameScheduled {
		return nil, apperrors.Conflictf("game %d is %s, cards can only be bought while OPEN or SCHEDULED", gameID, game.Status)
	}

	owned, err := s.provider.CountUserCards(gameID, userID)
	if err != nil {
		return nil, err
	}
	if int(owned)+n > s.maxCards {
		return nil, apperrors.Validationf("card limit exceeded: %d owned + %d requested > %d allowed", owned, n, s.maxCards)
	}

	s.mu.Lock()
	layouts, err := s.gen.GenerateBatch(n)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	cards := make([]*models.Card, 0, n)
	for _, layout := range layouts {
		cards = append(cards, &models.Card{
			GameID: gameID,
			UserID: userID,
			Active: true,
			Cells:  layoutToCells(layout),
		})
	}

	// debit and card rows land together or not at all
	total := game.CardPrice * float64(n)
	ref := fmt.Sprintf("game-%d-cards-%d", gameID, n)
	if err := s.provider.PurchaseCards(userID, total, ref,
		fmt.Sprintf("purchase of %d card(s) for game %d", n, gameID), cards); err != nil {
		return nil, err
	}

	logger.Infof("user %d bought %d card(s) for game %d", userID, n, gameID)
	return cards, nil
}

// GetCard fetches a card the caller owns.
func (s *CardService) GetCard(userID, cardID uint) (*models.Card, error) {
	card, err := s.provider.GetCard(cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		// not visible to this caller
		return nil, apperrors.NotFoundf("card %d not found", cardID)
	}
	return card, nil
}

// CardsByUser lists all of a user's cards.
func (s *CardService) CardsByUser(userID uint) ([]models.Card, error) {
	return s.provider.CardsByUser(userID)
}

// MarkNumber marks the cell holding the number, if present. Marking a
// number that is not on the card is a no-op; re-marking is idempotent.
// In manual-mark games the number must already have been drawn.
func (s *CardService) MarkNumber(userID, cardID uint, number int) (*models.Card, error) {
	if number < 1 || number > bingo.MaxBall {
		return nil, apperrors.Validationf("number must be between 1 and %d", bingo.MaxBall)
	}

	card, err := s.GetCard(userID, cardID)
	if err != nil {
		return nil, err
	}

	game, err := s.provider.GetGame(card.GameID)
	if err != nil {
		return nil, err
	}
	if game.MarkMode == models.MarkManual {
		drawn := false
		for _, b := range game.Balls() {
			if b == number {
				drawn = true
				break
			}
		}
		if !drawn {
			return nil, apperrors.Validationf("ball %d has not been drawn", number)
		}
	}

	for _, cell := range card.Cells {
		if cell.Number != nil && *cell.Number == number {
			if !cell.IsMarked {
				if err := s.provider.MarkCell(cardID, cell.Position); err != nil {
					return nil, err
				}
			}
			return s.provider.GetCard(cardID)
		}
	}

	// number not on the card: no error, no change
	return card, nil
}

// SatisfiedPatterns reports every pattern currently satisfied on the card.
func (s *CardService) SatisfiedPatterns(userID, cardID uint) ([]bingo.PatternName, error) {
	card, err := s.GetCard(userID, cardID)
	if err != nil {
		return nil, err
	}
	return bingo.SatisfiedPatterns(cellsToLayout(card.Cells)), nil
}

func layoutToCells(layout bingo.CardLayout) []models.CardCell {
	cells := make([]models.CardCell, len(layout))
	for i, c := range layout {
		cells[i] = models.CardCell{
			Position: c.Position,
			Column:   string(c.Column),
			Number:   c.Number,
			IsFree:   c.IsFree,
			IsMarked: c.IsMarked,
		}
	}
	return cells
}

func cellsToLayout(cells []models.CardCell) bingo.CardLayout {
	layout := make(bingo.CardLayout, bingo.CellCount)
	for _, c := range cells {
		if c.Position < 0 || c.Position >= bingo.CellCount {
			continue
		}
		layout[c.Position] = bingo.Cell{
			Position: c.Position,
			Column:   bingo.Column(c.Column),
			Number:   c.Number,
			IsFree:   c.IsFree,
			IsMarked: c.IsMarked,
		}
	}
	return layout
}
