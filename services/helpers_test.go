package services

import (
	"testing"

	"github.com/bingolaperla/perla-backend/bingo"
	"github.com/bingolaperla/perla-backend/models"

	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, p *MemoryProvider, balance float64) *models.User {
	t.Helper()
	user := &models.User{Email: "player@example.com", Name: "Player", PearlBalance: balance}
	require.NoError(t, p.CreateUser(user))
	return user
}

func seedGame(t *testing.T, p *MemoryProvider, status models.GameStatus, mode models.MarkMode, pattern string) *models.Game {
	t.Helper()
	game := &models.Game{
		Title:          "Noche de Perlas",
		Status:         status,
		MarkMode:       mode,
		WinningPattern: pattern,
		CardPrice:      10,
		PrizePool:      1000,
		MaxPlayers:     300,
	}
	game.SetBalls(nil)
	require.NoError(t, p.CreateGame(game))
	return game
}

// fixedColumnNumbers is the card fixture
// B:[1..5] I:[16..20] N:[31,32,free,33,34] G:[46..50] O:[61..65].
var fixedColumnNumbers = [5][]int{
	{1, 2, 3, 4, 5},
	{16, 17, 18, 19, 20},
	{31, 32, 0, 33, 34},
	{46, 47, 48, 49, 50},
	{61, 62, 63, 64, 65},
}

func seedCard(t *testing.T, p *MemoryProvider, gameID, userID uint) *models.Card {
	t.Helper()
	cells := make([]models.CardCell, 0, bingo.CellCount)
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			pos := row*5 + col
			cell := models.CardCell{
				Position: pos,
				Column:   string(bingo.ColumnAt(pos)),
			}
			if pos == bingo.FreePosition {
				cell.IsFree = true
				cell.IsMarked = true
			} else {
				n := fixedColumnNumbers[col][row]
				cell.Number = &n
			}
			cells = append(cells, cell)
		}
	}

	card := &models.Card{GameID: gameID, UserID: userID, Active: true, Cells: cells}
	require.NoError(t, p.CreateCard(card))
	return card
}

func markPositions(t *testing.T, p *MemoryProvider, cardID uint, positions ...int) {
	t.Helper()
	for _, pos := range positions {
		require.NoError(t, p.MarkCell(cardID, pos))
	}
}
