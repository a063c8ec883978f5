package services

import (
	"sync"
	"testing"

	"github.com/bingolaperla/perla-backend/apperrors"
	"github.com/bingolaperla/perla-backend/bingo"
	"github.com/bingolaperla/perla-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGame(t *testing.T) {
	p := NewMemoryProvider()
	svc := NewGameService(p, nil, nil)

	t.Run("creates a scheduled game", func(t *testing.T) {
		game, err := svc.Create(CreateGameInput{
			Title:          "Viernes de Bingo",
			WinningPattern: "FOUR_CORNERS",
			CardPrice:      10,
			PrizePool:      500,
		})
		require.NoError(t, err)
		assert.Equal(t, models.GameScheduled, game.Status)
		assert.Equal(t, models.MarkAuto, game.MarkMode)
		assert.Equal(t, 300, game.MaxPlayers)
	})

	t.Run("rejects unknown pattern", func(t *testing.T) {
		_, err := svc.Create(CreateGameInput{Title: "x", WinningPattern: "ZIGZAG"})
		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		_, err := svc.Create(CreateGameInput{WinningPattern: "FULL_CARD"})
		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestSetStatus(t *testing.T) {
	p := NewMemoryProvider()
	svc := NewGameService(p, nil, nil)
	game := seedGame(t, p, models.GameScheduled, models.MarkAuto, "FULL_CARD")

	t.Run("walks the legal lifecycle", func(t *testing.T) {
		for _, to := range []models.GameStatus{models.GameOpen, models.GameInProgress, models.GamePaused, models.GameInProgress, models.GameCompleted} {
			updated, err := svc.SetStatus(game.ID, to)
			require.NoError(t, err)
			assert.Equal(t, to, updated.Status)
		}
	})

	t.Run("rejects transitions out of a terminal state", func(t *testing.T) {
		_, err := svc.SetStatus(game.ID, models.GameInProgress)
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
	})

	t.Run("rejects going back to SCHEDULED", func(t *testing.T) {
		g := seedGame(t, p, models.GameInProgress, models.MarkAuto, "FULL_CARD")
		_, err := svc.SetStatus(g.ID, models.GameScheduled)
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
	})
}

func TestJoinGame(t *testing.T) {
	p := NewMemoryProvider()
	svc := NewGameService(p, nil, nil)
	user := seedUser(t, p, 100)

	t.Run("joins an open game", func(t *testing.T) {
		game := seedGame(t, p, models.GameOpen, models.MarkAuto, "FULL_CARD")
		_, err := svc.Join(game.ID, user.ID)
		require.NoError(t, err)

		n, err := p.CountParticipants(game.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("joining twice is a no-op", func(t *testing.T) {
		game := seedGame(t, p, models.GameOpen, models.MarkAuto, "FULL_CARD")
		_, err := svc.Join(game.ID, user.ID)
		require.NoError(t, err)
		_, err = svc.Join(game.ID, user.ID)
		require.NoError(t, err)

		n, _ := p.CountParticipants(game.ID)
		assert.Equal(t, int64(1), n)
	})

	t.Run("rejects a full game", func(t *testing.T) {
		game := seedGame(t, p, models.GameOpen, models.MarkAuto, "FULL_CARD")
		game.MaxPlayers = 1
		require.NoError(t, p.SaveGame(game))

		require.NoError(t, doJoin(svc, game.ID, user.ID))

		other := &models.User{Email: "late@example.com", Name: "Late"}
		require.NoError(t, p.CreateUser(other))
		err := doJoin(svc, game.ID, other.ID)
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
	})

	t.Run("rejects a running game", func(t *testing.T) {
		game := seedGame(t, p, models.GameInProgress, models.MarkAuto, "FULL_CARD")
		_, err := svc.Join(game.ID, user.ID)
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
	})
}

func doJoin(svc *GameService, gameID, userID uint) error {
	_, err := svc.Join(gameID, userID)
	return err
}

func TestDrawBall(t *testing.T) {
	t.Run("rejects a game not in progress", func(t *testing.T) {
		p := NewMemoryProvider()
		svc := NewGameService(p, nil, nil)
		game := seedGame(t, p, models.GameOpen, models.MarkAuto, "FULL_CARD")

		_, err := svc.DrawBall(game.ID)
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
	})

	t.Run("draws all 75 without repeats, then conflicts", func(t *testing.T) {
		p := NewMemoryProvider()
		svc := NewGameService(p, nil, nil)
		game := seedGame(t, p, models.GameInProgress, models.MarkManual, "FULL_CARD")

		for i := 0; i < bingo.MaxBall; i++ {
			res, err := svc.DrawBall(game.ID)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Ball, 1)
			assert.LessOrEqual(t, res.Ball, bingo.MaxBall)
		}

		updated, err := p.GetGame(game.ID)
		require.NoError(t, err)
		balls := updated.Balls()
		require.Len(t, balls, bingo.MaxBall)
		seen := make(map[int]bool)
		for _, b := range balls {
			assert.False(t, seen[b], "ball %d drawn twice", b)
			seen[b] = true
		}

		_, err = svc.DrawBall(game.ID)
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
	})

	t.Run("auto mode propagates marks", func(t *testing.T) {
		p := NewMemoryProvider()
		svc := NewGameService(p, nil, nil)
		user := seedUser(t, p, 0)
		game := seedGame(t, p, models.GameInProgress, models.MarkAuto, "FULL_CARD")
		card := seedCard(t, p, game.ID, user.ID)

		// force the next draw to be ball 1 (position 0 on the fixture card)
		game.SetBalls(bingo.RemainingBalls([]int{1}))
		require.NoError(t, p.SaveGame(game))

		res, err := svc.DrawBall(game.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Ball)

		updated, err := p.GetCard(card.ID)
		require.NoError(t, err)
		assert.True(t, updated.Cells[0].IsMarked)
	})

	t.Run("detects the winner and pays the prize", func(t *testing.T) {
		p := NewMemoryProvider()
		svc := NewGameService(p, nil, nil)
		user := seedUser(t, p, 0)
		game := seedGame(t, p, models.GameInProgress, models.MarkAuto, "FOUR_CORNERS")
		card := seedCard(t, p, game.ID, user.ID)

		// three corners already marked; ball 61 completes position 4
		markPositions(t, p, card.ID, 0, 20, 24)
		game.SetBalls(bingo.RemainingBalls([]int{61}))
		require.NoError(t, p.SaveGame(game))

		res, err := svc.DrawBall(game.ID)
		require.NoError(t, err)
		assert.Equal(t, 61, res.Ball)
		require.Len(t, res.Winners, 1)
		assert.Equal(t, card.ID, res.Winners[0].CardID)
		assert.Equal(t, bingo.FourCorners, res.Winners[0].Pattern)
		assert.Equal(t, 100.0, res.Winners[0].Prize) // 1000 pool * 0.10

		updatedGame, _ := p.GetGame(game.ID)
		assert.Equal(t, models.GameCompleted, updatedGame.Status)

		updatedCard, _ := p.GetCard(card.ID)
		assert.True(t, updatedCard.IsWinner)

		winner, _ := p.GetUser(user.ID)
		assert.Equal(t, 100.0, winner.PearlBalance)
	})

	t.Run("unknown configured pattern never produces winners", func(t *testing.T) {
		p := NewMemoryProvider()
		svc := NewGameService(p, nil, nil)
		user := seedUser(t, p, 0)
		game := seedGame(t, p, models.GameInProgress, models.MarkAuto, "")
		card := seedCard(t, p, game.ID, user.ID)

		res, err := svc.DrawBall(game.ID)
		require.NoError(t, err)
		assert.Empty(t, res.Winners)

		updated, _ := p.GetGame(game.ID)
		assert.Equal(t, models.GameInProgress, updated.Status)

		updatedCard, _ := p.GetCard(card.ID)
		assert.False(t, updatedCard.IsWinner)
	})

	t.Run("concurrent draws keep the sequence unique", func(t *testing.T) {
		p := NewMemoryProvider()
		svc := NewGameService(p, nil, nil)
		game := seedGame(t, p, models.GameInProgress, models.MarkManual, "FULL_CARD")

		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					if _, err := svc.DrawBall(game.ID); err != nil {
						return
					}
				}
			}()
		}
		wg.Wait()

		updated, err := p.GetGame(game.ID)
		require.NoError(t, err)
		balls := updated.Balls()
		require.Len(t, balls, bingo.MaxBall)
		seen := make(map[int]bool)
		for _, b := range balls {
			assert.False(t, seen[b], "ball %d drawn twice", b)
			seen[b] = true
		}
	})

	t.Run("manual mode never auto-detects winners", func(t *testing.T) {
		p := NewMemoryProvider()
		svc := NewGameService(p, nil, nil)
		user := seedUser(t, p, 0)
		game := seedGame(t, p, models.GameInProgress, models.MarkManual, "FOUR_CORNERS")
		card := seedCard(t, p, game.ID, user.ID)

		markPositions(t, p, card.ID, 0, 4, 20, 24)
		game.SetBalls(bingo.RemainingBalls([]int{5}))
		require.NoError(t, p.SaveGame(game))

		res, err := svc.DrawBall(game.ID)
		require.NoError(t, err)
		assert.Empty(t, res.Winners)

		updated, _ := p.GetGame(game.ID)
		assert.Equal(t, models.GameInProgress, updated.Status)

		updatedCard, _ := p.GetCard(card.ID)
		assert.False(t, updatedCard.IsWinner)
	})
}

func TestAnnounceBingo(t *testing.T) {
	setup := func(t *testing.T, mode models.MarkMode, pattern string) (*MemoryProvider, *GameService, *models.User, *models.Game, *models.Card) {
		p := NewMemoryProvider()
		svc := NewGameService(p, nil, nil)
		user := seedUser(t, p, 0)
		game := seedGame(t, p, models.GameInProgress, mode, pattern)
		card := seedCard(t, p, game.ID, user.ID)
		return p, svc, user, game, card
	}

	t.Run("unmet claim is invalid, not an error", func(t *testing.T) {
		p, svc, user, game, card := setup(t, models.MarkAuto, "FOUR_CORNERS")

		res, err := svc.AnnounceBingo(user.ID, game.ID, card.ID, "FOUR_CORNERS")
		require.NoError(t, err)
		assert.False(t, res.IsValid)
		assert.NotEmpty(t, res.Message)

		// card and game untouched
		updatedCard, _ := p.GetCard(card.ID)
		assert.False(t, updatedCard.IsWinner)
		updatedGame, _ := p.GetGame(game.ID)
		assert.Equal(t, models.GameInProgress, updatedGame.Status)
	})

	t.Run("valid claim in auto mode", func(t *testing.T) {
		p, svc, user, game, card := setup(t, models.MarkAuto, "FOUR_CORNERS")
		markPositions(t, p, card.ID, 0, 4, 20, 24)

		res, err := svc.AnnounceBingo(user.ID, game.ID, card.ID, "FOUR_CORNERS")
		require.NoError(t, err)
		assert.True(t, res.IsValid)
		assert.Equal(t, bingo.FourCorners, res.WinningPattern)
		assert.Equal(t, 100.0, res.Prize)

		updatedCard, _ := p.GetCard(card.ID)
		assert.True(t, updatedCard.IsWinner)
		updatedGame, _ := p.GetGame(game.ID)
		assert.Equal(t, models.GameCompleted, updatedGame.Status)
	})

	t.Run("manual mode validates against the drawn set", func(t *testing.T) {
		p, svc, user, game, card := setup(t, models.MarkManual, "LINE_VERTICAL_B")

		// marked but never drawn: claim must fail
		markPositions(t, p, card.ID, 0, 5, 10, 15, 20)
		res, err := svc.AnnounceBingo(user.ID, game.ID, card.ID, "LINE_VERTICAL_B")
		require.NoError(t, err)
		assert.False(t, res.IsValid)

		// drawn backs the claim
		game.SetBalls([]int{1, 2, 3, 4, 5})
		require.NoError(t, p.SaveGame(game))
		res, err = svc.AnnounceBingo(user.ID, game.ID, card.ID, "LINE_VERTICAL_B")
		require.NoError(t, err)
		assert.True(t, res.IsValid)
	})

	t.Run("rejects unknown pattern", func(t *testing.T) {
		_, svc, user, game, card := setup(t, models.MarkAuto, "FOUR_CORNERS")
		_, err := svc.AnnounceBingo(user.ID, game.ID, card.ID, "ZIGZAG")
		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("rejects a card the caller does not own", func(t *testing.T) {
		p, svc, _, game, card := setup(t, models.MarkAuto, "FOUR_CORNERS")
		other := &models.User{Email: "other@example.com", Name: "Other"}
		require.NoError(t, p.CreateUser(other))

		_, err := svc.AnnounceBingo(other.ID, game.ID, card.ID, "FOUR_CORNERS")
		var nfe *apperrors.NotFoundError
		require.ErrorAs(t, err, &nfe)
	})

	t.Run("rejects a game not in progress", func(t *testing.T) {
		p, svc, user, game, card := setup(t, models.MarkAuto, "FOUR_CORNERS")
		_, err := p.TransitionGame(game.ID, models.GameInProgress, models.GameCompleted)
		require.NoError(t, err)

		_, err = svc.AnnounceBingo(user.ID, game.ID, card.ID, "FOUR_CORNERS")
		var ce *apperrors.ConflictError
		require.ErrorAs(t, err, &ce)
	})

	t.Run("race loser gets an invalid result", func(t *testing.T) {
		p, _, user, game, card := setup(t, models.MarkAuto, "FOUR_CORNERS")
		markPositions(t, p, card.ID, 0, 4, 20, 24)

		// another claimant flipped the game between this caller's status
		// read and its guarded update
		svc := NewGameService(&staleStatusProvider{GameProvider: p}, nil, nil)
		_, err := p.TransitionGame(game.ID, models.GameInProgress, models.GameCompleted)
		require.NoError(t, err)

		res, err := svc.AnnounceBingo(user.ID, game.ID, card.ID, "FOUR_CORNERS")
		require.NoError(t, err)
		assert.False(t, res.IsValid)
		assert.Contains(t, res.Message, "already accepted")
	})
}

// staleStatusProvider replays the read half of the announce race: GetGame
// reports IN_PROGRESS even after another claim completed the game, so the
// guarded transition is what settles the outcome.
type staleStatusProvider struct {
	GameProvider
}

func (p *staleStatusProvider) GetGame(id uint) (*models.Game, error) {
	game, err := p.GameProvider.GetGame(id)
	if err != nil {
		return nil, err
	}
	game.Status = models.GameInProgress
	return game, nil
}
