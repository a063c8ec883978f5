package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bingolaperla/perla-backend/controllers"
	"github.com/bingolaperla/perla-backend/models"
	"github.com/bingolaperla/perla-backend/routes"
	"github.com/bingolaperla/perla-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*gin.Engine, *services.MemoryProvider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := services.NewMemoryProvider()
	games := services.NewGameService(provider, nil, nil)
	cards := services.NewCardService(provider, 3)
	wallet := services.NewWalletService(provider)
	payments := services.NewPaymentService(provider, "whsec_test")

	api := controllers.NewAPI(games, cards, wallet, payments, provider, time.Second)
	r := gin.New()
	routes.SetupRoutes(r, api)
	return r, provider
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, userID uint, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-User-ID", fmt.Sprint(userID))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedOpenGame(t *testing.T, p *services.MemoryProvider) (*models.User, *models.Game) {
	t.Helper()
	user := &models.User{Email: "jugador@example.com", Name: "Jugador", PearlBalance: 100}
	require.NoError(t, p.CreateUser(user))

	game := &models.Game{
		Title:          "Ronda de prueba",
		Status:         models.GameOpen,
		MarkMode:       models.MarkAuto,
		WinningPattern: "FOUR_CORNERS",
		CardPrice:      10,
		PrizePool:      1000,
		MaxPlayers:     300,
	}
	game.SetBalls(nil)
	require.NoError(t, p.CreateGame(game))
	return user, game
}

func TestGenerateCardsEndpoint(t *testing.T) {
	r, p := newTestServer(t)
	user, game := seedOpenGame(t, p)

	t.Run("requires identity", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/cards", 0, gin.H{"gameId": game.ID, "count": 1})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("creates cards", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/cards", user.ID, gin.H{"gameId": game.ID, "count": 2})
		require.Equal(t, http.StatusCreated, w.Code)

		var cards []models.Card
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
		require.Len(t, cards, 2)
		assert.Len(t, cards[0].Cells, 25)
	})

	t.Run("cap violation maps to 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/cards", user.ID, gin.H{"gameId": game.ID, "count": 3})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown game maps to 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/cards", user.ID, gin.H{"gameId": 999, "count": 1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMarkAndPatternsEndpoints(t *testing.T) {
	r, p := newTestServer(t)
	user, game := seedOpenGame(t, p)

	w := doJSON(t, r, http.MethodPost, "/api/cards", user.ID, gin.H{"gameId": game.ID, "count": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	var cards []models.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	card := cards[0]

	number := *card.Cells[0].Number

	t.Run("mark cell", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cards/%d/mark", card.ID), user.ID, gin.H{"number": number})
		require.Equal(t, http.StatusOK, w.Code)

		var updated models.Card
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.True(t, updated.Cells[0].IsMarked)
	})

	t.Run("patterns on a fresh card", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/cards/%d/patterns", card.ID), user.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "patterns")
	})

	t.Run("someone else's card is invisible", func(t *testing.T) {
		other := &models.User{Email: "otra@example.com", Name: "Otra"}
		require.NoError(t, p.CreateUser(other))
		w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/cards/%d", card.ID), other.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAnnounceBingoEndpoint(t *testing.T) {
	r, p := newTestServer(t)
	user, game := seedOpenGame(t, p)

	w := doJSON(t, r, http.MethodPost, "/api/cards", user.ID, gin.H{"gameId": game.ID, "count": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	var cards []models.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))

	_, err := p.TransitionGame(game.ID, models.GameOpen, models.GameInProgress)
	require.NoError(t, err)

	t.Run("unmet claim returns isValid false", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/games/%d/announce-bingo", game.ID), user.ID,
			gin.H{"cardId": cards[0].ID, "pattern": "FOUR_CORNERS"})
		require.Equal(t, http.StatusOK, w.Code)

		var res services.AnnounceResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.False(t, res.IsValid)
	})

	t.Run("unknown pattern maps to 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/games/%d/announce-bingo", game.ID), user.ID,
			gin.H{"cardId": cards[0].ID, "pattern": "ZIGZAG"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDrawBallEndpoint(t *testing.T) {
	r, p := newTestServer(t)
	_, game := seedOpenGame(t, p)

	t.Run("conflicts while not in progress", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/games/%d/draw-ball", game.ID), 0, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("draws once in progress", func(t *testing.T) {
		_, err := p.TransitionGame(game.ID, models.GameOpen, models.GameInProgress)
		require.NoError(t, err)

		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/games/%d/draw-ball", game.ID), 0, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var res services.DrawResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.GreaterOrEqual(t, res.Ball, 1)
		assert.LessOrEqual(t, res.Ball, 75)
	})
}

func TestWebhookEndpoint(t *testing.T) {
	r, _ := newTestServer(t)

	t.Run("rejects a missing signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewBufferString(`{"id":"evt_1","type":"charge.succeeded"}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPatternsEndpoint(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/patterns", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "FOUR_CORNERS")
	assert.Contains(t, w.Body.String(), "FULL_CARD")
}
