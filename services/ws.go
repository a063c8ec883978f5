package services

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/bingolaperla/perla-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans game-state payloads out to every client watching a game.
// It satisfies the GameService Notifier.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*Client]bool)}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.gameID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[c.gameID] = room
	}
	room[c] = true
	total := len(room)
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()

	logger.Infof("game %d feed: client joined (total=%d)", c.gameID, total)
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if room, ok := h.rooms[c.gameID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.gameID)
		}
	}
	h.mu.Unlock()
	c.Close()
}

// NotifyGame broadcasts a payload to the game's room. Slow clients get
// dropped messages rather than blocking the caller.
func (h *Hub) NotifyGame(gameID uint, payload interface{}) {
	b, err := json.Marshal(payload)
	if err != nil {
		logger.Errorf("game %d feed: marshal failed: %v", gameID, err)
		return
	}

	// sends stay under the lock so a concurrent remove cannot close a
	// channel mid-broadcast; the select keeps slow clients non-blocking
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[gameID] {
		select {
		case c.send <- b:
		default:
			logger.Warnf("game %d feed: dropping message to slow client", gameID)
		}
	}
}

// HandleGameFeed upgrades the connection and subscribes it to the game.
func (h *Hub) HandleGameFeed(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("gameId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("ws upgrade error: %v", err)
		return
	}

	client := &Client{
		gameID: uint(gameID),
		conn:   conn,
		hub:    h,
		send:   make(chan []byte, 32),
	}
	h.add(client)
}
