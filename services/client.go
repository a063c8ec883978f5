package services

import (
	"sync"

	"github.com/bingolaperla/perla-backend/utils/logger"

	"github.com/gorilla/websocket"
)

// Client is one websocket subscriber to a game's state feed.
type Client struct {
	gameID uint
	conn   *websocket.Conn
	hub    *Hub
	send   chan []byte
	once   sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// readPump drains the connection; the feed is one-way, reads only detect
// disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debugf("game %d feed: client disconnected", c.gameID)
			} else {
				logger.Debugf("game %d feed: read error: %v", c.gameID, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Debugf("game %d feed: write error: %v", c.gameID, err)
			return
		}
	}
}
