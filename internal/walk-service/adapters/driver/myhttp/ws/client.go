package ws

import (
	"context"
	"encoding/json"

	websocketdto "walk-companion/internal/walk-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

type Client struct {
	ctx    context.Context
	conn   *websocket.Conn
	dis    *Dispatcher
	egress chan websocketdto.Event
	userID string
}

func NewClient(ctx context.Context, conn *websocket.Conn, dis *Dispatcher, userID string) *Client {
	return &Client{
		ctx:    ctx,
		conn:   conn,
		dis:    dis,
		egress: make(chan websocketdto.Event, 16),
		userID: userID,
	}
}

// ReadMessage drains inbound frames. Clients only listen on this socket,
// inbound payloads are ignored; the loop exists to detect the close.
func (c *Client) ReadMessage() {
	defer func() {
		c.dis.RemoveClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.dis.log.Action("readMessage").Warn("unexpected close", "user_id", c.userID)
			}
			return
		}
	}
}

func (c *Client) WriteMessage() {
	for {
		select {
		case <-c.ctx.Done():
			c.conn.Close()
			return
		case event, ok := <-c.egress:
			if !ok {
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
