package ws

import (
	"net/http"
	"sync"

	"walk-companion/internal/mylogger"
	websocketdto "walk-companion/internal/walk-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

// websocketUpgrader is used to upgrade incoming HTTP requests into a
// persistent websocket connection.
var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type ClientList map[string]*Client

type Dispatcher struct {
	clients ClientList
	sync.RWMutex
	log mylogger.Logger
}

func NewDispatcher(log mylogger.Logger) *Dispatcher {
	return &Dispatcher{
		clients: make(ClientList),
		log:     log,
	}
}

// WsHandler upgrades the connection for an authenticated user. The auth
// middleware has already placed the user id in X-UserId.
func (d *Dispatcher) WsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("wsHandler")

		userID := r.Header.Get("X-UserId")
		if userID == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(r.Context(), conn, d, userID)
		d.AddClient(client)
		go client.ReadMessage()
		go client.WriteMessage()
	}
}

func (d *Dispatcher) AddClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if old, ok := d.clients[client.userID]; ok {
		old.conn.Close()
	}
	d.clients[client.userID] = client
}

func (d *Dispatcher) RemoveClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if current, ok := d.clients[client.userID]; ok && current == client {
		delete(d.clients, client.userID)
	}
}

// WriteToUser pushes an event to the user's open socket, if any.
// A closed or missing socket drops the event.
func (d *Dispatcher) WriteToUser(userID string, msg websocketdto.Event) {
	d.RLock()
	client, ok := d.clients[userID]
	d.RUnlock()

	if !ok {
		return
	}

	select {
	case client.egress <- msg:
	default:
		d.log.Action("writeToUser").Warn("egress full, dropping event", "user_id", userID, "type", msg.Type)
	}
}
