// Copyright (c) 2026 Benchbook Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"log"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/benchbook-io/benchbook/backend/pitchsmart"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// Message types for WebSocket communication
const (
	MsgTypeJoin      = "JOIN"
	MsgTypeAck       = "ACK"
	MsgTypeUpdate    = "GAME_UPDATE"
	MsgTypeViolation = "VIOLATION_ALERT"
	MsgTypeError     = "ERROR"
)

// Message represents a WebSocket message. Updates carry the full game
// so late joiners and reconnects need no separate sync protocol.
type Message struct {
	Type       string                                `json:"type"`
	GameID     string                                `json:"gameId,omitempty"`
	Game       *Game                                 `json:"game,omitempty"`
	Violations map[string][]pitchsmart.ViolationKind `json:"violations,omitempty"`
	Error      string                                `json:"error,omitempty"`
}

// Hub maintains the set of active clients for one game and broadcasts
// updates to them.
type Hub struct {
	gameId string

	// Registered clients.
	clients map[*wsClient]bool

	// Inbound broadcasts from the HTTP save path.
	updates chan Message

	// Register requests from the clients.
	register chan *wsClient

	// Unregister requests from clients.
	unregister chan *wsClient

	gs *GameStore
	ts *TeamStore
	r  *Registry
	hm *HubManager
}

func newHub(gameId string, gs *GameStore, ts *TeamStore, r *Registry, hm *HubManager) *Hub {
	return &Hub{
		gameId:     gameId,
		updates:    make(chan Message, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		clients:    make(map[*wsClient]bool),
		gs:         gs,
		ts:         ts,
		r:          r,
		hm:         hm,
	}
}

func (h *Hub) run() {
	idleTimer := time.NewTicker(5 * time.Minute)
	defer idleTimer.Stop()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case msg := <-h.updates:
			h.broadcast(msg)
		case <-idleTimer.C:
			if len(h.clients) == 0 {
				h.hm.RemoveHub(h.gameId)
				return
			}
		}
	}
}

func (h *Hub) broadcast(msg Message) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// HubManager manages hubs for different games.
type HubManager struct {
	hubs map[string]*Hub
	mu   sync.Mutex
}

func NewHubManager() *HubManager {
	return &HubManager{
		hubs: make(map[string]*Hub),
	}
}

func (hm *HubManager) GetHub(gameId string, gs *GameStore, ts *TeamStore, r *Registry) *Hub {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	if hub, ok := hm.hubs[gameId]; ok {
		return hub
	}

	hub := newHub(gameId, gs, ts, r, hm)
	hm.hubs[gameId] = hub
	go hub.run()
	return hub
}

func (hm *HubManager) RemoveHub(gameId string) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	delete(hm.hubs, gameId)
}

func (hm *HubManager) Clear() {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.hubs = make(map[string]*Hub)
}

// BroadcastGameUpdate pushes the saved game to every subscribed client.
// If any entry has violations, a separate alert message follows so
// clients can surface the warning immediately.
func (hm *HubManager) BroadcastGameUpdate(game *Game) {
	hm.mu.Lock()
	hub, ok := hm.hubs[game.ID]
	hm.mu.Unlock()
	if !ok {
		return
	}

	send := func(msg Message) {
		select {
		case hub.updates <- msg:
		default:
			log.Printf("Warning: Hub channel full, dropping broadcast for game %s", game.ID)
		}
	}

	send(Message{Type: MsgTypeUpdate, GameID: game.ID, Game: game})

	if game.HasViolation {
		violations := make(map[string][]pitchsmart.ViolationKind)
		for _, e := range game.Entries {
			if len(e.Violations) > 0 {
				violations[e.PlayerID] = e.Violations
			}
		}
		send(Message{Type: MsgTypeViolation, GameID: game.ID, Violations: violations})
	}
}

// wsClient is a middleman between the websocket connection and the hub.
type wsClient struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan Message

	userId string
	gameId string
	mon    *Monitor
}

// readPump pumps messages from the websocket connection to the hub.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		if c.mon != nil {
			c.mon.WSDisconnected()
		}
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		switch msg.Type {
		case MsgTypeJoin:
			c.handleJoin()
		case "PING":
			c.sendJSON(Message{Type: "PONG"})
		default:
			log.Printf("Unknown message type: %s", msg.Type)
			c.sendJSON(Message{Type: MsgTypeError, Error: "Unknown message type"})
		}
	}
}

// handleJoin re-checks authorization and replies with the current game
// state so a reconnecting client catches up in one round trip.
func (c *wsClient) handleJoin() {
	g, err := c.hub.gs.LoadGame(c.gameId)
	if err != nil {
		c.sendJSON(Message{Type: MsgTypeError, Error: "Game not found"})
		return
	}
	if GetGameAccess(c.userId, *g, c.hub.ts) < AccessRead {
		log.Printf("Forbidden: User %s attempted to join game %s without permissions", maskEmail(c.userId), c.gameId)
		c.sendJSON(Message{Type: MsgTypeError, Error: "Forbidden: You do not have access to this game"})
		return
	}
	c.sendJSON(Message{Type: MsgTypeAck, GameID: c.gameId, Game: g})
}

// writePump pumps messages from the hub to the websocket connection.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) sendJSON(msg Message) {
	select {
	case c.send <- msg:
	default:
		// Channel full, message dropped. The client resyncs on JOIN.
	}
}

// ServeWS handles websocket requests from the peer.
func ServeWS(gs *GameStore, ts *TeamStore, r *Registry, hm *HubManager, mon *Monitor, w http.ResponseWriter, req *http.Request, debugf func(string, ...any)) {
	userId := getUserID(req)

	gameId := req.URL.Query().Get("gameId")
	if gameId == "" || !isValidUUID(gameId) {
		http.Error(w, "Invalid gameId", http.StatusBadRequest)
		return
	}

	// Check access before upgrading.
	g, err := gs.LoadGame(gameId)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if GetGameAccess(userId, *g, ts) < AccessRead {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Println(err)
		return
	}
	debugf("[WS] user=%s joined game %s", maskEmail(userId), gameId)

	hub := hm.GetHub(gameId, gs, ts, r)
	client := &wsClient{hub: hub, conn: conn, send: make(chan Message, 256), userId: userId, gameId: gameId, mon: mon}
	client.hub.register <- client
	if mon != nil {
		mon.WSConnected()
	}

	go client.writePump()
	go client.readPump()
}
