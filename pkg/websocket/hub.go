package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"campuspool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is the frame exchanged with connected clients. Server-pushed
// notifications carry the recipient in UserID; ride-scoped traffic such as
// typing indicators carries the ride in RideID.
type Message struct {
	Type      string                 `json:"type"`
	UserID    primitive.ObjectID     `json:"user_id"`
	RideID    string                 `json:"ride_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Hub tracks live connections per user and per ride subscription. A user may
// hold several connections at once (phone and laptop); delivery goes to all
// of them.
type Hub struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]map[*Client]struct{}
	rides map[primitive.ObjectID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	maxConnections int
	connections    int

	logger *logger.Logger
}

func NewHub(maxConnections int, log *logger.Logger) *Hub {
	return &Hub{
		users:          make(map[primitive.ObjectID]map[*Client]struct{}),
		rides:          make(map[primitive.ObjectID]map[*Client]struct{}),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		maxConnections: maxConnections,
		logger:         log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.maxConnections > 0 && h.connections >= h.maxConnections {
		h.logger.WithField("user_id", client.UserID.Hex()).Warn("connection limit reached, dropping client")
		close(client.send)
		return
	}

	if h.users[client.UserID] == nil {
		h.users[client.UserID] = make(map[*Client]struct{})
	}
	h.users[client.UserID][client] = struct{}{}
	h.connections++

	h.logger.WithField("user_id", client.UserID.Hex()).Debug("websocket client connected")

	h.deliver(client, Message{
		Type:      "connected",
		UserID:    client.UserID,
		Timestamp: time.Now().Unix(),
	})
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.users[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}

	delete(conns, client)
	if len(conns) == 0 {
		delete(h.users, client.UserID)
	}
	for rideID := range client.rides {
		h.dropRideSub(client, rideID)
	}
	close(client.send)
	h.connections--

	h.logger.WithField("user_id", client.UserID.Hex()).Debug("websocket client disconnected")
}

// SendToUser pushes a message to every live connection of a user. Users with
// no open connection are skipped; persistence is the caller's concern.
func (h *Hub) SendToUser(userID primitive.ObjectID, message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.users[userID] {
		h.deliver(client, message)
	}
}

// SendToRide pushes a message to every subscriber of a ride except the
// sender's own connections.
func (h *Hub) SendToRide(rideID primitive.ObjectID, from primitive.ObjectID, message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rides[rideID] {
		if client.UserID == from {
			continue
		}
		h.deliver(client, message)
	}
}

func (h *Hub) subscribeRide(client *Client, rideID primitive.ObjectID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rides[rideID] == nil {
		h.rides[rideID] = make(map[*Client]struct{})
	}
	h.rides[rideID][client] = struct{}{}
	client.rides[rideID] = struct{}{}
}

func (h *Hub) unsubscribeRide(client *Client, rideID primitive.ObjectID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropRideSub(client, rideID)
	delete(client.rides, rideID)
}

// dropRideSub requires h.mu held.
func (h *Hub) dropRideSub(client *Client, rideID primitive.ObjectID) {
	subs, ok := h.rides[rideID]
	if !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.rides, rideID)
	}
}

// deliver requires h.mu held. A client with a full send buffer keeps the
// connection; the message is dropped and the pumps decide its fate.
func (h *Hub) deliver(client *Client, message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.WithError(err).Error("failed to encode websocket message")
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.WithField("user_id", client.UserID.Hex()).Warn("send buffer full, dropping message")
	}
}
