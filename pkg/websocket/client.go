package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1024
)

// Client is one websocket connection bound to an authenticated user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	UserID primitive.ObjectID
	rides  map[primitive.ObjectID]struct{}

	pongWait   time.Duration
	pingPeriod time.Duration
}

func newClient(hub *Hub, conn *websocket.Conn, userID primitive.ObjectID, pongWait, pingPeriod time.Duration) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, 64),
		UserID:     userID,
		rides:      make(map[primitive.ObjectID]struct{}),
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithField("user_id", c.UserID.Hex()).WithError(err).Debug("websocket read failed")
			}
			return
		}
		c.handleFrame(raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// handleFrame processes client-originated frames. Clients may subscribe to
// rides they are viewing and relay typing indicators to other subscribers;
// everything else is ignored.
func (c *Client) handleFrame(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.hub.logger.WithField("user_id", c.UserID.Hex()).Debug("discarding malformed websocket frame")
		return
	}

	rideID, err := primitive.ObjectIDFromHex(msg.RideID)
	if err != nil {
		return
	}

	switch msg.Type {
	case "subscribe_ride":
		c.hub.subscribeRide(c, rideID)
	case "unsubscribe_ride":
		c.hub.unsubscribeRide(c, rideID)
	case "typing":
		c.hub.SendToRide(rideID, c.UserID, Message{
			Type:      "typing",
			UserID:    c.UserID,
			RideID:    msg.RideID,
			Timestamp: time.Now().Unix(),
		})
	}
}
