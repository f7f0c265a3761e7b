package hub

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait     = 10 * time.Second
	maxFrameBytes = 64 * 1024
	sendQueueSize = 16
)

// client is one live WebSocket connection. sessionID and phone are empty
// until a successful register frame; both are only written under the hub
// lock and only read from the connection's own read loop afterwards.
type client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	phone     string
	closed    bool // guarded by the hub lock; true once send is closed
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan []byte, sendQueueSize)}
}

// writeLoop drains the send queue onto the socket. Exits when the hub closes
// the queue or a write fails; either way the connection is closed, which in
// turn ends the read loop.
func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
