package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches the connection to jobID. initial, when not nil, is sent
// first so late subscribers see the current state.
func ServeWs(hub *Hub, c *websocket.Conn, jobID uuid.UUID, initial []byte) {
	client := &Client{Hub: hub, Conn: c, JobID: jobID, Send: make(chan []byte, 32)}
	if initial != nil {
		client.Send <- initial
	}
	client.Hub.Register(client)

	go client.writePump()
	client.readPump()
}
