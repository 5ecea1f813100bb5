// internal/web/websocket.go
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Preview is a local tool
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type WSClient struct {
	conn   *websocket.Conn
	send   chan WSMessage
	server *Server
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade websocket")
		return
	}

	client := &WSClient{
		conn:   conn,
		send:   make(chan WSMessage, 256),
		server: s,
	}

	s.wsMu.Lock()
	s.wsClients[client] = true
	s.wsMu.Unlock()
	if s.metrics != nil {
		s.metrics.RecordWebSocketConnection(1)
	}

	go client.writePump()
	go client.readPump()
}

// removeClient drops c and closes its send channel once.
func (s *Server) removeClient(c *WSClient) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	if _, ok := s.wsClients[c]; !ok {
		return
	}
	delete(s.wsClients, c)
	close(c.send)
	if s.metrics != nil {
		s.metrics.RecordWebSocketConnection(-1)
	}
}

func (c *WSClient) writePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.server.removeClient(c)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.server.removeClient(c)
				return
			}
		}
	}
}

func (c *WSClient) readPump() {
	defer c.server.removeClient(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) broadcast(message WSMessage) {
	s.wsMu.Lock()
	clients := make([]*WSClient, 0, len(s.wsClients))
	for client := range s.wsClients {
		clients = append(clients, client)
	}
	s.wsMu.Unlock()

	for _, client := range clients {
		s.sendTo(client, message)
	}
}

func (s *Server) sendTo(client *WSClient, message WSMessage) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	if _, ok := s.wsClients[client]; !ok {
		return
	}
	select {
	case client.send <- message:
	default:
		// Slow consumer
		delete(s.wsClients, client)
		close(client.send)
		if s.metrics != nil {
			s.metrics.RecordWebSocketConnection(-1)
		}
	}
}

func (s *Server) clientCount() int {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	return len(s.wsClients)
}

func (s *Server) closeWebSockets() {
	s.wsMu.Lock()
	clients := make([]*WSClient, 0, len(s.wsClients))
	for client := range s.wsClients {
		clients = append(clients, client)
	}
	s.wsMu.Unlock()

	for _, client := range clients {
		s.removeClient(client)
	}
}
