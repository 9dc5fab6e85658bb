package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/vango-cn/pkg/cn"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 64
)

// Frame is a client request on /v1/ws.
type Frame struct {
	ID      string `json:"id"`
	Op      string `json:"op"`
	Classes []any  `json:"classes"`
}

// Reply answers one Frame. Exactly one of Result and Error is set.
type Reply struct {
	ID     string  `json:"id"`
	Result *string `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// session is one WebSocket connection. Replies are written in request order.
type session struct {
	id     uuid.UUID
	server *Server
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{} // closed when writePump exits
	logger *slog.Logger
}

// WebSocket handles GET /v1/ws.
func (s *Server) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.New()
	sess := &session{
		id:     id,
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		logger: s.logger.With("session", id.String()),
	}
	if !s.register(sess) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	defer s.unregister(sess)
	sess.logger.Debug("websocket session opened")

	go sess.writePump()
	sess.readPump()
}

func (s *Server) register(c *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.sessions[c] = struct{}{}
	return true
}

func (s *Server) unregister(c *session) {
	s.mu.Lock()
	delete(s.sessions, c)
	s.mu.Unlock()
}

// CloseSessions sends a going-away close frame to every open WebSocket
// session, closes its connection and refuses new sessions. Hijacked
// connections are not closed by http.Server.Shutdown, so register it with
// RegisterOnShutdown.
func (s *Server) CloseSessions() {
	s.mu.Lock()
	s.closing = true
	sessions := make([]*session, 0, len(s.sessions))
	for c := range s.sessions {
		sessions = append(sessions, c)
	}
	s.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, c := range sessions {
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.conn.Close()
	}
	s.logger.Info("websocket sessions closed", "count", len(sessions))
}

// Sessions returns the number of open WebSocket sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// readPump answers frames until the connection fails or closes.
func (c *session) readPump() {
	defer func() {
		close(c.send)
		c.logger.Debug("websocket session closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		out, err := json.Marshal(c.handle(message))
		if err != nil {
			c.logger.Error("encode reply", "error", err)
			return
		}
		select {
		case c.send <- out:
		case <-c.done:
			return
		}
	}
}

func (c *session) handle(message []byte) Reply {
	var f Frame
	if err := json.Unmarshal(message, &f); err != nil {
		return Reply{Error: fmt.Sprintf("invalid frame: %v", err)}
	}

	var result string
	switch f.Op {
	case "merge":
		result = c.server.merger.Merge(f.Classes...)
	case "join":
		result = cn.Join(f.Classes...)
	default:
		return Reply{ID: f.ID, Error: fmt.Sprintf("unknown op %q", f.Op)}
	}
	c.server.metrics.Merges.WithLabelValues(f.Op, "websocket").Inc()
	return Reply{ID: f.ID, Result: &result}
}

// writePump writes replies and keeps the connection alive with pings.
func (c *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
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
