package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	sendBuffer = 64
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one WebSocket client. Requests are answered in the order
// they arrive.
type Connection struct {
	conn      *websocket.Conn
	server    *Server
	send      chan *Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection wraps conn. The connection ends when parent is cancelled.
func NewConnection(parent context.Context, conn *websocket.Conn, s *Server) *Connection {
	ctx, cancel := context.WithCancel(parent)

	return &Connection{
		conn:   conn,
		server: s,
		send:   make(chan *Message, sendBuffer),
		logger: s.logger.WithPrefix("conn").With("remote", conn.RemoteAddr().String()),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run pumps messages until the peer disconnects or the connection is closed.
func (c *Connection) Run() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writePump()
	}()
	c.readPump()
	<-done
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues msg for the client.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && c.ctx.Err() == nil {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := c.server.clock.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				_ = c.Close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)

	var (
		result any
		err    error
	)
	switch msg.Type {
	case MessageTypeClassify:
		var req ClassifyRequest
		if err = json.Unmarshal(msg.Data, &req); err == nil {
			result, err = c.server.classify(c.ctx, "ws", req)
		}
	case MessageTypeCompare:
		var req CompareRequest
		if err = json.Unmarshal(msg.Data, &req); err == nil {
			result, err = c.server.compare(req)
		}
	case MessageTypeOdds:
		var req OddsRequest
		if err = json.Unmarshal(msg.Data, &req); err == nil {
			result, err = c.server.odds(c.ctx, req)
		}
	default:
		c.sendError(msg.RequestID, ErrorResponse{Error: "unknown message type " + string(msg.Type), Code: CodeBadRequest})
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		c.sendError(msg.RequestID, ErrorResponse{Error: "invalid message data: " + err.Error(), Code: CodeBadRequest})
	case err != nil:
		_, body := errorResponse(err)
		c.sendError(msg.RequestID, body)
	default:
		c.sendReply(MessageTypeResult, msg.RequestID, result)
	}
}

func (c *Connection) sendError(requestID string, body ErrorResponse) {
	c.sendReply(MessageTypeError, requestID, body)
}

func (c *Connection) sendReply(t MessageType, requestID string, data any) {
	reply, err := NewMessage(t, requestID, c.server.clock.Now(), data)
	if err != nil {
		c.logger.Error("Failed to encode reply", "error", err)
		return
	}
	if err := c.SendMessage(reply); err != nil {
		c.logger.Debug("Dropped reply", "requestId", requestID, "error", err)
	}
}
