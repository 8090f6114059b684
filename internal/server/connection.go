package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
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

	sendBufferSize = 256
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection is one WebSocket client watching the table as playerID
type Connection struct {
	conn     *websocket.Conn
	send     chan *Message
	playerID string
	table    *Table
	logger   *log.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection wraps conn for playerID
func NewConnection(conn *websocket.Conn, playerID string, table *Table, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:     conn,
		send:     make(chan *Message, sendBufferSize),
		playerID: playerID,
		table:    table,
		logger:   logger.WithPrefix("conn").With("player", playerID),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to the table and runs the read and write pumps. It
// returns immediately; Done is closed when the connection ends.
func (c *Connection) Start() {
	unsubscribe := c.table.Subscribe(c.playerID, func(msg *Message) { _ = c.SendMessage(msg) })
	go c.writePump()
	go func() {
		defer unsubscribe()
		c.readPump()
	}()
}

// Done is closed once the connection has been closed
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
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

// SendMessage queues msg without blocking. A client that cannot keep up is
// disconnected.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	var err error
	switch msg.Type {
	case MessageTypeStartHand:
		err = c.table.StartHand()

	case MessageTypePlayerAction:
		var data PlayerActionData
		if err := msg.Decode(&data); err != nil {
			c.sendError("invalid_message", "Failed to parse player action: "+err.Error())
			return
		}
		err = c.table.Act(c.playerID, data.Action, data.Amount)

	case MessageTypeResetGame:
		err = c.table.Reset()

	case MessageTypeGetState:
		c.sendMessage(MessageTypeGameState, c.table.State(c.playerID))

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
		return
	}

	if err != nil {
		c.logger.Debug("Request failed", "type", msg.Type, "error", err)
		c.sendError(ErrorCode(err), err.Error())
	}
}

func (c *Connection) sendMessage(messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data, time.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) sendError(code, message string) {
	c.sendMessage(MessageTypeError, ErrorData{Code: code, Message: message})
}
