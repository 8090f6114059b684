package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/cyberholdem/internal/game"
	"github.com/lox/cyberholdem/internal/server" // Reuse message types
)

const (
	writeWait    = 10 * time.Second
	pingPeriod   = 54 * time.Second
	bufferedMsgs = 256
)

// Client is a WebSocket connection to a table, seated as one player
type Client struct {
	serverURL string
	playerID  string
	conn      *websocket.Conn
	send      chan *server.Message
	receive   chan *server.Message
	logger    *log.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewClient creates a client for playerID. serverURL may be an http(s) or
// ws(s) URL; the path defaults to /ws.
func NewClient(serverURL, playerID string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		serverURL: serverURL,
		playerID:  playerID,
		send:      make(chan *server.Message, bufferedMsgs),
		receive:   make(chan *server.Message, bufferedMsgs),
		logger:    logger.WithPrefix("client").With("player", playerID),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// PlayerID returns the seat this client plays
func (c *Client) PlayerID() string {
	return c.playerID
}

// Connect dials the server and starts the pumps
func (c *Client) Connect(ctx context.Context) error {
	u, err := wsURL(c.serverURL, c.playerID)
	if err != nil {
		return err
	}
	c.logger.Info("Connecting to server", "url", u)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn

	go c.readPump()
	go c.writePump()
	return nil
}

func wsURL(serverURL, playerID string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	q := u.Query()
	q.Set("player", playerID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Messages delivers everything the server sends. It is closed when the
// connection ends.
func (c *Client) Messages() <-chan *server.Message {
	return c.receive
}

// Disconnect closes the connection
func (c *Client) Disconnect() {
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.logger.Info("Disconnected from server")
	})
}

// StartHand asks the table to deal the next hand
func (c *Client) StartHand() error {
	return c.sendMessage(server.MessageTypeStartHand, struct{}{})
}

// Act sends an action for this client's seat. amount is the street total
// for a raise and ignored otherwise.
func (c *Client) Act(action game.Action, amount int) error {
	return c.sendMessage(server.MessageTypePlayerAction, server.PlayerActionData{Action: action, Amount: amount})
}

// ResetGame restores every stack and deals a new hand
func (c *Client) ResetGame() error {
	return c.sendMessage(server.MessageTypeResetGame, struct{}{})
}

// RequestState asks for a fresh game_state message
func (c *Client) RequestState() error {
	return c.sendMessage(server.MessageTypeGetState, struct{}{})
}

func (c *Client) sendMessage(mt server.MessageType, data any) error {
	msg, err := server.NewMessage(mt, data, time.Now())
	if err != nil {
		return err
	}
	if err := c.ctx.Err(); err != nil {
		return err
	}
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		return fmt.Errorf("send buffer full")
	}
}

func (c *Client) readPump() {
	defer close(c.receive)
	defer c.Disconnect()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.logger.Debug("Received message", "type", msg.Type)

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				c.Disconnect()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Disconnect()
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
