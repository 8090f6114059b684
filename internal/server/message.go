package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lox/cyberholdem/internal/game"
)

// MessageType names a WebSocket message
type MessageType string

const (
	// Client to server messages
	MessageTypeStartHand    MessageType = "start_hand"
	MessageTypePlayerAction MessageType = "player_action"
	MessageTypeResetGame    MessageType = "reset_game"
	MessageTypeGetState     MessageType = "get_state"

	// Server to client messages
	MessageTypeGameState     MessageType = "game_state"
	MessageTypePlayerActed   MessageType = "player_acted"
	MessageTypeBotThought    MessageType = "bot_thought"
	MessageTypePlayerTimeout MessageType = "player_timeout"
	MessageTypeGameOver      MessageType = "game_over"
	MessageTypeError         MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Message is the envelope for every WebSocket frame
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message stamped with the given time
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Decode unmarshals the message payload into v
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

type PlayerActionData struct {
	Action game.Action `json:"action"`
	Amount int         `json:"amount,omitempty"`
}

// GameStateData is the table as seen by the receiving player, with the
// actions that player may take now.
type GameStateData struct {
	HandID string `json:"hand_id"`
	game.PublicState
	ValidActions []game.ValidAction `json:"valid_actions"`
}

type PlayerActedData struct {
	PlayerID   string      `json:"player_id"`
	PlayerName string      `json:"player_name"`
	Action     game.Action `json:"action"`
	Amount     int         `json:"amount"`
}

type BotThoughtData struct {
	PlayerID string `json:"player_id"`
	Thought  string `json:"thought"`
	Chat     string `json:"chat"`
}

type PlayerTimeoutData struct {
	PlayerID string      `json:"player_id"`
	Action   game.Action `json:"action"`
}

const (
	GameOverEliminated       = "eliminated"
	GameOverNotEnoughPlayers = "not_enough_players"
)

type GameOverData struct {
	Reason     string `json:"reason"`
	FinalChips int    `json:"final_chips"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errorCodes = []struct {
	err  error
	code string
}{
	{game.ErrNotYourTurn, "not_your_turn"},
	{game.ErrCannotCheck, "cannot_check"},
	{game.ErrRaiseCapReached, "raise_cap"},
	{game.ErrRaiseTooSmall, "raise_too_small"},
	{game.ErrNotEnoughChips, "not_enough_chips"},
	{game.ErrPlayerNotFound, "player_not_found"},
	{game.ErrNotEnoughPlayers, "not_enough_players"},
	{game.ErrInvalidAction, "invalid_action"},
	{game.ErrHandNotInProgress, "hand_not_in_progress"},
	{game.ErrHandInProgress, "hand_in_progress"},
	{ErrBotSeat, "bot_seat"},
}

// ErrorCode maps an error to the stable code sent to clients
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal_error"
}
