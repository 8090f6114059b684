// Package tui is the terminal client: a bubbletea program that renders the
// table from server messages and sends the human's actions back.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/cyberholdem/internal/game"
	"github.com/lox/cyberholdem/internal/server"
)

// Sender delivers the human's requests to the table
type Sender interface {
	StartHand() error
	Act(action game.Action, amount int) error
	ResetGame() error
}

const (
	focusLog = iota
	focusInput
)

// Model is the bubbletea model for one seat
type Model struct {
	sender   Sender
	playerID string
	messages <-chan *server.Message
	logger   *log.Logger

	logViewport viewport.Model
	input       textinput.Model
	focusedPane int

	gameLog     []string
	state       *server.GameStateData
	lastHandID  string
	lastStreet  game.Street
	resultShown string

	width       int
	height      int
	initialized bool
	quitting    bool
}

type serverMsg struct{ msg *server.Message }

type disconnectedMsg struct{}

// New creates a model that reads from messages and acts through sender
func New(sender Sender, playerID string, messages <-chan *server.Message, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "Enter to deal, or type an action"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 60
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)

	return &Model{
		sender:      sender,
		playerID:    playerID,
		messages:    messages,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		focusedPane: focusInput,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForMessage())
}

func (m *Model) waitForMessage() tea.Cmd {
	ch := m.messages
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return disconnectedMsg{}
		}
		return serverMsg{msg}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case serverMsg:
		m.handleServerMessage(msg.msg)
		cmds = append(cmds, m.waitForMessage())

	case disconnectedMsg:
		m.addLog(ErrorStyle.Render("Disconnected from server. Ctrl+C to quit."))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == focusLog {
				m.focusedPane = focusInput
				m.input.Focus()
			} else {
				m.focusedPane = focusLog
				m.input.Blur()
			}
		case "enter":
			if m.focusedPane == focusInput {
				line := m.input.Value()
				m.input.SetValue("")
				if cmd := m.submit(line); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == focusLog {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == focusLog {
				m.logViewport.ScrollDown(1)
			}
		case "home", "g":
			if m.focusedPane == focusLog {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == focusLog {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == focusInput {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit runs one line of input. It returns tea.Quit for the quit command.
func (m *Model) submit(line string) tea.Cmd {
	cmd, err := ParseCommand(line, m.state)
	if err != nil {
		m.addLog(ErrorStyle.Render(err.Error()))
		return nil
	}

	switch cmd.Kind {
	case CommandQuit:
		m.quitting = true
		return tea.Quit
	case CommandHelp:
		m.addLog(InfoStyle.Render(helpText))
	case CommandDeal:
		err = m.sender.StartHand()
	case CommandReset:
		err = m.sender.ResetGame()
	case CommandAction:
		err = m.sender.Act(cmd.Action, cmd.Amount)
	}
	if err != nil {
		m.logger.Error("Failed to send", "error", err)
		m.addLog(ErrorStyle.Render("Send failed: " + err.Error()))
	}
	return nil
}

func (m *Model) handleServerMessage(msg *server.Message) {
	m.logger.Debug("Server message", "type", msg.Type)

	switch msg.Type {
	case server.MessageTypeGameState:
		var state server.GameStateData
		if err := msg.Decode(&state); err != nil {
			m.logger.Error("Bad game_state", "error", err)
			return
		}
		m.applyState(&state)

	case server.MessageTypePlayerActed:
		var data server.PlayerActedData
		if err := msg.Decode(&data); err == nil {
			m.addLog(describeAction(data))
		}

	case server.MessageTypeBotThought:
		var data server.BotThoughtData
		if err := msg.Decode(&data); err == nil && data.Chat != "" {
			m.addLog(ChatStyle.Render(fmt.Sprintf("%s: %q", m.playerName(data.PlayerID), data.Chat)))
		}

	case server.MessageTypePlayerTimeout:
		var data server.PlayerTimeoutData
		if err := msg.Decode(&data); err == nil {
			m.addLog(WarningStyle.Render(fmt.Sprintf("%s ran out of time (%s)", m.playerName(data.PlayerID), data.Action)))
		}

	case server.MessageTypeGameOver:
		var data server.GameOverData
		if err := msg.Decode(&data); err == nil {
			m.addLog(ErrorStyle.Render(fmt.Sprintf("Game over: %s with %d chips. Type 'reset' to play again.",
				strings.ReplaceAll(data.Reason, "_", " "), data.FinalChips)))
		}

	case server.MessageTypeError:
		var data server.ErrorData
		if err := msg.Decode(&data); err == nil {
			m.addLog(ErrorStyle.Render("Error: " + data.Message))
		}
	}
}

// applyState logs what changed since the previous state and keeps the new one.
func (m *Model) applyState(state *server.GameStateData) {
	m.state = state

	if state.HandID != "" && state.HandID != m.lastHandID {
		m.lastHandID = state.HandID
		m.lastStreet = game.Preflop
		m.addLog("")
		m.addLog(HeaderStyle.Render(fmt.Sprintf("Hand #%d", state.HandNumber)))
		if me, ok := state.Player(m.playerID); ok {
			if cards := me.HoleCards(); cards != nil {
				m.addLog("Your cards: " + formatCards(cards))
			}
		}
	}

	if state.Street != m.lastStreet {
		switch state.Street {
		case game.Flop, game.Turn, game.River:
			m.addLog(InfoStyle.Render(fmt.Sprintf("*** %s ***", state.Street)) + " " + formatCards(state.CommunityCards))
		}
		m.lastStreet = state.Street
	}

	if state.Street == game.Finished && len(state.Winners) > 0 && m.resultShown != state.HandID {
		m.resultShown = state.HandID
		names := make([]string, len(state.Winners))
		for i, id := range state.Winners {
			names[i] = m.playerName(id)
		}
		m.addLog(SuccessStyle.Render(fmt.Sprintf("%s wins (%s)", strings.Join(names, " and "), state.WinningHand)))
		if state.WinningHand != game.FoldWinDescription {
			for _, p := range state.Players {
				if cards := p.HoleCards(); p.IsActive && cards != nil {
					m.addLog(fmt.Sprintf("  %s shows %s", p.Name, formatCards(cards)))
				}
			}
		}
		m.addLog(InfoStyle.Render("Press Enter to deal the next hand."))
	}
}

func describeAction(d server.PlayerActedData) string {
	switch d.Action {
	case game.Fold:
		return d.PlayerName + " folds"
	case game.Check:
		return d.PlayerName + " checks"
	case game.Call:
		return d.PlayerName + " calls"
	case game.Raise:
		return fmt.Sprintf("%s raises to %d", d.PlayerName, d.Amount)
	case game.AllIn:
		return d.PlayerName + " goes all-in"
	}
	return fmt.Sprintf("%s %s", d.PlayerName, d.Action)
}

func (m *Model) playerName(id string) string {
	if m.state != nil {
		if p, ok := m.state.Player(id); ok {
			return p.Name
		}
	}
	return id
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns the game log lines
func (m *Model) Log() []string {
	return m.gameLog
}
