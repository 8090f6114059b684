package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/cyberholdem/internal/deck"
	"github.com/lox/cyberholdem/internal/game"
)

const sidebarMinWidth = 30

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := paneStyle.
		BorderForeground(m.borderColor(focusInput)).
		Width(max(1, m.width-2)).
		Height(max(1, actionHeight)).
		Render(actionContent)

	sidebarContent := m.renderSidebar()
	sidebarWidth := max(sidebarMinWidth, lipgloss.Width(sidebarContent))
	paneHeight := max(1, m.height-actionHeight-4)
	sidebarPane := paneStyle.
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.Width = max(1, m.width-sidebarWidth-4)
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := paneStyle.
		BorderForeground(m.borderColor(focusLog)).
		Width(m.logViewport.Width).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, actionPane)
}

func (m *Model) borderColor(pane int) lipgloss.Color {
	if m.focusedPane == pane {
		return accent
	}
	return muted
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	if m.state == nil {
		b.WriteString(InfoStyle.Render("No hand dealt yet"))
		return b.String()
	}
	s := m.state

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Hand #%d  %s", s.HandNumber, s.Street)))
	b.WriteString("\n\n")
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: %d", s.Pot)))
	if s.CurrentBet > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("  Bet: %d", s.CurrentBet)))
	}
	b.WriteString(fmt.Sprintf("\nBlinds: %d/%d\n\n", s.SmallBlind, s.BigBlind))

	for _, p := range s.Players {
		b.WriteString(renderSeat(p))
		b.WriteString("\n")
	}
	return b.String()
}

func renderSeat(p game.PublicPlayer) string {
	marker := "  "
	if p.IsTurn {
		marker = SuccessStyle.Render("> ")
	}
	name := p.Name
	if p.IsDealer {
		name += " (D)"
	}

	line := fmt.Sprintf("%s%-14s %6d", marker, name, p.Chips)
	switch {
	case p.IsAllIn:
		line += WarningStyle.Render(" all-in")
	case !p.IsActive:
		line += InfoStyle.Render(" out")
	case p.CurrentBet > 0:
		line += fmt.Sprintf(" bet %d", p.CurrentBet)
	}
	if len(p.Hand) > 0 {
		line += " " + formatHand(p.Hand)
	}
	return line
}

func (m *Model) renderActionPane() string {
	var b strings.Builder
	s := m.state

	if s != nil && s.HandNumber > 0 {
		board := "-"
		if len(s.CommunityCards) > 0 {
			board = formatCards(s.CommunityCards)
		}
		hand := ""
		if me, ok := s.Player(m.playerID); ok {
			hand = formatHand(me.Hand)
		}
		b.WriteString(HandInfoStyle.Render("Hand: ") + hand + HandInfoStyle.Render("  Board: ") + board)
		b.WriteString("\n")
	}

	myTurn := s != nil && len(s.ValidActions) > 0
	if myTurn {
		b.WriteString(renderValidActions(s.ValidActions))
		m.input.Placeholder = "fold, check, call, raise <total>, allin"
	} else {
		b.WriteString(HandInfoStyle.Render("Waiting..."))
		m.input.Placeholder = "Enter to deal, 'reset' to restart, 'quit' to exit"
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	help := "Tab to scroll log | Ctrl+C to quit"
	if m.focusedPane == focusLog {
		help = "Log focused: up/down scroll, Home/End, Tab to input"
	}
	b.WriteString(InfoStyle.Render(help))
	return b.String()
}

func renderValidActions(valid []game.ValidAction) string {
	var actions []string
	for _, va := range valid {
		switch va.Action {
		case game.Fold:
			actions = append(actions, ErrorStyle.Render("[fold]"))
		case game.Check:
			actions = append(actions, SuccessStyle.Render("[check]"))
		case game.Call:
			actions = append(actions, SuccessStyle.Render(fmt.Sprintf("[call to %d]", va.MinAmount)))
		case game.Raise:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[raise %d-%d]", va.MinAmount, va.MaxAmount)))
		case game.AllIn:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[allin %d]", va.MinAmount)))
		}
	}
	return ActionsStyle.Render("Actions: ") + strings.Join(actions, " ")
}

func formatCards(cards []deck.Card) string {
	formatted := make([]string, len(cards))
	for i, c := range cards {
		formatted[i] = cardStyle(c).Render(c.Pretty())
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// formatHand renders hole cards, showing hidden cards as backs.
func formatHand(hand []*deck.Card) string {
	formatted := make([]string, len(hand))
	for i, c := range hand {
		if c == nil {
			formatted[i] = HiddenCardStyle.Render("##")
			continue
		}
		formatted[i] = cardStyle(*c).Render(c.Pretty())
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func cardStyle(c deck.Card) lipgloss.Style {
	if c.IsRed() {
		return RedCardStyle
	}
	return BlackCardStyle
}
