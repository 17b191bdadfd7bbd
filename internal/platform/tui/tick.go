// Package tui provides the Bubble Tea integration for Tricky Turns.
// It handles the terminal UI loop, input mapping, and mode selection.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tricky-turns/internal/core"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// standingMsg carries a leaderboard load for the results screen.
type standingMsg struct {
	gen      int
	standing core.Standing
}
