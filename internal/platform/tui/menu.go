package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tricky-turns/internal/core"
	"github.com/vovakirdan/tricky-turns/internal/registry"
	"github.com/vovakirdan/tricky-turns/internal/storage"
)

// MenuItem is a selectable mode in the menu.
type MenuItem struct {
	Mode registry.ModeInfo
	Top  int // Leaderboard high score, 0 if none
}

// MenuModel is the Bubble Tea model for the mode picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	player         string
	config         core.RuntimeConfig
	keys           MenuKeyMap
	help           help.Model
	styles         menuStyles
	quitting       bool
	selected       *MenuItem // Set when the player picks a mode
	openScoreboard bool      // True if the player pressed Tab
}

type menuStyles struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	item     lipgloss.Style
	desc     lipgloss.Style
	subtitle lipgloss.Style
}

func newMenuStyles(r *lipgloss.Renderer) menuStyles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return menuStyles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		cursor:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		item:     r.NewStyle().Foreground(lipgloss.Color("7")),
		desc:     r.NewStyle().Foreground(lipgloss.Color("245")),
		subtitle: r.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}

// NewMenuModel creates a menu over every registered mode. High scores
// come from store when it is set.
func NewMenuModel(store *storage.Store, player string, cfg core.RuntimeConfig) MenuModel {
	modes := registry.List()
	items := make([]MenuItem, 0, len(modes))
	for _, mode := range modes {
		items = append(items, MenuItem{Mode: mode, Top: topScore(store, mode.ID)})
	}

	return MenuModel{
		items:  items,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		player: player,
		config: cfg,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
		styles: newMenuStyles(nil),
	}
}

func topScore(store *storage.Store, modeID int) int {
	if store == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	top, err := store.HighScore(ctx, modeID)
	if err != nil {
		return 0
	}
	return top
}

// WithRenderer returns a copy styled for r.
func (m MenuModel) WithRenderer(r *lipgloss.Renderer) MenuModel {
	m.styles = newMenuStyles(r)
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.Scores):
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.styles.title.Render("T R I C K Y   T U R N S"), m.width))
	b.WriteString("\n\n")
	if m.player != "" {
		b.WriteString(centerText(m.styles.subtitle.Render("Playing as "+m.player), m.width))
		b.WriteString("\n\n")
	}

	for i, item := range m.items {
		line := fmt.Sprintf("%-10s %-36s", item.Mode.Title, item.Mode.Description)
		if item.Top > 0 {
			line += fmt.Sprintf(" Top %d", item.Top)
		}
		if i == m.cursor {
			line = m.styles.cursor.Render("> " + line)
		} else {
			line = m.styles.item.Render("  " + line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Mode            registry.ModeInfo
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// Result summarizes how the menu ended.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting() || m.Selected() == nil:
		result.Quit = true
	default:
		result.Mode = m.Selected().Mode
	}
	return result
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, player string, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(store, player, cfg), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
