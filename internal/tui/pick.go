// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/meeple/internal/games"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// PickAction represents the user's action in the pick browser.
type PickAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone PickAction = iota
	// ActionAccepted indicates the user accepted a game.
	ActionAccepted
	// ActionQuit indicates the user left without accepting anything.
	ActionQuit
)

// PickResult holds the outcome of an interactive pick session.
type PickResult struct {
	Action PickAction
	Game   *games.Game
}

type gameItem struct {
	games.Game
}

func (i gameItem) Title() string {
	if i.YearPublished > 0 {
		return fmt.Sprintf("%s (%d)", i.Name, i.YearPublished)
	}
	return i.Name
}

func (i gameItem) FilterValue() string {
	return i.Name
}

func (i gameItem) Description() string {
	return i.Game.Description
}

type itemStyles struct {
	normal        lipgloss.Style
	selected      lipgloss.Style
	titleStyle    lipgloss.Style
	ratingStyle   lipgloss.Style
	metadataStyle lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		ratingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		metadataStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
	}
}

type gameDelegate struct {
	styles itemStyles
}

func newDelegate() gameDelegate {
	return gameDelegate{styles: newItemStyles()}
}

func (d gameDelegate) Height() int                         { return 4 }
func (d gameDelegate) Spacing() int                        { return 1 }
func (d gameDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d gameDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	game, ok := item.(gameItem)
	if !ok {
		return
	}

	titleLine := d.styles.titleStyle.Render(game.Title())
	ratingLine := d.styles.ratingStyle.Render(formatRating(game.Game))
	metadataLine := d.styles.metadataStyle.Render(formatMetadata(game.Game, m.Width()-4))

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, ratingLine, metadataLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type pickModel struct {
	list    list.Model
	reroll  func() (games.Game, error)
	result  PickResult
	lastErr error
}

func newPickModel(candidates []games.Game, reroll func() (games.Game, error)) *pickModel {
	listItems := make([]list.Item, len(candidates))
	for i, game := range candidates {
		listItems[i] = gameItem{Game: game}
	}

	delegate := newDelegate()
	l := list.New(listItems, delegate, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	m := &pickModel{
		list:   l,
		reroll: reroll,
		result: PickResult{Action: ActionNone},
	}
	m.moveToSuggestion()
	return m
}

// moveToSuggestion draws a new weighted pick and moves the cursor to it.
func (m *pickModel) moveToSuggestion() {
	if m.reroll == nil {
		return
	}
	suggestion, err := m.reroll()
	if err != nil {
		m.lastErr = err
		return
	}
	for i, item := range m.list.Items() {
		game, ok := item.(gameItem)
		if !ok {
			continue
		}
		if game.ObjectID == suggestion.ObjectID && game.CollID == suggestion.CollID {
			m.list.Select(i)
			return
		}
	}
}

func (m *pickModel) Init() tea.Cmd { return nil }

func (m *pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(gameItem); ok {
				game := selected.Game
				m.result = PickResult{
					Action: ActionAccepted,
					Game:   &game,
				}
				return m, tea.Quit
			}
		case "r":
			m.moveToSuggestion()
		case "ctrl+c", "q", "esc":
			m.result = PickResult{Action: ActionQuit}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickModel) View() string {
	header := headerStyle.Render("What should we play tonight?")
	listView := m.list.View()
	help := helpStyle.Render("Up/Down browse | r reroll suggestion | Enter accept | q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, listView, help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// PickBrowser presents the candidate games as a browsable list with the
// weighted suggestion pre-selected. The reroll callback draws a fresh
// suggestion on demand; it must return one of the candidates.
func PickBrowser(candidates []games.Game, reroll func() (games.Game, error)) (PickResult, error) {
	if len(candidates) == 0 {
		return PickResult{Action: ActionQuit}, nil
	}

	m := newPickModel(candidates, reroll)
	finalModel, err := runProgram(m)
	if err != nil {
		return PickResult{}, err
	}

	if typed, ok := finalModel.(*pickModel); ok {
		return typed.result, nil
	}

	return PickResult{}, fmt.Errorf("unexpected program result")
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

func formatRating(game games.Game) string {
	parts := []string{}
	if game.Average > 0 {
		parts = append(parts, fmt.Sprintf("%.1f/10", game.Average))
	}
	if game.UserRating > 0 {
		parts = append(parts, fmt.Sprintf("mine %.0f", game.UserRating))
	}
	if game.Rank.Ranked {
		parts = append(parts, game.Rank.String())
	}
	if len(parts) == 0 {
		return "unrated"
	}
	return strings.Join(parts, " | ")
}

// formatMetadata creates the metadata line with player count, playtime,
// weight and play history.
func formatMetadata(game games.Game, availableWidth int) string {
	var parts []string

	if game.MinPlayers > 0 {
		if game.MaxPlayers > game.MinPlayers {
			parts = append(parts, fmt.Sprintf("%d-%dp", game.MinPlayers, game.MaxPlayers))
		} else {
			parts = append(parts, fmt.Sprintf("%dp", game.MinPlayers))
		}
	}

	if game.MaxPlaytime > 0 {
		parts = append(parts, fmt.Sprintf("%dm", game.MaxPlaytime))
	}

	if game.Weight > 0 {
		parts = append(parts, fmt.Sprintf("weight %.2f", game.Weight))
	}

	if game.NumPlays > 0 {
		parts = append(parts, fmt.Sprintf("%d plays", game.NumPlays))
	} else {
		parts = append(parts, "unplayed")
	}

	metadata := strings.Join(parts, " | ")
	if availableWidth > 0 && len(metadata) > availableWidth {
		metadata = truncate(metadata, availableWidth)
	}

	return metadata
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
