package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/patchlayout/pkg/core/layout/repulse"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
	"github.com/matzehuels/patchlayout/pkg/graph"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// MoveListModel - Interactive review of resolver moves
// =============================================================================

// MoveListModel is the bubbletea model for reviewing the moves of a resolve
// run before they are written out.
type MoveListModel struct {
	Moves    []graph.Move
	Before   map[patch.BoxKey]graph.Box
	Cursor   int
	Height   int
	Offset   int
	Accepted bool
}

// NewMoveListModel creates a move list over the scene boxes.
func NewMoveListModel(moves []graph.Move, boxes []graph.Box) MoveListModel {
	before := make(map[patch.BoxKey]graph.Box, len(boxes))
	for _, b := range boxes {
		before[b.Key()] = b
	}
	return MoveListModel{
		Moves:  moves,
		Before: before,
		Height: 15,
	}
}

func (m MoveListModel) Init() tea.Cmd {
	return nil
}

func (m MoveListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Accepted = false
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Moves)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "a":
			m.Accepted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m MoveListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Review %d move(s)", len(m.Moves))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ accept  q discard"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Moves))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		mv := m.Moves[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		from := "—"
		if b, ok := m.Before[mv.Key()]; ok {
			from = fmt.Sprintf("%g, %g", b.X, b.Y)
		}
		rows = append(rows, []string{
			cursor,
			mv.Key().String(),
			from,
			fmt.Sprintf("%g, %g", mv.X, mv.Y),
			formatPath(mv.Path),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Box", "From", "To", "Path").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.Moves) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Moves))))
	} else {
		b.WriteString(listDimStyle.Render("  nothing to move"))
	}

	return b.String()
}

// formatPath renders a push path as arrows, e.g. "→ ↓".
func formatPath(path []repulse.Direction) string {
	if len(path) == 0 {
		return "—"
	}
	parts := make([]string, 0, len(path))
	for _, d := range path {
		switch d {
		case repulse.DirectionLeft:
			parts = append(parts, "←")
		case repulse.DirectionRight:
			parts = append(parts, "→")
		case repulse.DirectionUp:
			parts = append(parts, "↑")
		case repulse.DirectionDown:
			parts = append(parts, "↓")
		default:
			parts = append(parts, "·")
		}
	}
	return strings.Join(parts, " ")
}
