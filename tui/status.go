package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/lockedstudy/cli"
	"github.com/nathoo/lockedstudy/types"
)

// status is a snapshot of the session for the status bar, taken after each
// command so View never reads the engine while a command is running.
type status struct {
	room      string
	inventory []types.InventoryItem
	moves     int
	hintsUsed int
	won       bool
}

func snapshot(g *cli.Game) status {
	sum := g.Engine.Summary()
	return status{
		room:      sum.Room,
		inventory: sum.Items,
		moves:     sum.Moves,
		hintsUsed: sum.HintsUsed,
		won:       sum.Won,
	}
}

// renderStatusBar produces a full-width inverted status line showing the
// room, inventory, hint state and move count.
func (m Model) renderStatusBar() string {
	s := m.status

	left := " " + s.room
	if s.won {
		left += " (escaped)"
	}

	hint := "Hint: ready"
	if s.hintsUsed > 0 {
		hint = "Hint: used"
	}
	right := fmt.Sprintf("%s | Moves:%d ", hint, s.moves)
	if m.busy {
		right = "… " + right
	}

	// Show inventory names if they fit, otherwise only icons.
	if len(s.inventory) > 0 {
		var names, icons []string
		for _, item := range s.inventory {
			names = append(names, item.Icon+" "+item.Name)
			icons = append(icons, item.Icon)
		}
		candidate := strings.Join(names, ", ") + " | " + right
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = strings.Join(icons, "") + " | " + right
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
