package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/filagen/internal/ui/theme"
)

// Menu is a vertical single-choice list.
type Menu struct {
	Items    []string
	Selected int
}

// NewMenu creates a menu with the cursor on the item equal to initial, or
// on the first item.
func NewMenu(items []string, initial string) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if item == initial {
			m.Selected = i
			break
		}
	}
	return m
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) Menu {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	}
	return m
}

// Value returns the item under the cursor.
func (m Menu) Value() string {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return ""
	}
	return m.Items[m.Selected]
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("  ▸ " + item))
		} else {
			b.WriteString(theme.Unselected.Render("    " + item))
		}
		b.WriteString("\n")
	}
	return b.String()
}
