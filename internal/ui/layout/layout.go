package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/filagen/internal/ui/theme"
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// RenderHeader renders the title line with a step counter.
func RenderHeader(title string, step, total int) string {
	left := theme.Title.Render(title)
	if total <= 0 {
		return left
	}
	right := theme.Hint.Render(fmt.Sprintf("step %d of %d", step, total))
	return left + "  " + right
}

// RenderFooter renders the key hints on one line.
func RenderFooter(hints []KeyHint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}
	return strings.Join(parts, "   ")
}
