package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput wraps bubbles/textinput with an optional character filter.
type TextInput struct {
	Model textinput.Model

	// Accept, if set, rejects single-character key presses it returns
	// false for. Editing keys always pass through.
	Accept func(r rune) bool
}

// NewTextInput creates a new focused text input.
func NewTextInput(placeholder string, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{Model: ti}
}

// TemperatureChars accepts the characters of a temperature or a range
// such as "190-230".
func TemperatureChars(r rune) bool {
	return (r >= '0' && r <= '9') || r == '-' || r == '–' || r == ' '
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Accept != nil {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := []rune(kmsg.String())
			if len(key) == 1 && !t.Accept(key[0]) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}
