package wizard

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		next, _ := m.Update(keyPress(r))
		m = next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, code rune) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(specialKey(code))
	return next.(Model), cmd
}

func TestWizard_CollectsAnswers(t *testing.T) {
	m := New("New profile", []Question{
		{Key: "name", Prompt: "Profile name", Required: true},
		{Key: "nozzle", Prompt: "Nozzle temperature", Temperature: true},
	})

	m = typeText(t, m, "Fast PLA")
	m, _ = press(t, m, tea.KeyEnter)
	assert.False(t, m.Done())

	m = typeText(t, m, "190-230")
	m, _ = press(t, m, tea.KeyEnter)

	require.True(t, m.Done())
	assert.Equal(t, Answers{"name": "Fast PLA", "nozzle": "190-230"}, m.Answers())
}

func TestWizard_RequiredIsAskedAgain(t *testing.T) {
	m := New("t", []Question{{Key: "name", Prompt: "Profile name", Required: true}})

	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.False(t, m.Done())
	assert.Contains(t, m.render(), "Profile name is required")

	m = typeText(t, m, "   ")
	m, _ = press(t, m, tea.KeyEnter)
	assert.False(t, m.Done())

	m = typeText(t, m, "x")
	m, _ = press(t, m, tea.KeyEnter)
	assert.True(t, m.Done())
	assert.Equal(t, "x", m.Answers()["name"])
}

func TestWizard_DefaultForBlank(t *testing.T) {
	m := New("t", []Question{{Key: "material", Prompt: "Material", Default: "Custom"}})

	m, _ = press(t, m, tea.KeyEnter)
	require.True(t, m.Done())
	assert.Equal(t, "Custom", m.Answers()["material"])
}

func TestWizard_OptionalBlankIsEmpty(t *testing.T) {
	m := New("t", []Question{{Key: "bed", Prompt: "Bed temperature", Temperature: true}})

	m, _ = press(t, m, tea.KeyEnter)
	require.True(t, m.Done())
	assert.Equal(t, "", m.Answers()["bed"])
}

func TestWizard_TemperatureFilter(t *testing.T) {
	m := New("t", []Question{{Key: "temp", Prompt: "Temperature", Temperature: true}})

	m = typeText(t, m, "2a0b5c")
	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, "205", m.Answers()["temp"])
}

func TestWizard_Choice(t *testing.T) {
	m := New("t", []Question{{
		Key:     "cooling",
		Prompt:  "Cooling",
		Options: []string{"low", "medium", "high"},
		Default: "medium",
	}})

	m, _ = press(t, m, tea.KeyDown)
	m, _ = press(t, m, tea.KeyEnter)
	require.True(t, m.Done())
	assert.Equal(t, "high", m.Answers()["cooling"])
}

func TestWizard_ChoiceStaysInRange(t *testing.T) {
	m := New("t", []Question{{Key: "material", Prompt: "Material", Options: []string{"petg", "pla"}}})

	m, _ = press(t, m, tea.KeyUp)
	m, _ = press(t, m, tea.KeyUp)
	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, "petg", m.Answers()["material"])
}

func TestWizard_Abort(t *testing.T) {
	m := New("t", []Question{{Key: "name", Prompt: "Profile name", Required: true}})

	m, cmd := press(t, m, tea.KeyEscape)
	assert.NotNil(t, cmd)
	assert.False(t, m.Done())
	assert.True(t, m.aborted)

	// Further input is ignored.
	m = typeText(t, m, "late")
	assert.Empty(t, m.Answers())
}

func TestWizard_NoQuestions(t *testing.T) {
	m := New("t", nil)
	assert.True(t, m.Done())
	assert.NotNil(t, m.Init())
}

func TestWizard_ViewShowsProgress(t *testing.T) {
	m := New("New profile", []Question{
		{Key: "name", Prompt: "Profile name"},
		{Key: "cooling", Prompt: "Cooling", Options: []string{"low", "medium", "high"}, Default: "low"},
	})
	m = typeText(t, m, "Mine")
	m, _ = press(t, m, tea.KeyEnter)

	content := m.render()
	assert.Contains(t, content, "step 2 of 2")
	assert.Contains(t, content, "Mine")
	assert.Contains(t, content, "Cooling")
	assert.Contains(t, content, "▸ low")
}
