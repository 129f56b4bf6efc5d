// Package wizard asks the user a fixed list of questions in the terminal
// and collects the answers.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/filagen/internal/ui/components"
	"github.com/abhisek/filagen/internal/ui/layout"
	"github.com/abhisek/filagen/internal/ui/theme"
)

// ErrAborted is returned by Run when the user quits before answering
// every question.
var ErrAborted = errors.New("input aborted")

// Question is a single prompt. A question with Options is answered by
// picking one of them; otherwise it takes free text.
type Question struct {
	Key         string
	Prompt      string
	Placeholder string

	// Default is the answer for blank free text, and the initially
	// highlighted option for choice questions.
	Default string

	// Required questions are asked again until a non-blank answer is given.
	Required bool

	Options []string

	// Temperature limits typing to digits and range dashes.
	Temperature bool
}

// Answers maps Question.Key to the trimmed answer.
type Answers map[string]string

// Model is the Bubble Tea model driving the wizard.
type Model struct {
	title     string
	questions []Question
	answers   Answers
	current   int

	input components.TextInput
	menu  components.Menu

	warning string
	done    bool
	aborted bool
}

// New creates a wizard for questions.
func New(title string, questions []Question) Model {
	m := Model{
		title:     title,
		questions: questions,
		answers:   make(Answers, len(questions)),
		done:      len(questions) == 0,
	}
	m.prepare()
	return m
}

// prepare sets up the input for the current question.
func (m *Model) prepare() {
	if m.current >= len(m.questions) {
		return
	}
	q := m.questions[m.current]
	if len(q.Options) > 0 {
		m.menu = components.NewMenu(q.Options, q.Default)
		return
	}

	placeholder := q.Placeholder
	if placeholder == "" && q.Default != "" {
		placeholder = q.Default
	}
	m.input = components.NewTextInput(placeholder, 64)
	if q.Temperature {
		m.input.Accept = components.TemperatureChars
	}
}

func (m Model) Init() tea.Cmd {
	if m.done {
		return tea.Quit
	}
	return m.focus()
}

// focus returns the cursor command for a free-text question.
func (m Model) focus() tea.Cmd {
	if len(m.questions[m.current].Options) > 0 {
		return nil
	}
	return m.input.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done || m.aborted {
		return m, nil
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if len(m.questions[m.current].Options) > 0 {
		m.menu = m.menu.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	q := m.questions[m.current]

	var answer string
	if len(q.Options) > 0 {
		answer = m.menu.Value()
	} else {
		answer = strings.TrimSpace(m.input.Value())
		if answer == "" {
			answer = q.Default
		}
	}

	if answer == "" && q.Required {
		m.warning = fmt.Sprintf("%s is required", q.Prompt)
		return m, nil
	}

	m.warning = ""
	m.answers[q.Key] = answer
	m.current++
	if m.current >= len(m.questions) {
		m.done = true
		return m, tea.Quit
	}
	m.prepare()
	return m, m.focus()
}

func (m Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m Model) render() string {
	var b strings.Builder

	b.WriteString(layout.RenderHeader(m.title, min(m.current+1, len(m.questions)), len(m.questions)))
	b.WriteString("\n\n")

	for i := 0; i < m.current && i < len(m.questions); i++ {
		q := m.questions[i]
		b.WriteString(theme.Ok.Render("✓ "))
		b.WriteString(theme.Label.Render(q.Prompt + ": "))
		b.WriteString(theme.Body.Render(m.answers[q.Key]))
		b.WriteString("\n")
	}

	if m.done || m.aborted {
		return b.String()
	}

	q := m.questions[m.current]
	b.WriteString(theme.Label.Render("? " + q.Prompt))
	b.WriteString("\n")
	if len(q.Options) > 0 {
		b.WriteString(m.menu.View())
	} else {
		b.WriteString("  " + m.input.View() + "\n")
	}

	if m.warning != "" {
		b.WriteString(theme.Failed.Render("  " + m.warning))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hints := []layout.KeyHint{{Key: "Enter", Description: "Confirm"}}
	if len(q.Options) > 0 {
		hints = append([]layout.KeyHint{{Key: "↑↓", Description: "Choose"}}, hints...)
	}
	hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Cancel"})
	b.WriteString(layout.RenderFooter(hints))
	b.WriteString("\n")

	return b.String()
}

// Answers returns the answers collected so far.
func (m Model) Answers() Answers {
	return m.answers
}

// Done reports whether every question was answered.
func (m Model) Done() bool {
	return m.done
}

// Run asks questions interactively and returns the answers.
func Run(title string, questions []Question) (Answers, error) {
	p := tea.NewProgram(New(title, questions))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run wizard: %w", err)
	}

	m, ok := final.(Model)
	if !ok || !m.done {
		return nil, ErrAborted
	}
	return m.answers, nil
}
