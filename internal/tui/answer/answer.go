// ABOUTME: Quiz-taking screen for a generated QCM
// ABOUTME: One question at a time; submission is refused until every question is answered

package answer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/quiz"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/styles"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/widgets"
)

// SubmittedMsg carries the graded attempt
type SubmittedMsg struct {
	Result quiz.Result
}

// CancelledMsg is sent when the user abandons the quiz
type CancelledMsg struct{}

// keys that never select a choice by id
var reserved = map[string]bool{"h": true, "j": true, "k": true, "l": true, "s": true, "q": true}

// Answer drives one quiz.Session
type Answer struct {
	session *quiz.Session
	cursor  int // choice under the cursor
	err     string
	width   int
}

// New creates the screen for session
func New(session *quiz.Session) *Answer {
	return &Answer{session: session}
}

// Session returns the underlying attempt
func (a *Answer) Session() *quiz.Session {
	return a.session
}

// Init implements tea.Model
func (a *Answer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *Answer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *Answer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.err = ""
	choices := a.session.Current().Choices

	switch key := msg.String(); key {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(choices)-1 {
			a.cursor++
		}
	case "left", "h", "shift+tab":
		if a.session.Prev() {
			a.syncCursor()
		}
	case "right", "l", "tab":
		if a.session.Next() {
			a.syncCursor()
		}
	case "enter", " ":
		if len(choices) > 0 {
			a.choose(choices[a.cursor].ID)
		}
	case "s", "ctrl+s":
		return a.submit()
	case "esc":
		return a, func() tea.Msg { return CancelledMsg{} }
	default:
		if i, ok := a.choiceForKey(key); ok {
			a.choose(choices[i].ID)
		}
	}
	return a, nil
}

// choiceForKey maps a digit to a position or a letter to a choice id
func (a *Answer) choiceForKey(key string) (int, bool) {
	choices := a.session.Current().Choices
	if len(key) != 1 {
		return 0, false
	}
	if key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		return i, i < len(choices)
	}
	if reserved[key] {
		return 0, false
	}
	for i, c := range choices {
		if strings.EqualFold(c.ID, key) {
			return i, true
		}
	}
	return 0, false
}

// choose records the answer then moves on to the next question
func (a *Answer) choose(id string) {
	if err := a.session.Answer(id); err != nil {
		a.err = err.Error()
		return
	}
	if a.session.Next() {
		a.syncCursor()
	}
}

func (a *Answer) submit() (tea.Model, tea.Cmd) {
	res, err := a.session.Submit()
	if err != nil {
		missing := a.session.Len() - a.session.AnsweredCount()
		a.err = fmt.Sprintf("%s (%d sans réponse)", err.Error(), missing)
		a.gotoFirstUnanswered()
		return a, nil
	}
	return a, func() tea.Msg { return SubmittedMsg{Result: res} }
}

func (a *Answer) gotoFirstUnanswered() {
	for i := 0; i < a.session.Len(); i++ {
		if _, ok := a.session.Answered(i); !ok {
			a.session.Goto(i)
			a.syncCursor()
			return
		}
	}
}

// syncCursor puts the cursor on the recorded answer, or the first choice
func (a *Answer) syncCursor() {
	a.cursor = 0
	chosen, ok := a.session.Answered(a.session.Index())
	if !ok {
		return
	}
	for i, c := range a.session.Current().Choices {
		if c.ID == chosen {
			a.cursor = i
			return
		}
	}
}

// Error returns the message currently displayed
func (a *Answer) Error() string {
	return a.err
}

// View implements tea.Model
func (a *Answer) View() string {
	s := a.session
	q := s.Current()
	var b strings.Builder

	if s.Title() != "" {
		b.WriteString(styles.Title.Render(s.Title()))
		b.WriteString("\n")
	}

	answered := make([]bool, s.Len())
	for i := range answered {
		_, answered[i] = s.Answered(i)
	}
	b.WriteString(fmt.Sprintf("%s  %s\n\n",
		styles.Subtitle.Render(fmt.Sprintf("Question %d/%d", s.Index()+1, s.Len())),
		widgets.AnswerDots(answered, s.Index())))

	textWidth := max(a.width-4, 40)
	b.WriteString(lipgloss.NewStyle().Width(textWidth).Bold(true).Render(q.Text))
	b.WriteString("\n\n")

	chosen, _ := s.Answered(s.Index())
	for i, c := range q.Choices {
		cursor := "  "
		style := styles.Normal
		if i == a.cursor {
			cursor = "> "
			style = styles.Selected
		}
		mark := "( )"
		if c.ID == chosen {
			mark = "(•)"
		}
		b.WriteString(cursor + style.Render(fmt.Sprintf("%s %s. %s", mark, c.ID, c.Text)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%d/%d réponses", s.AnsweredCount(), s.Len())))

	if a.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.AlertError.Render(a.err))
	}
	return b.String()
}
