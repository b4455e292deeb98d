// ABOUTME: The account's active sessions with revoke actions
// ABOUTME: Actions that end the current session ask for confirmation first

package sessionlist

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/sessions"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/styles"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/widgets"
)

// RevokeMsg asks for one session to be revoked
type RevokeMsg struct {
	ID client.ID
}

// RevokeAllMsg asks for every session to be revoked
type RevokeAllMsg struct {
	KeepCurrent bool
}

// RefreshMsg asks for the list to be reloaded
type RefreshMsg struct{}

// CancelledMsg is sent when the user leaves the list
type CancelledMsg struct{}

type pending int

const (
	pendingNone pending = iota
	pendingRevokeCurrent
	pendingRevokeEverything
)

// List shows the sessions of the signed-in account
type List struct {
	sessions []client.Session
	cursor   int
	confirm  pending
	now      func() time.Time
}

// New creates an empty list
func New() *List {
	return &List{now: time.Now}
}

// SetSessions replaces the rows
func (l *List) SetSessions(list []client.Session) {
	l.sessions = list
	l.cursor = max(0, min(l.cursor, len(list)-1))
}

// Init implements tea.Model
func (l *List) Init() tea.Cmd {
	return func() tea.Msg { return RefreshMsg{} }
}

// Update implements tea.Model
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	if l.confirm != pendingNone {
		return l.updateConfirm(key)
	}

	switch key.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.sessions)-1 {
			l.cursor++
		}
	case "x", "delete":
		sel, ok := l.selected()
		if !ok {
			return l, nil
		}
		if sel.Current {
			l.confirm = pendingRevokeCurrent
			return l, nil
		}
		return l, func() tea.Msg { return RevokeMsg{ID: sel.ID} }
	case "A":
		if l.others() == 0 {
			return l, nil
		}
		return l, func() tea.Msg { return RevokeAllMsg{KeepCurrent: true} }
	case "D":
		if len(l.sessions) > 0 {
			l.confirm = pendingRevokeEverything
		}
	case "r":
		return l, func() tea.Msg { return RefreshMsg{} }
	case "esc", "b":
		return l, func() tea.Msg { return CancelledMsg{} }
	}
	return l, nil
}

func (l *List) updateConfirm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := l.confirm
	l.confirm = pendingNone
	if key.String() != "y" && key.String() != "o" {
		return l, nil
	}
	switch p {
	case pendingRevokeCurrent:
		sel, ok := l.selected()
		if !ok {
			return l, nil
		}
		return l, func() tea.Msg { return RevokeMsg{ID: sel.ID} }
	case pendingRevokeEverything:
		return l, func() tea.Msg { return RevokeAllMsg{KeepCurrent: false} }
	}
	return l, nil
}

func (l *List) selected() (client.Session, bool) {
	if l.cursor < 0 || l.cursor >= len(l.sessions) {
		return client.Session{}, false
	}
	return l.sessions[l.cursor], true
}

func (l *List) others() int {
	n := 0
	for _, s := range l.sessions {
		if !s.Current {
			n++
		}
	}
	return n
}

// View implements tea.Model
func (l *List) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Mes sessions"))
	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%d session(s) active(s)", len(l.sessions))))
	b.WriteString("\n\n")

	if len(l.sessions) == 0 {
		b.WriteString(styles.Help.Render("Aucune session active"))
		return b.String()
	}

	now := l.now()
	for i, s := range l.sessions {
		b.WriteString(l.renderRow(i, s, now))
		b.WriteString("\n")
	}

	switch l.confirm {
	case pendingRevokeCurrent:
		b.WriteString("\n" + styles.StatusWarning.Render("Révoquer la session actuelle vous déconnectera. Continuer ? (y/N)"))
	case pendingRevokeEverything:
		b.WriteString("\n" + styles.StatusWarning.Render("Révoquer toutes les sessions, y compris celle-ci ? (y/N)"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (l *List) renderRow(i int, s client.Session, now time.Time) string {
	cursor := "  "
	style := styles.Normal
	if i == l.cursor {
		cursor = "> "
		style = styles.Selected
	}

	title := fmt.Sprintf("%s · %s", sessions.BrowserName(s.UserAgent), sessions.DeviceType(s.UserAgent))
	if s.IPAddress != "" {
		title += " · " + s.IPAddress
	}
	badge := widgets.SessionBadge(s.Current, sessions.ExpiringSoon(s.ExpiresAt.Time, now))
	if badge != "" {
		title += " " + badge
	}

	detail := fmt.Sprintf("ouverte %s, expire le %s",
		sessions.RelativeTime(s.CreatedAt.Time, now), sessions.FormatExpiry(s.ExpiresAt.Time))

	return cursor + style.Render(title) + "\n    " + styles.Help.Render(detail)
}
