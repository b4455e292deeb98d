// ABOUTME: Administration dashboard with account and session tables
// ABOUTME: Counters on top, a filterable tab below; actions are sent to the parent model

package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/sessions"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/icons"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/styles"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/widgets"
)

// Tab selects the table shown under the counters
type Tab int

const (
	TabUsers Tab = iota
	TabSessions
)

// RefreshMsg asks for users and sessions to be reloaded
type RefreshMsg struct{}

// DisableMsg asks for an account to be deactivated
type DisableMsg struct{ UserID client.ID }

// EnableMsg asks for an account to be reactivated
type EnableMsg struct{ UserID client.ID }

// RevokeSessionMsg asks for one session to be revoked
type RevokeSessionMsg struct{ TokenID client.ID }

// RevokeUserSessionsMsg asks for every session of an account to be revoked
type RevokeUserSessionsMsg struct{ UserID client.ID }

// CancelledMsg is sent when the user leaves the dashboard
type CancelledMsg struct{}

// Dashboard displays the administration view
type Dashboard struct {
	users    []client.AdminUser
	sessions []client.AdminSession
	stats    sessions.Stats
	loaded   bool

	self      client.ID
	tab       Tab
	cursor    int
	filter    textinput.Model
	filtering bool
	confirm   tea.Msg // action awaiting y/N

	width  int
	height int
	now    func() time.Time
}

// New creates a dashboard; self is the signed-in administrator, who cannot disable themself
func New(self client.ID, width, height int) *Dashboard {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "email ou nom"
	ti.CharLimit = 100
	return &Dashboard{
		self:   self,
		filter: ti,
		width:  width,
		height: height,
		now:    time.Now,
	}
}

// SetData replaces the tables and counters
func (d *Dashboard) SetData(users []client.AdminUser, list []client.AdminSession, stats sessions.Stats) {
	d.users = users
	d.sessions = list
	d.stats = stats
	d.loaded = true
	d.clampCursor()
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Tab returns the visible table
func (d *Dashboard) Tab() Tab {
	return d.tab
}

func (d *Dashboard) visibleUsers() []client.AdminUser {
	return sessions.FilterUsers(d.users, d.filter.Value())
}

func (d *Dashboard) visibleSessions() []client.AdminSession {
	return sessions.FilterSessions(d.sessions, d.filter.Value())
}

func (d *Dashboard) rows() int {
	if d.tab == TabUsers {
		return len(d.visibleUsers())
	}
	return len(d.visibleSessions())
}

func (d *Dashboard) clampCursor() {
	d.cursor = max(0, min(d.cursor, d.rows()-1))
}

// Init implements tea.Model
func (d *Dashboard) Init() tea.Cmd {
	return func() tea.Msg { return RefreshMsg{} }
}

// Update implements tea.Model
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if d.filtering {
			var cmd tea.Cmd
			d.filter, cmd = d.filter.Update(msg)
			return d, cmd
		}
		return d, nil
	}

	if d.filtering {
		return d.updateFilter(key)
	}
	if d.confirm != nil {
		action := d.confirm
		d.confirm = nil
		if key.String() == "y" || key.String() == "o" {
			return d, func() tea.Msg { return action }
		}
		return d, nil
	}

	switch key.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < d.rows()-1 {
			d.cursor++
		}
	case "tab":
		d.tab = (d.tab + 1) % 2
		d.cursor = 0
	case "/":
		d.filtering = true
		return d, d.filter.Focus()
	case "r":
		return d, func() tea.Msg { return RefreshMsg{} }
	case "esc", "b":
		if d.filter.Value() != "" {
			d.filter.SetValue("")
			d.clampCursor()
			return d, nil
		}
		return d, func() tea.Msg { return CancelledMsg{} }
	default:
		return d, d.action(key.String())
	}
	return d, nil
}

func (d *Dashboard) updateFilter(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		d.filtering = false
		d.filter.Blur()
		return d, nil
	case "esc":
		d.filtering = false
		d.filter.Blur()
		d.filter.SetValue("")
		d.clampCursor()
		return d, nil
	}
	var cmd tea.Cmd
	d.filter, cmd = d.filter.Update(key)
	d.clampCursor()
	return d, cmd
}

// action handles the per-row keys of the visible tab
func (d *Dashboard) action(key string) tea.Cmd {
	if d.tab == TabSessions {
		list := d.visibleSessions()
		if key != "x" || d.cursor >= len(list) {
			return nil
		}
		d.confirm = RevokeSessionMsg{TokenID: list[d.cursor].TokenID}
		return nil
	}

	list := d.visibleUsers()
	if d.cursor >= len(list) {
		return nil
	}
	u := list[d.cursor]
	switch key {
	case "d":
		if u.ID == d.self || !u.IsActive {
			return nil
		}
		d.confirm = DisableMsg{UserID: u.ID}
	case "e":
		if u.IsActive {
			return nil
		}
		id := u.ID
		return func() tea.Msg { return EnableMsg{UserID: id} }
	case "X":
		d.confirm = RevokeUserSessionsMsg{UserID: u.ID}
	}
	return nil
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if !d.loaded {
		return styles.Panel.Width(max(d.width, 20)).Render("Chargement des données d'administration...")
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Admin.String() + " Administration"))
	sb.WriteString("\n\n")
	sb.WriteString(d.renderStats())
	sb.WriteString("\n\n")
	sb.WriteString(d.renderTabs())
	sb.WriteString("\n")

	if d.filtering || d.filter.Value() != "" {
		sb.WriteString(d.filter.View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if d.tab == TabUsers {
		sb.WriteString(d.renderUsers())
	} else {
		sb.WriteString(d.renderSessions())
	}

	if prompt := d.confirmPrompt(); prompt != "" {
		sb.WriteString("\n\n")
		sb.WriteString(styles.StatusWarning.Render(prompt))
	}

	return lipgloss.NewStyle().Width(d.width).Render(strings.TrimRight(sb.String(), "\n"))
}

func (d *Dashboard) renderStats() string {
	cfg := widgets.DefaultMetricBlockConfig()
	blocks := []string{
		widgets.CountBlock(icons.User, "Utilisateurs", d.stats.TotalUsers, fmt.Sprintf("%d actifs", d.stats.ActiveUsers), cfg),
		widgets.CountBlock(icons.Sessions, "Connectés", d.stats.ConnectedUsers, "utilisateurs", cfg),
		widgets.CountBlock(icons.Current, "Sessions", d.stats.ActiveSessions, "actives", cfg),
		widgets.CountBlock(icons.Google, "Google", d.stats.OAuthUsers, fmt.Sprintf("%d mot de passe", d.stats.PasswordUsers), cfg),
	}
	return widgets.BlockRow(blocks, d.width)
}

func (d *Dashboard) renderTabs() string {
	users := fmt.Sprintf("Utilisateurs (%d)", len(d.visibleUsers()))
	list := fmt.Sprintf("Sessions (%d)", len(d.visibleSessions()))
	if d.tab == TabUsers {
		return styles.Selected.Render("["+users+"]") + "  " + styles.Help.Render(list)
	}
	return styles.Help.Render(users) + "  " + styles.Selected.Render("["+list+"]")
}

func (d *Dashboard) renderUsers() string {
	list := d.visibleUsers()
	if len(list) == 0 {
		return styles.Help.Render("Aucun utilisateur")
	}
	now := d.now()
	var lines []string
	for i, u := range list {
		name := u.Email
		if u.FullName != "" {
			name = u.FullName + " <" + u.Email + ">"
		}
		line := fmt.Sprintf("%s %s %s %s  %s", name,
			widgets.RoleBadge(u.IsSuperuser), widgets.AccountBadge(u.IsActive), widgets.LoginBadge(u.LoginType),
			styles.Help.Render("connexion "+sessions.RelativeTime(u.LastLogin.Time, now)))
		lines = append(lines, d.row(i, line))
	}
	return strings.Join(lines, "\n")
}

func (d *Dashboard) renderSessions() string {
	list := d.visibleSessions()
	if len(list) == 0 {
		return styles.Help.Render("Aucune session active")
	}
	now := d.now()
	var lines []string
	for i, s := range list {
		who := s.UserEmail
		if s.UserFullname != "" {
			who = s.UserFullname + " <" + s.UserEmail + ">"
		}
		line := fmt.Sprintf("#%s %s  %s %s", s.TokenID, who,
			styles.Help.Render("ouverte "+sessions.RelativeTime(s.CreatedAt.Time, now)+", expire le "+sessions.FormatExpiry(s.ExpiresAt.Time)),
			widgets.SessionBadge(false, sessions.ExpiringSoon(s.ExpiresAt.Time, now)))
		lines = append(lines, d.row(i, strings.TrimRight(line, " ")))
	}
	return strings.Join(lines, "\n")
}

func (d *Dashboard) row(i int, line string) string {
	if i == d.cursor {
		return "> " + line
	}
	return "  " + line
}

func (d *Dashboard) confirmPrompt() string {
	switch m := d.confirm.(type) {
	case DisableMsg:
		return fmt.Sprintf("Désactiver le compte %s ? (y/N)", d.userEmail(m.UserID))
	case RevokeUserSessionsMsg:
		return fmt.Sprintf("Révoquer toutes les sessions de %s ? (y/N)", d.userEmail(m.UserID))
	case RevokeSessionMsg:
		return fmt.Sprintf("Révoquer la session #%s ? (y/N)", m.TokenID)
	}
	return ""
}

func (d *Dashboard) userEmail(id client.ID) string {
	for _, u := range d.users {
		if u.ID == id {
			return u.Email
		}
	}
	return id.String()
}
