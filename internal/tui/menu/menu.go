// ABOUTME: Home menu and navigation sidebar for the logged-in TUI
// ABOUTME: The admin entry only exists for superusers

package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/icons"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/styles"
)

// ItemID identifies a navigation target
type ItemID int

const (
	ItemUpload ItemID = iota
	ItemGenerate
	ItemFolders
	ItemSessions
	ItemAdmin
	ItemLogout
	ItemQuit
)

// Item is one navigation entry
type Item struct {
	ID    ItemID
	Label string
	Icon  icons.Icon
}

// SelectedMsg is sent when an entry is chosen
type SelectedMsg struct {
	Item ItemID
}

// CancelledMsg is sent when the user leaves the menu
type CancelledMsg struct{}

// Menu is the list of navigation entries
type Menu struct {
	items  []Item
	cursor int
}

// Items returns the entries visible to a user
func Items(admin bool) []Item {
	items := []Item{
		{ID: ItemUpload, Label: "Importer un PDF", Icon: icons.Upload},
		{ID: ItemGenerate, Label: "Générer un QCM", Icon: icons.Quiz},
		{ID: ItemFolders, Label: "Dossiers", Icon: icons.Folder},
		{ID: ItemSessions, Label: "Mes sessions", Icon: icons.Sessions},
	}
	if admin {
		items = append(items, Item{ID: ItemAdmin, Label: "Administration", Icon: icons.Admin})
	}
	return append(items,
		Item{ID: ItemLogout, Label: "Se déconnecter", Icon: icons.Logout},
		Item{ID: ItemQuit, Label: "Quitter", Icon: icons.Quit},
	)
}

// New creates the menu for a user
func New(admin bool) *Menu {
	return &Menu{items: Items(admin)}
}

// Has reports whether id is one of the entries
func (m *Menu) Has(id ItemID) bool {
	for _, it := range m.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		id := m.items[m.cursor].ID
		return m, func() tea.Msg { return SelectedMsg{Item: id} }
	case "q", "esc":
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	return m, nil
}

// View implements tea.Model
func (m *Menu) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Que voulez-vous faire ?"))
	b.WriteString("\n")
	for i, it := range m.items {
		cursor := "  "
		style := styles.Normal
		if i == m.cursor {
			cursor = "> "
			style = styles.Selected
		}
		b.WriteString(cursor + style.Render(it.Icon.String()+" "+it.Label) + "\n")
	}
	return b.String()
}

// Sidebar renders the entries for the navigation pane. Collapsed shows
// icons only. active is highlighted.
func (m *Menu) Sidebar(collapsed bool, active ItemID) string {
	var lines []string
	for _, it := range m.items {
		if it.ID == ItemQuit {
			continue
		}
		label := it.Icon.String()
		if !collapsed {
			label += " " + it.Label
		}
		if it.ID == active {
			lines = append(lines, styles.Selected.Render(label))
		} else {
			lines = append(lines, styles.Help.Render(label))
		}
	}
	return strings.Join(lines, "\n")
}
