// ABOUTME: Folder browser with create, rename and delete
// ABOUTME: Names are checked locally; requests are left to the parent model

package folders

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/icons"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/styles"
)

type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeRename
	modeConfirmDelete
)

// LoadMsg asks for the children of Parent, zero for the root
type LoadMsg struct {
	Parent client.ID
}

// CreateMsg asks for a new folder under Parent
type CreateMsg struct {
	Parent client.ID
	Name   string
}

// RenameMsg asks for a folder to be renamed
type RenameMsg struct {
	ID   client.ID
	Name string
}

// DeleteMsg asks for a folder to be removed, with its contents when Recursive
type DeleteMsg struct {
	ID        client.ID
	Recursive bool
}

// UploadHereMsg asks for a PDF upload into Parent
type UploadHereMsg struct {
	Parent client.ID
}

// CancelledMsg is sent when the user leaves the browser from the root
type CancelledMsg struct{}

type crumb struct {
	id   client.ID
	name string
}

// Folders browses one level of the folder tree at a time
type Folders struct {
	path    []crumb // from the root, excluding it
	folders []client.Folder
	loaded  bool
	cursor  int
	mode    mode
	input   textinput.Model
	err     string

	recursive bool // delete contents too, toggled in the confirmation
}

// New creates a browser positioned at the root
func New() *Folders {
	ti := textinput.New()
	ti.Placeholder = "Nom du dossier"
	ti.CharLimit = 255
	ti.Width = 40
	return &Folders{input: ti}
}

// Parent is the folder whose children are shown
func (f *Folders) Parent() client.ID {
	if len(f.path) == 0 {
		return 0
	}
	return f.path[len(f.path)-1].id
}

// SetFolders replaces the listing if it belongs to the current parent
func (f *Folders) SetFolders(parent client.ID, folders []client.Folder) {
	if parent != f.Parent() {
		return
	}
	f.folders = folders
	f.loaded = true
	f.cursor = max(0, min(f.cursor, len(folders)-1))
}

// SetError sets an error message to display
func (f *Folders) SetError(msg string) {
	f.err = msg
}

// Error returns the message currently displayed
func (f *Folders) Error() string {
	return f.err
}

// Init implements tea.Model
func (f *Folders) Init() tea.Cmd {
	return f.load()
}

func (f *Folders) load() tea.Cmd {
	parent := f.Parent()
	return func() tea.Msg { return LoadMsg{Parent: parent} }
}

// Update implements tea.Model
func (f *Folders) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if f.mode == modeCreate || f.mode == modeRename {
			var cmd tea.Cmd
			f.input, cmd = f.input.Update(msg)
			return f, cmd
		}
		return f, nil
	}

	f.err = ""
	switch f.mode {
	case modeCreate, modeRename:
		return f.updateInput(key)
	case modeConfirmDelete:
		return f.updateConfirm(key)
	}
	return f.updateBrowse(key)
}

func (f *Folders) updateBrowse(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down", "j":
		if f.cursor < len(f.folders)-1 {
			f.cursor++
		}
	case "enter":
		if sel, ok := f.selected(); ok {
			f.path = append(f.path, crumb{id: sel.ID, name: sel.Name})
			f.reset()
			return f, f.load()
		}
	case "backspace", "b", "esc":
		if len(f.path) == 0 {
			return f, func() tea.Msg { return CancelledMsg{} }
		}
		f.path = f.path[:len(f.path)-1]
		f.reset()
		return f, f.load()
	case "n":
		f.mode = modeCreate
		f.input.SetValue("")
		return f, f.input.Focus()
	case "r":
		if sel, ok := f.selected(); ok {
			f.mode = modeRename
			f.input.SetValue(sel.Name)
			f.input.CursorEnd()
			return f, f.input.Focus()
		}
	case "d":
		if _, ok := f.selected(); ok {
			f.mode = modeConfirmDelete
			f.recursive = false
		}
	case "u":
		parent := f.Parent()
		return f, func() tea.Msg { return UploadHereMsg{Parent: parent} }
	case "ctrl+r", "R":
		return f, f.load()
	}
	return f, nil
}

func (f *Folders) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		f.mode = modeBrowse
		f.input.Blur()
		return f, nil
	case "enter":
		name := strings.TrimSpace(f.input.Value())
		if name == "" {
			f.err = client.ErrEmptyFolderName.Error()
			return f, nil
		}
		m := f.mode
		f.mode = modeBrowse
		f.input.Blur()
		if m == modeCreate {
			parent := f.Parent()
			return f, func() tea.Msg { return CreateMsg{Parent: parent, Name: name} }
		}
		sel, _ := f.selected()
		return f, func() tea.Msg { return RenameMsg{ID: sel.ID, Name: name} }
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(key)
	return f, cmd
}

func (f *Folders) updateConfirm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel, ok := f.selected()
	if !ok {
		f.mode = modeBrowse
		return f, nil
	}

	switch key.String() {
	case " ", "tab":
		if !empty(sel) {
			f.recursive = !f.recursive
		}
		return f, nil
	case "y", "o":
		f.mode = modeBrowse
		recursive := f.recursive && !empty(sel)
		return f, func() tea.Msg { return DeleteMsg{ID: sel.ID, Recursive: recursive} }
	}
	f.mode = modeBrowse
	return f, nil
}

func empty(folder client.Folder) bool {
	return folder.SubfolderCount+folder.FileCount == 0
}

func (f *Folders) selected() (client.Folder, bool) {
	if f.cursor < 0 || f.cursor >= len(f.folders) {
		return client.Folder{}, false
	}
	return f.folders[f.cursor], true
}

func (f *Folders) reset() {
	f.folders = nil
	f.loaded = false
	f.cursor = 0
}

// Breadcrumb renders the path from the root
func (f *Folders) Breadcrumb() string {
	parts := []string{"Racine"}
	for _, c := range f.path {
		parts = append(parts, c.name)
	}
	return strings.Join(parts, " / ")
}

// View implements tea.Model
func (f *Folders) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(icons.Folder.String() + " " + f.Breadcrumb()))
	b.WriteString("\n")

	switch {
	case !f.loaded:
		b.WriteString(styles.Help.Render("Chargement..."))
	case len(f.folders) == 0:
		b.WriteString(styles.Help.Render("Aucun sous-dossier"))
	default:
		for i, folder := range f.folders {
			line := fmt.Sprintf("%s %s  %s", icons.Folder.String(), folder.Name,
				styles.Help.Render(fmt.Sprintf("%d dossier(s), %d fichier(s)", folder.SubfolderCount, folder.FileCount)))
			if i == f.cursor {
				b.WriteString("> " + styles.Selected.Render(line) + "\n")
			} else {
				b.WriteString("  " + styles.Normal.Render(line) + "\n")
			}
		}
	}

	switch f.mode {
	case modeCreate:
		b.WriteString("\n\n" + styles.Subtitle.Render("Nouveau dossier") + "\n" + f.input.View())
	case modeRename:
		b.WriteString("\n\n" + styles.Subtitle.Render("Renommer") + "\n" + f.input.View())
	case modeConfirmDelete:
		if sel, ok := f.selected(); ok {
			b.WriteString("\n\n" + styles.StatusWarning.Render(fmt.Sprintf("Supprimer « %s » ? (y/N)", sel.Name)))
			if !empty(sel) {
				box := "[ ]"
				if f.recursive {
					box = "[x]"
				}
				b.WriteString("\n" + styles.Normal.Render(fmt.Sprintf("%s Supprimer aussi le contenu (%d dossier(s), %d fichier(s))", box, sel.SubfolderCount, sel.FileCount)))
				b.WriteString("\n" + styles.Help.Render("espace: cocher/décocher"))
			}
		}
	}

	if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.AlertError.Render(f.err))
	}
	return strings.TrimRight(b.String(), "\n")
}
