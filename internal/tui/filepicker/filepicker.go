// ABOUTME: PDF picker for the upload screen
// ABOUTME: Recent files, a typed or dropped path, and PDFs found in a directory

package filepicker

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/styles"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/upload"
)

type state int

const (
	stateList state = iota
	stateInput
	stateBrowse
)

// FileSelectedMsg is sent once a path has passed validation
type FileSelectedMsg struct {
	File *upload.File
}

// CancelledMsg is sent when the user cancels
type CancelledMsg struct{}

// FilePicker is the PDF selection component
type FilePicker struct {
	recentFiles []string
	found       []upload.File
	dir         string
	cursor      int
	state       state
	textInput   textinput.Model
	err         string
	width       int
	height      int
}

// New creates a picker over the recent paths and the PDFs found in dir
func New(recentFiles []string, dir string, found []upload.File) *FilePicker {
	ti := textinput.New()
	ti.Placeholder = "/chemin/vers/cours.pdf"
	ti.CharLimit = 1024
	ti.Width = 60

	return &FilePicker{
		recentFiles: recentFiles,
		found:       found,
		dir:         dir,
		state:       stateList,
		textInput:   ti,
	}
}

// Init implements tea.Model
func (fp *FilePicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (fp *FilePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		fp.width = msg.Width
		fp.height = msg.Height
		return fp, nil

	case tea.KeyMsg:
		fp.err = ""

		switch fp.state {
		case stateList:
			return fp.updateList(msg)
		case stateInput:
			return fp.updateInput(msg)
		case stateBrowse:
			return fp.updateBrowse(msg)
		}
	}

	if fp.state == stateInput {
		var cmd tea.Cmd
		fp.textInput, cmd = fp.textInput.Update(msg)
		return fp, cmd
	}
	return fp, nil
}

func (fp *FilePicker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if fp.cursor > 0 {
			fp.cursor--
		}
	case "down", "j":
		if fp.cursor < fp.listItemCount()-1 {
			fp.cursor++
		}
	case "enter":
		return fp.selectListItem()
	case "esc", "b":
		return fp, func() tea.Msg { return CancelledMsg{} }
	}
	return fp, nil
}

func (fp *FilePicker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fp.state = stateList
		fp.textInput.SetValue("")
		fp.textInput.Blur()
		return fp, nil
	case "enter":
		path := strings.TrimSpace(fp.textInput.Value())
		if path == "" {
			fp.err = "Veuillez entrer le chemin d'un fichier PDF"
			return fp, nil
		}
		return fp.choose(path)
	}

	var cmd tea.Cmd
	fp.textInput, cmd = fp.textInput.Update(msg)
	return fp, cmd
}

func (fp *FilePicker) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	maxItems := len(fp.found) + 1 // +1 for [retour]

	switch msg.String() {
	case "up", "k":
		if fp.cursor > 0 {
			fp.cursor--
		}
	case "down", "j":
		if fp.cursor < maxItems-1 {
			fp.cursor++
		}
	case "enter":
		if fp.cursor == len(fp.found) {
			fp.state = stateList
			fp.cursor = 0
			return fp, nil
		}
		return fp.choose(fp.found[fp.cursor].Path)
	case "esc", "b":
		fp.state = stateList
		fp.cursor = 0
	}
	return fp, nil
}

func (fp *FilePicker) listItemCount() int {
	count := len(fp.recentFiles) + 1 // +1 for "Saisir un chemin..."
	if len(fp.found) > 0 {
		count++
	}
	return count
}

func (fp *FilePicker) selectListItem() (tea.Model, tea.Cmd) {
	recentCount := len(fp.recentFiles)

	switch {
	case fp.cursor < recentCount:
		return fp.choose(fp.recentFiles[fp.cursor])
	case fp.cursor == recentCount:
		fp.state = stateInput
		return fp, fp.textInput.Focus()
	case len(fp.found) > 0 && fp.cursor == recentCount+1:
		fp.state = stateBrowse
		fp.cursor = 0
	}
	return fp, nil
}

// choose validates path before anything is sent to the backend
func (fp *FilePicker) choose(path string) (tea.Model, tea.Cmd) {
	file, err := upload.Validate(path)
	if err != nil {
		fp.err = err.Error()
		return fp, nil
	}
	return fp, func() tea.Msg { return FileSelectedMsg{File: file} }
}

// SetError sets an error message to display
func (fp *FilePicker) SetError(msg string) {
	fp.err = msg
}

// Error returns the message currently displayed
func (fp *FilePicker) Error() string {
	return fp.err
}

// View implements tea.Model
func (fp *FilePicker) View() string {
	var b strings.Builder

	switch fp.state {
	case stateInput:
		b.WriteString(styles.Title.Render("Chemin du fichier PDF"))
		b.WriteString("\n")
		b.WriteString(styles.Help.Render("Collez un chemin ou glissez le fichier dans le terminal"))
		b.WriteString("\n\n")
		b.WriteString(fp.textInput.View())
	case stateBrowse:
		b.WriteString(styles.Title.Render("PDF dans " + fp.dir))
		b.WriteString("\n")
		for i, f := range fp.found {
			b.WriteString(fp.line(i, f.Name+"  "+styles.Help.Render(f.HumanSize())))
		}
		b.WriteString(fp.line(len(fp.found), "[retour]"))
	default:
		b.WriteString(fp.viewList())
	}

	if fp.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.AlertError.Render(fp.err))
	}
	return b.String()
}

func (fp *FilePicker) viewList() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Importer un PDF"))
	b.WriteString("\n")

	if len(fp.recentFiles) > 0 {
		b.WriteString(styles.Help.Render("Fichiers récents :"))
		b.WriteString("\n")
		for i, path := range fp.recentFiles {
			b.WriteString(fp.line(i, fp.shorten(path)))
		}
		b.WriteString("\n")
	}

	idx := len(fp.recentFiles)
	b.WriteString(fp.line(idx, "Saisir un chemin..."))
	if len(fp.found) > 0 {
		b.WriteString(fp.line(idx+1, "Parcourir "+fp.dir+"..."))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (fp *FilePicker) line(i int, text string) string {
	if i == fp.cursor {
		return "> " + styles.Selected.Render(text) + "\n"
	}
	return "  " + styles.Normal.Render(text) + "\n"
}

// shorten keeps the tail of long paths
func (fp *FilePicker) shorten(path string) string {
	r := []rune(path)
	limit := fp.width - 10
	if fp.width > 20 && len(r) > limit {
		return "..." + string(r[len(r)-(limit-3):])
	}
	return path
}
