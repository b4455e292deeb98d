// ABOUTME: QCM generation wizard as a bubbletea model
// ABOUTME: Document choice then question count, with a step progress indicator

package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/quiz"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/icons"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/styles"
)

// CompleteMsg is sent when the wizard finishes successfully
type CompleteMsg struct {
	FileID   client.ID
	Filename string
	Count    int
}

// CancelledMsg is sent when the wizard is cancelled
type CancelledMsg struct{}

var errNotANumber = errors.New("Veuillez entrer un nombre")

// Step names for progress indicator
var stepNames = []string{"Document", "Nombre de questions"}

// Wizard collects what is needed to generate a QCM
type Wizard struct {
	docs  []client.PDFDocument
	form  *huh.Form
	step  int
	width int

	fileID client.ID
	count  string
}

// New creates the wizard. A non-zero preselected id skips the document step.
func New(docs []client.PDFDocument, preselected client.ID) *Wizard {
	w := &Wizard{
		docs:   docs,
		step:   1,
		fileID: preselected,
		count:  strconv.Itoa(client.DefaultQuestionCount),
	}

	switch {
	case preselected != 0:
		w.step = 2
		w.form = w.createCountForm()
	case len(docs) > 0:
		w.fileID = docs[0].ID
		w.form = w.createDocumentForm()
	}
	return w
}

func (w *Wizard) createDocumentForm() *huh.Form {
	options := make([]huh.Option[client.ID], 0, len(w.docs))
	for _, d := range w.docs {
		label := fmt.Sprintf("%s  (%s)", d.Filename, humanize.IBytes(uint64(d.FileSize)))
		options = append(options, huh.NewOption(label, d.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[client.ID]().
				Title("Document").
				Description("↑/↓ pour choisir, Entrée pour valider").
				Options(options...).
				Value(&w.fileID),
		).Title("Étape 1 : Document").
			Description("Choisissez le PDF à partir duquel générer le QCM"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func (w *Wizard) createCountForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nombre de questions").
				Description(fmt.Sprintf("Entre %d et %d, Entrée pour générer", quiz.MinQuestions, quiz.MaxQuestions)).
				Placeholder(strconv.Itoa(client.DefaultQuestionCount)).
				CharLimit(2).
				Value(&w.count).
				Validate(validateCount),
		).Title("Étape 2 : Nombre de questions").
			Description("Combien de questions voulez-vous ?"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	if w.form == nil {
		return nil
	}
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" || (w.form == nil && msg.String() == "b") {
			return w, func() tea.Msg { return CancelledMsg{} }
		}
	}

	if w.form == nil {
		return w, nil
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}
	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case 1:
		w.step = 2
		w.form = w.createCountForm()
		return w, w.form.Init()

	case 2:
		msg, err := w.result()
		if err != nil {
			w.form = w.createCountForm()
			return w, w.form.Init()
		}
		return w, func() tea.Msg { return msg }
	}
	return w, nil
}

// result builds the completion message from the collected values
func (w *Wizard) result() (CompleteMsg, error) {
	if err := validateCount(w.count); err != nil {
		return CompleteMsg{}, err
	}
	n, _ := strconv.Atoi(strings.TrimSpace(w.count))
	return CompleteMsg{FileID: w.fileID, Filename: w.filename(), Count: n}, nil
}

func (w *Wizard) filename() string {
	for _, d := range w.docs {
		if d.ID == w.fileID {
			return d.Filename
		}
	}
	return ""
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")

	if w.form == nil {
		sb.WriteString(styles.Help.Render("Aucun PDF importé. Importez un document depuis le menu."))
		return sb.String()
	}
	if name := w.filename(); name != "" && w.step == 2 {
		sb.WriteString(styles.Subtitle.Render(icons.Upload.String() + " " + name))
		sb.WriteString("\n\n")
	}
	sb.WriteString(w.form.View())
	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := max(w.width-1, 60)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}
		steps = append(steps, indicator+" "+nameStyle.Render(name))
	}
	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │"
	barWidth := width - 5
	filledWidth := (w.step * barWidth) / len(stepNames)
	progressBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", barWidth-filledWidth))

	title := "Progression"
	topBorder := "┌─ " + titleStyle.Render(title) + " " + strings.Repeat("─", max(0, width-5-lipgloss.Width(title))) + "┐"
	stepsPadded := "│ " + stepsLine + strings.Repeat(" ", max(0, width-4-lipgloss.Width(stepsLine))) + " │"
	progressPadded := "│  " + progressBar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{topBorder, stepsPadded, progressPadded, bottomBorder}, "\n"))
}

// Step returns the current step, starting at 1
func (w *Wizard) Step() int {
	return w.step
}

func validateCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errNotANumber
	}
	return quiz.ValidateCount(n)
}
