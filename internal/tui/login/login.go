// ABOUTME: Login and registration form as a bubbletea model
// ABOUTME: Password confirmation is checked locally before anything is sent

package login

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/auth"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/icons"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/styles"
)

// Mode selects between signing in and creating an account
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// SubmitMsg carries validated credentials
type SubmitMsg struct {
	Mode     Mode
	Email    string
	Password string
}

// GoogleMsg asks for the Google OAuth flow
type GoogleMsg struct{}

// CancelledMsg is sent when the user leaves the form
type CancelledMsg struct{}

var (
	errEmailRequired    = errors.New("Veuillez entrer votre email")
	errEmailInvalid     = errors.New("Adresse email invalide")
	errPasswordRequired = errors.New("Veuillez entrer votre mot de passe")
)

// Login is the credentials form
type Login struct {
	mode Mode
	form *huh.Form
	err  string

	email    string
	password string
	confirm  string
}

// New creates the form, prefilled with email
func New(mode Mode, email string) *Login {
	l := &Login{mode: mode, email: email}
	l.form = l.buildForm()
	return l
}

// Mode returns the current mode
func (l *Login) Mode() Mode {
	return l.mode
}

func (l *Login) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Email").
			Placeholder("vous@exemple.com").
			Value(&l.email).
			Validate(validateEmail),
		huh.NewInput().
			Title("Mot de passe").
			EchoMode(huh.EchoModePassword).
			Value(&l.password).
			Validate(validateRequired),
	}

	title, desc := "Connexion", "Connectez-vous pour générer vos QCM"
	if l.mode == ModeRegister {
		title, desc = "Inscription", "Créez votre compte"
		fields = append(fields, huh.NewInput().
			Title("Confirmer le mot de passe").
			EchoMode(huh.EchoModePassword).
			Value(&l.confirm))
	}

	return huh.NewForm(
		huh.NewGroup(fields...).Title(title).Description(desc),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return l, func() tea.Msg { return CancelledMsg{} }
		case "ctrl+r":
			return l, l.toggle()
		case "ctrl+g":
			return l, func() tea.Msg { return GoogleMsg{} }
		}
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		return l, l.complete()
	}
	return l, cmd
}

// toggle switches mode and starts a fresh form, keeping the email
func (l *Login) toggle() tea.Cmd {
	if l.mode == ModeLogin {
		l.mode = ModeRegister
	} else {
		l.mode = ModeLogin
	}
	l.err = ""
	l.password, l.confirm = "", ""
	l.form = l.buildForm()
	return l.form.Init()
}

func (l *Login) complete() tea.Cmd {
	submit, err := l.result()
	if err != nil {
		l.Failed(err.Error())
		return l.form.Init()
	}
	return func() tea.Msg { return submit }
}

// result validates the collected values
func (l *Login) result() (SubmitMsg, error) {
	email := strings.TrimSpace(l.email)
	if err := validateEmail(email); err != nil {
		return SubmitMsg{}, err
	}
	if err := validateRequired(l.password); err != nil {
		return SubmitMsg{}, err
	}
	if l.mode == ModeRegister {
		if err := auth.ValidateRegistration(l.password, l.confirm); err != nil {
			return SubmitMsg{}, err
		}
	}
	return SubmitMsg{Mode: l.mode, Email: email, Password: l.password}, nil
}

// Failed shows msg and restarts the form with the passwords cleared
func (l *Login) Failed(msg string) {
	l.err = msg
	l.password, l.confirm = "", ""
	l.form = l.buildForm()
}

// Email returns the address typed so far
func (l *Login) Email() string {
	return strings.TrimSpace(l.email)
}

// Error returns the message shown above the form
func (l *Login) Error() string {
	return l.err
}

// View implements tea.Model
func (l *Login) View() string {
	var b strings.Builder
	if l.err != "" {
		b.WriteString(styles.AlertError.Render(l.err))
		b.WriteString("\n\n")
	}
	b.WriteString(l.form.View())
	b.WriteString("\n\n")

	toggle := "ctrl+r Créer un compte"
	if l.mode == ModeRegister {
		toggle = "ctrl+r J'ai déjà un compte"
	}
	b.WriteString(styles.Help.Render(toggle + "   ctrl+g " + icons.Google.String() + " Continuer avec Google"))
	return b.String()
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errEmailRequired
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 || strings.ContainsAny(s, " \t") {
		return errEmailInvalid
	}
	return nil
}

func validateRequired(s string) error {
	if s == "" {
		return errPasswordRequired
	}
	return nil
}
