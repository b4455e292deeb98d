// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, auth gating and routes keyboard input to child components

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/auth"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/prefs"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/quiz"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/sessions"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/answer"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/dashboard"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/filepicker"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/folders"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/icons"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/login"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/menu"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/results"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/sessionlist"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/styles"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/widgets"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/wizard"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/upload"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenMenu
	ScreenUpload
	ScreenGenerate
	ScreenQuiz
	ScreenResults
	ScreenFolders
	ScreenSessions
	ScreenAdmin
)

// Layout constants
const (
	minTerminalWidth = 80 // frame never renders narrower
	panelPadding     = 4  // total horizontal padding from panel borders (2 each side)
)

const (
	noticeTTL    = 3 * time.Second
	oauthTimeout = 5 * time.Minute

	msgSessionExpired = "Votre session a expiré, veuillez vous reconnecter"
	msgOAuthCancelled = "Connexion Google annulée"
)

// authDoneMsg is sent when a login, registration, OAuth flow or token check finishes
type authDoneMsg struct {
	err error
}

// googleStartedMsg carries the loopback listener and the URL opened in the browser
type googleStartedMsg struct {
	loopback *auth.Loopback
	url      string
	err      error
}

// signedOutMsg is sent once the server-side logout returned
type signedOutMsg struct{}

// pdfsLoadedMsg is sent when the document list for the wizard arrives
type pdfsLoadedMsg struct {
	docs      []client.PDFDocument
	preselect client.ID
	err       error
}

// uploadProgressMsg reports bytes sent so far
type uploadProgressMsg struct {
	progress upload.Progress
}

// uploadDoneMsg is the last message of an upload
type uploadDoneMsg struct {
	file   *upload.File
	result *client.UploadResult
	err    error
}

// qcmGeneratedMsg is sent when generation returns; seq identifies the request
type qcmGeneratedMsg struct {
	seq uint64
	qcm *client.QCM
	err error
}

// foldersLoadedMsg is one folder listing
type foldersLoadedMsg struct {
	parent  client.ID
	folders []client.Folder
	err     error
}

// folderChangedMsg is sent after a create, rename or delete
type folderChangedMsg struct {
	notice string
	err    error
}

// sessionsLoadedMsg is sent after the account's sessions were refreshed
type sessionsLoadedMsg struct {
	err error
}

// sessionRevokedMsg is sent after a single revoke
type sessionRevokedMsg struct {
	signedOut bool
	err       error
}

// batchDoneMsg is sent after a revoke-all
type batchDoneMsg struct {
	result sessions.BatchResult
	err    error
}

// adminLoadedMsg carries fresh dashboard counters
type adminLoadedMsg struct {
	stats sessions.Stats
	err   error
}

// adminActionMsg is sent after an administration action
type adminActionMsg struct {
	notice string
	err    error
}

// noticeExpiredMsg hides the success banner it was scheduled for
type noticeExpiredMsg struct {
	seq int
}

// Options wires the app to its collaborators
type Options struct {
	Client  *client.Client // authorised with Auth's token
	Auth    *auth.Provider
	Sidebar *prefs.Sidebar
	Recent  *upload.Recent
	PDFDir  string // browsed by the upload screen
	OpenURL func(string) error
}

// App is the root model for the TUI
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	client   *client.Client
	auth     *auth.Provider
	sidebar  *prefs.Sidebar
	recent   *upload.Recent
	pdfDir   string
	openURL  func(string) error
	sessions *sessions.Service
	admin    *sessions.AdminService

	genFetcher    *client.Fetcher
	folderFetcher *client.Fetcher
	genSeq        uint64

	screen Screen
	width  int
	height int

	loading  string
	spinning bool
	spinner  spinner.Model

	uploading    bool
	uploadCh     chan tea.Msg
	uploadCancel context.CancelFunc
	uploadFolder client.ID
	uploadName   string
	uploadFrac   float64
	uploadLabel  string
	progress     progress.Model

	oauthCancel context.CancelFunc
	oauthURL    string

	err       string
	notice    string
	noticeSeq int

	docs        []client.PDFDocument
	lastRequest wizard.CompleteMsg
	lastQCM     *client.QCM
	attempts    []int
	lastResult  *quiz.Result

	// Child models
	login         *login.Login
	menu          *menu.Menu
	picker        *filepicker.FilePicker
	wizardScreen  *wizard.Wizard
	answerScreen  *answer.Answer
	resultsView   *results.Results
	folderScreen  *folders.Folders
	sessionScreen *sessionlist.List
	adminScreen   *dashboard.Dashboard
}

// New creates a new TUI application
func New(opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	a := &App{
		ctx:           ctx,
		cancel:        cancel,
		client:        opts.Client,
		auth:          opts.Auth,
		sidebar:       opts.Sidebar,
		recent:        opts.Recent,
		pdfDir:        opts.PDFDir,
		openURL:       opts.OpenURL,
		sessions:      sessions.NewService(opts.Client, opts.Auth),
		admin:         sessions.NewAdminService(opts.Client),
		genFetcher:    opts.Client.NewFetcher(),
		folderFetcher: opts.Client.NewFetcher(),
		screen:        ScreenLogin,
		spinner:       sp,
		progress:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		login:         login.New(login.ModeLogin, ""),
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.startLoading("Vérification de la session..."), a.checkSession())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeChildren()
		return a, a.forwardSize()

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.loading == "" {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case noticeExpiredMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case authDoneMsg:
		return a.handleAuthDone(msg)

	case googleStartedMsg:
		return a.handleGoogleStarted(msg)

	case signedOutMsg:
		a.stopLoading()
		return a, a.toLogin("")

	// login
	case login.SubmitMsg:
		a.err = ""
		return a, tea.Batch(a.startLoading("Connexion..."), a.submitCredentials(msg))
	case login.GoogleMsg:
		a.err = ""
		return a, tea.Batch(a.startLoading("Ouverture de Google..."), a.startGoogle())
	case login.CancelledMsg:
		return a, a.quit()

	// menu
	case menu.SelectedMsg:
		return a.handleMenuSelected(msg)
	case menu.CancelledMsg:
		return a, a.quit()

	// upload
	case filepicker.FileSelectedMsg:
		return a, a.startUpload(msg.File)
	case filepicker.CancelledMsg:
		return a, a.toMenu()
	case uploadProgressMsg:
		a.uploadFrac = msg.progress.Fraction()
		a.uploadLabel = msg.progress.String()
		return a, a.waitForUpload()
	case uploadDoneMsg:
		return a.handleUploadDone(msg)

	// generation
	case pdfsLoadedMsg:
		return a.handlePDFsLoaded(msg)
	case wizard.CompleteMsg:
		return a, a.generate(msg)
	case wizard.CancelledMsg:
		return a, a.toMenu()
	case qcmGeneratedMsg:
		return a.handleGenerated(msg)

	// quiz
	case answer.SubmittedMsg:
		res := msg.Result
		a.lastResult = &res
		a.attempts = append(a.attempts, res.Percent())
		a.resultsView = results.New(a.lastResult, a.attempts, a.resultsWidth())
		a.answerScreen = nil
		a.screen = ScreenResults
		return a, nil
	case answer.CancelledMsg:
		a.answerScreen = nil
		return a, a.toMenu()

	// folders
	case folders.LoadMsg:
		return a, a.loadFolders(msg.Parent)
	case foldersLoadedMsg:
		if a.folderScreen == nil || errors.Is(msg.err, client.ErrAborted) {
			return a, nil
		}
		if msg.err != nil {
			return a, a.handleErr(msg.err)
		}
		a.folderScreen.SetFolders(msg.parent, msg.folders)
		return a, nil
	case folders.CreateMsg:
		return a, a.folderAction(func(ctx context.Context) (string, error) {
			f, err := a.client.CreateFolder(ctx, msg.Name, msg.Parent)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Dossier « %s » créé", f.Name), nil
		})
	case folders.RenameMsg:
		return a, a.folderAction(func(ctx context.Context) (string, error) {
			if _, err := a.client.RenameFolder(ctx, msg.ID, msg.Name); err != nil {
				return "", err
			}
			return fmt.Sprintf("Dossier renommé en « %s »", msg.Name), nil
		})
	case folders.DeleteMsg:
		return a, a.folderAction(func(ctx context.Context) (string, error) {
			if err := a.client.DeleteFolder(ctx, msg.ID, msg.Recursive); err != nil {
				return "", err
			}
			return "Dossier supprimé", nil
		})
	case folders.UploadHereMsg:
		return a, a.openPicker(msg.Parent)
	case folders.CancelledMsg:
		a.folderFetcher.Cancel()
		a.folderScreen = nil
		return a, a.toMenu()
	case folderChangedMsg:
		a.stopLoading()
		if msg.err != nil {
			return a, a.handleErr(msg.err)
		}
		cmds := []tea.Cmd{a.setNotice(msg.notice)}
		if a.folderScreen != nil {
			cmds = append(cmds, a.loadFolders(a.folderScreen.Parent()))
		}
		return a, tea.Batch(cmds...)

	// own sessions
	case sessionlist.RefreshMsg:
		return a, tea.Batch(a.startLoading("Chargement des sessions..."), a.refreshSessions())
	case sessionlist.RevokeMsg:
		return a, tea.Batch(a.startLoading("Révocation..."), a.revokeSession(msg.ID))
	case sessionlist.RevokeAllMsg:
		return a, tea.Batch(a.startLoading("Révocation des sessions..."), a.revokeAll(msg.KeepCurrent))
	case sessionlist.CancelledMsg:
		a.sessionScreen = nil
		return a, a.toMenu()
	case sessionsLoadedMsg:
		a.stopLoading()
		a.syncSessions()
		return a, a.handleErr(msg.err)
	case sessionRevokedMsg:
		a.stopLoading()
		if msg.signedOut {
			return a, a.toLogin("")
		}
		a.syncSessions()
		if msg.err != nil {
			return a, a.handleErr(msg.err)
		}
		return a, a.setNotice("Session révoquée")
	case batchDoneMsg:
		return a.handleBatchDone(msg)

	// administration
	case dashboard.RefreshMsg:
		return a, tea.Batch(a.startLoading("Chargement des données d'administration..."), a.refreshAdmin())
	case dashboard.DisableMsg:
		return a, a.adminAction(func(ctx context.Context) (string, error) {
			return a.admin.DisableUser(ctx, msg.UserID)
		})
	case dashboard.EnableMsg:
		return a, a.adminAction(func(ctx context.Context) (string, error) {
			return a.admin.EnableUser(ctx, msg.UserID)
		})
	case dashboard.RevokeSessionMsg:
		return a, a.adminAction(func(ctx context.Context) (string, error) {
			if err := a.admin.RevokeSession(ctx, msg.TokenID); err != nil {
				return "", err
			}
			return "Session révoquée", nil
		})
	case dashboard.RevokeUserSessionsMsg:
		return a, a.adminAction(func(ctx context.Context) (string, error) {
			res, err := a.admin.RevokeAllForUser(ctx, msg.UserID)
			if err == nil {
				err = res.Err()
			}
			return fmt.Sprintf("%d session(s) révoquée(s)", len(res.Revoked)), err
		})
	case dashboard.CancelledMsg:
		a.adminScreen = nil
		return a, a.toMenu()
	case adminLoadedMsg:
		a.stopLoading()
		if msg.err != nil {
			return a, a.handleErr(msg.err)
		}
		if a.adminScreen != nil {
			a.adminScreen.SetData(a.admin.Users(), a.admin.Sessions(), msg.stats)
		}
		return a, nil
	case adminActionMsg:
		a.stopLoading()
		if a.adminScreen != nil {
			users, list := a.admin.Users(), a.admin.Sessions()
			a.adminScreen.SetData(users, list, sessions.ComputeStats(users, list))
		}
		if msg.err != nil {
			return a, a.handleErr(msg.err)
		}
		return a, a.setNotice(msg.notice)
	}

	// Forward everything else to the active child (form internals, cursor blink)
	return a.updateActive(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, a.quit()
	case "ctrl+b":
		if a.screen != ScreenLogin && a.sidebar != nil {
			a.sidebar.Toggle()
			a.resizeChildren()
		}
		return a, nil
	}

	if a.uploading {
		if msg.String() == "esc" && a.uploadCancel != nil {
			a.uploadCancel()
		}
		return a, nil
	}

	if a.loading != "" {
		if msg.String() == "esc" {
			return a, a.cancelLoading()
		}
		return a, nil
	}

	a.err = ""
	if a.screen == ScreenResults {
		return a.updateResults(msg)
	}
	return a.updateActive(msg)
}

// updateActive routes msg to the child model of the current screen
func (a *App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		var model tea.Model
		model, cmd = a.login.Update(msg)
		a.login = model.(*login.Login)
	case ScreenMenu:
		if a.menu != nil {
			var model tea.Model
			model, cmd = a.menu.Update(msg)
			a.menu = model.(*menu.Menu)
		}
	case ScreenUpload:
		if a.picker != nil {
			var model tea.Model
			model, cmd = a.picker.Update(msg)
			a.picker = model.(*filepicker.FilePicker)
		}
	case ScreenGenerate:
		if a.wizardScreen != nil {
			var model tea.Model
			model, cmd = a.wizardScreen.Update(msg)
			a.wizardScreen = model.(*wizard.Wizard)
		}
	case ScreenQuiz:
		if a.answerScreen != nil {
			var model tea.Model
			model, cmd = a.answerScreen.Update(msg)
			a.answerScreen = model.(*answer.Answer)
		}
	case ScreenFolders:
		if a.folderScreen != nil {
			var model tea.Model
			model, cmd = a.folderScreen.Update(msg)
			a.folderScreen = model.(*folders.Folders)
		}
	case ScreenSessions:
		if a.sessionScreen != nil {
			var model tea.Model
			model, cmd = a.sessionScreen.Update(msg)
			a.sessionScreen = model.(*sessionlist.List)
		}
	case ScreenAdmin:
		if a.adminScreen != nil {
			var model tea.Model
			model, cmd = a.adminScreen.Update(msg)
			a.adminScreen = model.(*dashboard.Dashboard)
		}
	}
	return a, cmd
}

func (a *App) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, a.quit()
	case "r":
		return a, a.startQuiz(a.lastQCM)
	case "n":
		if a.lastRequest.FileID != 0 {
			return a, a.generate(a.lastRequest)
		}
	case "b", "esc":
		a.resultsView = nil
		return a, a.toMenu()
	}
	return a, nil
}

func (a *App) handleMenuSelected(msg menu.SelectedMsg) (tea.Model, tea.Cmd) {
	switch msg.Item {
	case menu.ItemUpload:
		return a, a.openPicker(0)
	case menu.ItemGenerate:
		return a, tea.Batch(a.startLoading("Chargement des documents..."), a.loadPDFs(0))
	case menu.ItemFolders:
		a.folderScreen = folders.New()
		a.screen = ScreenFolders
		return a, a.folderScreen.Init()
	case menu.ItemSessions:
		a.sessionScreen = sessionlist.New()
		a.screen = ScreenSessions
		return a, a.sessionScreen.Init()
	case menu.ItemAdmin:
		if !a.auth.IsAdmin() {
			return a, nil
		}
		var self client.ID
		if u := a.auth.Snapshot().User; u != nil {
			self = u.ID
		}
		a.adminScreen = dashboard.New(self, a.contentWidth(), a.contentHeight())
		a.screen = ScreenAdmin
		return a, a.adminScreen.Init()
	case menu.ItemLogout:
		return a, tea.Batch(a.startLoading("Déconnexion..."), a.signOut())
	case menu.ItemQuit:
		return a, a.quit()
	}
	return a, nil
}

// --- auth ---

func (a *App) checkSession() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return authDoneMsg{err: a.auth.Start(ctx)}
	}
}

func (a *App) submitCredentials(msg login.SubmitMsg) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		if msg.Mode == login.ModeRegister {
			return authDoneMsg{err: a.auth.Register(ctx, msg.Email, msg.Password)}
		}
		return authDoneMsg{err: a.auth.Login(ctx, msg.Email, msg.Password)}
	}
}

func (a *App) startGoogle() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		lb, err := auth.NewLoopback(auth.DefaultCallbackPort)
		if err != nil {
			return googleStartedMsg{err: err}
		}
		url, err := a.client.GoogleAuthorizationURL(ctx, lb.RedirectURI(), lb.State())
		if err != nil {
			lb.Close()
			return googleStartedMsg{err: err}
		}
		return googleStartedMsg{loopback: lb, url: url}
	}
}

func (a *App) handleGoogleStarted(msg googleStartedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.stopLoading()
		a.login.Failed(errorMessage(msg.err))
		return a, a.login.Init()
	}

	a.oauthURL = msg.url
	a.loading = "Terminez la connexion dans votre navigateur..."
	if a.openURL != nil {
		if err := a.openURL(msg.url); err != nil {
			slog.Warn("Failed to open browser", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(a.ctx, oauthTimeout)
	a.oauthCancel = cancel
	lb := msg.loopback
	return a, func() tea.Msg {
		defer cancel()
		defer lb.Close()
		token, err := lb.Wait(ctx, a.client)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				err = errors.New(msgOAuthCancelled)
			}
			return authDoneMsg{err: err}
		}
		return authDoneMsg{err: a.auth.SetToken(ctx, token)}
	}
}

func (a *App) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	a.stopLoading()
	a.oauthCancel = nil
	a.oauthURL = ""

	snap := a.auth.Snapshot()
	if snap.LoggedIn() {
		a.auth.ClearError()
		return a, a.toMenu()
	}

	errMsg := snap.Error
	if msg.err != nil && errMsg == "" {
		errMsg = errorMessage(msg.err)
	}
	a.auth.ClearError()

	if a.screen == ScreenLogin && errMsg != "" {
		a.login.Failed(errMsg)
		return a, a.login.Init()
	}
	return a, a.toLogin(errMsg)
}

func (a *App) signOut() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		a.auth.SignOut(ctx)
		return signedOutMsg{}
	}
}

// --- upload ---

func (a *App) openPicker(folder client.ID) tea.Cmd {
	var recent []string
	if a.recent != nil {
		recent, _ = a.recent.Load()
	}
	found, _ := upload.Discover(a.pdfDir)
	a.picker = filepicker.New(recent, a.pdfDir, found)
	a.uploadFolder = folder
	a.screen = ScreenUpload
	return a.forwardSize()
}

func (a *App) startUpload(file *upload.File) tea.Cmd {
	ctx, cancel := context.WithCancel(a.ctx)
	ch := make(chan tea.Msg, 8)

	a.uploading = true
	a.uploadCh = ch
	a.uploadCancel = cancel
	a.uploadName = file.Name
	a.uploadFrac = 0
	a.uploadLabel = ""

	api, folder, path := a.client, a.uploadFolder, file.Path
	go func() {
		defer close(ch)
		defer cancel()
		f, res, err := upload.Upload(ctx, api, path, upload.Options{
			FolderID: folder,
			OnProgress: func(p upload.Progress) {
				select {
				case ch <- uploadProgressMsg{progress: p}:
				default:
				}
			},
		})
		ch <- uploadDoneMsg{file: f, result: res, err: err}
	}()
	return a.waitForUpload()
}

func (a *App) waitForUpload() tea.Cmd {
	ch := a.uploadCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (a *App) handleUploadDone(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	a.uploading = false
	a.uploadCh = nil
	a.uploadCancel = nil

	if msg.err != nil {
		switch {
		case errors.Is(msg.err, client.ErrAborted):
			return a, a.setNotice("Import annulé")
		case upload.IsValidation(msg.err) && a.picker != nil:
			a.picker.SetError(msg.err.Error())
			return a, nil
		}
		return a, a.handleErr(msg.err)
	}

	if a.recent != nil {
		if err := a.recent.Add(msg.file.Path); err != nil {
			slog.Warn("Failed to remember recent file", "path", msg.file.Path, "error", err)
		}
	}
	slog.Info("PDF uploaded", "file", msg.file.Name, "document_id", msg.result.DocumentID())

	a.picker = nil
	return a, tea.Batch(
		a.setNotice(fmt.Sprintf("« %s » importé", msg.file.Name)),
		a.startLoading("Chargement des documents..."),
		a.loadPDFs(msg.result.DocumentID()),
	)
}

// --- generation and quiz ---

func (a *App) loadPDFs(preselect client.ID) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		docs, err := a.client.ListPDFs(ctx)
		return pdfsLoadedMsg{docs: docs, preselect: preselect, err: err}
	}
}

func (a *App) handlePDFsLoaded(msg pdfsLoadedMsg) (tea.Model, tea.Cmd) {
	a.stopLoading()
	if msg.err != nil {
		cmd := a.handleErr(msg.err)
		if a.screen != ScreenLogin {
			a.toMenu()
		}
		return a, cmd
	}
	a.docs = msg.docs
	a.wizardScreen = wizard.New(msg.docs, msg.preselect)
	a.wizardScreen.SetWidth(a.contentWidth())
	a.screen = ScreenGenerate
	return a, a.wizardScreen.Init()
}

func (a *App) generate(req wizard.CompleteMsg) tea.Cmd {
	a.lastRequest = req
	a.genSeq++
	seq := a.genSeq
	a.screen = ScreenGenerate

	ctx := a.ctx
	fetcher := a.genFetcher
	return tea.Batch(
		a.startLoading(fmt.Sprintf("Génération de %d question(s)...", req.Count)),
		func() tea.Msg {
			var qcm client.QCM
			err := fetcher.Fetch(ctx, client.GenerateQCMRequest(req.FileID, req.Count), &qcm)
			if err != nil {
				return qcmGeneratedMsg{seq: seq, err: err}
			}
			return qcmGeneratedMsg{seq: seq, qcm: &qcm}
		},
	)
}

func (a *App) handleGenerated(msg qcmGeneratedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != a.genSeq {
		return a, nil
	}
	a.stopLoading()
	if msg.err != nil {
		a.wizardScreen = wizard.New(a.docs, a.lastRequest.FileID)
		a.screen = ScreenGenerate
		return a, tea.Batch(a.handleErr(msg.err), a.wizardScreen.Init())
	}

	if msg.qcm.PDFTitle == "" {
		msg.qcm.PDFTitle = a.lastRequest.Filename
	}
	a.lastQCM = msg.qcm
	a.attempts = nil
	a.wizardScreen = nil
	return a, a.startQuiz(msg.qcm)
}

func (a *App) startQuiz(qcm *client.QCM) tea.Cmd {
	s, err := quiz.NewSession(qcm)
	if err != nil {
		a.err = err.Error()
		return a.toMenu()
	}
	a.answerScreen = answer.New(s)
	a.resultsView = nil
	a.screen = ScreenQuiz
	return a.forwardSize()
}

// --- folders ---

func (a *App) loadFolders(parent client.ID) tea.Cmd {
	ctx := a.ctx
	fetcher := a.folderFetcher
	return func() tea.Msg {
		var list client.FolderList
		err := fetcher.Fetch(ctx, client.ListFoldersRequest(parent), &list)
		return foldersLoadedMsg{parent: parent, folders: list.Folders, err: err}
	}
}

func (a *App) folderAction(fn func(context.Context) (string, error)) tea.Cmd {
	ctx := a.ctx
	return tea.Batch(a.startLoading("Enregistrement..."), func() tea.Msg {
		notice, err := fn(ctx)
		return folderChangedMsg{notice: notice, err: err}
	})
}

// --- own sessions ---

func (a *App) refreshSessions() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return sessionsLoadedMsg{err: a.sessions.Refresh(ctx)}
	}
}

func (a *App) revokeSession(id client.ID) tea.Cmd {
	ctx := a.ctx
	current, ok := a.sessions.Current()
	isCurrent := ok && current.ID == id
	return func() tea.Msg {
		// The backend refuses DELETE on the session carrying the request.
		if isCurrent {
			a.auth.SignOut(ctx)
			return sessionRevokedMsg{signedOut: true}
		}
		if err := a.sessions.Revoke(ctx, id); err != nil {
			return sessionRevokedMsg{err: err}
		}
		return sessionRevokedMsg{}
	}
}

func (a *App) revokeAll(keepCurrent bool) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		res, err := a.sessions.RevokeAll(ctx, keepCurrent)
		return batchDoneMsg{result: res, err: err}
	}
}

func (a *App) handleBatchDone(msg batchDoneMsg) (tea.Model, tea.Cmd) {
	a.stopLoading()
	if msg.result.SignedOut {
		return a, a.toLogin("")
	}
	a.syncSessions()

	var cmds []tea.Cmd
	if n := len(msg.result.Revoked); n > 0 {
		cmds = append(cmds, a.setNotice(fmt.Sprintf("%d session(s) révoquée(s)", n)))
	}
	if !msg.result.OK() {
		a.err = fmt.Sprintf("%d révocation(s) en échec : %s", len(msg.result.Failed), errorMessage(msg.result.Failed[0].Err))
	}
	if msg.err != nil {
		cmds = append(cmds, a.handleErr(msg.err))
	}
	return a, tea.Batch(cmds...)
}

func (a *App) syncSessions() {
	if a.sessionScreen != nil {
		a.sessionScreen.SetSessions(a.sessions.List())
	}
}

// --- administration ---

func (a *App) refreshAdmin() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		st, err := a.admin.Stats(ctx)
		return adminLoadedMsg{stats: st, err: err}
	}
}

func (a *App) adminAction(fn func(context.Context) (string, error)) tea.Cmd {
	ctx := a.ctx
	return tea.Batch(a.startLoading("Enregistrement..."), func() tea.Msg {
		notice, err := fn(ctx)
		return adminActionMsg{notice: notice, err: err}
	})
}

// --- navigation and status ---

func (a *App) toMenu() tea.Cmd {
	a.menu = menu.New(a.auth.IsAdmin())
	a.screen = ScreenMenu
	return nil
}

func (a *App) toLogin(errMsg string) tea.Cmd {
	email := ""
	if a.login != nil {
		email = a.login.Email()
	}
	a.login = login.New(login.ModeLogin, email)
	if errMsg != "" {
		a.login.Failed(errMsg)
	}
	a.screen = ScreenLogin
	a.menu, a.picker, a.wizardScreen, a.answerScreen = nil, nil, nil, nil
	a.folderScreen, a.sessionScreen, a.adminScreen, a.resultsView = nil, nil, nil, nil
	return a.login.Init()
}

// handleErr shows err; a rejected token sends the user back to the login screen
func (a *App) handleErr(err error) tea.Cmd {
	if err == nil || errors.Is(err, client.ErrAborted) {
		return nil
	}
	if client.IsStatus(err, http.StatusUnauthorized) || errors.Is(err, client.ErrAuthRequired) {
		slog.Warn("Request rejected, logging out", "error", err)
		a.auth.Logout()
		return a.toLogin(msgSessionExpired)
	}
	a.err = errorMessage(err)
	return nil
}

func errorMessage(err error) string {
	if msg := client.UserMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}

func (a *App) startLoading(label string) tea.Cmd {
	a.loading = label
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) stopLoading() {
	a.loading = ""
}

// cancelLoading abandons the operation behind the spinner, where that is possible
func (a *App) cancelLoading() tea.Cmd {
	switch {
	case a.oauthCancel != nil:
		a.oauthCancel()
		return nil
	case a.screen == ScreenGenerate && a.lastRequest.FileID != 0:
		a.genFetcher.Cancel()
		a.genSeq++
		a.stopLoading()
		a.wizardScreen = wizard.New(a.docs, a.lastRequest.FileID)
		return a.wizardScreen.Init()
	}
	return nil
}

func (a *App) setNotice(msg string) tea.Cmd {
	a.noticeSeq++
	a.notice = msg
	seq := a.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })
}

func (a *App) quit() tea.Cmd {
	if a.uploadCancel != nil {
		a.uploadCancel()
	}
	a.genFetcher.Cancel()
	a.folderFetcher.Cancel()
	a.cancel()
	return tea.Quit
}

// resizeChildren pushes the content size to children that lay themselves out
func (a *App) resizeChildren() {
	if a.adminScreen != nil {
		a.adminScreen.SetSize(a.contentWidth(), a.contentHeight())
	}
	if a.wizardScreen != nil {
		a.wizardScreen.SetWidth(a.contentWidth())
	}
	if a.resultsView != nil && a.lastResult != nil {
		a.resultsView = results.New(a.lastResult, a.attempts, a.resultsWidth())
	}
}

// forwardSize sends the content size to the active child
func (a *App) forwardSize() tea.Cmd {
	if a.width == 0 {
		return nil
	}
	_, cmd := a.updateActive(tea.WindowSizeMsg{Width: a.contentWidth(), Height: a.contentHeight()})
	return cmd
}

// --- view ---

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenMenu:
		if a.menu != nil {
			content = a.menu.View()
		}
	case ScreenUpload:
		content = a.viewUpload()
	case ScreenGenerate:
		if a.wizardScreen != nil {
			content = a.wizardScreen.View()
		}
	case ScreenQuiz:
		if a.answerScreen != nil {
			content = a.answerScreen.View()
		}
	case ScreenResults:
		content = a.viewResults()
	case ScreenFolders:
		if a.folderScreen != nil {
			content = a.folderScreen.View()
		}
	case ScreenSessions:
		if a.sessionScreen != nil {
			content = a.sessionScreen.View()
		}
	case ScreenAdmin:
		if a.adminScreen != nil {
			content = a.adminScreen.View()
		}
	}

	if a.loading != "" {
		content = a.spinner.View() + " " + styles.Help.Render(a.loading) + a.viewOAuthURL() + "\n\n" + content
	}
	if a.notice != "" {
		content = styles.AlertSuccess.Render(icons.CheckOK.String()+" "+a.notice) + "\n" + content
	}
	if a.err != "" {
		content = styles.AlertError.Render(a.err) + "\n" + content
	}

	if a.showSidebar() {
		content = lipgloss.JoinHorizontal(lipgloss.Top, a.renderSidebar(), " ", content)
	}
	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	if a.login == nil {
		return ""
	}
	return styles.Panel.Width(min(a.contentWidth(), 70)).Render(a.login.View())
}

func (a *App) viewOAuthURL() string {
	if a.oauthURL == "" {
		return ""
	}
	return "\n" + styles.Help.Render("Si le navigateur ne s'ouvre pas : "+a.oauthURL) +
		"\n" + styles.Help.Render("Échap pour annuler")
}

func (a *App) viewUpload() string {
	if a.uploading {
		var sb strings.Builder
		sb.WriteString(styles.Title.Render(icons.Upload.String() + " Import de " + a.uploadName))
		sb.WriteString("\n\n")
		sb.WriteString(a.progress.ViewAs(a.uploadFrac))
		if a.uploadLabel != "" {
			sb.WriteString("\n" + styles.Help.Render(a.uploadLabel))
		}
		return sb.String()
	}
	if a.picker == nil {
		return ""
	}
	return a.picker.View()
}

// viewResults renders the results with an actions pane
func (a *App) viewResults() string {
	if a.resultsView == nil {
		return ""
	}
	leftPane := styles.ActivePanel.Width(a.resultsWidth()).Render(a.resultsView.View())

	rightContent := styles.Title.Render("Actions") + "\n\n"
	rightContent += icons.Refresh.String() + " Recommencer\n"
	if a.lastRequest.FileID != 0 {
		rightContent += icons.Quiz.String() + " Nouveau QCM\n"
	}
	rightContent += icons.Back.String() + " Retour au menu\n"
	rightContent += icons.Quit.String() + " Quitter\n"
	if len(a.attempts) > 1 {
		rightContent += "\n" + styles.Help.Render(fmt.Sprintf("%d tentatives", len(a.attempts))) + "\n"
		rightContent += widgets.ScoreTrend(a.attempts, a.actionsWidth()-panelPadding)
	}
	rightPane := styles.Panel.Width(a.actionsWidth()).Render(rightContent)

	if a.contentWidth() < minTerminalWidth {
		return lipgloss.JoinVertical(lipgloss.Left, leftPane, rightPane)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

func (a *App) showSidebar() bool {
	return a.sidebar != nil && a.screen != ScreenLogin && a.screen != ScreenMenu && a.auth.Snapshot().LoggedIn()
}

func (a *App) renderSidebar() string {
	m := menu.New(a.auth.IsAdmin())
	return styles.Sidebar.Render(m.Sidebar(a.sidebar.Collapsed(), a.activeItem()))
}

func (a *App) activeItem() menu.ItemID {
	switch a.screen {
	case ScreenUpload:
		return menu.ItemUpload
	case ScreenFolders:
		return menu.ItemFolders
	case ScreenSessions:
		return menu.ItemSessions
	case ScreenAdmin:
		return menu.ItemAdmin
	default:
		return menu.ItemGenerate
	}
}

// frameWidth is the width of header and footer
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// contentWidth is what remains next to the sidebar
func (a *App) contentWidth() int {
	w := a.frameWidth()
	if a.showSidebar() {
		w -= lipgloss.Width(a.renderSidebar()) + 1
	}
	return w
}

// resultsWidth calculates the width for the results pane
func (a *App) resultsWidth() int {
	if a.contentWidth() < minTerminalWidth {
		return a.contentWidth() - panelPadding
	}
	return (a.contentWidth()-panelPadding)*2/3
}

// actionsWidth calculates the width for the actions pane
func (a *App) actionsWidth() int {
	if a.contentWidth() < minTerminalWidth {
		return a.contentWidth() - panelPadding
	}
	return a.contentWidth() - a.resultsWidth() - panelPadding*2
}

// contentHeight calculates the height available between header and footer
func (a *App) contentHeight() int {
	return max(a.height-4, 10)
}

// renderHeader creates the header bar with app branding and the signed-in user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Quizz PDF"))

	rightText := ""
	snap := a.auth.Snapshot()
	if snap.LoggedIn() {
		who := snap.User.DisplayName()
		if r := []rune(who); len(r) > 30 {
			who = string(r[:29]) + "…"
		}
		rightText = " " + contextStyle.Render(who)
		if snap.User.IsSuperuser {
			rightText += " " + widgets.RoleBadge(true)
		}
		if exp, ok := auth.TokenExpiry(snap.Token); ok {
			rightText += styles.Help.Render(" · expire " + sessions.RelativeTime(exp, time.Now()))
		}
		rightText += " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText)) // -4 for ╭─ and ─╮
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var styledShortcuts []string
	for _, s := range a.shortcuts() {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}
	leftText := " " + strings.Join(styledShortcuts, "  ") + " "

	rightText := ""
	if a.screen == ScreenQuiz && a.answerScreen != nil {
		s := a.answerScreen.Session()
		rightText = " " + statusStyle.Render(fmt.Sprintf("%d/%d", s.AnsweredCount(), s.Len())) + " "
	}

	// -4 for ╰─ and ─╯; shortcuts are dropped from the right when they do not fit
	for len(styledShortcuts) > 0 && lipgloss.Width(leftText)+lipgloss.Width(rightText)+4 > width {
		styledShortcuts = styledShortcuts[:len(styledShortcuts)-1]
		leftText = " " + strings.Join(styledShortcuts, "  ") + " "
	}
	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText))
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// shortcuts lists the keys of the current screen
func (a *App) shortcuts() []string {
	if a.uploading {
		return []string{"Esc Annuler"}
	}
	if a.loading != "" {
		return []string{"Esc Annuler", "ctrl+c Quitter"}
	}
	switch a.screen {
	case ScreenLogin:
		return []string{"Tab Champ", "Entrée Valider", "ctrl+r Inscription", "ctrl+g Google", "Esc Quitter"}
	case ScreenMenu:
		return []string{"↑↓ Naviguer", "Entrée Choisir", "q Quitter"}
	case ScreenUpload:
		return []string{"↑↓ Naviguer", "Entrée Choisir", "Esc Retour", "ctrl+b Menu"}
	case ScreenGenerate:
		return []string{"↑↓ Choisir", "Entrée Valider", "Esc Annuler"}
	case ScreenQuiz:
		return []string{"↑↓ Choix", "Entrée Répondre", "←→ Question", "s Valider", "Esc Abandonner"}
	case ScreenResults:
		return []string{"r Recommencer", "n Nouveau QCM", "b Menu", "q Quitter"}
	case ScreenFolders:
		return []string{"Entrée Ouvrir", "n Nouveau", "r Renommer", "d Supprimer", "u Importer", "b Retour"}
	case ScreenSessions:
		return []string{"x Révoquer", "A Autres", "D Toutes", "r Actualiser", "b Retour"}
	case ScreenAdmin:
		return []string{"Tab Onglet", "/ Filtrer", "d Désactiver", "e Activer", "x Révoquer", "X Tout révoquer", "b Retour"}
	}
	return nil
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(opts Options) error {
	app := New(opts)
	defer app.cancel()

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
