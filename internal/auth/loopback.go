// ABOUTME: Loopback HTTP receiver for the Google OAuth redirect
// ABOUTME: Resolves the callback into an access token, exchanging a code when needed

package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultCallbackPort matches the redirect URI registered for the web client
	DefaultCallbackPort = 5173

	CallbackPath = "/auth/callback"
	ErrorPath    = "/auth/error"

	msgOAuthFailed = "Une erreur s'est produite lors de l'authentification"
)

var ErrStateMismatch = errors.New("paramètre state OAuth invalide")

// Exchanger trades an authorization code for a token
type Exchanger interface {
	GoogleCallback(ctx context.Context, code, state string) (*oauth2.Token, error)
}

// OAuthError is an error reported by the provider through the redirect
type OAuthError struct {
	Code        string
	Description string
}

func (e *OAuthError) Error() string {
	if e.Description != "" {
		return "Échec de l'authentification Google: " + e.Description
	}
	if e.Code != "" {
		return "Échec de l'authentification Google: " + e.Code
	}
	return msgOAuthFailed
}

// callback is what the redirect carried
type callback struct {
	token string
	code  string
	state string
	err   error
}

// Loopback listens on localhost for a single OAuth redirect
type Loopback struct {
	listener net.Listener
	server   *http.Server
	state    string

	once    sync.Once
	results chan callback
}

// NewLoopback starts listening on 127.0.0.1:port. Port 0 picks a free port.
func NewLoopback(port int) (*Loopback, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen for OAuth callback: %w", err)
	}

	l := &Loopback{
		listener: ln,
		state:    oauth2.GenerateVerifier(),
		results:  make(chan callback, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, l.handleCallback)
	mux.HandleFunc(ErrorPath, l.handleError)
	l.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("OAuth callback server stopped", "error", err)
		}
	}()

	slog.Debug("OAuth callback server listening", "addr", ln.Addr().String())
	return l, nil
}

// Port is the port actually bound
func (l *Loopback) Port() int {
	return l.listener.Addr().(*net.TCPAddr).Port
}

// RedirectURI is the callback URL handed to the backend
func (l *Loopback) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", l.Port(), CallbackPath)
}

// State is the anti-forgery value sent with the login URL
func (l *Loopback) State() string {
	return l.state
}

// Wait blocks until the redirect arrives and returns the access token.
// A code is exchanged through ex.
func (l *Loopback) Wait(ctx context.Context, ex Exchanger) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case cb := <-l.results:
		if cb.err != nil {
			return "", cb.err
		}
		if cb.token != "" {
			return cb.token, nil
		}
		tok, err := ex.GoogleCallback(ctx, cb.code, cb.state)
		if err != nil {
			return "", err
		}
		return tok.AccessToken, nil
	}
}

// Close stops the server
func (l *Loopback) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return l.server.Shutdown(ctx)
}

func (l *Loopback) handleCallback(w http.ResponseWriter, r *http.Request) {
	cb := parseCallback(r.URL.Query(), l.state)
	l.deliver(cb)
	writeCallbackPage(w, cb.err)
}

func (l *Loopback) handleError(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cb := callback{err: &OAuthError{Code: q.Get("error"), Description: q.Get("error_description")}}
	l.deliver(cb)
	writeCallbackPage(w, cb.err)
}

// deliver keeps the first redirect; browsers may retry or prefetch
func (l *Loopback) deliver(cb callback) {
	l.once.Do(func() { l.results <- cb })
}

// parseCallback reads token, access_token or code+state. A code must come
// with the state that was sent. The backend's token redirect carries no state,
// so a bare token is only checked later by the profile fetch; any local page
// hitting the callback during the wait can still supply one.
func parseCallback(q url.Values, want string) callback {
	if e := q.Get("error"); e != "" {
		return callback{err: &OAuthError{Code: e, Description: q.Get("error_description")}}
	}

	state := q.Get("state")
	if state != "" && state != want {
		return callback{err: ErrStateMismatch}
	}

	if tok := q.Get("token"); tok != "" {
		return callback{token: tok}
	}
	if tok := q.Get("access_token"); tok != "" {
		return callback{token: tok}
	}
	if code := q.Get("code"); code != "" {
		if state == "" {
			return callback{err: ErrStateMismatch}
		}
		return callback{code: code, state: state}
	}
	return callback{err: &OAuthError{}}
}

func writeCallbackPage(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "<html><body><h2>Échec de l'authentification</h2><p>%s</p></body></html>", html.EscapeString(err.Error()))
		return
	}
	fmt.Fprint(w, "<html><body><h2>Connexion réussie</h2><p>Vous pouvez fermer cet onglet et revenir au terminal.</p></body></html>")
}
