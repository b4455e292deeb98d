// ABOUTME: Process-wide authentication state: token, profile, loading and error
// ABOUTME: Profile fetches are tagged with a token generation so stale results are dropped

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/store"
)

const (
	msgSessionExpired = "Session expirée, veuillez vous reconnecter"
	msgLoginFailed    = "Identifiants invalides"
	msgRegisterFailed = "Erreur lors de l'inscription"
	msgMissingFields  = "Veuillez remplir tous les champs"
)

// ErrNoToken is returned by operations that need a logged-in user
var ErrNoToken = errors.New("aucun utilisateur connecté")

// errStale marks a profile response for a token that is no longer current
var errStale = errors.New("stale profile response")

// API is the subset of the backend client the provider needs
type API interface {
	Login(ctx context.Context, email, password string) (*client.TokenResponse, error)
	Register(ctx context.Context, email, password string) error
	Me(ctx context.Context, token string) (*client.User, error)
	Logout(ctx context.Context, token string) error
}

// State is an immutable snapshot of the provider
type State struct {
	Token       string
	User        *client.User
	Loading     bool
	Initialized bool
	Error       string
}

// LoggedIn reports whether both token and profile are present
func (s State) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}

// Provider owns "who is logged in" for the lifetime of the program
type Provider struct {
	api   API
	store store.Store

	mu        sync.Mutex
	state     State
	gen       uint64
	listeners map[int]func(State)
	nextID    int

	fetches singleflight.Group
}

// New rehydrates the token from s synchronously. The profile is fetched by Start.
func New(api API, s store.Store) *Provider {
	p := &Provider{
		api:       api,
		store:     s,
		listeners: make(map[int]func(State)),
	}
	p.state.Token = p.loadToken()
	return p
}

func (p *Provider) loadToken() string {
	for _, key := range []string{store.KeyToken, store.KeyLegacyToken} {
		v, ok, err := p.store.Get(key)
		if err != nil {
			slog.Warn("Failed to read persisted token", "key", key, "error", err)
			continue
		}
		if ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Snapshot returns the current state
func (p *Provider) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Provider) snapshotLocked() State {
	s := p.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Token returns the current bearer token, empty when logged out
func (p *Provider) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Token
}

// IsAdmin reports whether the logged-in user is a superuser
func (p *Provider) IsAdmin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.User != nil && p.state.User.IsSuperuser
}

// Subscribe registers fn to be called after every state transition
func (p *Provider) Subscribe(fn func(State)) (cancel func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// update applies fn under the lock and then notifies listeners outside it
func (p *Provider) update(fn func(s *State)) State {
	p.mu.Lock()
	fn(&p.state)
	snap := p.snapshotLocked()
	listeners := make([]func(State), 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return snap
}

// Start fetches the profile for a rehydrated token
func (p *Provider) Start(ctx context.Context) error {
	p.mu.Lock()
	token, gen := p.state.Token, p.gen
	p.mu.Unlock()

	if token == "" {
		p.update(func(s *State) {
			s.Loading = false
			s.Initialized = true
		})
		return nil
	}

	p.update(func(s *State) { s.Loading = true })
	err := p.refetch(ctx, gen, token)
	p.update(func(s *State) { s.Initialized = true })
	if errors.Is(err, errStale) {
		return nil
	}
	return err
}

// Login authenticates and commits token and profile together.
// On failure Token and User keep their previous values.
func (p *Provider) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		p.update(func(s *State) { s.Error = msgMissingFields })
		return errors.New(msgMissingFields)
	}

	p.update(func(s *State) {
		s.Loading = true
		s.Error = ""
	})

	tok, err := p.api.Login(ctx, email, password)
	if err != nil {
		return p.fail(err, msgLoginFailed)
	}

	user, err := p.api.Me(ctx, tok.AccessToken)
	if err != nil {
		slog.Warn("Profile fetch after login failed", "email", email, "error", err)
		return p.fail(err, msgLoginFailed)
	}

	p.mu.Lock()
	p.gen++
	p.mu.Unlock()
	p.persist(tok.AccessToken)
	p.update(func(s *State) {
		s.Token = tok.AccessToken
		s.User = user
		s.Loading = false
		s.Initialized = true
		s.Error = ""
	})

	slog.Info("Logged in", "email", user.Email, "token", Redact(tok.AccessToken))
	return nil
}

// Register creates the account and then logs in with the same credentials
func (p *Provider) Register(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		p.update(func(s *State) { s.Error = msgMissingFields })
		return errors.New(msgMissingFields)
	}

	p.update(func(s *State) {
		s.Loading = true
		s.Error = ""
	})

	if err := p.api.Register(ctx, email, password); err != nil {
		return p.fail(err, msgRegisterFailed)
	}
	slog.Info("Account registered", "email", email)

	return p.Login(ctx, email, password)
}

// SetToken injects a token obtained out of band (OAuth) and fetches its profile.
// A rejected token logs out. An empty token is a logout.
func (p *Provider) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		p.Logout()
		return nil
	}

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	p.persist(token)
	p.update(func(s *State) {
		s.Token = token
		s.User = nil
		s.Loading = true
		s.Error = ""
	})

	err := p.refetch(ctx, gen, token)
	p.update(func(s *State) { s.Initialized = true })
	if errors.Is(err, errStale) {
		return nil
	}
	return err
}

// refetch loads the profile for token and reconciles it with generation gen.
// Any failure other than an abort logs out.
func (p *Provider) refetch(ctx context.Context, gen uint64, token string) error {
	v, err, _ := p.fetches.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		return p.api.Me(ctx, token)
	})

	p.mu.Lock()
	stale := p.gen != gen
	if stale {
		p.mu.Unlock()
		slog.Debug("Discarding stale profile response", "token", Redact(token))
		return errStale
	}

	if err == nil {
		p.mu.Unlock()
		p.update(func(s *State) {
			s.User = v.(*client.User)
			s.Loading = false
			s.Error = ""
		})
		return nil
	}

	if errors.Is(err, client.ErrAborted) {
		p.mu.Unlock()
		p.update(func(s *State) { s.Loading = false })
		return err
	}

	p.gen++
	p.mu.Unlock()

	// An unreachable server is reported as such; the token is dropped either way.
	msg, ret := msgSessionExpired, errors.New(msgSessionExpired)
	if isTransport(err) {
		msg, ret = client.UserMessage(err), err
	}
	slog.Warn("Profile fetch failed, logging out", "token", Redact(token), "error", err)
	p.clearPersisted()
	p.update(func(s *State) {
		s.Token = ""
		s.User = nil
		s.Loading = false
		s.Error = msg
	})
	return ret
}

func isTransport(err error) bool {
	var te *client.TransportError
	return errors.As(err, &te) || errors.Is(err, client.ErrTimeout)
}

// fail records a login or registration failure without touching Token or User
func (p *Provider) fail(err error, fallback string) error {
	msg := client.UserMessage(err)
	if errors.Is(err, client.ErrEmptyToken) {
		msg = fallback
	}
	p.update(func(s *State) {
		s.Loading = false
		if msg != "" {
			s.Error = msg
		}
	})
	if msg == "" {
		return err
	}
	return errors.New(msg)
}

// Logout clears the token and profile locally. No request is made.
func (p *Provider) Logout() {
	p.mu.Lock()
	p.gen++
	p.mu.Unlock()

	p.clearPersisted()
	p.update(func(s *State) {
		s.Token = ""
		s.User = nil
		s.Loading = false
	})
}

// SignOut tells the backend to drop the token, then logs out regardless
func (p *Provider) SignOut(ctx context.Context) {
	if token := p.Token(); token != "" {
		if err := p.api.Logout(ctx, token); err != nil {
			slog.Warn("Server logout failed", "error", err)
		}
	}
	p.Logout()
}

// ClearError dismisses the current error
func (p *Provider) ClearError() {
	p.update(func(s *State) { s.Error = "" })
}

// Err returns the current error as an error value, nil when there is none
func (p *Provider) Err() error {
	if msg := p.Snapshot().Error; msg != "" {
		return errors.New(msg)
	}
	return nil
}

func (p *Provider) persist(token string) {
	for _, key := range []string{store.KeyToken, store.KeyLegacyToken} {
		if err := p.store.Set(key, token); err != nil {
			slog.Warn("Failed to persist token", "key", key, "error", err)
		}
	}
}

func (p *Provider) clearPersisted() {
	if err := p.store.Delete(store.KeyToken, store.KeyLegacyToken); err != nil {
		slog.Warn("Failed to clear persisted token", "error", err)
	}
}
