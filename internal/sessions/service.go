// ABOUTME: Own-account session list with pessimistic revocation
// ABOUTME: Batch revoke continues on error, reports failures and reconciles with the server

package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
)

// DefaultConcurrency revokes one session at a time
const DefaultConcurrency = 1

// API is the subset of the backend client the service needs
type API interface {
	ActiveSessions(ctx context.Context) ([]client.Session, error)
	RevokeSession(ctx context.Context, id client.ID) error
}

// SignOuter ends the caller's own session. The backend refuses to revoke
// the current session by id, so it goes through logout instead.
type SignOuter interface {
	SignOut(ctx context.Context)
}

// Failure is one revocation that did not succeed
type Failure struct {
	ID  client.ID
	Err error
}

// BatchResult reports the outcome of a batch revocation
type BatchResult struct {
	Revoked []client.ID
	Failed  []Failure
	Skipped []client.ID // the current session under keepCurrent
	// SignedOut is true when the caller's own session was ended
	SignedOut bool
}

// OK reports whether every attempted revocation succeeded
func (r BatchResult) OK() bool {
	return len(r.Failed) == 0
}

// Err joins the individual failures, nil when there are none
func (r BatchResult) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("session %d: %w", f.ID, f.Err))
	}
	return errors.Join(errs...)
}

// Option configures a Service
type Option func(*options)

type options struct {
	concurrency int
}

// WithConcurrency bounds the number of revocations in flight during a batch
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// Service holds the local snapshot of the account's sessions
type Service struct {
	api  API
	auth SignOuter
	opts options

	mu       sync.Mutex
	sessions []client.Session
	err      error
}

// NewService creates a service. auth may be nil when the caller never
// revokes its own session.
func NewService(api API, auth SignOuter, opts ...Option) *Service {
	o := options{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{api: api, auth: auth, opts: o}
}

// List returns a copy of the local session list
func (s *Service) List() []client.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Current returns the session flagged as the caller's own
func (s *Service) Current() (client.Session, bool) {
	for _, sess := range s.List() {
		if sess.Current {
			return sess, true
		}
	}
	return client.Session{}, false
}

// Err returns the last error recorded by Refresh or Revoke
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Service) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Refresh replaces the local list with the server's. A failure keeps the old list.
func (s *Service) Refresh(ctx context.Context) error {
	list, err := s.api.ActiveSessions(ctx)
	if err != nil {
		if !errors.Is(err, client.ErrAborted) {
			s.setErr(err)
		}
		return err
	}

	s.mu.Lock()
	s.sessions = list
	s.err = nil
	s.mu.Unlock()
	return nil
}

// Revoke invalidates one session and removes it locally after the server confirms
func (s *Service) Revoke(ctx context.Context, id client.ID) error {
	if err := s.api.RevokeSession(ctx, id); err != nil {
		slog.Warn("Session revoke failed", "session_id", id, "error", err)
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	s.sessions = without(s.sessions, map[client.ID]bool{id: true})
	s.err = nil
	s.mu.Unlock()
	return nil
}

// RevokeAll revokes every session of the account except, with keepCurrent,
// the caller's own. It always reconciles with the server afterwards, unless
// the caller signed itself out.
func (s *Service) RevokeAll(ctx context.Context, keepCurrent bool) (BatchResult, error) {
	var res BatchResult
	var current *client.Session
	targets := make([]client.ID, 0)
	for _, sess := range s.List() {
		if sess.Current {
			c := sess
			current = &c
			if keepCurrent {
				res.Skipped = append(res.Skipped, sess.ID)
			}
			continue
		}
		targets = append(targets, sess.ID)
	}

	res.Revoked, res.Failed = revokeBatch(ctx, targets, s.opts.concurrency, s.api.RevokeSession)

	revoked := make(map[client.ID]bool, len(res.Revoked))
	for _, id := range res.Revoked {
		revoked[id] = true
	}
	s.mu.Lock()
	s.sessions = without(s.sessions, revoked)
	s.mu.Unlock()

	slog.Info("Batch session revoke",
		"revoked", len(res.Revoked),
		"failed", len(res.Failed),
		"keep_current", keepCurrent)

	if !keepCurrent && current != nil {
		if s.auth == nil {
			res.Failed = append(res.Failed, Failure{ID: current.ID, Err: errors.New("no sign-out handler for the current session")})
		} else {
			s.auth.SignOut(ctx)
			res.Revoked = append(res.Revoked, current.ID)
			res.SignedOut = true
			s.mu.Lock()
			s.sessions = nil
			s.mu.Unlock()
			return res, nil
		}
	}

	if err := s.Refresh(ctx); err != nil {
		return res, fmt.Errorf("failed to refresh sessions after revoke: %w", err)
	}
	return res, nil
}

// revokeBatch runs fn for every id with bounded concurrency. Errors do not
// stop the batch. Results are sorted by id.
func revokeBatch(ctx context.Context, ids []client.ID, limit int, fn func(context.Context, client.ID) error) ([]client.ID, []Failure) {
	var (
		mu      sync.Mutex
		revoked []client.ID
		failed  []Failure
	)

	var g errgroup.Group
	g.SetLimit(limit)
	for _, id := range ids {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = fn(ctx, id)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, Failure{ID: id, Err: err})
			} else {
				revoked = append(revoked, id)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(revoked, func(i, j int) bool { return revoked[i] < revoked[j] })
	sort.Slice(failed, func(i, j int) bool { return failed[i].ID < failed[j].ID })
	return revoked, failed
}

func without(list []client.Session, ids map[client.ID]bool) []client.Session {
	out := make([]client.Session, 0, len(list))
	for _, sess := range list {
		if !ids[sess.ID] {
			out = append(out, sess)
		}
	}
	return out
}
