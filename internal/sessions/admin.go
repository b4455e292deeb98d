// ABOUTME: Administrator view over every account's users and sessions
// ABOUTME: Parallel loading, pessimistic actions and dashboard statistics

package sessions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
)

// AdminAPI is the subset of the backend client the admin service needs
type AdminAPI interface {
	AdminUsers(ctx context.Context) ([]client.AdminUser, error)
	AdminSessions(ctx context.Context) ([]client.AdminSession, error)
	AdminRevokeSession(ctx context.Context, tokenID client.ID) error
	DisableUser(ctx context.Context, userID client.ID) error
	EnableUser(ctx context.Context, userID client.ID) error
}

// Stats are the dashboard counters
type Stats struct {
	TotalUsers     int `json:"total_users"`
	ActiveUsers    int `json:"active_users"`
	ConnectedUsers int `json:"connected_users"`
	OAuthUsers     int `json:"oauth_users"`
	PasswordUsers  int `json:"password_users"`
	ActiveSessions int `json:"active_sessions"`
}

// ComputeStats derives the counters from user and session lists.
// The backend only lists live sessions, and any non-OAuth account counts as password.
func ComputeStats(users []client.AdminUser, sessions []client.AdminSession) Stats {
	st := Stats{TotalUsers: len(users), ActiveSessions: len(sessions)}
	for _, u := range users {
		if u.IsActive {
			st.ActiveUsers++
		}
		if u.LoginType == "oauth" {
			st.OAuthUsers++
		} else {
			st.PasswordUsers++
		}
	}

	connected := make(map[client.ID]bool)
	for _, s := range sessions {
		connected[s.UserID] = true
	}
	st.ConnectedUsers = len(connected)
	return st
}

// AdminService holds the admin dashboard's local snapshot
type AdminService struct {
	api  AdminAPI
	opts options

	mu       sync.Mutex
	users    []client.AdminUser
	sessions []client.AdminSession
}

// NewAdminService creates an admin service
func NewAdminService(api AdminAPI, opts ...Option) *AdminService {
	o := options{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&o)
	}
	return &AdminService{api: api, opts: o}
}

// Refresh loads users and sessions in parallel. Both lists are replaced only
// when both calls succeed.
func (a *AdminService) Refresh(ctx context.Context) error {
	var users []client.AdminUser
	var sessions []client.AdminSession

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = a.api.AdminUsers(gctx)
		if err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sessions, err = a.api.AdminSessions(gctx)
		if err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	a.mu.Lock()
	a.users = users
	a.sessions = sessions
	a.mu.Unlock()
	return nil
}

// Users returns a copy of the user list
func (a *AdminService) Users() []client.AdminUser {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]client.AdminUser(nil), a.users...)
}

// Sessions returns a copy of the session list
func (a *AdminService) Sessions() []client.AdminSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]client.AdminSession(nil), a.sessions...)
}

// Stats refreshes both lists and computes the dashboard counters
func (a *AdminService) Stats(ctx context.Context) (Stats, error) {
	if err := a.Refresh(ctx); err != nil {
		return Stats{}, err
	}
	return ComputeStats(a.Users(), a.Sessions()), nil
}

// RevokeSession invalidates one session and drops it locally on success
func (a *AdminService) RevokeSession(ctx context.Context, tokenID client.ID) error {
	if err := a.api.AdminRevokeSession(ctx, tokenID); err != nil {
		slog.Warn("Admin session revoke failed", "token_id", tokenID, "error", err)
		return err
	}
	a.mu.Lock()
	a.sessions = filterSessions(a.sessions, func(s client.AdminSession) bool { return s.TokenID != tokenID })
	a.mu.Unlock()
	return nil
}

// RevokeAllForUser revokes every session of one user with batch semantics,
// then reloads from the server. Targets come from a fresh listing so sessions
// opened since the last refresh are included.
func (a *AdminService) RevokeAllForUser(ctx context.Context, userID client.ID) (BatchResult, error) {
	live, err := a.api.AdminSessions(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	a.mu.Lock()
	a.sessions = live
	a.mu.Unlock()

	var ids []client.ID
	for _, s := range live {
		if s.UserID == userID {
			ids = append(ids, s.TokenID)
		}
	}

	var res BatchResult
	res.Revoked, res.Failed = revokeBatch(ctx, ids, a.opts.concurrency, a.api.AdminRevokeSession)
	slog.Info("Admin batch session revoke",
		"user_id", userID,
		"revoked", len(res.Revoked),
		"failed", len(res.Failed))

	if err := a.Refresh(ctx); err != nil {
		return res, fmt.Errorf("failed to refresh after revoke: %w", err)
	}
	return res, nil
}

// DisableUser deactivates an account. Its sessions are dropped locally,
// matching what the backend does.
func (a *AdminService) DisableUser(ctx context.Context, userID client.ID) (string, error) {
	if err := a.api.DisableUser(ctx, userID); err != nil {
		return "", err
	}
	email := a.setActive(userID, false)
	a.mu.Lock()
	a.sessions = filterSessions(a.sessions, func(s client.AdminSession) bool { return s.UserID != userID })
	a.mu.Unlock()
	return fmt.Sprintf("Compte de %s désactivé avec succès", email), nil
}

// EnableUser reactivates an account
func (a *AdminService) EnableUser(ctx context.Context, userID client.ID) (string, error) {
	if err := a.api.EnableUser(ctx, userID); err != nil {
		return "", err
	}
	email := a.setActive(userID, true)
	return fmt.Sprintf("Compte de %s activé avec succès", email), nil
}

func (a *AdminService) setActive(userID client.ID, active bool) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	email := userID.String()
	for i := range a.users {
		if a.users[i].ID == userID {
			a.users[i].IsActive = active
			email = a.users[i].Email
		}
	}
	return email
}

// FilterUsers keeps users whose email or full name contains q, case-insensitively
func FilterUsers(users []client.AdminUser, q string) []client.AdminUser {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return users
	}
	var out []client.AdminUser
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Email), q) || strings.Contains(strings.ToLower(u.FullName), q) {
			out = append(out, u)
		}
	}
	return out
}

// FilterSessions keeps sessions whose user email or name contains q
func FilterSessions(sessions []client.AdminSession, q string) []client.AdminSession {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return sessions
	}
	return filterSessions(sessions, func(s client.AdminSession) bool {
		return strings.Contains(strings.ToLower(s.UserEmail), q) || strings.Contains(strings.ToLower(s.UserFullname), q)
	})
}

func filterSessions(list []client.AdminSession, keep func(client.AdminSession) bool) []client.AdminSession {
	out := make([]client.AdminSession, 0, len(list))
	for _, s := range list {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
