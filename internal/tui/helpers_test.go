// ABOUTME: Shared fixtures for app tests
// ABOUTME: A minimal backend over httptest and an App wired against it

package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/auth"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/config"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/prefs"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/store"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/upload"
)

const (
	testEmail    = "user@example.com"
	testPassword = "secret123"
	userToken    = "abc"
	adminToken   = "root"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// testBackend counts the calls tests assert on
type testBackend struct {
	logouts atomic.Int32
}

func (b *testBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	path := r.URL.Path

	switch {
	case path == "/auth/login":
		r.ParseForm()
		if r.PostForm.Get("username") != testEmail || r.PostForm.Get("password") != testPassword {
			detail(w, 401, "Identifiants invalides")
			return
		}
		writeJSON(w, 200, map[string]string{"access_token": userToken, "token_type": "bearer"})

	case path == "/custom/me":
		switch token {
		case userToken:
			writeJSON(w, 200, map[string]any{"id": 1, "email": testEmail, "is_active": true, "full_name": "Marie Curie"})
		case adminToken:
			writeJSON(w, 200, map[string]any{"id": 2, "email": "root@example.com", "is_active": true, "is_superuser": true})
		default:
			detail(w, 401, "Could not validate credentials")
		}

	case token != userToken && token != adminToken:
		detail(w, 401, "Not authenticated")

	case path == "/auth/logout":
		b.logouts.Add(1)
		writeJSON(w, 200, map[string]string{"message": "Déconnexion réussie"})

	case path == "/auth/sessions/active":
		writeJSON(w, 200, map[string]any{"count": 2, "sessions": []client.Session{
			{ID: 1, IPAddress: "10.0.0.1", UserAgent: "Mozilla/5.0 (X11; Linux x86_64) Firefox/120.0", Current: true},
			{ID: 2, IPAddress: "10.0.0.2", UserAgent: "Mozilla/5.0 (iPhone) Safari/604.1"},
		}})

	case r.Method == http.MethodDelete && path == "/auth/sessions/1":
		detail(w, 400, "Vous ne pouvez pas révoquer votre session courante. Utilisez /auth/logout à la place.")

	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/auth/sessions/"):
		writeJSON(w, 200, map[string]string{"message": "Session révoquée"})

	case path == "/pdf/list":
		writeJSON(w, 200, map[string]any{"success": true, "pdfs": []map[string]any{
			{"id": 12, "filename": "cours.pdf", "file_size": 2048, "uploaded_at": "2026-01-05T10:00:00"},
		}})

	case path == "/folders/list":
		writeJSON(w, 200, map[string]any{"success": true, "folders": []map[string]any{
			{"id": 4, "name": "Biologie", "subfolder_count": 0, "file_count": 2},
		}})

	case strings.HasPrefix(path, "/admin/") && token != adminToken:
		detail(w, 403, "Accès refusé")

	case path == "/admin/users":
		writeJSON(w, 200, map[string]any{"success": true, "users": []client.AdminUser{
			{ID: 1, Email: testEmail, IsActive: true, LoginType: "password"},
			{ID: 2, Email: "root@example.com", IsActive: true, IsSuperuser: true, LoginType: "oauth"},
		}})

	case path == "/admin/sessions":
		writeJSON(w, 200, map[string]any{"success": true, "sessions": []client.AdminSession{
			{TokenID: 10, UserID: 1, UserEmail: testEmail, IsActive: true},
		}})

	default:
		detail(w, 404, "Not Found")
	}
}

func sampleQCM(n int) *client.QCM {
	qcm := &client.QCM{PDFTitle: "cours.pdf"}
	for i := 1; i <= n; i++ {
		qcm.Questions = append(qcm.Questions, client.Question{
			ID:   client.ID(i),
			Text: fmt.Sprintf("Question %d ?", i),
			Choices: []client.Choice{
				{ID: "A", Text: "Réponse A"},
				{ID: "B", Text: "Réponse B"},
			},
			CorrectAnswerID: "A",
		})
	}
	return qcm
}

// newTestApp returns an app whose store holds token ("" for none)
func newTestApp(t *testing.T, token string) *App {
	t.Helper()
	return newTestAppWith(t, token, &testBackend{})
}

func newTestAppWith(t *testing.T, token string, backend *testBackend) *App {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	s := store.NewMemory()
	if token != "" {
		if err := s.Set(store.KeyToken, token); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}
	}

	base := client.New(&config.Config{APIURL: server.URL})
	provider := auth.New(base, s)

	app := New(Options{
		Client:  base.WithTokenSource(provider),
		Auth:    provider,
		Sidebar: prefs.NewSidebar(s, false),
		Recent:  upload.NewRecent(t.TempDir()),
		PDFDir:  t.TempDir(),
	})
	app.width = 100
	app.height = 40
	t.Cleanup(app.cancel)
	return app
}

// loggedInApp runs the startup session check against the fake backend
func loggedInApp(t *testing.T, token string) *App {
	t.Helper()
	return loggedInAppWith(t, token, &testBackend{})
}

func loggedInAppWith(t *testing.T, token string, backend *testBackend) *App {
	t.Helper()

	app := newTestAppWith(t, token, backend)
	app.Update(app.checkSession()())
	if app.screen != ScreenMenu {
		t.Fatalf("expected menu after session check, got screen %d", app.screen)
	}
	return app
}
