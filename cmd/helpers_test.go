// ABOUTME: Shared fixtures for command tests
// ABOUTME: An in-memory backend served over httptest plus deps wired against it

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/store"
)

const (
	testEmail    = "user@example.com"
	testPassword = "secret123"
	userToken    = "abc"
	adminToken   = "root"
)

// fakeBackend is a small stateful stand-in for the QCM API
type fakeBackend struct {
	mu sync.Mutex

	sessions   []client.Session
	failRevoke map[client.ID]bool
	revoked    []client.ID
	logouts    int
	uploads    int
	lastTunnel string
	users      []client.AdminUser
	adminSess  []client.AdminSession
	disabled   map[client.ID]bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		sessions: []client.Session{
			{ID: 1, IPAddress: "10.0.0.1", UserAgent: "Mozilla/5.0 (X11; Linux x86_64) Firefox/120.0", Current: true},
			{ID: 2, IPAddress: "10.0.0.2", UserAgent: "Mozilla/5.0 (iPhone) Safari/604.1"},
			{ID: 3, IPAddress: "10.0.0.3", UserAgent: "Mozilla/5.0 Chrome/120.0"},
		},
		failRevoke: map[client.ID]bool{},
		users: []client.AdminUser{
			{ID: 1, Email: testEmail, IsActive: true, LoginType: "password"},
			{ID: 2, Email: "root@example.com", IsActive: true, IsSuperuser: true, LoginType: "oauth"},
		},
		adminSess: []client.AdminSession{
			{TokenID: 10, UserID: 1, UserEmail: testEmail, IsActive: true},
			{TokenID: 11, UserID: 1, UserEmail: testEmail, IsActive: true},
			{TokenID: 12, UserID: 2, UserEmail: "root@example.com", IsActive: true},
		},
		disabled: map[client.ID]bool{},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastTunnel = r.Header.Get("Authorization-Tunnel")
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	authed := token == userToken || token == adminToken
	path := r.URL.Path

	switch {
	case path == "/" && r.Method == http.MethodGet:
		writeJSON(w, 200, map[string]string{"message": "API PDF QCM"})

	case path == "/auth/login":
		r.ParseForm()
		if r.PostForm.Get("username") != testEmail || r.PostForm.Get("password") != testPassword {
			detail(w, 401, "Identifiants invalides")
			return
		}
		writeJSON(w, 200, map[string]string{"access_token": userToken, "token_type": "bearer"})

	case path == "/auth/register":
		r.ParseForm()
		if r.PostForm.Get("email") == "taken@example.com" {
			detail(w, 400, "Un compte existe déjà avec cet email")
			return
		}
		writeJSON(w, 201, map[string]any{"id": 3, "email": r.PostForm.Get("email")})

	case path == "/custom/me":
		switch token {
		case userToken:
			writeJSON(w, 200, map[string]any{"id": "1", "email": testEmail, "is_active": true, "full_name": "Marie Curie"})
		case adminToken:
			writeJSON(w, 200, map[string]any{"id": 2, "email": "root@example.com", "is_active": true, "is_superuser": true})
		default:
			detail(w, 401, "Could not validate credentials")
		}

	case !authed:
		detail(w, 401, "Not authenticated")

	case path == "/auth/logout":
		b.logouts++
		writeJSON(w, 200, map[string]string{"message": "Déconnexion réussie"})

	case path == "/auth/sessions/active":
		writeJSON(w, 200, map[string]any{"count": len(b.sessions), "sessions": b.sessions})

	case strings.HasPrefix(path, "/auth/sessions/") && r.Method == http.MethodDelete:
		id := pathID(path)
		for i, s := range b.sessions {
			if s.ID != id {
				continue
			}
			if s.Current {
				detail(w, 400, "Impossible de révoquer la session actuelle")
				return
			}
			if b.failRevoke[id] {
				detail(w, 500, "Erreur interne")
				return
			}
			b.sessions = append(b.sessions[:i], b.sessions[i+1:]...)
			b.revoked = append(b.revoked, id)
			writeJSON(w, 200, map[string]string{"message": "Session révoquée"})
			return
		}
		detail(w, 404, "Session non trouvée")

	case path == "/pdf/upload":
		b.uploads++
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			detail(w, 400, "bad multipart")
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			detail(w, 400, "missing file")
			return
		}
		io.Copy(io.Discard, f)
		writeJSON(w, 200, map[string]any{"success": true, "file_id": 12, "filename": hdr.Filename})

	case path == "/pdf/list":
		writeJSON(w, 200, map[string]any{"success": true, "pdfs": []map[string]any{
			{"id": 12, "filename": "cours.pdf", "file_size": 2048, "uploaded_at": "2026-01-05T10:00:00"},
		}})

	case strings.HasPrefix(path, "/pdf/") && r.Method == http.MethodDelete:
		if pathID(path) != 12 {
			detail(w, 404, "Fichier non trouvé")
			return
		}
		writeJSON(w, 200, map[string]string{"message": "Fichier supprimé"})

	case strings.HasPrefix(path, "/generate-qcm/"):
		r.ParseForm()
		n, _ := strconv.Atoi(r.PostForm.Get("num_questions"))
		writeJSON(w, 200, sampleQCM(n))

	case path == "/folders/list":
		if r.URL.Query().Get("parent_id") == "4" {
			writeJSON(w, 200, map[string]any{"success": true, "folders": []any{}})
			return
		}
		writeJSON(w, 200, map[string]any{"success": true, "folders": []map[string]any{
			{"id": 4, "name": "Biologie", "subfolder_count": 0, "file_count": 2},
		}})

	case path == "/folders/create":
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, map[string]any{"success": true, "folder_id": 5, "name": body["name"]})

	case strings.HasPrefix(path, "/folders/") && r.Method == http.MethodPatch:
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, map[string]any{"id": pathID(path), "name": body["name"]})

	case strings.HasPrefix(path, "/folders/") && r.Method == http.MethodDelete:
		// Biologie (4) holds files
		if pathID(path) == 4 && r.URL.Query().Get("recursive") != "true" {
			detail(w, 400, "Le dossier n'est pas vide. Utilisez recursive=true pour supprimer le dossier et son contenu.")
			return
		}
		writeJSON(w, 200, map[string]string{"message": "Dossier supprimé"})

	case strings.HasPrefix(path, "/admin/") && token != adminToken:
		detail(w, 403, "Accès refusé")

	case path == "/admin/users":
		writeJSON(w, 200, map[string]any{"success": true, "users": b.users})

	case path == "/admin/sessions":
		writeJSON(w, 200, map[string]any{"success": true, "sessions": b.adminSess})

	case strings.HasPrefix(path, "/admin/sessions/") && r.Method == http.MethodDelete:
		id := pathID(path)
		for i, s := range b.adminSess {
			if s.TokenID == id {
				if b.failRevoke[id] {
					detail(w, 500, "Erreur interne")
					return
				}
				b.adminSess = append(b.adminSess[:i], b.adminSess[i+1:]...)
				writeJSON(w, 200, map[string]string{"message": "Session révoquée"})
				return
			}
		}
		detail(w, 404, "Session non trouvée")

	case strings.HasPrefix(path, "/admin/users/"):
		parts := strings.Split(strings.Trim(path, "/"), "/")
		id, _ := client.ParseID(parts[2])
		b.disabled[id] = parts[3] == "disable"
		writeJSON(w, 200, map[string]any{"success": true})

	default:
		detail(w, 404, "Not Found")
	}
}

func pathID(path string) client.ID {
	id, _ := client.ParseID(path[strings.LastIndex(path, "/")+1:])
	return id
}

func sampleQCM(n int) client.QCM {
	if n <= 0 {
		n = client.DefaultQuestionCount
	}
	qcm := client.QCM{PDFTitle: "cours.pdf"}
	for i := 1; i <= n; i++ {
		qcm.Questions = append(qcm.Questions, client.Question{
			ID:   client.ID(i),
			Text: fmt.Sprintf("Question %d ?", i),
			Choices: []client.Choice{
				{ID: "A", Text: "Réponse A"},
				{ID: "B", Text: "Réponse B"},
				{ID: "C", Text: "Réponse C"},
			},
			CorrectAnswerID: "A",
			Explanation:     "Parce que A",
		})
	}
	return qcm
}

// setupTest serves backend and returns deps logged in with token ("" for none)
func setupTest(t *testing.T, backend http.Handler, token string) *deps {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	apiURL = server.URL
	configDir = t.TempDir()
	t.Cleanup(func() {
		apiURL = ""
		configDir = ""
		jsonOutput = false
	})

	if token != "" {
		if err := store.NewFileStore(configDir).Set(store.KeyToken, token); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}
	}

	d, err := newDeps()
	if err != nil {
		t.Fatalf("failed to build deps: %v", err)
	}
	return d
}

// persistedToken reads the token a later command would see
func persistedToken(t *testing.T) string {
	t.Helper()
	v, _, err := store.NewFileStore(configDir).Get(store.KeyToken)
	if err != nil {
		t.Fatalf("failed to read store: %v", err)
	}
	return v
}
