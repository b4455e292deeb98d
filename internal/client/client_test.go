// ABOUTME: Tests for the quizz API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/config"
)

const testTunnel = "Basic dHVubmVsOnNlY3JldA=="

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(&config.Config{
		APIURL:        server.URL,
		TunnelAuth:    testTunnel,
		Timeout:       5 * time.Second,
		UploadTimeout: 5 * time.Second,
	})
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestHealth_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("expected path /, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "API PDF to QCM"})
	})

	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Message != "API PDF to QCM" {
		t.Errorf("expected banner message, got %q", resp.Message)
	}
}

func TestHealth_ConnectionError(t *testing.T) {
	c := New(&config.Config{APIURL: "http://127.0.0.1:1"})
	_, err := c.Health(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !strings.Contains(err.Error(), "cannot connect to backend at http://127.0.0.1:1") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestHealth_ContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Health(ctx)
	if !errors.Is(err, ErrAborted) {
		t.Errorf("expected ErrAborted, got %v", err)
	}
	if msg := UserMessage(err); msg != "" {
		t.Errorf("aborted request should have no user message, got %q", msg)
	}
}

func TestDo_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Do(ctx, Request{Path: "/"}, nil)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestDo_TunnelHeaderAlwaysBearerOnlyWhenAuthenticated(t *testing.T) {
	var gotTunnel, gotAuth, gotRequestID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotTunnel = r.Header.Get(config.TunnelHeader)
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusNoContent)
	}).WithTokenSource(staticToken("tok-1"))

	if err := c.Do(context.Background(), Request{Path: "/public"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTunnel != testTunnel {
		t.Errorf("expected tunnel header on public call, got %q", gotTunnel)
	}
	if gotAuth != "" {
		t.Errorf("expected no bearer on public call, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected X-Request-ID header")
	}

	if err := c.Do(context.Background(), Request{Path: "/private", RequireAuth: true}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTunnel != testTunnel {
		t.Errorf("expected tunnel header on authenticated call, got %q", gotTunnel)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestDo_AuthRequiredWithoutToken(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}).WithTokenSource(staticToken(""))

	err := c.Do(context.Background(), Request{Path: "/custom/me", RequireAuth: true}, nil)
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("no request should reach the backend")
	}
}

func TestDo_ErrorBodies(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		fallback string
		want     string
	}{
		{"detail string", 400, `{"detail":"Session non trouvée"}`, "", "Session non trouvée"},
		{"detail list", 422, `{"detail":[{"msg":"field required"},{"msg":"bad email"}]}`, "", "field required; bad email"},
		{"message field", 500, `{"message":"boom"}`, "", "boom"},
		{"error field", 500, `{"error":"kaput"}`, "", "kaput"},
		{"empty body", 502, ``, "", "Erreur 502: Bad Gateway"},
		{"html body", 503, `<html>down</html>`, "", "Erreur 503: Service Unavailable"},
		{"fallback", 401, ``, "Identifiants invalides", "Identifiants invalides"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := c.Do(context.Background(), Request{Path: "/x", DefaultError: tt.fallback}, nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if apiErr.Message != tt.want {
				t.Errorf("expected %q, got %q", tt.want, apiErr.Message)
			}
			if UserMessage(err) != tt.want {
				t.Errorf("UserMessage: expected %q, got %q", tt.want, UserMessage(err))
			}
			if !IsStatus(err, tt.status) {
				t.Errorf("IsStatus(%d) should be true", tt.status)
			}
		})
	}
}

func TestDo_BodyEncodings(t *testing.T) {
	var gotType, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/j", Body: map[string]string{"name": "Cours"}}, nil); err != nil {
		t.Fatal(err)
	}
	if gotType != "application/json" || gotBody != `{"name":"Cours"}` {
		t.Errorf("json body: got %q %q", gotType, gotBody)
	}

	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/f", Body: map[string][]string{"a": {"b"}}}, nil); err != nil {
		t.Fatal(err)
	}
	if gotType != "application/json" {
		t.Errorf("plain maps are JSON, got %q", gotType)
	}

	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/r", Body: strings.NewReader("raw"), ContentType: "text/plain"}, nil); err != nil {
		t.Fatal(err)
	}
	if gotType != "text/plain" || gotBody != "raw" {
		t.Errorf("reader body: got %q %q", gotType, gotBody)
	}

	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/g"}, nil); err != nil {
		t.Fatal(err)
	}
	if gotType != "" {
		t.Errorf("GET without body should have no Content-Type, got %q", gotType)
	}
}

func TestDo_RawTextResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "pong")
	})

	var out string
	if err := c.Do(context.Background(), Request{Path: "/ping"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "pong" {
		t.Errorf("expected raw text, got %q", out)
	}

	var obj map[string]any
	if err := c.Do(context.Background(), Request{Path: "/ping"}, &obj); err == nil {
		t.Error("expected error decoding text into a JSON target")
	}
}

func TestDo_AbsolutePathAndQuery(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	})

	if _, err := c.ListFolders(context.Background(), 0); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}

	c = c.WithTokenSource(staticToken("t"))
	if _, err := c.ListFolders(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	if gotQuery != "parent_id=7" {
		t.Errorf("expected parent_id=7, got %q", gotQuery)
	}

	abs := c.BaseURL() + "/folders/list?x=1"
	if err := c.Do(context.Background(), Request{Path: abs, Query: map[string][]string{"y": {"2"}}}, nil); err != nil {
		t.Fatal(err)
	}
	if gotQuery != "x=1&y=2" {
		t.Errorf("expected merged query, got %q", gotQuery)
	}
}

func TestLogin_FormEncoded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %q", ct)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a bearer token")
		}
		r.ParseForm()
		if r.PostForm.Get("username") != "user@example.com" || r.PostForm.Get("password") != "secret123" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"abc","token_type":"bearer"}`)
	})

	tok, err := c.Login(context.Background(), "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "abc" {
		t.Errorf("expected abc, got %q", tok.AccessToken)
	}
}

func TestLogin_EmptyToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":""}`)
	})

	if _, err := c.Login(context.Background(), "a@b.c", "x"); !errors.Is(err, ErrEmptyToken) {
		t.Errorf("expected ErrEmptyToken, got %v", err)
	}
}

func TestMe_DecodesStringID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			t.Errorf("expected explicit token, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"12","email":"user@example.com","is_active":true,"is_superuser":true}`)
	})

	u, err := c.Me(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 12 || !u.IsSuperuser || u.DisplayName() != "user@example.com" {
		t.Errorf("unexpected user %+v", u)
	}
}

func TestActiveSessions_NaiveTimestamps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"count":1,"sessions":[{"id":5,"created_at":"2024-05-01T10:00:00.123456","expires_at":"2024-05-02T10:00:00","ip_address":"10.0.0.1","user_agent":"curl","current":true}]}`)
	}).WithTokenSource(staticToken("t"))

	sessions, err := c.ActiveSessions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != 5 || !sessions[0].Current {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
	want := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	if !sessions[0].ExpiresAt.Equal(want) {
		t.Errorf("expected %v, got %v", want, sessions[0].ExpiresAt)
	}
}

func TestActiveSessions_KeepsOwner(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"count":1,"sessions":[{"id":5,"user_id":"7","user_email":"marie@example.com","current":true}]}`)
	}).WithTokenSource(staticToken("t"))

	sessions, err := c.ActiveSessions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 || sessions[0].UserID != 7 || sessions[0].UserEmail != "marie@example.com" {
		t.Fatalf("unexpected sessions %+v", sessions)
	}

	data, err := json.Marshal(Session{ID: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(data), "user_id") || strings.Contains(string(data), "user_email") {
		t.Errorf("expected owner fields omitted when empty, got %s", data)
	}
}

func TestRevokeSession_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/auth/sessions/5" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"Session non trouvée"}`)
	}).WithTokenSource(staticToken("t"))

	err := c.RevokeSession(context.Background(), 5)
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestUploadPDF_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary=") {
			t.Errorf("expected multipart content type, got %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get(config.TunnelHeader) != testTunnel {
			t.Error("upload must carry the tunnel header")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "cours.pdf" || string(data) != "%PDF-1.4 body" {
			t.Errorf("unexpected upload %q %q", header.Filename, data)
		}
		if r.FormValue("folder_id") != "3" {
			t.Errorf("expected folder_id 3, got %q", r.FormValue("folder_id"))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"file_id":42,"filename":"cours.pdf"}`)
	}).WithTokenSource(staticToken("t"))

	var last int64
	res, err := c.UploadPDF(context.Background(), strings.NewReader("%PDF-1.4 body"), UploadOptions{
		Filename: "cours.pdf",
		FolderID: 3,
		Progress: func(n int64) { last = n },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DocumentID() != 42 {
		t.Errorf("expected file id 42, got %d", res.DocumentID())
	}
	if last != int64(len("%PDF-1.4 body")) {
		t.Errorf("expected progress to reach full size, got %d", last)
	}
}

func TestGenerateQCM_DefaultCount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-qcm/42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		r.ParseForm()
		if r.PostForm.Get("num_questions") != "5" {
			t.Errorf("expected default count 5, got %q", r.PostForm.Get("num_questions"))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"pdf_title":"Cours","questions":[{"id":1,"text":"Q?","choices":[{"id":"A","text":"a"},{"id":"B","text":"b"}],"correct_answer_id":"B"}]}`)
	}).WithTokenSource(staticToken("t"))

	qcm, err := c.GenerateQCM(context.Background(), 42, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qcm.PDFTitle != "Cours" || len(qcm.Questions) != 1 || qcm.Questions[0].CorrectAnswerID != "B" {
		t.Errorf("unexpected qcm %+v", qcm)
	}
}

func TestCreateFolder_EmptyNameNoRequest(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}).WithTokenSource(staticToken("t"))

	if _, err := c.CreateFolder(context.Background(), "   ", 0); !errors.Is(err, ErrEmptyFolderName) {
		t.Errorf("expected ErrEmptyFolderName, got %v", err)
	}
	if _, err := c.RenameFolder(context.Background(), 1, ""); !errors.Is(err, ErrEmptyFolderName) {
		t.Errorf("expected ErrEmptyFolderName, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("no request should be sent for a blank name")
	}
}

func TestCreateFolder_JSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["name"] != "Cours" || body["parent_id"] != nil {
			t.Errorf("unexpected body %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"folder_id":9,"name":"Cours"}`)
	}).WithTokenSource(staticToken("t"))

	res, err := c.CreateFolder(context.Background(), " Cours ", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FolderID != 9 {
		t.Errorf("expected folder 9, got %d", res.FolderID)
	}
}

func TestDeleteFolder_RecursiveQuery(t *testing.T) {
	var got []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/folders/4" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		got = append(got, r.URL.Query().Get("recursive"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":"Dossier supprimé"}`)
	}).WithTokenSource(staticToken("t"))

	if err := c.DeleteFolder(context.Background(), 4, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.DeleteFolder(context.Background(), 4, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "false" || got[1] != "true" {
		t.Errorf("expected recursive=false then true, got %v", got)
	}
}

func TestGoogleCallback_Exchange(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["code"] != "c0de" || body["state"] != "st" {
			t.Errorf("unexpected body %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"g-tok"}`)
	})

	tok, err := c.GoogleCallback(context.Background(), "c0de", "st")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "g-tok" || tok.Type() != "Bearer" {
		t.Errorf("unexpected token %+v", tok)
	}
}

func TestGoogleLoginURL(t *testing.T) {
	c := New(&config.Config{APIURL: "http://api.test/"})
	got := c.GoogleLoginURL("http://localhost:5173/auth/callback", "xyz")
	want := "http://api.test/auth/google/login?redirect_uri=http%3A%2F%2Flocalhost%3A5173%2Fauth%2Fcallback&state=xyz"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestGoogleAuthorizationURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/google/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("state") != "xyz" {
			t.Errorf("expected state to be forwarded, got %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization-Tunnel") == "" {
			t.Error("expected tunnel header on the login URL request")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"authorization_url":"https://accounts.google.com/o/oauth2/auth?x=1"}`)
	})

	got, err := c.GoogleAuthorizationURL(context.Background(), "http://localhost:5173/auth/callback", "xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://accounts.google.com/o/oauth2/auth?x=1" {
		t.Errorf("unexpected URL %s", got)
	}
}

func TestAdminEndpoints(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/admin/users":
			io.WriteString(w, `{"success":true,"count":1,"users":[{"id":1,"email":"a@b.c","is_active":true,"login_type":"oauth","last_login":null}]}`)
		case "/admin/sessions":
			io.WriteString(w, `{"success":true,"count":1,"sessions":[{"token_id":7,"user_id":1,"user_email":"a@b.c","is_active":true}]}`)
		default:
			io.WriteString(w, `{"success":true}`)
		}
	}).WithTokenSource(staticToken("admin"))
	ctx := context.Background()

	users, err := c.AdminUsers(ctx)
	if err != nil || len(users) != 1 || users[0].LoginType != "oauth" || !users[0].LastLogin.IsZero() {
		t.Fatalf("unexpected users %+v %v", users, err)
	}
	sessions, err := c.AdminSessions(ctx)
	if err != nil || len(sessions) != 1 || sessions[0].TokenID != 7 {
		t.Fatalf("unexpected sessions %+v %v", sessions, err)
	}
	if err := c.DisableUser(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.EnableUser(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.AdminRevokeSession(ctx, 7); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"GET /admin/users",
		"GET /admin/sessions",
		"POST /admin/users/1/disable",
		"POST /admin/users/1/enable",
		"DELETE /admin/sessions/7",
	}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, paths)
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID(" 12 "); err != nil || id != 12 {
		t.Errorf("expected 12, got %d %v", id, err)
	}
	for _, bad := range []string{"", "abc", "0", "-3"} {
		if _, err := ParseID(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
