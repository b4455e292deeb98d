// ABOUTME: Tests for the sessions commands
// ABOUTME: Covers listing, pessimistic single revoke and partial batch failure exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
)

func TestSessionsList_Human(t *testing.T) {
	d := setupTest(t, newFakeBackend(), userToken)

	var buf bytes.Buffer
	exitCode := runSessionsList(context.Background(), d, &buf, time.Now())

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	out := buf.String()
	for _, want := range []string{"Firefox", "Safari", "Chrome", "10.0.0.2", "3 session(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSessionsList_JSON(t *testing.T) {
	d := setupTest(t, newFakeBackend(), userToken)
	jsonOutput = true

	var buf bytes.Buffer
	runSessionsList(context.Background(), d, &buf, time.Now())

	var parsed struct {
		Count    int              `json:"count"`
		Sessions []client.Session `json:"sessions"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if parsed.Count != 3 || !parsed.Sessions[0].Current {
		t.Errorf("unexpected sessions %+v", parsed)
	}
}

func TestSessionsList_NotLoggedIn(t *testing.T) {
	d := setupTest(t, newFakeBackend(), "")

	var buf bytes.Buffer
	if exitCode := runSessionsList(context.Background(), d, &buf, time.Now()); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}

func TestSessionsRevoke_Success(t *testing.T) {
	backend := newFakeBackend()
	d := setupTest(t, backend, userToken)

	var buf bytes.Buffer
	exitCode := runSessionsRevoke(context.Background(), d, &buf, "2")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "2 remaining") {
		t.Errorf("expected remaining count, got %s", buf.String())
	}
	if len(backend.revoked) != 1 || backend.revoked[0] != 2 {
		t.Errorf("expected session 2 revoked, got %v", backend.revoked)
	}
}

func TestSessionsRevoke_NotFound(t *testing.T) {
	d := setupTest(t, newFakeBackend(), userToken)

	var buf bytes.Buffer
	exitCode := runSessionsRevoke(context.Background(), d, &buf, "5")

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Session non trouvée") {
		t.Errorf("expected backend message, got %s", buf.String())
	}
}

func TestSessionsRevoke_CurrentRefused(t *testing.T) {
	backend := newFakeBackend()
	d := setupTest(t, backend, userToken)

	var buf bytes.Buffer
	exitCode := runSessionsRevoke(context.Background(), d, &buf, "1")

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if len(backend.revoked) != 0 {
		t.Errorf("no request should revoke the current session, got %v", backend.revoked)
	}
}

func TestSessionsRevoke_InvalidID(t *testing.T) {
	d := setupTest(t, newFakeBackend(), userToken)

	var buf bytes.Buffer
	if exitCode := runSessionsRevoke(context.Background(), d, &buf, "abc"); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}

func TestSessionsRevokeAll_KeepCurrent(t *testing.T) {
	backend := newFakeBackend()
	d := setupTest(t, backend, userToken)

	var buf bytes.Buffer
	exitCode := runSessionsRevokeAll(context.Background(), d, &buf, true, 2)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if len(backend.sessions) != 1 || !backend.sessions[0].Current {
		t.Errorf("only the current session should remain, got %+v", backend.sessions)
	}
	if !strings.Contains(buf.String(), "PASSED") {
		t.Errorf("expected PASSED, got %s", buf.String())
	}
	if got := persistedToken(t); got != userToken {
		t.Errorf("keep-current must not log out, token is %q", got)
	}
}

func TestSessionsRevokeAll_PartialFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failRevoke[2] = true
	d := setupTest(t, backend, userToken)
	jsonOutput = true

	var buf bytes.Buffer
	exitCode := runSessionsRevokeAll(context.Background(), d, &buf, true, 1)

	if exitCode != 1 {
		t.Errorf("expected exit code 1 on partial failure, got %d", exitCode)
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["status"] != "failed" {
		t.Errorf("expected failed status, got %v", parsed["status"])
	}
	if revoked := parsed["revoked"].([]any); len(revoked) != 1 {
		t.Errorf("the other session should still be revoked, got %v", revoked)
	}
	if failed := parsed["failed"].([]any); len(failed) != 1 {
		t.Errorf("expected one failure, got %v", failed)
	}
}

func TestSessionsRevokeAll_IncludeCurrent(t *testing.T) {
	backend := newFakeBackend()
	d := setupTest(t, backend, userToken)

	var buf bytes.Buffer
	exitCode := runSessionsRevokeAll(context.Background(), d, &buf, false, 1)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if backend.logouts != 1 {
		t.Errorf("current session should end through logout, got %d", backend.logouts)
	}
	if got := persistedToken(t); got != "" {
		t.Errorf("expected local token cleared, got %q", got)
	}
	if !strings.Contains(buf.String(), "logged out") {
		t.Errorf("expected logout notice, got %s", buf.String())
	}
}
