// ABOUTME: Tests for the admin commands
// ABOUTME: Superuser gate, statistics, account actions and per-user batch revoke

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/sessions"
)

func TestAdmin_RequiresSuperuser(t *testing.T) {
	d := setupTest(t, newFakeBackend(), userToken)

	var buf bytes.Buffer
	exitCode := runAdmin(context.Background(), d, &buf, nil, runAdminStats)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "droits d'administration") {
		t.Errorf("expected admin rights message, got %s", buf.String())
	}
}

func TestAdminStats_JSON(t *testing.T) {
	d := setupTest(t, newFakeBackend(), adminToken)
	jsonOutput = true

	var buf bytes.Buffer
	if exitCode := runAdmin(context.Background(), d, &buf, nil, runAdminStats); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}

	var st sessions.Stats
	if err := json.Unmarshal(buf.Bytes(), &st); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	want := sessions.Stats{TotalUsers: 2, ActiveUsers: 2, ConnectedUsers: 2, OAuthUsers: 1, PasswordUsers: 1, ActiveSessions: 3}
	if st != want {
		t.Errorf("expected %+v, got %+v", want, st)
	}
}

func TestAdminUsers_Filter(t *testing.T) {
	d := setupTest(t, newFakeBackend(), adminToken)
	adminFilter = "ROOT"
	defer func() { adminFilter = "" }()

	var buf bytes.Buffer
	runAdmin(context.Background(), d, &buf, nil, runAdminUsers)

	if strings.Contains(buf.String(), testEmail) {
		t.Errorf("filter should hide %s, got %s", testEmail, buf.String())
	}
	if !strings.Contains(buf.String(), "1 utilisateur(s)") {
		t.Errorf("expected one user, got %s", buf.String())
	}
}

func TestAdminDisableEnable(t *testing.T) {
	backend := newFakeBackend()
	d := setupTest(t, backend, adminToken)

	var buf bytes.Buffer
	if exitCode := runAdmin(context.Background(), d, &buf, []string{"1"}, runAdminDisable); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Compte de "+testEmail+" désactivé avec succès") {
		t.Errorf("unexpected notice %s", buf.String())
	}
	if !backend.disabled[1] {
		t.Error("expected backend to record the disable")
	}

	buf.Reset()
	runAdmin(context.Background(), d, &buf, []string{"1"}, runAdminEnable)
	if !strings.Contains(buf.String(), "activé avec succès") {
		t.Errorf("unexpected notice %s", buf.String())
	}
}

func TestAdminRevoke_NotFound(t *testing.T) {
	d := setupTest(t, newFakeBackend(), adminToken)

	var buf bytes.Buffer
	if exitCode := runAdmin(context.Background(), d, &buf, []string{"99"}, runAdminRevoke); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
}

func TestAdminRevokeUser_PartialFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failRevoke[11] = true
	d := setupTest(t, backend, adminToken)

	var buf bytes.Buffer
	exitCode := runAdmin(context.Background(), d, &buf, []string{"1"}, runAdminRevokeUser)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if len(backend.adminSess) != 2 {
		t.Errorf("expected session 10 revoked and 11 kept, got %+v", backend.adminSess)
	}
	if !strings.Contains(buf.String(), "FAILED: 1 revocation(s) failed") {
		t.Errorf("unexpected output %s", buf.String())
	}
}
