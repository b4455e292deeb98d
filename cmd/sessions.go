// ABOUTME: Session commands for the logged-in account
// ABOUTME: Lists active logins and revokes them one by one or in a batch

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/sessions"
)

var (
	includeCurrent    bool
	revokeConcurrency int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage the active sessions of your account",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active sessions",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runSessionsList(ctx, d, os.Stdout, time.Now())
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var sessionsRevokeCmd = &cobra.Command{
	Use:   "revoke <session_id>",
	Short: "Revoke one session",
	Long: `Revoke one session by id. The local list only changes once the backend
has confirmed the revocation. The current session cannot be revoked this way;
use "quizz logout".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runSessionsRevoke(ctx, d, os.Stdout, args[0])
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var sessionsRevokeAllCmd = &cobra.Command{
	Use:   "revoke-all",
	Short: "Revoke every other session",
	Long: `Revoke every session except the current one. With --include-current the
current session is ended last and the local token is cleared.

Exit codes:
  0  All sessions revoked
  1  At least one revocation failed (the others were still attempted)
  2  Error`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runSessionsRevokeAll(ctx, d, os.Stdout, !includeCurrent, revokeConcurrency)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	sessionsRevokeAllCmd.Flags().BoolVar(&includeCurrent, "include-current", false, "Also end the current session")
	sessionsRevokeAllCmd.Flags().IntVar(&revokeConcurrency, "concurrency", sessions.DefaultConcurrency, "Revocations in flight at once")

	sessionsCmd.AddCommand(sessionsListCmd, sessionsRevokeCmd, sessionsRevokeAllCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func newSessionService(d *deps, concurrency int) *sessions.Service {
	return sessions.NewService(d.client, d.auth, sessions.WithConcurrency(concurrency))
}

// runSessionsList fetches and prints the session list
func runSessionsList(ctx context.Context, d *deps, w io.Writer, now time.Time) int {
	svc := newSessionService(d, sessions.DefaultConcurrency)
	if err := svc.Refresh(ctx); err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionsJSON(svc.List()))
	} else {
		fmt.Fprintln(w, formatSessionsHuman(svc.List(), now))
	}
	return 0
}

// runSessionsRevoke revokes one session after loading the list
func runSessionsRevoke(ctx context.Context, d *deps, w io.Writer, rawID string) int {
	id, err := client.ParseID(rawID)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	svc := newSessionService(d, sessions.DefaultConcurrency)
	if err := svc.Refresh(ctx); err != nil {
		return fail(w, err)
	}
	if cur, ok := svc.Current(); ok && cur.ID == id {
		fmt.Fprintln(w, `Error: cannot revoke the current session, use "quizz logout"`)
		return 2
	}

	if err := svc.Revoke(ctx, id); err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, jsonString(map[string]any{"revoked": id, "remaining": len(svc.List())}))
	} else {
		fmt.Fprintf(w, "Session %s revoked (%d remaining)\n", id, len(svc.List()))
	}
	return 0
}

// runSessionsRevokeAll revokes every other session and reports partial failure
func runSessionsRevokeAll(ctx context.Context, d *deps, w io.Writer, keepCurrent bool, concurrency int) int {
	svc := newSessionService(d, concurrency)
	if err := svc.Refresh(ctx); err != nil {
		return fail(w, err)
	}

	res, err := svc.RevokeAll(ctx, keepCurrent)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatBatchJSON(res, err))
	} else {
		fmt.Fprintln(w, formatBatchHuman(res, err))
	}

	if !res.OK() || err != nil {
		return 1
	}
	return 0
}

// formatSessionsHuman formats the session list for human readability
func formatSessionsHuman(list []client.Session, now time.Time) string {
	if len(list) == 0 {
		return "Aucune session active"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-3s %-6s %-10s %-10s %-16s %-14s %s\n", "", "ID", "DEVICE", "BROWSER", "IP", "CREATED", "EXPIRES")
	for _, s := range list {
		marker := ""
		if s.Current {
			marker = "*"
		}
		expires := sessions.FormatExpiry(s.ExpiresAt.Time)
		if sessions.ExpiringSoon(s.ExpiresAt.Time, now) {
			expires += " (bientôt)"
		}
		fmt.Fprintf(&b, "%-3s %-6s %-10s %-10s %-16s %-14s %s\n",
			marker,
			s.ID,
			sessions.DeviceType(s.UserAgent),
			sessions.BrowserName(s.UserAgent),
			s.IPAddress,
			sessions.RelativeTime(s.CreatedAt.Time, now),
			expires)
	}
	fmt.Fprintf(&b, "\n%d session(s), * = session actuelle", len(list))
	return b.String()
}

// formatSessionsJSON formats the session list as JSON
func formatSessionsJSON(list []client.Session) string {
	if list == nil {
		list = []client.Session{}
	}
	return jsonString(map[string]any{
		"count":    len(list),
		"sessions": list,
	})
}

// formatBatchHuman summarises a batch revocation
func formatBatchHuman(res sessions.BatchResult, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Revoked: %d", len(res.Revoked))
	if len(res.Skipped) > 0 {
		fmt.Fprintf(&b, "\nKept:    %d (current session)", len(res.Skipped))
	}
	for _, f := range res.Failed {
		fmt.Fprintf(&b, "\n✗ session %s: %s", f.ID, errorMessage(f.Err))
	}
	if res.SignedOut {
		b.WriteString("\nCurrent session ended, you are logged out")
	}
	if err != nil {
		fmt.Fprintf(&b, "\nWarning: %v", err)
	}

	if res.OK() && err == nil {
		b.WriteString("\nPASSED: all sessions revoked")
	} else if !res.OK() {
		fmt.Fprintf(&b, "\nFAILED: %d revocation(s) failed", len(res.Failed))
	}
	return b.String()
}

// formatBatchJSON formats a batch revocation as JSON
func formatBatchJSON(res sessions.BatchResult, err error) string {
	failed := make([]map[string]any, len(res.Failed))
	for i, f := range res.Failed {
		failed[i] = map[string]any{"id": f.ID, "error": errorMessage(f.Err)}
	}

	status := "passed"
	if !res.OK() || err != nil {
		status = "failed"
	}

	out := map[string]any{
		"status":     status,
		"revoked":    idsOrEmpty(res.Revoked),
		"skipped":    idsOrEmpty(res.Skipped),
		"failed":     failed,
		"signed_out": res.SignedOut,
	}
	if err != nil {
		out["error"] = err.Error()
	}
	return jsonString(out)
}

func idsOrEmpty(ids []client.ID) []client.ID {
	if ids == nil {
		return []client.ID{}
	}
	return ids
}
