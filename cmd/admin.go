// ABOUTME: Administrator commands over every account
// ABOUTME: Users, sessions, dashboard statistics and account actions

package cmd

import (
	"context"
	"errors"
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

// errNotAdmin is the local gate; the backend enforces it independently
var errNotAdmin = errors.New("Vous n'avez pas les droits d'administration")

var adminFilter string

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administration of users and sessions (superusers only)",
}

// adminAction builds a subcommand whose run function receives the admin service
func adminAction(use, short string, args cobra.PositionalArgs, run func(ctx context.Context, svc *sessions.AdminService, w io.Writer, args []string) int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			exitCode := withDeps(os.Stdout, func(d *deps) int {
				return runAdmin(ctx, d, os.Stdout, args, run)
			})
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}
}

func init() {
	users := adminAction("users", "List users", cobra.NoArgs, runAdminUsers)
	users.Flags().StringVar(&adminFilter, "filter", "", "Keep users whose email or name contains this text")
	sess := adminAction("sessions", "List every active session", cobra.NoArgs, runAdminSessions)
	sess.Flags().StringVar(&adminFilter, "filter", "", "Keep sessions whose user email or name contains this text")

	adminCmd.AddCommand(
		users,
		sess,
		adminAction("stats", "Show dashboard statistics", cobra.NoArgs, runAdminStats),
		adminAction("disable <user_id>", "Disable an account", cobra.ExactArgs(1), runAdminDisable),
		adminAction("enable <user_id>", "Enable an account", cobra.ExactArgs(1), runAdminEnable),
		adminAction("revoke <token_id>", "Revoke one session", cobra.ExactArgs(1), runAdminRevoke),
		adminAction("revoke-user <user_id>", "Revoke every session of a user", cobra.ExactArgs(1), runAdminRevokeUser),
	)
	rootCmd.AddCommand(adminCmd)
}

// runAdmin checks the caller is a superuser and loads both lists before run
func runAdmin(ctx context.Context, d *deps, w io.Writer, args []string, run func(context.Context, *sessions.AdminService, io.Writer, []string) int) int {
	if err := d.requireLogin(ctx); err != nil {
		return fail(w, err)
	}
	if !d.auth.IsAdmin() {
		fmt.Fprintf(w, "Error: %v\n", errNotAdmin)
		return 2
	}

	svc := sessions.NewAdminService(d.client)
	if err := svc.Refresh(ctx); err != nil {
		return fail(w, err)
	}
	return run(ctx, svc, w, args)
}

func runAdminUsers(ctx context.Context, svc *sessions.AdminService, w io.Writer, args []string) int {
	users := sessions.FilterUsers(svc.Users(), adminFilter)
	if IsJSONOutput() {
		if users == nil {
			users = []client.AdminUser{}
		}
		fmt.Fprintln(w, jsonString(map[string]any{"count": len(users), "users": users}))
		return 0
	}
	fmt.Fprintln(w, formatAdminUsersHuman(users, time.Now()))
	return 0
}

// formatAdminUsersHuman formats the user list for human readability
func formatAdminUsersHuman(users []client.AdminUser, now time.Time) string {
	if len(users) == 0 {
		return "Aucun utilisateur"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-32s %-9s %-9s %-6s %s\n", "ID", "EMAIL", "LOGIN", "STATUS", "ROLE", "LAST LOGIN")
	for _, u := range users {
		status := "active"
		if !u.IsActive {
			status = "disabled"
		}
		role := "user"
		if u.IsSuperuser {
			role = "admin"
		}
		fmt.Fprintf(&b, "%-6s %-32s %-9s %-9s %-6s %s\n",
			u.ID, truncate(u.Email, 32), u.LoginType, status, role, sessions.RelativeTime(u.LastLogin.Time, now))
	}
	fmt.Fprintf(&b, "\n%d utilisateur(s)", len(users))
	return b.String()
}

func runAdminSessions(ctx context.Context, svc *sessions.AdminService, w io.Writer, args []string) int {
	list := sessions.FilterSessions(svc.Sessions(), adminFilter)
	if IsJSONOutput() {
		if list == nil {
			list = []client.AdminSession{}
		}
		fmt.Fprintln(w, jsonString(map[string]any{"count": len(list), "sessions": list}))
		return 0
	}
	fmt.Fprintln(w, formatAdminSessionsHuman(list, time.Now()))
	return 0
}

// formatAdminSessionsHuman formats the session list for human readability
func formatAdminSessionsHuman(list []client.AdminSession, now time.Time) string {
	if len(list) == 0 {
		return "Aucune session active"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-6s %-32s %-14s %s\n", "TOKEN", "USER", "EMAIL", "CREATED", "EXPIRES")
	for _, s := range list {
		fmt.Fprintf(&b, "%-8s %-6s %-32s %-14s %s\n",
			s.TokenID, s.UserID, truncate(s.UserEmail, 32),
			sessions.RelativeTime(s.CreatedAt.Time, now), sessions.FormatExpiry(s.ExpiresAt.Time))
	}
	fmt.Fprintf(&b, "\n%d session(s)", len(list))
	return b.String()
}

func runAdminStats(ctx context.Context, svc *sessions.AdminService, w io.Writer, args []string) int {
	st := sessions.ComputeStats(svc.Users(), svc.Sessions())
	if IsJSONOutput() {
		fmt.Fprintln(w, jsonString(st))
	} else {
		fmt.Fprintln(w, formatStatsHuman(st))
	}
	return 0
}

// formatStatsHuman formats dashboard counters for human readability
func formatStatsHuman(st sessions.Stats) string {
	return fmt.Sprintf(`Users:           %d
Active users:    %d
Connected users: %d
OAuth users:     %d
Password users:  %d
Active sessions: %d`,
		st.TotalUsers, st.ActiveUsers, st.ConnectedUsers, st.OAuthUsers, st.PasswordUsers, st.ActiveSessions)
}

func runAdminDisable(ctx context.Context, svc *sessions.AdminService, w io.Writer, args []string) int {
	id, err := client.ParseID(args[0])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	msg, err := svc.DisableUser(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	fmt.Fprintln(w, msg)
	return 0
}

func runAdminEnable(ctx context.Context, svc *sessions.AdminService, w io.Writer, args []string) int {
	id, err := client.ParseID(args[0])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	msg, err := svc.EnableUser(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	fmt.Fprintln(w, msg)
	return 0
}

func runAdminRevoke(ctx context.Context, svc *sessions.AdminService, w io.Writer, args []string) int {
	id, err := client.ParseID(args[0])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if err := svc.RevokeSession(ctx, id); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Session %s revoked\n", id)
	return 0
}

func runAdminRevokeUser(ctx context.Context, svc *sessions.AdminService, w io.Writer, args []string) int {
	id, err := client.ParseID(args[0])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	res, err := svc.RevokeAllForUser(ctx, id)
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
