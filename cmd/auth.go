// ABOUTME: Account commands: login, register, logout and whoami
// ABOUTME: Credentials are prompted on stderr so stdout stays parseable

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/auth"
)

var (
	loginEmail    string
	passwordStdin bool
	logoutLocal   bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	Long: `Log in with email and password. The token is persisted under the config
directory only after the profile has been fetched successfully.

Examples:
  quizz login --email user@example.com
  echo "$PASSWORD" | quizz login --email user@example.com --password-stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			creds, err := readCredentials(stdinReader(), os.Stderr, loginEmail, passwordStdin, false)
			if err != nil {
				fmt.Fprintf(os.Stdout, "Error: %v\n", err)
				return 2
			}
			return runLogin(ctx, d, os.Stdout, creds)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			creds, err := readCredentials(stdinReader(), os.Stderr, loginEmail, passwordStdin, true)
			if err != nil {
				fmt.Fprintf(os.Stdout, "Error: %v\n", err)
				return 2
			}
			return runRegister(ctx, d, os.Stdout, creds)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Long: `Revoke the current token on the backend and forget it locally.
With --local the backend is not contacted.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runLogout(ctx, d, os.Stdout, logoutLocal)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runWhoami(ctx, d, os.Stdout, time.Now())
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted when omitted)")
		c.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	}
	logoutCmd.Flags().BoolVar(&logoutLocal, "local", false, "Only forget the local token")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

type credentials struct {
	Email    string
	Password string
	Confirm  string
}

// stdinReader is shared so a piped email line and password line come from
// one buffer
var stdinBuf *bufio.Reader

func stdinReader() *bufio.Reader {
	if stdinBuf == nil {
		stdinBuf = bufio.NewReader(os.Stdin)
	}
	return stdinBuf
}

// readCredentials prompts for whatever the flags left out. Passwords are read
// without echo when stdin is a terminal.
func readCredentials(in *bufio.Reader, prompt io.Writer, email string, fromStdin, confirm bool) (credentials, error) {
	creds := credentials{Email: strings.TrimSpace(email)}

	if creds.Email == "" {
		fmt.Fprint(prompt, "Email: ")
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return creds, fmt.Errorf("failed to read email: %w", err)
		}
		creds.Email = strings.TrimSpace(line)
	}

	readPassword := func(label string) (string, error) {
		if !fromStdin && isTerminal(os.Stdin) {
			fmt.Fprint(prompt, label)
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(prompt)
			return string(b), err
		}
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	var err error
	if creds.Password, err = readPassword("Mot de passe: "); err != nil {
		return creds, fmt.Errorf("failed to read password: %w", err)
	}
	creds.Confirm = creds.Password
	if confirm && !fromStdin && isTerminal(os.Stdin) {
		if creds.Confirm, err = readPassword("Confirmer le mot de passe: "); err != nil {
			return creds, fmt.Errorf("failed to read password: %w", err)
		}
	}
	return creds, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// runLogin authenticates and reports the committed profile
func runLogin(ctx context.Context, d *deps, w io.Writer, creds credentials) int {
	if err := d.auth.Login(ctx, creds.Email, creds.Password); err != nil {
		fmt.Fprintf(w, "Error: %s\n", errorMessage(err))
		return 1
	}
	return printUser(d, w, time.Now())
}

// runRegister validates locally before any request, then registers and logs in
func runRegister(ctx context.Context, d *deps, w io.Writer, creds credentials) int {
	if err := auth.ValidateRegistration(creds.Password, creds.Confirm); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if err := d.auth.Register(ctx, creds.Email, creds.Password); err != nil {
		fmt.Fprintf(w, "Error: %s\n", errorMessage(err))
		return 1
	}
	return printUser(d, w, time.Now())
}

// runLogout always clears local state; a failed server logout is only logged
func runLogout(ctx context.Context, d *deps, w io.Writer, local bool) int {
	if d.auth.Token() == "" {
		fmt.Fprintln(w, "Not logged in")
		return 0
	}
	if local {
		d.auth.Logout()
	} else {
		d.auth.SignOut(ctx)
	}
	fmt.Fprintln(w, "Logged out")
	return 0
}

// runWhoami fetches the profile for the persisted token
func runWhoami(ctx context.Context, d *deps, w io.Writer, now time.Time) int {
	if err := d.requireLogin(ctx); err != nil {
		return fail(w, err)
	}
	return printUser(d, w, now)
}

func printUser(d *deps, w io.Writer, now time.Time) int {
	state := d.auth.Snapshot()
	if IsJSONOutput() {
		fmt.Fprintln(w, formatUserJSON(state, now))
	} else {
		fmt.Fprintln(w, formatUserHuman(state, now))
	}
	return 0
}

// formatUserHuman formats the logged-in user for human readability
func formatUserHuman(state auth.State, now time.Time) string {
	u := state.User
	role := "user"
	if u.IsSuperuser {
		role = "admin"
	}

	out := fmt.Sprintf(`User:     %s
Email:    %s
ID:       %s
Role:     %s
Verified: %t
Token:    %s`, u.DisplayName(), u.Email, u.ID, role, u.IsVerified, auth.Redact(state.Token))

	if exp, ok := auth.TokenExpiry(state.Token); ok {
		status := "valid"
		if !now.Before(exp) {
			status = "expired"
		}
		out += fmt.Sprintf("\nExpires:  %s (%s)", exp.Local().Format("02/01/2006 15:04"), status)
	}
	return out
}

// formatUserJSON formats the logged-in user as JSON
func formatUserJSON(state auth.State, now time.Time) string {
	out := map[string]any{
		"user":  state.User,
		"admin": state.User.IsSuperuser,
	}
	if exp, ok := auth.TokenExpiry(state.Token); ok {
		out["token_expires_at"] = exp.UTC().Format(time.RFC3339)
		out["token_expired"] = !now.Before(exp)
	}
	return jsonString(out)
}
