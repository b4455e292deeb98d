// ABOUTME: Google OAuth login through a loopback redirect
// ABOUTME: Opens the consent page in a browser and waits for the callback

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/auth"
)

var (
	oauthPort      int
	oauthNoBrowser bool
	oauthTimeout   time.Duration
)

var oauthCmd = &cobra.Command{
	Use:   "oauth",
	Short: "Log in with an external identity provider",
}

var oauthGoogleCmd = &cobra.Command{
	Use:   "google",
	Short: "Log in with Google",
	Long: `Start a callback server on localhost, open the Google consent page and
store the resulting token once its profile has been fetched.

The redirect URI is http://localhost:<port>/auth/callback; the backend must
accept it. Use --no-browser on headless machines and open the printed URL.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		open := openBrowser
		if oauthNoBrowser {
			open = nil
		}
		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runOAuthGoogle(ctx, d, os.Stdout, oauthOptions{
				Port:    oauthPort,
				Timeout: oauthTimeout,
				Open:    open,
			})
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	oauthGoogleCmd.Flags().IntVar(&oauthPort, "port", auth.DefaultCallbackPort, "Local port for the OAuth callback")
	oauthGoogleCmd.Flags().BoolVar(&oauthNoBrowser, "no-browser", false, "Print the URL instead of opening a browser")
	oauthGoogleCmd.Flags().DurationVar(&oauthTimeout, "timeout", 5*time.Minute, "How long to wait for the callback")

	oauthCmd.AddCommand(oauthGoogleCmd)
	rootCmd.AddCommand(oauthCmd)
}

type oauthOptions struct {
	Port    int
	Timeout time.Duration
	Open    func(url string) error // nil prints the URL only
}

// runOAuthGoogle drives the loopback flow and hands the token to the provider
func runOAuthGoogle(ctx context.Context, d *deps, w io.Writer, opts oauthOptions) int {
	lb, err := auth.NewLoopback(opts.Port)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer lb.Close()

	consentURL, err := d.client.GoogleAuthorizationURL(ctx, lb.RedirectURI(), lb.State())
	if err != nil {
		fmt.Fprintf(w, "Error: %s\n", errorMessage(err))
		return 2
	}

	fmt.Fprintf(os.Stderr, "Open this URL to continue:\n  %s\n", consentURL)
	if opts.Open != nil {
		if err := opts.Open(consentURL); err != nil {
			slog.Warn("Failed to open browser", "error", err)
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	token, err := lb.Wait(ctx, d.client)
	if err != nil {
		fmt.Fprintf(w, "Error: %s\n", errorMessage(err))
		return 1
	}

	if err := d.auth.SetToken(ctx, token); err != nil {
		fmt.Fprintf(w, "Error: %s\n", errorMessage(err))
		return 1
	}
	return printUser(d, w, time.Now())
}

// openBrowser launches the platform URL handler
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
