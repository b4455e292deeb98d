// ABOUTME: Root command for the quizz CLI
// ABOUTME: Handles global flags and wires config, client and auth state per command

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/auth"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/config"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/logger"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/store"
)

var (
	apiURL     string
	jsonOutput bool
	configDir  string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "quizz",
	Short: "Terminal client for the PDF-to-QCM service",
	Long: `quizz turns PDF documents into multiple-choice quizzes using the QCM backend.

Log in, upload a PDF, generate questions and answer them from the terminal,
or run "quizz tui" for the full-screen application.

Environment Variables:
  QUIZZ_API_URL         Backend API URL, userinfo becomes the tunnel credential (default: http://localhost:8000)
  QUIZZ_TUNNEL_AUTH     Explicit Authorization-Tunnel value ("Basic ..." or "user:pass")
  QUIZZ_CONFIG_DIR      Directory for the persisted token and preferences
  QUIZZ_TIMEOUT         Request timeout in seconds (default: 30)
  QUIZZ_UPLOAD_TIMEOUT  Upload timeout in seconds (default: 300)
  LOG_LEVEL, LOG_FORMAT Logging configuration (default: info, text)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides QUIZZ_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory for persisted state (overrides QUIZZ_CONFIG_DIR)")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("QUIZZ_API_URL"); envURL != "" {
		return envURL
	}
	return config.DefaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// deps is everything a command needs to talk to the backend
type deps struct {
	cfg    *config.Config
	client *client.Client // authorised with the provider's token
	auth   *auth.Provider
	store  store.Store
}

// newDeps loads configuration, honours the global flags and rehydrates the
// persisted token. The profile is not fetched; see requireLogin.
func newDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg = cfg.WithAPIURL(GetAPIURL())
	if configDir != "" {
		cfg.ConfigDir = configDir
	}

	logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	base := client.New(cfg)
	s := store.NewFileStore(cfg.ConfigDir)
	provider := auth.New(base, s)

	return &deps{
		cfg:    cfg,
		client: base.WithTokenSource(provider),
		auth:   provider,
		store:  s,
	}, nil
}

// requireLogin fetches the profile for the persisted token. A rejected token
// is cleared by the provider, so the next command starts logged out.
func (d *deps) requireLogin(ctx context.Context) error {
	if d.auth.Token() == "" {
		return fmt.Errorf("%w (run \"quizz login\")", client.ErrAuthRequired)
	}
	if err := d.auth.Start(ctx); err != nil {
		return err
	}
	if !d.auth.Snapshot().LoggedIn() {
		return client.ErrAuthRequired
	}
	return nil
}

// withDeps builds deps or reports the failure and returns exit code 2
func withDeps(w io.Writer, fn func(d *deps) int) int {
	d, err := newDeps()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	return fn(d)
}

// jsonString renders v indented, the shared shape of every --json output
func jsonString(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

// errorMessage prefers the product's user-facing text over developer wrapping
func errorMessage(err error) string {
	if msg := client.UserMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}

// exitCodeFor maps a failure to the exit code convention: 2 when the command
// could not run at all (no login, backend unreachable), 1 when the backend
// refused the operation
func exitCodeFor(err error) int {
	var te *client.TransportError
	switch {
	case errors.Is(err, client.ErrAuthRequired), errors.Is(err, client.ErrTimeout), errors.As(err, &te):
		return 2
	default:
		return 1
	}
}

// fail reports err and returns its exit code
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %s\n", errorMessage(err))
	return exitCodeFor(err)
}
