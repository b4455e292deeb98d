// ABOUTME: Command that starts the full-screen application
// ABOUTME: Logging moves to a file while the alt-screen is active

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/logger"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/prefs"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/upload"
)

var tuiPDFDir string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive terminal application",
	Long: `Open the full-screen application: log in, import PDFs, generate and answer
quizzes, organise folders and manage sessions.

Logs are written to quizz.log in the config directory while the application
runs. ctrl+b collapses the navigation sidebar; the choice is remembered.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := withDeps(os.Stderr, func(d *deps) int {
			return runTUI(d, os.Stderr, isTerminal(os.Stdin) && isTerminal(os.Stdout), tui.Run)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiPDFDir, "pdf-dir", "", "Directory listed by the import screen (default: QUIZZ_PDF_DIR or the current directory)")
	rootCmd.AddCommand(tuiCmd)
}

// runTUI wires the application options and hands the terminal to run
func runTUI(d *deps, w io.Writer, interactive bool, run func(tui.Options) error) int {
	if !interactive {
		fmt.Fprintln(w, "Error: the tui command requires an interactive terminal")
		return 2
	}

	closeLog, err := logger.OpenFile(d.cfg.ConfigDir, d.cfg.LogLevel, d.cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(w, "Warning: logging disabled: %v\n", err)
	}
	defer closeLog()

	pdfDir := tuiPDFDir
	if pdfDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		pdfDir = upload.FindPDFDir(cwd)
	}

	slog.Info("Starting TUI", "api_url", d.client.BaseURL(), "pdf_dir", pdfDir)
	err = run(tui.Options{
		Client:  d.client,
		Auth:    d.auth,
		Sidebar: prefs.NewSidebar(d.store, true),
		Recent:  upload.NewRecent(d.cfg.ConfigDir),
		PDFDir:  pdfDir,
		OpenURL: openBrowser,
	})
	if err != nil {
		slog.Error("TUI stopped", "error", err)
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	return 0
}
