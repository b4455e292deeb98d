// ABOUTME: Health command for the quizz CLI
// ABOUTME: Checks backend reachability through the tunnel

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long: `Check connectivity to the QCM backend, including the tunnel credential.

Exit codes:
  0  Backend reachable
  2  Backend unreachable or refused the request`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runHealth(ctx, d, os.Stdout)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, d *deps, w io.Writer) int {
	resp, err := d.client.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(d.client.BaseURL(), d.cfg.TunnelAuth != "", resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(d.client.BaseURL(), d.cfg.TunnelAuth != "", resp))
	}

	return 0
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, tunnel bool, resp *client.Message) string {
	tunnelStatus := "none"
	if tunnel {
		tunnelStatus = "configured"
	}
	return fmt.Sprintf(`Backend:  %s
Tunnel:   %s
Message:  %s`, url, tunnelStatus, resp.Message)
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(url string, tunnel bool, resp *client.Message) string {
	return jsonString(map[string]any{
		"backend": url,
		"tunnel":  tunnel,
		"message": resp.Message,
	})
}
