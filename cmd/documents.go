// ABOUTME: PDF document commands: upload, list and delete
// ABOUTME: Files are validated locally before any request is sent

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/upload"
)

var uploadFolder string

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF document",
	Long: `Upload a PDF document, optionally into a folder. Progress is written to stderr.

The file must have a .pdf extension, start with a PDF header and weigh at
most 10 MiB; anything else is rejected before contacting the backend.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runUpload(ctx, d, os.Stdout, os.Stderr, args[0], uploadFolder)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var pdfsCmd = &cobra.Command{
	Use:   "pdfs",
	Short: "Manage uploaded PDF documents",
}

var pdfsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded PDF documents",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runPDFsList(ctx, d, os.Stdout)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var pdfsDeleteCmd = &cobra.Command{
	Use:   "delete <file_id>",
	Short: "Delete an uploaded PDF document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runPDFsDelete(ctx, d, os.Stdout, args[0])
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadFolder, "folder", "", "Destination folder id")

	pdfsCmd.AddCommand(pdfsListCmd, pdfsDeleteCmd)
	rootCmd.AddCommand(uploadCmd, pdfsCmd)
}

// parseOptionalID accepts an empty string as "no id"
func parseOptionalID(raw string) (client.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return client.ParseID(raw)
}

// runUpload validates and uploads path, reporting progress to progress
func runUpload(ctx context.Context, d *deps, w, progress io.Writer, path, folder string) int {
	folderID, err := parseOptionalID(folder)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid folder id: %v\n", err)
		return 2
	}

	opts := upload.Options{
		FolderID: folderID,
		OnProgress: func(p upload.Progress) {
			fmt.Fprintf(progress, "\rUploading: %s", p)
		},
	}

	file, res, err := upload.Upload(ctx, d.client, path, opts)
	if file != nil {
		fmt.Fprintln(progress)
	}
	if err != nil {
		if upload.IsValidation(err) {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		return fail(w, err)
	}

	if err := upload.NewRecent(d.cfg.ConfigDir).Add(file.Path); err != nil {
		slog.Warn("Failed to record recent file", "path", file.Path, "error", err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatUploadJSON(file, res))
	} else {
		fmt.Fprintln(w, formatUploadHuman(file, res))
	}
	return 0
}

// formatUploadHuman formats an upload result for human readability
func formatUploadHuman(file *upload.File, res *client.UploadResult) string {
	name := res.Filename
	if name == "" {
		name = file.Name
	}
	return fmt.Sprintf(`Uploaded: %s (%s)
File ID:  %s

Next: quizz generate %s`, name, file.HumanSize(), res.DocumentID(), res.DocumentID())
}

// formatUploadJSON formats an upload result as JSON
func formatUploadJSON(file *upload.File, res *client.UploadResult) string {
	return jsonString(map[string]any{
		"file_id":  res.DocumentID(),
		"filename": res.Filename,
		"path":     file.Path,
		"size":     file.Size,
	})
}

// runPDFsList lists the user's documents
func runPDFsList(ctx context.Context, d *deps, w io.Writer) int {
	docs, err := d.client.ListPDFs(ctx)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		if docs == nil {
			docs = []client.PDFDocument{}
		}
		fmt.Fprintln(w, jsonString(map[string]any{"count": len(docs), "pdfs": docs}))
	} else {
		fmt.Fprintln(w, formatPDFsHuman(docs))
	}
	return 0
}

// formatPDFsHuman formats the document list for human readability
func formatPDFsHuman(docs []client.PDFDocument) string {
	if len(docs) == 0 {
		return "Aucun document"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-40s %-10s %s\n", "ID", "FILENAME", "SIZE", "UPLOADED")
	for _, doc := range docs {
		uploaded := "-"
		if !doc.UploadedAt.IsZero() {
			uploaded = humanize.Time(doc.UploadedAt.Time)
		}
		fmt.Fprintf(&b, "%-6s %-40s %-10s %s\n", doc.ID, truncate(doc.Filename, 40), humanize.IBytes(uint64(doc.FileSize)), uploaded)
	}
	fmt.Fprintf(&b, "\n%d document(s)", len(docs))
	return b.String()
}

// runPDFsDelete deletes one document
func runPDFsDelete(ctx context.Context, d *deps, w io.Writer, rawID string) int {
	id, err := client.ParseID(rawID)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if err := d.client.DeletePDF(ctx, id); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Document %s deleted\n", id)
	return 0
}

// truncate shortens s to n runes with an ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
