// ABOUTME: Folder commands: list, create, rename and delete
// ABOUTME: Blank names are rejected before contacting the backend

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
)

var (
	folderParent    string
	folderRecursive bool
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Organise documents into folders",
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runFoldersList(ctx, d, os.Stdout, folderParent)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var foldersCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runFoldersCreate(ctx, d, os.Stdout, strings.Join(args, " "), folderParent)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var foldersRenameCmd = &cobra.Command{
	Use:   "rename <folder_id> <name>",
	Short: "Rename a folder",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runFoldersRename(ctx, d, os.Stdout, args[0], strings.Join(args[1:], " "))
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var foldersDeleteCmd = &cobra.Command{
	Use:   "delete <folder_id>",
	Short: "Delete a folder",
	Long: `Delete a folder. The backend refuses a folder that still holds
sub-folders or files unless --recursive is given, which removes them too.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runFoldersDelete(ctx, d, os.Stdout, args[0], folderRecursive)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	foldersListCmd.Flags().StringVar(&folderParent, "parent", "", "Parent folder id (root when omitted)")
	foldersCreateCmd.Flags().StringVar(&folderParent, "parent", "", "Parent folder id (root when omitted)")
	foldersDeleteCmd.Flags().BoolVar(&folderRecursive, "recursive", false, "Also delete sub-folders and files")

	foldersCmd.AddCommand(foldersListCmd, foldersCreateCmd, foldersRenameCmd, foldersDeleteCmd)
	rootCmd.AddCommand(foldersCmd)
}

// runFoldersList lists the children of parent
func runFoldersList(ctx context.Context, d *deps, w io.Writer, parent string) int {
	parentID, err := parseOptionalID(parent)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid parent id: %v\n", err)
		return 2
	}

	folders, err := d.client.ListFolders(ctx, parentID)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		if folders == nil {
			folders = []client.Folder{}
		}
		fmt.Fprintln(w, jsonString(map[string]any{"count": len(folders), "folders": folders}))
	} else {
		fmt.Fprintln(w, formatFoldersHuman(folders))
	}
	return 0
}

// formatFoldersHuman formats folders for human readability
func formatFoldersHuman(folders []client.Folder) string {
	if len(folders) == 0 {
		return "Aucun dossier"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-30s %-10s %s\n", "ID", "NAME", "FOLDERS", "FILES")
	for _, f := range folders {
		fmt.Fprintf(&b, "%-6s %-30s %-10d %d\n", f.ID, truncate(f.Name, 30), f.SubfolderCount, f.FileCount)
	}
	fmt.Fprintf(&b, "\n%d dossier(s)", len(folders))
	return b.String()
}

// runFoldersCreate creates a folder under parent
func runFoldersCreate(ctx context.Context, d *deps, w io.Writer, name, parent string) int {
	parentID, err := parseOptionalID(parent)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid parent id: %v\n", err)
		return 2
	}

	res, err := d.client.CreateFolder(ctx, name, parentID)
	if err != nil {
		if err == client.ErrEmptyFolderName {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, jsonString(res))
	} else {
		fmt.Fprintf(w, "Folder %q created (id %s)\n", res.Name, res.FolderID)
	}
	return 0
}

// runFoldersRename renames a folder
func runFoldersRename(ctx context.Context, d *deps, w io.Writer, rawID, name string) int {
	id, err := client.ParseID(rawID)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	f, err := d.client.RenameFolder(ctx, id, name)
	if err != nil {
		if err == client.ErrEmptyFolderName {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, jsonString(f))
	} else {
		fmt.Fprintf(w, "Folder %s renamed to %q\n", id, strings.TrimSpace(name))
	}
	return 0
}

// runFoldersDelete deletes a folder, with its contents when recursive
func runFoldersDelete(ctx context.Context, d *deps, w io.Writer, rawID string, recursive bool) int {
	id, err := client.ParseID(rawID)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if err := d.client.DeleteFolder(ctx, id, recursive); err != nil {
		code := fail(w, err)
		if !recursive && client.IsStatus(err, http.StatusBadRequest) {
			fmt.Fprintln(w, "Hint: use --recursive to delete the folder and its contents")
		}
		return code
	}
	fmt.Fprintf(w, "Folder %s deleted\n", id)
	return 0
}
