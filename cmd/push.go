package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"drivebox/internal/gdrive"

	"github.com/spf13/cobra"
)

var (
	pushFolder   string
	pushFolderID string
	pushName     string
	pushMime     string
	pushReplace  bool
	pushConvert  bool
)

var pushCmd = &cobra.Command{
	Use:   "push <file>",
	Short: "Upload a local file to Drive",
	Long: `Upload a local file. Without --replace an existing remote file with
the same name is never overwritten and the push is a silent no-op.

With --convert the content is converted into the matching native
Google document format on the server. Switching a file between
converted and raw storage replaces it (the remote object gets a new
id); pushes that keep the representation update in place.

Examples:
  drivebox push notes.txt --folder Reports
  drivebox push data.csv --folder Reports --replace --convert
  drivebox push build.log --folder-id abc123 --name latest.log --replace`,
	Args: cobra.ExactArgs(1),
	RunE: runPushCommand,
}

func init() {
	rootCmd.AddCommand(pushCmd)
	pushCmd.Flags().StringVar(&pushFolder, "folder", "", "Destination folder name")
	pushCmd.Flags().StringVar(&pushFolderID, "folder-id", "", "Destination folder id")
	pushCmd.Flags().StringVar(&pushName, "name", "", "Remote name (defaults to the local filename)")
	pushCmd.Flags().StringVar(&pushMime, "mime", "", "MIME type of the content (guessed from the extension by default)")
	pushCmd.Flags().BoolVar(&pushReplace, "replace", false, "Overwrite an existing remote file")
	pushCmd.Flags().BoolVar(&pushConvert, "convert", false, "Convert to the native Google document format")
}

func runPushCommand(cmd *cobra.Command, args []string) error {
	localPath := args[0]

	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", localPath, err)
	}

	name := pushName
	if name == "" {
		name = filepath.Base(localPath)
	}

	mimeType := pushMime
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(localPath))
	}

	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}

	result, err := client.Write(gdrive.WriteRequest{
		Name:     name,
		Folder:   pushFolder,
		FolderID: pushFolderID,
		Data:     data,
		MimeType: mimeType,
		Replace:  pushReplace,
		Convert:  pushConvert,
	})
	if err != nil {
		return err
	}

	if result == nil {
		fmt.Fprintf(os.Stderr, "nothing pushed: destination missing, or %q exists and --replace not set\n", name)

		return nil
	}

	fmt.Printf("%s -> %s (%s)\n", localPath, result.Name, result.ID)

	return nil
}
