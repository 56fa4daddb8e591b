package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"drivebox/internal/gdrive"

	"github.com/spf13/cobra"
)

var lsMimeTypes []string

var lsCmd = &cobra.Command{
	Use:   "ls <folder>",
	Short: "List the children of a Drive folder",
	Long: `List the non-trashed children of a folder, newest modification first.

The folder may be given by name, id, or URL. Without --type, all
non-folder children are listed; each --type adds a MIME type to match.

Examples:
  drivebox ls Reports
  drivebox ls Reports --type application/vnd.google-apps.document
  drivebox ls Reports --type image/png --type image/jpeg`,
	Args: cobra.ExactArgs(1),
	RunE: runLsCommand,
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().StringArrayVar(&lsMimeTypes, "type", nil, "MIME type to match (repeatable)")
}

func runLsCommand(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	folder, err := resolveFolder(client, args[0])
	if err != nil {
		return err
	}

	if folder == nil {
		return fmt.Errorf("folder %q not found", args[0])
	}

	children, err := client.Children(folder.ID, lsMimeTypes...)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, child := range children {
		modified := ""
		if !child.ModifiedTime.IsZero() {
			modified = child.ModifiedTime.Format("2006-01-02 15:04")
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", child.ID, child.Kind, modified, child.Name)
	}

	return w.Flush()
}

// resolveFolder accepts a folder name, id, or URL.
func resolveFolder(client *gdrive.Client, ref string) (*gdrive.Object, error) {
	folder, err := client.Folder(ref)
	if err != nil || folder != nil {
		return folder, err
	}

	id, err := gdrive.ExtractFileID(ref)
	if err != nil {
		return nil, nil
	}

	obj, err := client.ByID(id)
	if err != nil || obj == nil {
		return nil, err
	}

	if obj.Kind != gdrive.KindFolder {
		return nil, fmt.Errorf("%q is not a folder", obj.Name)
	}

	return obj, nil
}
