package main

import (
	"fmt"

	"drivebox/internal/gdrive"

	"github.com/spf13/cobra"
)

var pullReplace bool

var pullCmd = &cobra.Command{
	Use:   "pull <file> [dest]",
	Short: "Download a Drive file to a local path",
	Long: `Download a file to a local path. The file may be given by name, id,
or URL; the destination defaults to a sanitized version of the remote
name in the current directory.

An existing destination is left alone unless --replace is set, and
even then the download is skipped when the local content already
matches the remote checksum.

Examples:
  drivebox pull "Quarterly Report"
  drivebox pull abc123 reports/q3.txt --replace`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPullCommand,
}

func init() {
	rootCmd.AddCommand(pullCmd)
	pullCmd.Flags().BoolVar(&pullReplace, "replace", false, "Overwrite an existing local file")
}

func runPullCommand(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	obj, err := resolveRef(client, args[0])
	if err != nil {
		return err
	}

	if obj == nil {
		return fmt.Errorf("file %q not found", args[0])
	}

	if obj.Kind == gdrive.KindFolder {
		return fmt.Errorf("%q is a folder", obj.Name)
	}

	dest := gdrive.SuggestedFilename(obj, "")
	if len(args) == 2 {
		dest = args[1]
	}

	if err := client.SaveAs(obj, dest, pullReplace); err != nil {
		return err
	}

	fmt.Printf("%s -> %s\n", obj.Name, dest)

	return nil
}
