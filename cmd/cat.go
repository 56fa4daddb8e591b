package main

import (
	"fmt"
	"os"

	"drivebox/internal/gdrive"

	mdconverter "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/spf13/cobra"
)

var catFormat string

var catCmd = &cobra.Command{
	Use:   "cat <file>",
	Short: "Export a Drive document's content to stdout",
	Long: `Export a document's content to stdout. The file may be given by
name, id, or URL.

Native Google documents are exported in the requested format; uploaded
files are downloaded byte-for-byte and --format is ignored.

Output formats:
  txt  : Plain text (default)
  md   : Markdown (converts the HTML export)
  html : HTML
  csv  : CSV (spreadsheets only)

Examples:
  drivebox cat "Quarterly Report"
  drivebox cat "https://docs.google.com/document/d/abc123/edit" --format md
  drivebox cat budget-sheet --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: runCatCommand,
}

func init() {
	rootCmd.AddCommand(catCmd)
	catCmd.Flags().StringVar(&catFormat, "format", "", "Output format (txt, md, html, csv)")
}

func runCatCommand(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
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
		return fmt.Errorf("%q is a folder; use ls", obj.Name)
	}

	format := catFormat
	if format == "" {
		format = cfg.ExportFormat
	}

	if obj.Representation != gdrive.RepresentationNative {
		data, err := client.Content(obj, "")
		if err != nil {
			return err
		}

		_, err = os.Stdout.Write(data)

		return err
	}

	exportMime, err := gdrive.ExportMimeType(obj.MimeType, format)
	if err != nil {
		return err
	}

	data, err := client.Content(obj, exportMime)
	if err != nil {
		return err
	}

	if data == nil {
		return fmt.Errorf("%q offers no %s export", obj.Name, exportMime)
	}

	if format == gdrive.FormatMD {
		markdown, err := mdconverter.ConvertString(string(data))
		if err != nil {
			return fmt.Errorf("failed to convert HTML to markdown: %w", err)
		}

		_, err = fmt.Fprint(os.Stdout, markdown)

		return err
	}

	_, err = os.Stdout.Write(data)

	return err
}
