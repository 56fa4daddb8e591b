package gdrive

import "fmt"

// CLI-facing export format names.
const (
	FormatTXT  = "txt"
	FormatMD   = "md"
	FormatHTML = "html"
	FormatCSV  = "csv"
)

// ExportMimeType returns the export MIME type to request for a native
// document of the given type in the given format. Markdown exports
// fetch HTML; the caller converts.
func ExportMimeType(fileMimeType, format string) (string, error) {
	switch fileMimeType {
	case MimeTypeGoogleDoc:
		switch format {
		case FormatTXT:
			return MimeTypePlainText, nil
		case FormatHTML, FormatMD:
			return MimeTypeHTML, nil
		default:
			return "", fmt.Errorf("unsupported format %q for documents (supported: txt, html, md)", format)
		}
	case MimeTypeGoogleSheet:
		switch format {
		case FormatCSV:
			return MimeTypeCSV, nil
		case FormatHTML:
			return MimeTypeHTML, nil
		default:
			return "", fmt.Errorf("unsupported format %q for spreadsheets (supported: csv, html)", format)
		}
	case MimeTypeGooglePresentation:
		switch format {
		case FormatTXT:
			return MimeTypePlainText, nil
		case FormatHTML:
			return MimeTypeHTML, nil
		default:
			return "", fmt.Errorf("unsupported format %q for presentations (supported: txt, html)", format)
		}
	default:
		return "", fmt.Errorf("MIME type %s has no export formats", fileMimeType)
	}
}
