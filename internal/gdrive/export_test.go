package gdrive

import "testing"

func TestExportMimeType(t *testing.T) {
	tests := []struct {
		name     string
		fileMime string
		format   string
		wantMime string
		wantErr  bool
	}{
		{"doc to txt", MimeTypeGoogleDoc, "txt", MimeTypePlainText, false},
		{"doc to md", MimeTypeGoogleDoc, "md", MimeTypeHTML, false},
		{"doc to html", MimeTypeGoogleDoc, "html", MimeTypeHTML, false},
		{"doc to csv invalid", MimeTypeGoogleDoc, "csv", "", true},
		{"sheet to csv", MimeTypeGoogleSheet, "csv", MimeTypeCSV, false},
		{"sheet to html", MimeTypeGoogleSheet, "html", MimeTypeHTML, false},
		{"sheet to md invalid", MimeTypeGoogleSheet, "md", "", true},
		{"slides to txt", MimeTypeGooglePresentation, "txt", MimeTypePlainText, false},
		{"slides to html", MimeTypeGooglePresentation, "html", MimeTypeHTML, false},
		{"slides to csv invalid", MimeTypeGooglePresentation, "csv", "", true},
		{"blob has no exports", "application/pdf", "txt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExportMimeType(tt.fileMime, tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ExportMimeType(%q, %q) error = %v, wantErr %v", tt.fileMime, tt.format, err, tt.wantErr)

				return
			}

			if !tt.wantErr && got != tt.wantMime {
				t.Errorf("ExportMimeType(%q, %q) = %q, want %q", tt.fileMime, tt.format, got, tt.wantMime)
			}
		})
	}
}
