package gdrive

import (
	"fmt"
	"strings"
)

// ExtractFileID extracts a file ID from the common Drive and Docs URL
// shapes:
// - docs.google.com/document/d/{ID}
// - docs.google.com/spreadsheets/d/{ID}
// - docs.google.com/presentation/d/{ID}
// - drive.google.com/file/d/{ID}
// - drive.google.com/drive/folders/{ID}
// - drive.google.com/open?id={ID}
// A bare ID passes through unchanged.
func ExtractFileID(ref string) (string, error) {
	if !strings.Contains(ref, "/") && !strings.Contains(ref, "?") {
		return ref, nil
	}

	if id := extractPathSegmentID(ref, "/d/"); id != "" {
		return id, nil
	}

	if id := extractPathSegmentID(ref, "/folders/"); id != "" {
		return id, nil
	}

	if id := extractOpenURLID(ref); id != "" {
		return id, nil
	}

	return "", fmt.Errorf("unable to extract file ID from %q", ref)
}

// extractPathSegmentID pulls the path element following marker,
// stripping any trailing path or query.
func extractPathSegmentID(url, marker string) string {
	idx := strings.Index(url, marker)
	if idx == -1 {
		return ""
	}

	id := url[idx+len(marker):]
	if cut := strings.IndexAny(id, "/?#"); cut != -1 {
		id = id[:cut]
	}

	return id
}

func extractOpenURLID(url string) string {
	if !strings.Contains(url, "drive.google.com/open") {
		return ""
	}

	parts := strings.SplitN(url, "id=", 2)
	if len(parts) < 2 {
		return ""
	}

	id := parts[1]
	if cut := strings.IndexAny(id, "&#"); cut != -1 {
		id = id[:cut]
	}

	return id
}
