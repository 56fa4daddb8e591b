package gdrive

import (
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
)

// Google Workspace MIME types.
const (
	MimeTypeFolder             = "application/vnd.google-apps.folder"
	MimeTypeGoogleDoc          = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet        = "application/vnd.google-apps.spreadsheet"
	MimeTypeGooglePresentation = "application/vnd.google-apps.presentation"
)

// Export MIME types.
const (
	MimeTypePlainText = "text/plain"
	MimeTypeHTML      = "text/html"
	MimeTypeCSV       = "text/csv"
)

// nativeMimePrefix marks MIME types whose content lives in Google's own
// document formats rather than as uploaded bytes.
const nativeMimePrefix = "application/vnd.google-apps"

// Kind distinguishes folders from everything else. It is derived from
// the MIME type once, at construction, and never changes.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}

	return "file"
}

// KindOf classifies a MIME type. An object is a folder iff its MIME
// type equals the reserved folder marker.
func KindOf(mimeType string) Kind {
	if mimeType == MimeTypeFolder {
		return KindFolder
	}

	return KindFile
}

// Representation says how an object's content is stored remotely:
// as a native Google document (editable in the Workspace apps, fetched
// via export) or as an uploaded blob (fetched byte-for-byte).
type Representation int

const (
	RepresentationBlob Representation = iota
	RepresentationNative
)

func (r Representation) String() string {
	if r == RepresentationNative {
		return "native"
	}

	return "blob"
}

// RepresentationOf classifies a MIME type. Vendor MIME types
// (application/vnd.google-apps.*) store their content natively;
// everything else is a raw blob.
func RepresentationOf(mimeType string) Representation {
	if strings.HasPrefix(mimeType, nativeMimePrefix) {
		return RepresentationNative
	}

	return RepresentationBlob
}

// NativeMimeFor returns the Google-native document type a payload of
// the given MIME type converts into on upload.
func NativeMimeFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, MimeTypeCSV),
		strings.Contains(mimeType, "spreadsheet"),
		strings.Contains(mimeType, "ms-excel"):
		return MimeTypeGoogleSheet
	case strings.Contains(mimeType, "presentation"),
		strings.Contains(mimeType, "ms-powerpoint"):
		return MimeTypeGooglePresentation
	default:
		return MimeTypeGoogleDoc
	}
}

// Object is a read-only snapshot of a remote file or folder, taken at
// query/get time. Writes produce a new snapshot; nothing is cached
// between calls.
type Object struct {
	ID             string
	Kind           Kind
	Name           string
	MimeType       string
	Representation Representation
	Parents        []string
	Md5Checksum    string
	ExportLinks    map[string]string
	DownloadURL    string
	ModifiedTime   time.Time
	Trashed        bool

	extra map[string]string
}

// Attr returns a pass-through metadata field that Object does not
// promote to a struct field (description, starred, size, webViewLink).
func (o *Object) Attr(key string) (string, bool) {
	v, ok := o.extra[key]

	return v, ok
}

// newObject converts a Drive API file into an Object snapshot. Kind
// and Representation are fixed here and never recomputed.
func newObject(f *drive.File) *Object {
	o := &Object{
		ID:             f.Id,
		Kind:           KindOf(f.MimeType),
		Name:           f.Name,
		MimeType:       f.MimeType,
		Representation: RepresentationOf(f.MimeType),
		Parents:        f.Parents,
		Md5Checksum:    f.Md5Checksum,
		ExportLinks:    f.ExportLinks,
		DownloadURL:    f.WebContentLink,
		Trashed:        f.Trashed,
		extra:          make(map[string]string),
	}

	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			o.ModifiedTime = t
		}
	}

	if f.Description != "" {
		o.extra["description"] = f.Description
	}

	if f.WebViewLink != "" {
		o.extra["webViewLink"] = f.WebViewLink
	}

	if f.Starred {
		o.extra["starred"] = "true"
	}

	if f.Size > 0 {
		o.extra["size"] = strconv.FormatInt(f.Size, 10)
	}

	return o
}
