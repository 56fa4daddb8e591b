package gdrive

import (
	"bytes"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// utf8BOM prefixes text exports of some native documents.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// defaultExportMime picks the export format used when the caller does
// not ask for one.
func defaultExportMime(mimeType string) string {
	if mimeType == MimeTypeGoogleSheet {
		return MimeTypeCSV
	}

	return MimeTypePlainText
}

// Content fetches an object's bytes. Native documents are exported in
// exportMime (or a per-type default when empty); blobs are downloaded
// directly. A nil result with a nil error means there was nothing to
// fetch: the object is gone, or it does not offer the requested export
// format.
func (c *Client) Content(o *Object, exportMime string) ([]byte, error) {
	if o.Kind == KindFolder {
		return nil, fmt.Errorf("cannot fetch content of folder %q", o.Name)
	}

	transport, exec, err := c.handles()
	if err != nil {
		return nil, err
	}

	var data []byte

	if o.Representation == RepresentationNative {
		mime := exportMime
		if mime == "" {
			mime = defaultExportMime(o.MimeType)
		}

		if len(o.ExportLinks) > 0 {
			if _, offered := o.ExportLinks[mime]; !offered {
				return nil, nil
			}
		}

		ok, err := exec.Do("files.export", func() error {
			var err error
			data, err = transport.Export(o.ID, mime)

			return err
		})
		if err != nil || !ok {
			return nil, err
		}

		return data, nil
	}

	ok, err := exec.Do("files.download", func() error {
		var err error
		data, err = transport.Download(o.ID)

		return err
	})
	if err != nil || !ok {
		return nil, err
	}

	return data, nil
}

// Text exports a native document as plain text, with any leading
// UTF-8 byte order mark stripped.
func (c *Client) Text(o *Object) (string, error) {
	data, err := c.Content(o, MimeTypePlainText)
	if err != nil {
		return "", err
	}

	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}

// CSV exports a spreadsheet as parsed rows.
func (c *Client) CSV(o *Object) ([][]string, error) {
	data, err := c.Content(o, MimeTypeCSV)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, nil
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv export of %q: %w", o.Name, err)
	}

	return rows, nil
}

// SaveAs writes an object's content to localPath. An existing file is
// left alone unless replace is set, and even then the write is skipped
// when the remote checksum matches the local bytes, so unchanged files
// never produce a spurious modification. The write goes through a
// temp file and rename; a partial file is never visible at localPath.
func (c *Client) SaveAs(o *Object, localPath string, replace bool) error {
	if info, err := os.Stat(localPath); err == nil && !info.IsDir() {
		if !replace {
			return nil
		}

		if o.Md5Checksum != "" {
			local, err := fileChecksum(localPath)
			if err == nil && local == o.Md5Checksum {
				c.logger.Debug("save skipped, checksum unchanged", "path", localPath, "id", o.ID)

				return nil
			}
		}
	}

	data, err := c.Content(o, "")
	if err != nil {
		return err
	}

	if data == nil {
		return nil
	}

	return writeFileAtomic(localPath, data)
}

func fileChecksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	sum := md5.Sum(data)

	return hex.EncodeToString(sum[:]), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)

		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// SuggestedFilename returns a local filename for an object, sanitized
// and extended per the export format when the object is a native
// document.
func SuggestedFilename(o *Object, exportMime string) string {
	name := sanitizeFilename(o.Name)

	if o.Representation != RepresentationNative {
		return name
	}

	ext := map[string]string{
		MimeTypePlainText: ".txt",
		MimeTypeCSV:       ".csv",
		MimeTypeHTML:      ".html",
	}[exportMime]
	if ext == "" {
		ext = ".txt"
	}

	if !strings.HasSuffix(name, ext) {
		name += ext
	}

	return name
}

// sanitizeFilename removes or replaces characters that are invalid in
// filenames.
func sanitizeFilename(filename string) string {
	replacements := map[string]string{
		"/":  "-",
		"\\": "-",
		":":  "-",
		"*":  "",
		"?":  "",
		"\"": "",
		"<":  "",
		">":  "",
		"|":  "-",
	}

	for old, new := range replacements {
		filename = strings.ReplaceAll(filename, old, new)
	}

	filename = strings.TrimSpace(filename)
	for strings.Contains(filename, "  ") {
		filename = strings.ReplaceAll(filename, "  ", " ")
	}

	return filename
}
