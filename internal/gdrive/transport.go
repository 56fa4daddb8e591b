package gdrive

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// objectFields is the metadata set requested on every call that
// returns file metadata.
const objectFields = "id,name,mimeType,parents,md5Checksum,exportLinks," +
	"webContentLink,webViewLink,modifiedTime,trashed,size,description,starred"

// listOrder makes every listing most-recently-modified-first. Callers
// may rely on this ordering.
const listOrder = "modifiedTime desc"

// Transport issues raw calls against the remote storage API and
// returns parsed metadata or bytes. Implementations do no retrying or
// error classification; that is the executor's job.
type Transport interface {
	// List returns files matching the filter expression, newest
	// modification first. max caps the result count; 0 means no cap.
	List(query string, max int64) ([]*drive.File, error)
	Get(id string) (*drive.File, error)
	// Insert uploads a new file. contentType is the MIME type of the
	// media bytes; meta.MimeType may differ to request server-side
	// conversion.
	Insert(meta *drive.File, media io.Reader, contentType string) (*drive.File, error)
	Update(id string, meta *drive.File, media io.Reader, contentType string) (*drive.File, error)
	Delete(id string) error
	// Export fetches a native document converted to the given MIME type.
	Export(id, mimeType string) ([]byte, error)
	// Download fetches an uploaded blob byte-for-byte.
	Download(id string) ([]byte, error)
}

type driveTransport struct {
	svc      *drive.Service
	pageSize int64
}

// NewTransport builds a Transport over the Drive API using the given
// authorized HTTP client.
func NewTransport(httpClient *http.Client, pageSize int64) (Transport, error) {
	svc, err := drive.NewService(context.Background(), option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive client: %w", err)
	}

	if pageSize <= 0 {
		pageSize = 100
	}

	return &driveTransport{svc: svc, pageSize: pageSize}, nil
}

func (t *driveTransport) List(query string, max int64) ([]*drive.File, error) {
	var files []*drive.File

	pageToken := ""

	for {
		req := t.svc.Files.List().
			Q(query).
			OrderBy(listOrder).
			PageSize(t.pageSize).
			Fields(googleapi.Field("nextPageToken, files(" + objectFields + ")"))

		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		result, err := req.Do()
		if err != nil {
			return nil, err
		}

		for _, f := range result.Files {
			files = append(files, f)
			if max > 0 && int64(len(files)) >= max {
				return files, nil
			}
		}

		if result.NextPageToken == "" {
			break
		}

		pageToken = result.NextPageToken
	}

	return files, nil
}

func (t *driveTransport) Get(id string) (*drive.File, error) {
	return t.svc.Files.Get(id).Fields(objectFields).Do()
}

func (t *driveTransport) Insert(meta *drive.File, media io.Reader, contentType string) (*drive.File, error) {
	req := t.svc.Files.Create(meta).Fields(objectFields)
	if media != nil {
		req = req.Media(media, googleapi.ContentType(contentType))
	}

	return req.Do()
}

func (t *driveTransport) Update(id string, meta *drive.File, media io.Reader, contentType string) (*drive.File, error) {
	req := t.svc.Files.Update(id, meta).Fields(objectFields)
	if media != nil {
		req = req.Media(media, googleapi.ContentType(contentType))
	}

	return req.Do()
}

func (t *driveTransport) Delete(id string) error {
	return t.svc.Files.Delete(id).Do()
}

func (t *driveTransport) Export(id, mimeType string) ([]byte, error) {
	resp, err := t.svc.Files.Export(id, mimeType).Download()
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read exported content: %w", err)
	}

	return data, nil
}

func (t *driveTransport) Download(id string) ([]byte, error) {
	resp, err := t.svc.Files.Get(id).Download()
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read downloaded content: %w", err)
	}

	return data, nil
}
