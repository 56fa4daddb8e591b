package gdrive

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sort"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// fakeTransport is an in-memory Transport. Its List evaluates the
// filter expressions the resolver generates, so scenario tests
// exercise real query semantics.
type fakeTransport struct {
	files    map[string]*drive.File
	contents map[string][]byte

	nextID  int
	modSeq  int
	baseMod time.Time

	deleteErr error

	listCalls     int
	getCalls      int
	insertCalls   int
	updateCalls   int
	deleteCalls   int
	exportCalls   int
	downloadCalls int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		files:    make(map[string]*drive.File),
		contents: make(map[string][]byte),
		baseMod:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func notFoundErr() error {
	return &googleapi.Error{Code: http.StatusNotFound, Message: "file not found"}
}

func (t *fakeTransport) newID() string {
	t.nextID++

	return fmt.Sprintf("f-%d", t.nextID)
}

// stamp assigns each stored file a strictly increasing modification
// time, so listing order is deterministic.
func (t *fakeTransport) stamp(f *drive.File) {
	t.modSeq++
	f.ModifiedTime = t.baseMod.Add(time.Duration(t.modSeq) * time.Minute).Format(time.RFC3339)
}

func (t *fakeTransport) addFile(name, mimeType string, parents []string, content []byte) *drive.File {
	f := &drive.File{
		Id:       t.newID(),
		Name:     name,
		MimeType: mimeType,
		Parents:  parents,
	}

	if RepresentationOf(mimeType) == RepresentationBlob {
		sum := md5.Sum(content)
		f.Md5Checksum = hex.EncodeToString(sum[:])
	} else if mimeType == MimeTypeGoogleSheet {
		f.ExportLinks = map[string]string{
			MimeTypeCSV:  "https://export/" + f.Id + "/csv",
			MimeTypeHTML: "https://export/" + f.Id + "/html",
		}
	} else {
		f.ExportLinks = map[string]string{
			MimeTypePlainText: "https://export/" + f.Id + "/txt",
			MimeTypeHTML:      "https://export/" + f.Id + "/html",
		}
	}

	t.stamp(f)
	t.files[f.Id] = f
	t.contents[f.Id] = content

	return f
}

func (t *fakeTransport) addFolder(name string, parents ...string) *drive.File {
	f := &drive.File{
		Id:       t.newID(),
		Name:     name,
		MimeType: MimeTypeFolder,
		Parents:  parents,
	}

	t.stamp(f)
	t.files[f.Id] = f

	return f
}

func (t *fakeTransport) List(query string, max int64) ([]*drive.File, error) {
	t.listCalls++

	var out []*drive.File

	for _, f := range t.files {
		if matchQuery(f, query) {
			out = append(out, f)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ModifiedTime > out[j].ModifiedTime
	})

	if max > 0 && int64(len(out)) > max {
		out = out[:max]
	}

	return out, nil
}

func (t *fakeTransport) Get(id string) (*drive.File, error) {
	t.getCalls++

	f, ok := t.files[id]
	if !ok {
		return nil, notFoundErr()
	}

	return f, nil
}

func (t *fakeTransport) Insert(meta *drive.File, media io.Reader, contentType string) (*drive.File, error) {
	t.insertCalls++

	content, err := io.ReadAll(media)
	if err != nil {
		return nil, err
	}

	f := &drive.File{
		Id:       t.newID(),
		Name:     meta.Name,
		MimeType: meta.MimeType,
		Parents:  meta.Parents,
	}

	if RepresentationOf(f.MimeType) == RepresentationBlob {
		sum := md5.Sum(content)
		f.Md5Checksum = hex.EncodeToString(sum[:])
	}

	t.stamp(f)
	t.files[f.Id] = f
	t.contents[f.Id] = content

	return f, nil
}

func (t *fakeTransport) Update(id string, meta *drive.File, media io.Reader, contentType string) (*drive.File, error) {
	t.updateCalls++

	f, ok := t.files[id]
	if !ok {
		return nil, notFoundErr()
	}

	content, err := io.ReadAll(media)
	if err != nil {
		return nil, err
	}

	if meta.Name != "" {
		f.Name = meta.Name
	}

	if meta.MimeType != "" {
		f.MimeType = meta.MimeType
	}

	if RepresentationOf(f.MimeType) == RepresentationBlob {
		sum := md5.Sum(content)
		f.Md5Checksum = hex.EncodeToString(sum[:])
	}

	t.stamp(f)
	t.contents[id] = content

	return f, nil
}

func (t *fakeTransport) Delete(id string) error {
	t.deleteCalls++

	if t.deleteErr != nil {
		return t.deleteErr
	}

	if _, ok := t.files[id]; !ok {
		return notFoundErr()
	}

	delete(t.files, id)
	delete(t.contents, id)

	return nil
}

func (t *fakeTransport) Export(id, mimeType string) ([]byte, error) {
	t.exportCalls++

	content, ok := t.contents[id]
	if !ok {
		return nil, notFoundErr()
	}

	return content, nil
}

func (t *fakeTransport) Download(id string) ([]byte, error) {
	t.downloadCalls++

	content, ok := t.contents[id]
	if !ok {
		return nil, notFoundErr()
	}

	return content, nil
}

// matchQuery evaluates the conjunction expressions the resolver
// builds: clauses joined with " and ", parenthesized "or" groups, and
// the atoms trashed/name/parents/mimeType.
func matchQuery(f *drive.File, query string) bool {
	for _, clause := range strings.Split(query, " and ") {
		if !matchClause(f, clause) {
			return false
		}
	}

	return true
}

func matchClause(f *drive.File, clause string) bool {
	clause = strings.TrimSpace(clause)

	if strings.HasPrefix(clause, "(") && strings.HasSuffix(clause, ")") {
		inner := clause[1 : len(clause)-1]
		for _, alt := range strings.Split(inner, " or ") {
			if matchClause(f, alt) {
				return true
			}
		}

		return false
	}

	switch {
	case clause == "trashed = false":
		return !f.Trashed
	case strings.HasPrefix(clause, "name = '"):
		return f.Name == unquote(clause, "name = ")
	case strings.HasPrefix(clause, "mimeType = '"):
		return f.MimeType == unquote(clause, "mimeType = ")
	case strings.HasPrefix(clause, "mimeType != '"):
		return f.MimeType != unquote(clause, "mimeType != ")
	case strings.HasSuffix(clause, "' in parents"):
		parent := strings.TrimSuffix(strings.TrimPrefix(clause, "'"), "' in parents")

		return slices.Contains(f.Parents, parent)
	default:
		return false
	}
}

func unquote(clause, prefix string) string {
	v := strings.TrimPrefix(clause, prefix)
	v = strings.TrimPrefix(v, "'")
	v = strings.TrimSuffix(v, "'")
	v = strings.ReplaceAll(v, `\'`, `'`)

	return strings.ReplaceAll(v, `\\`, `\`)
}
