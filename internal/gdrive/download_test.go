package gdrive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *fakeTransport) {
	t.Helper()

	transport := newFakeTransport()
	client := New(nil, WithTransport(transport))

	return client, transport
}

func TestContent_DownloadsBlob(t *testing.T) {
	client, transport := newTestClient(t)

	f := transport.addFile("photo.png", "image/png", nil, []byte("pngbytes"))

	resolver, err := client.Resolver()
	require.NoError(t, err)
	obj, err := resolver.ByID(f.Id)
	require.NoError(t, err)

	data, err := client.Content(obj, "")
	require.NoError(t, err)
	assert.Equal(t, []byte("pngbytes"), data)
	assert.Equal(t, 1, transport.downloadCalls)
	assert.Zero(t, transport.exportCalls)
}

func TestContent_ExportsNativeDocument(t *testing.T) {
	client, transport := newTestClient(t)

	f := transport.addFile("Doc", MimeTypeGoogleDoc, nil, []byte("doc text"))

	resolver, err := client.Resolver()
	require.NoError(t, err)
	obj, err := resolver.ByID(f.Id)
	require.NoError(t, err)

	data, err := client.Content(obj, MimeTypePlainText)
	require.NoError(t, err)
	assert.Equal(t, []byte("doc text"), data)
	assert.Equal(t, 1, transport.exportCalls)
	assert.Zero(t, transport.downloadCalls)
}

func TestContent_MissingExportFormatIsNil(t *testing.T) {
	client, transport := newTestClient(t)

	// The fake only offers text and html export links.
	f := transport.addFile("Doc", MimeTypeGoogleDoc, nil, []byte("doc text"))

	resolver, err := client.Resolver()
	require.NoError(t, err)
	obj, err := resolver.ByID(f.Id)
	require.NoError(t, err)

	data, err := client.Content(obj, "application/pdf")
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Zero(t, transport.exportCalls)
}

func TestContent_FolderRefused(t *testing.T) {
	client, transport := newTestClient(t)

	f := transport.addFolder("Reports")

	resolver, err := client.Resolver()
	require.NoError(t, err)
	obj, err := resolver.ByID(f.Id)
	require.NoError(t, err)

	_, err = client.Content(obj, "")
	require.Error(t, err)
}

func TestText_StripsBOM(t *testing.T) {
	client, transport := newTestClient(t)

	f := transport.addFile("Doc", MimeTypeGoogleDoc, nil, append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...))

	resolver, err := client.Resolver()
	require.NoError(t, err)
	obj, err := resolver.ByID(f.Id)
	require.NoError(t, err)

	text, err := client.Text(obj)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestCSV(t *testing.T) {
	client, transport := newTestClient(t)

	f := transport.addFile("Sheet", MimeTypeGoogleSheet, nil, []byte("a,b\n1,2\n"))

	resolver, err := client.Resolver()
	require.NoError(t, err)
	obj, err := resolver.ByID(f.Id)
	require.NoError(t, err)

	rows, err := client.CSV(obj)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
}

func TestSaveAs_WritesNewFile(t *testing.T) {
	client, transport := newTestClient(t)

	f := transport.addFile("notes.txt", "text/plain", nil, []byte("content"))

	resolver, err := client.Resolver()
	require.NoError(t, err)
	obj, err := resolver.ByID(f.Id)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, client.SaveAs(obj, dest, false))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
	assert.Equal(t, 1, transport.downloadCalls)
}

func TestSaveAs_ExistingWithoutReplaceIsNoop(t *testing.T) {
	client, transport := newTestClient(t)

	f := transport.addFile("notes.txt", "text/plain", nil, []byte("remote"))

	resolver, err := client.Resolver()
	require.NoError(t, err)
	obj, err := resolver.ByID(f.Id)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(dest, []byte("local"), 0644))

	require.NoError(t, client.SaveAs(obj, dest, false))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("local"), data)
	assert.Zero(t, transport.downloadCalls, "no fetch when the write is skipped")
}

func TestSaveAs_MatchingChecksumSkipsFetch(t *testing.T) {
	client, transport := newTestClient(t)

	f := transport.addFile("notes.txt", "text/plain", nil, []byte("same"))

	resolver, err := client.Resolver()
	require.NoError(t, err)
	obj, err := resolver.ByID(f.Id)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(dest, []byte("same"), 0644))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	before := info.ModTime()

	require.NoError(t, client.SaveAs(obj, dest, true))

	info, err = os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, before, info.ModTime(), "matching checksum must not rewrite the file")
	assert.Zero(t, transport.downloadCalls)
}

func TestSaveAs_MismatchedChecksumRewrites(t *testing.T) {
	client, transport := newTestClient(t)

	f := transport.addFile("notes.txt", "text/plain", nil, []byte("remote v2"))

	resolver, err := client.Resolver()
	require.NoError(t, err)
	obj, err := resolver.ByID(f.Id)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(dest, []byte("local v1"), 0644))

	require.NoError(t, client.SaveAs(obj, dest, true))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("remote v2"), data)
	assert.Equal(t, 1, transport.downloadCalls)
}

func TestSaveAs_NoTempFileLeftBehind(t *testing.T) {
	client, transport := newTestClient(t)

	f := transport.addFile("notes.txt", "text/plain", nil, []byte("content"))

	resolver, err := client.Resolver()
	require.NoError(t, err)
	obj, err := resolver.ByID(f.Id)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, client.SaveAs(obj, filepath.Join(dir, "notes.txt"), false))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.txt", entries[0].Name())
}

func TestSuggestedFilename(t *testing.T) {
	tests := []struct {
		name       string
		obj        *Object
		exportMime string
		want       string
	}{
		{
			name: "blob keeps its name",
			obj:  &Object{Name: "photo.png", Representation: RepresentationBlob},
			want: "photo.png",
		},
		{
			name:       "native doc gets txt extension",
			obj:        &Object{Name: "Meeting Notes", Representation: RepresentationNative},
			exportMime: MimeTypePlainText,
			want:       "Meeting Notes.txt",
		},
		{
			name:       "native sheet gets csv extension",
			obj:        &Object{Name: "Budget", Representation: RepresentationNative},
			exportMime: MimeTypeCSV,
			want:       "Budget.csv",
		},
		{
			name: "invalid characters sanitized",
			obj:  &Object{Name: "a/b:c*d", Representation: RepresentationBlob},
			want: "a-b-cd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestedFilename(tt.obj, tt.exportMime))
		})
	}
}
