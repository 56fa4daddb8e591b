package gdrive

import (
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
)

// Filter describes one query against the remote service. Zero fields
// are omitted from the generated filter expression; trashed objects
// are always excluded.
type Filter struct {
	// Name matches the object title exactly.
	Name string
	// ParentID restricts results to direct children of the folder.
	ParentID string
	// MimeTypes restricts results to the union of these types.
	MimeTypes []string
	// ExcludeMimeType adds a mimeType != clause.
	ExcludeMimeType string
	// MaxResults caps total results; 0 means unlimited.
	MaxResults int
}

// expression renders the filter in the Drive query syntax: clauses
// joined with "and", mime unions parenthesized and joined with "or".
func (f Filter) expression() string {
	parts := []string{"trashed = false"}

	if f.Name != "" {
		parts = append(parts, fmt.Sprintf("name = '%s'", escapeQueryValue(f.Name)))
	}

	if f.ParentID != "" {
		parts = append(parts, fmt.Sprintf("'%s' in parents", f.ParentID))
	}

	if len(f.MimeTypes) == 1 {
		parts = append(parts, fmt.Sprintf("mimeType = '%s'", f.MimeTypes[0]))
	} else if len(f.MimeTypes) > 1 {
		mimeFilters := make([]string, len(f.MimeTypes))
		for i, mt := range f.MimeTypes {
			mimeFilters[i] = fmt.Sprintf("mimeType = '%s'", mt)
		}

		parts = append(parts, "("+strings.Join(mimeFilters, " or ")+")")
	}

	if f.ExcludeMimeType != "" {
		parts = append(parts, fmt.Sprintf("mimeType != '%s'", f.ExcludeMimeType))
	}

	return strings.Join(parts, " and ")
}

// escapeQueryValue escapes backslashes and single quotes inside a
// quoted query value.
func escapeQueryValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)

	return strings.ReplaceAll(v, `'`, `\'`)
}

// Resolver turns name- and type-based lookups into remote queries and
// materializes typed Object snapshots from the responses.
type Resolver struct {
	transport Transport
	exec      *Executor
}

func NewResolver(transport Transport, exec *Executor) *Resolver {
	return &Resolver{transport: transport, exec: exec}
}

// List returns every non-trashed object matching the filter, newest
// modification first. The list may be empty; that is not an error.
func (r *Resolver) List(f Filter) ([]*Object, error) {
	var files []*drive.File

	ok, err := r.exec.Do("files.list", func() error {
		var err error
		files, err = r.transport.List(f.expression(), int64(f.MaxResults))

		return err
	})
	if err != nil || !ok {
		return nil, err
	}

	objects := make([]*Object, 0, len(files))
	for _, file := range files {
		objects = append(objects, newObject(file))
	}

	return objects, nil
}

// Find returns the most recently modified object matching the filter,
// or nil when nothing matches.
func (r *Resolver) Find(f Filter) (*Object, error) {
	f.MaxResults = 1

	objects, err := r.List(f)
	if err != nil || len(objects) == 0 {
		return nil, err
	}

	return objects[0], nil
}

// ByID fetches a single object. A nil result means the id does not
// resolve; absence is an expected outcome, not an error.
func (r *Resolver) ByID(id string) (*Object, error) {
	var file *drive.File

	ok, err := r.exec.Do("files.get", func() error {
		var err error
		file, err = r.transport.Get(id)

		return err
	})
	if err != nil || !ok {
		return nil, err
	}

	return newObject(file), nil
}

// FileByName finds the non-folder object with the exact name, scoped
// to parentID when given.
func (r *Resolver) FileByName(name, parentID string) (*Object, error) {
	return r.Find(Filter{
		Name:            name,
		ParentID:        parentID,
		ExcludeMimeType: MimeTypeFolder,
	})
}

// FolderByName finds the folder with the exact name, scoped to
// parentID when given.
func (r *Resolver) FolderByName(name, parentID string) (*Object, error) {
	return r.Find(Filter{
		Name:      name,
		ParentID:  parentID,
		MimeTypes: []string{MimeTypeFolder},
	})
}

// Children lists the non-trashed children of a folder. With no mime
// types it returns all non-folder children; with mime types it returns
// the union of matches across them.
func (r *Resolver) Children(parentID string, mimeTypes ...string) ([]*Object, error) {
	f := Filter{ParentID: parentID}

	if len(mimeTypes) == 0 {
		f.ExcludeMimeType = MimeTypeFolder
	} else {
		f.MimeTypes = mimeTypes
	}

	return r.List(f)
}
