package gdrive

import (
	"bytes"
	"fmt"
	"log/slog"

	"google.golang.org/api/drive/v3"
)

// WriteRequest describes one upload. The target is either an existing
// object id, or a name scoped to a destination folder (by id or by
// folder name).
type WriteRequest struct {
	// ID targets an existing object directly.
	ID string
	// Name targets an object by title; used when ID is empty.
	Name string
	// FolderID scopes Name to a destination folder.
	FolderID string
	// Folder scopes Name to a destination folder looked up by title;
	// used when FolderID is empty. A missing folder absorbs the write.
	Folder string

	Data     []byte
	MimeType string

	// Replace permits overwriting an existing object. When false, a
	// write against an existing target is a no-op.
	Replace bool
	// Convert requests server-side conversion into the native document
	// format for the payload's MIME type.
	Convert bool
}

func (w WriteRequest) wantRepresentation() Representation {
	if w.Convert {
		return RepresentationNative
	}

	return RepresentationBlob
}

// Syncer reconciles desired content against what already exists
// remotely: insert when absent, update in place when the storage
// representation matches, delete-then-insert when it does not.
type Syncer struct {
	transport Transport
	resolver  *Resolver
	exec      *Executor
	logger    *slog.Logger
}

func NewSyncer(transport Transport, resolver *Resolver, exec *Executor, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Syncer{transport: transport, resolver: resolver, exec: exec, logger: logger}
}

// Write uploads req and returns a snapshot of the resulting object.
// A nil result with a nil error means the write was absorbed: the
// destination folder does not exist, the target exists and Replace is
// false, or a required delete was rejected. Callers must check for nil
// before using the result.
//
// A representation change (blob to native document or back) cannot be
// done in place; the existing object is deleted and a fresh one
// inserted, so the result carries a new identifier. A matching
// representation updates in place and keeps the identifier.
func (s *Syncer) Write(req WriteRequest) (*Object, error) {
	existing, parents, err := s.resolveTarget(&req)
	if err != nil {
		return nil, err
	}

	if req.ID != "" && existing == nil {
		// Explicit id that no longer resolves: nothing to update.
		return nil, nil
	}

	if req.Folder != "" && req.FolderID == "" && len(parents) == 0 && existing == nil {
		// Destination folder does not exist.
		s.logger.Debug("write absorbed, destination folder not found", "folder", req.Folder)

		return nil, nil
	}

	if existing != nil {
		if !req.Replace {
			s.logger.Debug("write absorbed, target exists and replace not set",
				"id", existing.ID, "name", existing.Name)

			return nil, nil
		}

		if existing.Representation == req.wantRepresentation() {
			return s.update(existing, req)
		}

		// Representation change: the remote API forbids converting an
		// object in place, so replace it wholesale.
		ok, err := s.exec.Do("files.delete", func() error {
			return s.transport.Delete(existing.ID)
		})
		if err != nil || !ok {
			s.logger.Warn("write absorbed, could not delete existing object",
				"id", existing.ID, "error", err)

			return nil, nil
		}

		if len(parents) == 0 {
			parents = existing.Parents
		}

		if req.Name == "" {
			req.Name = existing.Name
		}
	}

	return s.insert(req, parents)
}

// resolveTarget finds the existing object for req, plus the parent ids
// a fresh insert should use.
func (s *Syncer) resolveTarget(req *WriteRequest) (*Object, []string, error) {
	if req.ID != "" {
		existing, err := s.resolver.ByID(req.ID)
		if err != nil {
			return nil, nil, err
		}

		return existing, nil, nil
	}

	if req.Name == "" {
		return nil, nil, fmt.Errorf("write target needs an id or a name")
	}

	parentID := req.FolderID
	if parentID == "" && req.Folder != "" {
		folder, err := s.resolver.FolderByName(req.Folder, "")
		if err != nil {
			return nil, nil, err
		}

		if folder == nil {
			return nil, nil, nil
		}

		parentID = folder.ID
	}

	existing, err := s.resolver.FileByName(req.Name, parentID)
	if err != nil {
		return nil, nil, err
	}

	var parents []string
	if parentID != "" {
		parents = []string{parentID}
	}

	return existing, parents, nil
}

func (s *Syncer) update(existing *Object, req WriteRequest) (*Object, error) {
	name := req.Name
	if name == "" {
		name = existing.Name
	}

	meta := &drive.File{Name: name}
	if req.Convert {
		meta.MimeType = NativeMimeFor(req.MimeType)
	}

	var updated *drive.File

	ok, err := s.exec.Do("files.update", func() error {
		var err error
		updated, err = s.transport.Update(existing.ID, meta, bytes.NewReader(req.Data), req.MimeType)

		return err
	})
	if err != nil || !ok {
		return nil, err
	}

	s.logger.Info("updated", "id", updated.Id, "name", updated.Name)

	return newObject(updated), nil
}

func (s *Syncer) insert(req WriteRequest, parents []string) (*Object, error) {
	meta := &drive.File{
		Name:     req.Name,
		MimeType: req.MimeType,
		Parents:  parents,
	}
	if req.Convert {
		meta.MimeType = NativeMimeFor(req.MimeType)
	}

	var inserted *drive.File

	ok, err := s.exec.Do("files.create", func() error {
		var err error
		inserted, err = s.transport.Insert(meta, bytes.NewReader(req.Data), req.MimeType)

		return err
	})
	if err != nil || !ok {
		return nil, err
	}

	s.logger.Info("created", "id", inserted.Id, "name", inserted.Name)

	return newObject(inserted), nil
}
