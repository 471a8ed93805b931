package dataroom

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/marmos91/dataroom/internal/logger"
	"github.com/marmos91/dataroom/pkg/blob"
)

// LeafService orchestrates the leaf lifecycle: upload, download, renaming,
// moving, and deletion. Leaves are the only kind that supports the replace
// collision action, since replacing a file is a meaningful user intent while
// replacing a folder is not.
type LeafService struct {
	store Store
	blobs blob.Store
}

// NewLeafService creates a leaf orchestrator backed by the given stores.
func NewLeafService(store Store, blobs blob.Store) *LeafService {
	return &LeafService{store: store, blobs: blobs}
}

// Upload stores a payload and creates the leaf record referencing it.
//
// Payload checks run before anything touches storage: only the supported
// content type is accepted and the size ceiling is enforced. The blob is
// written before the metadata record, so an interrupted upload can only
// strand an orphaned blob, never a leaf pointing at missing content.
//
// With the replace action, the colliding leaf and its payload are removed
// and the upload proceeds under the original name.
func (s *LeafService) Upload(ctx context.Context, roomID string, parentID *string, name string, contentType string, data []byte, onCollision CollisionAction) (*Leaf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ===== Step 1: validate the payload before any storage write
	if contentType != SupportedContentType {
		return nil, fileValidation("unsupported content type " + contentType + " (only " + SupportedContentType + " is accepted)")
	}
	if len(data) > MaxLeafSize {
		return nil, fileValidation(fmt.Sprintf("file exceeds the %d MiB size limit", MaxLeafSize>>20))
	}

	if _, err := s.store.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if err := checkScope(ctx, s.store, roomID, parentID); err != nil {
		return nil, err
	}

	// ===== Step 2: resolve the name against sibling leaves
	siblings, err := s.scopeSiblings(ctx, roomID, parentID)
	if err != nil {
		return nil, err
	}
	resolution, err := ResolveName(EntityLeaf, name, onCollision, siblings, "", true)
	if err != nil {
		return nil, err
	}

	// ===== Step 3: write the payload, then the record
	blobKey := NewID()
	if err := s.blobs.Put(ctx, blobKey, data); err != nil {
		return nil, BlobError("failed to store file content", err)
	}

	if resolution.Replace {
		if err := s.removeLeafByID(ctx, resolution.Existing.ID); err != nil {
			s.dropBlob(ctx, blobKey)
			return nil, err
		}
	}

	now := time.Now().UTC()
	leaf := &Leaf{
		ID:          NewID(),
		RoomID:      roomID,
		ParentID:    parentID,
		Name:        resolution.FinalName,
		ContentType: contentType,
		Size:        uint64(len(data)),
		BlobKey:     blobKey,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertLeaf(ctx, leaf); err != nil {
		s.dropBlob(ctx, blobKey)
		return nil, err
	}

	touchRoom(ctx, s.store, roomID)

	logger.Debug("Uploaded leaf %s (%s), %d bytes", leaf.Name, leaf.ID, leaf.Size)
	return leaf, nil
}

// Get retrieves a leaf by id.
func (s *LeafService) Get(ctx context.Context, id string) (*Leaf, error) {
	return s.store.GetLeaf(ctx, id)
}

// Download returns a leaf's full payload along with its current name.
// A missing payload surfaces as KindBlob: the record exists but its content
// is gone, which is an infrastructure inconsistency rather than a not-found.
func (s *LeafService) Download(ctx context.Context, id string) ([]byte, string, error) {
	leaf, err := s.store.GetLeaf(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, err := s.blobs.Get(ctx, leaf.BlobKey)
	if err != nil {
		return nil, "", BlobError("failed to read file content", err)
	}
	return data, leaf.Name, nil
}

// Open returns a streaming reader over a leaf's payload plus the leaf record.
// The caller must close the reader.
func (s *LeafService) Open(ctx context.Context, id string) (io.ReadCloser, *Leaf, error) {
	leaf, err := s.store.GetLeaf(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.blobs.Open(ctx, leaf.BlobKey)
	if err != nil {
		return nil, nil, BlobError("failed to open file content", err)
	}
	return reader, leaf, nil
}

// Rename changes a leaf's name, resolving collisions with its sibling leaves
// per onCollision. With replace, the colliding leaf and its payload are
// removed.
func (s *LeafService) Rename(ctx context.Context, id string, newName string, onCollision CollisionAction) (*Leaf, error) {
	leaf, err := s.store.GetLeaf(ctx, id)
	if err != nil {
		return nil, err
	}

	siblings, err := s.scopeSiblings(ctx, leaf.RoomID, leaf.ParentID)
	if err != nil {
		return nil, err
	}
	resolution, err := ResolveName(EntityLeaf, newName, onCollision, siblings, leaf.ID, true)
	if err != nil {
		return nil, err
	}

	if resolution.Replace {
		if err := s.removeLeafByID(ctx, resolution.Existing.ID); err != nil {
			return nil, err
		}
	}

	leaf.Name = resolution.FinalName
	leaf.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateLeaf(ctx, leaf); err != nil {
		return nil, err
	}

	touchRoom(ctx, s.store, leaf.RoomID)
	return leaf, nil
}

// Move reparents a leaf to newParentID (nil for the room root), resolving
// name collisions at the destination per onCollision.
func (s *LeafService) Move(ctx context.Context, id string, newParentID *string, onCollision CollisionAction) (*Leaf, error) {
	leaf, err := s.store.GetLeaf(ctx, id)
	if err != nil {
		return nil, err
	}

	if sameParent(leaf.ParentID, newParentID) {
		return leaf, nil
	}

	if err := checkScope(ctx, s.store, leaf.RoomID, newParentID); err != nil {
		return nil, err
	}

	siblings, err := s.scopeSiblings(ctx, leaf.RoomID, newParentID)
	if err != nil {
		return nil, err
	}
	resolution, err := ResolveName(EntityLeaf, leaf.Name, onCollision, siblings, leaf.ID, true)
	if err != nil {
		return nil, err
	}

	if resolution.Replace {
		if err := s.removeLeafByID(ctx, resolution.Existing.ID); err != nil {
			return nil, err
		}
	}

	leaf.ParentID = newParentID
	leaf.Name = resolution.FinalName
	leaf.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateLeaf(ctx, leaf); err != nil {
		return nil, err
	}

	touchRoom(ctx, s.store, leaf.RoomID)
	return leaf, nil
}

// Delete removes a leaf record and then its payload. Payload deletion is
// best-effort: a failure leaves an orphaned blob for the collector, never a
// record pointing at missing content.
func (s *LeafService) Delete(ctx context.Context, id string) error {
	leaf, err := s.store.GetLeaf(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteLeaf(ctx, id); err != nil {
		return err
	}
	s.dropBlob(ctx, leaf.BlobKey)

	touchRoom(ctx, s.store, leaf.RoomID)
	return nil
}

// List returns the leaves directly inside the (roomID, parentID) scope.
func (s *LeafService) List(ctx context.Context, roomID string, parentID *string) ([]Leaf, error) {
	return s.store.ListLeavesByScope(ctx, roomID, parentID)
}

// NameAvailable reports whether a leaf could be created with the given name
// in the (roomID, parentID) scope right now. Invalid names and storage
// failures both read as unavailable.
func (s *LeafService) NameAvailable(ctx context.Context, roomID string, parentID *string, name string) bool {
	normalized := Normalize(name)
	if err := ValidateName(normalized, EntityLeaf); err != nil {
		return false
	}

	siblings, err := s.scopeSiblings(ctx, roomID, parentID)
	if err != nil {
		return false
	}
	for i := range siblings {
		if siblings[i].Name == normalized {
			return false
		}
	}
	return true
}

// removeLeafByID deletes a leaf record and then its payload, used when a
// replace resolution displaces an existing leaf.
func (s *LeafService) removeLeafByID(ctx context.Context, id string) error {
	existing, err := s.store.GetLeaf(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteLeaf(ctx, id); err != nil {
		return err
	}
	s.dropBlob(ctx, existing.BlobKey)
	return nil
}

// dropBlob deletes a payload best-effort, logging instead of failing. Any
// remainder is reclaimed by the orphan collector.
func (s *LeafService) dropBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete blob %s, leaving it for the collector: %v", key, err)
	}
}

func (s *LeafService) scopeSiblings(ctx context.Context, roomID string, parentID *string) ([]Sibling, error) {
	leaves, err := s.store.ListLeavesByScope(ctx, roomID, parentID)
	if err != nil {
		return nil, err
	}
	siblings := make([]Sibling, 0, len(leaves))
	for i := range leaves {
		siblings = append(siblings, Sibling{ID: leaves[i].ID, Name: leaves[i].Name})
	}
	return siblings, nil
}

// checkScope verifies a non-nil parent reference points at an existing
// container in the same room. A nil parent (the room root) is always valid.
func checkScope(ctx context.Context, store Store, roomID string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	parent, err := store.GetContainer(ctx, *parentID)
	if err != nil {
		return err
	}
	if parent.RoomID != roomID {
		return invalidOperation("parent container belongs to a different room")
	}
	return nil
}
