package dataroom

import (
	"time"

	"github.com/google/uuid"
)

// EntityKind discriminates the three record kinds managed by the engine.
//
// The kind is set explicitly at construction time and stored with the record;
// it is never inferred from which fields happen to be populated.
type EntityKind int

const (
	// EntityRoom is a top-level isolated workspace
	EntityRoom EntityKind = iota

	// EntityContainer is a folder-like node in a room's tree
	EntityContainer

	// EntityLeaf is a file-like record referencing exactly one blob
	EntityLeaf
)

// String returns the kind name used in error messages and logs.
func (k EntityKind) String() string {
	switch k {
	case EntityRoom:
		return "room"
	case EntityContainer:
		return "container"
	case EntityLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// CollisionAction is the caller's choice when a desired name collides with an
// existing sibling.
type CollisionAction string

const (
	// ActionCancel aborts the operation with KindAlreadyExists
	ActionCancel CollisionAction = "cancel"

	// ActionReplace removes the colliding sibling and proceeds with the
	// desired name. Only leaves support replace.
	ActionReplace CollisionAction = "replace"

	// ActionKeepBoth derives a unique "name (n)" variant and proceeds
	ActionKeepBoth CollisionAction = "keep-both"
)

const (
	// SupportedContentType is the only payload type accepted by Upload
	SupportedContentType = "application/pdf"

	// SupportedExtension is the only recognized leaf name extension
	SupportedExtension = ".pdf"

	// MaxLeafSize is the upload size ceiling in bytes (50 MiB)
	MaxLeafSize = 50 << 20
)

// Room is the top-level isolation boundary. It owns a disjoint forest of
// containers and leaves; deleting a room cascades to everything it owns.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Container is a folder-like node. ParentID == nil means the container sits
// directly under the room root. Containers form a tree per room; no container
// is ever its own ancestor (enforced at move time).
type Container struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	ParentID  *string   `json:"parent_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Leaf is a file-like record. BlobKey is an opaque identifier into the blob
// store, generated once at upload and never reused.
type Leaf struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"room_id"`
	ParentID    *string   `json:"parent_id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        uint64    `json:"size"`
	BlobKey     string    `json:"blob_key"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Impact is a deletion preview: how many containers and leaves a delete would
// remove. For container deletes the count includes the target container.
type Impact struct {
	Containers int
	Leaves     int
}

// RoomDeleteResult reports what a room cascade actually removed.
type RoomDeleteResult struct {
	Containers int
	Leaves     int
	Blobs      int
}

// RoomStats aggregates a room's contents.
type RoomStats struct {
	ContainerCount int
	LeafCount      int
	TotalSize      uint64
}

// NewID generates a fresh entity id or blob key.
//
// UUID v4 gives collision resistance without coordination; blob keys are
// generated per upload, never derived from content.
func NewID() string {
	return uuid.NewString()
}

// sameParent reports whether two parent references point at the same scope
// (both nil, or both the same container id).
func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
