package dataroom

import "context"

// ============================================================================
// Store Interface
// ============================================================================

// Store provides metadata persistence for rooms, containers, and leaves.
//
// This interface is the storage collaborator consumed by the lifecycle
// orchestrators. It deliberately stays at the record level: point CRUD by id,
// scope queries on the compound (roomID, parentID) key, and bulk deletes for
// cascades. All invariant enforcement (name uniqueness, acyclicity, cascade
// ordering) lives above it in the orchestrators.
//
// Scope Queries:
// A scope is the (roomID, parentID) pair within which name uniqueness is
// enforced. parentID == nil addresses entries directly under the room root.
// Backends without a composite null-capable index implement the nil case with
// a post-filter over the room's entries.
//
// Error Contract:
//   - lookups that miss return *Error with KindNotFound
//   - every infrastructure failure is wrapped in KindDatabase with the
//     originating cause attached
//   - bulk deletes are idempotent: unknown ids are skipped, not errors
//
// Thread Safety:
// Implementations must be safe for concurrent use by multiple goroutines.
// No cross-operation serialization is provided: a read-then-write sequence in
// the orchestrators can interleave with other operations (documented engine
// limitation).
type Store interface {
	// ========================================================================
	// Rooms
	// ========================================================================

	// GetRoom retrieves a room by id.
	GetRoom(ctx context.Context, id string) (*Room, error)

	// InsertRoom stores a new room record.
	InsertRoom(ctx context.Context, room *Room) error

	// UpdateRoom overwrites an existing room record.
	// Returns KindNotFound if the room does not exist.
	UpdateRoom(ctx context.Context, room *Room) error

	// DeleteRoom removes a room record. Idempotent.
	DeleteRoom(ctx context.Context, id string) error

	// ListRooms returns every room, in no particular order.
	ListRooms(ctx context.Context) ([]Room, error)

	// FindRoomByName retrieves a room by exact name via the name index.
	// Returns KindNotFound when no room carries the name.
	FindRoomByName(ctx context.Context, name string) (*Room, error)

	// ========================================================================
	// Containers
	// ========================================================================

	// GetContainer retrieves a container by id.
	GetContainer(ctx context.Context, id string) (*Container, error)

	// InsertContainer stores a new container record.
	InsertContainer(ctx context.Context, container *Container) error

	// UpdateContainer overwrites an existing container record, maintaining
	// the scope index when the parent changed.
	UpdateContainer(ctx context.Context, container *Container) error

	// DeleteContainer removes a container record. Idempotent.
	DeleteContainer(ctx context.Context, id string) error

	// DeleteContainers removes a batch of container records. Idempotent
	// per id.
	DeleteContainers(ctx context.Context, ids []string) error

	// ListContainersByRoom returns every container owned by a room.
	ListContainersByRoom(ctx context.Context, roomID string) ([]Container, error)

	// ListContainersByScope returns the containers directly inside the
	// (roomID, parentID) scope.
	ListContainersByScope(ctx context.Context, roomID string, parentID *string) ([]Container, error)

	// ========================================================================
	// Leaves
	// ========================================================================

	// GetLeaf retrieves a leaf by id.
	GetLeaf(ctx context.Context, id string) (*Leaf, error)

	// InsertLeaf stores a new leaf record.
	InsertLeaf(ctx context.Context, leaf *Leaf) error

	// UpdateLeaf overwrites an existing leaf record, maintaining the scope
	// index when the parent changed.
	UpdateLeaf(ctx context.Context, leaf *Leaf) error

	// DeleteLeaf removes a leaf record. Idempotent.
	DeleteLeaf(ctx context.Context, id string) error

	// DeleteLeaves removes a batch of leaf records. Idempotent per id.
	DeleteLeaves(ctx context.Context, ids []string) error

	// ListLeavesByRoom returns every leaf owned by a room.
	ListLeavesByRoom(ctx context.Context, roomID string) ([]Leaf, error)

	// ListLeavesByScope returns the leaves directly inside the
	// (roomID, parentID) scope.
	ListLeavesByScope(ctx context.Context, roomID string, parentID *string) ([]Leaf, error)

	// ========================================================================
	// Lifecycle
	// ========================================================================

	// Healthcheck verifies the store can serve requests. In-memory
	// implementations return nil; persistent ones probe the backend.
	Healthcheck(ctx context.Context) error

	// Close releases backend resources. The store must not be used after
	// Close returns.
	Close() error
}
