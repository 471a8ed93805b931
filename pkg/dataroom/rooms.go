package dataroom

import (
	"context"
	"time"

	"github.com/marmos91/dataroom/internal/logger"
	"github.com/marmos91/dataroom/pkg/blob"
)

// RoomService orchestrates the room lifecycle: creation, renaming, cascading
// deletion, and aggregate queries. Rooms are the isolation boundary, so room
// names are resolved against the full set of rooms rather than a scope.
type RoomService struct {
	store Store
	blobs blob.Store
}

// NewRoomService creates a room orchestrator backed by the given stores.
func NewRoomService(store Store, blobs blob.Store) *RoomService {
	return &RoomService{store: store, blobs: blobs}
}

// Create makes a new room with the given name.
//
// The name is normalized and must be non-empty afterwards; rooms skip the
// filesystem-oriented name rules applied to containers and leaves. Collisions
// with existing room names are resolved per onCollision (replace is never
// supported for rooms).
func (s *RoomService) Create(ctx context.Context, name string, onCollision CollisionAction) (*Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := Normalize(name)
	if normalized == "" {
		return nil, nameValidation("room name cannot be empty", name)
	}

	siblings, err := s.roomSiblings(ctx)
	if err != nil {
		return nil, err
	}

	resolution, err := ResolveName(EntityRoom, normalized, onCollision, siblings, "", false)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	room := &Room{
		ID:        NewID(),
		Name:      resolution.FinalName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.InsertRoom(ctx, room); err != nil {
		return nil, err
	}

	logger.Info("Created room %s (%s)", room.Name, room.ID)
	return room, nil
}

// Get retrieves a room by id.
func (s *RoomService) Get(ctx context.Context, id string) (*Room, error) {
	return s.store.GetRoom(ctx, id)
}

// List returns every room.
func (s *RoomService) List(ctx context.Context) ([]Room, error) {
	return s.store.ListRooms(ctx)
}

// Rename changes a room's name, resolving collisions with the other rooms per
// onCollision. Renaming to the current name is a no-op that still refreshes
// the room's timestamp.
func (s *RoomService) Rename(ctx context.Context, id string, newName string, onCollision CollisionAction) (*Room, error) {
	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	normalized := Normalize(newName)
	if normalized == "" {
		return nil, nameValidation("room name cannot be empty", newName)
	}

	siblings, err := s.roomSiblings(ctx)
	if err != nil {
		return nil, err
	}

	resolution, err := ResolveName(EntityRoom, normalized, onCollision, siblings, room.ID, false)
	if err != nil {
		return nil, err
	}

	room.Name = resolution.FinalName
	room.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// Delete removes a room and everything it owns.
//
// The cascade runs with weak atomicity: metadata is removed first (leaves,
// then containers, then the room record), and blob payloads are deleted last.
// A crash or blob store failure mid-cascade can only strand orphaned blobs,
// never dangling metadata; the orphan collector reclaims those later.
func (s *RoomService) Delete(ctx context.Context, id string) (*RoomDeleteResult, error) {
	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	// ===== Step 1: snapshot the room's contents
	containers, err := s.store.ListContainersByRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	leaves, err := s.store.ListLeavesByRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	leafIDs := make([]string, 0, len(leaves))
	blobKeys := make([]string, 0, len(leaves))
	for i := range leaves {
		leafIDs = append(leafIDs, leaves[i].ID)
		blobKeys = append(blobKeys, leaves[i].BlobKey)
	}
	containerIDs := make([]string, 0, len(containers))
	for i := range containers {
		containerIDs = append(containerIDs, containers[i].ID)
	}

	// ===== Step 2: remove metadata, leaves before their containers
	if err := s.store.DeleteLeaves(ctx, leafIDs); err != nil {
		return nil, err
	}
	if err := s.store.DeleteContainers(ctx, containerIDs); err != nil {
		return nil, err
	}
	if err := s.store.DeleteRoom(ctx, id); err != nil {
		return nil, err
	}

	// ===== Step 3: release payloads (failures become orphans, not errors)
	deleted := len(blobKeys)
	if len(blobKeys) > 0 {
		failures, err := s.blobs.DeleteBatch(ctx, blobKeys)
		if err != nil {
			logger.Warn("Blob cleanup for room %s failed, leaving %d orphans: %v", id, len(blobKeys), err)
			deleted = 0
		} else {
			deleted -= len(failures)
			for key, ferr := range failures {
				logger.Warn("Failed to delete blob %s for room %s: %v", key, id, ferr)
			}
		}
	}

	logger.Info("Deleted room %s (%s): %d containers, %d leaves, %d blobs",
		room.Name, id, len(containers), len(leaves), deleted)

	return &RoomDeleteResult{
		Containers: len(containers),
		Leaves:     len(leaves),
		Blobs:      deleted,
	}, nil
}

// DeletionImpact previews what Delete would remove, without removing anything.
func (s *RoomService) DeletionImpact(ctx context.Context, id string) (*Impact, error) {
	if _, err := s.store.GetRoom(ctx, id); err != nil {
		return nil, err
	}

	containers, err := s.store.ListContainersByRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	leaves, err := s.store.ListLeavesByRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Impact{Containers: len(containers), Leaves: len(leaves)}, nil
}

// Stats aggregates a room's contents: entry counts and total payload bytes.
func (s *RoomService) Stats(ctx context.Context, id string) (*RoomStats, error) {
	if _, err := s.store.GetRoom(ctx, id); err != nil {
		return nil, err
	}

	containers, err := s.store.ListContainersByRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	leaves, err := s.store.ListLeavesByRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &RoomStats{
		ContainerCount: len(containers),
		LeafCount:      len(leaves),
	}
	for i := range leaves {
		stats.TotalSize += leaves[i].Size
	}
	return stats, nil
}

// NameAvailable reports whether a room could be created with the given name
// right now. It is a best-effort probe: storage failures read as unavailable
// rather than surfacing an error.
func (s *RoomService) NameAvailable(ctx context.Context, name string) bool {
	normalized := Normalize(name)
	if normalized == "" {
		return false
	}

	_, err := s.store.FindRoomByName(ctx, normalized)
	if err == nil {
		return false
	}
	return IsKind(err, KindNotFound)
}

func (s *RoomService) roomSiblings(ctx context.Context) ([]Sibling, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	siblings := make([]Sibling, 0, len(rooms))
	for i := range rooms {
		siblings = append(siblings, Sibling{ID: rooms[i].ID, Name: rooms[i].Name})
	}
	return siblings, nil
}

// touchRoom refreshes the owning room's timestamp after a successful mutation
// inside it. Intermediate containers are deliberately not touched; only the
// room records activity. Failures are logged and swallowed so a bookkeeping
// update can never fail an already-completed operation.
func touchRoom(ctx context.Context, store Store, roomID string) {
	room, err := store.GetRoom(ctx, roomID)
	if err != nil {
		logger.Warn("Failed to load room %s for timestamp refresh: %v", roomID, err)
		return
	}
	room.UpdatedAt = time.Now().UTC()
	if err := store.UpdateRoom(ctx, room); err != nil {
		logger.Warn("Failed to refresh timestamp on room %s: %v", roomID, err)
	}
}
