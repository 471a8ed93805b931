package dataroom

import (
	"context"
	"time"

	"github.com/marmos91/dataroom/internal/logger"
	"github.com/marmos91/dataroom/pkg/blob"
)

// ContainerService orchestrates the container lifecycle: creation, renaming,
// moving with cycle prevention, and deepest-first cascading deletion.
type ContainerService struct {
	store Store
	blobs blob.Store
}

// NewContainerService creates a container orchestrator backed by the given
// stores.
func NewContainerService(store Store, blobs blob.Store) *ContainerService {
	return &ContainerService{store: store, blobs: blobs}
}

// Create makes a new container inside the (roomID, parentID) scope.
// parentID == nil places it directly under the room root. Name collisions
// with sibling containers are resolved per onCollision; replace is never
// supported for containers.
func (s *ContainerService) Create(ctx context.Context, roomID string, parentID *string, name string, onCollision CollisionAction) (*Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if err := checkScope(ctx, s.store, roomID, parentID); err != nil {
		return nil, err
	}

	siblings, err := s.scopeSiblings(ctx, roomID, parentID)
	if err != nil {
		return nil, err
	}

	resolution, err := ResolveName(EntityContainer, name, onCollision, siblings, "", false)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	container := &Container{
		ID:        NewID(),
		RoomID:    roomID,
		ParentID:  parentID,
		Name:      resolution.FinalName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.InsertContainer(ctx, container); err != nil {
		return nil, err
	}

	touchRoom(ctx, s.store, roomID)
	return container, nil
}

// Get retrieves a container by id.
func (s *ContainerService) Get(ctx context.Context, id string) (*Container, error) {
	return s.store.GetContainer(ctx, id)
}

// Rename changes a container's name, resolving collisions with its sibling
// containers per onCollision.
func (s *ContainerService) Rename(ctx context.Context, id string, newName string, onCollision CollisionAction) (*Container, error) {
	container, err := s.store.GetContainer(ctx, id)
	if err != nil {
		return nil, err
	}

	siblings, err := s.scopeSiblings(ctx, container.RoomID, container.ParentID)
	if err != nil {
		return nil, err
	}

	resolution, err := ResolveName(EntityContainer, newName, onCollision, siblings, container.ID, false)
	if err != nil {
		return nil, err
	}

	container.Name = resolution.FinalName
	container.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateContainer(ctx, container); err != nil {
		return nil, err
	}

	touchRoom(ctx, s.store, container.RoomID)
	return container, nil
}

// Move reparents a container to newParentID (nil for the room root).
//
// The move is rejected with KindInvalidOperation when the destination sits
// inside the container's own subtree, which would detach the subtree into a
// cycle. Name collisions at the destination are resolved per onCollision.
// The tree is left untouched on any rejection.
func (s *ContainerService) Move(ctx context.Context, id string, newParentID *string, onCollision CollisionAction) (*Container, error) {
	container, err := s.store.GetContainer(ctx, id)
	if err != nil {
		return nil, err
	}

	if sameParent(container.ParentID, newParentID) {
		return container, nil
	}

	if err := checkScope(ctx, s.store, container.RoomID, newParentID); err != nil {
		return nil, err
	}

	all, err := s.store.ListContainersByRoom(ctx, container.RoomID)
	if err != nil {
		return nil, err
	}
	if DetectCycle(container.ID, newParentID, all) {
		return nil, invalidOperation("cannot move a container into its own subtree")
	}

	siblings, err := s.scopeSiblings(ctx, container.RoomID, newParentID)
	if err != nil {
		return nil, err
	}
	resolution, err := ResolveName(EntityContainer, container.Name, onCollision, siblings, container.ID, false)
	if err != nil {
		return nil, err
	}

	container.ParentID = newParentID
	container.Name = resolution.FinalName
	container.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateContainer(ctx, container); err != nil {
		return nil, err
	}

	touchRoom(ctx, s.store, container.RoomID)
	return container, nil
}

// Delete removes a container, its descendant containers, and every leaf
// parented at any of them.
//
// Cascade order: leaf metadata first, then containers deepest-first, then
// blob payloads. Deepest-first means no surviving record ever points at a
// deleted parent, even if the cascade is interrupted partway. Blob payload
// failures are logged and left to the orphan collector.
func (s *ContainerService) Delete(ctx context.Context, id string) (*Impact, error) {
	container, err := s.store.GetContainer(ctx, id)
	if err != nil {
		return nil, err
	}

	// ===== Step 1: snapshot the room and compute the affected set
	containers, err := s.store.ListContainersByRoom(ctx, container.RoomID)
	if err != nil {
		return nil, err
	}
	leaves, err := s.store.ListLeavesByRoom(ctx, container.RoomID)
	if err != nil {
		return nil, err
	}

	affected := DescendantContainerIDs(id, containers)
	affected[id] = struct{}{}

	leafIDs := make([]string, 0)
	blobKeys := make([]string, 0)
	for i := range leaves {
		if leaves[i].ParentID == nil {
			continue
		}
		if _, ok := affected[*leaves[i].ParentID]; ok {
			leafIDs = append(leafIDs, leaves[i].ID)
			blobKeys = append(blobKeys, leaves[i].BlobKey)
		}
	}

	// ===== Step 2: remove metadata bottom-up
	if err := s.store.DeleteLeaves(ctx, leafIDs); err != nil {
		return nil, err
	}
	if err := s.store.DeleteContainers(ctx, deepestFirst(id, containers)); err != nil {
		return nil, err
	}

	// ===== Step 3: release payloads
	if len(blobKeys) > 0 {
		failures, err := s.blobs.DeleteBatch(ctx, blobKeys)
		if err != nil {
			logger.Warn("Blob cleanup for container %s failed, leaving %d orphans: %v", id, len(blobKeys), err)
		} else {
			for key, ferr := range failures {
				logger.Warn("Failed to delete blob %s for container %s: %v", key, id, ferr)
			}
		}
	}

	touchRoom(ctx, s.store, container.RoomID)

	logger.Info("Deleted container %s (%s): %d containers, %d leaves",
		container.Name, id, len(affected), len(leafIDs))

	return &Impact{Containers: len(affected), Leaves: len(leafIDs)}, nil
}

// DeletionImpact previews what Delete would remove, without removing
// anything. The count includes the target container itself.
func (s *ContainerService) DeletionImpact(ctx context.Context, id string) (*Impact, error) {
	container, err := s.store.GetContainer(ctx, id)
	if err != nil {
		return nil, err
	}

	containers, err := s.store.ListContainersByRoom(ctx, container.RoomID)
	if err != nil {
		return nil, err
	}
	leaves, err := s.store.ListLeavesByRoom(ctx, container.RoomID)
	if err != nil {
		return nil, err
	}

	impact := CountDescendants(id, containers, leaves)
	return &impact, nil
}

// TotalSize sums the payload bytes of every leaf inside the container's
// subtree.
func (s *ContainerService) TotalSize(ctx context.Context, id string) (uint64, error) {
	container, err := s.store.GetContainer(ctx, id)
	if err != nil {
		return 0, err
	}

	containers, err := s.store.ListContainersByRoom(ctx, container.RoomID)
	if err != nil {
		return 0, err
	}
	leaves, err := s.store.ListLeavesByRoom(ctx, container.RoomID)
	if err != nil {
		return 0, err
	}

	return TotalSize(id, containers, leaves), nil
}

// Path returns the container's ancestor chain in root-to-target order,
// suitable for breadcrumb rendering.
func (s *ContainerService) Path(ctx context.Context, id string) ([]Container, error) {
	container, err := s.store.GetContainer(ctx, id)
	if err != nil {
		return nil, err
	}

	containers, err := s.store.ListContainersByRoom(ctx, container.RoomID)
	if err != nil {
		return nil, err
	}

	return AncestorPath(id, containers), nil
}

// List returns the containers directly inside the (roomID, parentID) scope.
func (s *ContainerService) List(ctx context.Context, roomID string, parentID *string) ([]Container, error) {
	return s.store.ListContainersByScope(ctx, roomID, parentID)
}

// NameAvailable reports whether a container could be created with the given
// name in the (roomID, parentID) scope right now. Invalid names and storage
// failures both read as unavailable.
func (s *ContainerService) NameAvailable(ctx context.Context, roomID string, parentID *string, name string) bool {
	normalized := Normalize(name)
	if err := ValidateName(normalized, EntityContainer); err != nil {
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

func (s *ContainerService) scopeSiblings(ctx context.Context, roomID string, parentID *string) ([]Sibling, error) {
	containers, err := s.store.ListContainersByScope(ctx, roomID, parentID)
	if err != nil {
		return nil, err
	}
	siblings := make([]Sibling, 0, len(containers))
	for i := range containers {
		siblings = append(siblings, Sibling{ID: containers[i].ID, Name: containers[i].Name})
	}
	return siblings, nil
}

// deepestFirst orders the target container and its descendants so every
// container precedes its own parent. Produced by a breadth-first walk from the
// target, then reversed.
func deepestFirst(id string, containers []Container) []string {
	index := childrenByParent(containers)

	order := []string{id}
	seen := map[string]struct{}{id: {}}

	for i := 0; i < len(order); i++ {
		for _, childID := range index[order[i]] {
			if _, ok := seen[childID]; ok {
				continue
			}
			seen[childID] = struct{}{}
			order = append(order, childID)
		}
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
