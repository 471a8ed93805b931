// Package memory provides an in-memory metadata store.
//
// All records live in maps guarded by a single RWMutex. Nothing is persisted:
// the store is intended for tests and ephemeral deployments.
package memory

import (
	"context"
	"sync"

	"github.com/marmos91/dataroom/pkg/dataroom"
)

// Store is an in-memory implementation of dataroom.Store.
type Store struct {
	mu         sync.RWMutex
	rooms      map[string]dataroom.Room
	containers map[string]dataroom.Container
	leaves     map[string]dataroom.Leaf
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		rooms:      make(map[string]dataroom.Room),
		containers: make(map[string]dataroom.Container),
		leaves:     make(map[string]dataroom.Leaf),
	}
}

// ============================================================================
// Rooms
// ============================================================================

func (s *Store) GetRoom(ctx context.Context, id string) (*dataroom.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, &dataroom.Error{Kind: dataroom.KindNotFound, Message: "room not found", Name: id}
	}
	return &room, nil
}

func (s *Store) InsertRoom(ctx context.Context, room *dataroom.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[room.ID] = *room
	return nil
}

func (s *Store) UpdateRoom(ctx context.Context, room *dataroom.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; !ok {
		return &dataroom.Error{Kind: dataroom.KindNotFound, Message: "room not found", Name: room.ID}
	}
	s.rooms[room.ID] = *room
	return nil
}

func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, id)
	return nil
}

func (s *Store) ListRooms(ctx context.Context) ([]dataroom.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]dataroom.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *Store) FindRoomByName(ctx context.Context, name string) (*dataroom.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, room := range s.rooms {
		if room.Name == name {
			r := room
			return &r, nil
		}
	}
	return nil, &dataroom.Error{Kind: dataroom.KindNotFound, Message: "room not found", Name: name}
}

// ============================================================================
// Containers
// ============================================================================

func (s *Store) GetContainer(ctx context.Context, id string) (*dataroom.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	container, ok := s.containers[id]
	if !ok {
		return nil, &dataroom.Error{Kind: dataroom.KindNotFound, Message: "container not found", Name: id}
	}
	return &container, nil
}

func (s *Store) InsertContainer(ctx context.Context, container *dataroom.Container) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.containers[container.ID] = *container
	return nil
}

func (s *Store) UpdateContainer(ctx context.Context, container *dataroom.Container) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.containers[container.ID]; !ok {
		return &dataroom.Error{Kind: dataroom.KindNotFound, Message: "container not found", Name: container.ID}
	}
	s.containers[container.ID] = *container
	return nil
}

func (s *Store) DeleteContainer(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.containers, id)
	return nil
}

func (s *Store) DeleteContainers(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.containers, id)
	}
	return nil
}

func (s *Store) ListContainersByRoom(ctx context.Context, roomID string) ([]dataroom.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	containers := make([]dataroom.Container, 0)
	for _, container := range s.containers {
		if container.RoomID == roomID {
			containers = append(containers, container)
		}
	}
	return containers, nil
}

func (s *Store) ListContainersByScope(ctx context.Context, roomID string, parentID *string) ([]dataroom.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	containers := make([]dataroom.Container, 0)
	for _, container := range s.containers {
		if container.RoomID == roomID && sameScope(container.ParentID, parentID) {
			containers = append(containers, container)
		}
	}
	return containers, nil
}

// ============================================================================
// Leaves
// ============================================================================

func (s *Store) GetLeaf(ctx context.Context, id string) (*dataroom.Leaf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	leaf, ok := s.leaves[id]
	if !ok {
		return nil, &dataroom.Error{Kind: dataroom.KindNotFound, Message: "leaf not found", Name: id}
	}
	return &leaf, nil
}

func (s *Store) InsertLeaf(ctx context.Context, leaf *dataroom.Leaf) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.leaves[leaf.ID] = *leaf
	return nil
}

func (s *Store) UpdateLeaf(ctx context.Context, leaf *dataroom.Leaf) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leaves[leaf.ID]; !ok {
		return &dataroom.Error{Kind: dataroom.KindNotFound, Message: "leaf not found", Name: leaf.ID}
	}
	s.leaves[leaf.ID] = *leaf
	return nil
}

func (s *Store) DeleteLeaf(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.leaves, id)
	return nil
}

func (s *Store) DeleteLeaves(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.leaves, id)
	}
	return nil
}

func (s *Store) ListLeavesByRoom(ctx context.Context, roomID string) ([]dataroom.Leaf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	leaves := make([]dataroom.Leaf, 0)
	for _, leaf := range s.leaves {
		if leaf.RoomID == roomID {
			leaves = append(leaves, leaf)
		}
	}
	return leaves, nil
}

func (s *Store) ListLeavesByScope(ctx context.Context, roomID string, parentID *string) ([]dataroom.Leaf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	leaves := make([]dataroom.Leaf, 0)
	for _, leaf := range s.leaves {
		if leaf.RoomID == roomID && sameScope(leaf.ParentID, parentID) {
			leaves = append(leaves, leaf)
		}
	}
	return leaves, nil
}

// ============================================================================
// Lifecycle
// ============================================================================

// Healthcheck always succeeds for the in-memory store.
func (s *Store) Healthcheck(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

func sameScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
