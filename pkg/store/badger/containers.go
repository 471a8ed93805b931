package badger

import (
	"context"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/marmos91/dataroom/pkg/dataroom"
)

func (s *Store) GetContainer(ctx context.Context, id string) (*dataroom.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var container *dataroom.Container
	err := s.db.View(func(txn *badger.Txn) error {
		c, err := getContainer(txn, id)
		if err != nil {
			return err
		}
		container = c
		return nil
	})
	if err != nil {
		return nil, wrapDB("failed to get container", err)
	}
	return container, nil
}

func (s *Store) InsertContainer(ctx context.Context, container *dataroom.Container) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return putContainer(txn, container)
	})
	return wrapDB("failed to insert container", err)
}

func (s *Store) UpdateContainer(ctx context.Context, container *dataroom.Container) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		old, err := getContainer(txn, container.ID)
		if err != nil {
			return err
		}
		// scope index tracks the parent; drop the stale entry on reparent
		if err := txn.Delete(keyContainerScope(old.RoomID, old.ParentID, old.ID)); err != nil {
			return err
		}
		return putContainer(txn, container)
	})
	return wrapDB("failed to update container", err)
}

func (s *Store) DeleteContainer(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return deleteContainer(txn, id)
	})
	return wrapDB("failed to delete container", err)
}

func (s *Store) DeleteContainers(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// one container costs three deletes; stay well under the transaction
	// size limit by batching
	for start := 0; start < len(ids); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		err := s.db.Update(func(txn *badger.Txn) error {
			for _, id := range ids[start:end] {
				if err := deleteContainer(txn, id); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return wrapDB("failed to delete containers", err)
		}
	}
	return nil
}

func (s *Store) ListContainersByRoom(ctx context.Context, roomID string) ([]dataroom.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.collectContainers(keyContainerRoomPrefix(roomID))
}

func (s *Store) ListContainersByScope(ctx context.Context, roomID string, parentID *string) ([]dataroom.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.collectContainers(keyContainerScopePrefix(roomID, parentID))
}

// collectContainers resolves every id listed under an index prefix to its
// full record.
func (s *Store) collectContainers(prefix []byte) ([]dataroom.Container, error) {
	containers := make([]dataroom.Container, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := listIDs(txn, prefix)
		if err != nil {
			return err
		}
		for _, id := range ids {
			container, err := getContainer(txn, id)
			if err != nil {
				return err
			}
			containers = append(containers, *container)
		}
		return nil
	})
	if err != nil {
		return nil, wrapDB("failed to list containers", err)
	}
	return containers, nil
}

func getContainer(txn *badger.Txn, id string) (*dataroom.Container, error) {
	item, err := txn.Get(keyContainer(id))
	if err == badger.ErrKeyNotFound {
		return nil, &dataroom.Error{Kind: dataroom.KindNotFound, Message: "container not found", Name: id}
	}
	if err != nil {
		return nil, err
	}

	var container *dataroom.Container
	err = item.Value(func(val []byte) error {
		c, err := decodeContainer(val)
		if err != nil {
			return err
		}
		container = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return container, nil
}

// putContainer writes the record and both index entries.
func putContainer(txn *badger.Txn, container *dataroom.Container) error {
	data, err := encodeContainer(container)
	if err != nil {
		return err
	}
	if err := txn.Set(keyContainer(container.ID), data); err != nil {
		return err
	}
	if err := txn.Set(keyContainerRoom(container.RoomID, container.ID), []byte(container.ID)); err != nil {
		return err
	}
	return txn.Set(keyContainerScope(container.RoomID, container.ParentID, container.ID), []byte(container.ID))
}

// deleteContainer removes the record and its index entries. Missing ids are
// skipped.
func deleteContainer(txn *badger.Txn, id string) error {
	container, err := getContainer(txn, id)
	if err != nil {
		if dataroom.IsKind(err, dataroom.KindNotFound) {
			return nil
		}
		return err
	}
	if err := txn.Delete(keyContainerScope(container.RoomID, container.ParentID, id)); err != nil {
		return err
	}
	if err := txn.Delete(keyContainerRoom(container.RoomID, id)); err != nil {
		return err
	}
	return txn.Delete(keyContainer(id))
}

// deleteBatchSize caps how many entities a single delete transaction touches.
const deleteBatchSize = 1000
