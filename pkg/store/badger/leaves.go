package badger

import (
	"context"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/marmos91/dataroom/pkg/dataroom"
)

func (s *Store) GetLeaf(ctx context.Context, id string) (*dataroom.Leaf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var leaf *dataroom.Leaf
	err := s.db.View(func(txn *badger.Txn) error {
		l, err := getLeaf(txn, id)
		if err != nil {
			return err
		}
		leaf = l
		return nil
	})
	if err != nil {
		return nil, wrapDB("failed to get leaf", err)
	}
	return leaf, nil
}

func (s *Store) InsertLeaf(ctx context.Context, leaf *dataroom.Leaf) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return putLeaf(txn, leaf)
	})
	return wrapDB("failed to insert leaf", err)
}

func (s *Store) UpdateLeaf(ctx context.Context, leaf *dataroom.Leaf) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		old, err := getLeaf(txn, leaf.ID)
		if err != nil {
			return err
		}
		if err := txn.Delete(keyLeafScope(old.RoomID, old.ParentID, old.ID)); err != nil {
			return err
		}
		return putLeaf(txn, leaf)
	})
	return wrapDB("failed to update leaf", err)
}

func (s *Store) DeleteLeaf(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return deleteLeaf(txn, id)
	})
	return wrapDB("failed to delete leaf", err)
}

func (s *Store) DeleteLeaves(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for start := 0; start < len(ids); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		err := s.db.Update(func(txn *badger.Txn) error {
			for _, id := range ids[start:end] {
				if err := deleteLeaf(txn, id); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return wrapDB("failed to delete leaves", err)
		}
	}
	return nil
}

func (s *Store) ListLeavesByRoom(ctx context.Context, roomID string) ([]dataroom.Leaf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.collectLeaves(keyLeafRoomPrefix(roomID))
}

func (s *Store) ListLeavesByScope(ctx context.Context, roomID string, parentID *string) ([]dataroom.Leaf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.collectLeaves(keyLeafScopePrefix(roomID, parentID))
}

func (s *Store) collectLeaves(prefix []byte) ([]dataroom.Leaf, error) {
	leaves := make([]dataroom.Leaf, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := listIDs(txn, prefix)
		if err != nil {
			return err
		}
		for _, id := range ids {
			leaf, err := getLeaf(txn, id)
			if err != nil {
				return err
			}
			leaves = append(leaves, *leaf)
		}
		return nil
	})
	if err != nil {
		return nil, wrapDB("failed to list leaves", err)
	}
	return leaves, nil
}

func getLeaf(txn *badger.Txn, id string) (*dataroom.Leaf, error) {
	item, err := txn.Get(keyLeaf(id))
	if err == badger.ErrKeyNotFound {
		return nil, &dataroom.Error{Kind: dataroom.KindNotFound, Message: "leaf not found", Name: id}
	}
	if err != nil {
		return nil, err
	}

	var leaf *dataroom.Leaf
	err = item.Value(func(val []byte) error {
		l, err := decodeLeaf(val)
		if err != nil {
			return err
		}
		leaf = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return leaf, nil
}

func putLeaf(txn *badger.Txn, leaf *dataroom.Leaf) error {
	data, err := encodeLeaf(leaf)
	if err != nil {
		return err
	}
	if err := txn.Set(keyLeaf(leaf.ID), data); err != nil {
		return err
	}
	if err := txn.Set(keyLeafRoom(leaf.RoomID, leaf.ID), []byte(leaf.ID)); err != nil {
		return err
	}
	return txn.Set(keyLeafScope(leaf.RoomID, leaf.ParentID, leaf.ID), []byte(leaf.ID))
}

func deleteLeaf(txn *badger.Txn, id string) error {
	leaf, err := getLeaf(txn, id)
	if err != nil {
		if dataroom.IsKind(err, dataroom.KindNotFound) {
			return nil
		}
		return err
	}
	if err := txn.Delete(keyLeafScope(leaf.RoomID, leaf.ParentID, id)); err != nil {
		return err
	}
	if err := txn.Delete(keyLeafRoom(leaf.RoomID, id)); err != nil {
		return err
	}
	return txn.Delete(keyLeaf(id))
}
