package badger

import (
	"context"
	"errors"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/marmos91/dataroom/pkg/dataroom"
)

func (s *Store) GetRoom(ctx context.Context, id string) (*dataroom.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var room *dataroom.Room
	err := s.db.View(func(txn *badger.Txn) error {
		r, err := getRoom(txn, id)
		if err != nil {
			return err
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, wrapDB("failed to get room", err)
	}
	return room, nil
}

func (s *Store) InsertRoom(ctx context.Context, room *dataroom.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		data, err := encodeRoom(room)
		if err != nil {
			return err
		}
		if err := txn.Set(keyRoom(room.ID), data); err != nil {
			return err
		}
		return txn.Set(keyRoomName(room.Name), []byte(room.ID))
	})
	return wrapDB("failed to insert room", err)
}

func (s *Store) UpdateRoom(ctx context.Context, room *dataroom.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		old, err := getRoom(txn, room.ID)
		if err != nil {
			return err
		}

		data, err := encodeRoom(room)
		if err != nil {
			return err
		}
		if err := txn.Set(keyRoom(room.ID), data); err != nil {
			return err
		}

		// keep the name index in sync
		if old.Name != room.Name {
			if err := txn.Delete(keyRoomName(old.Name)); err != nil {
				return err
			}
		}
		return txn.Set(keyRoomName(room.Name), []byte(room.ID))
	})
	return wrapDB("failed to update room", err)
}

func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		room, err := getRoom(txn, id)
		if err != nil {
			if dataroom.IsKind(err, dataroom.KindNotFound) {
				return nil
			}
			return err
		}
		if err := txn.Delete(keyRoomName(room.Name)); err != nil {
			return err
		}
		return txn.Delete(keyRoom(id))
	})
	return wrapDB("failed to delete room", err)
}

func (s *Store) ListRooms(ctx context.Context) ([]dataroom.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rooms := make([]dataroom.Room, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(prefixRoom)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				room, err := decodeRoom(val)
				if err != nil {
					return err
				}
				rooms = append(rooms, *room)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapDB("failed to list rooms", err)
	}
	return rooms, nil
}

func (s *Store) FindRoomByName(ctx context.Context, name string) (*dataroom.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var room *dataroom.Room
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyRoomName(name))
		if err == badger.ErrKeyNotFound {
			return &dataroom.Error{Kind: dataroom.KindNotFound, Message: "room not found", Name: name}
		}
		if err != nil {
			return err
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		r, err := getRoom(txn, id)
		if err != nil {
			return err
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, wrapDB("failed to find room by name", err)
	}
	return room, nil
}

// getRoom fetches and decodes a room inside an open transaction.
func getRoom(txn *badger.Txn, id string) (*dataroom.Room, error) {
	item, err := txn.Get(keyRoom(id))
	if err == badger.ErrKeyNotFound {
		return nil, &dataroom.Error{Kind: dataroom.KindNotFound, Message: "room not found", Name: id}
	}
	if err != nil {
		return nil, err
	}

	var room *dataroom.Room
	err = item.Value(func(val []byte) error {
		r, err := decodeRoom(val)
		if err != nil {
			return err
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// wrapDB wraps infrastructure errors in KindDatabase while letting domain
// errors pass through untouched.
func wrapDB(message string, err error) error {
	if err == nil {
		return nil
	}
	var derr *dataroom.Error
	if errors.As(err, &derr) {
		return err
	}
	return dataroom.DatabaseError(message, err)
}
