package badger_test

import (
	"context"
	"testing"

	"github.com/marmos91/dataroom/pkg/dataroom"
	storebadger "github.com/marmos91/dataroom/pkg/store/badger"
	storetesting "github.com/marmos91/dataroom/pkg/store/testing"
	"github.com/stretchr/testify/require"
)

func TestBadgerStore(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) dataroom.Store {
			store, err := storebadger.New(context.Background(), storebadger.Config{
				DBPath: t.TempDir(),
			})
			require.NoError(t, err)
			return store
		},
	}
	suite.Run(t)
}

func TestBadgerStore_InMemory(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) dataroom.Store {
			store, err := storebadger.New(context.Background(), storebadger.Config{
				InMemory: true,
			})
			require.NoError(t, err)
			return store
		},
	}
	suite.Run(t)
}

// TestBadgerStore_Reopen verifies records survive a close/reopen cycle, which
// the in-memory backends cannot exercise.
func TestBadgerStore_Reopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := storebadger.New(ctx, storebadger.Config{DBPath: dir})
	require.NoError(t, err)

	room := &dataroom.Room{ID: dataroom.NewID(), Name: "Persistent Deal"}
	require.NoError(t, store.InsertRoom(ctx, room))
	require.NoError(t, store.Close())

	reopened, err := storebadger.New(ctx, storebadger.Config{DBPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Equal(t, "Persistent Deal", loaded.Name)

	byName, err := reopened.FindRoomByName(ctx, "Persistent Deal")
	require.NoError(t, err)
	require.Equal(t, room.ID, byName.ID)
}
