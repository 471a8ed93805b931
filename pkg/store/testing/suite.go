// Package testing provides a reusable test suite for dataroom.Store
// implementations. It tests the interface contract, not implementation
// details, so every backend (memory, badger) runs the same assertions.
//
// Usage:
//
//	func TestMyStore(t *testing.T) {
//	    suite := &testing.StoreTestSuite{
//	        NewStore: func(t *testing.T) dataroom.Store {
//	            return mystore.New()
//	        },
//	    }
//	    suite.Run(t)
//	}
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/marmos91/dataroom/pkg/dataroom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreTestSuite exercises the dataroom.Store contract.
type StoreTestSuite struct {
	// NewStore creates a fresh store for each test, ensuring isolation.
	// Backends needing scratch space can use t.TempDir().
	NewStore func(t *testing.T) dataroom.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("Rooms", suite.RunRoomTests)
	t.Run("Containers", suite.RunContainerTests)
	t.Run("Leaves", suite.RunLeafTests)
	t.Run("Healthcheck", suite.TestHealthcheck)
}

func (suite *StoreTestSuite) newStore(t *testing.T) dataroom.Store {
	t.Helper()
	store := suite.NewStore(t)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func testRoom(name string) *dataroom.Room {
	now := time.Now().UTC().Truncate(time.Second)
	return &dataroom.Room{
		ID:        dataroom.NewID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testContainer(roomID string, parentID *string, name string) *dataroom.Container {
	now := time.Now().UTC().Truncate(time.Second)
	return &dataroom.Container{
		ID:        dataroom.NewID(),
		RoomID:    roomID,
		ParentID:  parentID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testLeaf(roomID string, parentID *string, name string) *dataroom.Leaf {
	now := time.Now().UTC().Truncate(time.Second)
	return &dataroom.Leaf{
		ID:          dataroom.NewID(),
		RoomID:      roomID,
		ParentID:    parentID,
		Name:        name,
		ContentType: dataroom.SupportedContentType,
		Size:        42,
		BlobKey:     dataroom.NewID(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ============================================================================
// Rooms
// ============================================================================

func (suite *StoreTestSuite) RunRoomTests(t *testing.T) {
	t.Run("InsertAndGet", suite.TestRoomInsertAndGet)
	t.Run("Get_NotFound", suite.TestRoomGet_NotFound)
	t.Run("Update", suite.TestRoomUpdate)
	t.Run("Update_NotFound", suite.TestRoomUpdate_NotFound)
	t.Run("Delete", suite.TestRoomDelete)
	t.Run("Delete_Idempotent", suite.TestRoomDelete_Idempotent)
	t.Run("List", suite.TestRoomList)
	t.Run("FindByName", suite.TestRoomFindByName)
	t.Run("FindByName_TracksRename", suite.TestRoomFindByName_TracksRename)
}

func (suite *StoreTestSuite) TestRoomInsertAndGet(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal Alpha")
	require.NoError(t, store.InsertRoom(ctx, room))

	loaded, err := store.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, loaded.ID)
	assert.Equal(t, "Deal Alpha", loaded.Name)
	assert.True(t, room.CreatedAt.Equal(loaded.CreatedAt))
}

func (suite *StoreTestSuite) TestRoomGet_NotFound(t *testing.T) {
	store := suite.newStore(t)

	_, err := store.GetRoom(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
}

func (suite *StoreTestSuite) TestRoomUpdate(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal Alpha")
	require.NoError(t, store.InsertRoom(ctx, room))

	room.Name = "Deal Beta"
	require.NoError(t, store.UpdateRoom(ctx, room))

	loaded, err := store.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deal Beta", loaded.Name)
}

func (suite *StoreTestSuite) TestRoomUpdate_NotFound(t *testing.T) {
	store := suite.newStore(t)

	err := store.UpdateRoom(context.Background(), testRoom("ghost"))
	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
}

func (suite *StoreTestSuite) TestRoomDelete(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal Alpha")
	require.NoError(t, store.InsertRoom(ctx, room))
	require.NoError(t, store.DeleteRoom(ctx, room.ID))

	_, err := store.GetRoom(ctx, room.ID)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
}

func (suite *StoreTestSuite) TestRoomDelete_Idempotent(t *testing.T) {
	store := suite.newStore(t)
	assert.NoError(t, store.DeleteRoom(context.Background(), "missing"))
}

func (suite *StoreTestSuite) TestRoomList(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	empty, err := store.ListRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.InsertRoom(ctx, testRoom("A")))
	require.NoError(t, store.InsertRoom(ctx, testRoom("B")))

	rooms, err := store.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func (suite *StoreTestSuite) TestRoomFindByName(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal Alpha")
	require.NoError(t, store.InsertRoom(ctx, room))

	found, err := store.FindRoomByName(ctx, "Deal Alpha")
	require.NoError(t, err)
	assert.Equal(t, room.ID, found.ID)

	_, err = store.FindRoomByName(ctx, "Deal Beta")
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
}

func (suite *StoreTestSuite) TestRoomFindByName_TracksRename(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Old Name")
	require.NoError(t, store.InsertRoom(ctx, room))

	room.Name = "New Name"
	require.NoError(t, store.UpdateRoom(ctx, room))

	found, err := store.FindRoomByName(ctx, "New Name")
	require.NoError(t, err)
	assert.Equal(t, room.ID, found.ID)

	// the old name must no longer resolve
	_, err = store.FindRoomByName(ctx, "Old Name")
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
}

// ============================================================================
// Containers
// ============================================================================

func (suite *StoreTestSuite) RunContainerTests(t *testing.T) {
	t.Run("InsertAndGet", suite.TestContainerInsertAndGet)
	t.Run("Get_NotFound", suite.TestContainerGet_NotFound)
	t.Run("Update_Reparents", suite.TestContainerUpdate_Reparents)
	t.Run("DeleteBatch", suite.TestContainerDeleteBatch)
	t.Run("ListByRoom", suite.TestContainerListByRoom)
	t.Run("ListByScope", suite.TestContainerListByScope)
}

func (suite *StoreTestSuite) TestContainerInsertAndGet(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal")
	require.NoError(t, store.InsertRoom(ctx, room))

	container := testContainer(room.ID, nil, "Reports")
	require.NoError(t, store.InsertContainer(ctx, container))

	loaded, err := store.GetContainer(ctx, container.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reports", loaded.Name)
	assert.Nil(t, loaded.ParentID)
}

func (suite *StoreTestSuite) TestContainerGet_NotFound(t *testing.T) {
	store := suite.newStore(t)

	_, err := store.GetContainer(context.Background(), "missing")
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
}

func (suite *StoreTestSuite) TestContainerUpdate_Reparents(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal")
	require.NoError(t, store.InsertRoom(ctx, room))

	parent := testContainer(room.ID, nil, "Parent")
	child := testContainer(room.ID, nil, "Child")
	require.NoError(t, store.InsertContainer(ctx, parent))
	require.NoError(t, store.InsertContainer(ctx, child))

	child.ParentID = &parent.ID
	require.NoError(t, store.UpdateContainer(ctx, child))

	// the scope index must follow the parent change
	atRoot, err := store.ListContainersByScope(ctx, room.ID, nil)
	require.NoError(t, err)
	require.Len(t, atRoot, 1)
	assert.Equal(t, parent.ID, atRoot[0].ID)

	inParent, err := store.ListContainersByScope(ctx, room.ID, &parent.ID)
	require.NoError(t, err)
	require.Len(t, inParent, 1)
	assert.Equal(t, child.ID, inParent[0].ID)
}

func (suite *StoreTestSuite) TestContainerDeleteBatch(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal")
	require.NoError(t, store.InsertRoom(ctx, room))

	a := testContainer(room.ID, nil, "A")
	b := testContainer(room.ID, nil, "B")
	require.NoError(t, store.InsertContainer(ctx, a))
	require.NoError(t, store.InsertContainer(ctx, b))

	// unknown ids in the batch are skipped, not errors
	require.NoError(t, store.DeleteContainers(ctx, []string{a.ID, b.ID, "missing"}))

	remaining, err := store.ListContainersByRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func (suite *StoreTestSuite) TestContainerListByRoom(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	roomA := testRoom("A")
	roomB := testRoom("B")
	require.NoError(t, store.InsertRoom(ctx, roomA))
	require.NoError(t, store.InsertRoom(ctx, roomB))

	c1 := testContainer(roomA.ID, nil, "One")
	require.NoError(t, store.InsertContainer(ctx, c1))
	c2 := testContainer(roomA.ID, &c1.ID, "Two")
	require.NoError(t, store.InsertContainer(ctx, c2))
	require.NoError(t, store.InsertContainer(ctx, testContainer(roomB.ID, nil, "Other")))

	containers, err := store.ListContainersByRoom(ctx, roomA.ID)
	require.NoError(t, err)
	assert.Len(t, containers, 2)
}

func (suite *StoreTestSuite) TestContainerListByScope(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal")
	require.NoError(t, store.InsertRoom(ctx, room))

	parent := testContainer(room.ID, nil, "Parent")
	require.NoError(t, store.InsertContainer(ctx, parent))
	require.NoError(t, store.InsertContainer(ctx, testContainer(room.ID, &parent.ID, "Nested")))
	require.NoError(t, store.InsertContainer(ctx, testContainer(room.ID, nil, "Sibling")))

	atRoot, err := store.ListContainersByScope(ctx, room.ID, nil)
	require.NoError(t, err)
	assert.Len(t, atRoot, 2)

	nested, err := store.ListContainersByScope(ctx, room.ID, &parent.ID)
	require.NoError(t, err)
	require.Len(t, nested, 1)
	assert.Equal(t, "Nested", nested[0].Name)
}

// ============================================================================
// Leaves
// ============================================================================

func (suite *StoreTestSuite) RunLeafTests(t *testing.T) {
	t.Run("InsertAndGet", suite.TestLeafInsertAndGet)
	t.Run("Get_NotFound", suite.TestLeafGet_NotFound)
	t.Run("Update_Reparents", suite.TestLeafUpdate_Reparents)
	t.Run("DeleteBatch", suite.TestLeafDeleteBatch)
	t.Run("ListByScope", suite.TestLeafListByScope)
}

func (suite *StoreTestSuite) TestLeafInsertAndGet(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal")
	require.NoError(t, store.InsertRoom(ctx, room))

	leaf := testLeaf(room.ID, nil, "report.pdf")
	require.NoError(t, store.InsertLeaf(ctx, leaf))

	loaded, err := store.GetLeaf(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", loaded.Name)
	assert.Equal(t, leaf.BlobKey, loaded.BlobKey)
	assert.Equal(t, uint64(42), loaded.Size)
}

func (suite *StoreTestSuite) TestLeafGet_NotFound(t *testing.T) {
	store := suite.newStore(t)

	_, err := store.GetLeaf(context.Background(), "missing")
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
}

func (suite *StoreTestSuite) TestLeafUpdate_Reparents(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal")
	require.NoError(t, store.InsertRoom(ctx, room))

	container := testContainer(room.ID, nil, "Dest")
	require.NoError(t, store.InsertContainer(ctx, container))

	leaf := testLeaf(room.ID, nil, "report.pdf")
	require.NoError(t, store.InsertLeaf(ctx, leaf))

	leaf.ParentID = &container.ID
	require.NoError(t, store.UpdateLeaf(ctx, leaf))

	atRoot, err := store.ListLeavesByScope(ctx, room.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, atRoot)

	inDest, err := store.ListLeavesByScope(ctx, room.ID, &container.ID)
	require.NoError(t, err)
	require.Len(t, inDest, 1)
	assert.Equal(t, leaf.ID, inDest[0].ID)
}

func (suite *StoreTestSuite) TestLeafDeleteBatch(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal")
	require.NoError(t, store.InsertRoom(ctx, room))

	a := testLeaf(room.ID, nil, "a.pdf")
	b := testLeaf(room.ID, nil, "b.pdf")
	require.NoError(t, store.InsertLeaf(ctx, a))
	require.NoError(t, store.InsertLeaf(ctx, b))

	require.NoError(t, store.DeleteLeaves(ctx, []string{a.ID, "missing", b.ID}))

	remaining, err := store.ListLeavesByRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func (suite *StoreTestSuite) TestLeafListByScope(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	room := testRoom("Deal")
	require.NoError(t, store.InsertRoom(ctx, room))

	container := testContainer(room.ID, nil, "Docs")
	require.NoError(t, store.InsertContainer(ctx, container))

	require.NoError(t, store.InsertLeaf(ctx, testLeaf(room.ID, nil, "root.pdf")))
	require.NoError(t, store.InsertLeaf(ctx, testLeaf(room.ID, &container.ID, "nested.pdf")))

	atRoot, err := store.ListLeavesByScope(ctx, room.ID, nil)
	require.NoError(t, err)
	require.Len(t, atRoot, 1)
	assert.Equal(t, "root.pdf", atRoot[0].Name)

	nested, err := store.ListLeavesByScope(ctx, room.ID, &container.ID)
	require.NoError(t, err)
	require.Len(t, nested, 1)
	assert.Equal(t, "nested.pdf", nested[0].Name)
}

// ============================================================================
// Lifecycle
// ============================================================================

func (suite *StoreTestSuite) TestHealthcheck(t *testing.T) {
	store := suite.newStore(t)
	assert.NoError(t, store.Healthcheck(context.Background()))
}
