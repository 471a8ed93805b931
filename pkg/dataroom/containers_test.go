package dataroom_test

import (
	"context"
	"testing"
	"time"

	"github.com/marmos91/dataroom/pkg/dataroom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerCreate_Success(t *testing.T) {
	f := newFixture()
	room := f.mustRoom(t, "Deal")

	c := f.mustContainer(t, room.ID, nil, "  Reports ")

	assert.Equal(t, "Reports", c.Name)
	assert.Nil(t, c.ParentID)
	assert.Equal(t, room.ID, c.RoomID)
}

func TestContainerCreate_KeepBothSuffix(t *testing.T) {
	f := newFixture()
	room := f.mustRoom(t, "Deal")
	f.mustContainer(t, room.ID, nil, "Reports")

	c, err := f.containers.Create(context.Background(), room.ID, nil, "Reports", dataroom.ActionKeepBoth)

	require.NoError(t, err)
	assert.Equal(t, "Reports (1)", c.Name)
}

func TestContainerCreate_SameNameDifferentScopes(t *testing.T) {
	f := newFixture()
	room := f.mustRoom(t, "Deal")
	top := f.mustContainer(t, room.ID, nil, "Reports")

	// uniqueness is per scope, so the nested one needs no suffix
	nested := f.mustContainer(t, room.ID, &top.ID, "Reports")
	assert.Equal(t, "Reports", nested.Name)
}

func TestContainerCreate_InvalidName(t *testing.T) {
	f := newFixture()
	room := f.mustRoom(t, "Deal")

	_, err := f.containers.Create(context.Background(), room.ID, nil, "bad/name", dataroom.ActionCancel)

	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNameValidation))
}

func TestContainerCreate_MissingRoom(t *testing.T) {
	f := newFixture()

	_, err := f.containers.Create(context.Background(), "missing", nil, "Reports", dataroom.ActionCancel)

	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
}

func TestContainerCreate_MissingParent(t *testing.T) {
	f := newFixture()
	room := f.mustRoom(t, "Deal")
	missing := "missing"

	_, err := f.containers.Create(context.Background(), room.ID, &missing, "Reports", dataroom.ActionCancel)

	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
}

func TestContainerCreate_ParentInOtherRoom(t *testing.T) {
	f := newFixture()
	roomA := f.mustRoom(t, "Deal A")
	roomB := f.mustRoom(t, "Deal B")
	foreign := f.mustContainer(t, roomA.ID, nil, "Reports")

	_, err := f.containers.Create(context.Background(), roomB.ID, &foreign.ID, "Nested", dataroom.ActionCancel)

	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindInvalidOperation))
}

func TestContainerRename_CollisionCancel(t *testing.T) {
	f := newFixture()
	room := f.mustRoom(t, "Deal")
	f.mustContainer(t, room.ID, nil, "Reports")
	other := f.mustContainer(t, room.ID, nil, "Archive")

	_, err := f.containers.Rename(context.Background(), other.ID, "Reports", dataroom.ActionCancel)

	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindAlreadyExists))
}

func TestContainerRename_SelfNoop(t *testing.T) {
	f := newFixture()
	room := f.mustRoom(t, "Deal")
	c := f.mustContainer(t, room.ID, nil, "Reports")

	renamed, err := f.containers.Rename(context.Background(), c.ID, "Reports", dataroom.ActionCancel)

	require.NoError(t, err)
	assert.Equal(t, "Reports", renamed.Name)
}

func TestContainerMove_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	a := f.mustContainer(t, room.ID, nil, "A")
	b := f.mustContainer(t, room.ID, nil, "B")

	moved, err := f.containers.Move(ctx, b.ID, &a.ID, dataroom.ActionCancel)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, a.ID, *moved.ParentID)

	// the new parent must survive a reload, not just live on the returned value
	reloaded, err := f.containers.Get(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ParentID)
	assert.Equal(t, a.ID, *reloaded.ParentID)

	inA, err := f.containers.List(ctx, room.ID, &a.ID)
	require.NoError(t, err)
	require.Len(t, inA, 1)
	assert.Equal(t, b.ID, inA[0].ID)

	atRoot, err := f.containers.List(ctx, room.ID, nil)
	require.NoError(t, err)
	assert.Len(t, atRoot, 1)
}

func TestContainerMove_ToRoot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	a := f.mustContainer(t, room.ID, nil, "A")
	nested := f.mustContainer(t, room.ID, &a.ID, "Nested")

	moved, err := f.containers.Move(ctx, nested.ID, nil, dataroom.ActionCancel)
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)

	reloaded, err := f.containers.Get(ctx, nested.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.ParentID)
}

func TestContainerMove_CycleRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	a := f.mustContainer(t, room.ID, nil, "A")
	b := f.mustContainer(t, room.ID, &a.ID, "B")
	c := f.mustContainer(t, room.ID, &b.ID, "C")

	_, err := f.containers.Move(ctx, a.ID, &c.ID, dataroom.ActionCancel)
	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindInvalidOperation))

	// tree unchanged after the rejection
	reloaded, err := f.containers.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.ParentID)
}

func TestContainerMove_IntoItselfRejected(t *testing.T) {
	f := newFixture()
	room := f.mustRoom(t, "Deal")
	a := f.mustContainer(t, room.ID, nil, "A")

	_, err := f.containers.Move(context.Background(), a.ID, &a.ID, dataroom.ActionCancel)

	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindInvalidOperation))
}

func TestContainerMove_NameCollisionKeepBoth(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	dest := f.mustContainer(t, room.ID, nil, "Dest")
	f.mustContainer(t, room.ID, &dest.ID, "Reports")
	moving := f.mustContainer(t, room.ID, nil, "Reports")

	moved, err := f.containers.Move(ctx, moving.ID, &dest.ID, dataroom.ActionKeepBoth)

	require.NoError(t, err)
	assert.Equal(t, "Reports (1)", moved.Name)
}

func TestContainerDelete_CascadesDeepestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	top := f.mustContainer(t, room.ID, nil, "Top")
	nested := f.mustContainer(t, room.ID, &top.ID, "Nested")
	f.mustLeaf(t, room.ID, &nested.ID, "deep.pdf")
	survivor := f.mustLeaf(t, room.ID, nil, "root.pdf")

	impact, err := f.containers.Delete(ctx, top.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, impact.Containers)
	assert.Equal(t, 1, impact.Leaves)

	_, err = f.containers.Get(ctx, top.ID)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
	_, err = f.containers.Get(ctx, nested.ID)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))

	// the root leaf and its payload are untouched
	_, err = f.leaves.Get(ctx, survivor.ID)
	assert.NoError(t, err)
	count, err := f.blobs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestContainerDeletionImpact_IncludesTarget(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	top := f.mustContainer(t, room.ID, nil, "Top")
	nested := f.mustContainer(t, room.ID, &top.ID, "Nested")
	f.mustLeaf(t, room.ID, &nested.ID, "deep.pdf")

	impact, err := f.containers.DeletionImpact(ctx, top.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, impact.Containers)
	assert.Equal(t, 1, impact.Leaves)

	// preview leaves everything in place
	_, err = f.containers.Get(ctx, nested.ID)
	assert.NoError(t, err)
}

func TestContainerTotalSize(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	top := f.mustContainer(t, room.ID, nil, "Top")
	nested := f.mustContainer(t, room.ID, &top.ID, "Nested")

	_, err := f.leaves.Upload(ctx, room.ID, &top.ID, "a.pdf",
		dataroom.SupportedContentType, pdfPayload(100), dataroom.ActionCancel)
	require.NoError(t, err)
	_, err = f.leaves.Upload(ctx, room.ID, &nested.ID, "b.pdf",
		dataroom.SupportedContentType, pdfPayload(25), dataroom.ActionCancel)
	require.NoError(t, err)

	size, err := f.containers.TotalSize(ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(125), size)
}

func TestContainerPath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	a := f.mustContainer(t, room.ID, nil, "A")
	b := f.mustContainer(t, room.ID, &a.ID, "B")
	c := f.mustContainer(t, room.ID, &b.ID, "C")

	path, err := f.containers.Path(ctx, c.ID)
	require.NoError(t, err)

	require.Len(t, path, 3)
	assert.Equal(t, "A", path[0].Name)
	assert.Equal(t, "B", path[1].Name)
	assert.Equal(t, "C", path[2].Name)
}

func TestContainerNameAvailable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	top := f.mustContainer(t, room.ID, nil, "Reports")

	assert.False(t, f.containers.NameAvailable(ctx, room.ID, nil, "Reports"))
	assert.False(t, f.containers.NameAvailable(ctx, room.ID, nil, " Reports  "))
	assert.True(t, f.containers.NameAvailable(ctx, room.ID, nil, "Archive"))
	assert.True(t, f.containers.NameAvailable(ctx, room.ID, &top.ID, "Reports"))

	// invalid names read as unavailable rather than erroring
	assert.False(t, f.containers.NameAvailable(ctx, room.ID, nil, "bad/name"))
	assert.False(t, f.containers.NameAvailable(ctx, room.ID, nil, ""))
}

func TestNestedMutation_SkipsIntermediateContainers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	parent := f.mustContainer(t, room.ID, nil, "Parent")
	child := f.mustContainer(t, room.ID, &parent.ID, "Child")

	roomBefore, err := f.rooms.Get(ctx, room.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	leaf := f.mustLeaf(t, room.ID, &child.ID, "deep.pdf")
	require.NoError(t, f.leaves.Delete(ctx, leaf.ID))

	// only the owning room records the activity; the containers on the
	// path to the leaf keep their original timestamps
	roomAfter, err := f.rooms.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, roomAfter.UpdatedAt.After(roomBefore.UpdatedAt))

	parentAfter, err := f.containers.Get(ctx, parent.ID)
	require.NoError(t, err)
	assert.True(t, parentAfter.UpdatedAt.Equal(parent.UpdatedAt))

	childAfter, err := f.containers.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.True(t, childAfter.UpdatedAt.Equal(child.UpdatedAt))
}

func TestContainerDelete_TouchesRoom(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	top := f.mustContainer(t, room.ID, nil, "Top")

	before, err := f.rooms.Get(ctx, room.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = f.containers.Delete(ctx, top.ID)
	require.NoError(t, err)

	after, err := f.rooms.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}
