package dataroom_test

import (
	"context"
	"io"
	"testing"

	"github.com/marmos91/dataroom/pkg/dataroom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafUpload_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	payload := pdfPayload(128)

	leaf, err := f.leaves.Upload(ctx, room.ID, nil, "report.pdf",
		dataroom.SupportedContentType, payload, dataroom.ActionCancel)
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", leaf.Name)
	assert.Equal(t, uint64(128), leaf.Size)
	assert.NotEmpty(t, leaf.BlobKey)

	data, name, err := f.leaves.Download(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "report.pdf", name)
}

func TestLeafUpload_WrongContentType(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")

	_, err := f.leaves.Upload(ctx, room.ID, nil, "report.pdf",
		"image/png", pdfPayload(10), dataroom.ActionCancel)

	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindFileValidation))

	// rejected before anything hit storage
	count, cerr := f.blobs.Count(ctx)
	require.NoError(t, cerr)
	assert.Equal(t, 0, count)
}

func TestLeafUpload_Oversize(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")

	_, err := f.leaves.Upload(ctx, room.ID, nil, "report.pdf",
		dataroom.SupportedContentType, pdfPayload(dataroom.MaxLeafSize+1), dataroom.ActionCancel)

	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindFileValidation))
}

func TestLeafUpload_ExactLimitAccepted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")

	leaf, err := f.leaves.Upload(ctx, room.ID, nil, "report.pdf",
		dataroom.SupportedContentType, pdfPayload(dataroom.MaxLeafSize), dataroom.ActionCancel)

	require.NoError(t, err)
	assert.Equal(t, uint64(dataroom.MaxLeafSize), leaf.Size)
}

func TestLeafUpload_WrongExtension(t *testing.T) {
	f := newFixture()
	room := f.mustRoom(t, "Deal")

	_, err := f.leaves.Upload(context.Background(), room.ID, nil, "report.docx",
		dataroom.SupportedContentType, pdfPayload(10), dataroom.ActionCancel)

	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNameValidation))
}

func TestLeafUpload_Replace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")

	original := f.mustLeaf(t, room.ID, nil, "report.pdf")
	originalBlob := original.BlobKey

	newPayload := pdfPayload(256)
	replacement, err := f.leaves.Upload(ctx, room.ID, nil, "report.pdf",
		dataroom.SupportedContentType, newPayload, dataroom.ActionReplace)
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", replacement.Name)
	assert.NotEqual(t, original.ID, replacement.ID)
	assert.NotEqual(t, originalBlob, replacement.BlobKey)

	// the displaced record and payload are gone
	_, err = f.leaves.Get(ctx, original.ID)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
	exists, err := f.blobs.Exists(ctx, originalBlob)
	require.NoError(t, err)
	assert.False(t, exists)

	data, _, err := f.leaves.Download(ctx, replacement.ID)
	require.NoError(t, err)
	assert.Equal(t, newPayload, data)
}

func TestLeafUpload_KeepBoth(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	f.mustLeaf(t, room.ID, nil, "report.pdf")

	leaf, err := f.leaves.Upload(ctx, room.ID, nil, "report.pdf",
		dataroom.SupportedContentType, pdfPayload(10), dataroom.ActionKeepBoth)

	require.NoError(t, err)
	assert.Equal(t, "report (1).pdf", leaf.Name)
}

func TestLeafUpload_CollisionCancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	f.mustLeaf(t, room.ID, nil, "report.pdf")

	_, err := f.leaves.Upload(ctx, room.ID, nil, "report.pdf",
		dataroom.SupportedContentType, pdfPayload(10), dataroom.ActionCancel)

	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindAlreadyExists))

	// nothing extra reached the blob store
	count, cerr := f.blobs.Count(ctx)
	require.NoError(t, cerr)
	assert.Equal(t, 1, count)
}

func TestLeafOpen_Streams(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	payload := pdfPayload(64)

	created, err := f.leaves.Upload(ctx, room.ID, nil, "report.pdf",
		dataroom.SupportedContentType, payload, dataroom.ActionCancel)
	require.NoError(t, err)

	reader, leaf, err := f.leaves.Open(ctx, created.ID)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, created.ID, leaf.ID)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestLeafDownload_MissingBlob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	leaf := f.mustLeaf(t, room.ID, nil, "report.pdf")

	// simulate a stranded record pointing at deleted content
	require.NoError(t, f.blobs.Delete(ctx, leaf.BlobKey))

	_, _, err := f.leaves.Download(ctx, leaf.ID)
	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindBlob))
}

func TestLeafRename_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	leaf := f.mustLeaf(t, room.ID, nil, "report.pdf")

	renamed, err := f.leaves.Rename(ctx, leaf.ID, "final.pdf", dataroom.ActionCancel)

	require.NoError(t, err)
	assert.Equal(t, "final.pdf", renamed.Name)
	// renaming does not touch the payload
	assert.Equal(t, leaf.BlobKey, renamed.BlobKey)
}

func TestLeafRename_Replace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	target := f.mustLeaf(t, room.ID, nil, "report.pdf")
	other := f.mustLeaf(t, room.ID, nil, "draft.pdf")

	renamed, err := f.leaves.Rename(ctx, other.ID, "report.pdf", dataroom.ActionReplace)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", renamed.Name)

	_, err = f.leaves.Get(ctx, target.ID)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
	exists, err := f.blobs.Exists(ctx, target.BlobKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLeafMove_PersistsParent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	dest := f.mustContainer(t, room.ID, nil, "Dest")
	leaf := f.mustLeaf(t, room.ID, nil, "report.pdf")

	moved, err := f.leaves.Move(ctx, leaf.ID, &dest.ID, dataroom.ActionCancel)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, dest.ID, *moved.ParentID)

	reloaded, err := f.leaves.Get(ctx, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ParentID)
	assert.Equal(t, dest.ID, *reloaded.ParentID)

	inDest, err := f.leaves.List(ctx, room.ID, &dest.ID)
	require.NoError(t, err)
	require.Len(t, inDest, 1)
	assert.Equal(t, leaf.ID, inDest[0].ID)
}

func TestLeafMove_CollisionKeepBoth(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	dest := f.mustContainer(t, room.ID, nil, "Dest")
	f.mustLeaf(t, room.ID, &dest.ID, "report.pdf")
	moving := f.mustLeaf(t, room.ID, nil, "report.pdf")

	moved, err := f.leaves.Move(ctx, moving.ID, &dest.ID, dataroom.ActionKeepBoth)

	require.NoError(t, err)
	assert.Equal(t, "report (1).pdf", moved.Name)
}

func TestLeafDelete_RemovesRecordAndBlob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	leaf := f.mustLeaf(t, room.ID, nil, "report.pdf")

	require.NoError(t, f.leaves.Delete(ctx, leaf.ID))

	_, err := f.leaves.Get(ctx, leaf.ID)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
	exists, err := f.blobs.Exists(ctx, leaf.BlobKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLeafDelete_NotFound(t *testing.T) {
	f := newFixture()

	err := f.leaves.Delete(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, dataroom.IsKind(err, dataroom.KindNotFound))
}

func TestLeafNameAvailable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	room := f.mustRoom(t, "Deal")
	f.mustLeaf(t, room.ID, nil, "report.pdf")

	assert.False(t, f.leaves.NameAvailable(ctx, room.ID, nil, "report.pdf"))
	assert.False(t, f.leaves.NameAvailable(ctx, room.ID, nil, " report.pdf "))
	assert.True(t, f.leaves.NameAvailable(ctx, room.ID, nil, "other.pdf"))

	// invalid names read as unavailable rather than erroring
	assert.False(t, f.leaves.NameAvailable(ctx, room.ID, nil, "bad/name.pdf"))
	assert.False(t, f.leaves.NameAvailable(ctx, room.ID, nil, "report.docx"))
}
