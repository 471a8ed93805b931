// Package testing provides a reusable test suite for blob.Store
// implementations. Every backend (memory, filesystem, S3) runs the same
// contract assertions.
//
// Usage:
//
//	func TestMyStore(t *testing.T) {
//	    suite := &testing.StoreTestSuite{
//	        NewStore: func(t *testing.T) blob.Store {
//	            return mystore.New()
//	        },
//	    }
//	    suite.Run(t)
//	}
package testing

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/marmos91/dataroom/pkg/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreTestSuite exercises the blob.Store contract.
type StoreTestSuite struct {
	// NewStore creates a fresh store for each test, ensuring isolation.
	NewStore func(t *testing.T) blob.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("PutAndGet", suite.TestPutAndGet)
	t.Run("Put_Overwrite", suite.TestPut_Overwrite)
	t.Run("Put_EmptyKey", suite.TestPut_EmptyKey)
	t.Run("Get_NotFound", suite.TestGet_NotFound)
	t.Run("Open", suite.TestOpen)
	t.Run("Open_NotFound", suite.TestOpen_NotFound)
	t.Run("Exists", suite.TestExists)
	t.Run("Size", suite.TestSize)
	t.Run("Size_NotFound", suite.TestSize_NotFound)
	t.Run("Delete", suite.TestDelete)
	t.Run("Delete_Idempotent", suite.TestDelete_Idempotent)
	t.Run("DeleteBatch", suite.TestDeleteBatch)
	t.Run("ListAndCount", suite.TestListAndCount)
	t.Run("EmptyPayload", suite.TestEmptyPayload)
	t.Run("Healthcheck", suite.TestHealthcheck)
}

func (suite *StoreTestSuite) newStore(t *testing.T) blob.Store {
	t.Helper()
	store := suite.NewStore(t)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func (suite *StoreTestSuite) TestPutAndGet(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	payload := []byte("%PDF-1.7 test payload")
	require.NoError(t, store.Put(ctx, "key-1", payload))

	data, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func (suite *StoreTestSuite) TestPut_Overwrite(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "key-1", []byte("first")))
	require.NoError(t, store.Put(ctx, "key-1", []byte("second")))

	data, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func (suite *StoreTestSuite) TestPut_EmptyKey(t *testing.T) {
	store := suite.newStore(t)

	err := store.Put(context.Background(), "", []byte("data"))
	require.Error(t, err)
	assert.ErrorIs(t, err, blob.ErrEmptyKey)
}

func (suite *StoreTestSuite) TestGet_NotFound(t *testing.T) {
	store := suite.newStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func (suite *StoreTestSuite) TestOpen(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	payload := bytes.Repeat([]byte("stream"), 100)
	require.NoError(t, store.Put(ctx, "key-1", payload))

	reader, err := store.Open(ctx, "key-1")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func (suite *StoreTestSuite) TestOpen_NotFound(t *testing.T) {
	store := suite.newStore(t)

	_, err := store.Open(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func (suite *StoreTestSuite) TestExists(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Put(ctx, "key-1", []byte("data")))

	exists, err = store.Exists(ctx, "key-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func (suite *StoreTestSuite) TestSize(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "key-1", make([]byte, 1234)))

	size, err := store.Size(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), size)
}

func (suite *StoreTestSuite) TestSize_NotFound(t *testing.T) {
	store := suite.newStore(t)

	_, err := store.Size(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func (suite *StoreTestSuite) TestDelete(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "key-1", []byte("data")))
	require.NoError(t, store.Delete(ctx, "key-1"))

	exists, err := store.Exists(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func (suite *StoreTestSuite) TestDelete_Idempotent(t *testing.T) {
	store := suite.newStore(t)
	assert.NoError(t, store.Delete(context.Background(), "missing"))
}

func (suite *StoreTestSuite) TestDeleteBatch(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "key-1", []byte("a")))
	require.NoError(t, store.Put(ctx, "key-2", []byte("b")))
	require.NoError(t, store.Put(ctx, "key-3", []byte("c")))

	// missing keys are not failures
	failed, err := store.DeleteBatch(ctx, []string{"key-1", "key-3", "missing"})
	require.NoError(t, err)
	assert.Empty(t, failed)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	exists, err := store.Exists(ctx, "key-2")
	require.NoError(t, err)
	assert.True(t, exists)
}

func (suite *StoreTestSuite) TestListAndCount(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, store.Put(ctx, "key-1", []byte("a")))
	require.NoError(t, store.Put(ctx, "key-2", []byte("b")))

	keys, err = store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"key-1", "key-2"}, keys)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func (suite *StoreTestSuite) TestEmptyPayload(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "empty", []byte{}))

	data, err := store.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, data)

	size, err := store.Size(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), size)
}

func (suite *StoreTestSuite) TestHealthcheck(t *testing.T) {
	store := suite.newStore(t)
	assert.NoError(t, store.Healthcheck(context.Background()))
}
