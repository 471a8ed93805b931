package memory_test

import (
	"testing"

	"github.com/marmos91/dataroom/pkg/blob"
	"github.com/marmos91/dataroom/pkg/blob/memory"
	blobtesting "github.com/marmos91/dataroom/pkg/blob/testing"
)

func TestMemoryStore(t *testing.T) {
	suite := &blobtesting.StoreTestSuite{
		NewStore: func(t *testing.T) blob.Store {
			return memory.New()
		},
	}
	suite.Run(t)
}
