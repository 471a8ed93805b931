package memory_test

import (
	"testing"

	"github.com/marmos91/dataroom/pkg/dataroom"
	"github.com/marmos91/dataroom/pkg/store/memory"
	storetesting "github.com/marmos91/dataroom/pkg/store/testing"
)

func TestMemoryStore(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) dataroom.Store {
			return memory.New()
		},
	}
	suite.Run(t)
}
