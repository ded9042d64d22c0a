package store_test

import (
	"testing"

	"github.com/vinizap/shelf/server/store"
	"github.com/vinizap/shelf/server/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return store.NewMemory()
	})
}
