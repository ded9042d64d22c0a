// server/store/store.go
package store

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/vinizap/shelf/server/domain"
)

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrFolderNotFound = errors.New("folder not found")
)

// Store persists items and folders. Reorder applies its whole batch or
// nothing.
type Store interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	ListFolders(ctx context.Context) ([]domain.Folder, error)
	CreateItem(ctx context.Context, in domain.NewItem) (domain.Item, error)
	CreateFolder(ctx context.Context, in domain.NewFolder) (domain.Folder, error)
	UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, error)
	UpdateFolder(ctx context.Context, id string, patch domain.FolderPatch) (domain.Folder, error)
	Reorder(ctx context.Context, batch domain.Reorder) error
	Ping(ctx context.Context) error
	Close() error
}

// SortItems orders items by order ascending, oldest first on ties.
func SortItems(items []domain.Item) {
	slices.SortStableFunc(items, func(a, b domain.Item) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

func SortFolders(folders []domain.Folder) {
	slices.SortStableFunc(folders, func(a, b domain.Folder) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
