// server/store/memory.go
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vinizap/shelf/server/domain"
)

// Memory keeps every document in process memory.
type Memory struct {
	mu      sync.RWMutex
	items   map[string]domain.Item
	folders map[string]domain.Folder
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		items:   make(map[string]domain.Item),
		folders: make(map[string]domain.Folder),
		now:     time.Now,
	}
}

func (m *Memory) ListItems(ctx context.Context) ([]domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]domain.Item, 0, len(m.items))
	for _, it := range m.items {
		items = append(items, it)
	}
	SortItems(items)
	return items, nil
}

func (m *Memory) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	folders := make([]domain.Folder, 0, len(m.folders))
	for _, f := range m.folders {
		folders = append(folders, f)
	}
	SortFolders(folders)
	return folders, nil
}

func (m *Memory) CreateItem(ctx context.Context, in domain.NewItem) (domain.Item, error) {
	if err := in.Validate(); err != nil {
		return domain.Item{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkFolder(in.FolderID); err != nil {
		return domain.Item{}, err
	}
	now := m.now()
	it := domain.Item{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Icon:      in.Icon,
		FolderID:  in.FolderID,
		Order:     *in.Order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.items[it.ID] = it
	return it, nil
}

func (m *Memory) CreateFolder(ctx context.Context, in domain.NewFolder) (domain.Folder, error) {
	if err := in.Validate(); err != nil {
		return domain.Folder{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	f := domain.Folder{
		ID:        uuid.NewString(),
		Name:      in.Name,
		IsOpen:    in.Open(),
		Order:     *in.Order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.folders[f.ID] = f
	return f, nil
}

func (m *Memory) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, error) {
	if err := patch.Validate(); err != nil {
		return domain.Item{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[id]
	if !ok {
		return domain.Item{}, ErrItemNotFound
	}
	if patch.FolderID.Set {
		if err := m.checkFolder(patch.FolderID.Value); err != nil {
			return domain.Item{}, err
		}
	}
	it = patch.Apply(it)
	it.UpdatedAt = m.now()
	m.items[id] = it
	return it, nil
}

func (m *Memory) UpdateFolder(ctx context.Context, id string, patch domain.FolderPatch) (domain.Folder, error) {
	if err := patch.Validate(); err != nil {
		return domain.Folder{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.folders[id]
	if !ok {
		return domain.Folder{}, ErrFolderNotFound
	}
	f = patch.Apply(f)
	f.UpdatedAt = m.now()
	m.folders[id] = f
	return f, nil
}

func (m *Memory) Reorder(ctx context.Context, batch domain.Reorder) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range batch.Items {
		if _, ok := m.items[o.ID]; !ok {
			return fmt.Errorf("reorder %s: %w", o.ID, ErrItemNotFound)
		}
		if o.FolderID.Set {
			if err := m.checkFolder(o.FolderID.Value); err != nil {
				return fmt.Errorf("reorder %s: %w", o.ID, err)
			}
		}
	}
	for _, o := range batch.Folders {
		if _, ok := m.folders[o.ID]; !ok {
			return fmt.Errorf("reorder %s: %w", o.ID, ErrFolderNotFound)
		}
	}

	now := m.now()
	for _, o := range batch.Items {
		it := o.Apply(m.items[o.ID])
		it.UpdatedAt = now
		m.items[o.ID] = it
	}
	for _, o := range batch.Folders {
		f := m.folders[o.ID]
		f.Order = o.Order
		f.UpdatedAt = now
		m.folders[o.ID] = f
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) checkFolder(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := m.folders[*id]; !ok {
		return ErrFolderNotFound
	}
	return nil
}
