// server/filesystem/store.go

// Package filesystem stores items and folders as YAML documents, one file
// per document, under a root directory.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vinizap/shelf/server/domain"
	"github.com/vinizap/shelf/server/store"
)

type Store struct {
	mu         sync.RWMutex
	itemsDir   string
	foldersDir string
	now        func() time.Time
}

var _ store.Store = (*Store)(nil)

func Open(rootDir string) (*Store, error) {
	s := &Store{
		itemsDir:   filepath.Join(rootDir, "items"),
		foldersDir: filepath.Join(rootDir, "folders"),
		now:        time.Now,
	}
	for _, dir := range []string{s.itemsDir, s.foldersDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return s, nil
}

func (s *Store) ListItems(ctx context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, err := listDocs[domain.Item](s.itemsDir)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	store.SortItems(items)
	return items, nil
}

func (s *Store) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	folders, err := listDocs[domain.Folder](s.foldersDir)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	store.SortFolders(folders)
	return folders, nil
}

func (s *Store) CreateItem(ctx context.Context, in domain.NewItem) (domain.Item, error) {
	if err := in.Validate(); err != nil {
		return domain.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkFolder(in.FolderID); err != nil {
		return domain.Item{}, err
	}
	now := s.now().UTC()
	it := domain.Item{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Icon:      in.Icon,
		FolderID:  in.FolderID,
		Order:     *in.Order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := writeDoc(docPath(s.itemsDir, it.ID), it); err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

func (s *Store) CreateFolder(ctx context.Context, in domain.NewFolder) (domain.Folder, error) {
	if err := in.Validate(); err != nil {
		return domain.Folder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	f := domain.Folder{
		ID:        uuid.NewString(),
		Name:      in.Name,
		IsOpen:    in.Open(),
		Order:     *in.Order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := writeDoc(docPath(s.foldersDir, f.ID), f); err != nil {
		return domain.Folder{}, fmt.Errorf("create folder: %w", err)
	}
	return f, nil
}

func (s *Store) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, error) {
	if err := patch.Validate(); err != nil {
		return domain.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.readItem(id)
	if err != nil {
		return domain.Item{}, err
	}
	if patch.FolderID.Set {
		if err := s.checkFolder(patch.FolderID.Value); err != nil {
			return domain.Item{}, err
		}
	}
	it = patch.Apply(it)
	it.UpdatedAt = s.now().UTC()
	if err := writeDoc(docPath(s.itemsDir, id), it); err != nil {
		return domain.Item{}, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

func (s *Store) UpdateFolder(ctx context.Context, id string, patch domain.FolderPatch) (domain.Folder, error) {
	if err := patch.Validate(); err != nil {
		return domain.Folder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.readFolder(id)
	if err != nil {
		return domain.Folder{}, err
	}
	f = patch.Apply(f)
	f.UpdatedAt = s.now().UTC()
	if err := writeDoc(docPath(s.foldersDir, id), f); err != nil {
		return domain.Folder{}, fmt.Errorf("update folder: %w", err)
	}
	return f, nil
}

// Reorder loads and checks every document in the batch, then stages all
// writes before renaming any of them into place.
func (s *Store) Reorder(ctx context.Context, batch domain.Reorder) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Item, 0, len(batch.Items))
	for _, o := range batch.Items {
		it, err := s.readItem(o.ID)
		if err != nil {
			return fmt.Errorf("reorder %s: %w", o.ID, err)
		}
		if o.FolderID.Set {
			if err := s.checkFolder(o.FolderID.Value); err != nil {
				return fmt.Errorf("reorder %s: %w", o.ID, err)
			}
		}
		items = append(items, o.Apply(it))
	}
	folders := make([]domain.Folder, 0, len(batch.Folders))
	for _, o := range batch.Folders {
		f, err := s.readFolder(o.ID)
		if err != nil {
			return fmt.Errorf("reorder %s: %w", o.ID, err)
		}
		f.Order = o.Order
		folders = append(folders, f)
	}

	now := s.now().UTC()
	docs := make([]pendingDoc, 0, len(items)+len(folders))
	for _, it := range items {
		it.UpdatedAt = now
		docs = append(docs, pendingDoc{path: docPath(s.itemsDir, it.ID), doc: it})
	}
	for _, f := range folders {
		f.UpdatedAt = now
		docs = append(docs, pendingDoc{path: docPath(s.foldersDir, f.ID), doc: f})
	}
	if err := writeDocs(docs); err != nil {
		return fmt.Errorf("reorder: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := os.Stat(s.itemsDir)
	return err
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) readItem(id string) (domain.Item, error) {
	ok, err := docExists(s.itemsDir, id)
	if err != nil {
		return domain.Item{}, err
	}
	if !ok {
		return domain.Item{}, store.ErrItemNotFound
	}
	return readDoc[domain.Item](docPath(s.itemsDir, id))
}

func (s *Store) readFolder(id string) (domain.Folder, error) {
	ok, err := docExists(s.foldersDir, id)
	if err != nil {
		return domain.Folder{}, err
	}
	if !ok {
		return domain.Folder{}, store.ErrFolderNotFound
	}
	return readDoc[domain.Folder](docPath(s.foldersDir, id))
}

func (s *Store) checkFolder(id *string) error {
	if id == nil {
		return nil
	}
	ok, err := docExists(s.foldersDir, *id)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrFolderNotFound
	}
	return nil
}
