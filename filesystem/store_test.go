package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinizap/shelf/server/domain"
	"github.com/vinizap/shelf/server/store"
	"github.com/vinizap/shelf/server/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func TestDocumentsSurviveReopen(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	s, err := Open(root)
	require.NoError(t, err)
	order := 0
	f, err := s.CreateFolder(ctx, domain.NewFolder{Name: "Archive", Order: &order})
	require.NoError(t, err)
	it, err := s.CreateItem(ctx, domain.NewItem{Title: "scan", Icon: domain.IconImage, FolderID: &f.ID, Order: &order})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "items", it.ID+".yaml"))
	assert.FileExists(t, filepath.Join(root, "folders", f.ID+".yaml"))

	reopened, err := Open(root)
	require.NoError(t, err)
	items, err := reopened.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "scan", items[0].Title)
	require.NotNil(t, items[0].FolderID)
	assert.Equal(t, f.ID, *items[0].FolderID)
	assert.True(t, it.CreatedAt.Equal(items[0].CreatedAt))
}

func TestListSkipsTempAndForeignFiles(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "items", ".tmp-123"), []byte("garbage"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "items", "README.md"), []byte("# notes"), 0644))

	items, err := s.ListItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRejectsPathLikeIDs(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	title := "x"
	_, err = s.UpdateItem(context.Background(), "../folders/abc", domain.ItemPatch{Title: &title})
	require.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestWriteDocsLeavesTargetsOnFailure(t *testing.T) {
	dir := t.TempDir()
	first := docPath(dir, "a")
	require.NoError(t, writeDoc(first, domain.Folder{ID: "a", Name: "before"}))

	err := writeDocs([]pendingDoc{
		{path: first, doc: domain.Folder{ID: "a", Name: "after"}},
		{path: docPath(filepath.Join(dir, "missing"), "b"), doc: domain.Folder{ID: "b"}},
	})
	require.Error(t, err)

	got, err := readDoc[domain.Folder](first)
	require.NoError(t, err)
	assert.Equal(t, "before", got.Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.yaml"}, names, "staged temp files must be removed")
}
