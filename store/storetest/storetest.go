// server/store/storetest/storetest.go

// Package storetest holds behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinizap/shelf/server/domain"
	"github.com/vinizap/shelf/server/store"
)

// Factory returns an empty store; cleanup is registered on t.
type Factory func(t *testing.T) store.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("CreateItemRoundTrip", func(t *testing.T) { testCreateItemRoundTrip(t, newStore(t)) })
	t.Run("UngroupedOrderLookup", func(t *testing.T) { testUngroupedOrderLookup(t, newStore(t)) })
	t.Run("CreateFolderDefaultsOpen", func(t *testing.T) { testCreateFolderDefaultsOpen(t, newStore(t)) })
	t.Run("CreateItemUnknownFolder", func(t *testing.T) { testCreateItemUnknownFolder(t, newStore(t)) })
	t.Run("CreateItemValidation", func(t *testing.T) { testCreateItemValidation(t, newStore(t)) })
	t.Run("UpdateItemPatch", func(t *testing.T) { testUpdateItemPatch(t, newStore(t)) })
	t.Run("UpdateItemNotFound", func(t *testing.T) { testUpdateItemNotFound(t, newStore(t)) })
	t.Run("UpdateFolderToggle", func(t *testing.T) { testUpdateFolderToggle(t, newStore(t)) })
	t.Run("ReorderFolders", func(t *testing.T) { testReorderFolders(t, newStore(t)) })
	t.Run("ReorderItemsAcrossFolders", func(t *testing.T) { testReorderItemsAcrossFolders(t, newStore(t)) })
	t.Run("ReorderIsAllOrNothing", func(t *testing.T) { testReorderIsAllOrNothing(t, newStore(t)) })
}

func intp(v int) *int { return &v }

func mustFolder(t *testing.T, s store.Store, name string, order int) domain.Folder {
	t.Helper()
	f, err := s.CreateFolder(context.Background(), domain.NewFolder{Name: name, Order: intp(order)})
	require.NoError(t, err)
	return f
}

func mustItem(t *testing.T, s store.Store, title string, folderID *string, order int) domain.Item {
	t.Helper()
	it, err := s.CreateItem(context.Background(), domain.NewItem{
		Title:    title,
		Icon:     domain.IconDocument,
		FolderID: folderID,
		Order:    intp(order),
	})
	require.NoError(t, err)
	return it
}

func testCreateItemRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	created := mustItem(t, s, "Notes", nil, 0)
	require.NotEmpty(t, created.ID)

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "Notes", items[0].Title)
	assert.Equal(t, domain.IconDocument, items[0].Icon)
	assert.Nil(t, items[0].FolderID)
	assert.Equal(t, 0, items[0].Order)
}

func testUngroupedOrderLookup(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := mustFolder(t, s, "Work", 0)
	mustItem(t, s, "c", nil, 2)
	mustItem(t, s, "in-folder", &f.ID, 1)
	mustItem(t, s, "a", nil, 0)
	mustItem(t, s, "b", nil, 1)

	items, err := s.ListItems(ctx)
	require.NoError(t, err)

	var ungrouped []string
	for _, it := range items {
		if it.FolderID == nil {
			ungrouped = append(ungrouped, it.Title)
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, ungrouped)
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].Order, items[i].Order)
	}
}

func testCreateFolderDefaultsOpen(t *testing.T, s store.Store) {
	ctx := context.Background()
	open := mustFolder(t, s, "Open", 1)
	assert.True(t, open.IsOpen)

	closed := false
	f, err := s.CreateFolder(ctx, domain.NewFolder{Name: "Closed", IsOpen: &closed, Order: intp(0)})
	require.NoError(t, err)
	assert.False(t, f.IsOpen)

	folders, err := s.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Closed", folders[0].Name)
	assert.Equal(t, "Open", folders[1].Name)
}

func testCreateItemUnknownFolder(t *testing.T, s store.Store) {
	missing := "does-not-exist"
	_, err := s.CreateItem(context.Background(), domain.NewItem{
		Title:    "orphan",
		Icon:     domain.IconCode,
		FolderID: &missing,
		Order:    intp(0),
	})
	require.ErrorIs(t, err, store.ErrFolderNotFound)
}

func testCreateItemValidation(t *testing.T, s store.Store) {
	ctx := context.Background()
	cases := []domain.NewItem{
		{Title: "", Icon: domain.IconCode, Order: intp(0)},
		{Title: "x", Icon: "Spreadsheet", Order: intp(0)},
		{Title: "x", Icon: domain.IconCode},
		{Title: "x", Icon: domain.IconCode, Order: intp(-1)},
	}
	for _, in := range cases {
		_, err := s.CreateItem(ctx, in)
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr), "expected validation error for %+v, got %v", in, err)
	}
}

func testUpdateItemPatch(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := mustFolder(t, s, "Media", 0)
	it := mustItem(t, s, "song", nil, 3)

	title := "track"
	moved, err := s.UpdateItem(ctx, it.ID, domain.ItemPatch{Title: &title, FolderID: domain.SomeID(f.ID)})
	require.NoError(t, err)
	assert.Equal(t, "track", moved.Title)
	require.NotNil(t, moved.FolderID)
	assert.Equal(t, f.ID, *moved.FolderID)
	assert.Equal(t, 3, moved.Order)
	assert.Equal(t, domain.IconDocument, moved.Icon)

	ungrouped, err := s.UpdateItem(ctx, it.ID, domain.ItemPatch{FolderID: domain.NullID()})
	require.NoError(t, err)
	assert.Nil(t, ungrouped.FolderID)
	assert.Equal(t, "track", ungrouped.Title)

	_, err = s.UpdateItem(ctx, it.ID, domain.ItemPatch{FolderID: domain.SomeID("nope")})
	require.ErrorIs(t, err, store.ErrFolderNotFound)
}

func testUpdateItemNotFound(t *testing.T, s store.Store) {
	title := "x"
	_, err := s.UpdateItem(context.Background(), "missing", domain.ItemPatch{Title: &title})
	require.ErrorIs(t, err, store.ErrItemNotFound)

	_, err = s.UpdateFolder(context.Background(), "missing", domain.FolderPatch{Name: &title})
	require.ErrorIs(t, err, store.ErrFolderNotFound)
}

func testUpdateFolderToggle(t *testing.T, s store.Store) {
	f := mustFolder(t, s, "Docs", 0)
	closed := false
	updated, err := s.UpdateFolder(context.Background(), f.ID, domain.FolderPatch{IsOpen: &closed})
	require.NoError(t, err)
	assert.False(t, updated.IsOpen)
	assert.Equal(t, "Docs", updated.Name)
}

func testReorderFolders(t *testing.T, s store.Store) {
	ctx := context.Background()
	f1 := mustFolder(t, s, "F1", 0)
	f2 := mustFolder(t, s, "F2", 1)

	err := s.Reorder(ctx, domain.Reorder{Folders: []domain.FolderOrder{
		{ID: f2.ID, Order: 0},
		{ID: f1.ID, Order: 1},
	}})
	require.NoError(t, err)

	folders, err := s.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, f2.ID, folders[0].ID)
	assert.Equal(t, 0, folders[0].Order)
	assert.Equal(t, f1.ID, folders[1].ID)
	assert.Equal(t, 1, folders[1].Order)
}

func testReorderItemsAcrossFolders(t *testing.T, s store.Store) {
	ctx := context.Background()
	f := mustFolder(t, s, "F", 0)
	a := mustItem(t, s, "a", nil, 0)
	b := mustItem(t, s, "b", nil, 1)

	err := s.Reorder(ctx, domain.Reorder{Items: []domain.ItemOrder{
		{ID: a.ID, Order: 1},
		{ID: b.ID, Order: 0, FolderID: domain.SomeID(f.ID)},
	}})
	require.NoError(t, err)

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	byID := map[string]domain.Item{}
	for _, it := range items {
		byID[it.ID] = it
	}
	assert.Equal(t, 1, byID[a.ID].Order)
	assert.Nil(t, byID[a.ID].FolderID, "absent folderId must leave the item ungrouped")
	assert.Equal(t, 0, byID[b.ID].Order)
	require.NotNil(t, byID[b.ID].FolderID)
	assert.Equal(t, f.ID, *byID[b.ID].FolderID)
}

func testReorderIsAllOrNothing(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := mustItem(t, s, "a", nil, 0)
	b := mustItem(t, s, "b", nil, 1)

	err := s.Reorder(ctx, domain.Reorder{Items: []domain.ItemOrder{
		{ID: a.ID, Order: 1},
		{ID: b.ID, Order: 0},
		{ID: "ghost", Order: 2},
	}})
	require.ErrorIs(t, err, store.ErrItemNotFound)

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, 0, items[0].Order)
	assert.Equal(t, b.ID, items[1].ID)
	assert.Equal(t, 1, items[1].Order)
}
