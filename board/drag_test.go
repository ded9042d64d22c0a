package board

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinizap/shelf/server/domain"
)

func strp(s string) *string { return &s }

func item(id string, folderID *string, order int) domain.Item {
	return domain.Item{ID: id, Title: id, Icon: domain.IconDocument, FolderID: folderID, Order: order}
}

func folder(id string, order int) domain.Folder {
	return domain.Folder{ID: id, Name: id, IsOpen: true, Order: order}
}

func ids(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func orders(items []domain.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Order
	}
	return out
}

func itemDrag(id, src string, srcIdx int, dst string, dstIdx int) DragEvent {
	return DragEvent{
		Kind:        DragItem,
		DraggableID: id,
		Source:      Location{GroupID: src, Index: srcIdx},
		Destination: &Location{GroupID: dst, Index: dstIdx},
	}
}

func TestSameGroupReorderRenumbersGroup(t *testing.T) {
	f1 := strp("F1")
	s := Load([]domain.Item{
		item("a", nil, 0),
		item("x", f1, 0),
		item("b", nil, 1),
		item("c", nil, 2),
		item("y", f1, 1),
	}, []domain.Folder{folder("F1", 0)})

	next, plan, err := DragEnd(s, itemDrag("c", UngroupedGroup, 2, UngroupedGroup, 0))
	require.NoError(t, err)

	group := Group(next, "")
	assert.Equal(t, []string{"c", "a", "b"}, ids(group))
	assert.Equal(t, []int{0, 1, 2}, orders(group))

	// Items of other groups are untouched.
	assert.Equal(t, []int{0, 1}, orders(Group(next, "F1")))

	require.Equal(t, SyncReorder, plan.Kind)
	require.Len(t, plan.Reorder.Items, 3)
	assert.Empty(t, plan.Reorder.Folders)
	for i, o := range plan.Reorder.Items {
		assert.Equal(t, group[i].ID, o.ID)
		assert.Equal(t, i, o.Order)
		assert.True(t, o.FolderID.Set)
		assert.Nil(t, o.FolderID.Value)
	}
}

func TestSameGroupReorderIsContiguousForEveryMove(t *testing.T) {
	f := strp("F")
	base := Load([]domain.Item{
		item("a", f, 3),
		item("b", f, 7),
		item("c", f, 7),
		item("d", f, 12),
	}, []domain.Folder{folder("F", 0)})

	start := Group(base, "F")
	for from := range start {
		for to := range start {
			t.Run(fmt.Sprintf("%d->%d", from, to), func(t *testing.T) {
				next, _, err := DragEnd(base, itemDrag(start[from].ID, "F", from, "F", to))
				require.NoError(t, err)

				group := Group(next, "F")
				assert.Equal(t, []int{0, 1, 2, 3}, orders(group))
				assert.Equal(t, start[from].ID, group[to].ID)
			})
		}
	}
}

func TestCrossGroupMoveKeepsOrder(t *testing.T) {
	s := Load([]domain.Item{item("I1", nil, 0)}, []domain.Folder{folder("F1", 0)})

	next, plan, err := DragEnd(s, itemDrag("I1", UngroupedGroup, 0, "F1", 0))
	require.NoError(t, err)

	moved, ok := next.Item("I1")
	require.True(t, ok)
	require.NotNil(t, moved.FolderID)
	assert.Equal(t, "F1", *moved.FolderID)
	assert.Equal(t, 0, moved.Order)

	require.Equal(t, SyncPatchItem, plan.Kind)
	assert.Equal(t, "I1", plan.ItemID)
	assert.Equal(t, domain.SomeID("F1"), plan.Patch.FolderID)
	assert.Nil(t, plan.Patch.Order)
}

func TestCrossGroupMoveCanDuplicateOrder(t *testing.T) {
	f1 := strp("F1")
	s := Load([]domain.Item{
		item("in-folder", f1, 0),
		item("loose", nil, 0),
	}, []domain.Folder{folder("F1", 0)})

	next, _, err := DragEnd(s, itemDrag("loose", UngroupedGroup, 0, "F1", 1))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, orders(Group(next, "F1")))
}

func TestMoveToUngroupedPatchesNull(t *testing.T) {
	s := Load([]domain.Item{item("I1", strp("F1"), 2)}, []domain.Folder{folder("F1", 0)})

	next, plan, err := DragEnd(s, itemDrag("I1", "F1", 0, UngroupedGroup, 0))
	require.NoError(t, err)
	moved, _ := next.Item("I1")
	assert.Nil(t, moved.FolderID)
	assert.Equal(t, 2, moved.Order)
	assert.Equal(t, domain.NullID(), plan.Patch.FolderID)
}

func TestFolderDragRenumbersAll(t *testing.T) {
	s := Load(nil, []domain.Folder{folder("F1", 0), folder("F2", 1)})

	next, plan, err := DragEnd(s, DragEvent{
		Kind:        DragFolder,
		DraggableID: "F2",
		Source:      Location{GroupID: FolderListGroup, Index: 1},
		Destination: &Location{GroupID: FolderListGroup, Index: 0},
	})
	require.NoError(t, err)

	sorted := SortedFolders(next)
	assert.Equal(t, "F2", sorted[0].ID)
	assert.Equal(t, 0, sorted[0].Order)
	assert.Equal(t, "F1", sorted[1].ID)
	assert.Equal(t, 1, sorted[1].Order)

	require.Equal(t, SyncReorder, plan.Kind)
	want := []domain.FolderOrder{{ID: "F2", Order: 0}, {ID: "F1", Order: 1}}
	if diff := cmp.Diff(want, plan.Reorder.Folders); diff != "" {
		t.Errorf("reorder batch mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, plan.Reorder.Items)
}

func TestFolderDropOutsideListIsInvalid(t *testing.T) {
	s := Load(nil, []domain.Folder{folder("F1", 0), folder("F2", 1)})
	next, plan, err := DragEnd(s, DragEvent{
		Kind:        DragFolder,
		DraggableID: "F2",
		Source:      Location{GroupID: FolderListGroup, Index: 1},
		Destination: &Location{GroupID: UngroupedGroup, Index: 0},
	})
	require.ErrorIs(t, err, ErrInvalidDrop)
	assert.Equal(t, SyncNone, plan.Kind)
	assert.Equal(t, s, next)
}

func TestDropOutsideIsNoop(t *testing.T) {
	s := Load([]domain.Item{item("a", nil, 0)}, nil)
	next, plan, err := DragEnd(s, DragEvent{Kind: DragItem, DraggableID: "a", Source: Location{GroupID: UngroupedGroup}})
	require.NoError(t, err)
	assert.Equal(t, SyncNone, plan.Kind)
	assert.Equal(t, s, next)
}

func TestDragErrors(t *testing.T) {
	s := Load([]domain.Item{item("a", nil, 0)}, []domain.Folder{folder("F1", 0)})

	_, _, err := DragEnd(s, itemDrag("ghost", UngroupedGroup, 0, UngroupedGroup, 0))
	assert.ErrorIs(t, err, ErrUnknownItem)

	_, _, err = DragEnd(s, itemDrag("a", UngroupedGroup, 0, "F9", 0))
	assert.ErrorIs(t, err, ErrUnknownFolder)

	_, _, err = DragEnd(s, itemDrag("a", "F1", 0, UngroupedGroup, 0))
	assert.ErrorIs(t, err, ErrInvalidDrop)

	_, _, err = DragEnd(s, itemDrag("a", UngroupedGroup, 0, FolderListGroup, 0))
	assert.ErrorIs(t, err, ErrInvalidDrop)
}

func TestDragEndDoesNotMutateInput(t *testing.T) {
	s := Load([]domain.Item{item("a", nil, 0), item("b", nil, 1)}, []domain.Folder{folder("F1", 0), folder("F2", 1)})
	before := Load(s.Items, s.Folders)

	_, _, err := DragEnd(s, itemDrag("b", UngroupedGroup, 1, UngroupedGroup, 0))
	require.NoError(t, err)
	_, _, err = DragEnd(s, itemDrag("a", UngroupedGroup, 0, "F1", 0))
	require.NoError(t, err)
	_, _, err = DragEnd(s, DragEvent{Kind: DragFolder, DraggableID: "F2", Destination: &Location{GroupID: FolderListGroup}})
	require.NoError(t, err)

	if diff := cmp.Diff(before, s); diff != "" {
		t.Errorf("input state mutated (-before +after):\n%s", diff)
	}
}

func TestOutOfRangeIndexClamps(t *testing.T) {
	s := Load([]domain.Item{item("a", nil, 0), item("b", nil, 1)}, nil)
	next, _, err := DragEnd(s, itemDrag("a", UngroupedGroup, 0, UngroupedGroup, 99))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(Group(next, "")))
}
