// server/board/drag.go
package board

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vinizap/shelf/server/domain"
)

// Droppable ids for the two fixed drop zones. Every other droppable id is a
// folder id.
const (
	UngroupedGroup  = "UNGROUPED_ITEMS"
	FolderListGroup = "FOLDERS_LIST"
)

type DragKind string

const (
	DragItem   DragKind = "ITEM"
	DragFolder DragKind = "FOLDER"
)

var (
	ErrUnknownItem   = errors.New("item not in mirror")
	ErrUnknownFolder = errors.New("folder not in mirror")
	ErrInvalidDrop   = errors.New("invalid drop target")
)

type Location struct {
	GroupID string `json:"droppableId"`
	Index   int    `json:"index"`
}

// DragEvent describes a finished drag. A nil Destination means the
// draggable was released outside every drop zone.
type DragEvent struct {
	Kind        DragKind  `json:"type"`
	DraggableID string    `json:"draggableId"`
	Source      Location  `json:"source"`
	Destination *Location `json:"destination"`
}

type SyncKind int

const (
	SyncNone SyncKind = iota
	SyncPatchItem
	SyncReorder
)

// Sync is the request that persists a drag the mirror already shows.
type Sync struct {
	Kind    SyncKind
	ItemID  string
	Patch   domain.ItemPatch
	Reorder domain.Reorder
}

// DragEnd plans a drag: it returns the optimistic state and the request
// that persists it. The input state is left untouched.
func DragEnd(s State, ev DragEvent) (State, Sync, error) {
	if ev.Destination == nil {
		return s, Sync{}, nil
	}
	switch ev.Kind {
	case DragItem:
		return dragItem(s, ev)
	case DragFolder:
		return dragFolder(s, ev)
	default:
		return s, Sync{}, fmt.Errorf("unknown drag type %q", ev.Kind)
	}
}

func groupFolderID(groupID string) string {
	if groupID == UngroupedGroup {
		return ""
	}
	return groupID
}

func groupRef(folderID string) domain.OptionalID {
	if folderID == "" {
		return domain.NullID()
	}
	return domain.SomeID(folderID)
}

func dragItem(s State, ev DragEvent) (State, Sync, error) {
	dragged, ok := s.Item(ev.DraggableID)
	if !ok {
		return s, Sync{}, fmt.Errorf("%s: %w", ev.DraggableID, ErrUnknownItem)
	}
	if ev.Source.GroupID == FolderListGroup || ev.Destination.GroupID == FolderListGroup {
		return s, Sync{}, ErrInvalidDrop
	}

	src := groupFolderID(ev.Source.GroupID)
	dst := groupFolderID(ev.Destination.GroupID)
	if !dragged.InFolder(src) {
		return s, Sync{}, fmt.Errorf("%s is not in %s: %w", dragged.ID, ev.Source.GroupID, ErrInvalidDrop)
	}

	if src == dst {
		return reorderGroup(s, dragged.ID, src, ev.Destination.Index)
	}
	return moveToGroup(s, dragged, dst)
}

// reorderGroup moves id to index within its group and renumbers the group
// 0..n-1 in its new display order. Items outside the group keep their
// values.
func reorderGroup(s State, id, folderID string, index int) (State, Sync, error) {
	members := Group(s, folderID)
	from := slices.IndexFunc(members, func(it domain.Item) bool { return it.ID == id })
	members = move(members, from, index)

	positions := make(map[string]int, len(members))
	batch := domain.Reorder{Items: make([]domain.ItemOrder, 0, len(members))}
	for i, it := range members {
		positions[it.ID] = i
		batch.Items = append(batch.Items, domain.ItemOrder{ID: it.ID, Order: i, FolderID: groupRef(folderID)})
	}

	items := slices.Clone(s.Items)
	for i, it := range items {
		if pos, ok := positions[it.ID]; ok {
			items[i].Order = pos
		}
	}
	return State{Items: items, Folders: s.Folders}, Sync{Kind: SyncReorder, Reorder: batch}, nil
}

// moveToGroup reassigns the item's folder and keeps its order value. Neither
// group is renumbered, so the destination may end up with a duplicate order
// until the next same-group reorder.
func moveToGroup(s State, dragged domain.Item, folderID string) (State, Sync, error) {
	if folderID != "" {
		if _, ok := s.Folder(folderID); !ok {
			return s, Sync{}, fmt.Errorf("%s: %w", folderID, ErrUnknownFolder)
		}
	}
	patch := domain.ItemPatch{FolderID: groupRef(folderID)}
	next := ItemUpdated(s, patch.Apply(dragged))
	return next, Sync{Kind: SyncPatchItem, ItemID: dragged.ID, Patch: patch}, nil
}

// dragFolder is only valid inside the folder list. Every folder is
// renumbered by its new position.
func dragFolder(s State, ev DragEvent) (State, Sync, error) {
	if ev.Destination.GroupID != FolderListGroup {
		return s, Sync{}, ErrInvalidDrop
	}
	folders := SortedFolders(s)
	from := slices.IndexFunc(folders, func(f domain.Folder) bool { return f.ID == ev.DraggableID })
	if from < 0 {
		return s, Sync{}, fmt.Errorf("%s: %w", ev.DraggableID, ErrUnknownFolder)
	}
	folders = move(folders, from, ev.Destination.Index)

	batch := domain.Reorder{Folders: make([]domain.FolderOrder, 0, len(folders))}
	for i := range folders {
		folders[i].Order = i
		batch.Folders = append(batch.Folders, domain.FolderOrder{ID: folders[i].ID, Order: i})
	}
	return State{Items: s.Items, Folders: folders}, Sync{Kind: SyncReorder, Reorder: batch}, nil
}

// move returns a copy of list with the element at from reinserted at to,
// clamping the target index into range.
func move[T any](list []T, from, to int) []T {
	out := slices.Clone(list)
	v := out[from]
	out = slices.Delete(out, from, from+1)
	to = max(0, min(to, len(out)))
	return slices.Insert(out, to, v)
}
