// server/board/state.go

// Package board is the client-side mirror of the server's items and
// folders. Every entry point is a pure function from the old State and one
// event to a new State; Board wraps that for concurrent use.
package board

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/vinizap/shelf/server/domain"
)

// State is never mutated in place; reducers return modified copies.
type State struct {
	Items   []domain.Item
	Folders []domain.Folder
}

func Load(items []domain.Item, folders []domain.Folder) State {
	return State{Items: slices.Clone(items), Folders: slices.Clone(folders)}
}

// ItemAdded inserts it, replacing an entry with the same id so that a
// replayed broadcast does not duplicate it.
func ItemAdded(s State, it domain.Item) State {
	return State{Items: upsert(s.Items, it, idOfItem), Folders: s.Folders}
}

func FolderAdded(s State, f domain.Folder) State {
	return State{Items: s.Items, Folders: upsert(s.Folders, f, idOfFolder)}
}

func ItemUpdated(s State, it domain.Item) State {
	return ItemAdded(s, it)
}

func FolderUpdated(s State, f domain.Folder) State {
	return FolderAdded(s, f)
}

// Reordered overwrites the order (and, for items, the folder) of every
// entry named in the batch. Ids the mirror has not seen are ignored; their
// add event carries the full document.
func Reordered(s State, batch domain.Reorder) State {
	next := State{Items: s.Items, Folders: s.Folders}
	if len(batch.Items) > 0 {
		byID := make(map[string]domain.ItemOrder, len(batch.Items))
		for _, o := range batch.Items {
			byID[o.ID] = o
		}
		next.Items = slices.Clone(s.Items)
		for i, it := range next.Items {
			if o, ok := byID[it.ID]; ok {
				next.Items[i] = o.Apply(it)
			}
		}
	}
	if len(batch.Folders) > 0 {
		byID := make(map[string]int, len(batch.Folders))
		for _, o := range batch.Folders {
			byID[o.ID] = o.Order
		}
		next.Folders = slices.Clone(s.Folders)
		for i, f := range next.Folders {
			if order, ok := byID[f.ID]; ok {
				next.Folders[i].Order = order
			}
		}
	}
	return next
}

// Apply decodes one broadcast and routes it to its reducer.
func Apply(s State, eventType domain.EventType, payload json.RawMessage) (State, error) {
	switch eventType {
	case domain.EventItemAdded, domain.EventItemUpdated:
		var it domain.Item
		if err := json.Unmarshal(payload, &it); err != nil {
			return s, fmt.Errorf("decode %s: %w", eventType, err)
		}
		return ItemAdded(s, it), nil
	case domain.EventFolderAdded, domain.EventFolderUpdated:
		var f domain.Folder
		if err := json.Unmarshal(payload, &f); err != nil {
			return s, fmt.Errorf("decode %s: %w", eventType, err)
		}
		return FolderAdded(s, f), nil
	case domain.EventReordered:
		var batch domain.Reorder
		if err := json.Unmarshal(payload, &batch); err != nil {
			return s, fmt.Errorf("decode %s: %w", eventType, err)
		}
		return Reordered(s, batch), nil
	default:
		return s, fmt.Errorf("unknown event %q", eventType)
	}
}

// Group returns the items of one group in display order. folderID "" is
// the ungrouped bucket.
func Group(s State, folderID string) []domain.Item {
	var out []domain.Item
	for _, it := range s.Items {
		if it.InFolder(folderID) {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Item) int { return cmp.Compare(a.Order, b.Order) })
	return out
}

// SortedFolders returns the folders in display order.
func SortedFolders(s State) []domain.Folder {
	out := slices.Clone(s.Folders)
	slices.SortStableFunc(out, func(a, b domain.Folder) int { return cmp.Compare(a.Order, b.Order) })
	return out
}

func (s State) Item(id string) (domain.Item, bool) {
	i := slices.IndexFunc(s.Items, func(it domain.Item) bool { return it.ID == id })
	if i < 0 {
		return domain.Item{}, false
	}
	return s.Items[i], true
}

func (s State) Folder(id string) (domain.Folder, bool) {
	i := slices.IndexFunc(s.Folders, func(f domain.Folder) bool { return f.ID == id })
	if i < 0 {
		return domain.Folder{}, false
	}
	return s.Folders[i], true
}

func idOfItem(it domain.Item) string { return it.ID }

func idOfFolder(f domain.Folder) string { return f.ID }

func upsert[T any](list []T, v T, id func(T) string) []T {
	out := slices.Clone(list)
	key := id(v)
	for i := range out {
		if id(out[i]) == key {
			out[i] = v
			return out
		}
	}
	return append(out, v)
}
