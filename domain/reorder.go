// server/domain/reorder.go
package domain

import "encoding/json"

// ItemOrder carries the fields a reorder batch writes for one item.
type ItemOrder struct {
	ID       string     `json:"_id"`
	Order    int        `json:"order"`
	FolderID OptionalID `json:"folderId,omitzero"`
}

type FolderOrder struct {
	ID    string `json:"_id"`
	Order int    `json:"order"`
}

// Reorder is a batch of order (and item folder) changes applied as one unit.
type Reorder struct {
	Items   []ItemOrder   `json:"items,omitempty"`
	Folders []FolderOrder `json:"folders,omitempty"`
}

// UnmarshalJSON rejects entries without an order, which would otherwise
// decode as position 0.
func (o *ItemOrder) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string     `json:"_id"`
		Order    *int       `json:"order"`
		FolderID OptionalID `json:"folderId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Order == nil {
		return invalid("items", "order is required")
	}
	*o = ItemOrder{ID: raw.ID, Order: *raw.Order, FolderID: raw.FolderID}
	return nil
}

func (o *FolderOrder) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    string `json:"_id"`
		Order *int   `json:"order"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Order == nil {
		return invalid("folders", "order is required")
	}
	*o = FolderOrder{ID: raw.ID, Order: *raw.Order}
	return nil
}

func (r *Reorder) Validate() error {
	for i := range r.Items {
		it := &r.Items[i]
		if it.ID == "" {
			return invalid("items", "every item needs an _id")
		}
		if it.Order < 0 {
			return invalid("items", "order must not be negative")
		}
		if it.FolderID.Set {
			it.FolderID.Value = normalizeFolderID(it.FolderID.Value)
		}
	}
	for _, f := range r.Folders {
		if f.ID == "" {
			return invalid("folders", "every folder needs an _id")
		}
		if f.Order < 0 {
			return invalid("folders", "order must not be negative")
		}
	}
	return nil
}

func (r Reorder) Empty() bool {
	return len(r.Items) == 0 && len(r.Folders) == 0
}

// Apply returns a copy of it carrying the batch entry's order and folder.
func (o ItemOrder) Apply(it Item) Item {
	it.Order = o.Order
	if o.FolderID.Set {
		it.FolderID = cloneID(o.FolderID.Value)
	}
	return it
}
