// server/domain/item.go
package domain

import (
	"strings"
	"time"
)

type Icon string

const (
	IconImage    Icon = "Image"
	IconMusic    Icon = "Music"
	IconDocument Icon = "Document"
	IconCode     Icon = "Code"
	IconVideo    Icon = "Video"
)

// Icons lists the accepted item icons in display order.
var Icons = []Icon{IconImage, IconMusic, IconDocument, IconCode, IconVideo}

func (i Icon) Valid() bool {
	for _, icon := range Icons {
		if i == icon {
			return true
		}
	}
	return false
}

type Item struct {
	ID        string    `json:"_id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Icon      Icon      `json:"icon" yaml:"icon"`
	FolderID  *string   `json:"folderId" yaml:"folder_id"`
	Order     int       `json:"order" yaml:"order"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// InFolder reports whether the item belongs to the given folder; an empty
// folderID matches ungrouped items.
func (it Item) InFolder(folderID string) bool {
	if it.FolderID == nil {
		return folderID == ""
	}
	return *it.FolderID == folderID
}

type NewItem struct {
	Title    string  `json:"title"`
	Icon     Icon    `json:"icon"`
	FolderID *string `json:"folderId"`
	Order    *int    `json:"order"`
}

func (n *NewItem) Validate() error {
	n.FolderID = normalizeFolderID(n.FolderID)
	if strings.TrimSpace(n.Title) == "" {
		return invalid("title", "title is required")
	}
	if !n.Icon.Valid() {
		return invalid("icon", "icon must be one of Image, Music, Document, Code, Video")
	}
	if n.Order == nil {
		return invalid("order", "order is required")
	}
	if *n.Order < 0 {
		return invalid("order", "order must not be negative")
	}
	return nil
}

// ItemPatch is a partial update. Nil fields are left untouched; FolderID
// separates an absent key from an explicit null.
type ItemPatch struct {
	Title    *string    `json:"title,omitempty"`
	Icon     *Icon      `json:"icon,omitempty"`
	FolderID OptionalID `json:"folderId,omitzero"`
	Order    *int       `json:"order,omitempty"`
}

func (p *ItemPatch) Validate() error {
	if p.FolderID.Set {
		p.FolderID.Value = normalizeFolderID(p.FolderID.Value)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return invalid("title", "title must not be empty")
	}
	if p.Icon != nil && !p.Icon.Valid() {
		return invalid("icon", "icon must be one of Image, Music, Document, Code, Video")
	}
	if p.Order != nil && *p.Order < 0 {
		return invalid("order", "order must not be negative")
	}
	return nil
}

// Apply returns a copy of it with the patch applied.
func (p ItemPatch) Apply(it Item) Item {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Icon != nil {
		it.Icon = *p.Icon
	}
	if p.FolderID.Set {
		it.FolderID = cloneID(p.FolderID.Value)
	}
	if p.Order != nil {
		it.Order = *p.Order
	}
	return it
}

func normalizeFolderID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
