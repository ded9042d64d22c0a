// server/domain/folder.go
package domain

import (
	"strings"
	"time"
)

type Folder struct {
	ID        string    `json:"_id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	IsOpen    bool      `json:"isOpen" yaml:"is_open"`
	Order     int       `json:"order" yaml:"order"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

type NewFolder struct {
	Name   string `json:"name"`
	IsOpen *bool  `json:"isOpen"`
	Order  *int   `json:"order"`
}

func (n *NewFolder) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return invalid("name", "name is required")
	}
	if n.Order == nil {
		return invalid("order", "order is required")
	}
	if *n.Order < 0 {
		return invalid("order", "order must not be negative")
	}
	return nil
}

// Open reports the initial expansion state, which defaults to open.
func (n NewFolder) Open() bool {
	return n.IsOpen == nil || *n.IsOpen
}

type FolderPatch struct {
	Name   *string `json:"name,omitempty"`
	IsOpen *bool   `json:"isOpen,omitempty"`
	Order  *int    `json:"order,omitempty"`
}

func (p *FolderPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("name", "name must not be empty")
	}
	if p.Order != nil && *p.Order < 0 {
		return invalid("order", "order must not be negative")
	}
	return nil
}

func (p FolderPatch) Apply(f Folder) Folder {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.IsOpen != nil {
		f.IsOpen = *p.IsOpen
	}
	if p.Order != nil {
		f.Order = *p.Order
	}
	return f
}
