// server/domain/event.go
package domain

type EventType string

const (
	EventItemAdded     EventType = "itemAdded"
	EventFolderAdded   EventType = "folderAdded"
	EventItemUpdated   EventType = "itemUpdated"
	EventFolderUpdated EventType = "folderUpdated"
	EventReordered     EventType = "reordered"
)
