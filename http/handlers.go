// server/http/handlers.go
package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/vinizap/shelf/server/domain"
)

type errorBody struct {
	Message string `json:"message"`
}

// readError and writeError keep the status split the API promises: reads
// fail with 500, mutations with 400.
func readError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Message: err.Error()})
}

func writeError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorBody{Message: err.Error()})
}

func decodeBody(c *fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "request body required")
	}
	return json.Unmarshal(c.Body(), v)
}

func (s *Server) broadcast(eventType domain.EventType, payload any) {
	if err := s.hub.Broadcast(eventType, payload); err != nil {
		s.log.Error().Err(err).Str("event", string(eventType)).Msg("broadcast failed")
	}
}

func (s *Server) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

func (s *Server) HandleReady(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"ok":      false,
			"message": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (s *Server) HandleListItems(c *fiber.Ctx) error {
	items, err := s.store.ListItems(c.UserContext())
	if err != nil {
		return readError(c, err)
	}
	return c.JSON(items)
}

func (s *Server) HandleListFolders(c *fiber.Ctx) error {
	folders, err := s.store.ListFolders(c.UserContext())
	if err != nil {
		return readError(c, err)
	}
	return c.JSON(folders)
}

func (s *Server) HandleCreateItem(c *fiber.Ctx) error {
	var req domain.NewItem
	if err := decodeBody(c, &req); err != nil {
		return writeError(c, err)
	}

	item, err := s.store.CreateItem(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	s.broadcast(domain.EventItemAdded, item)
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (s *Server) HandleCreateFolder(c *fiber.Ctx) error {
	var req domain.NewFolder
	if err := decodeBody(c, &req); err != nil {
		return writeError(c, err)
	}

	folder, err := s.store.CreateFolder(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	s.broadcast(domain.EventFolderAdded, folder)
	return c.Status(fiber.StatusCreated).JSON(folder)
}

func (s *Server) HandleUpdateItem(c *fiber.Ctx) error {
	var patch domain.ItemPatch
	if err := decodeBody(c, &patch); err != nil {
		return writeError(c, err)
	}

	item, err := s.store.UpdateItem(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return writeError(c, err)
	}

	s.broadcast(domain.EventItemUpdated, item)
	return c.JSON(item)
}

func (s *Server) HandleUpdateFolder(c *fiber.Ctx) error {
	var patch domain.FolderPatch
	if err := decodeBody(c, &patch); err != nil {
		return writeError(c, err)
	}

	folder, err := s.store.UpdateFolder(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return writeError(c, err)
	}

	s.broadcast(domain.EventFolderUpdated, folder)
	return c.JSON(folder)
}

// HandleReorder applies the batch and rebroadcasts the request body as sent.
func (s *Server) HandleReorder(c *fiber.Ctx) error {
	var batch domain.Reorder
	if err := decodeBody(c, &batch); err != nil {
		return writeError(c, err)
	}

	if err := s.store.Reorder(c.UserContext(), batch); err != nil {
		return writeError(c, err)
	}

	// The body buffer belongs to fasthttp.
	raw := make(json.RawMessage, len(c.Body()))
	copy(raw, c.Body())
	s.broadcast(domain.EventReordered, raw)

	return c.JSON(fiber.Map{"success": true})
}

// HandleWebSocket blocks until the hub has finished writing to conn. The
// websocket middleware recycles conn as soon as this returns.
func (s *Server) HandleWebSocket(conn *websocket.Conn) {
	done := s.hub.Register(conn)
	s.hub.HandleConnection(conn)
	<-done
}
