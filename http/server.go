// server/http/server.go
package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/vinizap/shelf/server/store"
	"github.com/vinizap/shelf/server/ws"
)

type Server struct {
	store      store.Store
	hub        *ws.Hub
	corsOrigin string
	log        zerolog.Logger
}

func NewServer(st store.Store, hub *ws.Hub, corsOrigin string, log zerolog.Logger) *Server {
	return &Server{
		store:      st,
		hub:        hub,
		corsOrigin: corsOrigin,
		log:        log.With().Str("component", "http").Logger(),
	}
}

// App builds the fiber application with every route mounted.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.corsOrigin,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(s.logRequests)

	app.Get("/api/health", s.HandleHealth)
	app.Get("/api/ready", s.HandleReady)

	app.Get("/api/items", s.HandleListItems)
	app.Post("/api/items", s.HandleCreateItem)
	app.Put("/api/items/:id", s.HandleUpdateItem)

	app.Get("/api/folders", s.HandleListFolders)
	app.Post("/api/folders", s.HandleCreateFolder)
	app.Put("/api/folders/:id", s.HandleUpdateFolder)

	app.Put("/api/reorder", s.HandleReorder)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(s.HandleWebSocket))

	return app
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
	}
	s.log.Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("request")
	return err
}

// handleError renders errors that escape a handler, such as unknown routes.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	return c.Status(code).JSON(errorBody{Message: err.Error()})
}
