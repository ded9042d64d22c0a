// server/client/session.go
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/vinizap/shelf/server/board"
	"github.com/vinizap/shelf/server/domain"
	"github.com/vinizap/shelf/server/ws"
)

// Session keeps a board in step with one server. Drags are applied to the
// board first and persisted in the background; a failed request is logged
// and the optimistic state stays until a broadcast or Resync replaces it.
type Session struct {
	api      *API
	board    *board.Board
	log      zerolog.Logger
	inflight sync.WaitGroup

	mu       sync.Mutex
	onChange func(board.State)
}

func NewSession(api *API, log zerolog.Logger) *Session {
	return &Session{
		api:   api,
		board: board.New(),
		log:   log.With().Str("component", "session").Logger(),
	}
}

func (s *Session) Board() *board.Board {
	return s.board
}

// OnChange registers a callback run after every change to the mirror.
func (s *Session) OnChange(f func(board.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = f
}

func (s *Session) changed() {
	s.mu.Lock()
	f := s.onChange
	s.mu.Unlock()
	if f != nil {
		f(s.board.State())
	}
}

// Resync replaces the mirror with the server's current lists.
func (s *Session) Resync(ctx context.Context) error {
	items, err := s.api.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	folders, err := s.api.ListFolders(ctx)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}
	s.board.Load(items, folders)
	s.changed()
	return nil
}

// Listen applies broadcasts to the mirror until ctx ends or the connection
// drops.
func (s *Session) Listen(ctx context.Context) error {
	return Subscribe(ctx, s.api.BaseURL, s.Handle)
}

// Handle merges one broadcast into the mirror.
func (s *Session) Handle(msg ws.Message) {
	if err := s.board.Apply(msg.Type, msg.Payload); err != nil {
		s.log.Warn().Err(err).Str("event", string(msg.Type)).Msg("ignoring broadcast")
		return
	}
	s.changed()
}

// DragEnd updates the mirror at once and persists the drag in the
// background. Only planning errors are returned.
func (s *Session) DragEnd(ctx context.Context, ev board.DragEvent) error {
	plan, err := s.board.DragEnd(ev)
	if err != nil {
		return err
	}
	if plan.Kind == board.SyncNone {
		return nil
	}
	s.changed()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := s.push(context.WithoutCancel(ctx), plan); err != nil {
			s.log.Error().Err(err).Str("draggable", ev.DraggableID).Msg("sync failed; keeping local order")
		}
	}()
	return nil
}

func (s *Session) push(ctx context.Context, plan board.Sync) error {
	switch plan.Kind {
	case board.SyncPatchItem:
		_, err := s.api.UpdateItem(ctx, plan.ItemID, plan.Patch)
		return err
	case board.SyncReorder:
		return s.api.Reorder(ctx, plan.Reorder)
	default:
		return errors.New("nothing to sync")
	}
}

// Wait blocks until every background sync has finished.
func (s *Session) Wait() {
	s.inflight.Wait()
}

// AddItem appends a new item to the end of the ungrouped bucket.
func (s *Session) AddItem(ctx context.Context, title string, icon domain.Icon) (domain.Item, error) {
	order := len(board.Group(s.board.State(), ""))
	return s.api.CreateItem(ctx, domain.NewItem{Title: title, Icon: icon, Order: &order})
}

// AddFolder appends a new, open folder to the end of the folder list.
func (s *Session) AddFolder(ctx context.Context, name string) (domain.Folder, error) {
	order := len(s.board.State().Folders)
	open := true
	return s.api.CreateFolder(ctx, domain.NewFolder{Name: name, IsOpen: &open, Order: &order})
}

// ToggleFolder flips a folder's expansion state on the server; the mirror
// follows the broadcast.
func (s *Session) ToggleFolder(ctx context.Context, id string) (domain.Folder, error) {
	f, ok := s.board.State().Folder(id)
	if !ok {
		return domain.Folder{}, fmt.Errorf("%s: %w", id, board.ErrUnknownFolder)
	}
	open := !f.IsOpen
	return s.api.UpdateFolder(ctx, id, domain.FolderPatch{IsOpen: &open})
}
