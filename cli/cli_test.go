package cli

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinizap/shelf/server/board"
	"github.com/vinizap/shelf/server/config"
	"github.com/vinizap/shelf/server/domain"
	httpserver "github.com/vinizap/shelf/server/http"
	"github.com/vinizap/shelf/server/store"
	"github.com/vinizap/shelf/server/ws"
)

func sampleState() board.State {
	work := "f-work"
	return board.Load(
		[]domain.Item{
			{ID: "i-b", Title: "beta", Icon: domain.IconCode, Order: 1},
			{ID: "i-a", Title: "alpha", Icon: domain.IconImage, Order: 0},
			{ID: "i-c", Title: "gamma", Icon: domain.IconMusic, FolderID: &work, Order: 0},
		},
		[]domain.Folder{
			{ID: "f-home", Name: "Home", IsOpen: false, Order: 1},
			{ID: work, Name: "Work", IsOpen: true, Order: 0},
		},
	)
}

func TestRender(t *testing.T) {
	out := Render(sampleState())

	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "[Music] gamma")
	assert.Contains(t, out, "Home")
	assert.Less(t, strings.Index(out, "Work"), strings.Index(out, "Home"), "folders render in order")
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "beta"), "items render in order")
}

func TestRenderEmpty(t *testing.T) {
	out := Render(board.State{})
	assert.Equal(t, 2, strings.Count(out, "(none)"))
}

func TestParseIcon(t *testing.T) {
	ic, err := parseIcon("video")
	require.NoError(t, err)
	assert.Equal(t, domain.IconVideo, ic)

	_, err = parseIcon("Spreadsheet")
	assert.Error(t, err)
}

func TestItemDrag(t *testing.T) {
	s := sampleState()

	ev, err := itemDrag(s, "i-b", "", 0)
	require.NoError(t, err)
	assert.Equal(t, board.Location{GroupID: board.UngroupedGroup, Index: 1}, ev.Source)
	assert.Equal(t, &board.Location{GroupID: board.UngroupedGroup, Index: 0}, ev.Destination)

	ev, err = itemDrag(s, "i-c", "ungrouped", 2)
	require.NoError(t, err)
	assert.Equal(t, "f-work", ev.Source.GroupID)
	assert.Equal(t, board.UngroupedGroup, ev.Destination.GroupID)

	_, err = itemDrag(s, "i-a", "nope", 0)
	assert.ErrorIs(t, err, board.ErrUnknownFolder)

	_, err = itemDrag(s, "missing", "", 0)
	assert.ErrorIs(t, err, board.ErrUnknownItem)
}

func TestFolderDrag(t *testing.T) {
	ev, err := folderDrag(sampleState(), "f-home", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, ev.Source.Index)
	assert.Equal(t, board.FolderListGroup, ev.Destination.GroupID)

	_, err = folderDrag(sampleState(), "missing", 0)
	assert.ErrorIs(t, err, board.ErrUnknownFolder)
}

func startServer(t *testing.T) (string, store.Store) {
	t.Helper()
	st := store.NewMemory()
	hub := ws.NewHub("cli-test", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	app := httpserver.NewServer(st, hub, "*", zerolog.Nop()).App()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() {
		cancel()
		_ = app.ShutdownWithTimeout(time.Second)
	})
	return "http://" + ln.Addr().String(), st
}

func run(t *testing.T, apiURL string, args ...string) string {
	t.Helper()
	cfg := config.Config{APIURL: apiURL, LogLevel: "error"}
	cmd := NewRootCmd(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestCommandsAgainstServer(t *testing.T) {
	apiURL, st := startServer(t)
	ctx := context.Background()

	assert.Contains(t, run(t, apiURL, "add", "folder", "Work"), "created folder")
	assert.Contains(t, run(t, apiURL, "add", "item", "--icon", "code", "main.go"), "created item")
	run(t, apiURL, "add", "item", "notes")

	folders, err := st.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	items, err := st.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "main.go", items[0].Title)
	assert.Equal(t, domain.IconCode, items[0].Icon)
	assert.Equal(t, 1, items[1].Order)

	out := run(t, apiURL, "move", "item", items[1].ID, "--index", "0")
	assert.Less(t, strings.Index(out, "notes"), strings.Index(out, "main.go"))
	items, err = st.ListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, "notes", items[0].Title)
	assert.Equal(t, 0, items[0].Order)

	run(t, apiURL, "move", "item", items[0].ID, "--to", folders[0].ID)
	moved, err := st.ListItems(ctx)
	require.NoError(t, err)
	for _, it := range moved {
		if it.ID == items[0].ID {
			require.NotNil(t, it.FolderID)
			assert.Equal(t, folders[0].ID, *it.FolderID)
		}
	}

	assert.Contains(t, run(t, apiURL, "toggle", folders[0].ID), "Work is now closed")
	folders, err = st.ListFolders(ctx)
	require.NoError(t, err)
	assert.False(t, folders[0].IsOpen)

	tree := run(t, apiURL, "tree")
	assert.Contains(t, tree, "▸")
	assert.Contains(t, tree, "main.go")
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	_, err := openStore(context.Background(), &config.Config{StoreDriver: "mongo"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown store")
}

func TestOpenStoreFile(t *testing.T) {
	st, err := openStore(context.Background(), &config.Config{StoreDriver: config.DriverFile, DataDir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Ping(context.Background()))
}
