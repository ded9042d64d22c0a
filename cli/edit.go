// server/cli/edit.go
package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vinizap/shelf/server/board"
	"github.com/vinizap/shelf/server/config"
	"github.com/vinizap/shelf/server/domain"
)

func newAddCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create items and folders",
	}

	var icon string
	item := &cobra.Command{
		Use:   "item <title>",
		Short: "Append an item to the ungrouped list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ic, err := parseIcon(icon)
			if err != nil {
				return err
			}
			s, err := session(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			it, err := s.AddItem(cmd.Context(), strings.Join(args, " "), ic)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("created item "+it.ID))
			return nil
		},
	}
	item.Flags().StringVar(&icon, "icon", string(domain.IconDocument), "icon: Image, Music, Document, Code or Video")

	folder := &cobra.Command{
		Use:   "folder <name>",
		Short: "Append a folder to the folder list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			f, err := s.AddFolder(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("created folder "+f.ID))
			return nil
		},
	}

	cmd.AddCommand(item, folder)
	return cmd
}

func newMoveCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Drag items and folders to a new position",
	}

	var to string
	var itemIndex int
	item := &cobra.Command{
		Use:   "item <id>",
		Short: "Move an item within its group or into another group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			ev, err := itemDrag(s.Board().State(), args[0], to, itemIndex)
			if err != nil {
				return err
			}
			if err := s.DragEnd(cmd.Context(), ev); err != nil {
				return err
			}
			s.Wait()
			fmt.Fprintln(cmd.OutOrStdout(), Render(s.Board().State()))
			return nil
		},
	}
	item.Flags().StringVar(&to, "to", "", "destination folder id; empty keeps the current group, \"ungrouped\" removes it from its folder")
	item.Flags().IntVar(&itemIndex, "index", 0, "position in the destination group")

	var folderIndex int
	folder := &cobra.Command{
		Use:   "folder <id>",
		Short: "Move a folder within the folder list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			ev, err := folderDrag(s.Board().State(), args[0], folderIndex)
			if err != nil {
				return err
			}
			if err := s.DragEnd(cmd.Context(), ev); err != nil {
				return err
			}
			s.Wait()
			fmt.Fprintln(cmd.OutOrStdout(), Render(s.Board().State()))
			return nil
		},
	}
	folder.Flags().IntVar(&folderIndex, "index", 0, "position in the folder list")

	cmd.AddCommand(item, folder)
	return cmd
}

func newToggleCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <folder-id>",
		Short: "Open or close a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			f, err := s.ToggleFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "closed"
			if f.IsOpen {
				state = "open"
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("%s is now %s", f.Name, state)))
			return nil
		},
	}
}

func parseIcon(name string) (domain.Icon, error) {
	for _, ic := range domain.Icons {
		if strings.EqualFold(string(ic), name) {
			return ic, nil
		}
	}
	return "", fmt.Errorf("unknown icon %q", name)
}

// itemDrag builds the drag event that moves item id to index in the group
// named by to.
func itemDrag(s board.State, id, to string, index int) (board.DragEvent, error) {
	it, ok := s.Item(id)
	if !ok {
		return board.DragEvent{}, fmt.Errorf("%s: %w", id, board.ErrUnknownItem)
	}
	source := board.UngroupedGroup
	folderID := ""
	if it.FolderID != nil {
		source = *it.FolderID
		folderID = *it.FolderID
	}
	from := slices.IndexFunc(board.Group(s, folderID), func(other domain.Item) bool { return other.ID == id })

	dest := source
	switch to {
	case "":
	case "ungrouped":
		dest = board.UngroupedGroup
	default:
		if _, ok := s.Folder(to); !ok {
			return board.DragEvent{}, fmt.Errorf("%s: %w", to, board.ErrUnknownFolder)
		}
		dest = to
	}

	return board.DragEvent{
		Kind:        board.DragItem,
		DraggableID: id,
		Source:      board.Location{GroupID: source, Index: from},
		Destination: &board.Location{GroupID: dest, Index: index},
	}, nil
}

func folderDrag(s board.State, id string, index int) (board.DragEvent, error) {
	folders := board.SortedFolders(s)
	from := slices.IndexFunc(folders, func(f domain.Folder) bool { return f.ID == id })
	if from < 0 {
		return board.DragEvent{}, fmt.Errorf("%s: %w", id, board.ErrUnknownFolder)
	}
	return board.DragEvent{
		Kind:        board.DragFolder,
		DraggableID: id,
		Source:      board.Location{GroupID: board.FolderListGroup, Index: from},
		Destination: &board.Location{GroupID: board.FolderListGroup, Index: index},
	}, nil
}
