// server/cli/view.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vinizap/shelf/server/board"
	"github.com/vinizap/shelf/server/config"
)

const clearScreen = "\033[H\033[2J"

func newTreeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print folders and items once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), Render(s.Board().State()))
			return nil
		},
	}
}

func newWatchCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print folders and items and redraw on every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, cfg, cmd.OutOrStdout())
		},
	}
}

func watch(ctx context.Context, cfg *config.Config, out io.Writer) error {
	s, err := session(ctx, cfg)
	if err != nil {
		return err
	}
	draw := func(st board.State) {
		fmt.Fprint(out, clearScreen)
		fmt.Fprintln(out, Render(st))
	}
	draw(s.Board().State())
	s.OnChange(draw)

	if err := s.Listen(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
