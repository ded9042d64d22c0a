// server/cli/root.go
package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/vinizap/shelf/server/client"
	"github.com/vinizap/shelf/server/config"
	"github.com/vinizap/shelf/server/logging"
)

// Execute runs the shelf command tree against os.Args.
func Execute() int {
	if err := NewRootCmd(config.Load()).ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return 0
}

// NewRootCmd builds the command tree. Flags default to the values in cfg.
func NewRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "shelf",
		Short:        "Folder and item organizer with live updates",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.APIURL, "api", cfg.APIURL, "base URL of the shelf server (client commands)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.BoolVar(&cfg.LogPretty, "pretty", cfg.LogPretty, "human readable logs")

	root.AddCommand(
		newServeCmd(&cfg),
		newMigrateCmd(&cfg),
		newTreeCmd(&cfg),
		newWatchCmd(&cfg),
		newAddCmd(&cfg),
		newMoveCmd(&cfg),
		newToggleCmd(&cfg),
	)
	return root
}

func logger(cfg *config.Config) zerolog.Logger {
	return logging.New(cfg.LogLevel, cfg.LogPretty)
}

// session builds a client session loaded with the server's current lists.
func session(ctx context.Context, cfg *config.Config) (*client.Session, error) {
	s := client.NewSession(client.NewAPI(cfg.APIURL), logger(cfg))
	if err := s.Resync(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
