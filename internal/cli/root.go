package cli

import (
	"context"
	"fmt"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"todo-desktop/internal/app"
	"todo-desktop/internal/config"
	"todo-desktop/internal/frontend"
	"todo-desktop/internal/handlers"
	"todo-desktop/internal/logger"
	"todo-desktop/internal/server"
	"todo-desktop/internal/singleton"
	"todo-desktop/internal/store"
	"todo-desktop/internal/window"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	NoFrontend bool

	// ExitCode is the process exit code once the command has returned.
	ExitCode int
}

// NewRootCommand creates the root command, which runs the desktop app.
func NewRootCommand() (*cobra.Command, *RootOptions) {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "todo-desktop",
		Short:         "Personal task list in a desktop window",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			opts.ExitCode = runDesktop(cfg)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().BoolVar(&opts.NoFrontend, "no-frontend", false, "do not start the front-end dev server")

	cmd.AddCommand(NewServeCommand(opts))

	return cmd, opts
}

func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.NoFrontend {
		cfg.Frontend.Command = ""
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), shutdownSignals...)
}

// openAPI opens the store and builds the API server on top of it.
func openAPI(cfg *config.Config, log zerolog.Logger) (*store.SQLiteStore, *server.Server, error) {
	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database %s: %w", cfg.Database.Path, err)
	}

	h := handlers.New(st, log)
	return st, server.New(cfg.API.Addr(), h.Router(cfg.API.AllowedOrigins), log), nil
}

func runDesktop(cfg *config.Config) int {
	log := logger.New(cfg.Log)

	running, err := singleton.Check(cfg.API.Addr())
	if err != nil {
		log.Error().Err(err).Msg("cannot claim API port")
		return app.ExitFailure
	}
	if running {
		log.Info().Str("addr", cfg.API.Addr()).Msg("another instance is already running")
		return app.ExitOK
	}

	st, api, err := openAPI(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize")
		return app.ExitFailure
	}
	defer st.Close()

	ctx, stop := signalContext()
	defer stop()

	sup := frontend.New(cfg.Frontend, log)
	return app.NewController(sup, api, windowFactory(cfg), cfg.API.ShutdownTimeout, log).Run(ctx)
}

func windowFactory(cfg *config.Config) app.WindowFactory {
	return func() (app.Window, error) {
		w, err := window.New(cfg.Window, cfg.Frontend.URL)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}
