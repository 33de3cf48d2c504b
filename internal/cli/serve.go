package cli

import (
	"context"

	"github.com/spf13/cobra"

	"todo-desktop/internal/app"
	"todo-desktop/internal/logger"
)

// NewServeCommand creates the serve command, which runs only the API.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the task API without a window or front-end server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			log := logger.New(cfg.Log)
			st, api, err := openAPI(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := api.Start(); err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()
			<-ctx.Done()

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
			defer cancel()
			if err := api.Shutdown(shutdownCtx); err != nil {
				return err
			}

			opts.ExitCode = app.ExitOK
			return nil
		},
	}
}
