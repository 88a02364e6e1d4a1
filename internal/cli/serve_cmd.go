package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haytac/emojiril/internal/app"
)

// NewServeCmd creates the 'serve' command.
func NewServeCmd() *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rewrite service",
		Long: `Run the HTTP rewrite service. POST /rewrite takes an HTML document,
POST /rewrite/text takes plain text. SIGHUP reloads aliases; with --watch the
alias file is also reloaded whenever it changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfig(); err != nil {
				return err
			}
			if addr != "" {
				AppCfg.Server.Addr = addr
			}

			application, err := app.NewApplication(cmd.Context(), AppCfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			log.Info().Str("addr", AppCfg.Server.Addr).Bool("watch", watch).Msg("Starting rewrite service")
			return application.Run(cmd.Context(), watch)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload aliases when the alias file changes")
	return cmd
}
