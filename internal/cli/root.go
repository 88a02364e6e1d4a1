package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haytac/emojiril/internal/config"
	"github.com/haytac/emojiril/internal/logging"
)

var (
	cfgFile string
	verbose bool
	AppCfg  *config.AppConfig // populated in PersistentPreRunE
)

var RootCmd = &cobra.Command{
	Use:   "emojiril",
	Short: "Replace :shortname: tokens in HTML text with registered content.",
	Long: `emojiril expands shortname tokens such as :smile: found in the text of HTML
documents, leaving tags and attributes untouched. Aliases come from the built-in
emoji table, a YAML alias file and the alias database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadedCfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if verbose {
			loadedCfg.Log.Level = "debug"
		}
		AppCfg = loadedCfg

		logging.Setup(AppCfg.Log)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml, $HOME/.emojiril/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	RootCmd.AddCommand(NewRewriteCmd())
	RootCmd.AddCommand(NewAliasCmd())
	RootCmd.AddCommand(NewServeCmd())
	RootCmd.AddCommand(NewFeedCmd())
	RootCmd.AddCommand(NewDbCmd())
}
