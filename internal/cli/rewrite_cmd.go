package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haytac/emojiril/internal/app"
	"github.com/haytac/emojiril/internal/metrics"
	"github.com/haytac/emojiril/internal/rewriter"
	"github.com/haytac/emojiril/internal/shortname"
)

// NewRewriteCmd creates the 'rewrite' command.
func NewRewriteCmd() *cobra.Command {
	var (
		plainText  bool
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "rewrite [file]",
		Short: "Rewrite shortnames in an HTML document (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfig(); err != nil {
				return err
			}

			var input []byte
			var err error
			if len(args) == 1 && args[0] != "-" {
				input, err = os.ReadFile(args[0])
			} else {
				input, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			reg, err := loadRegistry(cmd.Context())
			if err != nil {
				return err
			}

			started := time.Now()
			var out string
			var stats shortname.Stats
			if plainText {
				out, stats, err = reg.ReplaceText(string(input))
			} else {
				out, stats, err = rewriter.New(reg, app.RewriterOptions(AppCfg)...).RewriteStats(string(input))
			}
			metrics.ObserveRewrite("cli", started, err)
			if err != nil {
				return fmt.Errorf("rewrite failed: %w", err)
			}
			log.Debug().Int("replaced", stats.Replaced).Int("escaped", stats.Escaped).Int("unknown", stats.Unknown).Msg("Rewrite finished")

			return writeOutput(cmd.OutOrStdout(), outputPath, out)
		},
	}
	cmd.Flags().BoolVar(&plainText, "text", false, "treat input as plain text instead of HTML")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write result to a file instead of stdout")
	return cmd
}

// writeOutput writes out to path, or to stdout when path is empty. The file
// is closed before returning so a failed flush is reported.
func writeOutput(stdout io.Writer, path, out string) error {
	if path == "" {
		if _, err := io.WriteString(stdout, out); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output %s: %w", path, err)
	}
	if _, err := io.WriteString(f, out); err != nil {
		f.Close()
		return fmt.Errorf("writing output %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output %s: %w", path, err)
	}
	return nil
}
