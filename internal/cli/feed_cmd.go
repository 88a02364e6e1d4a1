package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haytac/emojiril/internal/app"
	"github.com/haytac/emojiril/internal/feed"
	"github.com/haytac/emojiril/internal/metrics"
	"github.com/haytac/emojiril/internal/proxy"
	"github.com/haytac/emojiril/internal/rewriter"
)

// NewFeedCmd creates the 'feed' command.
func NewFeedCmd() *cobra.Command {
	var proxyOverride string

	cmd := &cobra.Command{
		Use:   "feed <url>",
		Short: "Fetch an RSS/Atom feed and print it as JSON with shortnames replaced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfig(); err != nil {
				return err
			}
			rawProxy := AppCfg.Feed.Proxy
			if proxyOverride != "" {
				rawProxy = proxyOverride
			}
			proxyURL, err := proxy.ParseURL(rawProxy)
			if err != nil {
				return err
			}

			reg, err := loadRegistry(cmd.Context())
			if err != nil {
				return err
			}

			fetcher := feed.NewGoFeedFetcher(proxy.NewHTTPClientFactory(AppCfg.Feed.Timeout), proxyURL, AppCfg.Feed.UserAgent)
			parsed, err := fetcher.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			started := time.Now()
			stats, err := feed.RewriteFeed(parsed, rewriter.New(reg, app.RewriterOptions(AppCfg)...))
			metrics.ObserveRewrite("feed", started, err)
			if err != nil {
				return fmt.Errorf("rewriting feed: %w", err)
			}
			log.Debug().Str("feed_url", args[0]).Int("items", len(parsed.Items)).Int("replaced", stats.Replaced).Msg("Feed rewritten")

			data, err := json.MarshalIndent(parsed, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding feed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&proxyOverride, "proxy", "", "proxy URL for this fetch (overrides feed.proxy)")
	return cmd
}
