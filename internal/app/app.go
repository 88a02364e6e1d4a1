package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"github.com/haytac/emojiril/internal/aliases"
	"github.com/haytac/emojiril/internal/config"
	"github.com/haytac/emojiril/internal/database"
	"github.com/haytac/emojiril/internal/metrics"
	"github.com/haytac/emojiril/internal/rewriter"
	"github.com/haytac/emojiril/internal/server"
	"github.com/haytac/emojiril/internal/shortname"
	"github.com/haytac/emojiril/pkg/interfaces"
)

// RegistryOptions maps configuration onto alias sources. store may be nil.
func RegistryOptions(cfg *config.AppConfig, store interfaces.AliasReader) aliases.Options {
	return aliases.Options{
		Emoji:  cfg.EmojiPreset,
		File:   cfg.AliasFile,
		Store:  store,
		Prefix: cfg.Prefix,
		Suffix: cfg.Suffix,
	}
}

// RewriterOptions maps configuration onto rewriter options.
func RewriterOptions(cfg *config.AppConfig) []rewriter.Option {
	var opts []rewriter.Option
	if cfg.Sanitize {
		opts = append(opts, rewriter.WithSanitizer(bluemonday.UGCPolicy()))
	}
	if len(cfg.SkipElements) > 0 {
		opts = append(opts, rewriter.WithSkipElements(cfg.SkipElements...))
	}
	return opts
}

// Application holds the dependencies of the rewrite service.
type Application struct {
	Config     *config.AppConfig
	DB         *database.DB
	AliasStore *database.AliasStore
	Server     *server.Server
}

// NewApplication connects the database, builds the initial registry and
// creates the HTTP server.
func NewApplication(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	a := &Application{Config: cfg}

	if cfg.DatabasePath != "" {
		db, err := database.Connect(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.DB = db
		a.AliasStore = database.NewAliasStore(db)
	}

	reg, err := a.buildRegistry(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Server = server.New(server.Config{
		Addr:         cfg.Server.Addr,
		RateLimit:    cfg.Server.RateLimit,
		Burst:        cfg.Server.Burst,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, reg, RewriterOptions(cfg)...)

	log.Info().Int("aliases", reg.Len()).Msg("Alias registry loaded")
	return a, nil
}

func (a *Application) buildRegistry(ctx context.Context) (*shortname.Registry, error) {
	var store interfaces.AliasReader
	if a.AliasStore != nil {
		store = a.AliasStore
	}
	reg, err := aliases.Build(ctx, RegistryOptions(a.Config, store))
	if err != nil {
		return nil, fmt.Errorf("building alias registry: %w", err)
	}
	return reg, nil
}

// Reload rebuilds the registry from its sources and publishes it. On error
// the previous registry keeps serving.
func (a *Application) Reload(ctx context.Context) error {
	reg, err := a.buildRegistry(ctx)
	if err != nil {
		metrics.AliasReloads.WithLabelValues("error").Inc()
		return err
	}
	a.Server.Reload(reg)
	metrics.AliasReloads.WithLabelValues("success").Inc()
	log.Info().Int("aliases", reg.Len()).Msg("Alias registry reloaded")
	return nil
}

// Run serves until ctx is cancelled or a shutdown signal arrives. With
// watch set and an alias file configured, edits to the file trigger a
// reload; SIGHUP always does.
func (a *Application) Run(ctx context.Context, watch bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case s := <-sigCh:
				if s == syscall.SIGHUP {
					if err := a.Reload(ctx); err != nil {
						log.Error().Err(err).Msg("Alias reload failed, keeping previous registry")
					}
					continue
				}
				log.Info().Str("signal", s.String()).Msg("Received shutdown signal")
				cancel()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	if watch && a.Config.AliasFile != "" {
		go func() {
			err := aliases.Watch(ctx, a.Config.AliasFile, aliases.DefaultDebounce, func() {
				if err := a.Reload(ctx); err != nil {
					log.Error().Err(err).Msg("Alias reload failed, keeping previous registry")
				}
			})
			if err != nil {
				log.Error().Err(err).Msg("Alias file watcher stopped")
			}
		}()
	}

	err := a.Server.Run(ctx)
	a.Close()
	log.Info().Msg("Application shut down gracefully.")
	return err
}

// Close releases the database connection.
func (a *Application) Close() {
	if a.DB == nil {
		return
	}
	if err := a.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	}
	a.DB = nil
}
