package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/haytac/emojiril/internal/aliases"
	"github.com/haytac/emojiril/internal/app"
	"github.com/haytac/emojiril/internal/database"
	"github.com/haytac/emojiril/internal/shortname"
	"github.com/haytac/emojiril/pkg/interfaces"
)

func requireConfig() error {
	if AppCfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	return nil
}

func openStore() (*database.DB, *database.AliasStore, error) {
	if AppCfg.DatabasePath == "" {
		return nil, nil, fmt.Errorf("database_path is not configured")
	}
	db, err := database.Connect(AppCfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	return db, database.NewAliasStore(db), nil
}

// loadRegistry builds the configured registry. The alias database is only
// consulted when its file already exists, so one-off rewrites never create it.
func loadRegistry(ctx context.Context) (*shortname.Registry, error) {
	var store interfaces.AliasReader
	if AppCfg.DatabasePath != "" {
		if _, err := os.Stat(AppCfg.DatabasePath); err == nil {
			db, s, err := openStore()
			if err != nil {
				return nil, err
			}
			defer db.Close()
			store = s
		}
	}
	return aliases.Build(ctx, app.RegistryOptions(AppCfg, store))
}
