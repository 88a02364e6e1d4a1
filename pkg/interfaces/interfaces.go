package interfaces

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mmcdole/gofeed"

	"github.com/haytac/emojiril/internal/database"
)

// AliasSource lists persisted aliases.
type AliasSource interface {
	ListAliases(ctx context.Context) ([]*database.Alias, error)
}

// SettingSource reads persisted settings such as affixes.
type SettingSource interface {
	GetSetting(ctx context.Context, key string) (string, error)
}

// AliasReader is what registry assembly reads from the database.
type AliasReader interface {
	AliasSource
	SettingSource
}

// AliasStore is the full persisted alias surface used by the CLI.
type AliasStore interface {
	AliasReader
	UpsertAlias(ctx context.Context, a *database.Alias) (int64, error)
	GetAlias(ctx context.Context, name string) (*database.Alias, error)
	DeleteAlias(ctx context.Context, name string) (bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FeedFetcher fetches and parses a feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*gofeed.Feed, error)
}

// HTTPClientFactory creates HTTP clients.
type HTTPClientFactory interface {
	GetClient(proxy *url.URL) (*http.Client, error)
}
