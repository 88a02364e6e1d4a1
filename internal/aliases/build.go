// Package aliases assembles shortname registries from the emoji table, YAML
// alias files and the alias database.
package aliases

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/haytac/emojiril/internal/database"
	"github.com/haytac/emojiril/internal/shortname"
	"github.com/haytac/emojiril/pkg/interfaces"
)

// Options selects the sources merged into a registry. Later sources
// override earlier ones: emoji, then the alias file, then the database.
// Explicit Prefix/Suffix override any affixes named by the sources.
type Options struct {
	Emoji  bool
	File   string
	Store  interfaces.AliasReader
	Prefix string
	Suffix string
}

// Build creates a registry from opts.
func Build(ctx context.Context, opts Options) (*shortname.Registry, error) {
	reg := shortname.New()

	var file *File
	if opts.File != "" {
		f, err := LoadFile(opts.File)
		if err != nil {
			return nil, err
		}
		file = f
	}

	useEmoji := opts.Emoji
	if file != nil && file.Emoji != nil {
		useEmoji = *file.Emoji
	}
	if useEmoji {
		n := RegisterEmoji(reg)
		log.Debug().Int("count", n).Msg("Registered emoji aliases")
	}

	if file != nil {
		if err := file.Apply(reg); err != nil {
			return nil, fmt.Errorf("applying alias file %s: %w", opts.File, err)
		}
		log.Debug().Str("file", opts.File).Int("total", reg.Len()).Msg("Applied alias file")
	}

	if opts.Store != nil {
		if err := ApplyStore(ctx, reg, opts.Store); err != nil {
			return nil, err
		}
	}

	if opts.Prefix != "" || opts.Suffix != "" {
		prefix, suffix := reg.Affixes()
		if opts.Prefix != "" {
			prefix = opts.Prefix
		}
		if opts.Suffix != "" {
			suffix = opts.Suffix
		}
		if err := reg.SetAffixes(prefix, suffix); err != nil {
			return nil, fmt.Errorf("configuring affixes %q/%q: %w", prefix, suffix, err)
		}
	}

	return reg, nil
}

// ApplyStore registers persisted aliases and affixes on reg.
func ApplyStore(ctx context.Context, reg *shortname.Registry, store interfaces.AliasReader) error {
	prefix, err := store.GetSetting(ctx, database.SettingPrefix)
	if err != nil {
		return err
	}
	suffix, err := store.GetSetting(ctx, database.SettingSuffix)
	if err != nil {
		return err
	}
	if prefix != "" || suffix != "" {
		curPrefix, curSuffix := reg.Affixes()
		if prefix == "" {
			prefix = curPrefix
		}
		if suffix == "" {
			suffix = curSuffix
		}
		if err := reg.SetAffixes(prefix, suffix); err != nil {
			return fmt.Errorf("stored affixes: %w", err)
		}
	}

	list, err := store.ListAliases(ctx)
	if err != nil {
		return err
	}
	for _, a := range list {
		repl, err := ToReplacement(a)
		if err != nil {
			return err
		}
		if err := reg.Register(a.Name, repl); err != nil {
			return fmt.Errorf("stored alias: %w", err)
		}
	}
	log.Debug().Int("count", len(list)).Msg("Applied stored aliases")
	return nil
}

// ToReplacement converts a persisted alias into a Replacement.
func ToReplacement(a *database.Alias) (shortname.Replacement, error) {
	switch a.Kind {
	case database.KindLiteral, "":
		return shortname.Literal(a.Value), nil
	case database.KindTemplate:
		return TemplateReplacement(a.Name, a.Value)
	default:
		return shortname.Replacement{}, fmt.Errorf("alias %q: unknown kind %q", a.Name, a.Kind)
	}
}
