package aliases

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/haytac/emojiril/internal/shortname"
)

// File is the YAML alias file format.
//
//	prefix: ":"
//	suffix: ":"
//	emoji: true
//	aliases:
//	  shrug: '¯\_(ツ)_/¯'
//	groups:
//	  - aliases: ["+1", thumbsup]
//	    value: "👍"
//	templates:
//	  user: "@{{.Alias}}"
type File struct {
	Prefix    string            `yaml:"prefix"`
	Suffix    string            `yaml:"suffix"`
	Emoji     *bool             `yaml:"emoji"`
	Aliases   map[string]string `yaml:"aliases"`
	Groups    []Group           `yaml:"groups"`
	Templates map[string]string `yaml:"templates"`
}

// Group maps several aliases to one literal value.
type Group struct {
	Aliases []string `yaml:"aliases"`
	Value   string   `yaml:"value"`
}

// LoadFile reads and decodes an alias file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading alias file %s: %w", path, err)
	}
	return ParseFile(data)
}

// ParseFile decodes alias file content.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding alias file: %w", err)
	}
	return &f, nil
}

// Apply registers the file's aliases on reg. Affixes are set first when the
// file names them. Literal aliases are applied before groups, templates last,
// so a template wins over a literal of the same name.
func (f *File) Apply(reg *shortname.Registry) error {
	if f.Prefix != "" || f.Suffix != "" {
		prefix, suffix := reg.Affixes()
		if f.Prefix != "" {
			prefix = f.Prefix
		}
		if f.Suffix != "" {
			suffix = f.Suffix
		}
		if err := reg.SetAffixes(prefix, suffix); err != nil {
			return fmt.Errorf("alias file affixes: %w", err)
		}
	}

	for _, alias := range sortedKeys(f.Aliases) {
		if err := reg.Register(alias, shortname.Literal(f.Aliases[alias])); err != nil {
			return err
		}
	}
	for i, g := range f.Groups {
		if err := reg.Add(g.Aliases, shortname.Literal(g.Value)); err != nil {
			return fmt.Errorf("alias group %d: %w", i, err)
		}
	}
	for _, alias := range sortedKeys(f.Templates) {
		repl, err := TemplateReplacement(alias, f.Templates[alias])
		if err != nil {
			return err
		}
		if err := reg.Register(alias, repl); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
