package aliases

import (
	"strings"

	"github.com/kyokomi/emoji/v2"

	"github.com/haytac/emojiril/internal/shortname"
)

// EmojiSet returns the kyokomi/emoji shortcode table keyed by bare alias
// (":smile:" becomes "smile").
func EmojiSet() map[string]string {
	codes := emoji.CodeMap()
	set := make(map[string]string, len(codes))
	for code, value := range codes {
		alias := strings.TrimSuffix(strings.TrimPrefix(code, ":"), ":")
		if shortname.ValidateAlias(alias) != nil {
			continue
		}
		set[alias] = value
	}
	return set
}

// RegisterEmoji adds every emoji shortcode to reg as a literal replacement
// and returns how many were added.
func RegisterEmoji(reg *shortname.Registry) int {
	n := 0
	for alias, value := range EmojiSet() {
		if err := reg.Register(alias, shortname.Literal(value)); err == nil {
			n++
		}
	}
	return n
}
