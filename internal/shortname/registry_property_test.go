//go:build property
// +build property

package shortname

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestTokenProperties checks escaping, passthrough and affix changes over generated aliases.
func TestTokenProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	aliasGen := gen.RegexMatch(`^[a-z0-9_+-]{1,12}$`)
	affixGen := gen.OneConstOf(":", "::", "%", "{{", "[[", "<", "$")

	properties.Property("escaped token is emitted without the marker", prop.ForAll(
		func(alias, affix string, registered bool) bool {
			reg, err := NewWithAffixes(affix, affix)
			if err != nil {
				return false
			}
			if registered {
				if err := reg.Register(alias, Literal("REPLACED")); err != nil {
					return false
				}
			}
			token := affix + alias + affix
			got, _, err := reg.ReplaceText(`\` + token)
			return err == nil && got == token
		},
		aliasGen, affixGen, gen.Bool(),
	))

	properties.Property("unknown alias passes through", prop.ForAll(
		func(alias, affix string) bool {
			reg, err := NewWithAffixes(affix, affix)
			if err != nil {
				return false
			}
			token := affix + alias + affix
			got, stats, err := reg.ReplaceText(token)
			return err == nil && got == token && stats.Replaced == 0
		},
		aliasGen, affixGen,
	))

	properties.Property("aliases survive affix changes", prop.ForAll(
		func(alias, from, to string) bool {
			reg, err := NewWithAffixes(from, from)
			if err != nil {
				return false
			}
			if err := reg.Register(alias, Literal("R")); err != nil {
				return false
			}
			if err := reg.SetAffixes(to, to); err != nil {
				return false
			}
			got, _, err := reg.ReplaceText(to + alias + to)
			return err == nil && got == "R"
		},
		aliasGen, affixGen, affixGen,
	))

	properties.Property("rewriting unknown tokens is idempotent", prop.ForAll(
		func(words []string) bool {
			reg := New()
			text := ""
			for _, w := range words {
				text += ":" + w + ": "
			}
			once, _, err := reg.ReplaceText(text)
			if err != nil {
				return false
			}
			twice, _, err := reg.ReplaceText(once)
			return err == nil && once == twice && once == text
		},
		gen.SliceOfN(5, aliasGen),
	))

	properties.TestingRun(t)
}
