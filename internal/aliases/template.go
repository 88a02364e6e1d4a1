package aliases

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/haytac/emojiril/internal/shortname"
)

// TemplateData is what a template replacement is executed with.
type TemplateData struct {
	Alias string
}

var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
	"summarize": func(s string, length int) string {
		runes := []rune(s)
		if len(runes) <= length {
			return s
		}
		return string(runes[:length]) + "..."
	},
}

// TemplateReplacement parses tmplStr once and returns a resolver that
// executes it for each matched alias, e.g. "@{{.Alias}}".
func TemplateReplacement(name, tmplStr string) (shortname.Replacement, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return shortname.Replacement{}, fmt.Errorf("parsing template %s: %w", name, err)
	}
	return shortname.Resolver(func(alias string) (string, error) {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, TemplateData{Alias: alias}); err != nil {
			return "", fmt.Errorf("executing template %s: %w", name, err)
		}
		return buf.String(), nil
	}), nil
}
