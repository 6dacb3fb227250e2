package jinja

import (
	"strings"
	"time"

	"github.com/withsy/sitekit/pkg/content"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DocumentContext holds the variables available to document templates.
func DocumentContext(collection, slug string, now time.Time) Context {
	return Context{
		"collection": collection,
		"slug":       slug,
		"title":      TitleFromSlug(slug),
		"today":      now.Format("2006-01-02"),
		"now":        now.Format(time.RFC3339),
	}
}

func TitleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})

	return cases.Title(language.English).String(strings.Join(words, " "))
}

// DefaultTemplate produces front matter that satisfies schema, followed by
// a heading.
func DefaultTemplate(schema *content.Schema) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	for _, f := range schema.Fields() {
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(placeholder(f))
		sb.WriteString("\n")
	}
	sb.WriteString("---\n\n# {{ title }}\n")

	return sb.String()
}

func placeholder(f content.Field) string {
	switch f.Type {
	case content.TypeDate:
		return "{{ today }}"
	case content.TypeNumber:
		return "0"
	case content.TypeBoolean:
		return "false"
	case content.TypeStringArray:
		return "[]"
	case content.TypeString:
		if f.Name == "title" {
			return "{{ title | yaml_quote }}"
		}
	}

	return `""`
}

// Scaffold renders template with ctx. The result always ends with a
// single newline.
func Scaffold(template string, ctx Context) (string, error) {
	out, err := NewRenderer(ctx).Render(template)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(out, "\n") + "\n", nil
}
