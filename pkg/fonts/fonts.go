// Package fonts turns web font declarations into a stylesheet that loads
// each family from its provider and exposes it through a CSS variable.
package fonts

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/withsy/sitekit/pkg/config"
)

const DefaultOutput = "src/styles/fonts.css"

var providerEndpoints = map[string]string{
	"google": "https://fonts.googleapis.com/css2",
	"bunny":  "https://fonts.bunny.net/css2",
}

var genericFamilies = []string{"serif", "sans-serif", "monospace", "cursive", "fantasy", "system-ui", "ui-sans-serif", "ui-serif", "ui-monospace"}

// URL builds the provider stylesheet address of a single family, e.g.
// https://fonts.googleapis.com/css2?family=Roboto:wght@400;700&display=swap
func URL(f config.Font) (string, error) {
	endpoint, ok := providerEndpoints[f.Provider]
	if !ok {
		return "", errors.Errorf("unsupported font provider '%s'", f.Provider)
	}
	if len(f.Weights) == 0 {
		return "", errors.Errorf("font '%s' has no weights", f.Name)
	}

	weights := lo.Uniq(f.Weights)
	sort.Ints(weights)

	family := strings.ReplaceAll(url.QueryEscape(f.Name), "%20", "+")
	if lo.Contains(f.Styles, "italic") {
		var tuples []string
		if len(f.Styles) == 0 || lo.Contains(f.Styles, "normal") {
			for _, w := range weights {
				tuples = append(tuples, "0,"+strconv.Itoa(w))
			}
		}
		for _, w := range weights {
			tuples = append(tuples, "1,"+strconv.Itoa(w))
		}
		family += ":ital,wght@" + strings.Join(tuples, ";")
	} else {
		family += ":wght@" + strings.Join(lo.Map(weights, func(w int, _ int) string { return strconv.Itoa(w) }), ";")
	}

	display := f.Display
	if display == "" {
		display = "swap"
	}

	return fmt.Sprintf("%s?family=%s&display=%s", endpoint, family, display), nil
}

// Stack is the value assigned to the CSS variable of a font.
func Stack(f config.Font) string {
	parts := []string{quoteFamily(f.Name)}
	for _, fb := range f.Fallbacks {
		parts = append(parts, quoteFamily(fb))
	}
	if len(f.Fallbacks) == 0 {
		parts = append(parts, "sans-serif")
	}

	return strings.Join(parts, ", ")
}

func quoteFamily(name string) string {
	if lo.Contains(genericFamilies, name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
}

// Stylesheet renders the imports of every font followed by a :root block
// declaring their variables. Fonts keep their declaration order.
func Stylesheet(fonts []config.Font) (string, error) {
	var sb strings.Builder
	seen := make(map[string]string)

	for _, f := range fonts {
		if prev, ok := seen[f.CSSVariable]; ok {
			return "", errors.Errorf("css variable '%s' is declared by both '%s' and '%s'", f.CSSVariable, prev, f.Name)
		}
		seen[f.CSSVariable] = f.Name

		u, err := URL(f)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "@import url(%q);\n", u)
	}

	if len(fonts) == 0 {
		return "", nil
	}

	sb.WriteString("\n:root {\n")
	for _, f := range fonts {
		fmt.Fprintf(&sb, "  %s: %s;\n", f.CSSVariable, Stack(f))
	}
	sb.WriteString("}\n")

	return sb.String(), nil
}
