package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/withsy/sitekit/pkg/components"
)

var (
	mdxImport    = regexp.MustCompile(`(?m)^import\s+[^\n]*?\s+from\s+['"][^'"]+['"];?[ \t]*\n?`)
	componentTag = regexp.MustCompile(`<(Image|YouTubeEmbed)((?:\s+[A-Za-z]+=(?:"[^"]*"|'[^']*'|\{"[^"]*"\}))*)\s*/>`)
	tagAttribute = regexp.MustCompile(`([A-Za-z]+)=(?:"([^"]*)"|'([^']*)'|\{"([^"]*)"\})`)
)

// ExpandComponents strips module imports and replaces self closing
// <Image/> and <YouTubeEmbed/> tags with their rendered markup.
func ExpandComponents(ctx context.Context, source string) (string, error) {
	source = mdxImport.ReplaceAllString(source, "")

	var renderErr error
	out := componentTag.ReplaceAllStringFunc(source, func(tag string) string {
		m := componentTag.FindStringSubmatch(tag)
		attrs := parseAttributes(m[2])

		var html string
		var err error
		switch m[1] {
		case "Image":
			html, err = components.Render(ctx, components.Image(attrs["src"], attrs["alt"]))
		case "YouTubeEmbed":
			if attrs["videoId"] == "" {
				err = errors.New("<YouTubeEmbed> requires a videoId")
				break
			}
			html, err = components.Render(ctx, components.YouTubeEmbed(attrs["videoId"], attrs["title"]))
		}
		if err != nil && renderErr == nil {
			renderErr = err
		}

		return html
	})
	if renderErr != nil {
		return "", renderErr
	}

	return out, nil
}

func parseAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range tagAttribute.FindAllStringSubmatch(s, -1) {
		attrs[m[1]] = strings.Join(m[2:], "")
	}
	return attrs
}
