// Package markdown renders article bodies to HTML with code highlighting,
// generated tables of contents, diagram blocks and embedded components.
package markdown

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/a-h/templ"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

const (
	EngineChroma = "chroma"
	EngineShiki  = "shiki"
	EngineNone   = "none"

	DefaultTheme = "github-dark"
)

type Options struct {
	// HighlightEngine selects code highlighting. "shiki" is accepted as an
	// alias of "chroma" so site configurations can be shared.
	HighlightEngine string
	Theme           string
	ExcludeLangs    []string
	TOC             bool
	Mermaid         bool
}

func DefaultOptions() Options {
	return Options{
		HighlightEngine: EngineChroma,
		Theme:           DefaultTheme,
		ExcludeLangs:    []string{"mermaid"},
		TOC:             true,
		Mermaid:         true,
	}
}

func (o Options) highlight() bool {
	return o.HighlightEngine == EngineChroma || o.HighlightEngine == EngineShiki
}

// Fingerprint identifies the options that change the rendered output.
func (o Options) Fingerprint() string {
	buf, _ := json.Marshal(o)
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:8])
}

type Renderer struct {
	md   goldmark.Markdown
	opts Options
}

func New(opts Options) *Renderer {
	var transformers []util.PrioritizedValue
	if opts.TOC {
		transformers = append(transformers, util.Prioritized(&tocTransformer{}, 100))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(transformers...),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(newCodeBlockRenderer(opts), 100)),
		),
	)

	return &Renderer{md: md, opts: opts}
}

func (r *Renderer) Fingerprint() string {
	return r.opts.Fingerprint()
}

// Render converts an article body to HTML.
func (r *Renderer) Render(ctx context.Context, source string) (string, error) {
	expanded, err := ExpandComponents(ctx, source)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(expanded), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render markdown")
	}

	return buf.String(), nil
}

// Component wraps Render as a templ component.
func (r *Renderer) Component(source string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := r.Render(ctx, source)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}
