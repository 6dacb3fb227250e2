package markdown

import (
	"bytes"
	"html"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type codeBlockRenderer struct {
	opts      Options
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

func newCodeBlockRenderer(opts Options) *codeBlockRenderer {
	theme := opts.Theme
	if theme == "" {
		theme = DefaultTheme
	}

	return &codeBlockRenderer{
		opts:      opts,
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.PreventSurroundingPre(false)),
		style:     styles.Get(theme),
	}
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.render)
}

func (r *codeBlockRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ast.FencedCodeBlock)
	lang := strings.ToLower(string(n.Language(source)))

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	switch {
	case lang == "mermaid" && r.opts.Mermaid:
		_, _ = w.WriteString(`<pre class="mermaid">` + html.EscapeString(code.String()) + "</pre>\n")
	case !r.opts.highlight() || slices.Contains(r.opts.ExcludeLangs, lang):
		writePlain(w, lang, code.String())
	default:
		if err := r.highlight(w, lang, code.String()); err != nil {
			writePlain(w, lang, code.String())
		}
	}

	return ast.WalkSkipChildren, nil
}

func (r *codeBlockRenderer) highlight(w util.BufWriter, lang, code string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, it); err != nil {
		return err
	}

	_, err = w.Write(buf.Bytes())
	return err
}

func writePlain(w util.BufWriter, lang, code string) {
	if lang == "" {
		_, _ = w.WriteString("<pre><code>" + html.EscapeString(code) + "</code></pre>\n")
		return
	}
	_, _ = w.WriteString(`<pre><code class="language-` + html.EscapeString(lang) + `">` + html.EscapeString(code) + "</code></pre>\n")
}
