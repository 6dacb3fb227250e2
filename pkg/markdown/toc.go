package markdown

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var tocHeading = regexp.MustCompile(`(?i)^(table[ -]of[ -])?contents?$|^toc$`)

// tocTransformer fills the section under a "Table of contents" heading with
// links to every heading that follows it.
type tocTransformer struct{}

type tocEntry struct {
	level int
	id    string
	title string
}

func (t *tocTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var anchor *ast.Heading
	var entries []tocEntry
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		h, ok := child.(*ast.Heading)
		if !ok {
			continue
		}

		title := string(bytes.TrimSpace(nodeText(h, source)))
		if anchor == nil {
			if tocHeading.MatchString(title) {
				anchor = h
			}
			continue
		}

		id, ok := h.AttributeString("id")
		if !ok {
			continue
		}
		idBytes, _ := id.([]byte)
		entries = append(entries, tocEntry{level: h.Level, id: string(idBytes), title: title})
	}

	if anchor == nil || len(entries) == 0 {
		return
	}

	for next := anchor.NextSibling(); next != nil; {
		if _, ok := next.(*ast.Heading); ok {
			break
		}
		following := next.NextSibling()
		doc.RemoveChild(doc, next)
		next = following
	}

	doc.InsertAfter(doc, anchor, buildList(entries))
}

func buildList(entries []tocEntry) *ast.List {
	type frame struct {
		level int
		list  *ast.List
	}

	root := newTightList()
	stack := []frame{{level: entries[0].level, list: root}}

	for _, e := range entries {
		for len(stack) > 1 && e.level < stack[len(stack)-1].level {
			stack = stack[:len(stack)-1]
		}

		top := stack[len(stack)-1]
		if e.level > top.level {
			parent, ok := top.list.LastChild().(*ast.ListItem)
			if !ok {
				parent = ast.NewListItem(2)
				top.list.AppendChild(top.list, parent)
			}
			nested := newTightList()
			parent.AppendChild(parent, nested)
			stack = append(stack, frame{level: e.level, list: nested})
			top = stack[len(stack)-1]
		}

		link := ast.NewLink()
		link.Destination = []byte("#" + e.id)
		link.AppendChild(link, ast.NewString([]byte(e.title)))

		block := ast.NewTextBlock()
		block.AppendChild(block, link)

		item := ast.NewListItem(2)
		item.AppendChild(item, block)
		top.list.AppendChild(top.list, item)
	}

	return root
}

func newTightList() *ast.List {
	l := ast.NewList('-')
	l.IsTight = true
	return l
}

func nodeText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.Bytes()
}
