// Package svg holds the document model used by the icon pipeline together with
// the cleanup and optimization passes applied to every icon.
package svg

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

const Namespace = "http://www.w3.org/2000/svg"

const xlinkNamespace = "http://www.w3.org/1999/xlink"

var ErrNotSVG = errors.New("markup does not have an <svg> root element")

// ViewBox is the user coordinate system of an icon.
type ViewBox struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (v ViewBox) String() string {
	return strings.Join([]string{
		formatNumber(v.Left),
		formatNumber(v.Top),
		formatNumber(v.Width),
		formatNumber(v.Height),
	}, " ")
}

func (v ViewBox) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

func ParseViewBox(s string) (ViewBox, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return ViewBox{}, errors.Errorf("viewBox '%s' must have exactly four numbers", s)
	}

	nums := make([]float64, 4)
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, errors.Errorf("viewBox '%s' contains an invalid number '%s'", s, f)
		}
		nums[i] = n
	}

	vb := ViewBox{Left: nums[0], Top: nums[1], Width: nums[2], Height: nums[3]}
	if !vb.Valid() {
		return ViewBox{}, errors.Errorf("viewBox '%s' must have a positive width and height", s)
	}

	return vb, nil
}

// SVG is a parsed icon document.
type SVG struct {
	doc *etree.Document
}

func Parse(markup string) (*SVG, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, ErrNotSVG
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString(markup); err != nil {
		return nil, errors.Wrap(ErrNotSVG, err.Error())
	}

	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return nil, ErrNotSVG
	}

	return &SVG{doc: doc}, nil
}

// Build wraps an icon body into a standalone document using the given view box.
func Build(body string, vb ViewBox) (*SVG, error) {
	var sb strings.Builder
	sb.WriteString(`<svg xmlns="` + Namespace + `"`)
	if strings.Contains(body, "xlink:") {
		sb.WriteString(` xmlns:xlink="` + xlinkNamespace + `"`)
	}
	sb.WriteString(` viewBox="` + vb.String() + `">`)
	sb.WriteString(body)
	sb.WriteString("</svg>")

	return Parse(sb.String())
}

func (s *SVG) root() *etree.Element {
	return s.doc.Root()
}

// ViewBox returns the root view box, if it is present and valid.
func (s *SVG) ViewBox() (ViewBox, bool) {
	attr := s.root().SelectAttr("viewBox")
	if attr == nil {
		return ViewBox{}, false
	}

	vb, err := ParseViewBox(attr.Value)
	if err != nil {
		return ViewBox{}, false
	}

	return vb, true
}

// Bounds is like ViewBox but falls back to the width and height attributes.
func (s *SVG) Bounds() (ViewBox, bool) {
	vb, err := rootViewBox(s.root())
	return vb, err == nil
}

// Body serializes the children of the root element.
func (s *SVG) Body() string {
	return serializeChildren(s.root())
}

func serializeChildren(el *etree.Element) string {
	var sb strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.Element:
			d := etree.NewDocument()
			d.SetRoot(t.Copy())
			out, err := d.WriteToString()
			if err != nil {
				continue
			}
			sb.WriteString(out)
		case *etree.CharData:
			if !t.IsWhitespace() {
				sb.WriteString(escapeText(t.Data))
			}
		}
	}

	return sb.String()
}

func (s *SVG) String() string {
	d := etree.NewDocument()
	d.SetRoot(s.root().Copy())
	out, err := d.WriteToString()
	if err != nil {
		return ""
	}

	return out
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func escapeText(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
