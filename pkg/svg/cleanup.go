package svg

import (
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// CleanupError means the icon cannot be made safe or renderable.
type CleanupError struct {
	Reason string
}

func (e *CleanupError) Error() string {
	return "svg cleanup failed: " + e.Reason
}

var editorNamespaces = []string{
	"inkscape", "sodipodi", "sketch", "serif", "figma", "krita", "vectornator",
	"bx", "i", "x", "graph", "a", "dc", "cc", "rdf", "ns1",
}

var removedElements = []string{"metadata", "title", "desc"}

var forbiddenElements = []string{"script", "foreignObject", "iframe", "object", "embed"}

var drawableElements = []string{
	"path", "circle", "ellipse", "line", "polygon", "polyline", "rect", "text", "use", "image",
}

var textElements = []string{"text", "tspan", "textPath", "style"}

// root attributes that describe the canvas rather than the artwork
var canvasAttributes = []string{
	"width", "height", "x", "y", "id", "class", "preserveAspectRatio",
	"enable-background", "baseProfile", "version", "viewBox", "xmlns",
}

// Cleanup strips editor noise and unsafe content from the document and
// normalizes the root element to carry only a namespace and a viewBox.
// Presentation attributes found on the root are moved onto a wrapping group.
func Cleanup(s *SVG) error {
	root := s.root()
	if root == nil || root.Tag != "svg" {
		return ErrNotSVG
	}

	for _, tok := range slices.Clone(s.doc.Child) {
		if tok != root {
			s.doc.RemoveChild(tok)
		}
	}

	if err := cleanChildren(root); err != nil {
		return err
	}

	if err := normalizeRoot(root); err != nil {
		return err
	}

	if !hasDrawable(root) {
		return &CleanupError{Reason: "icon has no drawable content"}
	}

	return nil
}

func cleanChildren(el *etree.Element) error {
	keepText := slices.Contains(textElements, el.Tag)

	for _, tok := range slices.Clone(el.Child) {
		switch t := tok.(type) {
		case *etree.Comment, *etree.ProcInst, *etree.Directive:
			el.RemoveChild(t)
		case *etree.CharData:
			if !keepText && t.IsWhitespace() {
				el.RemoveChild(t)
			}
		case *etree.Element:
			if err := checkAllowed(t); err != nil {
				return err
			}

			if slices.Contains(removedElements, t.Tag) || slices.Contains(editorNamespaces, t.Space) {
				el.RemoveChild(t)
				continue
			}

			cleanAttributes(t)
			if err := cleanChildren(t); err != nil {
				return err
			}

			if isEmptyContainer(t) || lacksGeometry(t) {
				el.RemoveChild(t)
			}
		}
	}

	return nil
}

func checkAllowed(el *etree.Element) error {
	if slices.Contains(forbiddenElements, el.Tag) {
		return &CleanupError{Reason: "unsafe element <" + el.Tag + ">"}
	}

	if el.Tag == "image" {
		href := el.SelectAttrValue("href", el.SelectAttrValue("xlink:href", ""))
		if !strings.HasPrefix(strings.TrimSpace(href), "data:") {
			return &CleanupError{Reason: "external image reference"}
		}
	}

	return nil
}

func cleanAttributes(el *etree.Element) {
	for _, attr := range slices.Clone(el.Attr) {
		if shouldRemoveAttribute(attr) {
			el.RemoveAttr(attr.FullKey())
		}
	}
}

func shouldRemoveAttribute(attr etree.Attr) bool {
	switch {
	case slices.Contains(editorNamespaces, attr.Space):
		return true
	case attr.Space == "xmlns" && slices.Contains(editorNamespaces, attr.Key):
		return true
	case attr.Space == "xml" && attr.Key == "space":
		return true
	case attr.Space == "" && strings.HasPrefix(strings.ToLower(attr.Key), "on"):
		return true
	case attr.Space == "" && attr.Key == "data-name":
		return true
	}

	return false
}

func isEmptyContainer(el *etree.Element) bool {
	switch el.Tag {
	case "g", "defs", "symbol", "clipPath", "mask":
		return len(el.ChildElements()) == 0
	case "style":
		return strings.TrimSpace(el.Text()) == ""
	}

	return false
}

func lacksGeometry(el *etree.Element) bool {
	switch el.Tag {
	case "path":
		return strings.TrimSpace(el.SelectAttrValue("d", "")) == ""
	case "polygon", "polyline":
		return strings.TrimSpace(el.SelectAttrValue("points", "")) == ""
	}

	return false
}

func hasDrawable(el *etree.Element) bool {
	for _, child := range el.ChildElements() {
		if child.Tag == "defs" {
			continue
		}

		if slices.Contains(drawableElements, child.Tag) || hasDrawable(child) {
			return true
		}
	}

	return false
}

func normalizeRoot(root *etree.Element) error {
	cleanAttributes(root)

	vb, err := rootViewBox(root)
	if err != nil {
		return err
	}

	liftPresentation(root)

	usesXlink := strings.Contains(serializeChildren(root), "xlink:")
	for _, attr := range slices.Clone(root.Attr) {
		root.RemoveAttr(attr.FullKey())
	}

	root.CreateAttr("xmlns", Namespace)
	if usesXlink {
		root.CreateAttr("xmlns:xlink", xlinkNamespace)
	}
	root.CreateAttr("viewBox", vb.String())

	return nil
}

// LiftPresentation moves presentation attributes of the root (fill, stroke,
// style, ...) onto a group wrapping the children, so that Body keeps them.
func LiftPresentation(s *SVG) {
	liftPresentation(s.root())
}

func liftPresentation(root *etree.Element) {
	var presentation []etree.Attr
	for _, attr := range root.Attr {
		if attr.Space == "xmlns" || (attr.Space == "" && slices.Contains(canvasAttributes, attr.Key)) {
			continue
		}
		presentation = append(presentation, attr)
	}

	if len(presentation) == 0 || len(root.ChildElements()) == 0 {
		return
	}

	group := etree.NewElement("g")
	for _, attr := range presentation {
		group.CreateAttr(attr.FullKey(), attr.Value)
		root.RemoveAttr(attr.FullKey())
	}
	for _, tok := range slices.Clone(root.Child) {
		root.RemoveChild(tok)
		group.AddChild(tok)
	}
	root.AddChild(group)
}

func rootViewBox(root *etree.Element) (ViewBox, error) {
	if attr := root.SelectAttr("viewBox"); attr != nil {
		vb, err := ParseViewBox(attr.Value)
		if err != nil {
			return ViewBox{}, &CleanupError{Reason: err.Error()}
		}
		return vb, nil
	}

	width, okW := parseLength(root.SelectAttrValue("width", ""))
	height, okH := parseLength(root.SelectAttrValue("height", ""))
	if !okW || !okH {
		return ViewBox{}, &CleanupError{Reason: "missing viewBox and dimensions"}
	}

	return ViewBox{Width: width, Height: height}, nil
}

func parseLength(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}

	return f, true
}
