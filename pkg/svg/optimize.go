package svg

import (
	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	minsvg "github.com/tdewolff/minify/v2/svg"
)

const mediaType = "image/svg+xml"

var minifier = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mediaType, minsvg.Minify)
	return m
}

// Optimize minifies path data, numbers and whitespace, then re-reads the
// result so later passes operate on the optimized document.
func Optimize(s *SVG) error {
	out, err := minifier.String(mediaType, s.String())
	if err != nil {
		return errors.Wrap(err, "failed to minify svg")
	}

	optimized, err := Parse(out)
	if err != nil {
		return errors.Wrap(err, "minified markup is not a valid svg")
	}

	root := optimized.root()
	if root.SelectAttr("xmlns") == nil {
		root.CreateAttr("xmlns", Namespace)
	}

	s.doc = optimized.doc
	return nil
}
