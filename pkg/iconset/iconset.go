// Package iconset is an in-memory icon collection serialized in the Iconify
// JSON format.
package iconset

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/withsy/sitekit/pkg/svg"
)

// DefaultSize is the Iconify default for icons without explicit dimensions.
const DefaultSize = 16

var ErrNoBody = errors.New("icon has no body")

type EntryType int

const (
	EntryIcon EntryType = iota + 1
	EntryAlias
)

func (e EntryType) String() string {
	switch e {
	case EntryIcon:
		return "icon"
	case EntryAlias:
		return "alias"
	default:
		return "unknown"
	}
}

type Icon struct {
	Body   string  `json:"body"`
	Left   float64 `json:"left,omitempty"`
	Top    float64 `json:"top,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Hidden bool    `json:"hidden,omitempty"`
}

type Alias struct {
	Parent string  `json:"parent"`
	Left   float64 `json:"left,omitempty"`
	Top    float64 `json:"top,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Rotate int     `json:"rotate,omitempty"`
	HFlip  bool    `json:"hFlip,omitempty"`
	VFlip  bool    `json:"vFlip,omitempty"`
}

type IconSet struct {
	Prefix  string           `json:"prefix"`
	Icons   map[string]Icon  `json:"icons"`
	Aliases map[string]Alias `json:"aliases,omitempty"`
	Width   float64          `json:"width,omitempty"`
	Height  float64          `json:"height,omitempty"`
}

func New(prefix string) *IconSet {
	return &IconSet{
		Prefix:  prefix,
		Icons:   make(map[string]Icon),
		Aliases: make(map[string]Alias),
	}
}

// Empty returns a set with the same prefix and defaults but no entries.
func (s *IconSet) Empty() *IconSet {
	out := New(s.Prefix)
	out.Width = s.Width
	out.Height = s.Height
	return out
}

func (s *IconSet) Count() int {
	return len(s.Icons)
}

// ForEach visits icons and aliases in name order.
func (s *IconSet) ForEach(fn func(name string, t EntryType)) {
	for _, name := range s.List(EntryIcon, EntryAlias) {
		if _, ok := s.Icons[name]; ok {
			fn(name, EntryIcon)
			continue
		}
		fn(name, EntryAlias)
	}
}

// List returns the sorted names of entries of the given types.
func (s *IconSet) List(types ...EntryType) []string {
	var names []string
	if lo.Contains(types, EntryIcon) {
		names = append(names, lo.Keys(s.Icons)...)
	}
	if lo.Contains(types, EntryAlias) {
		names = append(names, lo.Keys(s.Aliases)...)
	}

	sort.Strings(names)
	return names
}

func (s *IconSet) SetIcon(name string, icon Icon) {
	delete(s.Aliases, name)
	s.Icons[name] = icon
}

// SetAlias adds an alias, dropping it silently when the parent is unknown.
func (s *IconSet) SetAlias(name string, alias Alias) bool {
	if _, ok := s.Icons[alias.Parent]; !ok {
		if _, ok := s.Aliases[alias.Parent]; !ok {
			return false
		}
	}

	delete(s.Icons, name)
	s.Aliases[name] = alias
	return true
}

func (s *IconSet) ViewBox(name string) (svg.ViewBox, bool) {
	icon, ok := s.Icons[name]
	if !ok {
		return svg.ViewBox{}, false
	}

	vb := svg.ViewBox{
		Left:   icon.Left,
		Top:    icon.Top,
		Width:  firstPositive(icon.Width, s.Width, DefaultSize),
		Height: firstPositive(icon.Height, s.Height, DefaultSize),
	}

	return vb, true
}

// ToSVG builds a standalone document for the icon. It returns false when the
// icon does not exist or has nothing to render.
func (s *IconSet) ToSVG(name string) (*svg.SVG, bool) {
	icon, ok := s.Icons[name]
	if !ok || strings.TrimSpace(icon.Body) == "" {
		return nil, false
	}

	vb, _ := s.ViewBox(name)
	doc, err := svg.Build(icon.Body, vb)
	if err != nil {
		return nil, false
	}

	return doc, true
}

// FromSVG replaces the body and dimensions of an icon with the document.
func (s *IconSet) FromSVG(name string, doc *svg.SVG) error {
	vb, ok := doc.ViewBox()
	if !ok {
		return errors.Errorf("icon '%s' has no valid viewBox", name)
	}

	body := doc.Body()
	if strings.TrimSpace(body) == "" {
		return errors.Wrapf(ErrNoBody, "icon '%s'", name)
	}

	icon := s.Icons[name]
	icon.Body = body
	icon.Left = vb.Left
	icon.Top = vb.Top
	icon.Width = vb.Width
	icon.Height = vb.Height
	s.SetIcon(name, icon)

	return nil
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}

	return 0
}
