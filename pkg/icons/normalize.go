package icons

import (
	"github.com/withsy/sitekit/pkg/iconset"
	"github.com/withsy/sitekit/pkg/svg"
)

type Status int

const (
	Kept Status = iota + 1
	Skipped
)

func (s Status) String() string {
	if s == Kept {
		return "kept"
	}
	return "skipped"
}

// Outcome is the result of normalizing a single icon. Icon is only set for
// kept icons, Reason only for skipped ones.
type Outcome struct {
	Name   string
	Status Status
	Reason string
	Icon   iconset.Icon
}

func skipped(name, reason string) Outcome {
	return Outcome{Name: name, Status: Skipped, Reason: reason}
}

// NormalizeIcon runs cleanup followed by optimization on a single icon.
// The set is only read, so icons can be normalized concurrently.
func NormalizeIcon(set *iconset.IconSet, name string) Outcome {
	doc, ok := set.ToSVG(name)
	if !ok {
		return skipped(name, "icon is empty or could not be parsed")
	}

	if err := svg.Cleanup(doc); err != nil {
		return skipped(name, err.Error())
	}

	if err := svg.Optimize(doc); err != nil {
		return skipped(name, err.Error())
	}

	out := set.Empty()
	if err := out.FromSVG(name, doc); err != nil {
		return skipped(name, err.Error())
	}

	icon := out.Icons[name]
	icon.Hidden = set.Icons[name].Hidden

	return Outcome{Name: name, Status: Kept, Icon: icon}
}

// Fold splits outcomes into a new set of survivors and the skipped outcomes.
// Aliases of the source set are carried over when their parent survives.
func Fold(source *iconset.IconSet, outcomes []Outcome) (*iconset.IconSet, []Outcome) {
	kept := source.Empty()
	var discarded []Outcome

	for _, o := range outcomes {
		if o.Status == Kept {
			kept.SetIcon(o.Name, o.Icon)
			continue
		}
		discarded = append(discarded, o)
	}

	source.ForEach(func(name string, t iconset.EntryType) {
		if t == iconset.EntryAlias {
			kept.SetAlias(name, source.Aliases[name])
		}
	})

	return kept, discarded
}
