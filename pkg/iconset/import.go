package iconset

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/withsy/sitekit/pkg/path"
	"github.com/withsy/sitekit/pkg/svg"
)

var invalidNameChars = regexp.MustCompile(`[^a-z0-9-]+`)

var repeatedDashes = regexp.MustCompile(`-{2,}`)

// NameFromPath derives an icon name from a path relative to the source directory.
func NameFromPath(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	name := strings.ToLower(strings.ReplaceAll(rel, "/", "-"))
	name = invalidNameChars.ReplaceAllString(name, "-")
	name = repeatedDashes.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "icon"
	}

	return name
}

// ImportDirectory loads every .svg file below dir into a new icon set.
// Files that are not valid SVG documents are kept with an empty body so the
// caller can report them; only failing to list or read the files is an error.
func ImportDirectory(fs afero.Fs, dir, prefix string) (*IconSet, error) {
	if !path.DirExists(fs, dir) {
		return nil, errors.Errorf("icon source directory '%s' does not exist", dir)
	}

	files, err := path.GetAllFilesRecursive(fs, dir, []string{".svg"})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list icons in '%s'", dir)
	}

	set := New(prefix)
	for _, rel := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		content, err := afero.ReadFile(fs, full)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read icon '%s'", full)
		}

		set.SetIcon(uniqueName(set, NameFromPath(rel)), iconFromMarkup(string(content)))
	}

	return set, nil
}

func iconFromMarkup(markup string) Icon {
	doc, err := svg.Parse(markup)
	if err != nil {
		return Icon{}
	}

	svg.LiftPresentation(doc)
	icon := Icon{Body: doc.Body()}
	if vb, ok := doc.Bounds(); ok {
		icon.Left = vb.Left
		icon.Top = vb.Top
		icon.Width = vb.Width
		icon.Height = vb.Height
	}

	return icon
}

func uniqueName(set *IconSet, name string) string {
	candidate := name
	for i := 2; ; i++ {
		if _, ok := set.Icons[candidate]; !ok {
			return candidate
		}
		candidate = name + "-" + strconv.Itoa(i)
	}
}
