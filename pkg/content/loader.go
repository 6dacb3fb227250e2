package content

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/withsy/sitekit/pkg/path"
)

// Loader locates the documents of a collection: every file under Base whose
// path relative to Base matches Pattern.
type Loader struct {
	Pattern string `yaml:"pattern" json:"pattern" validate:"required"`
	Base    string `yaml:"base" json:"base" validate:"required"`
}

func (l Loader) Validate() error {
	if strings.TrimSpace(l.Base) == "" {
		return errors.New("loader base cannot be empty")
	}
	if !doublestar.ValidatePattern(l.Pattern) {
		return errors.Errorf("invalid loader pattern '%s'", l.Pattern)
	}
	return nil
}

// Matches reports whether a path relative to Base belongs to the loader.
func (l Loader) Matches(rel string) bool {
	ok, err := doublestar.Match(l.Pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// Owns reports whether a path relative to the site root belongs to the loader.
func (l Loader) Owns(p string) bool {
	rel, err := filepath.Rel(filepath.Clean(l.Base), filepath.Clean(p))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return l.Matches(rel)
}

// Discover returns the matching paths relative to Base, sorted.
func (l Loader) Discover(fs afero.Fs) ([]string, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	if !path.DirExists(fs, l.Base) {
		return []string{}, nil
	}

	return path.MatchFiles(fs, l.Base, l.Pattern)
}

// PathFor returns where a new document named slug is created. The
// extension comes from the pattern, defaulting to .md when the pattern does
// not pin one.
func (l Loader) PathFor(slug string) (string, error) {
	ext := filepath.Ext(l.Pattern)
	if ext == "" || strings.ContainsAny(ext, "*?[]{},") {
		ext = ".md"
	}

	rel := strings.Trim(filepath.ToSlash(slug), "/") + ext
	if !l.Matches(rel) {
		return "", errors.Errorf("'%s' does not match the loader pattern '%s'", rel, l.Pattern)
	}

	return filepath.Join(l.Base, filepath.FromSlash(rel)), nil
}

func (l Loader) String() string {
	return filepath.ToSlash(filepath.Join(l.Base, l.Pattern))
}
