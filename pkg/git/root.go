package git

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var ErrNoRepository = errors.New("no git repository found")

// Repo represents the path of a given git repository.
type Repo struct {
	Path string `json:"path"`
}

// FindRepoFromPath walks up from path until it finds a directory holding a
// .git directory.
func FindRepoFromPath(fs afero.Fs, path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve path %s", path)
	}

	d, err := detectGitPath(fs, abs)
	if err != nil {
		return nil, err
	}

	return &Repo{Path: d}, nil
}

func detectGitPath(fs afero.Fs, path string) (string, error) {
	for {
		gitPath := filepath.Join(path, ".git")
		fi, err := fs.Stat(gitPath)
		if err == nil {
			if fi.IsDir() {
				return path, nil
			}

			return "", errors.Errorf(".git exists in %s but is not a directory", path)
		}

		parent := filepath.Dir(path)
		if parent == path {
			return "", ErrNoRepository
		}
		path = parent
	}
}
