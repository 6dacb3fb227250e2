package git

import (
	"bufio"
	"bytes"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// EnsureGivenPatternIsInGitignore appends pattern to the .gitignore at the
// repository root unless an identical line is already there.
func EnsureGivenPatternIsInGitignore(fs afero.Fs, repoRoot string, pattern string) error {
	gitignorePath := path.Join(repoRoot, ".gitignore")
	exists, err := afero.Exists(fs, gitignorePath)
	if err != nil {
		return err
	}

	if !exists {
		return afero.WriteFile(fs, gitignorePath, []byte(pattern+"\n"), 0o644)
	}

	content, err := afero.ReadFile(fs, gitignorePath)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == pattern {
			return nil
		}
	}

	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		content = append(content, '\n')
	}
	content = append(content, []byte(pattern+"\n")...)

	return afero.WriteFile(fs, gitignorePath, content, 0o644)
}
