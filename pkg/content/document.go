package content

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Document is one content entry with its decoded front matter.
type Document struct {
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
	Path       string         `json:"path"`
	Data       map[string]any `json:"data"`
	Body       string         `json:"-"`
	Digest     string         `json:"digest"`
}

// ParseDocument reads a file and splits its YAML front matter from the body.
func ParseDocument(fs afero.Fs, path string) (*Document, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read document %s", path)
	}

	data := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &data, yamlFrontMatter)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid front matter in %s", path)
	}
	if data == nil {
		data = map[string]any{}
	}

	sum := sha256.Sum256(raw)
	return &Document{
		Path:   filepath.ToSlash(path),
		Data:   data,
		Body:   string(body),
		Digest: hex.EncodeToString(sum[:]),
	}, nil
}

// IDFromPath turns a loader relative path into an entry id.
func IDFromPath(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// LoadDocument parses the document at rel inside the collection's base.
func LoadDocument(fs afero.Fs, c *Collection, rel string) (*Document, error) {
	doc, err := ParseDocument(fs, filepath.Join(c.Loader.Base, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}

	doc.Collection = c.Name
	doc.ID = IDFromPath(rel)
	return doc, nil
}
