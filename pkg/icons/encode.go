package icons

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/withsy/sitekit/pkg/iconset"
)

// Encode serializes a set as tab indented JSON followed by a newline. Map keys
// are sorted, so equal sets always produce identical bytes.
func Encode(set *iconset.IconSet) ([]byte, error) {
	if set.Icons == nil {
		set.Icons = map[string]iconset.Icon{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	if err := enc.Encode(set); err != nil {
		return nil, errors.Wrapf(err, "failed to encode icon set '%s'", set.Prefix)
	}

	return buf.Bytes(), nil
}
