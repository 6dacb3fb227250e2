package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	t.Parallel()

	fs := writeFiles(t, map[string]string{
		"src/blog/hello.mdx":   validPost,
		"src/blog/plain.mdx":   "# no front matter\n",
		"src/blog/broken.mdx":  "---\ntitle: [unclosed\n---\nbody\n",
		"src/blog/hello-2.mdx": validPost,
		"src/blog/quoted.mdx":  "---\ntitle: Quoted\npubDate: \"2024-05-01\"\n---\nbody\n",
	})

	doc, err := ParseDocument(fs, "src/blog/hello.mdx")
	require.NoError(t, err)
	assert.Equal(t, "Hello", doc.Data["title"])
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), doc.Data["pubDate"])
	assert.Equal(t, []any{"go", "web"}, doc.Data["tags"])
	assert.Contains(t, doc.Body, "# Hello")
	assert.NotContains(t, doc.Body, "pubDate")
	assert.Len(t, doc.Digest, 64)

	quoted, err := ParseDocument(fs, "src/blog/quoted.mdx")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", quoted.Data["pubDate"])

	same, err := ParseDocument(fs, "src/blog/hello-2.mdx")
	require.NoError(t, err)
	assert.Equal(t, doc.Digest, same.Digest)

	plain, err := ParseDocument(fs, "src/blog/plain.mdx")
	require.NoError(t, err)
	assert.Empty(t, plain.Data)
	assert.Equal(t, "# no front matter\n", plain.Body)

	_, err = ParseDocument(fs, "src/blog/broken.mdx")
	require.Error(t, err)

	_, err = ParseDocument(fs, "src/blog/missing.mdx")
	require.Error(t, err)
}

func TestDiscoverAndValidateAll(t *testing.T) {
	t.Parallel()

	fs := writeFiles(t, map[string]string{
		"src/blog/hello.mdx":     validPost,
		"src/blog/2024/bad.mdx":  "---\ntitle: Bad\ndescription: d\ntags: []\n---\n",
		"src/blog/2024/oops.mdx": "---\ntitle: [\n---\n",
	})

	sets, err := Discover(context.Background(), fs, DefaultRegistry())
	require.NoError(t, err)
	require.Len(t, sets, 1)

	set := sets[0]
	assert.Equal(t, "blog", set.Collection.Name)
	require.Len(t, set.Documents, 2)
	assert.Equal(t, "2024/bad", set.Documents[0].ID)
	assert.Equal(t, "hello", set.Documents[1].ID)
	require.Len(t, set.Broken, 1)
	assert.Equal(t, "src/blog/2024/oops.mdx", set.Broken[0].Path)

	failures, err := ValidateAll(sets)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, ValidationErrors{
		{Path: "src/blog/2024/bad.mdx", Field: "pubDate", Message: "is required"},
	}, failures["src/blog/2024/bad.mdx"])
}
