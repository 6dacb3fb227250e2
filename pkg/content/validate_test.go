package content

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blogSchema(t *testing.T) *Schema {
	t.Helper()

	blog, ok := DefaultRegistry().Get("blog")
	require.True(t, ok)
	return blog.Schema
}

func TestValidatorMissingPubDate(t *testing.T) {
	t.Parallel()

	fs := writeFiles(t, map[string]string{
		"src/blog/no-date.mdx": "---\ntitle: Hi\ndescription: d\ntags: []\n---\nbody\n",
	})

	doc, err := ParseDocument(fs, "src/blog/no-date.mdx")
	require.NoError(t, err)

	v, err := NewValidator(blogSchema(t))
	require.NoError(t, err)

	err = v.Validate(doc)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, ValidationError{Path: "src/blog/no-date.mdx", Field: "pubDate", Message: "is required"}, verrs[0])
	assert.Contains(t, err.Error(), "src/blog/no-date.mdx")
	assert.Contains(t, err.Error(), "pubDate")
}

func TestValidator(t *testing.T) {
	t.Parallel()

	v, err := NewValidator(blogSchema(t))
	require.NoError(t, err)

	tests := []struct {
		name string
		data map[string]any
		want ValidationErrors
	}{
		{
			name: "valid",
			data: map[string]any{"title": "t", "description": "d", "pubDate": "2024-05-01", "tags": []any{"go"}},
		},
		{
			name: "unknown keys are allowed",
			data: map[string]any{"title": "t", "description": "d", "pubDate": "Jul 4, 2024", "tags": []any{}, "draft": true},
		},
		{
			name: "wrong types are reported per field in declaration order",
			data: map[string]any{"title": 5, "description": "d", "pubDate": "someday", "tags": "go"},
			want: ValidationErrors{
				{Path: "post.mdx", Field: "title", Message: "must be of type string"},
				{Path: "post.mdx", Field: "pubDate", Message: "must be a date"},
				{Path: "post.mdx", Field: "tags", Message: "must be of type string[]"},
			},
		},
		{
			name: "everything missing",
			data: map[string]any{},
			want: ValidationErrors{
				{Path: "post.mdx", Field: "title", Message: "is required"},
				{Path: "post.mdx", Field: "description", Message: "is required"},
				{Path: "post.mdx", Field: "pubDate", Message: "is required"},
				{Path: "post.mdx", Field: "tags", Message: "is required"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(&Document{Path: "post.mdx", Data: tt.data})
			if tt.want == nil {
				require.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.want, verrs)
		})
	}
}

func TestValidatorOptionalFields(t *testing.T) {
	t.Parallel()

	v, err := NewValidator(MustSchema(
		Field{Name: "name", Type: TypeString},
		Field{Name: "year", Type: TypeNumber, Optional: true},
	))
	require.NoError(t, err)

	require.NoError(t, v.Validate(&Document{Path: "a.md", Data: map[string]any{"name": "x"}}))
	require.NoError(t, v.Validate(&Document{Path: "a.md", Data: map[string]any{"name": "x", "year": 2024}}))
	require.Error(t, v.Validate(&Document{Path: "a.md", Data: map[string]any{"name": "x", "year": "2024"}}))
}
