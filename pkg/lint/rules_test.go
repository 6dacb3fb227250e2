package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/withsy/sitekit/pkg/content"
)

func blogCollection(t *testing.T) *content.Collection {
	t.Helper()

	blog, ok := content.DefaultRegistry().Get("blog")
	require.True(t, ok)
	return blog
}

func validData() map[string]any {
	return map[string]any{
		"title":       "Hello",
		"description": "First post",
		"pubDate":     "2024-07-01",
		"tags":        []any{"go"},
	}
}

func doc(path, id string, data map[string]any, body string) *content.Document {
	return &content.Document{Collection: "blog", ID: id, Path: path, Data: data, Body: body}
}

func TestEnsureDocumentsMatchSchema(t *testing.T) {
	t.Parallel()

	missingDate := validData()
	delete(missingDate, "pubDate")

	wrongTags := validData()
	wrongTags["tags"] = "go"

	badDate := validData()
	badDate["pubDate"] = "someday"

	tests := []struct {
		name string
		docs []*content.Document
		want []string
	}{
		{
			name: "valid documents have no issues",
			docs: []*content.Document{doc("src/blog/a.mdx", "a", validData(), "hi")},
			want: []string{},
		},
		{
			name: "missing date",
			docs: []*content.Document{doc("src/blog/a.mdx", "a", missingDate, "hi")},
			want: []string{"Field 'pubDate' is required"},
		},
		{
			name: "tags must be a list",
			docs: []*content.Document{doc("src/blog/a.mdx", "a", wrongTags, "hi")},
			want: []string{"Field 'tags' must be of type string[]"},
		},
		{
			name: "unparseable date",
			docs: []*content.Document{
				doc("src/blog/a.mdx", "a", validData(), "hi"),
				doc("src/blog/b.mdx", "b", badDate, "hi"),
			},
			want: []string{"Field 'pubDate' must be a date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			set := &content.Set{Collection: blogCollection(t), Documents: tt.docs}
			issues, err := EnsureDocumentsMatchSchema(context.Background(), []*content.Set{set}, set)
			require.NoError(t, err)

			descriptions := make([]string, 0, len(issues))
			for _, issue := range issues {
				descriptions = append(descriptions, issue.Description)
				assert.NotNil(t, issue.Document)
			}
			assert.Equal(t, tt.want, descriptions)
		})
	}
}

func TestEnsureDocumentsCanBeParsed(t *testing.T) {
	t.Parallel()

	set := &content.Set{
		Collection: blogCollection(t),
		Broken: []content.ValidationError{
			{Path: "src/blog/broken.mdx", Message: "yaml: line 2: did not find expected key"},
		},
	}

	issues, err := EnsureDocumentsCanBeParsed(context.Background(), nil, set)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "src/blog/broken.mdx", issues[0].Path)
	assert.Equal(t, documentCannotBeParsed, issues[0].Description)
	assert.Equal(t, []string{"yaml: line 2: did not find expected key"}, issues[0].Context)
	assert.Nil(t, issues[0].Document)
}

func TestEnsureDocumentIDsAreUnique(t *testing.T) {
	t.Parallel()

	set := &content.Set{
		Collection: blogCollection(t),
		Documents: []*content.Document{
			doc("src/blog/post.mdx", "post", validData(), "hi"),
			doc("src/blog/other.mdx", "other", validData(), "hi"),
			doc("src/blog/post.md", "post", validData(), "hi"),
		},
	}

	issues, err := EnsureDocumentIDsAreUnique(context.Background(), nil, set)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Document id 'post' is not unique in collection 'blog'", issues[0].Description)
	assert.Equal(t, []string{"src/blog/post.md", "src/blog/post.mdx"}, issues[0].Context)
	assert.Equal(t, "src/blog/post.md", issues[0].Path)
}

func TestEnsureDocumentsBelongToOneCollection(t *testing.T) {
	t.Parallel()

	posts := &content.Set{
		Collection: &content.Collection{
			Name:   "posts",
			Loader: content.Loader{Pattern: "**/*.mdx", Base: "src/blog"},
			Schema: blogCollection(t).Schema,
		},
		Documents: []*content.Document{
			doc("src/blog/a.mdx", "a", validData(), "hi"),
			doc("src/blog/drafts/b.mdx", "drafts/b", validData(), "hi"),
		},
	}
	drafts := &content.Set{
		Collection: &content.Collection{
			Name:   "drafts",
			Loader: content.Loader{Pattern: "*.mdx", Base: "src/blog/drafts"},
			Schema: blogCollection(t).Schema,
		},
		Documents: []*content.Document{
			doc("src/blog/drafts/b.mdx", "b", validData(), "hi"),
		},
	}
	notes := &content.Set{
		Collection: &content.Collection{
			Name:   "notes",
			Loader: content.Loader{Pattern: "**/*.md", Base: "src/blog"},
			Schema: blogCollection(t).Schema,
		},
	}
	all := []*content.Set{posts, drafts, notes}

	issues, err := EnsureDocumentsBelongToOneCollection(context.Background(), all, posts)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "src/blog/drafts/b.mdx", issues[0].Path)
	assert.Equal(t, []string{"drafts"}, issues[0].Context)

	issues, err = EnsureDocumentsBelongToOneCollection(context.Background(), all, drafts)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, []string{"posts"}, issues[0].Context)
}

func TestEnsureNoUnknownFields(t *testing.T) {
	t.Parallel()

	extra := validData()
	extra["draft"] = true
	extra["heroImage"] = "/hero.png"

	set := &content.Set{Collection: blogCollection(t)}

	issues, err := EnsureNoUnknownFields(context.Background(), set, doc("src/blog/a.mdx", "a", validData(), "hi"))
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = EnsureNoUnknownFields(context.Background(), set, doc("src/blog/a.mdx", "a", extra, "hi"))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, []string{"draft", "heroImage"}, issues[0].Context)
}

func TestEnsureBodyIsNotEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		body      string
		wantIssue bool
	}{
		{name: "text", path: "src/blog/a.mdx", body: "\nHello\n"},
		{name: "blank", path: "src/blog/a.mdx", body: "\n  \n", wantIssue: true},
		{name: "only imports", path: "src/blog/a.mdx", body: "import Image from '../components/Image.astro'\n\n", wantIssue: true},
		{name: "imports are text in markdown", path: "src/blog/a.md", body: "import this\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			set := &content.Set{Collection: blogCollection(t)}
			issues, err := EnsureBodyIsNotEmpty(context.Background(), set, doc(tt.path, "a", validData(), tt.body))
			require.NoError(t, err)
			if tt.wantIssue {
				require.Len(t, issues, 1)
				assert.Equal(t, documentBodyIsEmpty, issues[0].Description)
			} else {
				assert.Empty(t, issues)
			}
		})
	}
}
