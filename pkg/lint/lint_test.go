package lint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/withsy/sitekit/pkg/content"
	"go.uber.org/zap"
)

func TestSimpleRule_WrongLevel(t *testing.T) {
	t.Parallel()

	rule := &SimpleRule{Identifier: "collection-only"}

	_, err := rule.Validate(context.Background(), nil, nil)
	require.EqualError(t, err, "the rule 'collection-only' cannot be used to validate collections")

	_, err = rule.ValidateDocument(context.Background(), nil, nil)
	require.EqualError(t, err, "the rule 'collection-only' cannot be used to validate documents")
}

func TestLinter_Lint(t *testing.T) {
	t.Parallel()

	errorRule := &SimpleRule{
		Identifier: "errorRule",
		Validator: func(ctx context.Context, all []*content.Set, set *content.Set) ([]*Issue, error) {
			return nil, errors.New("first rule failed")
		},
		ApplicableLevels: []Level{LevelCollection},
	}

	perDocument := &SimpleRule{
		Identifier: "perDocument",
		DocumentValidator: func(ctx context.Context, set *content.Set, doc *content.Document) ([]*Issue, error) {
			return []*Issue{{Document: doc, Path: doc.Path, Description: "seen"}}, nil
		},
		ApplicableLevels: []Level{LevelDocument},
		Severity:         ValidatorSeverityCritical,
	}

	sets := []*content.Set{{
		Collection: blogCollection(t),
		Documents: []*content.Document{
			doc("src/blog/a.mdx", "a", validData(), "hi"),
			doc("src/blog/b.mdx", "b", validData(), "hi"),
		},
	}}

	tests := []struct {
		name       string
		rules      []Rule
		wantErr    bool
		wantErrors int
	}{
		{
			name:    "rule errors are returned",
			rules:   []Rule{perDocument, errorRule},
			wantErr: true,
		},
		{
			name:       "document rules run for every document",
			rules:      []Rule{perDocument},
			wantErrors: 2,
		},
		{
			name:  "no rules",
			rules: []Rule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := NewLinter(tt.rules, zap.NewNop().Sugar())
			got, err := l.Lint(context.Background(), sets)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Len(t, got.Collections, 1)
			assert.Equal(t, tt.wantErrors, got.ErrorCount())
			assert.Equal(t, 0, got.WarningCount())
		})
	}
}

func TestLinter_LintDiscoveredSite(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	files := map[string]string{
		"src/blog/first.mdx":  "---\ntitle: First\ndescription: One\npubDate: 2024-07-01\ntags: [go]\n---\n\nHello\n",
		"src/blog/second.mdx": "---\ntitle: Second\ndescription: Two\ntags: []\ndraft: true\n---\n\nWorld\n",
		"src/blog/broken.mdx": "---\ntitle: [unclosed\n---\n",
		"src/blog/notes.md":   "---\ntitle: ignored\n---\n",
	}
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o644))
	}

	sets, err := content.Discover(context.Background(), fs, content.DefaultRegistry())
	require.NoError(t, err)

	result, err := NewLinter(DefaultRules(), zap.NewNop().Sugar()).Lint(context.Background(), sets)
	require.NoError(t, err)

	// broken front matter and the missing pubDate
	assert.Equal(t, 2, result.ErrorCount())
	// draft is not part of the schema
	assert.Equal(t, 1, result.WarningCount())

	paths, grouped := result.Collections[0].ByPath()
	assert.Equal(t, []string{"src/blog/broken.mdx", "src/blog/second.mdx"}, paths)
	require.Len(t, grouped["src/blog/second.mdx"], 2)
	assert.Equal(t, "schema", grouped["src/blog/second.mdx"][0].Rule.Name())
	assert.Equal(t, "unknown-fields", grouped["src/blog/second.mdx"][1].Rule.Name())

	var out bytes.Buffer
	printer := &Printer{Out: &out}
	printer.PrintIssues(result)
	assert.Contains(t, out.String(), "Collection: blog")
	assert.Contains(t, out.String(), "Field 'pubDate' is required (schema)")
	assert.Contains(t, out.String(), "draft")
	assert.Contains(t, out.String(), "Checked 3 documents in 1 collection, found 2 errors and 1 warning.")

	out.Reset()
	require.NoError(t, printer.PrintJSON(result))

	var decoded []struct {
		Collection string `json:"collection"`
		Documents  int    `json:"documents"`
		Issues     map[string][]struct {
			Rule     string   `json:"rule"`
			Severity string   `json:"severity"`
			Context  []string `json:"context"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "blog", decoded[0].Collection)
	assert.Equal(t, 3, decoded[0].Documents)
	assert.Equal(t, "critical", decoded[0].Issues["src/blog/second.mdx"][0].Severity)
	assert.Equal(t, "warning", decoded[0].Issues["src/blog/second.mdx"][1].Severity)
	assert.Equal(t, []string{"draft"}, decoded[0].Issues["src/blog/second.mdx"][1].Context)
}

func TestPrinter_NoIssues(t *testing.T) {
	t.Parallel()

	result := &AnalysisResult{Collections: []*CollectionIssues{{
		Collection: blogCollection(t),
		Documents:  1,
		Issues:     map[Rule][]*Issue{},
	}}}

	var out bytes.Buffer
	(&Printer{Out: &out}).PrintIssues(result)
	assert.Contains(t, out.String(), "No issues found")
	assert.Contains(t, out.String(), "Checked 1 document in 1 collection, no issues found.")
}
