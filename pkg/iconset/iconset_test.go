package iconset

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/withsy/sitekit/pkg/svg"
)

func TestNameFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Lambda.svg", want: "lambda"},
		{input: "compute/EC2 Instance.svg", want: "compute-ec2-instance"},
		{input: "Arch_AWS-Lambda_48.svg", want: "arch-aws-lambda-48"},
		{input: "--weird__name--.svg", want: "weird-name"},
		{input: "!!!.svg", want: "icon"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, NameFromPath(tt.input))
		})
	}
}

func TestImportDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	files := map[string]string{
		"svg/aws/Lambda.svg":      `<svg viewBox="0 0 48 48" fill="#f90"><path d="M0 0h48v48H0z"/></svg>`,
		"svg/aws/db/RDS.svg":      `<svg width="32" height="24"><circle cx="4" cy="4" r="4"/></svg>`,
		"svg/aws/broken.svg":      `not an svg`,
		"svg/aws/lambda!.svg":     `<svg viewBox="0 0 8 8"><path d="M0 0h8"/></svg>`,
		"svg/aws/notes/readme.md": `# readme`,
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	set, err := ImportDirectory(fs, "svg/aws", "aws")
	require.NoError(t, err)

	assert.Equal(t, "aws", set.Prefix)
	assert.Equal(t, []string{"broken", "db-rds", "lambda", "lambda-2"}, set.List(EntryIcon))

	assert.Equal(t, Icon{
		Body:   `<g fill="#f90"><path d="M0 0h48v48H0z"/></g>`,
		Width:  48,
		Height: 48,
	}, set.Icons["lambda"])
	assert.Equal(t, Icon{Body: `<circle cx="4" cy="4" r="4"/>`, Width: 32, Height: 24}, set.Icons["db-rds"])
	assert.Equal(t, Icon{}, set.Icons["broken"])

	_, ok := set.ToSVG("broken")
	assert.False(t, ok)
}

func TestImportDirectoryMissing(t *testing.T) {
	t.Parallel()

	_, err := ImportDirectory(afero.NewMemMapFs(), "svg/nothing", "nothing")
	require.Error(t, err)
}

func TestToSVGAndFromSVG(t *testing.T) {
	t.Parallel()

	set := New("test")
	set.SetIcon("square", Icon{Body: `<path d="M0 0h10v10H0z"/>`})

	doc, ok := set.ToSVG("square")
	require.True(t, ok)

	vb, ok := doc.ViewBox()
	require.True(t, ok)
	assert.Equal(t, svg.ViewBox{Width: DefaultSize, Height: DefaultSize}, vb)

	replacement, err := svg.Build(`<circle r="2"/>`, svg.ViewBox{Left: 1, Width: 20, Height: 10})
	require.NoError(t, err)
	require.NoError(t, set.FromSVG("square", replacement))
	assert.Equal(t, Icon{Body: `<circle r="2"/>`, Left: 1, Width: 20, Height: 10}, set.Icons["square"])

	_, ok = set.ToSVG("missing")
	assert.False(t, ok)
}

func TestForEachVisitsEntriesInOrder(t *testing.T) {
	t.Parallel()

	set := New("test")
	set.SetIcon("b", Icon{Body: "<g/>"})
	set.SetIcon("a", Icon{Body: "<g/>"})
	require.True(t, set.SetAlias("c", Alias{Parent: "a"}))
	require.False(t, set.SetAlias("d", Alias{Parent: "missing"}))

	type visit struct {
		name string
		typ  EntryType
	}
	var visits []visit
	set.ForEach(func(name string, typ EntryType) {
		visits = append(visits, visit{name, typ})
	})

	assert.Equal(t, []visit{{"a", EntryIcon}, {"b", EntryIcon}, {"c", EntryAlias}}, visits)
}
