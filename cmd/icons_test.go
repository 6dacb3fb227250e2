package cmd

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/withsy/sitekit/pkg/icons"
	"go.uber.org/zap"
)

const (
	squareSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M2 2h20v20H2z"/></svg>`
	emptySVG  = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"></svg>`
)

func TestIconsRunner_Run(t *testing.T) {
	t.Parallel()

	afs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(afs, "svg/aws/s3.svg", []byte(squareSVG), 0o644))
	require.NoError(t, afero.WriteFile(afs, "svg/withsy/logo.svg", []byte(squareSVG), 0o644))
	require.NoError(t, afero.WriteFile(afs, "svg/withsy/blank.svg", []byte(emptySVG), 0o644))

	runner := &iconsRunner{
		fs: afs,
		jobs: []icons.Job{
			{Dir: "svg/aws", Prefix: "aws"},
			{Dir: "svg/missing", Prefix: "missing"},
			{Dir: "svg/withsy", Prefix: "withsy"},
		},
		outputDir: "src/icons",
		logger:    zap.NewNop().Sugar(),
		progress:  io.Discard,
	}

	reports, errs := runner.run(context.Background())
	require.Len(t, reports, 3)
	require.Len(t, errs, 3)

	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
	assert.Contains(t, errs[1].Error(), "icon set 'missing'")
	assert.NoError(t, errs[2])

	assert.Nil(t, reports[1])
	assert.Equal(t, 1, reports[0].Kept)
	assert.Equal(t, 2, reports[2].Total)
	assert.Equal(t, 1, reports[2].Kept)
	assert.Equal(t, "blank", reports[2].Discarded[0].Name)

	exists, err := afero.Exists(afs, "src/icons/withsy.json")
	require.NoError(t, err)
	assert.True(t, exists)

	// the sets are now up to date
	runner.check = true
	runner.jobs = []icons.Job{{Dir: "svg/aws", Prefix: "aws"}, {Dir: "svg/withsy", Prefix: "withsy"}}
	reports, errs = runner.run(context.Background())
	for i := range reports {
		require.NoError(t, errs[i])
		assert.False(t, reports[i].Changed)
		assert.Equal(t, "up to date", iconStatus(reports[i], true))
	}

	require.NoError(t, afero.WriteFile(afs, "svg/aws/lambda.svg", []byte(squareSVG), 0o644))
	reports, errs = runner.run(context.Background())
	require.NoError(t, errs[0])
	assert.True(t, reports[0].Changed)
	assert.NotEmpty(t, reports[0].Diff)
	assert.Equal(t, "out of date", iconStatus(reports[0], true))
}

func TestPrintIconsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printIconsTable(&buf, []*icons.Report{
		{Prefix: "aws", Source: "svg/aws", Output: "src/icons/aws.json", Total: 3, Kept: 2, Discarded: []icons.Discarded{{Name: "x"}}, Changed: true},
		nil,
	}, false)

	out := buf.String()
	assert.Contains(t, out, "PREFIX")
	assert.Contains(t, out, "aws")
	assert.Contains(t, out, "src/icons/aws.json")
	assert.Contains(t, out, "written")
}
