package icons

import (
	"context"

	jd "github.com/josephburnett/jd/lib"
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"github.com/withsy/sitekit/pkg/iconset"
	"github.com/withsy/sitekit/pkg/logger"
	"github.com/withsy/sitekit/pkg/path"
)

const defaultConcurrency = 8

// Discarded describes an icon that was dropped from the output.
type Discarded struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type Report struct {
	Prefix    string      `json:"prefix"`
	Source    string      `json:"source"`
	Output    string      `json:"output"`
	Total     int         `json:"total"`
	Kept      int         `json:"kept"`
	Discarded []Discarded `json:"discarded"`
	Changed   bool        `json:"changed"`
	Diff      string      `json:"diff,omitempty"`
}

type Normalizer struct {
	Fs          afero.Fs
	OutputDir   string
	Concurrency int
	Logger      logger.Logger
}

func NewNormalizer(fs afero.Fs, outputDir string, log logger.Logger) *Normalizer {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	return &Normalizer{
		Fs:          fs,
		OutputDir:   outputDir,
		Concurrency: defaultConcurrency,
		Logger:      log,
	}
}

// Normalize imports the job's directory and returns the set of surviving
// icons without writing anything.
func (n *Normalizer) Normalize(ctx context.Context, job Job) (*iconset.IconSet, *Report, error) {
	source, err := iconset.ImportDirectory(n.Fs, job.Dir, job.Prefix)
	if err != nil {
		return nil, nil, err
	}

	names := source.List(iconset.EntryIcon)
	outcomes := make([]Outcome, len(names))

	p := pool.New().WithMaxGoroutines(max(n.Concurrency, 1)).WithContext(ctx)
	for i, name := range names {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = NormalizeIcon(source, name)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, nil, errors.Wrapf(err, "normalization of '%s' was interrupted", job.Prefix)
	}

	kept, discarded := Fold(source, outcomes)

	report := &Report{
		Prefix:    job.Prefix,
		Source:    job.Dir,
		Output:    job.OutputPath(n.OutputDir),
		Total:     len(names),
		Kept:      kept.Count(),
		Discarded: make([]Discarded, 0, len(discarded)),
	}
	for _, o := range discarded {
		n.Logger.Warnw("Discarding icon", "prefix", job.Prefix, "icon", o.Name, "reason", o.Reason)
		report.Discarded = append(report.Discarded, Discarded{Name: o.Name, Reason: o.Reason})
	}

	return kept, report, nil
}

// Run normalizes the job and writes its icon set to the output directory.
func (n *Normalizer) Run(ctx context.Context, job Job) (*Report, error) {
	set, report, err := n.Normalize(ctx, job)
	if err != nil {
		return nil, err
	}

	data, err := Encode(set)
	if err != nil {
		return nil, err
	}

	existing, readErr := afero.ReadFile(n.Fs, report.Output)
	report.Changed = readErr != nil || string(existing) != string(data)
	if !report.Changed {
		n.Logger.Debugf("Icon set '%s' is up to date", job.Prefix)
		return report, nil
	}

	if err := path.WriteFile(n.Fs, report.Output, data); err != nil {
		return nil, errors.Wrapf(err, "failed to write icon set '%s'", job.Prefix)
	}

	n.Logger.Infof("Wrote %d icons to %s", report.Kept, report.Output)
	return report, nil
}

// Check normalizes the job and compares the result with the file on disk
// without writing. Report.Diff holds a rendered JSON diff when they differ.
func (n *Normalizer) Check(ctx context.Context, job Job) (*Report, error) {
	set, report, err := n.Normalize(ctx, job)
	if err != nil {
		return nil, err
	}

	data, err := Encode(set)
	if err != nil {
		return nil, err
	}

	existing, err := afero.ReadFile(n.Fs, report.Output)
	if err != nil {
		report.Changed = true
		report.Diff = "output file " + report.Output + " does not exist"
		return report, nil
	}

	if string(existing) == string(data) {
		return report, nil
	}

	report.Changed = true
	report.Diff = renderDiff(existing, data)
	return report, nil
}

func renderDiff(existing, generated []byte) string {
	a, err := jd.ReadJsonString(string(existing))
	if err != nil {
		return "existing output is not valid JSON: " + err.Error()
	}

	b, err := jd.ReadJsonString(string(generated))
	if err != nil {
		return "generated output is not valid JSON: " + err.Error()
	}

	diff := a.Diff(b)
	if len(diff) == 0 {
		return "formatting differs"
	}

	return diff.Render()
}
