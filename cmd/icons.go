package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"github.com/withsy/sitekit/pkg/executor"
	"github.com/withsy/sitekit/pkg/icons"
	"go.uber.org/zap"
)

func Icons(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "icons",
		Usage: "normalize the SVG icon directories into Iconify JSON icon sets",
		Flags: []cli.Flag{
			outputFlag,
			&cli.BoolFlag{
				Name:  "check",
				Usage: "do not write anything, fail if an icon set is out of date",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "keep running and regenerate the icon sets when the sources change",
			},
			&cli.StringSliceFlag{
				Name:  "only",
				Usage: "limit the run to the given icon prefixes",
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "the directory the icon sets are written to, overrides the configuration",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "number of icon sets processed in parallel, defaults to one per set",
			},
		},
		Action: func(c *cli.Context) error {
			defer RecoverFromPanic()

			output := c.String("output")
			logger := makeLogger(*isDebug)

			cfg, err := loadConfig(c)
			if err != nil {
				printError(err, output, "Failed to load the configuration")
				return cli.Exit("", 1)
			}

			jobs, err := cfg.SelectJobs(c.StringSlice("only"))
			if err != nil {
				printError(err, output, "Invalid icon selection")
				return cli.Exit("", 1)
			}

			runner := &iconsRunner{
				fs:        fs,
				jobs:      jobs,
				outputDir: lo.CoalesceOrEmpty(c.String("out-dir"), cfg.Icons.OutputDir),
				workers:   c.Int("workers"),
				check:     c.Bool("check"),
				logger:    logger,
				progress:  os.Stdout,
			}
			if output == "json" {
				runner.progress = io.Discard
			}

			if c.Bool("watch") {
				if runner.check {
					printError(errors.New("--check and --watch cannot be used together"), output, "Invalid flags")
					return cli.Exit("", 1)
				}

				dirs := lo.Map(jobs, func(j icons.Job, _ int) string { return j.Dir })
				err := watchAndRun(c.Context, logger, dirs, func(ctx context.Context) error {
					reports, errs := runner.run(ctx)
					return reportIcons(reports, errs, output, false)
				})
				if err != nil {
					printError(err, output, "Failed to watch the icon sources")
					return cli.Exit("", 1)
				}

				return nil
			}

			reports, errs := runner.run(c.Context)
			return reportIcons(reports, errs, output, runner.check)
		},
	}
}

type iconsRunner struct {
	fs        afero.Fs
	jobs      []icons.Job
	outputDir string
	workers   int
	check     bool
	logger    *zap.SugaredLogger
	progress  io.Writer
}

// run processes every job. Reports and errors are indexed like the jobs; a
// failed job leaves a nil report and does not stop the others.
func (r *iconsRunner) run(ctx context.Context) ([]*icons.Report, []error) {
	normalizer := icons.NewNormalizer(r.fs, r.outputDir, r.logger)

	reports := make([]*icons.Report, len(r.jobs))
	tasks := make([]executor.Task, len(r.jobs))
	for i, job := range r.jobs {
		tasks[i] = executor.TaskFunc{
			Name: job.Prefix,
			Fn: func(ctx context.Context) error {
				var report *icons.Report
				var err error
				if r.check {
					report, err = normalizer.Check(ctx, job)
				} else {
					report, err = normalizer.Run(ctx, job)
				}
				if err != nil {
					return errors.Wrapf(err, "icon set '%s'", job.Prefix)
				}

				fmt.Fprintf(executor.PrinterFromContext(ctx), "%d of %d icons kept\n", report.Kept, report.Total)
				reports[i] = report
				return nil
			},
		}
	}

	workers := r.workers
	if workers < 1 {
		workers = len(tasks)
	}

	results := executor.NewConcurrent(r.logger, workers, r.progress).Run(ctx, tasks)

	errs := make([]error, len(results))
	for i, res := range results {
		errs[i] = res.Error
	}

	return reports, errs
}

func reportIcons(reports []*icons.Report, errs []error, output string, check bool) error {
	failures := lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	outdated := lo.Filter(reports, func(r *icons.Report, _ int) bool { return r != nil && check && r.Changed })

	if output == "json" {
		if err := printJSON(struct {
			Reports []*icons.Report `json:"reports"`
			Errors  []string        `json:"errors"`
		}{
			Reports: lo.Compact(reports),
			Errors:  lo.Map(failures, func(err error, _ int) string { return err.Error() }),
		}); err != nil {
			return err
		}
	} else {
		fmt.Println()
		printIconsTable(os.Stdout, reports, check)

		for _, r := range outdated {
			warningPrinter.Printf("\nIcon set '%s' is out of date:\n", r.Prefix)
			fmt.Println(r.Diff)
		}
		if len(failures) > 0 {
			printErrors(failures, output, "Some icon sets could not be generated")
		}
	}

	if len(failures) > 0 || len(outdated) > 0 {
		return cli.Exit("", 1)
	}

	return nil
}

func printIconsTable(w io.Writer, reports []*icons.Report, check bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Prefix", "Source", "Icons", "Kept", "Discarded", "Output", "Status"})

	for _, r := range reports {
		if r == nil {
			continue
		}

		t.AppendRow(table.Row{
			r.Prefix,
			r.Source,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Kept),
			strconv.Itoa(len(r.Discarded)),
			r.Output,
			iconStatus(r, check),
		})
	}

	t.Render()
}

func iconStatus(r *icons.Report, check bool) string {
	switch {
	case check && r.Changed:
		return "out of date"
	case check:
		return "up to date"
	case r.Changed:
		return "written"
	default:
		return "unchanged"
	}
}
