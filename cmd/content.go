package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"github.com/withsy/sitekit/pkg/config"
	"github.com/withsy/sitekit/pkg/content"
	"github.com/withsy/sitekit/pkg/jinja"
	"github.com/withsy/sitekit/pkg/lint"
	"github.com/withsy/sitekit/pkg/logger"
	"github.com/withsy/sitekit/pkg/markdown"
	path2 "github.com/withsy/sitekit/pkg/path"
	"github.com/withsy/sitekit/pkg/store"
	"github.com/xlab/treeprint"
)

func Content(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "content",
		Usage: "validate, store and scaffold the content collections",
		Subcommands: []*cli.Command{
			contentCheck(isDebug),
			contentSync(isDebug),
			contentList(),
			contentNew(),
		},
	}
}

func contentCheck(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "validate every document against the schema of its collection",
		Flags: []cli.Flag{outputFlag},
		Action: func(c *cli.Context) error {
			defer RecoverFromPanic()

			output := c.String("output")
			cfg, err := loadConfig(c)
			if err != nil {
				printError(err, output, "Failed to load the configuration")
				return cli.Exit("", 1)
			}

			_, result, err := checkContent(c.Context, fs, cfg, makeLogger(*isDebug))
			if err != nil {
				printError(err, output, "Failed to check the content")
				return cli.Exit("", 1)
			}

			if err := printAnalysis(result, output); err != nil {
				return err
			}

			if result.ErrorCount() > 0 {
				return cli.Exit("", 1)
			}

			return nil
		},
	}
}

func contentSync(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "render the valid documents into the content store",
		Flags: []cli.Flag{
			outputFlag,
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "keep running and sync again when a document changes",
			},
			&cli.StringFlag{
				Name:  "run-id",
				Usage: "identifier of the run, defaults to $SITEKIT_RUN_ID or a random id",
			},
		},
		Action: func(c *cli.Context) error {
			defer RecoverFromPanic()

			output := c.String("output")
			log := makeLogger(*isDebug)

			cfg, err := loadConfig(c)
			if err != nil {
				printError(err, output, "Failed to load the configuration")
				return cli.Exit("", 1)
			}

			once := func(ctx context.Context) error {
				runID := lo.CoalesceOrEmpty(c.String("run-id"), NewRunID())
				run, result, err := syncContent(ctx, fs, cfg, log, runID)
				if result != nil && result.ErrorCount() > 0 {
					_ = printAnalysis(result, output)
				}
				if err != nil {
					printError(err, output, "Failed to sync the content")
					return err
				}

				if output == "json" {
					return printJSON(run)
				}
				successPrinter.Printf("Synced content run %s: %d rendered, %d unchanged, %d pruned\n", run.ID, run.Rendered, run.Unchanged, run.Pruned)
				return nil
			}

			if c.Bool("watch") {
				registry, err := cfg.Registry(fs)
				if err != nil {
					printError(err, output, "Failed to read the collections")
					return cli.Exit("", 1)
				}

				dirs := lo.FilterMap(registry.Collections(), func(col *content.Collection, _ int) (string, bool) {
					return col.Loader.Base, path2.DirExists(fs, col.Loader.Base)
				})
				if len(dirs) == 0 {
					printError(errors.New("none of the collection directories exist"), output, "Nothing to watch")
					return cli.Exit("", 1)
				}

				if err := watchAndRun(c.Context, log, lo.Uniq(dirs), once); err != nil {
					printError(err, output, "Failed to watch the content")
					return cli.Exit("", 1)
				}

				return nil
			}

			if err := once(c.Context); err != nil {
				return cli.Exit("", 1)
			}

			return nil
		},
	}
}

func contentList() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list the entries of the content store",
		ArgsUsage: "[collection]",
		Flags: []cli.Flag{
			outputFlag,
			&cli.StringFlag{
				Name:  "where",
				Usage: `filter entries with an expression over their front matter, e.g. '"go" in tags'`,
			},
		},
		Action: func(c *cli.Context) error {
			defer RecoverFromPanic()

			output := c.String("output")
			cfg, err := loadConfig(c)
			if err != nil {
				printError(err, output, "Failed to load the configuration")
				return cli.Exit("", 1)
			}

			if !path2.FileExists(fs, cfg.Content.Store) {
				printWarningForOutput(output, "The content store is empty, run 'sitekit content sync' first.")
				return nil
			}

			s, err := store.Open(c.Context, cfg.Content.Store)
			if err != nil {
				printError(err, output, "Failed to open the content store")
				return cli.Exit("", 1)
			}
			defer s.Close()

			entries, err := s.List(c.Context, c.Args().First())
			if err != nil {
				printError(err, output, "Failed to list the entries")
				return cli.Exit("", 1)
			}

			entries, err = store.Filter(entries, c.String("where"))
			if err != nil {
				printError(err, output, "Failed to filter the entries")
				return cli.Exit("", 1)
			}

			if output == "json" {
				return printJSON(entries)
			}

			lastRun, err := s.LastRun(c.Context)
			if err != nil {
				printError(err, output, "Failed to read the last run")
				return cli.Exit("", 1)
			}

			fmt.Print(entriesTree(entries))
			if lastRun != nil {
				fmt.Println(faint(fmt.Sprintf("\nLast sync %s at %s", lastRun.ID, lastRun.FinishedAt)))
			}
			return nil
		},
	}
}

func contentNew() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "scaffold a new document whose front matter satisfies the collection schema",
		ArgsUsage: "<collection> <slug>",
		Flags: []cli.Flag{
			outputFlag,
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "overwrite an existing document without asking",
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "a template file to render instead of the generated one",
			},
		},
		Action: func(c *cli.Context) error {
			defer RecoverFromPanic()

			output := c.String("output")
			if c.Args().Len() != 2 {
				printError(errors.New("expected a collection and a slug"), output, "Invalid arguments")
				return cli.Exit("", 1)
			}

			cfg, err := loadConfig(c)
			if err != nil {
				printError(err, output, "Failed to load the configuration")
				return cli.Exit("", 1)
			}

			registry, err := cfg.Registry(fs)
			if err != nil {
				printError(err, output, "Failed to read the collections")
				return cli.Exit("", 1)
			}

			target, rendered, err := scaffoldDocument(fs, registry, c.Args().Get(0), c.Args().Get(1), c.String("template"), time.Now())
			if err != nil {
				printError(err, output, "Failed to scaffold the document")
				return cli.Exit("", 1)
			}

			if path2.FileExists(fs, target) && !c.Bool("force") {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("'%s' already exists, overwrite it", target),
					IsConfirm: true,
					Stdin:     os.Stdin,
				}

				if _, err := prompt.Run(); err != nil {
					fmt.Println("The operation is cancelled.")
					return cli.Exit("", 1)
				}
			}

			if err := path2.WriteFile(fs, target, []byte(rendered)); err != nil {
				printError(err, output, "Failed to write the document")
				return cli.Exit("", 1)
			}

			printSuccessForOutput(output, "Created "+target)
			return nil
		},
	}
}

// checkContent discovers every collection and runs the lint rules over it.
func checkContent(ctx context.Context, afs afero.Fs, cfg *config.Config, log logger.Logger) ([]*content.Set, *lint.AnalysisResult, error) {
	registry, err := cfg.Registry(afs)
	if err != nil {
		return nil, nil, err
	}

	sets, err := content.Discover(ctx, afs, registry)
	if err != nil {
		return nil, nil, err
	}

	result, err := lint.NewLinter(lint.DefaultRules(), log).Lint(ctx, sets)
	if err != nil {
		return nil, nil, err
	}

	return sets, result, nil
}

// syncContent refuses to touch the store while any document has errors.
func syncContent(ctx context.Context, afs afero.Fs, cfg *config.Config, log logger.Logger, runID string) (*store.Run, *lint.AnalysisResult, error) {
	sets, result, err := checkContent(ctx, afs, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if count := result.ErrorCount(); count > 0 {
		return nil, result, errors.Errorf("found %d errors in the content, nothing was synced", count)
	}

	opts, err := cfg.MarkdownOptions()
	if err != nil {
		return nil, result, err
	}

	s, err := store.Open(ctx, cfg.Content.Store)
	if err != nil {
		return nil, result, err
	}
	defer s.Close()

	run, err := store.NewSyncer(s, markdown.New(opts), log).Sync(ctx, runID, sets)
	if err != nil {
		return nil, result, err
	}

	return run, result, nil
}

func scaffoldDocument(afs afero.Fs, registry *content.Registry, collection, slug, templatePath string, now time.Time) (string, string, error) {
	col, ok := registry.Get(collection)
	if !ok {
		return "", "", errors.Errorf("unknown collection '%s', available collections: %v", collection, registry.Names())
	}

	target, err := col.Loader.PathFor(slug)
	if err != nil {
		return "", "", err
	}

	template := jinja.DefaultTemplate(col.Schema)
	if templatePath != "" {
		buf, err := afero.ReadFile(afs, templatePath)
		if err != nil {
			return "", "", errors.Wrapf(err, "failed to read template %s", templatePath)
		}
		template = string(buf)
	}

	rendered, err := jinja.Scaffold(template, jinja.DocumentContext(col.Name, slug, now))
	if err != nil {
		return "", "", err
	}

	return target, rendered, nil
}

func printAnalysis(result *lint.AnalysisResult, output string) error {
	p := &lint.Printer{Out: os.Stdout}
	if output == "json" {
		return p.PrintJSON(result)
	}

	p.PrintIssues(result)
	return nil
}

func entriesTree(entries []store.Entry) string {
	tree := treeprint.NewWithRoot(infoPrinter.Sprintf("%d entries", len(entries)))

	byCollection := lo.GroupBy(entries, func(e store.Entry) string { return e.Collection })
	for _, name := range lo.Uniq(lo.Map(entries, func(e store.Entry, _ int) string { return e.Collection })) {
		branch := tree.AddBranch(name)
		for _, e := range byCollection[name] {
			branch.AddNode(fmt.Sprintf("%s %s", e.ID, faint("("+e.Path+", "+e.UpdatedAt+")")))
		}
	}

	return tree.String()
}
