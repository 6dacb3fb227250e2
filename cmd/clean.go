package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"github.com/withsy/sitekit/pkg/git"
	"github.com/withsy/sitekit/pkg/store"
)

type printer interface {
	Printf(format string, a ...interface{}) (n int, err error)
	Println(a ...interface{}) (n int, err error)
}

func CleanCmd() *cli.Command {
	return &cli.Command{
		Name:      "clean",
		Usage:     "remove the generated artifacts such as the content store",
		ArgsUsage: "[path to project root]",
		Action: func(c *cli.Context) error {
			inputPath := c.Args().Get(0)
			if inputPath == "" {
				inputPath = "."
			}

			r := CleanCommand{
				fs:           fs,
				infoPrinter:  infoPrinter,
				errorPrinter: errorPrinter,
			}

			return r.Run(inputPath)
		},
	}
}

type CleanCommand struct {
	fs           afero.Fs
	infoPrinter  printer
	errorPrinter printer
}

// Run deletes the content store and its journal files under the
// repository root of inputPath.
func (r *CleanCommand) Run(inputPath string) error {
	repoRoot, err := git.FindRepoFromPath(r.fs, inputPath)
	if err != nil {
		r.errorPrinter.Printf("Failed to find the git repository root: %v\n", err)
		return cli.Exit("", 1)
	}

	storePath := filepath.Join(repoRoot.Path, store.DefaultPath)
	contents, err := afero.Glob(r.fs, storePath+"*")
	if err != nil {
		return errors.Wrap(err, "failed to look for the content store")
	}

	if len(contents) == 0 {
		r.infoPrinter.Println("No generated artifacts found, nothing to clean up...")
		return nil
	}

	r.infoPrinter.Printf("Found %d files, cleaning them up...\n", len(contents))

	for _, f := range contents {
		err := r.fs.Remove(f)
		if err != nil {
			return errors.Wrapf(err, "failed to remove file: %s", f)
		}
	}

	r.infoPrinter.Println(fmt.Sprintf("Successfully removed %d files.", len(contents)))

	return nil
}
