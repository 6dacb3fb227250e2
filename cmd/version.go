package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Go      string `json:"go"`
}

func VersionCmd(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version of sitekit",
		Flags: []cli.Flag{outputFlag},
		Action: func(c *cli.Context) error {
			version := c.App.Version
			outputFormat := c.String("output")

			if outputFormat == "json" {
				outputString, err := json.Marshal(
					VersionInfo{version, commit, runtime.Version()},
				)
				if err != nil {
					return errors.Wrap(err, "failed to marshal the output")
				}
				fmt.Println(string(outputString))

				return nil
			}

			fmt.Printf("Current: %s (%s)\n", version, commit)
			fmt.Printf("Built with %s\n", runtime.Version())
			return nil
		},
	}
}
