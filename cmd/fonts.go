package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/withsy/sitekit/pkg/fonts"
	path2 "github.com/withsy/sitekit/pkg/path"
)

func Fonts() *cli.Command {
	return &cli.Command{
		Name:  "fonts",
		Usage: "generate the stylesheet that loads the configured web fonts",
		Flags: []cli.Flag{
			outputFlag,
			&cli.StringFlag{
				Name:  "out",
				Usage: "where the stylesheet is written",
				Value: fonts.DefaultOutput,
			},
			&cli.BoolFlag{
				Name:  "stdout",
				Usage: "print the stylesheet instead of writing it",
			},
		},
		Action: func(c *cli.Context) error {
			output := c.String("output")
			cfg, err := loadConfig(c)
			if err != nil {
				printError(err, output, "Failed to load the configuration")
				return cli.Exit("", 1)
			}

			if len(cfg.Experimental.Fonts) == 0 {
				printWarningForOutput(output, "No fonts are configured.")
				return nil
			}

			css, err := fonts.Stylesheet(cfg.Experimental.Fonts)
			if err != nil {
				printError(err, output, "Failed to generate the stylesheet")
				return cli.Exit("", 1)
			}

			if c.Bool("stdout") {
				fmt.Print(css)
				return nil
			}

			out := c.String("out")
			if err := path2.WriteFile(fs, out, []byte(css)); err != nil {
				printError(err, output, "Failed to write the stylesheet")
				return cli.Exit("", 1)
			}

			printSuccessForOutput(output, fmt.Sprintf("Wrote %d fonts to %s", len(cfg.Experimental.Fonts), out))
			return nil
		},
	}
}
