package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/withsy/sitekit/pkg/config"
	path2 "github.com/withsy/sitekit/pkg/path"
)

func ConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "manage the site configuration file",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "write the default configuration unless the file already exists",
				Flags: []cli.Flag{outputFlag},
				Action: func(c *cli.Context) error {
					output := c.String("output")
					configPath := config.ResolvePath(c.String("config"))

					if path2.FileExists(fs, configPath) {
						printWarningForOutput(output, fmt.Sprintf("The configuration file '%s' already exists.", configPath))
						return nil
					}

					if _, err := config.LoadOrCreate(fs, configPath); err != nil {
						printError(err, output, "Failed to create the configuration")
						return cli.Exit("", 1)
					}

					printSuccessForOutput(output, "Created "+configPath)
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "check the configuration file",
				Flags: []cli.Flag{outputFlag},
				Action: func(c *cli.Context) error {
					output := c.String("output")
					configPath := config.ResolvePath(c.String("config"))

					cfg, err := config.LoadFromFile(fs, configPath)
					if err != nil {
						printError(err, output, "The configuration is not valid")
						return cli.Exit("", 1)
					}

					if _, err := cfg.Registry(fs); err != nil {
						printError(err, output, "The collection declarations are not valid")
						return cli.Exit("", 1)
					}

					printSuccessForOutput(output, fmt.Sprintf("The configuration file '%s' is valid.", configPath))
					return nil
				},
			},
			{
				Name:  "schema",
				Usage: "print the JSON schema of the configuration file",
				Action: func(c *cli.Context) error {
					schema, err := config.JSONSchema()
					if err != nil {
						printError(err, "plain", "Failed to generate the schema")
						return cli.Exit("", 1)
					}

					fmt.Println(string(schema))
					return nil
				},
			},
		},
	}
}
