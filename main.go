package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/withsy/sitekit/cmd"
	"github.com/withsy/sitekit/pkg/config"
)

var (
	version = "dev"
	commit  = ""
)

func main() {
	isDebug := false

	versionCommand := cmd.VersionCmd(commit)

	cli.VersionPrinter = func(cCtx *cli.Context) {
		err := versionCommand.Action(cCtx)
		if err != nil {
			panic(err)
		}
	}

	app := &cli.App{
		Name:     "sitekit",
		Version:  version,
		Usage:    "The build toolchain of the site: icons, content collections and configuration",
		Compiled: time.Now(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "debug",
				Value:       false,
				Usage:       "show debug information",
				Destination: &isDebug,
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the site configuration file",
				EnvVars: []string{config.EnvConfigPath},
				Value:   config.DefaultFileName,
			},
		},
		Commands: []*cli.Command{
			cmd.Icons(&isDebug),
			cmd.Content(&isDebug),
			cmd.ConfigCmd(),
			cmd.Fonts(),
			cmd.CleanCmd(),
			versionCommand,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = app.RunContext(ctx, os.Args)
}
