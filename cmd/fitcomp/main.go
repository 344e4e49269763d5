package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func newCLI() *cli.App {
	return &cli.App{
		Name:  "fitcomp",
		Usage: "competition scoring administration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"FITCOMP_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			recomputeCommand(),
			statsCommand(),
			exportCommand(),
			chartCommand(),
			workoutCommand(),
		},
	}
}

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
