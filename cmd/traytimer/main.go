package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/glizzus/traytimer/internal/duration"
	"github.com/glizzus/traytimer/internal/presenters"
	"github.com/glizzus/traytimer/internal/schedule"
)

func main() {
	app := &cli.App{
		Name:        "traytimer",
		Usage:       "Delayed desktop notifications for tea, water and everything else",
		Description: "Run without a command to start the interactive reminder shell.",
		Action:      run,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Start the reminder shell on standard input",
				Action: run,
			},
			{
				Name:      "parse",
				Usage:     "Parse a duration the way the Sleep dialog does",
				ArgsUsage: "<duration>",
				Action: func(c *cli.Context) error {
					text := strings.Join(c.Args().Slice(), " ")
					d, err := duration.Parse(text)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Fprintf(c.App.Writer, "%s (%d seconds)\n", duration.Format(d), int64(d/time.Second))
					return nil
				},
			},
			{
				Name:  "presets",
				Usage: "Show the configured presets as they appear in the menu",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig()
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					presets, err := loadPresets(cfg.PresetsFile)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					for _, item := range presenters.BuildMenu(presets, nil, time.Now()) {
						if item.Kind == presenters.ItemPreset {
							fmt.Fprintf(c.App.Writer, "%2d) %s\n", item.Index+1, item.Label)
						}
					}
					return nil
				},
			},
			{
				Name:      "next",
				Usage:     "Show the next times a cron expression fires",
				ArgsUsage: "<cron>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "count",
						Usage: "Number of times to show",
						Value: 5,
					},
				},
				Action: func(c *cli.Context) error {
					expr := strings.Join(c.Args().Slice(), " ")
					if err := schedule.ValidateCron(expr); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					times, err := schedule.NextRunTimes(expr, c.Int("count"))
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					for _, t := range times {
						fmt.Fprintln(c.App.Writer, t.Local().Format(time.DateTime))
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Error running traytimer: %v", err)
	}
}
