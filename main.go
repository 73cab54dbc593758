package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dtnitsch/portfolio-thumbs/internal/common"
	"github.com/dtnitsch/portfolio-thumbs/internal/generate"
	"github.com/dtnitsch/portfolio-thumbs/internal/history"
	"github.com/dtnitsch/portfolio-thumbs/internal/verify"
	"github.com/dtnitsch/portfolio-thumbs/internal/watch"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "portfolio-thumbs",
		Usage:   "generate WebP thumbnails for portfolio photos",
		Version: "0.1.0",
		Flags:   common.GenerateFlags(),
		Action:  generate.GenerateAction,
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "generate thumbnails for every photo<N> source",
				Flags:  common.GenerateFlags(),
				Action: generate.GenerateAction,
			},
			{
				Name:  "watch",
				Usage: "generate, then regenerate thumbnails as sources change",
				Flags: append(common.SharedFlags(),
					&cli.DurationFlag{
						Name:  "debounce",
						Value: 500 * time.Millisecond,
						Usage: "quiet period before a changed file is processed",
					},
					&cli.BoolFlag{
						Name:  "no-initial",
						Usage: "skip the initial full generation",
					},
				),
				Action: watch.WatchAction,
			},
			{
				Name:  "verify",
				Usage: "report missing and stale thumbnails",
				Flags: append(common.SharedFlags(),
					common.FormatFlag(),
					&cli.StringFlag{
						Name:  "page",
						Usage: "gallery HTML page whose photo references must resolve",
					},
					&cli.BoolFlag{
						Name:  "prune",
						Usage: "delete thumbnails whose source is gone",
					},
				),
				Action: verify.VerifyAction,
			},
			{
				Name:  "runs",
				Usage: "list recorded runs",
				Flags: append(common.SharedFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "maximum number of runs to show",
					},
				),
				Action: history.RunsAction,
			},
			{
				Name:      "run",
				Usage:     "show one run, the latest by default",
				ArgsUsage: "[run-id]",
				Flags:     common.SharedFlags(),
				Action:    history.RunAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}
