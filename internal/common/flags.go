package common

import (
	"github.com/dtnitsch/portfolio-thumbs/models"
	"github.com/urfave/cli/v2"
)

// SharedFlags returns the flags every command accepts. Defaults are shown in
// help; a flag only overrides the config file when it is set.
// Each call returns fresh flags since urfave/cli records set state on them.
func SharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file",
			EnvVars: []string{"THUMBS_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Value:   models.DefaultInputDir,
			Usage:   "directory holding photo<N> sources",
			EnvVars: []string{"THUMBS_INPUT_DIR"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   models.DefaultOutputDir,
			Usage:   "directory for generated thumbnails",
			EnvVars: []string{"THUMBS_OUTPUT_DIR"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Value:   models.DefaultWorkers,
			Usage:   "number of concurrent workers",
			EnvVars: []string{"THUMBS_WORKERS"},
		},
		&cli.IntFlag{
			Name:    "max-width",
			Value:   models.DefaultMaxWidth,
			Usage:   "maximum thumbnail width in pixels",
			EnvVars: []string{"THUMBS_MAX_WIDTH"},
		},
		&cli.IntFlag{
			Name:    "quality",
			Value:   models.DefaultQuality,
			Usage:   "WebP quality (1-100)",
			EnvVars: []string{"THUMBS_QUALITY"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Value:   models.DefaultTimeout,
			Usage:   "per-file processing timeout",
			EnvVars: []string{"THUMBS_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "db",
			Usage:   "SQLite run history database (disabled when empty)",
			EnvVars: []string{"THUMBS_DB"},
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only log errors",
		},
	}
}

// FormatFlag selects how reports are printed.
func FormatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Value: "json",
		Usage: "output format: json or yaml",
	}
}

// GenerateFlags returns SharedFlags plus the generate-only flags.
func GenerateFlags() []cli.Flag {
	return append(SharedFlags(),
		FormatFlag(),
		&cli.StringFlag{
			Name:    "report",
			Usage:   "write the final report as YAML to this path instead of stdout",
			EnvVars: []string{"THUMBS_REPORT"},
		},
		&cli.BoolFlag{
			Name:  "skip-unchanged",
			Usage: "skip sources whose content and settings match the last run (needs --db)",
		},
	)
}
