package verify

import (
	"fmt"

	"github.com/dtnitsch/portfolio-thumbs/internal/common"
	"github.com/dtnitsch/portfolio-thumbs/pkg/db"
	"github.com/urfave/cli/v2"
)

// VerifyAction reports missing and stale thumbnails. It exits 1 when any
// problem remains after an optional prune.
func VerifyAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.ConfigFromContext(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	report, err := Check(cfg.InputDir, cfg.OutputDir)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	if page := c.String("page"); page != "" {
		if err := CheckPage(c.Context, report, page, cfg.OutputDir); err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}

	if c.Bool("prune") && len(report.Stale) > 0 {
		var onRemove func(string) error
		if cfg.DBPath != "" {
			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			defer database.Close()
			onRemove = database.DeleteThumbnailsByThumbPath
		}
		if err := Prune(report, cfg.OutputDir, onRemove); err != nil {
			return cli.Exit(err.Error(), 2)
		}
		logger.Info("Pruned stale thumbnails", "count", len(report.Pruned))
	}

	data, err := common.Marshal(report, c.String("format"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	fmt.Println(string(data))

	if !report.OK() {
		return cli.Exit("", 1)
	}
	return nil
}
