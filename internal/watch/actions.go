package watch

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/portfolio-thumbs/internal/common"
	"github.com/dtnitsch/portfolio-thumbs/internal/generate"
	"github.com/dtnitsch/portfolio-thumbs/pkg/db"
	"github.com/dtnitsch/portfolio-thumbs/pkg/photos"
	"github.com/dtnitsch/portfolio-thumbs/pkg/storage"
	"github.com/dtnitsch/portfolio-thumbs/pkg/thumbnail"
	"github.com/urfave/cli/v2"
)

// WatchAction generates everything once, then keeps thumbnails in sync
// until interrupted.
func WatchAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.ConfigFromContext(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	s := &storage.Storage{}
	if err := s.EnsureDir(cfg.OutputDir); err != nil {
		return cli.Exit(fmt.Sprintf("cannot create output directory %s: %v", cfg.OutputDir, err), 2)
	}

	var database *db.DB
	if cfg.DBPath != "" {
		database, err = db.Open(cfg.DBPath)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		defer database.Close()
	}

	gen := thumbnail.NewGenerator(cfg.OutputDir, cfg.MaxWidth, cfg.Quality)
	gen.Storage = s
	batch := &generate.Batch{
		Logger:        logger,
		Config:        cfg,
		Generator:     gen,
		DB:            database,
		SkipUnchanged: database != nil,
		Progress:      os.Stdout,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !c.Bool("no-initial") {
		sources, err := photos.List(cfg.InputDir)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		if _, err := batch.Run(ctx, sources); err != nil {
			logger.Warn("initial pass finished with failures", "error", err)
		}
	}

	w, err := New(cfg.InputDir, batch, logger, c.Duration("debounce"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return cli.Exit(err.Error(), 2)
	}

	stats := w.Stats()
	fmt.Printf("Watched %d events: %d regenerated, %d failed\n", stats.Events, stats.Regenerated, stats.Failed)
	return nil
}
