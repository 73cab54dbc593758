package generate

import (
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/portfolio-thumbs/internal/common"
	"github.com/dtnitsch/portfolio-thumbs/pkg/db"
	"github.com/dtnitsch/portfolio-thumbs/pkg/photos"
	"github.com/dtnitsch/portfolio-thumbs/pkg/storage"
	"github.com/dtnitsch/portfolio-thumbs/pkg/thumbnail"
	"github.com/urfave/cli/v2"
)

func GenerateAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	startTime := time.Now()

	cfg, err := common.ConfigFromContext(c)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	// The output directory must exist before any file is touched
	s := &storage.Storage{}
	if err := s.EnsureDir(cfg.OutputDir); err != nil {
		logger.Error("failed to create output directory", "output_dir", cfg.OutputDir, "error", err)
		return cli.Exit(fmt.Sprintf("cannot create output directory %s: %v", cfg.OutputDir, err), 2)
	}

	sources, err := photos.List(cfg.InputDir)
	if err != nil {
		logger.Error("failed to list input directory", "input_dir", cfg.InputDir, "error", err)
		return cli.Exit(err.Error(), 2)
	}

	var database *db.DB
	if cfg.DBPath != "" {
		database, err = db.Open(cfg.DBPath)
		if err != nil {
			logger.Error("failed to open database", "db_path", cfg.DBPath, "error", err)
			return cli.Exit(err.Error(), 2)
		}
		defer database.Close()
	}

	skipUnchanged := c.Bool("skip-unchanged")
	if skipUnchanged && database == nil {
		logger.Warn("--skip-unchanged needs --db; every file will be regenerated")
		skipUnchanged = false
	}

	gen := thumbnail.NewGenerator(cfg.OutputDir, cfg.MaxWidth, cfg.Quality)
	gen.Storage = s

	// stdout carries either the progress lines (report goes to a file) or
	// the structured report alone, never both
	progress := c.App.ErrWriter
	if cfg.ReportPath != "" {
		progress = c.App.Writer
	}

	batch := &Batch{
		Logger:        logger,
		Config:        cfg,
		Generator:     gen,
		DB:            database,
		SkipUnchanged: skipUnchanged,
		Progress:      progress,
	}
	results, runErr := batch.Run(c.Context, sources)
	if runErr != nil {
		logger.Warn("run finished with failures", "error", runErr)
	}

	finalOutput := BuildFinalOutput(results, time.Since(startTime), batch.RunID)

	printReport := cfg.ReportPath == ""
	if !printReport {
		if err := WriteReport(cfg.ReportPath, finalOutput, results); err != nil {
			logger.Error("Failed to write report, printing it instead", "report_path", cfg.ReportPath, "error", err)
			printReport = true
		}
	}

	if printReport {
		outputData, marshalErr := common.Marshal(finalOutput, strings.ToLower(c.String("format")))
		if marshalErr != nil {
			logger.Error("failed to marshal final output", "error", marshalErr)
			return cli.Exit(marshalErr.Error(), 2)
		}
		fmt.Fprintln(c.App.Writer, string(outputData))
	}

	if code := ExitCode(finalOutput.Stats); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}
