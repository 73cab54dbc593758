// Package history prints the generate runs recorded in the database.
package history

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	dbpkg "github.com/dtnitsch/portfolio-thumbs/pkg/db"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

func RunsAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	printRuns(os.Stdout, runs)
	return nil
}

func printRuns(w io.Writer, runs []dbpkg.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-8s %-8s %-8s %-8s %-16s %-30s\n",
		"ID", "Started", "Sources", "Success", "Failed", "Skipped", "Status", "Output Dir")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range runs {
		fmt.Fprintf(w, "%-6d %-20s %-8d %-8d %-8d %-8d %-16s %-30s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.SourceCount,
			r.SuccessCount,
			r.FailedCount,
			r.SkippedCount,
			r.Status,
			r.OutputDir,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'portfolio-thumbs run <id>' to see details\n")
}

// RunAction shows details for one run, the latest when no ID is given.
func RunAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	results, err := database.GetRunResults(runID)
	if err != nil {
		return fmt.Errorf("failed to get run results: %w", err)
	}

	printRun(os.Stdout, run, results)
	return nil
}

func printRun(w io.Writer, run *dbpkg.Run, results []dbpkg.RunResult) {
	fmt.Fprintf(w, "Run %d (%s)\n", run.RunID, run.RunUUID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Started:     %s (%s)\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.StartedAt))
	if run.FinishedAt.Valid {
		fmt.Fprintf(w, "Took:        %s\n", run.FinishedAt.Time.Sub(run.StartedAt).Round(time.Millisecond))
	}
	fmt.Fprintf(w, "Input:       %s\n", run.InputDir)
	fmt.Fprintf(w, "Output:      %s\n", run.OutputDir)
	fmt.Fprintf(w, "Settings:    %s\n", run.Settings)
	fmt.Fprintf(w, "Status:      %s\n", run.Status)
	fmt.Fprintf(w, "Sources:     %d total (%d success, %d failed, %d skipped)\n",
		run.SourceCount, run.SuccessCount, run.FailedCount, run.SkippedCount)

	if len(results) == 0 {
		return
	}

	var written int64
	fmt.Fprintf(w, "\nResults (%d):\n", len(results))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for i, r := range results {
		fmt.Fprintf(w, "%2d. [%s] %s\n", i+1, r.Status, r.SourceName)
		switch r.Status {
		case "failed":
			fmt.Fprintf(w, "    Error: [%s] %s\n", r.ErrorType, r.ErrorMessage)
		case "success":
			written += r.SizeBytes
			fmt.Fprintf(w, "    %s | %dx%d | %s | %dms\n",
				r.ThumbPath, r.Width, r.Height, humanize.Bytes(uint64(r.SizeBytes)), r.DurationMS)
		}
	}
	fmt.Fprintf(w, "\nWritten: %s\n", humanize.Bytes(uint64(written)))
}
