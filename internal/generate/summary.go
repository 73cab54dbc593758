package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/portfolio-thumbs/internal/common"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// BuildStats counts outcomes over results.
func BuildStats(results []Result, elapsed time.Duration) Stats {
	stats := Stats{
		Total:            len(results),
		TotalTimeSeconds: elapsed.Seconds(),
	}
	for _, r := range results {
		switch r.Status() {
		case "failed":
			stats.Failed++
		case "skipped":
			stats.Skipped++
		default:
			stats.Successful++
			stats.BytesWritten += r.Thumb.SizeBytes
		}
	}
	stats.BytesWrittenText = humanize.Bytes(uint64(stats.BytesWritten))
	return stats
}

// RunStatus is success when nothing failed, failure when every attempted
// file failed, and partial_failure otherwise.
func RunStatus(stats Stats) string {
	switch {
	case stats.Failed == 0:
		return "success"
	case stats.Failed == stats.Total-stats.Skipped:
		return "failure"
	default:
		return "partial_failure"
	}
}

// ExitCode maps a run status to the process exit code.
func ExitCode(stats Stats) int {
	switch RunStatus(stats) {
	case "success":
		return 0
	case "failure":
		return 2
	default:
		return 1
	}
}

func BuildResultOutput(r Result) ResultOutput {
	out := ResultOutput{
		Source:     r.Source.Name,
		Thumbnail:  r.ThumbPath,
		Status:     r.Status(),
		ShadowedBy: r.ShadowedBy,
	}
	if r.Error != nil {
		out.Thumbnail = ""
		out.Error = r.Error.Error()
		out.ErrorType = r.ErrorType
		return out
	}
	out.Width = r.Thumb.Width
	out.Height = r.Thumb.Height
	out.SizeBytes = r.Thumb.SizeBytes
	return out
}

// BuildFinalOutput assembles the report printed at the end of a run.
func BuildFinalOutput(results []Result, elapsed time.Duration, runID int64) *FinalOutput {
	stats := BuildStats(results, elapsed)
	outputs := make([]ResultOutput, 0, len(results))
	for _, r := range results {
		outputs = append(outputs, BuildResultOutput(r))
	}
	return &FinalOutput{
		Status:  RunStatus(stats),
		RunID:   runID,
		Results: outputs,
		Stats:   stats,
	}
}

// collectFailedFiles extracts failed sources from results.
func collectFailedFiles(results []Result) []FailedFile {
	var failed []FailedFile
	for _, r := range results {
		if r.Error == nil {
			continue
		}
		errorType := r.ErrorType
		if errorType == "" {
			errorType = "unknown_error"
		}
		failed = append(failed, FailedFile{
			Source:       r.Source.Name,
			ErrorType:    errorType,
			ErrorMessage: r.Error.Error(),
		})
	}
	return failed
}

// WriteReport writes the final output as YAML to reportPath, and the failed
// sources to failed-files.yaml next to it when there are any.
func WriteReport(reportPath string, output *FinalOutput, results []Result) error {
	if dir := filepath.Dir(reportPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := common.Marshal(output, "yaml")
	if err != nil {
		return fmt.Errorf("failed to marshal report to YAML: %w", err)
	}
	if err := os.WriteFile(reportPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return WriteFailedFiles(collectFailedFiles(results), filepath.Dir(reportPath))
}

// WriteFailedFiles writes failed sources to failed-files.yaml in dir.
func WriteFailedFiles(failed []FailedFile, dir string) error {
	if len(failed) == 0 {
		return nil // No failures, skip writing file
	}

	yamlBytes, err := yaml.Marshal(&FailedFiles{FailedFiles: failed})
	if err != nil {
		return fmt.Errorf("failed to marshal failed files to YAML: %w", err)
	}

	outputPath := filepath.Join(dir, "failed-files.yaml")
	if err := os.WriteFile(outputPath, yamlBytes, 0600); err != nil {
		return fmt.Errorf("failed to write failed files file: %w", err)
	}
	return nil
}
