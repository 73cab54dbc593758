package generate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/portfolio-thumbs/pkg/photos"
	"github.com/dtnitsch/portfolio-thumbs/pkg/thumbnail"
	"gopkg.in/yaml.v3"
)

func sampleResults() []Result {
	return []Result{
		{
			Source:    photos.Source{Name: "photo1.png"},
			ThumbPath: "/out/photo1.webp",
			Thumb:     thumbnail.Thumbnail{Path: "/out/photo1.webp", Width: 600, Height: 450, SizeBytes: 2048},
		},
		{
			Source:    photos.Source{Name: "photo2.jpg"},
			ThumbPath: "/out/photo2.webp",
			Error:     errors.New("decode_error: unexpected EOF"),
			ErrorType: thumbnail.ErrTypeDecode,
		},
		{
			Source:    photos.Source{Name: "photo3.webp"},
			ThumbPath: "/out/photo3.webp",
			Skipped:   true,
		},
	}
}

func TestRunStatus(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  string
		code  int
	}{
		{name: "nothing to do", stats: Stats{}, want: "success", code: 0},
		{name: "all good", stats: Stats{Total: 2, Successful: 2}, want: "success", code: 0},
		{name: "some failed", stats: Stats{Total: 3, Successful: 2, Failed: 1}, want: "partial_failure", code: 1},
		{name: "all failed", stats: Stats{Total: 2, Failed: 2}, want: "failure", code: 2},
		{name: "failed plus skipped", stats: Stats{Total: 3, Failed: 2, Skipped: 1}, want: "failure", code: 2},
		{name: "only skipped", stats: Stats{Total: 2, Skipped: 2}, want: "success", code: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RunStatus(tt.stats); got != tt.want {
				t.Errorf("RunStatus() = %q, want %q", got, tt.want)
			}
			if got := ExitCode(tt.stats); got != tt.code {
				t.Errorf("ExitCode() = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestBuildFinalOutput(t *testing.T) {
	out := BuildFinalOutput(sampleResults(), 1500*time.Millisecond, 7)

	if out.Status != "partial_failure" {
		t.Errorf("Status = %q, want partial_failure", out.Status)
	}
	if out.RunID != 7 {
		t.Errorf("RunID = %d, want 7", out.RunID)
	}
	if out.Stats.Successful != 1 || out.Stats.Failed != 1 || out.Stats.Skipped != 1 {
		t.Errorf("Stats = %+v", out.Stats)
	}
	if out.Stats.BytesWritten != 2048 || out.Stats.BytesWrittenText != "2.0 kB" {
		t.Errorf("BytesWritten = %d (%s)", out.Stats.BytesWritten, out.Stats.BytesWrittenText)
	}

	failed := out.Results[1]
	if failed.Status != "failed" || failed.ErrorType != thumbnail.ErrTypeDecode || failed.Thumbnail != "" {
		t.Errorf("failed output = %+v", failed)
	}
	ok := out.Results[0]
	if ok.Width != 600 || ok.Height != 450 || ok.Thumbnail != "/out/photo1.webp" {
		t.Errorf("success output = %+v", ok)
	}
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	reportPath := filepath.Join(dir, "last-run.yaml")
	results := sampleResults()

	if err := WriteReport(reportPath, BuildFinalOutput(results, time.Second, 0), results); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var parsed FinalOutput
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("report is not valid YAML: %v", err)
	}
	if parsed.Stats.Total != 3 {
		t.Errorf("parsed Stats.Total = %d, want 3", parsed.Stats.Total)
	}

	failedData, err := os.ReadFile(filepath.Join(dir, "failed-files.yaml"))
	if err != nil {
		t.Fatalf("failed-files.yaml not written: %v", err)
	}
	if !strings.Contains(string(failedData), "photo2.jpg") || !strings.Contains(string(failedData), "decode_error") {
		t.Errorf("failed-files.yaml = %s", failedData)
	}
}

func TestWriteFailedFiles_NoFailures(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFailedFiles(nil, dir); err != nil {
		t.Fatalf("WriteFailedFiles() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "failed-files.yaml")); !os.IsNotExist(err) {
		t.Error("failed-files.yaml written with no failures")
	}
}
