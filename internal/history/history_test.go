package history

import (
	"bytes"
	"database/sql"
	"strings"
	"testing"
	"time"

	dbpkg "github.com/dtnitsch/portfolio-thumbs/pkg/db"
)

func TestPrintRuns_Empty(t *testing.T) {
	var buf bytes.Buffer
	printRuns(&buf, nil)
	if buf.String() != "No runs found\n" {
		t.Errorf("printRuns(nil) = %q", buf.String())
	}
}

func TestPrintRuns(t *testing.T) {
	runs := []dbpkg.Run{
		{RunID: 2, StartedAt: time.Now(), SourceCount: 4, SuccessCount: 3, FailedCount: 1, Status: "partial_failure", OutputDir: "/public/photos/thumbs"},
		{RunID: 1, StartedAt: time.Now().Add(-time.Hour), SourceCount: 4, SuccessCount: 4, Status: "success", OutputDir: "/public/photos/thumbs"},
	}

	var buf bytes.Buffer
	printRuns(&buf, runs)
	out := buf.String()

	for _, want := range []string{"partial_failure", "Total: 2 runs", "/public/photos/thumbs"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRun(t *testing.T) {
	started := time.Now().Add(-2 * time.Minute)
	run := &dbpkg.Run{
		RunID:        7,
		RunUUID:      "0f8fad5b-d9cb-469f-a165-70867728950e",
		StartedAt:    started,
		FinishedAt:   sql.NullTime{Time: started.Add(1500 * time.Millisecond), Valid: true},
		Settings:     "w600-q72",
		SourceCount:  2,
		SuccessCount: 1,
		FailedCount:  1,
		Status:       "partial_failure",
	}
	results := []dbpkg.RunResult{
		{SourceName: "photo1.png", ThumbPath: "/out/photo1.webp", Status: "success", Width: 600, Height: 450, SizeBytes: 3000, DurationMS: 42},
		{SourceName: "photo2.jpg", Status: "failed", ErrorType: "decode_error", ErrorMessage: "unexpected EOF"},
	}

	var buf bytes.Buffer
	printRun(&buf, run, results)
	out := buf.String()

	for _, want := range []string{
		"Run 7 (0f8fad5b",
		"Took:        1.5s",
		"2 minutes ago",
		"600x450 | 3.0 kB | 42ms",
		"Error: [decode_error] unexpected EOF",
		"Written: 3.0 kB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
