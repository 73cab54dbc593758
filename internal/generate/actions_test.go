package generate

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/portfolio-thumbs/internal/common"
	"github.com/urfave/cli/v2"
)

func runGenerate(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := &cli.App{
		Name:           "portfolio-thumbs",
		Flags:          common.GenerateFlags(),
		Action:         GenerateAction,
		Writer:         &out,
		ErrWriter:      &errOut,
		ExitErrHandler: func(*cli.Context, error) {},
	}
	err := app.Run(append([]string{"portfolio-thumbs", "--quiet"}, args...))

	code = 0
	if err != nil {
		var ec cli.ExitCoder
		if !errors.As(err, &ec) {
			t.Fatalf("app.Run() returned non-exit error: %v", err)
		}
		code = ec.ExitCode()
	}
	return out.String(), errOut.String(), code
}

func TestGenerateAction_OutputDirCannotBeCreated(t *testing.T) {
	f := newFixture(t)
	f.image(t, "photo1.png", 40, 30)
	blocker := filepath.Join(f.in, "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, code := runGenerate(t, "--input", f.in, "--output", filepath.Join(blocker, "thumbs"))
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing processed", stdout)
	}
}

func TestGenerateAction_MissingInputDir(t *testing.T) {
	root := t.TempDir()
	_, _, code := runGenerate(t, "--input", filepath.Join(root, "missing"), "--output", filepath.Join(root, "thumbs"))
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestGenerateAction_PartialFailure(t *testing.T) {
	f := newFixture(t)
	f.image(t, "photo1.png", 800, 600)
	f.raw(t, "photo2.jpg", "corrupt")

	stdout, stderr, code := runGenerate(t, "--input", f.in, "--output", f.out)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}

	// stdout holds only the report, so it parses as JSON
	var report FinalOutput
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("stdout is not a JSON report: %v\n%s", err, stdout)
	}
	if report.Status != "partial_failure" || report.Stats.Failed != 1 || report.Stats.Successful != 1 {
		t.Errorf("report = %+v", report)
	}
	if !strings.Contains(stderr, "thumb: "+filepath.Join(f.out, "photo1.webp")) {
		t.Errorf("stderr missing progress line:\n%s", stderr)
	}
}

func TestGenerateAction_AllFailed(t *testing.T) {
	f := newFixture(t)
	f.raw(t, "photo1.png", "corrupt")
	f.raw(t, "photo2.png", "also corrupt")

	_, _, code := runGenerate(t, "--input", f.in, "--output", f.out)
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestGenerateAction_ReportFileKeepsProgressOnStdout(t *testing.T) {
	f := newFixture(t)
	f.image(t, "photo1.png", 300, 200)
	f.image(t, "photo2.png", 900, 300)
	reportPath := filepath.Join(t.TempDir(), "last-run.yaml")

	stdout, _, code := runGenerate(t, "--input", f.in, "--output", filepath.Join(f.in, "new", "thumbs"),
		"--report", reportPath)
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("stdout = %q, want two progress lines", stdout)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "thumb: ") {
			t.Errorf("unexpected stdout line %q", line)
		}
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Errorf("report not written: %v", err)
	}
	if names := outputNames(t, filepath.Join(f.in, "new", "thumbs")); len(names) != 2 {
		t.Errorf("output dir = %v, want two thumbnails", names)
	}
}

func TestGenerateAction_EmptyInput(t *testing.T) {
	f := newFixture(t)
	stdout, _, code := runGenerate(t, "--input", f.in, "--output", f.out, "--format", "yaml")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, "status: success") {
		t.Errorf("stdout = %q, want YAML success report", stdout)
	}
}
