package generate

import (
	"time"

	"github.com/dtnitsch/portfolio-thumbs/pkg/photos"
	"github.com/dtnitsch/portfolio-thumbs/pkg/thumbnail"
)

type Job struct {
	Source photos.Source
}

// Result holds the outcome of a processed job.
type Result struct {
	Source    photos.Source
	ThumbPath string
	Thumb     thumbnail.Thumbnail
	Error     error
	ErrorType string
	Skipped   bool
	// ShadowedBy names the later source that owns the same thumbnail.
	ShadowedBy string
	Duration   time.Duration
}

// Status returns success, failed or skipped.
func (r Result) Status() string {
	switch {
	case r.Error != nil:
		return "failed"
	case r.Skipped:
		return "skipped"
	default:
		return "success"
	}
}

// ResultOutput is the structured output for a single source file.
type ResultOutput struct {
	Source    string `json:"source" yaml:"source"`
	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	Status    string `json:"status" yaml:"status"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	Width     int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height    int    `json:"height,omitempty" yaml:"height,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	// ShadowedBy is set when a later source with the same stem owns the thumbnail.
	ShadowedBy string `json:"shadowed_by,omitempty" yaml:"shadowed_by,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string         `json:"status" yaml:"status"`
	RunID   int64          `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Results []ResultOutput `json:"results" yaml:"results"`
	Stats   Stats          `json:"stats" yaml:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	Total            int     `json:"total" yaml:"total"`
	Successful       int     `json:"successful" yaml:"successful"`
	Failed           int     `json:"failed" yaml:"failed"`
	Skipped          int     `json:"skipped" yaml:"skipped"`
	TotalTimeSeconds float64 `json:"total_time_seconds" yaml:"total_time_seconds"`
	BytesWritten     int64   `json:"bytes_written" yaml:"bytes_written"`
	BytesWrittenText string  `json:"bytes_written_human" yaml:"bytes_written_human"`
}

// FailedFile represents a source that failed during processing.
type FailedFile struct {
	Source       string `yaml:"source"`
	ErrorType    string `yaml:"error_type"` // open_error, decode_error, encode_error, write_error, timeout
	ErrorMessage string `yaml:"error_message"`
}

// FailedFiles wraps the list of failed sources for YAML output.
type FailedFiles struct {
	FailedFiles []FailedFile `yaml:"failed_files"`
}
