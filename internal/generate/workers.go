package generate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dtnitsch/portfolio-thumbs/internal/common"
	"github.com/dtnitsch/portfolio-thumbs/models"
	"github.com/dtnitsch/portfolio-thumbs/pkg/db"
	"github.com/dtnitsch/portfolio-thumbs/pkg/photos"
	"github.com/dtnitsch/portfolio-thumbs/pkg/thumbnail"
)

// Batch fans sources out to a fixed pool of workers.
type Batch struct {
	Logger    *slog.Logger
	Config    *models.Config
	Generator *thumbnail.Generator
	// DB is optional; when set, runs and fingerprints are recorded.
	DB            *db.DB
	SkipUnchanged bool
	// Progress receives one "thumb: <path>" line per written thumbnail.
	Progress io.Writer

	// RunID is set after Run when a database is attached.
	RunID int64

	progressMu sync.Mutex
}

// Run processes every source and returns one Result per source, in source
// order. A failing file never stops its siblings; the returned error only
// says that at least one file failed.
func (b *Batch) Run(ctx context.Context, sources []photos.Source) ([]Result, error) {
	workerCount := b.Config.Workers
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(sources) && len(sources) > 0 {
		workerCount = len(sources)
	}

	b.startRun(len(sources))

	b.Logger.Info("Starting thumbnail generation", "source_count", len(sources), "workers", workerCount,
		"input_dir", b.Config.InputDir, "output_dir", b.Config.OutputDir, "skip_unchanged", b.SkipUnchanged)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(sources))
	results := make(chan Result, len(sources))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go b.worker(ctx, w, &wg, jobs, results)
	}

	byName := make(map[string]Result, len(sources))

	// Sources sharing a thumbnail name (photo1.jpg, photo1.png) would race for
	// one output file; only the last in source order is generated.
	winners := photos.Expected(sources)
	for _, src := range sources {
		if winner := winners[photos.ThumbName(src.Name)]; winner.Path != src.Path {
			b.Logger.Warn("Sources share a thumbnail, keeping the later one", "file", src.Name,
				"kept", winner.Name, "output", b.Generator.OutputPath(src))
			byName[src.Path] = Result{
				Source:     src,
				ThumbPath:  b.Generator.OutputPath(src),
				Skipped:    true,
				ShadowedBy: winner.Name,
			}
			continue
		}
		jobs <- Job{Source: src}
	}
	close(jobs)

	wg.Wait()
	close(results)
	b.Logger.Info("All workers finished")

	for result := range results {
		byName[result.Source.Path] = result
	}

	allResults := make([]Result, 0, len(sources))
	failed := 0
	for _, src := range sources {
		r := byName[src.Path]
		if r.Error != nil {
			failed++
		}
		allResults = append(allResults, r)
	}

	b.finishRun(allResults)

	if failed > 0 {
		return allResults, fmt.Errorf("%d of %d files failed", failed, len(sources))
	}
	return allResults, nil
}

func (b *Batch) worker(ctx context.Context, id int, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		results <- b.process(ctx, id, job.Source)
	}
}

func (b *Batch) process(ctx context.Context, id int, src photos.Source) Result {
	start := time.Now()
	result := Result{
		Source:    src,
		ThumbPath: b.Generator.OutputPath(src),
	}
	b.Logger.Info("Worker started file", "worker_id", id, "file", src.Name)

	var hash string
	if b.DB != nil {
		h, err := common.FileHash(src.Path)
		if err != nil {
			b.Logger.Warn("Failed to hash source, fingerprint skipped", "file", src.Name, "error", err)
		}
		hash = h

		if b.SkipUnchanged && hash != "" && b.unchanged(src, hash, result.ThumbPath) {
			result.Skipped = true
			result.Duration = time.Since(start)
			b.Logger.Info("Source unchanged, skipping", "worker_id", id, "file", src.Name)
			return result
		}
	}

	fileCtx, cancel := context.WithTimeout(ctx, b.Config.Timeout)
	defer cancel()

	thumb, err := b.Generator.Generate(fileCtx, src)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		result.ErrorType = thumbnail.ErrorType(err)
		b.Logger.Error("Failed to generate thumbnail", "worker_id", id, "file", src.Name,
			"error_type", result.ErrorType, "error", err)
		return result
	}
	result.Thumb = thumb

	if b.DB != nil && hash != "" {
		rec := db.ThumbnailRecord{
			SourcePath: src.Path,
			SourceHash: hash,
			Settings:   b.Config.Fingerprint(),
			ThumbPath:  thumb.Path,
			Width:      thumb.Width,
			Height:     thumb.Height,
			SizeBytes:  thumb.SizeBytes,
		}
		if err := b.DB.UpsertThumbnail(rec); err != nil {
			b.Logger.Warn("Failed to store thumbnail fingerprint", "file", src.Name, "error", err)
		}
	}

	b.progress(thumb.Path)
	b.Logger.Info("Thumbnail written", "worker_id", id, "file", src.Name, "output", thumb.Path,
		"width", thumb.Width, "height", thumb.Height, "size_bytes", thumb.SizeBytes, "duration", result.Duration)
	return result
}

// unchanged reports whether the stored fingerprint still describes src and
// the thumbnail on disk.
func (b *Batch) unchanged(src photos.Source, hash, thumbPath string) bool {
	rec, found, err := b.DB.GetThumbnail(src.Path)
	if err != nil {
		b.Logger.Warn("Failed to read thumbnail fingerprint", "file", src.Name, "error", err)
		return false
	}
	if !found || rec.SourceHash != hash || rec.Settings != b.Config.Fingerprint() || rec.ThumbPath != thumbPath {
		return false
	}
	stats, err := b.Generator.Storage.GetFileStats(thumbPath)
	return err == nil && stats.SizeBytes == rec.SizeBytes
}

func (b *Batch) progress(path string) {
	if b.Progress == nil {
		return
	}
	b.progressMu.Lock()
	defer b.progressMu.Unlock()
	fmt.Fprintf(b.Progress, "thumb: %s\n", path)
}

func (b *Batch) startRun(sourceCount int) {
	b.RunID = 0
	if b.DB == nil {
		return
	}
	runID, err := b.DB.CreateRun(b.Config.InputDir, b.Config.OutputDir, b.Config.Fingerprint(), sourceCount)
	if err != nil {
		b.Logger.Warn("Failed to record run start", "error", err)
		return
	}
	b.RunID = runID
}

func (b *Batch) finishRun(results []Result) {
	if b.DB == nil || b.RunID == 0 {
		return
	}

	for _, r := range results {
		rr := db.RunResult{
			SourceName: r.Source.Name,
			ThumbPath:  r.ThumbPath,
			Status:     r.Status(),
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Error != nil {
			rr.ErrorType = r.ErrorType
			rr.ErrorMessage = r.Error.Error()
		} else {
			rr.Width = r.Thumb.Width
			rr.Height = r.Thumb.Height
			rr.SizeBytes = r.Thumb.SizeBytes
		}
		if err := b.DB.InsertRunResult(b.RunID, rr); err != nil {
			b.Logger.Warn("Failed to insert run result", "file", r.Source.Name, "error", err)
		}
	}

	stats := BuildStats(results, 0)
	if err := b.DB.FinishRun(b.RunID, stats.Successful, stats.Failed, stats.Skipped, RunStatus(stats)); err != nil {
		b.Logger.Warn("Failed to record run finish", "error", err)
	}
}
