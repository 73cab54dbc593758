// Package thumbnail turns one gallery source image into its WebP preview.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dtnitsch/portfolio-thumbs/pkg/codec"
	"github.com/dtnitsch/portfolio-thumbs/pkg/photos"
	"github.com/dtnitsch/portfolio-thumbs/pkg/storage"
)

// Error types recorded in reports and the run history.
const (
	ErrTypeOpen    = "open_error"
	ErrTypeDecode  = "decode_error"
	ErrTypeEncode  = "encode_error"
	ErrTypeWrite   = "write_error"
	ErrTypeTimeout = "timeout"
)

// StageError tags a pipeline failure with the stage it happened in.
type StageError struct {
	Type string
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ErrorType returns the stage tag of err, or "unknown_error".
func ErrorType(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Type
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTypeTimeout
	}
	return "unknown_error"
}

// Thumbnail describes a written preview.
type Thumbnail struct {
	Path      string
	Width     int
	Height    int
	SizeBytes int64
}

// Generator runs decode, resize, encode and write for a single source.
type Generator struct {
	OutputDir string
	MaxWidth  int
	Quality   int
	Codec     codec.Codec
	Storage   *storage.Storage
}

// NewGenerator returns a Generator backed by the WebP codec.
func NewGenerator(outputDir string, maxWidth, quality int) *Generator {
	return &Generator{
		OutputDir: outputDir,
		MaxWidth:  maxWidth,
		Quality:   quality,
		Codec:     codec.WebP{},
		Storage:   &storage.Storage{},
	}
}

// OutputPath returns where the thumbnail for src is written.
func (g *Generator) OutputPath(src photos.Source) string {
	return filepath.Join(g.OutputDir, photos.ThumbName(src.Name))
}

// Generate writes the thumbnail for src. The context deadline is checked
// between stages and once more before the file is renamed into place.
func (g *Generator) Generate(ctx context.Context, src photos.Source) (Thumbnail, error) {
	if err := checkDeadline(ctx); err != nil {
		return Thumbnail{}, err
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return Thumbnail{}, &StageError{Type: ErrTypeOpen, Err: err}
	}
	img, err := g.Codec.Decode(f)
	_ = f.Close()
	if err != nil {
		return Thumbnail{}, &StageError{Type: ErrTypeDecode, Err: err}
	}
	if err := checkDeadline(ctx); err != nil {
		return Thumbnail{}, err
	}

	img = g.Codec.Resize(img, g.MaxWidth)
	if err := checkDeadline(ctx); err != nil {
		return Thumbnail{}, err
	}

	out := g.OutputPath(src)
	var encodeErr error
	n, err := g.Storage.WriteAtomic(out, func(w io.Writer) error {
		if err := g.Codec.Encode(w, img, g.Quality); err != nil {
			encodeErr = &StageError{Type: ErrTypeEncode, Err: err}
			return encodeErr
		}
		return nil
	}, func() error {
		return checkDeadline(ctx)
	})
	if err != nil {
		if encodeErr != nil {
			return Thumbnail{}, encodeErr
		}
		var se *StageError
		if errors.As(err, &se) {
			return Thumbnail{}, err
		}
		return Thumbnail{}, &StageError{Type: ErrTypeWrite, Err: err}
	}

	b := img.Bounds()
	return Thumbnail{
		Path:      out,
		Width:     b.Dx(),
		Height:    b.Dy(),
		SizeBytes: n,
	}, nil
}

func checkDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Type: ErrTypeTimeout, Err: err}
	}
	return nil
}
