package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ThumbnailRecord is the stored fingerprint of the last successful generation
// for a source file.
type ThumbnailRecord struct {
	SourcePath string
	SourceHash string
	Settings   string
	ThumbPath  string
	Width      int
	Height     int
	SizeBytes  int64
	UpdatedAt  time.Time
}

// UpsertThumbnail stores or replaces the fingerprint for a source.
func (db *DB) UpsertThumbnail(rec ThumbnailRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	_, err := db.Exec(`
		INSERT INTO thumbnails (source_path, source_hash, settings, thumb_path, width, height, size_bytes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_path) DO UPDATE SET
			source_hash = excluded.source_hash,
			settings = excluded.settings,
			thumb_path = excluded.thumb_path,
			width = excluded.width,
			height = excluded.height,
			size_bytes = excluded.size_bytes,
			updated_at = excluded.updated_at
	`, rec.SourcePath, rec.SourceHash, rec.Settings, rec.ThumbPath, rec.Width, rec.Height, rec.SizeBytes, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert thumbnail: %w", err)
	}
	return nil
}

// GetThumbnail returns the fingerprint for sourcePath; found is false when
// the source has never been generated.
func (db *DB) GetThumbnail(sourcePath string) (rec ThumbnailRecord, found bool, err error) {
	err = db.QueryRow(`
		SELECT source_path, source_hash, settings, thumb_path, width, height, size_bytes, updated_at
		FROM thumbnails
		WHERE source_path = ?
	`, sourcePath).Scan(&rec.SourcePath, &rec.SourceHash, &rec.Settings, &rec.ThumbPath,
		&rec.Width, &rec.Height, &rec.SizeBytes, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ThumbnailRecord{}, false, nil
	}
	if err != nil {
		return ThumbnailRecord{}, false, fmt.Errorf("failed to get thumbnail: %w", err)
	}
	return rec, true, nil
}

// DeleteThumbnailsByThumbPath drops fingerprints pointing at a removed thumbnail.
func (db *DB) DeleteThumbnailsByThumbPath(thumbPath string) error {
	if _, err := db.Exec("DELETE FROM thumbnails WHERE thumb_path = ?", thumbPath); err != nil {
		return fmt.Errorf("failed to delete thumbnail: %w", err)
	}
	return nil
}
