package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per generate invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid TEXT NOT NULL UNIQUE,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    input_dir TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    settings TEXT NOT NULL,          -- e.g. w600-q72
    source_count INTEGER NOT NULL,
    success_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0,
    skipped_count INTEGER DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'running'   -- running, success, partial_failure, failure
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

-- Run results: per-source outcome within a run
CREATE TABLE IF NOT EXISTS run_results (
    result_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    source_name TEXT NOT NULL,
    thumb_path TEXT,
    status TEXT NOT NULL,            -- success, failed, skipped
    error_type TEXT,
    error_message TEXT,
    width INTEGER DEFAULT 0,
    height INTEGER DEFAULT 0,
    size_bytes INTEGER DEFAULT 0,
    duration_ms INTEGER DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_results_run ON run_results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_status ON run_results(status);

-- Thumbnails: latest fingerprint per source, used to skip unchanged files
CREATE TABLE IF NOT EXISTS thumbnails (
    source_path TEXT PRIMARY KEY,
    source_hash TEXT NOT NULL,
    settings TEXT NOT NULL,
    thumb_path TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size_bytes INTEGER NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`
