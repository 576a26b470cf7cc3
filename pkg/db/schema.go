package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Key/value store: settings and the link list, each value JSON encoded
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Review history: every classification attempt
CREATE TABLE IF NOT EXISTS review_history (
    review_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT,
    url TEXT NOT NULL,
    link_index INTEGER NOT NULL,
    status TEXT,
    raw_text TEXT,
    language TEXT,
    error TEXT,
    reviewed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_review_history_url ON review_history(url);
CREATE INDEX IF NOT EXISTS idx_review_history_run ON review_history(run_id);
CREATE INDEX IF NOT EXISTS idx_review_history_time ON review_history(reviewed_at DESC);
`
