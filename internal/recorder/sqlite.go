package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the build log to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id          TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			indices     INTEGER,
			watchlist   INTEGER,
			movers      INTEGER,
			failed      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordBuild(rec *BuildRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT OR REPLACE INTO builds
		(id, started_at, duration_ns, indices, watchlist, movers, failed)
		VALUES (?,?,?,?,?,?,?)`,
		rec.ID, rec.StartedAt.UnixNano(), int64(rec.Duration),
		rec.Indices, rec.Watchlist, rec.Movers, strings.Join(rec.Failed, ","),
	)
	return err
}

// RecentBuilds returns up to limit records, newest first.
func (r *SQLiteRecorder) RecentBuilds(limit int) ([]BuildRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, started_at, duration_ns, indices, watchlist, movers, failed
		FROM builds ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	records := []BuildRecord{}
	for rows.Next() {
		var (
			rec       BuildRecord
			startedAt int64
			duration  int64
			failed    string
		)
		if err := rows.Scan(&rec.ID, &startedAt, &duration, &rec.Indices, &rec.Watchlist, &rec.Movers, &failed); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		rec.StartedAt = time.Unix(0, startedAt)
		rec.Duration = time.Duration(duration)
		rec.Failed = []string{}
		if failed != "" {
			rec.Failed = strings.Split(failed, ",")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SQLiteRecorder) Prune(before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`DELETE FROM builds WHERE started_at < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune builds: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
