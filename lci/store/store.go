// Package store keeps a SQLite history of pipeline runs so that every
// published index can be traced back to its inputs and configuration.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/inference-sim/lci-index/lci"
	"github.com/inference-sim/lci-index/lci/chain"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Store records and queries pipeline runs.
type Store interface {
	// SaveRun stores a run with its family table and index, returning the new run ID.
	SaveRun(ctx context.Context, run Run) (string, error)
	// ListRuns returns run summaries, newest first.
	ListRuns(ctx context.Context) ([]RunSummary, error)
	// LoadFamilies returns the family table of a run ordered by date and family.
	LoadFamilies(ctx context.Context, runID string) ([]lci.FamilyLCI, error)
	// LoadIndex returns the IPD series of a run ordered by date.
	LoadIndex(ctx context.Context, runID string) ([]chain.Point, error)
	// Close releases resources.
	Close() error
}

// Meta describes the environment a run was produced in.
type Meta struct {
	GoVersion string
	Platform  string
}

// CurrentMeta returns the running binary's Go version and GOOS/GOARCH.
func CurrentMeta() Meta {
	return Meta{GoVersion: runtime.Version(), Platform: runtime.GOOS + "/" + runtime.GOARCH}
}

// Run is one complete pipeline result.
type Run struct {
	CreatedAt    time.Time // defaults to now (UTC) when zero
	InputPath    string
	ConfigDigest string
	Observations int
	Dropped      int
	Families     []lci.FamilyLCI
	Index        []chain.Point
	Meta         Meta
}

// RunSummary is a row of the run listing.
type RunSummary struct {
	ID           string
	CreatedAt    time.Time
	InputPath    string
	ConfigDigest string
	Observations int
	Dropped      int
	Families     int
	Points       int
	LatestIPD    lci.Maybe
}

// timestampFormat is fixed-width so that created_at sorts lexically.
const timestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store with a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	input_path TEXT NOT NULL,
	config_digest TEXT NOT NULL,
	observations INTEGER NOT NULL,
	dropped INTEGER NOT NULL,
	go_version TEXT NOT NULL,
	platform TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS family_lci (
	run_id TEXT NOT NULL REFERENCES runs(id),
	date TEXT NOT NULL,
	family TEXT NOT NULL,
	lci REAL NOT NULL,
	accuracy REAL NOT NULL,
	p95_ms REAL NOT NULL,
	price_per_token_usd REAL NOT NULL,
	row_count INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_family_lci_run ON family_lci(run_id, date, family);
CREATE TABLE IF NOT EXISTS index_points (
	run_id TEXT NOT NULL REFERENCES runs(id),
	date TEXT NOT NULL,
	ipd REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_index_points_run ON index_points(run_id, date);
`

// Open creates a SQLiteStore at dbPath and runs auto-migration.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate run store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveRun stores run in a single transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) (string, error) {
	id := uuid.NewString()
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, input_path, config_digest, observations, dropped, go_version, platform)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, created.UTC().Format(timestampFormat), run.InputPath, run.ConfigDigest,
		run.Observations, run.Dropped, run.Meta.GoVersion, run.Meta.Platform,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, f := range run.Families {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO family_lci (run_id, date, family, lci, accuracy, p95_ms, price_per_token_usd, row_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, f.Date.Format(time.DateOnly), f.Family, f.LCI, f.Accuracy, f.P95Ms, f.PricePerTokenUSD, f.Rows,
		); err != nil {
			return "", fmt.Errorf("insert family %s/%s: %w", f.Date.Format(time.DateOnly), f.Family, err)
		}
	}

	for _, p := range run.Index {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO index_points (run_id, date, ipd) VALUES (?, ?, ?)`,
			id, p.Date.Format(time.DateOnly), p.IPD,
		); err != nil {
			return "", fmt.Errorf("insert index point %s: %w", p.Date.Format(time.DateOnly), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save run: %w", err)
	}
	return id, nil
}

// ListRuns returns every stored run, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.input_path, r.config_digest, r.observations, r.dropped,
			(SELECT COUNT(*) FROM family_lci f WHERE f.run_id = r.id),
			(SELECT COUNT(*) FROM index_points p WHERE p.run_id = r.id),
			(SELECT p.ipd FROM index_points p WHERE p.run_id = r.id ORDER BY p.date DESC LIMIT 1)
		FROM runs r
		ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunSummary
	for rows.Next() {
		var (
			rs      RunSummary
			created string
			latest  sql.NullFloat64
		)
		if err := rows.Scan(&rs.ID, &created, &rs.InputPath, &rs.ConfigDigest, &rs.Observations, &rs.Dropped,
			&rs.Families, &rs.Points, &latest); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rs.CreatedAt, err = time.Parse(timestampFormat, created)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", created, err)
		}
		if latest.Valid {
			rs.LatestIPD = lci.Some(latest.Float64)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) runExists(ctx context.Context, runID string) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&n); err != nil {
		return fmt.Errorf("lookup run %s: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// LoadFamilies returns the family table stored for runID.
func (s *SQLiteStore) LoadFamilies(ctx context.Context, runID string) ([]lci.FamilyLCI, error) {
	if err := s.runExists(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, family, lci, accuracy, p95_ms, price_per_token_usd, row_count
		 FROM family_lci WHERE run_id = ? ORDER BY date, family`, runID)
	if err != nil {
		return nil, fmt.Errorf("load families: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []lci.FamilyLCI{}
	for rows.Next() {
		var (
			f    lci.FamilyLCI
			date string
		)
		if err := rows.Scan(&date, &f.Family, &f.LCI, &f.Accuracy, &f.P95Ms, &f.PricePerTokenUSD, &f.Rows); err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		if f.Date, err = time.Parse(time.DateOnly, date); err != nil {
			return nil, fmt.Errorf("parse family date %q: %w", date, err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// LoadIndex returns the IPD series stored for runID.
func (s *SQLiteStore) LoadIndex(ctx context.Context, runID string) ([]chain.Point, error) {
	if err := s.runExists(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, ipd FROM index_points WHERE run_id = ? ORDER BY date`, runID)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []chain.Point{}
	for rows.Next() {
		var (
			p    chain.Point
			date string
		)
		if err := rows.Scan(&date, &p.IPD); err != nil {
			return nil, fmt.Errorf("scan index point: %w", err)
		}
		if p.Date, err = time.Parse(time.DateOnly, date); err != nil {
			return nil, fmt.Errorf("parse index date %q: %w", date, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
