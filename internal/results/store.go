// Package results is the per-key relaxation result cache: SQLite-backed,
// write-once per (structure, deformation) key, shared by concurrent workers
// and readable across runs for resumable benchmarks.
package results

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS relaxations (
	structure_id   TEXT NOT NULL,
	deformation_id TEXT NOT NULL,
	run_id         TEXT NOT NULL,
	cell           BLOB NOT NULL,
	positions      BLOB NOT NULL,
	energy         REAL NOT NULL,
	forces         BLOB NOT NULL,
	stress         BLOB NOT NULL,
	status         TEXT NOT NULL,
	reason         TEXT,
	steps_used     INTEGER NOT NULL,
	created_at     TEXT NOT NULL,
	PRIMARY KEY (structure_id, deformation_id)
);

CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	model_id    TEXT NOT NULL,
	mode        TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	total       INTEGER NOT NULL DEFAULT 0,
	converged   INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0
);
`

// #endregion schema

// #region errors

// ErrNotFound is returned by Get for keys with no recorded result.
var ErrNotFound = errors.New("result not found")

// #endregion

// #region store-struct
// Store manages relaxation results and run provenance in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region put-once
// PutOnce records a result iff the key has none yet and reports whether the
// row was written. A false return means another worker (or a previous run)
// already owns the key; the stored result is authoritative.
func (s *Store) PutOnce(r Result) (bool, error) {
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO relaxations
		 (structure_id, deformation_id, run_id, cell, positions, energy, forces, stress, status, reason, steps_used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Key.StructureID, r.Key.DeformationID, r.RunID,
		encodeMat3(r.Cell), encodeVec3s(r.Positions), r.Energy,
		encodeVec3s(r.Forces), encodeMat3(r.StressGPa),
		string(r.Status), r.Reason, r.StepsUsed,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("insert result %s/%s: %w", r.Key.StructureID, r.Key.DeformationID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// #endregion put-once

// #region get
// Get returns the result for a key, or ErrNotFound.
func (s *Store) Get(k Key) (Result, error) {
	row := s.db.QueryRow(
		`SELECT structure_id, deformation_id, run_id, cell, positions, energy, forces, stress, status, reason, steps_used, created_at
		 FROM relaxations WHERE structure_id = ? AND deformation_id = ?`,
		k.StructureID, k.DeformationID,
	)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, fmt.Errorf("%s/%s: %w", k.StructureID, k.DeformationID, ErrNotFound)
	}
	return r, err
}

// #endregion get

// #region list-by-structure
// ListByStructure returns all results for a structure, deformation-ordered.
func (s *Store) ListByStructure(structureID string) ([]Result, error) {
	rows, err := s.db.Query(
		`SELECT structure_id, deformation_id, run_id, cell, positions, energy, forces, stress, status, reason, steps_used, created_at
		 FROM relaxations WHERE structure_id = ? ORDER BY deformation_id`,
		structureID,
	)
	if err != nil {
		return nil, fmt.Errorf("list results %s: %w", structureID, err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion list-by-structure

// #region runs
// BeginRun creates a provenance row and returns its fresh run ID.
func (s *Store) BeginRun(modelID, mode string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, model_id, mode, started_at) VALUES (?, ?, ?, ?)`,
		id, modelID, mode, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// FinishRun closes a provenance row with final counts.
func (s *Store) FinishRun(runID string, total, converged, failed int) error {
	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, total = ?, converged = ?, failed = ? WHERE run_id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), total, converged, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	return nil
}

// ListRuns returns the most recent runs.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, model_id, mode, started_at, finished_at, total, converged, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&r.RunID, &r.ModelID, &r.Mode, &started, &finished, &r.Total, &r.Converged, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion runs

// #region status-counts
// StatusCounts tallies stored results by status, for inspection tooling.
func (s *Store) StatusCounts() (map[Status]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM relaxations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()

	out := map[Status]int{}
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[Status(st)] = n
	}
	return out, rows.Err()
}

// #endregion status-counts

// #region scan
type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (Result, error) {
	var r Result
	var cell, positions, forces, stress []byte
	var status, created string
	var reason sql.NullString
	err := row.Scan(
		&r.Key.StructureID, &r.Key.DeformationID, &r.RunID,
		&cell, &positions, &r.Energy, &forces, &stress,
		&status, &reason, &r.StepsUsed, &created,
	)
	if err != nil {
		return Result{}, err
	}
	r.Cell = decodeMat3(cell)
	r.Positions = decodeVec3s(positions)
	r.Forces = decodeVec3s(forces)
	r.StressGPa = decodeMat3(stress)
	r.Status = Status(status)
	if reason.Valid {
		r.Reason = reason.String
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return r, nil
}

// #endregion scan

// #region blob-encoding
func encodeMat3(m [3][3]float64) []byte {
	buf := make([]byte, 9*8)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			binary.LittleEndian.PutUint64(buf[(i*3+j)*8:], math.Float64bits(m[i][j]))
		}
	}
	return buf
}

func decodeMat3(b []byte) [3][3]float64 {
	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if off := (i*3 + j) * 8; off+8 <= len(b) {
				m[i][j] = math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
			}
		}
	}
	return m
}

func encodeVec3s(vs [][3]float64) []byte {
	buf := make([]byte, len(vs)*3*8)
	for i, v := range vs {
		for j := 0; j < 3; j++ {
			binary.LittleEndian.PutUint64(buf[(i*3+j)*8:], math.Float64bits(v[j]))
		}
	}
	return buf
}

func decodeVec3s(b []byte) [][3]float64 {
	n := len(b) / (3 * 8)
	out := make([][3]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = math.Float64frombits(binary.LittleEndian.Uint64(b[(i*3+j)*8:]))
		}
	}
	return out
}

// #endregion blob-encoding
