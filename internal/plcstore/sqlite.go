package plcstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/didplc/compress/internal/codecerr"
	"github.com/didplc/compress/internal/wire"
)

// Store is a SQLite-backed mirror of the plc_log_entries / did_spam
// tables: the same shape fetch_operations and the did_spam migration
// query against the live Postgres mirror, reopened here as a pure-Go
// local cache an operator can seed for testing or offline replay.
type Store struct {
	db *sql.DB
}

// Open opens (and does not migrate) the SQLite database at path. Run
// Migrate on a *sql.DB for the same file before first use.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Operations implements OperationSource by querying plc_log_entries,
// ordered by plc_timestamp ascending (the same query fetch_operations
// runs against the live mirror).
func (s *Store) Operations(ctx context.Context, did string, limit int) ([]Operation, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded.
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT did, cid, operation, nullified, plc_timestamp
		FROM plc_log_entries
		WHERE did = ?
		ORDER BY plc_timestamp ASC
		LIMIT ?`, did, limit)
	if err != nil {
		return nil, fmt.Errorf("querying plc_log_entries: %w", err)
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		var (
			o        Operation
			blob     []byte
			ts       time.Time
			nullInt  int
		)
		if err := rows.Scan(&o.DID, &o.CID, &blob, &nullInt, &ts); err != nil {
			return nil, fmt.Errorf("scanning plc_log_entries row: %w", err)
		}
		var raw interface{}
		if err := wire.Unmarshal(blob, &raw); err != nil {
			return nil, &codecerr.EncodingFault{Reason: "stored operation is not valid cbor: " + err.Error()}
		}
		tree, err := wire.WireToNode(raw)
		if err != nil {
			return nil, err
		}
		o.OperationTree = tree
		o.Nullified = nullInt != 0
		o.Timestamp = ts
		ops = append(ops, o)
	}
	return ops, rows.Err()
}

// ListDIDs returns every distinct DID present in plc_log_entries that
// is not flagged in did_spam, ordered for deterministic iteration —
// the join shape add_spam_table.py's did_spam table exists to support.
func (s *Store) ListDIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT plc_log_entries.did
		FROM plc_log_entries
		LEFT JOIN did_spam ON did_spam.did = plc_log_entries.did
		WHERE did_spam.did IS NULL
		ORDER BY plc_log_entries.did`)
	if err != nil {
		return nil, fmt.Errorf("querying distinct dids: %w", err)
	}
	defer rows.Close()

	var dids []string
	for rows.Next() {
		var did string
		if err := rows.Scan(&did); err != nil {
			return nil, fmt.Errorf("scanning did: %w", err)
		}
		dids = append(dids, did)
	}
	return dids, rows.Err()
}

// Put inserts or replaces one operation row, storing the tree as
// canonical CBOR.
func (s *Store) Put(ctx context.Context, o Operation) error {
	blob, err := wire.Marshal(wire.NodeToWire(o.OperationTree))
	if err != nil {
		return fmt.Errorf("encoding operation tree: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO plc_log_entries (did, cid, operation, nullified, plc_timestamp)
		VALUES (?, ?, ?, ?, ?)`, o.DID, o.CID, blob, o.Nullified, o.Timestamp)
	if err != nil {
		return fmt.Errorf("inserting plc_log_entries row: %w", err)
	}
	return nil
}

// IsSpam implements SpamFilter against the did_spam table (grounded on
// the mirror database's did_spam join: a DID present in did_spam is
// excluded).
func (s *Store) IsSpam(ctx context.Context, did string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM did_spam WHERE did = ?`, did).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying did_spam: %w", err)
	}
	return n > 0, nil
}

// MarkSpam flags a DID as spam with the given reason, matching
// mark_spam_dids.py's idempotent insert (duplicate inserts are no-ops).
func (s *Store) MarkSpam(ctx context.Context, did, reason string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO did_spam (did, detected_at, reason)
		VALUES (?, ?, ?)
		ON CONFLICT (did) DO NOTHING`, did, time.Now().UTC(), reason)
	if err != nil {
		return fmt.Errorf("inserting did_spam row: %w", err)
	}
	return nil
}
