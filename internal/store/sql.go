package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/scan"
)

const (
	recordsTable   = "mlopsaudit_records"
	recordCacheLen = 256

	kindScan  = "scan"
	kindAudit = "audit"
)

// SQLStore keeps records as JSON payloads in a single table. Reads go through
// an LRU cache; records are immutable once written.
type SQLStore struct {
	db      *sql.DB
	backend Backend
	cache   *lru.Cache[string, []byte]
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore opens dsn with the driver for backend and creates the records
// table if needed. An empty sqlite dsn means outputs/mlopsaudit.db.
func NewSQLStore(ctx context.Context, backend Backend, dsn string) (*SQLStore, error) {
	var driverName string
	switch backend {
	case BackendSQLite:
		driverName = "sqlite"
		if dsn == "" {
			dsn = filepath.Join("outputs", "mlopsaudit.db")
		}
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	case BackendMySQL:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
	case BackendPostgres:
		// host=localhost port=5432 user=postgres dbname=mlopsaudit
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported sql backend: %s", backend)
	}
	if dsn == "" {
		return nil, fmt.Errorf("%s store requires a DSN", backend)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}
	if backend == BackendSQLite {
		// A single connection avoids "database is locked" errors.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to %s store: %w", backend, err)
	}
	if _, err := db.ExecContext(ctx, createTableQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create table %s: %w", recordsTable, err)
	}

	cache, err := lru.New[string, []byte](recordCacheLen)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLStore{db: db, backend: backend, cache: cache}, nil
}

func createTableQuery(backend Backend) string {
	switch backend {
	case BackendMySQL:
		return `CREATE TABLE IF NOT EXISTS ` + recordsTable + ` (
			id VARCHAR(64) PRIMARY KEY,
			kind VARCHAR(16) NOT NULL,
			source TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			payload LONGBLOB NOT NULL
		)`
	case BackendPostgres:
		return `CREATE TABLE IF NOT EXISTS ` + recordsTable + ` (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			payload BYTEA NOT NULL
		)`
	default:
		return `CREATE TABLE IF NOT EXISTS ` + recordsTable + ` (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			payload BLOB NOT NULL
		)`
	}
}

func (s *SQLStore) placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		if s.backend == BackendPostgres {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

func (s *SQLStore) put(ctx context.Context, kind, source string, payload []byte) (string, error) {
	id := kind + "-" + uuid.NewString()
	p := s.placeholders(5)
	query := fmt.Sprintf(`INSERT INTO %s (id, kind, source, created_at, payload) VALUES (%s, %s, %s, %s, %s)`,
		recordsTable, p[0], p[1], p[2], p[3], p[4])
	if _, err := s.db.ExecContext(ctx, query, id, kind, source, time.Now().UnixNano(), payload); err != nil {
		return "", fmt.Errorf("insert %s record: %w", kind, err)
	}
	s.cache.Add(id, payload)
	return id, nil
}

func (s *SQLStore) get(ctx context.Context, kind, ref string) ([]byte, error) {
	if ref == "" {
		return s.latest(ctx, kind)
	}
	if payload, ok := s.cache.Get(ref); ok {
		return payload, nil
	}

	p := s.placeholders(2)
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE id = %s AND kind = %s`, recordsTable, p[0], p[1])
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, ref, kind).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", kind, ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s %s: %w", kind, ref, err)
	}
	s.cache.Add(ref, payload)
	return payload, nil
}

// latest returns the most recent record of kind, mirroring the file
// backend's "empty ref means the last run".
func (s *SQLStore) latest(ctx context.Context, kind string) ([]byte, error) {
	p := s.placeholders(1)
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE kind = %s ORDER BY created_at DESC, id DESC LIMIT 1`, recordsTable, p[0])
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, kind).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest %s: %w", kind, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select latest %s: %w", kind, err)
	}
	return payload, nil
}

func (s *SQLStore) PutScan(ctx context.Context, rec *scan.Record) (string, error) {
	data, err := EncodeScan(rec)
	if err != nil {
		return "", err
	}
	return s.put(ctx, kindScan, rec.RepoURL, data)
}

func (s *SQLStore) GetScan(ctx context.Context, ref string) (*scan.Record, error) {
	data, err := s.get(ctx, kindScan, ref)
	if err != nil {
		return nil, err
	}
	return DecodeScan(data)
}

func (s *SQLStore) PutAudit(ctx context.Context, rec *audit.Record) (string, error) {
	data, err := EncodeAudit(rec)
	if err != nil {
		return "", err
	}
	return s.put(ctx, kindAudit, rec.Source, data)
}

func (s *SQLStore) GetAudit(ctx context.Context, ref string) (*audit.Record, error) {
	data, err := s.get(ctx, kindAudit, ref)
	if err != nil {
		return nil, err
	}
	return DecodeAudit(data)
}

func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
