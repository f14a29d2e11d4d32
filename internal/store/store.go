// Package store persists scan and audit records.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/scan"
)

type Backend string

const (
	BackendFile     Backend = "file"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
	BackendS3       Backend = "s3"
)

// ErrNotFound is returned by Get* when ref names no stored record.
var ErrNotFound = errors.New("record not found")

// Store persists records and hands back a backend-specific reference:
// a file path, a row id or an object key.
type Store interface {
	PutScan(ctx context.Context, rec *scan.Record) (ref string, err error)
	GetScan(ctx context.Context, ref string) (*scan.Record, error)
	PutAudit(ctx context.Context, rec *audit.Record) (ref string, err error)
	GetAudit(ctx context.Context, ref string) (*audit.Record, error)
	Close() error
}

type Config struct {
	Backend Backend
	// Dir is the output directory of the file backend.
	Dir string
	// DSN is the database/sql connection string. For sqlite it is a file path.
	DSN string
	S3  S3Config
}

// ParseBackend normalizes a backend name. "postgresql" and "pg" are accepted
// for postgres.
func ParseBackend(raw string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(BackendFile):
		return BackendFile, nil
	case string(BackendSQLite):
		return BackendSQLite, nil
	case string(BackendPostgres), "postgresql", "pg":
		return BackendPostgres, nil
	case string(BackendMySQL):
		return BackendMySQL, nil
	case string(BackendS3), "minio":
		return BackendS3, nil
	default:
		return "", fmt.Errorf("unsupported store backend %q. Must be file, sqlite, postgres, mysql, or s3", raw)
	}
}

// Open returns the store for cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Dir), nil
	case BackendSQLite, BackendPostgres, BackendMySQL:
		return NewSQLStore(ctx, cfg.Backend, cfg.DSN)
	case BackendS3:
		return NewS3Store(cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}
