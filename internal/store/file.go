package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/scan"
)

const (
	ScanReportFile  = "scan_report.json"
	AuditReportFile = "audit_report.json"
)

// FileStore writes one JSON file per record kind into Dir, overwriting the
// previous run. Refs are file paths; an empty ref means the default file.
type FileStore struct {
	Dir string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "outputs"
	}
	return &FileStore{Dir: dir}
}

func (s *FileStore) PutScan(ctx context.Context, rec *scan.Record) (string, error) {
	data, err := EncodeScan(rec)
	if err != nil {
		return "", err
	}
	return s.write(ScanReportFile, data)
}

func (s *FileStore) GetScan(ctx context.Context, ref string) (*scan.Record, error) {
	data, err := s.read(ref, ScanReportFile)
	if err != nil {
		return nil, err
	}
	return DecodeScan(data)
}

func (s *FileStore) PutAudit(ctx context.Context, rec *audit.Record) (string, error) {
	data, err := EncodeAudit(rec)
	if err != nil {
		return "", err
	}
	return s.write(AuditReportFile, data)
}

func (s *FileStore) GetAudit(ctx context.Context, ref string) (*audit.Record, error) {
	data, err := s.read(ref, AuditReportFile)
	if err != nil {
		return nil, err
	}
	return DecodeAudit(data)
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", s.Dir, err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func (s *FileStore) read(ref, defaultName string) ([]byte, error) {
	if ref == "" {
		ref = filepath.Join(s.Dir, defaultName)
	}
	data, err := os.ReadFile(ref)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, err)
	}
	return data, nil
}
