package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/scan"
)

func sampleScan() *scan.Record {
	s := scan.NewSummary()
	s.Files = []string{"src/train.py", "Dockerfile"}
	s.Directories = []string{"src"}
	s.TotalFiles = 2
	s.TotalDirs = 1
	s.Patterns[scan.CategoryPythonScripts] = []string{"src/train.py"}
	s.Patterns[scan.CategoryDockerFiles] = []string{"Dockerfile"}
	return &scan.Record{RepoURL: "https://github.com/acme/model", Timestamp: "2026-01-02T03:04:05Z", Structure: s}
}

func sampleAudit() *audit.Record {
	return &audit.Record{
		Source:    "https://github.com/acme/model",
		Strategy:  audit.StrategyGraded,
		Timestamp: "2026-01-02T03:04:05Z",
		Graded: &audit.Result{
			Scores:  map[string]int{"docker": 100, "tests": 0},
			Missing: []string{"tests"},
			Details: map[string]map[string]any{"docker": {"has": true}, "tests": {"has": false}},
			Overall: 50,
		},
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{in: "", want: BackendFile},
		{in: "FILE", want: BackendFile},
		{in: "sqlite", want: BackendSQLite},
		{in: "postgresql", want: BackendPostgres},
		{in: "pg", want: BackendPostgres},
		{in: "mysql", want: BackendMySQL},
		{in: "minio", want: BackendS3},
		{in: "redis", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBackend(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen_File(t *testing.T) {
	st, err := Open(context.Background(), Config{Backend: BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, st)
	assert.NoError(t, st.Close())
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "redis"})
	assert.Error(t, err)
}

func TestNewS3Store_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
	}{
		{name: "no endpoint", cfg: S3Config{AccessKey: "a", SecretKey: "s", Bucket: "b"}},
		{name: "no credentials", cfg: S3Config{Endpoint: "localhost:9000", Bucket: "b"}},
		{name: "no bucket", cfg: S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Store(tt.cfg)
			assert.Error(t, err)
		})
	}

	st, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "audits"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", st.region)
}

func TestObjectKey(t *testing.T) {
	key := objectKey("scans")
	assert.Regexp(t, `^scans/[0-9a-f-]{36}\.json$`, key)
	assert.NotEqual(t, key, objectKey("scans"))
}
