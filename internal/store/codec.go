package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/scan"
)

// MalformedInputError reports a stored record that cannot be used.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return "malformed record: " + e.Reason
}

func malformed(format string, args ...any) error {
	return &MalformedInputError{Reason: fmt.Sprintf(format, args...)}
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func EncodeScan(rec *scan.Record) ([]byte, error) {
	if rec == nil || rec.Structure == nil {
		return nil, fmt.Errorf("encode scan: record has no structure")
	}
	return encode(rec)
}

func EncodeAudit(rec *audit.Record) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("encode audit: record is nil")
	}
	return encode(rec)
}

// DecodeScan parses a scan record. The structure must carry its file list,
// directory list and pattern map. Individual pattern buckets may be absent;
// the checks that need them report that.
func DecodeScan(data []byte) (*scan.Record, error) {
	var raw struct {
		Structure map[string]json.RawMessage `json:"structure"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, malformed("scan record is not valid JSON: %v", err)
	}
	if raw.Structure == nil {
		return nil, malformed("scan record has no structure")
	}
	for _, key := range []string{"files", "directories", "ml_patterns"} {
		if v, ok := raw.Structure[key]; !ok || string(v) == "null" {
			return nil, malformed("scan structure has no %s", key)
		}
	}

	var rec scan.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, malformed("scan record has unexpected field types: %v", err)
	}
	rec.Structure.TotalFiles = len(rec.Structure.Files)
	rec.Structure.TotalDirs = len(rec.Structure.Directories)
	return &rec, nil
}

// DecodeAudit parses an audit record and checks that the block matching its
// strategy is present.
func DecodeAudit(data []byte) (*audit.Record, error) {
	var rec audit.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, malformed("audit record is not valid JSON: %v", err)
	}
	switch rec.Strategy {
	case audit.StrategyGraded:
		if rec.Graded == nil {
			return nil, malformed("graded audit record has no graded block")
		}
		if rec.Graded.Scores == nil {
			return nil, malformed("graded audit record has no scores")
		}
		if rec.Graded.Missing == nil {
			rec.Graded.Missing = []string{}
		}
	case audit.StrategyWeighted:
		if rec.Weighted == nil {
			return nil, malformed("weighted audit record has no weighted block")
		}
	default:
		return nil, malformed("unknown audit strategy %q", rec.Strategy)
	}
	return &rec, nil
}
