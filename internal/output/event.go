package output

import (
	"encoding/json"
	"io"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

const (
	EventRunStarted    = "run.started"
	EventCheckResult   = "check.result"
	EventChecklistItem = "checklist.item"
	EventRunFinished   = "run.finished"
)

// Event is a lifecycle record for NDJSON streaming output.
//
// Sinks receive Events plus the raw items strategies produce (rules.Result,
// audit.ChecklistItem). In NDJSON mode every value becomes one Event line;
// JSON mode writes the final record carried by run.finished.
type Event struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Source   string `json:"source,omitempty"`
	Strategy string `json:"strategy,omitempty"`
	*rules.Result
	Item     *audit.ChecklistItem `json:"item,omitempty"`
	Scan     *scan.Record         `json:"scan,omitempty"`
	Audit    *audit.Record        `json:"audit,omitempty"`
	Ref      string               `json:"ref,omitempty"`
	ExitCode int                  `json:"exit_code,omitempty"`
}

func toEvent(v any) (Event, bool) {
	switch t := v.(type) {
	case Event:
		return t, true
	case rules.Result:
		return Event{Type: EventCheckResult, Result: &t}, true
	case audit.ChecklistItem:
		return Event{Type: EventChecklistItem, Item: &t}, true
	default:
		return Event{}, false
	}
}

// statusOf returns the display status of a scored item.
func statusOf(v any) (string, bool) {
	switch t := v.(type) {
	case rules.Result:
		return string(t.Status()), true
	case audit.ChecklistItem:
		if t.Passed {
			return string(rules.StatusPass), true
		}
		return string(rules.StatusFail), true
	default:
		return "", false
	}
}

type flusher interface {
	Flush() error
}

func flushIfPossible(w io.Writer) error {
	f, ok := w.(flusher)
	if !ok {
		return nil
	}
	return f.Flush()
}

// writeEventLine encodes v as one NDJSON line. Values that are not events are
// ignored.
func writeEventLine(w io.Writer, v any) error {
	e, ok := toEvent(v)
	if !ok {
		return nil
	}
	if err := json.NewEncoder(w).Encode(e); err != nil {
		return err
	}
	return flushIfPossible(w)
}

// aggregate keeps the final record for JSON aggregate output.
type aggregate struct {
	record any
}

func (a *aggregate) collect(v any) {
	e, ok := v.(Event)
	if !ok || e.Type != EventRunFinished {
		return
	}
	switch {
	case e.Audit != nil:
		a.record = e.Audit
	case e.Scan != nil:
		a.record = e.Scan
	}
}

func (a *aggregate) encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.record); err != nil {
		return err
	}
	return flushIfPossible(w)
}
