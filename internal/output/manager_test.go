package output

import (
	"errors"
	"strings"
	"testing"
)

type recordingSink struct {
	writes   []any
	writeErr error
	closeErr error
	closed   bool
}

func (s *recordingSink) Write(v any) error {
	s.writes = append(s.writes, v)
	return s.writeErr
}

func (s *recordingSink) Close() error {
	s.closed = true
	return s.closeErr
}

func TestManager(t *testing.T) {
	t.Run("writes to all sinks", func(t *testing.T) {
		a := &recordingSink{}
		b := &recordingSink{}

		mgr := NewManager()
		for _, s := range []Sink{a, b} {
			if err := mgr.AddSink(s); err != nil {
				t.Fatalf("AddSink error: %v", err)
			}
		}
		if mgr.Len() != 2 {
			t.Fatalf("Len: want 2, got %d", mgr.Len())
		}

		for _, v := range []any{"v1", "v2"} {
			if err := mgr.Write(v); err != nil {
				t.Fatalf("Write(%v) error: %v", v, err)
			}
		}
		if err := mgr.Close(); err != nil {
			t.Fatalf("Close() error: %v", err)
		}

		if len(a.writes) != 2 || len(b.writes) != 2 {
			t.Fatalf("writes: a=%d b=%d, want 2 each", len(a.writes), len(b.writes))
		}
		if !a.closed || !b.closed {
			t.Fatalf("expected both sinks closed")
		}
	})

	t.Run("AddSink rejects nil", func(t *testing.T) {
		if err := NewManager().AddSink(nil); err == nil {
			t.Fatalf("AddSink(nil) want error, got nil")
		}
	})

	t.Run("nil manager", func(t *testing.T) {
		var mgr *Manager
		if err := mgr.Write("v"); err == nil {
			t.Fatalf("Write on nil manager want error")
		}
		if mgr.Len() != 0 {
			t.Fatalf("Len on nil manager want 0")
		}
	})

	t.Run("failing sink does not stop the others", func(t *testing.T) {
		a := &recordingSink{writeErr: errors.New("boom-a"), closeErr: errors.New("close-a")}
		b := &recordingSink{}
		mgr := NewManager()
		_ = mgr.AddSink(a)
		_ = mgr.AddSink(b)

		err := mgr.Write("v")
		if err == nil {
			t.Fatalf("Write want error, got nil")
		}
		for _, want := range []string{"errors on write", "boom-a", "recordingSink"} {
			if !strings.Contains(err.Error(), want) {
				t.Fatalf("Write error missing %q; got: %s", want, err)
			}
		}
		if len(b.writes) != 1 {
			t.Fatalf("second sink should still receive the write")
		}

		err = mgr.Close()
		if err == nil || !strings.Contains(err.Error(), "close-a") {
			t.Fatalf("Close error = %v", err)
		}
		if !b.closed {
			t.Fatalf("second sink should still be closed")
		}
	})
}
