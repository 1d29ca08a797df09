// Package trace records per-commit execution history and renders it
// as text or JSON, the way the teacher's execution trace records
// per-instruction register changes.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/northbridge-labs/rvsim/internal/core"
)

// Entry is one retired instruction, captured from a core.CommitRecord.
type Entry struct {
	Cycle        uint64 `json:"cycle"`
	PC           uint32 `json:"pc"`
	Kind         string `json:"kind"`
	Register     string `json:"register,omitempty"`
	Value        uint32 `json:"value,omitempty"`
	Mispredicted bool   `json:"mispredicted,omitempty"`
	Flushed      bool   `json:"flushed,omitempty"`
}

// Recorder accumulates commit events, optionally filtered to a subset
// of architectural registers, up to a maximum number of entries.
type Recorder struct {
	FilterRegs map[string]bool
	MaxEntries int

	entries []Entry
}

// NewRecorder returns a Recorder with no register filter and the
// given entry cap (0 means unbounded).
func NewRecorder(maxEntries int) *Recorder {
	return &Recorder{MaxEntries: maxEntries}
}

// SetFilterRegisters restricts recording to the named registers
// ("x10", "x1", ...). An empty list records every register write.
// Commits with no destination register (stores, branches, HALT) are
// recorded whatever the filter.
func (r *Recorder) SetFilterRegisters(names []string) {
	r.FilterRegs = make(map[string]bool, len(names))
	for _, n := range names {
		r.FilterRegs[strings.ToLower(n)] = true
	}
}

// Record is the core.CommitRecord hook: install it with
// engine.SetCommitHook(recorder.Record).
func (r *Recorder) Record(rec core.CommitRecord) {
	if r.MaxEntries > 0 && len(r.entries) >= r.MaxEntries {
		return
	}

	e := Entry{
		Cycle:        rec.Cycle,
		PC:           rec.PC,
		Kind:         rec.Kind.String(),
		Mispredicted: rec.Mispredicted,
		Flushed:      rec.Flushed,
	}
	if rec.HasDest {
		name := fmt.Sprintf("x%d", rec.Dest)
		if len(r.FilterRegs) > 0 && !r.FilterRegs[name] {
			return
		}
		e.Register = name
		e.Value = rec.Value
	}
	r.entries = append(r.entries, e)
}

// Entries returns every recorded entry.
func (r *Recorder) Entries() []Entry { return r.entries }

// WriteText writes one line per entry in a fixed-width format.
func (r *Recorder) WriteText(w io.Writer) error {
	for _, e := range r.entries {
		line := fmt.Sprintf("[%08d] 0x%08X %-6s", e.Cycle, e.PC, e.Kind)
		if e.Register != "" {
			line += fmt.Sprintf(" %s=0x%08X", e.Register, e.Value)
		}
		if e.Flushed {
			line += " FLUSH"
		}
		if e.Mispredicted {
			line += " MISPREDICT"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the full entry list as a JSON array.
func (r *Recorder) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.entries)
}
