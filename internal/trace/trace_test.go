package trace

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northbridge-labs/rvsim/internal/core"
	"github.com/northbridge-labs/rvsim/internal/isa"
)

func TestRecordFiltersByRegister(t *testing.T) {
	r := NewRecorder(0)
	r.SetFilterRegisters([]string{"x10"})

	r.Record(core.CommitRecord{PC: 0, Kind: isa.ADDI, Dest: 10, Value: 1, HasDest: true})
	r.Record(core.CommitRecord{PC: 4, Kind: isa.ADDI, Dest: 11, Value: 2, HasDest: true})

	require.Len(t, r.Entries(), 1)
	assert.Equal(t, "x10", r.Entries()[0].Register)
}

func TestRecordRespectsMaxEntries(t *testing.T) {
	r := NewRecorder(1)
	r.Record(core.CommitRecord{Kind: isa.ADDI})
	r.Record(core.CommitRecord{Kind: isa.ADDI})
	assert.Len(t, r.Entries(), 1)
}

func TestWriteTextIncludesFlushMarker(t *testing.T) {
	r := NewRecorder(0)
	r.Record(core.CommitRecord{PC: 4, Kind: isa.BNE, Mispredicted: true, Flushed: true})

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), "MISPREDICT")
	assert.Contains(t, buf.String(), "FLUSH")
}

func TestWriteJSONIncludesFields(t *testing.T) {
	r := NewRecorder(0)
	r.Record(core.CommitRecord{PC: 0, Kind: isa.ADDI, Dest: 10, Value: 42, HasDest: true})

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))
	assert.Contains(t, buf.String(), "\"pc\": 0")
	assert.Contains(t, buf.String(), "\"value\": 42")
}
