package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northbridge-labs/rvsim/internal/core"
	"github.com/northbridge-labs/rvsim/internal/isa"
)

func TestRecordComputesIPCAndMixes(t *testing.T) {
	c := NewCollector()
	c.Record(core.CommitRecord{Kind: isa.ADDI})
	c.Record(core.CommitRecord{Kind: isa.ADDI})
	c.Record(core.CommitRecord{Kind: isa.ADD})

	c.TotalCycles = 4
	assert.Equal(t, uint64(3), c.TotalInstructions)
	assert.InDelta(t, 0.75, c.IPC(), 0.0001)

	mix := c.TopInstructions()
	require.Len(t, mix, 2)
	assert.Equal(t, "ADDI", mix[0].Kind)
	assert.Equal(t, uint64(2), mix[0].Count)
}

func TestRecordTracksBranchesAndForwarding(t *testing.T) {
	c := NewCollector()
	c.Record(core.CommitRecord{Kind: isa.BEQ, Mispredicted: false})
	c.Record(core.CommitRecord{Kind: isa.BNE, Mispredicted: true})
	c.Record(core.CommitRecord{Kind: isa.LW})
	c.Record(core.CommitRecord{Kind: isa.LW})
	c.ForwardingHits = 1

	assert.Equal(t, uint64(2), c.BranchCount)
	assert.InDelta(t, 0.5, c.MispredictRate(), 0.0001)
	assert.InDelta(t, 0.5, c.ForwardingHitRate(), 0.0001)
}

func TestWriteJSONIncludesSummary(t *testing.T) {
	c := NewCollector()
	c.Record(core.CommitRecord{Kind: isa.ADD})
	c.TotalCycles = 1

	var buf bytes.Buffer
	require.NoError(t, c.WriteJSON(&buf))
	assert.Contains(t, buf.String(), "\"total_instructions\": 1")
}

func TestWriteCSVIncludesInstructionMix(t *testing.T) {
	c := NewCollector()
	c.Record(core.CommitRecord{Kind: isa.ADD})

	var buf bytes.Buffer
	require.NoError(t, c.WriteCSV(&buf))
	assert.Contains(t, buf.String(), "Total Instructions,1")
	assert.Contains(t, buf.String(), "ADD,1")
}

func TestWriteHTMLRendersTable(t *testing.T) {
	c := NewCollector()
	c.Record(core.CommitRecord{Kind: isa.ADD})

	var buf bytes.Buffer
	require.NoError(t, c.WriteHTML(&buf))
	assert.True(t, strings.Contains(buf.String(), "<table>"))
}

func TestStringSummary(t *testing.T) {
	c := NewCollector()
	c.Record(core.CommitRecord{Kind: isa.ADD})
	c.TotalCycles = 1

	s := c.String()
	assert.Contains(t, s, "instructions: 1")
}
