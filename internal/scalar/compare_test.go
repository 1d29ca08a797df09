package scalar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northbridge-labs/rvsim/internal/core"
	"github.com/northbridge-labs/rvsim/internal/isa"
	"github.com/northbridge-labs/rvsim/internal/mem"
)

// assemble writes instrs into m starting at address 0, terminated by
// HALT.
func assemble(t *testing.T, m *mem.Memory, instrs []isa.Decoded) {
	t.Helper()
	pc := uint32(0)
	for _, d := range instrs {
		d.PC = pc
		word, err := isa.Encode(d)
		require.NoError(t, err)
		require.NoError(t, m.WriteWord(pc, word))
		pc += 4
	}
	require.NoError(t, m.WriteWord(pc, isa.HaltWord))
}

// programs exercises the scalar-equivalence law (spec §8): the
// out-of-order engine and this sequential interpreter must agree on
// every architectural register once a program halts, regardless of
// how the engine reordered or forwarded internally.
func programs() [][]isa.Decoded {
	return [][]isa.Decoded{
		{
			{Kind: isa.ADDI, Rd: 10, Rs1: 0, Imm: 42},
		},
		{
			{Kind: isa.ADDI, Rd: 10, Rs1: 0, Imm: 0},
			{Kind: isa.ADDI, Rd: 11, Rs1: 0, Imm: 1},
			{Kind: isa.ADDI, Rd: 12, Rs1: 0, Imm: 11},
			{Kind: isa.BEQ, Rs1: 11, Rs2: 12, Imm: 16},
			{Kind: isa.ADD, Rd: 10, Rs1: 10, Rs2: 11},
			{Kind: isa.ADDI, Rd: 11, Rs1: 11, Imm: 1},
			{Kind: isa.JAL, Rd: 0, Imm: -12},
		},
		{
			{Kind: isa.ADDI, Rd: 1, Rs1: 0, Imm: 120},
			{Kind: isa.ADDI, Rd: 2, Rs1: 0, Imm: 0x100},
			{Kind: isa.SW, Rs1: 2, Rs2: 1, Imm: 0},
			{Kind: isa.LW, Rd: 3, Rs1: 2, Imm: 0},
			{Kind: isa.LB, Rd: 4, Rs1: 2, Imm: 0},
			{Kind: isa.SH, Rs1: 2, Rs2: 1, Imm: 4},
			{Kind: isa.LHU, Rd: 5, Rs1: 2, Imm: 4},
		},
	}
}

func TestOutOfOrderMatchesScalarReference(t *testing.T) {
	for i, prog := range programs() {
		oooMem := mem.New()
		assemble(t, oooMem, prog)
		ooo := core.NewEngine(core.DefaultConfig(), oooMem, 0)
		_, err := ooo.Run(100_000)
		require.NoError(t, err, "program %d", i)
		require.True(t, ooo.IsHalted(), "program %d did not halt", i)

		refMem := mem.New()
		assemble(t, refMem, prog)
		ref := New(refMem, 0)
		_, err = ref.Run(100_000)
		require.NoError(t, err, "program %d", i)
		require.True(t, ref.Halted, "program %d did not halt", i)

		for r := uint8(1); r < 32; r++ {
			require.Equalf(t, ref.Regs[r], ooo.RegisterValue(r),
				"program %d register x%d diverged", i, r)
		}
	}
}
