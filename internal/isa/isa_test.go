package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaltSentinel(t *testing.T) {
	d, err := Decode(HaltWord, 0x100)
	require.NoError(t, err)
	assert.Equal(t, HALT, d.Kind)
}

func TestUnknownOpcodeIsFatal(t *testing.T) {
	_, err := Decode(0xFFFFFFFF, 0)
	assert.Error(t, err)
}

// roundTripCases enumerates one canonical encoding per kind this ISA
// supports, exercising every encoding class (R, I, S, B, U, J).
func roundTripCases() []Decoded {
	return []Decoded{
		{Kind: ADD, Rd: 1, Rs1: 2, Rs2: 3},
		{Kind: SUB, Rd: 1, Rs1: 2, Rs2: 3},
		{Kind: AND, Rd: 4, Rs1: 5, Rs2: 6},
		{Kind: OR, Rd: 4, Rs1: 5, Rs2: 6},
		{Kind: XOR, Rd: 4, Rs1: 5, Rs2: 6},
		{Kind: SLL, Rd: 4, Rs1: 5, Rs2: 6},
		{Kind: SRL, Rd: 4, Rs1: 5, Rs2: 6},
		{Kind: SRA, Rd: 4, Rs1: 5, Rs2: 6},
		{Kind: SLT, Rd: 4, Rs1: 5, Rs2: 6},
		{Kind: SLTU, Rd: 4, Rs1: 5, Rs2: 6},
		{Kind: ADDI, Rd: 1, Rs1: 2, Imm: 42},
		{Kind: ADDI, Rd: 1, Rs1: 2, Imm: -1},
		{Kind: ANDI, Rd: 1, Rs1: 2, Imm: 0x7FF},
		{Kind: ORI, Rd: 1, Rs1: 2, Imm: -2048},
		{Kind: XORI, Rd: 1, Rs1: 2, Imm: 5},
		{Kind: SLTI, Rd: 1, Rs1: 2, Imm: -1},
		{Kind: SLTIU, Rd: 1, Rs1: 2, Imm: 7},
		{Kind: SLLI, Rd: 1, Rs1: 2, Imm: 31},
		{Kind: SRLI, Rd: 1, Rs1: 2, Imm: 1},
		{Kind: SRAI, Rd: 1, Rs1: 2, Imm: 1},
		{Kind: LB, Rd: 1, Rs1: 2, Imm: -5},
		{Kind: LH, Rd: 1, Rs1: 2, Imm: 100},
		{Kind: LW, Rd: 1, Rs1: 2, Imm: 2047},
		{Kind: LBU, Rd: 1, Rs1: 2, Imm: -2048},
		{Kind: LHU, Rd: 1, Rs1: 2, Imm: 0},
		{Kind: SB, Rs1: 2, Rs2: 3, Imm: -1},
		{Kind: SH, Rs1: 2, Rs2: 3, Imm: 100},
		{Kind: SW, Rs1: 2, Rs2: 3, Imm: -2048},
		{Kind: BEQ, Rs1: 1, Rs2: 2, Imm: 100},
		{Kind: BNE, Rs1: 1, Rs2: 2, Imm: -100},
		{Kind: BLT, Rs1: 1, Rs2: 2, Imm: 4094},
		{Kind: BGE, Rs1: 1, Rs2: 2, Imm: -4096},
		{Kind: BLTU, Rs1: 1, Rs2: 2, Imm: 8},
		{Kind: BGEU, Rs1: 1, Rs2: 2, Imm: -8},
		{Kind: JAL, Rd: 1, Imm: 1048574},
		{Kind: JAL, Rd: 1, Imm: -1048576},
		{Kind: JALR, Rd: 1, Rs1: 2, Imm: -1},
		{Kind: LUI, Rd: 5, Imm: int32(0xABCDE000)},
		{Kind: AUIPC, Rd: 5, Imm: int32(0x12345000)},
		{Kind: HALT},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, want := range roundTripCases() {
		want.PC = 0x1000
		word, err := Encode(want)
		require.NoError(t, err, "%s failed to encode", want.Kind)

		got, err := Decode(word, want.PC)
		require.NoError(t, err, "%s produced undecodable word 0x%08X", want.Kind, word)

		assert.Equal(t, want.Kind, got.Kind)
		if want.Kind != HALT {
			assert.Equal(t, want.Rd, got.Rd, "%s rd", want.Kind)
			assert.Equal(t, want.Rs1, got.Rs1, "%s rs1", want.Kind)
			if aluImmUsesVk(want.Kind) || want.Kind.IsStore() || want.Kind.IsBranch() {
				assert.Equal(t, want.Rs2, got.Rs2, "%s rs2", want.Kind)
			}
			if want.Kind != SLLI && want.Kind != SRLI && want.Kind != SRAI {
				assert.Equal(t, want.Imm, got.Imm, "%s imm", want.Kind)
			} else {
				assert.Equal(t, want.Imm&0x1F, got.Imm, "%s shamt", want.Kind)
			}
		}
	}
}

func TestSraiUsesBit30(t *testing.T) {
	word, err := Encode(Decoded{Kind: SRAI, Rd: 1, Rs1: 2, Imm: 4})
	require.NoError(t, err)
	d, err := Decode(word, 0)
	require.NoError(t, err)
	assert.Equal(t, SRAI, d.Kind)

	word, err = Encode(Decoded{Kind: SRLI, Rd: 1, Rs1: 2, Imm: 4})
	require.NoError(t, err)
	d, err = Decode(word, 0)
	require.NoError(t, err)
	assert.Equal(t, SRLI, d.Kind)
}

func TestALUArithmetic(t *testing.T) {
	assert.Equal(t, uint32(5), ALU(ADD, 2, 3, 0))
	assert.Equal(t, uint32(0xFFFFFFFF), ALU(SUB, 0, 1, 0))
	assert.Equal(t, uint32(1), ALU(SLT, 0xFFFFFFFF, 0, 0)) // -1 < 0 signed
	assert.Equal(t, uint32(0), ALU(SLTU, 0xFFFFFFFF, 0, 0))
	assert.Equal(t, uint32(0x80000000), ALU(SRA, 0x80000000, 0, 0))
	assert.Equal(t, uint32(0x40000000), ALU(SRL, 0x80000000, 1, 0))
}

func TestLuiValue(t *testing.T) {
	d, err := Decode(mustEncode(t, Decoded{Kind: LUI, Rd: 1, Imm: int32(0x12345000)}), 0)
	require.NoError(t, err)
	assert.Equal(t, int32(0x12345000), d.Imm)
}

func mustEncode(t *testing.T, d Decoded) uint32 {
	t.Helper()
	w, err := Encode(d)
	require.NoError(t, err)
	return w
}
