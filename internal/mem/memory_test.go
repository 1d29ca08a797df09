package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordRoundTrip(t *testing.T) {
	m := New()
	require.NoError(t, m.WriteWord(0x400, 0x12345678))
	v, err := m.ReadWord(0x400)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v)
}

func TestByteWithinWordLittleEndian(t *testing.T) {
	m := New()
	require.NoError(t, m.WriteWord(0x400, 0x12345678))
	b, err := m.ReadByte(0x400)
	require.NoError(t, err)
	assert.Equal(t, byte(0x78), b)
}

func TestMisalignedHalfIsFatal(t *testing.T) {
	m := New()
	_, err := m.ReadHalf(0x401)
	assert.Error(t, err)
}

func TestMisalignedWordIsFatal(t *testing.T) {
	m := New()
	_, err := m.ReadWord(0x402)
	assert.Error(t, err)
}

func TestByteAccessNeverMisaligned(t *testing.T) {
	m := New()
	_, err := m.ReadByte(0x401)
	assert.NoError(t, err)
}

func TestBoundaryWordAtEndOfMemory(t *testing.T) {
	m := New()
	require.NoError(t, m.WriteWord(Size-4, 0xdeadbeef))
	_, err := m.ReadWord(Size - 3)
	assert.Error(t, err, "word access crossing the end of memory must be fatal")
}

func TestLoadByteAtDiscardsOutOfRange(t *testing.T) {
	m := New()
	m.LoadByteAt(Size+10, 0xAB)
	// must not panic; nothing else to assert since it's silently discarded
}
