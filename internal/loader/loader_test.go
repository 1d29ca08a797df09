package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northbridge-labs/rvsim/internal/mem"
)

func TestLoadFlatStream(t *testing.T) {
	m := mem.New()
	res, err := Load(strings.NewReader("13 05 00 02 // addi x10,x0,32"), m)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Bytes)

	word, err := m.ReadWord(0)
	require.NoError(t, err)
	assert.EqualValues(t, 0x02000513, word)
}

func TestLoadAddressDirective(t *testing.T) {
	m := mem.New()
	res, err := Load(strings.NewReader("@100\nAA BB"), m)
	require.NoError(t, err)
	assert.EqualValues(t, 0x100, res.MinAddr)
	assert.EqualValues(t, 0x101, res.MaxAddr)

	b, err := m.ReadByte(0x100)
	require.NoError(t, err)
	assert.EqualValues(t, 0xAA, b)
}

func TestLoadDiscardsOutOfRangeBytes(t *testing.T) {
	m := mem.New()
	_, err := Load(strings.NewReader("@FFFFFFF0\nAA BB CC DD EE FF 11 22"), m)
	require.NoError(t, err)
}

func TestLoadRejectsBadToken(t *testing.T) {
	m := mem.New()
	_, err := Load(strings.NewReader("ZZ"), m)
	assert.Error(t, err)
}
