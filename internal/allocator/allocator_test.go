package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibrahim/dsstorekit/internal/source"
	"github.com/nibrahim/dsstorekit/internal/testutil"
)

func TestOpenMinimalStore(t *testing.T) {
	b := testutil.NewBuilder()
	dsdbID := b.AddBlock([]byte{1, 2, 3, 4})
	b.SetTOC("DSDB", dsdbID)

	data := b.Build()

	a, err := Open(source.NewMemorySource(data, "test"))
	require.NoError(t, err)

	id, ok := a.Lookup("DSDB")
	require.True(t, ok)
	assert.Equal(t, dsdbID, id)

	blk, err := a.Block(id)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, blk[:4])
}

func TestOpenBadMagic(t *testing.T) {
	data := make([]byte, 64)
	_, err := Open(source.NewMemorySource(data, "bad"))
	assert.Error(t, err)
}

func TestResolveOutOfRange(t *testing.T) {
	b := testutil.NewBuilder()
	b.AddBlock([]byte{1})
	data := b.Build()

	a, err := Open(source.NewMemorySource(data, "test"))
	require.NoError(t, err)

	_, _, ok := a.Resolve(999)
	assert.False(t, ok)
}

func TestLookupMissingName(t *testing.T) {
	b := testutil.NewBuilder()
	data := b.Build()

	a, err := Open(source.NewMemorySource(data, "test"))
	require.NoError(t, err)

	_, ok := a.Lookup("DSDB")
	assert.False(t, ok)
}

func TestAddressOffsetSizeDecoding(t *testing.T) {
	b := testutil.NewBuilder()
	id := b.AddBlock(make([]byte, 64)) // pads to 64, log2=6
	data := b.Build()

	a, err := Open(source.NewMemorySource(data, "test"))
	require.NoError(t, err)

	offset, size, ok := a.Resolve(id)
	require.True(t, ok)
	assert.Equal(t, uint32(64), size)
	assert.Equal(t, uint32(0), offset%size, "offset must be size-aligned")
}

func TestReadZeroPadsShortSource(t *testing.T) {
	b := testutil.NewBuilder()
	b.AddBlock([]byte{1, 2, 3, 4})
	data := b.Build()

	// Truncate the physical file to simulate a forensic capture cut short.
	truncated := data[:len(data)-8]

	a, err := Open(source.NewMemorySource(truncated, "truncated"))
	require.NoError(t, err)

	// Reading right up to (and past) the truncated end must zero-pad
	// instead of erroring.
	logicalEnd := uint32(len(truncated)) - 4 // physical = logical + 4
	out, err := a.Read(logicalEnd-4, 16)
	require.NoError(t, err)
	assert.Len(t, out, 16)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, out[8:16])
}
