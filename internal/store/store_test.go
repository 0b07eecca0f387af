package store

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibrahim/dsstorekit/internal/entry"
	"github.com/nibrahim/dsstorekit/internal/source"
	"github.com/nibrahim/dsstorekit/internal/testutil"
	"github.com/nibrahim/dsstorekit/internal/types"
)

func entryWithBlob(code string, payload []byte) entry.Entry {
	return entry.Entry{Filename: "f", Code: code, Type: types.TypeBlob, Value: payload}
}

func entryWithDutc(value uint64) entry.Entry {
	return entry.Entry{Filename: "f", Code: "dutc", Type: types.TypeDutc, Value: value}
}

func buildSuperblock(rootNodeID, levelCount, recordCount, nodeCount, pageSize uint32) []byte {
	out := make([]byte, 20)
	binary.BigEndian.PutUint32(out[0:4], rootNodeID)
	binary.BigEndian.PutUint32(out[4:8], levelCount)
	binary.BigEndian.PutUint32(out[8:12], recordCount)
	binary.BigEndian.PutUint32(out[12:16], nodeCount)
	binary.BigEndian.PutUint32(out[16:20], pageSize)
	return out
}

func openStore(t *testing.T, b *testutil.Builder) *DSStore {
	t.Helper()
	s, err := Open(source.NewMemorySource(b.Build(), "test.DS_Store"))
	require.NoError(t, err)
	return s
}

func TestOpenEmptyStoreYieldsNoEntries(t *testing.T) {
	b := testutil.NewBuilder()
	rootID := b.AddBlock(testutil.EncodeLeaf())
	superID := b.AddBlock(buildSuperblock(rootID, 0, 0, 1, 4096))
	b.SetTOC("DSDB", superID)

	s := openStore(t, b)
	entries, err := s.Entries(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSingleIlocRecordScenario3(t *testing.T) {
	b := testutil.NewBuilder()
	payload := []byte{0x00, 0x00, 0x00, 0x0A, 0x00, 0x00, 0x00, 0x14, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00}
	leaf := testutil.EncodeLeaf(testutil.EncodeBlobRecord("foo.txt", "Iloc", payload))
	rootID := b.AddBlock(leaf)
	superID := b.AddBlock(buildSuperblock(rootID, 0, 1, 1, 4096))
	b.SetTOC("DSDB", superID)

	s := openStore(t, b)
	entries, err := s.Entries(nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	rec := entries[0]
	assert.Equal(t, "foo.txt", rec.Entry.Filename)
	assert.Equal(t, "Iloc", rec.Entry.Code)
	assert.Equal(t, "IlocCodec", rec.Entry.Type)
	assert.Equal(t, "Location: (10, 20), Selected Index: Null, Unknown: 00000000", rec.Entry.Value)
}

func TestEntriesSortedByLowercasedFilenameThenCode(t *testing.T) {
	b := testutil.NewBuilder()
	leaf := testutil.EncodeLeaf(
		testutil.EncodeLongRecord("Banana", "logS", 1),
		testutil.EncodeLongRecord("apple", "logS", 2),
		testutil.EncodeLongRecord("apple", "BKGD", 3),
	)
	rootID := b.AddBlock(leaf)
	superID := b.AddBlock(buildSuperblock(rootID, 0, 3, 1, 4096))
	b.SetTOC("DSDB", superID)

	s := openStore(t, b)
	entries, err := s.Entries(nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "apple", entries[0].Entry.Filename)
	assert.Equal(t, "BKGD", entries[0].Entry.Code)
	assert.Equal(t, "apple", entries[1].Entry.Filename)
	assert.Equal(t, "logS", entries[1].Entry.Code)
	assert.Equal(t, "Banana", entries[2].Entry.Filename)
}

func TestModDTimestampDecodesAsMacEpochPlusLittleEndianDouble(t *testing.T) {
	seconds := 12345.0
	var reversed [8]byte
	binary.BigEndian.PutUint64(reversed[:], math.Float64bits(seconds))
	payload := make([]byte, 8)
	for i := 0; i < 8; i++ {
		payload[i] = reversed[7-i]
	}

	r := Record{Entry: entryWithBlob("modD", payload)}
	got := r.formatValue()

	ts, ok := got.(time.Time)
	require.True(t, ok)
	assert.Equal(t, macEpoch.Add(time.Duration(seconds)*time.Second), ts)
}

func TestDutcTimestampUsesHFSEpoch(t *testing.T) {
	r := Record{Entry: entryWithDutc(0x00000000C5A24B40)}
	got := r.formatValue()

	ts, ok := got.(time.Time)
	require.True(t, ok)

	wantSeconds := float64(0xC5A24B40) / 65536.0
	want := hfsEpoch.Add(time.Duration(wantSeconds * float64(time.Second)))
	assert.Equal(t, want, ts)
}

func TestUncodecdBlobRendersLowercaseHex(t *testing.T) {
	r := Record{Entry: entryWithBlob("xxxx", []byte{0xDE, 0xAD, 0xBE, 0xEF})}
	assert.Equal(t, "deadbeef", r.formatValue())
}

func TestVstlValueRendersStyleDescription(t *testing.T) {
	r := Record{Entry: entry.Entry{Filename: "f", Code: "vstl", Type: types.TypeType, Value: "Nlsv"}}
	assert.Equal(t, "Nlsv: List View", r.formatValue())
}

func TestVstlUnknownValueRendersUnknownCode(t *testing.T) {
	r := Record{Entry: entry.Entry{Filename: "f", Code: "vstl", Type: types.TypeType, Value: "zzzz"}}
	assert.Equal(t, "Unknown Code: zzzz", r.formatValue())
}
