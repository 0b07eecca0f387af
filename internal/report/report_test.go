package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibrahim/dsstorekit/internal/entry"
	"github.com/nibrahim/dsstorekit/internal/scan"
	"github.com/nibrahim/dsstorekit/internal/store"
	"github.com/nibrahim/dsstorekit/internal/types"
)

func TestWriteRecordClassifiesFolderAccessCode(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, "20060102-150405", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	rec := store.Record{Entry: entry.Entry{Filename: "x", Code: "BKGD", Type: types.TypeLong, Value: uint32(1), Node: "allocated 1"}}
	require.NoError(t, w.WriteRecord("/tmp/.DS_Store", rec))
	require.NoError(t, w.Close())

	folderContents := readAllLines(t, dir, "DS_Store-Folder_Access_Report-20240102-030405.tsv")
	require.Len(t, folderContents, 2)
	assert.Contains(t, folderContents[1], "BKGD")

	miscContents := readAllLines(t, dir, "DS_Store-Miscellaneous_Info_Report-20240102-030405.tsv")
	require.Len(t, miscContents, 1) // header only
}

func TestWriteRecordClassifiesMiscInfoCode(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, "20060102-150405", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	rec := store.Record{Entry: entry.Entry{Filename: "x", Code: "cmmt", Type: types.TypeUstr, Value: "hi", Node: "allocated 1"}}
	require.NoError(t, w.WriteRecord("/tmp/.DS_Store", rec))
	require.NoError(t, w.Close())

	miscContents := readAllLines(t, dir, "DS_Store-Miscellaneous_Info_Report-20240102-030405.tsv")
	require.Len(t, miscContents, 2)
	assert.Contains(t, miscContents[1], "cmmt")
}

func TestWriteRecordUnclassifiedCodeStillLandsInAllRecords(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, "20060102-150405", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	rec := store.Record{Entry: entry.Entry{Filename: "x", Code: "zzzz", Type: types.TypeLong, Value: uint32(1), Node: "allocated 1"}}
	require.NoError(t, w.WriteRecord("/tmp/.DS_Store", rec))
	require.NoError(t, w.Close())

	allContents := readAllLines(t, dir, "DS_Store-All_Parsed_Report-20240102-030405.tsv")
	require.Len(t, allContents, 2)
	assert.Contains(t, allContents[1], "zzzz")

	folderContents := readAllLines(t, dir, "DS_Store-Folder_Access_Report-20240102-030405.tsv")
	require.Len(t, folderContents, 1)
	miscContents := readAllLines(t, dir, "DS_Store-Miscellaneous_Info_Report-20240102-030405.tsv")
	require.Len(t, miscContents, 1)
}

func TestWriteRecordPrefixesCodecRenderedTypeAsBlob(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, "20060102-150405", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	rec := store.Record{Entry: entry.Entry{Filename: "x", Code: "Iloc", Type: "IlocCodec", Value: "Location: (10, 20), Selected Index: Null, Unknown: 00000000", Node: "allocated 1"}}
	require.NoError(t, w.WriteRecord("/tmp/.DS_Store", rec))
	require.NoError(t, w.Close())

	allContents := readAllLines(t, dir, "DS_Store-All_Parsed_Report-20240102-030405.tsv")
	require.Len(t, allContents, 2)
	assert.Contains(t, allContents[1], "blob (IlocCodec)")
}

func TestWriteEmptyStoreRow(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, "20060102-150405", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, w.WriteEmptyStore(scan.FileStat{Path: "/tmp/.DS_Store", IsEmptyStore: true}))
	require.NoError(t, w.Close())

	allContents := readAllLines(t, dir, "DS_Store-All_Parsed_Report-20240102-030405.tsv")
	require.Len(t, allContents, 2)
	assert.Contains(t, allContents[1], "empty store")
}

func readAllLines(t *testing.T, dir, name string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	lines := []string{}
	start := 0
	for i, c := range data {
		if c == '\n' {
			lines = append(lines, string(data[start:i]))
			start = i + 1
		}
	}
	return lines
}
