// Package report implements the TSV report writer (component K): three
// timestamped reports classifying records by code into folder-interaction,
// miscellaneous-info, and catch-all buckets.
package report

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nibrahim/dsstorekit/internal/scan"
	"github.com/nibrahim/dsstorekit/internal/store"
)

// folderInteractionCodes are the record codes classified as folder-access
// behavior (§4.11), matching the reference tool's RecordHandler grouping.
var folderInteractionCodes = map[string]bool{
	"dscl": true, "fdsc": true, "vSrn": true, "BKGD": true, "ICVO": true, "LSVO": true,
	"bwsp": true, "fwi0": true, "fwsw": true, "fwvh": true, "glvp": true, "GRP0": true,
	"icgo": true, "icsp": true, "icvo": true, "icvp": true, "icvt": true, "info": true,
	"lssp": true, "lsvC": true, "lsvo": true, "lsvt": true, "lsvp": true, "lsvP": true,
	"pict": true, "bRsV": true, "pBBk": true, "pBB0": true, "vstl": true,
}

// otherInfoCodes are the record codes classified as miscellaneous file info
// (§4.11).
var otherInfoCodes = map[string]bool{
	"Iloc": true, "dilc": true, "cmmt": true, "clip": true, "extn": true, "logS": true,
	"lg1S": true, "modD": true, "moDD": true, "phyS": true, "ph1S": true, "ptbL": true,
	"ptbN": true,
}

// Writer owns the three open report files for one CLI invocation.
type Writer struct {
	all        *csv.Writer
	folder     *csv.Writer
	misc       *csv.Writer
	allFile    *os.File
	folderFile *os.File
	miscFile   *os.File
}

// Open creates the three timestamped TSV reports under outDir, named per
// §4.11, writing their header rows.
func Open(outDir string, timestampFormat string, now time.Time) (*Writer, error) {
	ts := now.Format(timestampFormat)

	allFile, allW, err := openTSV(outDir, fmt.Sprintf("DS_Store-All_Parsed_Report-%s.tsv", ts))
	if err != nil {
		return nil, err
	}
	folderFile, folderW, err := openTSV(outDir, fmt.Sprintf("DS_Store-Folder_Access_Report-%s.tsv", ts))
	if err != nil {
		allFile.Close()
		return nil, err
	}
	miscFile, miscW, err := openTSV(outDir, fmt.Sprintf("DS_Store-Miscellaneous_Info_Report-%s.tsv", ts))
	if err != nil {
		allFile.Close()
		folderFile.Close()
		return nil, err
	}

	return &Writer{
		all: allW, folder: folderW, misc: miscW,
		allFile: allFile, folderFile: folderFile, miscFile: miscFile,
	}, nil
}

func openTSV(outDir, name string) (*os.File, *csv.Writer, error) {
	f, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return nil, nil, fmt.Errorf("report: failed to create %s: %w", name, err)
	}
	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.Write([]string{"Source File", "Filename", "Code", "Description", "Type", "Value", "Provenance"}); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("report: failed to write header for %s: %w", name, err)
	}
	return f, w, nil
}

// WriteRecord writes rec (from sourcePath) to the all-records report, plus
// the folder-access or misc-info report if rec's code is classified. A
// record whose code is in neither set is logged as unaccounted for (§4.11)
// but still lands in the all-records report.
func (w *Writer) WriteRecord(sourcePath string, rec store.Record) error {
	d := rec.AsDict()
	typeStr := fmt.Sprintf("%v", d["type"])
	if strings.Contains(typeStr, "Codec") {
		typeStr = fmt.Sprintf("blob (%s)", typeStr)
	}
	row := []string{
		sourcePath,
		fmt.Sprintf("%v", d["filename"]),
		fmt.Sprintf("%v", d["code"]),
		fmt.Sprintf("%v", d["description"]),
		typeStr,
		fmt.Sprintf("%v", d["value"]),
		fmt.Sprintf("%v", d["node"]),
	}

	if err := w.all.Write(row); err != nil {
		return fmt.Errorf("report: failed to write all-records row: %w", err)
	}

	code := rec.Entry.Code
	switch {
	case folderInteractionCodes[code]:
		if err := w.folder.Write(row); err != nil {
			return fmt.Errorf("report: failed to write folder-access row: %w", err)
		}
	case otherInfoCodes[code]:
		if err := w.misc.Write(row); err != nil {
			return fmt.Errorf("report: failed to write misc-info row: %w", err)
		}
	default:
		log.Printf("Code not accounted for: %s", code)
	}

	return nil
}

// WriteEmptyStore writes a single synthetic placeholder row for a
// zero-byte .DS_Store file discovered by scan (§4.10).
func (w *Writer) WriteEmptyStore(stat scan.FileStat) error {
	row := []string{stat.Path, "", "", "", "", "empty store", ""}
	if err := w.all.Write(row); err != nil {
		return fmt.Errorf("report: failed to write empty-store row: %w", err)
	}
	return nil
}

// Close flushes and closes all three report files.
func (w *Writer) Close() error {
	w.all.Flush()
	w.folder.Flush()
	w.misc.Flush()

	var firstErr error
	for _, f := range []*os.File{w.allFile, w.folderFile, w.miscFile} {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, cw := range []*csv.Writer{w.all, w.folder, w.misc} {
		if err := cw.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
