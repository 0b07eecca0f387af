package store

import (
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/nibrahim/dsstorekit/internal/codes"
	"github.com/nibrahim/dsstorekit/internal/entry"
	"github.com/nibrahim/dsstorekit/internal/types"
)

// macEpoch is 2001-01-01 00:00:00 UTC, the epoch modD/moDD timestamps are
// relative to.
var macEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// hfsEpoch is 1904-01-01 00:00:00 UTC, the epoch dutc values are relative
// to.
var hfsEpoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// Record wraps one decoded, deduplicated entry with the presentation
// formatting from §4.7/§6: code descriptions, modD/dutc timestamps, and
// hex rendering of uncodec'd blobs.
type Record struct {
	entry.Entry
}

// AsDict renders the record into the field set a report row or CLI line
// displays: filename, code (plus its looked-up description), type, the
// formatted value, and the provenance node annotation.
func (r Record) AsDict() map[string]any {
	return map[string]any{
		"filename":    r.Entry.Filename,
		"code":        r.Entry.Code,
		"description": codes.Describe(r.Entry.Code),
		"type":        r.Entry.Type,
		"value":       r.formatValue(),
		"node":        r.Entry.Node,
	}
}

func (r Record) formatValue() any {
	if r.Entry.Type == types.TypeDutc {
		if v, ok := r.Entry.Value.(uint64); ok {
			return decodeDutcTimestamp(v)
		}
		return r.Entry.Value
	}

	if r.Entry.Code == "vstl" {
		if v, ok := r.Entry.Value.(string); ok {
			return codes.Style(v)
		}
		return r.Entry.Value
	}

	if r.Entry.Type != types.TypeBlob {
		return r.Entry.Value
	}

	raw, ok := r.Entry.Value.([]byte)
	if !ok {
		// A codec already rendered this blob into a string or structured
		// value; the reported type differs from "blob" in that case, but
		// guard anyway since formatValue only trusts Type for dispatch.
		return r.Entry.Value
	}

	switch r.Entry.Code {
	case "modD", "moDD":
		ts, err := decodeModDTimestamp(raw)
		if err != nil {
			return fmt.Sprintf("%s (%s)", hex.EncodeToString(raw), err)
		}
		return ts
	default:
		return hex.EncodeToString(raw)
	}
}

// decodeModDTimestamp reverses the payload's first 8 bytes and decodes them
// as a big-endian IEEE-754 double (i.e. the bytes are little-endian, see
// SPEC_FULL.md §9 open question 3), then adds that many seconds to the Mac
// epoch.
func decodeModDTimestamp(raw []byte) (time.Time, error) {
	if len(raw) < 8 {
		return time.Time{}, fmt.Errorf("modD payload too short: %d bytes", len(raw))
	}

	var reversed [8]byte
	for i := 0; i < 8; i++ {
		reversed[i] = raw[7-i]
	}
	bits := uint64(reversed[0])<<56 | uint64(reversed[1])<<48 | uint64(reversed[2])<<40 | uint64(reversed[3])<<32 |
		uint64(reversed[4])<<24 | uint64(reversed[5])<<16 | uint64(reversed[6])<<8 | uint64(reversed[7])
	seconds := math.Float64frombits(bits)

	return macEpoch.Add(time.Duration(seconds * float64(time.Second))), nil
}

// decodeDutcTimestamp converts a dutc raw value into the HFS-epoch-relative
// timestamp described in §4.7: value/65536 seconds past 1904-01-01 UTC.
func decodeDutcTimestamp(value uint64) time.Time {
	seconds := float64(value) / 65536.0
	return hfsEpoch.Add(time.Duration(seconds * float64(time.Second)))
}
