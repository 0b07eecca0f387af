package btree

import (
	"io"

	"github.com/nibrahim/dsstorekit/internal/blockcursor"
	"github.com/nibrahim/dsstorekit/internal/codes"
	"github.com/nibrahim/dsstorekit/internal/entry"
	"github.com/nibrahim/dsstorekit/internal/types"
)

// knownCodeTypePairs is the closed alphabet of 8-byte CODE+TYPE sequences
// the slack scanner treats as a plausible record start: a known record
// code immediately followed by a known type tag (§4.3).
var knownCodeTypePairs = buildKnownCodeTypePairs()

func buildKnownCodeTypePairs() map[[8]byte]bool {
	m := make(map[[8]byte]bool)
	for code := range codes.Descriptions {
		if len(code) != 4 {
			continue
		}
		for _, t := range types.KnownTypes {
			var key [8]byte
			copy(key[0:4], code)
			copy(key[4:8], t)
			m[key] = true
		}
	}
	return m
}

// findSlackCandidates locates every byte offset in data matching the
// pattern 0x00 0x00 0x00 [0x01-0xFF] (0x00 [0x01-0xFF])+ (CODE||TYPE),
// where CODE||TYPE is one of the known 8-byte pairs. The repetition count
// is resolved greedily, backing off one pair at a time until a known
// CODE||TYPE is found immediately after — reproducing the source regex
// engine's backtracking over a maximal match.
func findSlackCandidates(data []byte) []int {
	var candidates []int

	for i := 0; i+4 <= len(data); {
		if data[i] != 0 || data[i+1] != 0 || data[i+2] != 0 || data[i+3] == 0 {
			i++
			continue
		}

		pairs := 0
		j := i + 4
		for j+1 < len(data) && data[j] == 0 && data[j+1] != 0 {
			pairs++
			j += 2
		}
		if pairs == 0 {
			i++
			continue
		}

		matched := false
		for back := pairs; back >= 1; back-- {
			end := i + 4 + 2*back
			if end+8 > len(data) {
				continue
			}
			var key [8]byte
			copy(key[:], data[end:end+8])
			if knownCodeTypePairs[key] {
				candidates = append(candidates, i)
				i = end + 8 // re.finditer semantics: resume after the match, not inside it.
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}

	return candidates
}

// scanSlack decodes slack-recovered records from data. The first candidate
// is discarded on the assumption its prefix aliases a live record (§4.3,
// §9 open question 4); every subsequent candidate is decoded starting at
// the previous candidate's offset, using the slack-mode entry decoder.
func (w *Walker) scanSlack(data []byte, nodeID uint32, onError func(nodeID uint32, err error)) {
	candidates := findSlackCandidates(data)
	if len(candidates) < 2 {
		return
	}

	for i := 1; i < len(candidates); i++ {
		start := candidates[i-1]

		cur := blockcursor.New(data)
		if err := cur.Seek(int64(start), io.SeekStart); err != nil {
			continue
		}

		e, err := entry.Read(cur, true)
		if err != nil {
			if onError != nil {
				onError(nodeID, err)
			}
			continue
		}
		w.tracker.Unallocated(e, nodeID)
	}
}
