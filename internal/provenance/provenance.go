// Package provenance implements the deduplication/provenance tracker
// (component F): a content-hash keyed map that tags each entry as
// allocated, unallocated, or reallocated, never demoting a prior tag.
package provenance

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nibrahim/dsstorekit/internal/entry"
)

// Tracker owns the per-store dedup map. It is not safe for concurrent use;
// a single DSStore owns exactly one Tracker (§5).
type Tracker struct {
	sourceName string
	entries    map[string]*entry.Entry
	status     map[string]string // hash -> current node annotation, unallocated-tagged or not
}

// New returns a Tracker scoped to sourceName, the logical byte-source
// identifier folded into every content hash.
func New(sourceName string) *Tracker {
	return &Tracker{
		sourceName: sourceName,
		entries:    make(map[string]*entry.Entry),
		status:     make(map[string]string),
	}
}

// Hash returns the content hash identifying e: an MD5 digest over
// filename, reported type, code, source name, and the decoded value's
// default string rendering — matching the source tool's hash choice
// byte-for-byte so cross-tool report comparisons remain meaningful.
func (t *Tracker) Hash(e entry.Entry) string {
	input := fmt.Sprintf("%s%s%s%s%v", e.Filename, e.Type, e.Code, t.sourceName, e.Value)
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}

// Allocated records e as seen in an allocated tree node. First sight wins;
// a subsequent sight upgrades a prior "unallocated" tag to a
// "... reallocated in N" tag and otherwise is dropped as a duplicate.
func (t *Tracker) Allocated(e entry.Entry, nodeID uint32) {
	h := t.Hash(e)
	prior, seen := t.status[h]

	switch {
	case !seen:
		e.Node = fmt.Sprintf("allocated %d", nodeID)
		t.entries[h] = &e
		t.status[h] = e.Node

	case strings.Contains(prior, "unallocated"):
		suffix := prior
		if idx := strings.Index(prior, "unallocated"); idx >= 0 {
			suffix = prior[idx+len("unallocated"):]
		}
		e.Node = fmt.Sprintf("%sreallocated in %d", suffix, nodeID)
		t.entries[h] = &e
		t.status[h] = prior + fmt.Sprintf(", reallocated in %d", nodeID)

	default:
		// Already allocated elsewhere: drop, per §4.6.
	}
}

// Unallocated records e as recovered from slack/free-list space. First
// sight wins; a subsequent sight that was previously NOT tagged
// unallocated (i.e. already allocated) upgrades that entry's node
// annotation to note the reallocation, but the allocated copy's value is
// kept.
func (t *Tracker) Unallocated(e entry.Entry, nodeID uint32) {
	h := t.Hash(e)
	prior, seen := t.status[h]

	switch {
	case !seen:
		e.Node = "unallocated"
		t.entries[h] = &e
		t.status[h] = "unallocated"

	case !strings.Contains(prior, "unallocated"):
		if existing, ok := t.entries[h]; ok {
			existing.Node = existing.Node + fmt.Sprintf(", reallocated in %d", nodeID)
		}
		t.status[h] = "reallocated"

	default:
		// Already unallocated: drop, per §4.6.
	}
}

// Flush drains and returns every currently tracked entry, in no particular
// order (the façade is responsible for sorting), clearing the tracker's
// map — this mirrors the source's per-subtree flush points (§4.3/§4.6).
func (t *Tracker) Flush() []entry.Entry {
	out := make([]entry.Entry, 0, len(t.entries))
	for h, e := range t.entries {
		out = append(out, *e)
		delete(t.entries, h)
	}
	return out
}
