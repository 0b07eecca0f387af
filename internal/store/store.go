// Package store implements the iterator façade (component G): opening a
// .DS_Store byte source, locating its superblock, walking its B-tree, and
// handing back the deduplicated records in deterministic sorted order.
package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nibrahim/dsstorekit/internal/allocator"
	"github.com/nibrahim/dsstorekit/internal/blockcursor"
	"github.com/nibrahim/dsstorekit/internal/btree"
	"github.com/nibrahim/dsstorekit/internal/entry"
	"github.com/nibrahim/dsstorekit/internal/provenance"
	"github.com/nibrahim/dsstorekit/internal/source"
	"github.com/nibrahim/dsstorekit/internal/types"
)

// DSStore is a single opened .DS_Store file: its allocator, its resolved
// superblock, and the provenance tracker that owns its dedup state (§5 — a
// DSStore is not safe for concurrent use).
type DSStore struct {
	src     source.ByteSource
	alloc   *allocator.Allocator
	super   types.Superblock
	tracker *provenance.Tracker
}

// Open parses src's buddy allocator layout and resolves its "DSDB"
// superblock. It does not yet walk the tree; call Entries for that.
func Open(src source.ByteSource) (*DSStore, error) {
	alloc, err := allocator.Open(src)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open %s: %w", src.Name(), err)
	}

	superBlockID, ok := alloc.Lookup("DSDB")
	if !ok {
		return nil, fmt.Errorf("store: %s has no DSDB entry", src.Name())
	}

	data, err := alloc.Block(superBlockID)
	if err != nil {
		return nil, fmt.Errorf("store: failed to read superblock in %s: %w", src.Name(), err)
	}
	super, err := readSuperblock(data)
	if err != nil {
		return nil, fmt.Errorf("store: failed to decode superblock in %s: %w", src.Name(), err)
	}

	return &DSStore{
		src:     src,
		alloc:   alloc,
		super:   super,
		tracker: provenance.New(src.Name()),
	}, nil
}

func readSuperblock(data []byte) (types.Superblock, error) {
	cur := blockcursor.New(data)
	rootNodeID, err := cur.ReadUint32()
	if err != nil {
		return types.Superblock{}, err
	}
	levelCount, err := cur.ReadUint32()
	if err != nil {
		return types.Superblock{}, err
	}
	recordCount, err := cur.ReadUint32()
	if err != nil {
		return types.Superblock{}, err
	}
	nodeCount, err := cur.ReadUint32()
	if err != nil {
		return types.Superblock{}, err
	}
	pageSize, err := cur.ReadUint32()
	if err != nil {
		return types.Superblock{}, err
	}
	return types.Superblock{
		RootNodeID:  rootNodeID,
		LevelCount:  levelCount,
		RecordCount: recordCount,
		NodeCount:   nodeCount,
		PageSize:    pageSize,
	}, nil
}

// Superblock returns the store's resolved B-tree metadata.
func (s *DSStore) Superblock() types.Superblock {
	return s.super
}

// Entries walks the full tree (including slack and free-list recovery),
// then returns every unique record sorted by (lowercased filename, code)
// per §4.7. onError receives non-fatal per-record and per-node decode
// failures; it may be nil.
func (s *DSStore) Entries(onError func(nodeID uint32, err error)) ([]Record, error) {
	w := btree.New(s.alloc, s.tracker)

	if s.super.RecordCount > 0 || s.super.NodeCount > 0 {
		if err := w.Walk(s.super.RootNodeID, onError); err != nil {
			return nil, fmt.Errorf("store: failed to walk %s: %w", s.src.Name(), err)
		}
	}
	w.ScanFreeLists(onError)

	raw := s.tracker.Flush()
	records := make([]Record, 0, len(raw))
	for _, e := range raw {
		records = append(records, Record{Entry: e})
	}

	sort.Slice(records, func(i, j int) bool {
		li := strings.ToLower(records[i].Entry.Filename)
		lj := strings.ToLower(records[j].Entry.Filename)
		if li != lj {
			return li < lj
		}
		return records[i].Entry.Code < records[j].Entry.Code
	})

	return records, nil
}

// Close releases the underlying byte source.
func (s *DSStore) Close() error {
	return s.src.Close()
}
