// Package btree implements the B-tree traversal (component E): an
// explicit-stack in-order walk of the persistent tree, plus slack
// recovery over leaf tail bytes and free-list blocks.
package btree

import (
	"fmt"

	"github.com/nibrahim/dsstorekit/internal/blockcursor"
	"github.com/nibrahim/dsstorekit/internal/entry"
	"github.com/nibrahim/dsstorekit/internal/interfaces"
	"github.com/nibrahim/dsstorekit/internal/provenance"
)

// Walker performs depth-first in-order traversal over an Allocator-backed
// B-tree, feeding decoded records to a Tracker in visiting order.
type Walker struct {
	alloc   interfaces.Allocator
	tracker *provenance.Tracker
}

// New returns a Walker over alloc, recording provenance into tracker.
func New(alloc interfaces.Allocator, tracker *provenance.Tracker) *Walker {
	return &Walker{alloc: alloc, tracker: tracker}
}

// frame is one node's traversal state: its cursor position within the
// node's bytes, the (next, count) header, how many of its count records
// have been visited, and which of its own two recursive calls (a child, or
// the trailing `next` pointer) the stack is currently waiting on.
//
// Using an explicit stack of these frames instead of native recursion (see
// SPEC_FULL.md §4.3/§9) keeps pathological trees from blowing the call
// stack. The stack is local to Walk, which runs the traversal to completion.
type frame struct {
	nodeID              uint32
	cur                 *blockcursor.Cursor
	next                uint32
	count               uint32
	index               uint32
	awaitingChildReturn bool
	awaitingNextReturn  bool
}

func (w *Walker) newFrame(nodeID uint32) (*frame, error) {
	data, err := w.alloc.Block(nodeID)
	if err != nil {
		return nil, fmt.Errorf("btree: failed to read node %d: %w", nodeID, err)
	}
	cur := blockcursor.New(data)

	next, err := cur.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("btree: failed to read node %d header: %w", nodeID, err)
	}
	count, err := cur.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("btree: failed to read node %d header: %w", nodeID, err)
	}

	return &frame{nodeID: nodeID, cur: cur, next: next, count: count}, nil
}

// Walk traverses the tree rooted at rootNodeID in-order: for an internal
// node, child_0, record_0, child_1, record_1, ..., child_{count-1},
// record_{count-1}, next; for a leaf, its count records in sequence, then
// its unconsumed tail bytes are handed to the slack scanner. Every decoded
// record is recorded into the Tracker in this visiting order. A per-record
// decode failure is reported via onError and the walk continues; a
// block-level read failure aborts the walk.
func (w *Walker) Walk(rootNodeID uint32, onError func(nodeID uint32, err error)) error {
	root, err := w.newFrame(rootNodeID)
	if err != nil {
		return err
	}
	stack := []*frame{root}

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		switch {
		case f.awaitingChildReturn:
			e, err := entry.Read(f.cur, false)
			if err != nil {
				if onError != nil {
					onError(f.nodeID, err)
				}
			} else {
				w.tracker.Allocated(e, f.nodeID)
			}
			f.index++
			f.awaitingChildReturn = false

		case f.awaitingNextReturn:
			stack = stack[:len(stack)-1]

		case f.next != 0 && f.index < f.count:
			childID, err := f.cur.ReadUint32()
			if err != nil {
				return fmt.Errorf("btree: failed to read child pointer in node %d: %w", f.nodeID, err)
			}
			f.awaitingChildReturn = true
			child, err := w.newFrame(childID)
			if err != nil {
				return err
			}
			stack = append(stack, child)

		case f.next != 0: // index == count: descend into the rightmost child
			f.awaitingNextReturn = true
			child, err := w.newFrame(f.next)
			if err != nil {
				return err
			}
			stack = append(stack, child)

		case f.index < f.count: // leaf
			e, err := entry.Read(f.cur, false)
			if err != nil {
				if onError != nil {
					onError(f.nodeID, err)
				}
			} else {
				w.tracker.Allocated(e, f.nodeID)
			}
			f.index++

		default: // leaf, fully consumed
			if unconsumed := f.cur.Len() - f.cur.Tell(); unconsumed > 0 {
				if tail, err := f.cur.ReadBytes(int(unconsumed)); err == nil {
					w.scanSlack(tail, f.nodeID, onError)
				}
			}
			stack = stack[:len(stack)-1]
		}
	}

	return nil
}

// ScanFreeLists scans every block referenced by the allocator's free-list
// buckets for slack-recovered records (§4.3): these blocks are not part of
// the live tree but may still hold bytes from previously-written records.
func (w *Walker) ScanFreeLists(onError func(nodeID uint32, err error)) {
	for bucket, addrs := range w.alloc.FreeList() {
		for _, addr := range addrs {
			offset := addr &^ 0x1F
			size := uint32(1) << (addr & 0x1F)
			data, err := w.alloc.Read(offset, int(size))
			if err != nil {
				continue
			}
			w.scanSlack(data, uint32(bucket), onError)
		}
	}
}
