// Package testutil builds synthetic buddy-allocator byte streams so the
// allocator, entry, btree, and store packages can exercise real traversal
// logic without fixture .DS_Store files on disk.
package testutil

import (
	"encoding/binary"
	"math/bits"
)

// Builder assembles a minimal but format-correct buddy allocator file.
type Builder struct {
	blocks [][]byte // block id -> padded, power-of-two-sized contents
	toc    []tocEntry
}

type tocEntry struct {
	name    string
	blockID uint32
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddBlock appends data as a new block, padding it up to the next power of
// two of at least 32 bytes, and returns its block id.
func (b *Builder) AddBlock(data []byte) uint32 {
	size := paddedSize(len(data))
	padded := make([]byte, size)
	copy(padded, data)

	id := uint32(len(b.blocks))
	b.blocks = append(b.blocks, padded)
	return id
}

// SetTOC records a TOC entry pointing name at blockID.
func (b *Builder) SetTOC(name string, blockID uint32) {
	b.toc = append(b.toc, tocEntry{name: name, blockID: blockID})
}

func paddedSize(n int) uint32 {
	if n < 32 {
		return 32
	}
	if bits.OnesCount(uint(n)) == 1 {
		return uint32(n)
	}
	return uint32(1) << bits.Len(uint(n))
}

func log2(size uint32) uint32 {
	return uint32(bits.TrailingZeros32(size))
}

// Build serializes the accumulated blocks and TOC into a complete buddy
// allocator file, including header, offset table, TOC, and 32 empty
// free-list buckets.
func (b *Builder) Build() []byte {
	// Lay out data blocks (each size-aligned) relative to the data region.
	offsets := make([]uint32, len(b.blocks))
	var cursor uint32
	for i, blk := range b.blocks {
		size := uint32(len(blk))
		if cursor%size != 0 {
			cursor += size - (cursor % size)
		}
		offsets[i] = cursor
		cursor += size
	}
	dataRegionSize := cursor

	// Root block contents: offset table, TOC, 32 free lists.
	var root []byte
	root = appendU32(root, uint32(len(offsets)))
	root = appendU32(root, 0) // unused

	padded := (uint32(len(offsets)) + 255) &^ 255
	for i := uint32(0); i < padded; i++ {
		var addr uint32
		if int(i) < len(offsets) {
			addr = offsets[i] | log2(uint32(len(b.blocks[i])))
		}
		root = appendU32(root, addr)
	}

	root = appendU32(root, uint32(len(b.toc)))
	for _, e := range b.toc {
		root = append(root, byte(len(e.name)))
		root = append(root, []byte(e.name)...)
		root = appendU32(root, e.blockID)
	}

	for i := 0; i < 32; i++ {
		root = appendU32(root, 0) // empty free list bucket
	}

	// Header: logical root address is placed right after the 36-byte
	// header on the physical file (physical = logical + 4).
	const headerSize = 36
	rootAddr := uint32(headerSize - 4)

	// Data blocks follow the root block, from a logical base aligned to
	// every block size; shift each offset-table entry by that base.
	base := rootAddr + uint32(len(root))
	for _, blk := range b.blocks {
		size := uint32(len(blk))
		base = (base + size - 1) &^ (size - 1)
	}
	for i := range offsets {
		slot := root[8+4*i:]
		binary.BigEndian.PutUint32(slot, binary.BigEndian.Uint32(slot)+base)
	}

	out := make([]byte, headerSize)
	binary.BigEndian.PutUint32(out[0:4], 1)
	copy(out[4:8], []byte("Bud1"))
	binary.BigEndian.PutUint32(out[8:12], rootAddr)
	binary.BigEndian.PutUint32(out[12:16], uint32(len(root)))
	binary.BigEndian.PutUint32(out[16:20], rootAddr)
	// bytes 20:36 unused, left zero

	out = append(out, root...)
	out = append(out, make([]byte, int(base)+4-len(out))...)

	dataRegion := make([]byte, dataRegionSize)
	for i, blk := range b.blocks {
		copy(dataRegion[offsets[i]:], blk)
	}
	out = append(out, dataRegion...)

	return out
}

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}
