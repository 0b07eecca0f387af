// Package allocator implements the buddy allocator (component B): the file
// header, the indirect block-offset table, the named table of contents, and
// the 32 free-list buckets, plus random-access typed reads over the blocks
// they describe.
package allocator

import (
	"fmt"
	"io"

	"github.com/nibrahim/dsstorekit/internal/blockcursor"
	"github.com/nibrahim/dsstorekit/internal/interfaces"
	"github.com/nibrahim/dsstorekit/internal/source"
	"github.com/nibrahim/dsstorekit/internal/types"
)

// Allocator implements interfaces.Allocator over a source.ByteSource.
type Allocator struct {
	src      source.ByteSource
	header   types.Header
	offsets  []uint32
	toc      map[string]uint32
	freeList [types.FreeListBucketCount][]uint32
}

var _ interfaces.Allocator = (*Allocator)(nil)

// Open parses the buddy allocator layout from src: header, offset table,
// TOC, and free lists.
func Open(src source.ByteSource) (*Allocator, error) {
	a := &Allocator{src: src, toc: make(map[string]uint32)}

	if err := a.readHeader(); err != nil {
		return nil, err
	}

	rootData, err := a.Read(a.header.RootAddr, int(a.header.RootSize))
	if err != nil {
		return nil, fmt.Errorf("allocator: failed to read root block: %w", err)
	}

	cur := blockcursor.New(rootData)
	if err := a.readOffsetTable(cur); err != nil {
		return nil, err
	}
	if err := a.readTOC(cur); err != nil {
		return nil, err
	}
	if err := a.readFreeLists(cur); err != nil {
		return nil, err
	}

	return a, nil
}

// readHeader reads the fixed 36-byte preamble at absolute physical offset 0.
// Every other allocator read is relative to a logical offset shifted by
// AllocatorShift bytes on the physical file, but the header itself sits at
// the very start of the file (the well-known "\x00\x00\x00\x01Bud1..."
// signature), so it is read directly rather than through Read.
func (a *Allocator) readHeader() error {
	buf := make([]byte, 4+4+4+4+4+16)
	if _, err := a.src.ReadAt(buf, 0); err != nil && err != io.EOF {
		return fmt.Errorf("allocator: failed to read header: %w", err)
	}

	cur := blockcursor.New(buf)
	magic1, _ := cur.ReadUint32()
	magic2Bytes, _ := cur.ReadBytes(4)
	rootAddr, _ := cur.ReadUint32()
	rootSize, _ := cur.ReadUint32()
	rootAddr2, _ := cur.ReadUint32()
	unused, _ := cur.ReadBytes(16)

	var magic2 [4]byte
	copy(magic2[:], magic2Bytes)
	var unusedArr [16]byte
	copy(unusedArr[:], unused)

	a.header = types.Header{
		Magic1:    magic1,
		Magic2:    magic2,
		RootAddr:  rootAddr,
		RootSize:  rootSize,
		RootAddr2: rootAddr2,
		Unused:    unusedArr,
	}

	if magic1 != types.Magic1 || string(magic2[:]) != types.Magic2 {
		return fmt.Errorf("allocator: bad magic: got (%d, %q), want (%d, %q)",
			magic1, magic2, types.Magic1, types.Magic2)
	}
	if rootAddr != rootAddr2 {
		return fmt.Errorf("allocator: inconsistent root addresses: %d != %d", rootAddr, rootAddr2)
	}

	return nil
}

// readOffsetTable reads the root block's indirect block-id -> address
// table. The count is rounded up to the next multiple of 256 before
// reading, then truncated back to count, matching the source format.
func (a *Allocator) readOffsetTable(cur *blockcursor.Cursor) error {
	count, err := cur.ReadUint32()
	if err != nil {
		return fmt.Errorf("allocator: failed to read offset table count: %w", err)
	}
	if _, err := cur.ReadUint32(); err != nil { // unused
		return fmt.Errorf("allocator: failed to read offset table padding: %w", err)
	}

	padded := (count + uint32(types.OffsetTableChunk-1)) &^ uint32(types.OffsetTableChunk-1)

	offsets := make([]uint32, 0, padded)
	for read := uint32(0); read < padded; read += types.OffsetTableChunk {
		for i := 0; i < types.OffsetTableChunk; i++ {
			v, err := cur.ReadUint32()
			if err != nil {
				return fmt.Errorf("allocator: failed to read block offset entry: %w", err)
			}
			offsets = append(offsets, v)
		}
	}

	a.offsets = offsets[:count]
	return nil
}

// readTOC reads the flat name -> block id table of contents.
func (a *Allocator) readTOC(cur *blockcursor.Cursor) error {
	tocCount, err := cur.ReadUint32()
	if err != nil {
		return fmt.Errorf("allocator: failed to read TOC count: %w", err)
	}

	for i := uint32(0); i < tocCount; i++ {
		nlen, err := cur.ReadUint8()
		if err != nil {
			return fmt.Errorf("allocator: failed to read TOC name length: %w", err)
		}
		nameBytes, err := cur.ReadBytes(int(nlen))
		if err != nil {
			return fmt.Errorf("allocator: failed to read TOC name: %w", err)
		}
		blockID, err := cur.ReadUint32()
		if err != nil {
			return fmt.Errorf("allocator: failed to read TOC block id: %w", err)
		}
		a.toc[decodeLatin1(nameBytes)] = blockID
	}

	return nil
}

// readFreeLists reads the 32 power-of-two free-list buckets. Their contents
// are not required for traversal, but must be consumed to validate the root
// layout, and are exposed for slack recovery.
func (a *Allocator) readFreeLists(cur *blockcursor.Cursor) error {
	for i := 0; i < types.FreeListBucketCount; i++ {
		count, err := cur.ReadUint32()
		if err != nil {
			return fmt.Errorf("allocator: failed to read free-list bucket %d count: %w", i, err)
		}
		bucket := make([]uint32, count)
		for j := uint32(0); j < count; j++ {
			v, err := cur.ReadUint32()
			if err != nil {
				return fmt.Errorf("allocator: failed to read free-list bucket %d entry: %w", i, err)
			}
			bucket[j] = v
		}
		a.freeList[i] = bucket
	}
	return nil
}

// Resolve returns the (offset, size) encoded in block id's offset-table
// entry, or ok=false if id is out of range.
func (a *Allocator) Resolve(blockID uint32) (uint32, uint32, bool) {
	if int(blockID) >= len(a.offsets) {
		return 0, 0, false
	}
	addr := types.BlockAddr(a.offsets[blockID])
	return addr.Offset(), addr.Size(), true
}

// Read returns exactly n bytes starting at logical offset, applying the
// fixed +4 shift and zero-padding any shortfall against source EOF.
func (a *Allocator) Read(offset uint32, n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := a.src.ReadAt(buf, int64(offset)+types.AllocatorShift)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("allocator: read failed at offset %d: %w", offset, err)
	}
	return buf, nil
}

// Block reads the full contents of block id.
func (a *Allocator) Block(blockID uint32) ([]byte, error) {
	offset, size, ok := a.Resolve(blockID)
	if !ok {
		return nil, fmt.Errorf("allocator: block id %d out of range (%d blocks)", blockID, len(a.offsets))
	}
	return a.Read(offset, int(size))
}

// Lookup resolves a TOC name to a block id.
func (a *Allocator) Lookup(name string) (uint32, bool) {
	id, ok := a.toc[name]
	return id, ok
}

// FreeList returns the 32 raw free-list buckets.
func (a *Allocator) FreeList() [types.FreeListBucketCount][]uint32 {
	return a.freeList
}

// decodeLatin1 converts Latin-1 bytes to a UTF-8 Go string; every Latin-1
// byte maps directly to the Unicode code point of the same value.
func decodeLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
