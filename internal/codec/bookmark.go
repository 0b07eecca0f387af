package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nibrahim/dsstorekit/internal/blockcursor"
)

func init() {
	c := bookmarkCodec{}
	register("pBBk", c)
	register("pBB0", c)
}

// Apple's bookmark item type tags (high 24 bits of a type-mask word); the
// low 8 bits are a subtype, ignored here beyond the boolean true/false case.
const (
	bmkString  = 0x0100
	bmkData    = 0x0200
	bmkNumber  = 0x0300
	bmkDate    = 0x0400
	bmkBoolean = 0x0500
	bmkArray   = 0x0600
	bmkDict    = 0x0700
	bmkUUID    = 0x0800
	bmkURL     = 0x0900
	bmkNull    = 0x0a00

	bmkTypeMask = 0xffffff00
)

// bookmarkCodec decodes an Apple alias/bookmark container ("book...mark"
// magic, length-prefixed header, then a TOC of key -> item-offset pairs).
// The format is undocumented and little-endian throughout, unlike every
// other field in the store; grounded on the header/TOC reader in the
// cocoa package's BookmarkFromReader.
type bookmarkCodec struct{}

func (bookmarkCodec) Name() string { return "BookmarkCodec" }

func (bookmarkCodec) Decode(payload []byte) any {
	r, err := newBookmarkReader(payload)
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}

	items := make(map[string]any, len(r.toc))
	for key, offset := range r.toc {
		v, err := r.decodeItem(offset)
		if err != nil {
			v = fmt.Sprintf("<undecodable: %v>", err)
		}
		items[fmt.Sprintf("0x%04x", key)] = v
	}
	return items
}

type bookmarkReader struct {
	data       []byte
	headerSize uint32
	toc        map[uint32]uint32 // key -> absolute byte offset of item
}

func newBookmarkReader(data []byte) (*bookmarkReader, error) {
	if len(data) < 4 || string(data[0:4]) != "book" {
		return nil, fmt.Errorf("bookmark: missing 'book' magic")
	}

	cur := blockcursor.New(data)
	if err := cur.Seek(4, io.SeekStart); err != nil { // past "book"
		return nil, err
	}
	if err := cur.Seek(4, io.SeekCurrent); err != nil { // skip
		return nil, err
	}
	markBytes, err := cur.ReadBytes(4)
	if err != nil || string(markBytes) != "mark" {
		return nil, fmt.Errorf("bookmark: missing 'mark' magic")
	}
	if err := cur.Seek(4, io.SeekCurrent); err != nil { // skip
		return nil, err
	}

	headerSize, err := readLEUint32(cur)
	if err != nil {
		return nil, err
	}
	if err := cur.Seek(4, io.SeekCurrent); err != nil { // skip, second header-size copy
		return nil, err
	}
	if _, err := readLEUint32(cur); err != nil { // body size
		return nil, err
	}
	if err := cur.Seek(28, io.SeekCurrent); err != nil { // skip, reserved
		return nil, err
	}

	tocOffset, err := readLEUint32(cur)
	if err != nil {
		return nil, err
	}
	if err := cur.Seek(int64(tocOffset)-4, io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("bookmark: bad TOC offset: %w", err)
	}

	r := &bookmarkReader{data: data, headerSize: headerSize, toc: map[uint32]uint32{}}
	if err := r.readTOC(cur); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *bookmarkReader) readTOC(cur *blockcursor.Cursor) error {
	if _, err := readLEUint32(cur); err != nil { // TOC size
		return err
	}
	magic, err := cur.ReadBytes(4)
	if err != nil {
		return err
	}
	if magic[0] != 0xFE || magic[1] != 0xFF || magic[2] != 0xFF || magic[3] != 0xFF {
		return fmt.Errorf("bookmark: bad TOC magic")
	}
	if err := cur.Seek(8, io.SeekCurrent); err != nil { // identifier + next-TOC offset
		return err
	}
	nItems, err := readLEUint32(cur)
	if err != nil {
		return err
	}

	for i := uint32(0); i < nItems; i++ {
		key, err := readLEUint32(cur)
		if err != nil {
			return err
		}
		offset, err := readLEUint32(cur)
		if err != nil {
			return err
		}
		if err := cur.Seek(4, io.SeekCurrent); err != nil { // blank
			return err
		}
		r.toc[key] = offset + r.headerSize
	}
	return nil
}

// decodeItem reads the item record at absolute offset: a u32 size, a u32
// type-mask, then size bytes of type-specific payload.
func (r *bookmarkReader) decodeItem(offset uint32) (any, error) {
	if int64(offset)+8 > int64(len(r.data)) {
		return nil, fmt.Errorf("item offset %d out of range", offset)
	}
	cur := blockcursor.New(r.data)
	if err := cur.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, err
	}

	size, err := readLEUint32(cur)
	if err != nil {
		return nil, err
	}
	typeMask, err := readLEUint32(cur)
	if err != nil {
		return nil, err
	}
	body, err := cur.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}

	switch typeMask & bmkTypeMask {
	case bmkString:
		return string(body), nil
	case bmkBoolean:
		return typeMask&0xff == 1, nil
	case bmkNumber:
		if len(body) == 8 {
			return binary.LittleEndian.Uint64(body), nil
		}
		if len(body) == 4 {
			return binary.LittleEndian.Uint32(body), nil
		}
		return Hex(body), nil
	case bmkData, bmkUUID, bmkURL, bmkDate, bmkArray, bmkDict, bmkNull:
		return Hex(body), nil
	default:
		return Hex(body), nil
	}
}

func readLEUint32(cur *blockcursor.Cursor) (uint32, error) {
	b, err := cur.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}
