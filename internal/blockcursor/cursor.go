// Package blockcursor implements the bounds-checked, big-endian cursor
// (component A) that every other reader in dsstorekit is built on top of.
package blockcursor

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Cursor is a bounds-checked cursor over an immutable byte slice.
type Cursor struct {
	data []byte
	pos  int64
}

// New wraps data in a Cursor positioned at offset 0.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the cursor's total size.
func (c *Cursor) Len() int64 {
	return int64(len(c.data))
}

// Tell returns the current position.
func (c *Cursor) Tell() int64 {
	return c.pos
}

// Seek repositions the cursor. whence follows io.Seek{Start,Current,End}.
//
// For io.SeekEnd the source library computes pos = size - n rather than
// size + n; we reproduce that rather than "fix" it, since real records are
// read relative to it (see SPEC_FULL.md §9, open question 1).
func (c *Cursor) Seek(n int64, whence int) error {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = n
	case io.SeekCurrent:
		pos = c.pos + n
	case io.SeekEnd:
		pos = c.Len() - n
	default:
		return fmt.Errorf("blockcursor: invalid whence %d", whence)
	}

	if pos < 0 || pos > c.Len() {
		return fmt.Errorf("blockcursor: seek out of range: pos=%d size=%d", pos, c.Len())
	}

	c.pos = pos
	return nil
}

// ReadBytes returns the next n bytes and advances the cursor, or fails with
// a short-read error if fewer than n bytes remain.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("blockcursor: negative read size %d", n)
	}
	if int64(n) > c.Len()-c.pos {
		return nil, fmt.Errorf("blockcursor: short read: wanted %d bytes, %d remain", n, c.Len()-c.pos)
	}

	b := c.data[c.pos : c.pos+int64(n)]
	c.pos += int64(n)
	return b, nil
}

// ReadUint8 decodes a single byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 decodes a big-endian uint16.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadUint32 decodes a big-endian uint32.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadUint64 decodes a big-endian uint64.
func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}
