package codec

import (
	"fmt"

	"github.com/nibrahim/dsstorekit/internal/blockcursor"
)

func init() {
	register("dilc", dilcCodec{})
}

// dilcCodec decodes the Desktop Icon Location record (32 bytes): a 4-byte
// unknown, a 2-byte grid quadrant, a 2-byte unknown, a horizontal and a
// vertical position word, a grid icon position pair, and two trailing
// 4-byte unknowns. A position greater than 65535 is rendered as a distance
// from the right/bottom edge instead of an absolute coordinate.
type dilcCodec struct{}

func (dilcCodec) Name() string { return "DilcCodec" }

func (dilcCodec) Decode(payload []byte) any {
	cur := blockcursor.New(payload)

	unk1, err := cur.ReadUint32()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	quadrant, err := cur.ReadUint16()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	unk2, err := cur.ReadUint16()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	hPos, err := cur.ReadUint32()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	vPos, err := cur.ReadUint32()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	gridPosLeft, err := cur.ReadUint32()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	gridPosTop, err := cur.ReadUint32()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	unk3, err := cur.ReadUint32()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	unk4, err := cur.ReadUint32()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}

	return fmt.Sprintf(
		"Unk1: %08x, GridQuadrant: %d, Unk2: %04x, %s, %s, GridIconPosFromLeft: %d, GridIconPosFromTop: %d, Unk3: %08x, Unk4: %08x",
		unk1, quadrant, unk2, renderHorizontal(hPos), renderVertical(vPos), gridPosLeft, gridPosTop, unk3, unk4)
}

func renderHorizontal(v uint32) string {
	if v > 65535 {
		return fmt.Sprintf("IconPosFromRight: %d", 0xFFFFFFFF-v)
	}
	return fmt.Sprintf("IconPosFromLeft: %d", v)
}

func renderVertical(v uint32) string {
	if v > 65535 {
		return fmt.Sprintf("IconPosFromBottom: %d", 0xFFFFFFFF-v)
	}
	return fmt.Sprintf("IconPosFromTop: %d", v)
}
