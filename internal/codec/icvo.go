package codec

import (
	"fmt"

	"github.com/nibrahim/dsstorekit/internal/blockcursor"
)

func init() {
	register("icvo", icvoCodec{})
}

// icvoCodec decodes the fixed-layout portion of Icon View Options: a
// FourCC sub-type tag, a pixel icon size, and two grid-alignment FourCCs.
// Trailing bytes beyond this are unknown and rendered as hex.
type icvoCodec struct{}

func (icvoCodec) Name() string { return "IcvoCodec" }

func (icvoCodec) Decode(payload []byte) any {
	cur := blockcursor.New(payload)

	viewType, err := cur.ReadBytes(4)
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	iconSize, err := cur.ReadUint16()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	gridAlignX, err := cur.ReadBytes(4)
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	gridAlignY, err := cur.ReadBytes(4)
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}

	var trailing []byte
	if cur.Tell() < cur.Len() {
		trailing, _ = cur.ReadBytes(int(cur.Len() - cur.Tell()))
	}

	return fmt.Sprintf("View Type: %s, Icon Size: %d, Grid Align: (%s, %s), Unknown: %s",
		string(viewType), iconSize, string(gridAlignX), string(gridAlignY), Hex(trailing))
}
