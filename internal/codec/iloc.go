package codec

import (
	"fmt"

	"github.com/nibrahim/dsstorekit/internal/blockcursor"
)

func init() {
	register("Iloc", ilocCodec{})
}

// ilocCodec decodes the Icon Location record: 16 bytes, four big-endian
// uint32 fields (x, y, selected_index, unknown). 0xFFFFFFFF renders as
// "Null" rather than its numeric value for x, y, and selected_index,
// matching the reference parser.
type ilocCodec struct{}

func (ilocCodec) Name() string { return "IlocCodec" }

func (ilocCodec) Decode(payload []byte) any {
	cur := blockcursor.New(payload)

	x, err := cur.ReadUint32()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	y, err := cur.ReadUint32()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	selIdx, err := cur.ReadUint32()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	unknown, err := cur.ReadUint32()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}

	return fmt.Sprintf("Location: (%s, %s), Selected Index: %s, Unknown: %08x",
		renderNullable(x), renderNullable(y), renderNullable(selIdx), unknown)
}

func renderNullable(v uint32) string {
	if v == 0xFFFFFFFF {
		return "Null"
	}
	return fmt.Sprintf("%d", v)
}
