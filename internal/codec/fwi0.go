package codec

import (
	"fmt"

	"github.com/nibrahim/dsstorekit/internal/blockcursor"
)

func init() {
	register("fwi0", fwi0Codec{})
}

// fwi0Codec decodes Finder window geometry: a rectangle (top, left,
// bottom, right) followed by a FourCC view type. Trailing bytes are
// unknown and rendered as hex.
type fwi0Codec struct{}

func (fwi0Codec) Name() string { return "Fwi0Codec" }

func (fwi0Codec) Decode(payload []byte) any {
	cur := blockcursor.New(payload)

	top, err := cur.ReadUint16()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	left, err := cur.ReadUint16()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	bottom, err := cur.ReadUint16()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	right, err := cur.ReadUint16()
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	viewType, err := cur.ReadBytes(4)
	if err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}

	var trailing []byte
	if cur.Tell() < cur.Len() {
		trailing, _ = cur.ReadBytes(int(cur.Len() - cur.Tell()))
	}

	return fmt.Sprintf("Window Rect: (top=%d, left=%d, bottom=%d, right=%d), View Type: %s, Unknown: %s",
		top, left, bottom, right, string(viewType), Hex(trailing))
}
