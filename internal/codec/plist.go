package codec

import (
	"bytes"
	"fmt"

	"howett.net/plist"
)

func init() {
	for _, code := range []string{"bwsp", "lsvp", "glvp", "lsvP", "icvp", "lsvC"} {
		register(code, plistCodec{})
	}
}

// plistCodec decodes an Apple binary property list (bplist00) payload into
// a Go value tree (map[string]any / []any / scalars) via howett.net/plist,
// used for the window/view-properties blob codes. On decode failure it
// falls back to hex plus the error text, per §4.5/§7 — a malformed plist
// never drops an otherwise valid record.
type plistCodec struct{}

func (plistCodec) Name() string { return "PlistCodec" }

func (plistCodec) Decode(payload []byte) any {
	var out any
	decoder := plist.NewDecoder(bytes.NewReader(payload))
	if err := decoder.Decode(&out); err != nil {
		return fmt.Sprintf("%s (%v)", Hex(payload), err)
	}
	return out
}
