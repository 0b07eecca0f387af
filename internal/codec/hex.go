package codec

import (
	"encoding/hex"
	"strings"
)

// Hex renders payload as an uppercase hex string. Codecs use it for the
// payload part of their failure text, and safeDecode for codec panics.
// Blobs with no registered codec do not pass through it: they keep their
// raw bytes and are rendered as lowercase hex by store.Record.
func Hex(payload []byte) string {
	return strings.ToUpper(hex.EncodeToString(payload))
}
