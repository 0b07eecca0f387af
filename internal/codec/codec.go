// Package codec implements the record codecs (component C): decoders for
// the blob payloads of well-known record codes, registered by FourCC.
package codec

import (
	"fmt"

	"github.com/nibrahim/dsstorekit/internal/interfaces"
)

// registry maps a record code to the codec that decodes its blob payload.
var registry = map[string]interfaces.Codec{}

func register(code string, c interfaces.Codec) {
	registry[code] = c
}

// Lookup returns the codec registered for code, if any.
func Lookup(code string) (interfaces.Codec, bool) {
	c, ok := registry[code]
	return c, ok
}

// Decode runs the codec registered for code against payload, returning the
// rendered value and the logical type name the caller should report in
// place of "blob". If no codec is registered, ok is false; entry.Read then
// keeps the raw payload bytes and reports the type as "blob".
//
// A codec failure is never propagated as an error: per §4.5/§7 it is
// rendered as the hex payload plus the error text, so one bad blob can
// never drop an otherwise well-formed record.
func Decode(code string, payload []byte) (value any, typeName string, ok bool) {
	c, found := registry[code]
	if !found {
		return nil, "", false
	}
	return safeDecode(c, payload), c.Name(), true
}

func safeDecode(c interfaces.Codec, payload []byte) (value any) {
	defer func() {
		if r := recover(); r != nil {
			value = fmt.Sprintf("%s (panic: %v)", Hex(payload), r)
		}
	}()
	return c.Decode(payload)
}
