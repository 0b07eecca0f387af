// Package entry implements the B-tree record decoder (component D):
// reading one filename/code/type/value tuple from a positioned cursor.
package entry

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nibrahim/dsstorekit/internal/blockcursor"
	"github.com/nibrahim/dsstorekit/internal/codec"
	"github.com/nibrahim/dsstorekit/internal/types"
)

// Entry is one decoded B-tree record. Node is filled in by the walker once
// the entry's provenance is known.
type Entry struct {
	Filename string
	Code     string
	Type     string
	Value    any
	Node     string
}

var utf16beDecoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

// Read decodes one record from cur. slackMode selects the slack decoder's
// divergent bool width (4 bytes instead of 1), per §4.4/§9 open question 2.
func Read(cur *blockcursor.Cursor, slackMode bool) (Entry, error) {
	nlen, err := cur.ReadUint32()
	if err != nil {
		return Entry{}, fmt.Errorf("entry: failed to read filename length: %w", err)
	}
	nameBytes, err := cur.ReadBytes(2 * int(nlen))
	if err != nil {
		return Entry{}, fmt.Errorf("entry: failed to read filename: %w", err)
	}
	filename, err := decodeUTF16BE(nameBytes)
	if err != nil {
		return Entry{}, fmt.Errorf("entry: failed to decode filename: %w", err)
	}

	codeBytes, err := cur.ReadBytes(4)
	if err != nil {
		return Entry{}, fmt.Errorf("entry: failed to read code: %w", err)
	}
	code := string(codeBytes)

	typeBytes, err := cur.ReadBytes(4)
	if err != nil {
		return Entry{}, fmt.Errorf("entry: failed to read type: %w", err)
	}
	typeTag := string(typeBytes)

	value, reportedType, err := readValue(cur, code, typeTag, slackMode)
	if err != nil {
		return Entry{}, fmt.Errorf("entry: failed to decode value for %q code %q type %q: %w", filename, code, typeTag, err)
	}

	return Entry{Filename: filename, Code: code, Type: reportedType, Value: value}, nil
}

func readValue(cur *blockcursor.Cursor, code, typeTag string, slackMode bool) (value any, reportedType string, err error) {
	switch typeTag {
	case types.TypeBool:
		n := 1
		if slackMode {
			n = 4 // §9 open question 2: the slack decoder reads bool as 4 bytes.
		}
		b, err := cur.ReadBytes(n)
		if err != nil {
			return nil, typeTag, err
		}
		for _, c := range b {
			if c != 0 {
				return true, typeTag, nil
			}
		}
		return false, typeTag, nil

	case types.TypeLong, types.TypeShort:
		v, err := cur.ReadUint32()
		if err != nil {
			return nil, typeTag, err
		}
		return v, typeTag, nil

	case types.TypeBlob:
		vlen, err := cur.ReadUint32()
		if err != nil {
			return nil, typeTag, err
		}
		raw, err := cur.ReadBytes(int(vlen))
		if err != nil {
			return nil, typeTag, err
		}
		if decoded, codecName, ok := codec.Decode(code, raw); ok {
			return decoded, codecName, nil
		}
		return raw, typeTag, nil

	case types.TypeUstr:
		vlen, err := cur.ReadUint32()
		if err != nil {
			return nil, typeTag, err
		}
		raw, err := cur.ReadBytes(2 * int(vlen))
		if err != nil {
			return nil, typeTag, err
		}
		s, err := decodeUTF16BE(raw)
		if err != nil {
			return nil, typeTag, err
		}
		return s, typeTag, nil

	case types.TypeType:
		b, err := cur.ReadBytes(4)
		if err != nil {
			return nil, typeTag, err
		}
		return string(b), typeTag, nil

	case types.TypeComp, types.TypeDutc:
		v, err := cur.ReadUint64()
		if err != nil {
			return nil, typeTag, err
		}
		return v, typeTag, nil

	default:
		return nil, typeTag, fmt.Errorf("unknown type code %q", typeTag)
	}
}

func decodeUTF16BE(raw []byte) (string, error) {
	out, _, err := transform.Bytes(utf16beDecoder, raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
