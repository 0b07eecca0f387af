package testutil

import "encoding/binary"

// UTF16BE encodes s as big-endian UTF-16, assuming s is pure ASCII (every
// synthetic fixture in this test suite is).
func UTF16BE(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, 0, byte(r))
	}
	return out
}

// EncodeLongRecord builds the raw bytes of a filename/code/"long" record.
func EncodeLongRecord(filename, code string, value uint32) []byte {
	return encodeRecordHeader(filename, code, "long", func() []byte {
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, value)
		return b
	}())
}

// EncodeBlobRecord builds the raw bytes of a filename/code/"blob" record
// whose payload is exactly payload (no codec applied at this layer).
func EncodeBlobRecord(filename, code string, payload []byte) []byte {
	lenPrefix := make([]byte, 4)
	binary.BigEndian.PutUint32(lenPrefix, uint32(len(payload)))
	return encodeRecordHeader(filename, code, "blob", append(lenPrefix, payload...))
}

// EncodeBoolRecord builds the raw bytes of a filename/code/"bool" record.
func EncodeBoolRecord(filename, code string, value bool) []byte {
	b := byte(0)
	if value {
		b = 1
	}
	return encodeRecordHeader(filename, code, "bool", []byte{b})
}

func encodeRecordHeader(filename, code, typeTag string, valueBytes []byte) []byte {
	name := UTF16BE(filename)
	out := make([]byte, 0, 4+len(name)+8+len(valueBytes))

	nlen := make([]byte, 4)
	binary.BigEndian.PutUint32(nlen, uint32(len(filename)))
	out = append(out, nlen...)
	out = append(out, name...)
	out = append(out, []byte(code)...)
	out = append(out, []byte(typeTag)...)
	out = append(out, valueBytes...)
	return out
}

// EncodeLeaf builds a leaf B-tree node: next_node_id=0, count=len(records),
// followed by the concatenated record bytes.
func EncodeLeaf(records ...[]byte) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint32(out[0:4], 0)
	binary.BigEndian.PutUint32(out[4:8], uint32(len(records)))
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}

// EncodeInternal builds an internal B-tree node: next_node_id=next,
// count=len(records), then for each record its child id followed by the
// record's own bytes, matching the on-disk interleaved layout.
func EncodeInternal(next uint32, children []uint32, records [][]byte) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint32(out[0:4], next)
	binary.BigEndian.PutUint32(out[4:8], uint32(len(records)))
	for i, r := range records {
		childBytes := make([]byte, 4)
		binary.BigEndian.PutUint32(childBytes, children[i])
		out = append(out, childBytes...)
		out = append(out, r...)
	}
	return out
}
