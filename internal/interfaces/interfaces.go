// Package interfaces collects the small seams between dsstorekit's core
// components, following the same one-interface-per-responsibility style the
// rest of this corpus uses for its readers and managers.
package interfaces

import "github.com/nibrahim/dsstorekit/internal/types"

// Allocator resolves block ids to byte ranges and satisfies reads against
// the underlying source, zero-padding short reads per the format's
// truncation-tolerant design.
type Allocator interface {
	// Resolve returns the (offset, size) of block id, or ok=false if the
	// id is out of range of the offset table.
	Resolve(blockID uint32) (offset uint32, size uint32, ok bool)

	// Read returns exactly n bytes starting at offset, zero-padding any
	// shortfall against the end of the underlying source.
	Read(offset uint32, n int) ([]byte, error)

	// Block reads the full contents of block id.
	Block(blockID uint32) ([]byte, error)

	// Lookup resolves a TOC name to a block id.
	Lookup(name string) (blockID uint32, ok bool)

	// FreeList returns the 32 raw free-list buckets, each a list of block
	// addresses, for the slack scanner to walk.
	FreeList() [types.FreeListBucketCount][]uint32
}

// Codec decodes a blob payload for a specific record code into a rendered
// value and reports the logical name that should replace the entry's
// reported type.
type Codec interface {
	// Name is the codec's logical name, substituted for the record's
	// reported type (e.g. "IlocCodec").
	Name() string

	// Decode renders payload into a string or structured value. Decode
	// failures are not returned as errors: codecs report them inline per
	// §4.5/§7 (hex payload + error string) so a bad codec never drops an
	// otherwise-valid record.
	Decode(payload []byte) any
}
