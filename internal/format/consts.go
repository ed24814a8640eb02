// Package format holds the on-disk layout of an ndkit store: the header page,
// the in-band block headers written by the allocator, and the alignment and
// byte-order helpers shared by the store, the allocator, and the field
// descriptors. It is kept free of any state so that read-only tooling can
// decode a mapped file without opening it through package db.
package format

// Signature is the four-byte magic at offset 0 of every store.
var Signature = []byte{'N', 'D', 'D', 'B'}

const (
	// HeaderSize is the size of the header page. The data extent starts
	// immediately after it, so every valid block address is >= HeaderSize.
	HeaderSize = 0x1000

	// VersionMajor and VersionMinor are written at creation time. A store
	// with a different major version is rejected on open.
	VersionMajor = 1
	VersionMinor = 0

	// Header field offsets.
	SignatureOffset    = 0x00 // 4 bytes "NDDB"
	ByteOrderOffset    = 0x04 // 1 byte, OrderLittle or OrderBig
	VersionMajorOffset = 0x08 // u16
	VersionMinorOffset = 0x0A // u16
	ChunkSizeOffset    = 0x0C // u32
	UUIDOffset         = 0x10 // 16 bytes
	DataSizeOffset     = 0x20 // u64, bytes in use after the header
	PrimarySeqOffset   = 0x28 // u32, bumped when a flush starts
	SecondarySeqOffset = 0x2C // u32, set equal to primary when a flush completes
	TimestampOffset    = 0x30 // u64, unix nanoseconds of the last flush
	PoolCountOffset    = 0x38 // u16, number of named pools in the pool table

	// UUIDSize is the width of the store identity.
	UUIDSize = 16

	// PoolTableOffset is where the pool name table starts. Entry i holds the
	// NUL-padded name of pool i; entry 0 is unused.
	PoolTableOffset = 0x100
	PoolEntrySize   = 32
	PoolNameMax     = PoolEntrySize - 1
	MaxPools        = 64

	// OrderLittle and OrderBig are the byte-order flag values.
	OrderLittle = 'L'
	OrderBig    = 'B'
)

const (
	// BlockHeaderSize is the in-band header preceding every block payload.
	//
	//	0x00 u32 total block size including this header (multiple of 8)
	//	0x04 u8  pool
	//	0x05 u8  state (BlockAllocated or BlockFree)
	//	0x06 u16 tag (record type ID, 0 for raw allocations)
	BlockHeaderSize = 8

	BlockSizeOffset  = 0x00
	BlockPoolOffset  = 0x04
	BlockStateOffset = 0x05
	BlockTagOffset   = 0x06

	// BlockAllocated and BlockFree are the block state values. Zero never
	// appears in a well-formed chain.
	BlockAllocated = 1
	BlockFree      = 2

	// MinBlockSize is the smallest block the allocator creates: a header plus
	// one pointer-width payload.
	MinBlockSize = 16

	// MaxBlockSize bounds a single block so its size fits the u32 header field.
	MaxBlockSize = 1 << 31

	// BlockAlignment is the alignment of every block start and size.
	BlockAlignment = 8

	// DefaultChunkSize is the default growth unit of the data extent.
	DefaultChunkSize = 0x1000

	// PointerSize is the width of a stored Address.
	PointerSize = 8
)

const (
	// StringHeaderSize prefixes every string block written by field.String.
	//
	//	0x00 u32 encoded byte length
	//	0x04 u8  encoding (StringLatin1 or StringUTF16)
	//	0x05 3 bytes padding
	StringHeaderSize     = 8
	StringLengthOffset   = 0x00
	StringEncodingOffset = 0x04

	StringLatin1 = 1
	StringUTF16  = 2
)
