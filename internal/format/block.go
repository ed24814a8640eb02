package format

import "encoding/binary"

// BlockHeader is the decoded in-band header of one allocation block.
type BlockHeader struct {
	Size  uint32 // total size including the header
	Pool  uint8
	State uint8
	Tag   uint16
}

// Free reports whether the block is on a free list.
func (h BlockHeader) Free() bool { return h.State == BlockFree }

// Allocated reports whether the block is in use.
func (h BlockHeader) Allocated() bool { return h.State == BlockAllocated }

// Valid reports whether the header could belong to a well-formed chain.
func (h BlockHeader) Valid() bool {
	if h.State != BlockAllocated && h.State != BlockFree {
		return false
	}
	return h.Size >= MinBlockSize && h.Size%BlockAlignment == 0
}

// ReadBlockHeader decodes the block header at b[off:off+BlockHeaderSize].
func ReadBlockHeader(order binary.ByteOrder, b []byte, off int) BlockHeader {
	return BlockHeader{
		Size:  ReadU32(order, b, off+BlockSizeOffset),
		Pool:  b[off+BlockPoolOffset],
		State: b[off+BlockStateOffset],
		Tag:   ReadU16(order, b, off+BlockTagOffset),
	}
}

// PutBlockHeader encodes h at b[off:off+BlockHeaderSize].
func PutBlockHeader(order binary.ByteOrder, b []byte, off int, h BlockHeader) {
	PutU32(order, b, off+BlockSizeOffset, h.Size)
	b[off+BlockPoolOffset] = h.Pool
	b[off+BlockStateOffset] = h.State
	PutU16(order, b, off+BlockTagOffset, h.Tag)
}
