package db

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/joshuapare/ndkit/internal/buf"
	"github.com/joshuapare/ndkit/internal/format"
)

// Header is the decoded header page of a store.
type Header struct {
	Order        binary.ByteOrder
	VersionMajor uint16
	VersionMinor uint16
	ChunkSize    uint32
	ID           uuid.UUID
	DataSize     uint64
	PrimarySeq   uint32
	SecondarySeq uint32
	LastFlush    time.Time
	Pools        []string // index i holds the name of pool i; entry 0 is unused
}

// Clean reports whether the last flush completed: both sequence numbers match.
func (h *Header) Clean() bool {
	return h.PrimarySeq == h.SecondarySeq
}

// End is the first address past the data extent.
func (h *Header) End() Address {
	return HeaderSize + Address(h.DataSize)
}

// ParseHeader decodes and validates the header page at the start of data.
// data must include the whole file so the recorded data size can be checked
// against it.
func ParseHeader(data []byte) (*Header, error) {
	if !buf.Has(data, 0, format.HeaderSize) {
		return nil, errors.Wrapf(ErrBadHeader, "%v: %d bytes", format.ErrTruncated, len(data))
	}
	if !bytes.Equal(data[format.SignatureOffset:format.SignatureOffset+4], format.Signature) {
		return nil, errors.Wrap(ErrBadHeader, format.ErrSignatureMismatch.Error())
	}
	order, ok := format.OrderFromFlag(data[format.ByteOrderOffset])
	if !ok {
		return nil, errors.Wrapf(ErrBadHeader, "%v: 0x%02x", format.ErrByteOrder, data[format.ByteOrderOffset])
	}

	h := &Header{
		Order:        order,
		VersionMajor: format.ReadU16(order, data, format.VersionMajorOffset),
		VersionMinor: format.ReadU16(order, data, format.VersionMinorOffset),
		ChunkSize:    format.ReadU32(order, data, format.ChunkSizeOffset),
		DataSize:     format.ReadU64(order, data, format.DataSizeOffset),
		PrimarySeq:   format.ReadU32(order, data, format.PrimarySeqOffset),
		SecondarySeq: format.ReadU32(order, data, format.SecondarySeqOffset),
	}
	if h.VersionMajor != format.VersionMajor {
		return nil, errors.Wrapf(ErrBadHeader, "%v: %d.%d", format.ErrVersion, h.VersionMajor, h.VersionMinor)
	}
	if !format.IsPow2(int(h.ChunkSize)) || h.ChunkSize < minChunkSize {
		return nil, errors.Wrapf(ErrBadHeader, "chunk size %d", h.ChunkSize)
	}
	if h.DataSize%uint64(h.ChunkSize) != 0 {
		return nil, errors.Wrapf(ErrBadHeader, "data size %d is not a multiple of chunk size %d", h.DataSize, h.ChunkSize)
	}
	if h.DataSize > uint64(len(data)-format.HeaderSize) {
		return nil, errors.Wrapf(ErrBadHeader, "data size %d exceeds file (%d bytes)", h.DataSize, len(data))
	}
	copy(h.ID[:], data[format.UUIDOffset:format.UUIDOffset+format.UUIDSize])

	if ts := format.ReadU64(order, data, format.TimestampOffset); ts != 0 {
		h.LastFlush = time.Unix(0, int64(ts))
	}

	count := int(format.ReadU16(order, data, format.PoolCountOffset))
	if count > format.MaxPools {
		return nil, errors.Wrapf(ErrBadHeader, "pool count %d exceeds %d", count, format.MaxPools)
	}
	h.Pools = make([]string, count)
	for i := 1; i < count; i++ {
		h.Pools[i] = readPoolName(data, i)
	}
	return h, nil
}

// initHeader writes a fresh header for an empty store into data.
func initHeader(data []byte, opts *Options, id uuid.UUID) {
	clear(data[:format.HeaderSize])
	copy(data[format.SignatureOffset:], format.Signature)
	data[format.ByteOrderOffset] = format.FlagFromOrder(opts.ByteOrder)

	order := opts.ByteOrder
	format.PutU16(order, data, format.VersionMajorOffset, format.VersionMajor)
	format.PutU16(order, data, format.VersionMinorOffset, format.VersionMinor)
	format.PutU32(order, data, format.ChunkSizeOffset, uint32(opts.ChunkSize))
	copy(data[format.UUIDOffset:format.UUIDOffset+format.UUIDSize], id[:])
	format.PutU16(order, data, format.PoolCountOffset, 1)
}

func poolEntryOffset(i int) int {
	return format.PoolTableOffset + i*format.PoolEntrySize
}

func readPoolName(data []byte, i int) string {
	entry, ok := buf.Slice(data, poolEntryOffset(i), format.PoolEntrySize)
	if !ok {
		return ""
	}
	if n := bytes.IndexByte(entry, 0); n >= 0 {
		entry = entry[:n]
	}
	return string(entry)
}
