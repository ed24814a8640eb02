package alloc

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/internal/format"
)

// Pool identifies a partition of the allocator's free space.
type Pool uint8

const (
	// PoolInvalid is never a valid pool.
	PoolInvalid Pool = 0

	// PoolMisc holds general purpose allocations and owned blobs.
	PoolMisc Pool = 1

	// PoolString holds string blocks.
	PoolString Pool = 2

	// PoolRecord holds fixed-layout records.
	PoolRecord Pool = 3

	// MaxPool is the highest pool number the header table can name.
	MaxPool Pool = format.MaxPools - 1
)

var predefinedPools = [...]string{
	PoolMisc:   "misc",
	PoolString: "string",
	PoolRecord: "record",
}

func (p Pool) String() string {
	if int(p) < len(predefinedPools) && p != PoolInvalid {
		return predefinedPools[p]
	}
	return fmt.Sprintf("pool%d", uint8(p))
}

// Store is the part of db.DB the allocator needs.
type Store interface {
	Size() uint64
	ChunkSize() uint64
	Order() binary.ByteOrder
	ReadOnly() bool
	Grow(n uint64) (db.Address, error)
	Bytes(addr db.Address, n int) ([]byte, error)
	WriteBytes(addr db.Address, p []byte) error
	WriteU16(addr db.Address, v uint16) error
	Zero(addr db.Address, n uint64) error
	PoolCount() int
	PoolName(i int) string
	SetPoolName(i int, name string) error
}

// Block describes one block of the chain, as reported by Walk.
type Block struct {
	Addr db.Address // payload start
	Size uint64     // total size including the header
	Pool Pool
	Free bool
	Tag  uint16
}

// Start returns the address of the block header.
func (b Block) Start() db.Address {
	return b.Addr - format.BlockHeaderSize
}

// Usable returns the payload size.
func (b Block) Usable() uint64 {
	return b.Size - format.BlockHeaderSize
}

// PoolStats is the accounting for one pool.
type PoolStats struct {
	LiveBlocks int
	LiveBytes  uint64 // total size of live blocks, headers included
	FreeBlocks int
	FreeBytes  uint64
	Allocs     int
	Frees      int
	Grows      int
	GrowBytes  uint64
	Splits     int
	Merges     int
}

func (s *PoolStats) add(o PoolStats) {
	s.LiveBlocks += o.LiveBlocks
	s.LiveBytes += o.LiveBytes
	s.FreeBlocks += o.FreeBlocks
	s.FreeBytes += o.FreeBytes
	s.Allocs += o.Allocs
	s.Frees += o.Frees
	s.Grows += o.Grows
	s.GrowBytes += o.GrowBytes
	s.Splits += o.Splits
	s.Merges += o.Merges
}

// Stats is a snapshot of the allocator's accounting.
type Stats struct {
	Pools map[Pool]PoolStats
	Total PoolStats
}
