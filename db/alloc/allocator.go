package alloc

import (
	"container/heap"
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/internal/format"
	"github.com/joshuapare/ndkit/internal/logger"
)

// logAlloc gates per-operation debug logging; see NDKIT_LOG_ALLOC.
var logAlloc = logger.AllocDebug

// Config configures an Allocator.
type Config struct {
	// SizeClasses selects the free-list classes. The zero value means
	// DefaultConfig.
	SizeClasses SizeClassConfig

	// Logger receives growth and corruption reports.
	Logger *logrus.Logger
}

// DefaultAllocatorConfig returns the default allocator configuration.
func DefaultAllocatorConfig() *Config {
	return &Config{SizeClasses: DefaultConfig, Logger: logger.L}
}

// Allocator manages the blocks of one store.
type Allocator struct {
	s     Store
	order binary.ByteOrder
	table *sizeClassTable
	log   *logrus.Logger

	lists map[Pool]*poolLists
	byOff map[uint64]*freeBlock // free block start -> block
	endIx map[uint64]*freeBlock // free block end -> block
	live  map[uint64]struct{}   // allocated block starts
	stats map[Pool]*PoolStats

	hdr [format.BlockHeaderSize]byte
}

// New builds an allocator over s, scanning any blocks already in the store.
// A malformed chain returns ErrCorrupt. On a writable store the predefined
// pool names are recorded in the header if missing.
func New(s Store, cfg *Config) (*Allocator, error) {
	if cfg == nil {
		cfg = DefaultAllocatorConfig()
	}
	classes := cfg.SizeClasses
	if classes == (SizeClassConfig{}) {
		classes = DefaultConfig
	}
	if !classes.valid() {
		return nil, errors.Errorf("alloc: invalid size class config %+v", classes)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.L
	}

	a := &Allocator{
		s:     s,
		order: s.Order(),
		table: newSizeClassTable(classes),
		log:   log,
		lists: make(map[Pool]*poolLists),
		byOff: make(map[uint64]*freeBlock, 256),
		endIx: make(map[uint64]*freeBlock, 256),
		live:  make(map[uint64]struct{}, 256),
		stats: make(map[Pool]*PoolStats),
	}

	// The chain is validated before anything is written to the store.
	if err := a.scan(); err != nil {
		return nil, err
	}

	if !s.ReadOnly() {
		for p := PoolMisc; p <= PoolRecord; p++ {
			if s.PoolName(int(p)) == "" {
				if err := s.SetPoolName(int(p), predefinedPools[p]); err != nil {
					return nil, err
				}
			}
		}
	}
	return a, nil
}

// scan rebuilds the free index and live set from the block chain.
func (a *Allocator) scan() error {
	off := uint64(format.HeaderSize)
	end := a.s.Size()
	for off < end {
		if end-off < format.MinBlockSize {
			return errors.Wrapf(ErrCorrupt, "trailing %d bytes at 0x%x", end-off, off)
		}
		h, err := a.readHeader(off)
		if err != nil {
			return errors.Wrap(ErrCorrupt, err.Error())
		}
		if !h.Valid() || uint64(h.Size) > end-off || h.Pool == 0 || Pool(h.Pool) > MaxPool {
			return errors.Wrapf(ErrCorrupt, "block at 0x%x: size=%d pool=%d state=%d",
				off, h.Size, h.Pool, h.State)
		}
		p := Pool(h.Pool)
		st := a.poolStats(p)
		if h.Free() {
			a.insertFree(off, uint64(h.Size), p)
		} else {
			a.live[off] = struct{}{}
			st.LiveBlocks++
			st.LiveBytes += uint64(h.Size)
		}
		off += uint64(h.Size)
	}
	if off != end {
		return errors.Wrapf(ErrCorrupt, "chain ends at 0x%x, store ends at 0x%x", off, end)
	}
	return nil
}

// Malloc allocates size bytes in pool and returns the payload address. The
// payload is zeroed. A zero size returns db.Empty without allocating.
func (a *Allocator) Malloc(size uint64, pool Pool) (db.Address, error) {
	if err := a.checkPool(pool); err != nil {
		return db.Null, err
	}
	if size == 0 {
		return db.Empty, nil
	}
	if size > format.MaxBlockSize-format.BlockHeaderSize {
		return db.Null, errors.Wrapf(ErrTooLarge, "%d bytes", size)
	}
	need := max(format.AlignU64(size+format.BlockHeaderSize, format.BlockAlignment), format.MinBlockSize)

	b := a.find(need, pool)
	if b == nil {
		if err := a.grow(need, pool); err != nil {
			return db.Null, err
		}
		if b = a.find(need, pool); b == nil {
			return db.Null, errors.Errorf("alloc: no %d-byte block in pool %v after growth", need, pool)
		}
	}
	a.removeFree(b)

	st := a.poolStats(pool)
	off, total := b.off, b.size
	if rem := total - need; rem >= format.MinBlockSize {
		if err := a.writeHeader(off+need, format.BlockHeader{
			Size: uint32(rem), Pool: uint8(pool), State: format.BlockFree,
		}); err != nil {
			return db.Null, err
		}
		a.insertFree(off+need, rem, pool)
		total = need
		st.Splits++
		if logAlloc {
			a.log.WithFields(logrus.Fields{"pool": pool, "off": off, "need": need, "rem": rem}).Debug("alloc: split")
		}
	}

	if err := a.writeHeader(off, format.BlockHeader{
		Size: uint32(total), Pool: uint8(pool), State: format.BlockAllocated,
	}); err != nil {
		return db.Null, err
	}
	addr := db.Address(off + format.BlockHeaderSize)
	if err := a.s.Zero(addr, total-format.BlockHeaderSize); err != nil {
		return db.Null, err
	}

	a.live[off] = struct{}{}
	st.LiveBlocks++
	st.LiveBytes += total
	st.Allocs++
	return addr, nil
}

// Free returns the block at addr to pool. Null and Empty are ignored.
func (a *Allocator) Free(addr db.Address, pool Pool) error {
	if addr == db.Null || addr == db.Empty {
		return nil
	}
	if err := a.checkPool(pool); err != nil {
		return err
	}
	off, err := a.blockStart(addr)
	if err != nil {
		return err
	}
	h, err := a.readHeader(off)
	if err != nil {
		return err
	}
	if _, ok := a.live[off]; !ok {
		if h.Free() {
			return errors.Wrapf(ErrDoubleFree, "%v", addr)
		}
		return errors.Wrapf(ErrBadAddress, "%v", addr)
	}
	if Pool(h.Pool) != pool {
		return errors.Wrapf(ErrPoolMismatch, "%v belongs to %v, freed to %v", addr, Pool(h.Pool), pool)
	}

	size := uint64(h.Size)
	delete(a.live, off)
	st := a.poolStats(pool)
	st.LiveBlocks--
	st.LiveBytes -= size
	st.Frees++

	if next, ok := a.byOff[off+size]; ok && next.pool == pool && size+next.size <= format.MaxBlockSize {
		a.removeFree(next)
		size += next.size
		st.Merges++
	}
	if prev, ok := a.endIx[off]; ok && prev.pool == pool && size+prev.size <= format.MaxBlockSize {
		a.removeFree(prev)
		off = prev.off
		size += prev.size
		st.Merges++
	}

	// The freed block's own header keeps state free even when it was merged
	// into a predecessor, so a second Free of addr reports ErrDoubleFree.
	if err := a.writeHeader(uint64(addr)-format.BlockHeaderSize, format.BlockHeader{
		Size: h.Size, Pool: uint8(pool), State: format.BlockFree,
	}); err != nil {
		return err
	}
	if err := a.writeHeader(off, format.BlockHeader{
		Size: uint32(size), Pool: uint8(pool), State: format.BlockFree,
	}); err != nil {
		return err
	}
	a.insertFree(off, size, pool)
	return nil
}

// grow extends the store for a request of need bytes and files the new range
// under pool.
func (a *Allocator) grow(need uint64, pool Pool) error {
	n := format.AlignU64(need, a.s.ChunkSize())
	start, err := a.s.Grow(n)
	if err != nil {
		return errors.Wrap(err, "alloc: grow store")
	}
	off := uint64(start)
	end := a.s.Size()

	st := a.poolStats(pool)
	st.Grows++
	st.GrowBytes += end - off
	if logAlloc {
		a.log.WithFields(logrus.Fields{"pool": pool, "need": need, "start": off, "bytes": end - off}).Debug("alloc: grow")
	}

	for off < end {
		size := min(end-off, format.MaxBlockSize)
		if rest := end - off - size; rest > 0 && rest < format.MinBlockSize {
			size -= format.MinBlockSize
		}
		if prev, ok := a.endIx[off]; ok && prev.pool == pool && prev.size+size <= format.MaxBlockSize {
			a.removeFree(prev)
			if err := a.writeHeader(prev.off, format.BlockHeader{
				Size: uint32(prev.size + size), Pool: uint8(pool), State: format.BlockFree,
			}); err != nil {
				return err
			}
			a.insertFree(prev.off, prev.size+size, pool)
			st.Merges++
		} else {
			if err := a.writeHeader(off, format.BlockHeader{
				Size: uint32(size), Pool: uint8(pool), State: format.BlockFree,
			}); err != nil {
				return err
			}
			a.insertFree(off, size, pool)
		}
		off += size
	}
	return nil
}

// find returns the best free block of at least need bytes in pool, or nil.
func (a *Allocator) find(need uint64, pool Pool) *freeBlock {
	pl := a.lists[pool]
	if pl == nil {
		return nil
	}
	for sc := a.table.classOf(need); sc < len(pl.classes); sc++ {
		h := pl.classes[sc]
		if h.Len() == 0 {
			continue
		}
		if h[0].size >= need {
			return h[0]
		}
		// heap[0] is too small but the class spans sizes above need.
		var best *freeBlock
		for _, b := range h[1:] {
			if b.size >= need && (best == nil || b.size < best.size || (b.size == best.size && b.off < best.off)) {
				best = b
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}

func (a *Allocator) insertFree(off, size uint64, pool Pool) {
	pl := a.lists[pool]
	if pl == nil {
		pl = &poolLists{classes: make([]freeHeap, a.table.numClasses+1)}
		a.lists[pool] = pl
	}
	b := &freeBlock{off: off, size: size, pool: pool, sc: a.table.classOf(size)}
	heap.Push(&pl.classes[b.sc], b)
	a.byOff[off] = b
	a.endIx[b.end()] = b

	st := a.poolStats(pool)
	st.FreeBlocks++
	st.FreeBytes += size
}

func (a *Allocator) removeFree(b *freeBlock) {
	pl := a.lists[b.pool]
	heap.Remove(&pl.classes[b.sc], b.heapIndex)
	delete(a.byOff, b.off)
	delete(a.endIx, b.end())

	st := a.poolStats(b.pool)
	st.FreeBlocks--
	st.FreeBytes -= b.size
}

// blockStart validates the shape of a payload address and returns its block
// start.
func (a *Allocator) blockStart(addr db.Address) (uint64, error) {
	if uint64(addr) < format.HeaderSize+format.BlockHeaderSize || uint64(addr) >= a.s.Size() ||
		uint64(addr)%format.BlockAlignment != 0 {
		return 0, errors.Wrapf(db.ErrOutOfRange, "block address %v", addr)
	}
	return uint64(addr) - format.BlockHeaderSize, nil
}

// liveBlock returns the start and header of the live block at addr.
func (a *Allocator) liveBlock(addr db.Address) (uint64, format.BlockHeader, error) {
	off, err := a.blockStart(addr)
	if err != nil {
		return 0, format.BlockHeader{}, err
	}
	if _, ok := a.live[off]; !ok {
		return 0, format.BlockHeader{}, errors.Wrapf(ErrBadAddress, "%v", addr)
	}
	h, err := a.readHeader(off)
	return off, h, err
}

func (a *Allocator) readHeader(off uint64) (format.BlockHeader, error) {
	b, err := a.s.Bytes(db.Address(off), format.BlockHeaderSize)
	if err != nil {
		return format.BlockHeader{}, err
	}
	return format.ReadBlockHeader(a.order, b, 0), nil
}

func (a *Allocator) writeHeader(off uint64, h format.BlockHeader) error {
	format.PutBlockHeader(a.order, a.hdr[:], 0, h)
	return a.s.WriteBytes(db.Address(off), a.hdr[:])
}

func (a *Allocator) checkPool(p Pool) error {
	if p == PoolInvalid || p > MaxPool {
		return errors.Wrapf(ErrBadPool, "%d", uint8(p))
	}
	if p > PoolRecord && a.s.PoolName(int(p)) == "" {
		return errors.Wrapf(ErrBadPool, "%d is not defined", uint8(p))
	}
	return nil
}

func (a *Allocator) poolStats(p Pool) *PoolStats {
	st := a.stats[p]
	if st == nil {
		st = &PoolStats{}
		a.stats[p] = st
	}
	return st
}
