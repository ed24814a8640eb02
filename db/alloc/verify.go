package alloc

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/internal/format"
)

// Walk calls fn for every block in address order. Iteration stops at the
// first error from fn, which Walk returns. A malformed chain returns
// ErrCorrupt.
func (a *Allocator) Walk(fn func(Block) error) error {
	off := uint64(format.HeaderSize)
	end := a.s.Size()
	for off < end {
		h, err := a.readHeader(off)
		if err != nil {
			return errors.Wrap(ErrCorrupt, err.Error())
		}
		if !h.Valid() || uint64(h.Size) > end-off {
			return errors.Wrapf(ErrCorrupt, "block at 0x%x: size=%d state=%d", off, h.Size, h.State)
		}
		b := Block{
			Addr: db.Address(off + format.BlockHeaderSize),
			Size: uint64(h.Size),
			Pool: Pool(h.Pool),
			Free: h.Free(),
			Tag:  h.Tag,
		}
		if err := fn(b); err != nil {
			return err
		}
		off += uint64(h.Size)
	}
	return nil
}

// Verify checks that the chain covers the data extent exactly and agrees with
// the in-memory free index, live set, and per-pool accounting.
func (a *Allocator) Verify() error {
	var (
		covered  = uint64(format.HeaderSize)
		freeSeen int
		liveSeen int
		perPool  = make(map[Pool]PoolStats)
	)
	err := a.Walk(func(b Block) error {
		off := uint64(b.Start())
		if off != covered {
			return errors.Wrapf(ErrCorrupt, "gap or overlap at 0x%x (expected 0x%x)", off, covered)
		}
		covered += b.Size

		st := perPool[b.Pool]
		if b.Free {
			fb, ok := a.byOff[off]
			if !ok {
				return errors.Wrapf(ErrCorrupt, "free block at 0x%x missing from free index", off)
			}
			if fb.size != b.Size || fb.pool != b.Pool {
				return errors.Wrapf(ErrCorrupt, "free block at 0x%x: index says size=%d pool=%v, chain says size=%d pool=%v",
					off, fb.size, fb.pool, b.Size, b.Pool)
			}
			freeSeen++
			st.FreeBlocks++
			st.FreeBytes += b.Size
		} else {
			if _, ok := a.live[off]; !ok {
				return errors.Wrapf(ErrCorrupt, "allocated block at 0x%x missing from live set", off)
			}
			liveSeen++
			st.LiveBlocks++
			st.LiveBytes += b.Size
		}
		perPool[b.Pool] = st
		return nil
	})
	if err != nil {
		return err
	}
	if covered != a.s.Size() {
		return errors.Wrapf(ErrCorrupt, "chain ends at 0x%x, store ends at 0x%x", covered, a.s.Size())
	}
	if freeSeen != len(a.byOff) || freeSeen != len(a.endIx) {
		return errors.Wrapf(ErrCorrupt, "free index has %d entries, chain has %d free blocks", len(a.byOff), freeSeen)
	}
	if liveSeen != len(a.live) {
		return errors.Wrapf(ErrCorrupt, "live set has %d entries, chain has %d allocated blocks", len(a.live), liveSeen)
	}
	for p, st := range a.stats {
		got := perPool[p]
		if st.LiveBlocks != got.LiveBlocks || st.LiveBytes != got.LiveBytes ||
			st.FreeBlocks != got.FreeBlocks || st.FreeBytes != got.FreeBytes {
			return errors.Wrapf(ErrCorrupt, "pool %v accounting drifted: have %+v, chain has %+v", p, *st, got)
		}
	}
	return nil
}
