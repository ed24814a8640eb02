package alloc

import (
	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/internal/format"
)

// SetTag stores a 16-bit tag in the header of the live block at addr. The nd
// engine uses it to record the type of the record a block holds.
func (a *Allocator) SetTag(addr db.Address, tag uint16) error {
	off, _, err := a.liveBlock(addr)
	if err != nil {
		return err
	}
	return a.s.WriteU16(db.Address(off+format.BlockTagOffset), tag)
}

// Tag returns the tag of the live block at addr.
func (a *Allocator) Tag(addr db.Address) (uint16, error) {
	_, h, err := a.liveBlock(addr)
	if err != nil {
		return 0, err
	}
	return h.Tag, nil
}

// PoolOf returns the pool of the live block at addr.
func (a *Allocator) PoolOf(addr db.Address) (Pool, error) {
	_, h, err := a.liveBlock(addr)
	if err != nil {
		return PoolInvalid, err
	}
	return Pool(h.Pool), nil
}

// UsableSize returns the payload capacity of the live block at addr, which
// may exceed the size requested from Malloc.
func (a *Allocator) UsableSize(addr db.Address) (uint64, error) {
	_, h, err := a.liveBlock(addr)
	if err != nil {
		return 0, err
	}
	return uint64(h.Size) - format.BlockHeaderSize, nil
}

// Live reports whether addr is the payload address of an allocated block.
func (a *Allocator) Live(addr db.Address) bool {
	_, _, err := a.liveBlock(addr)
	return err == nil
}
