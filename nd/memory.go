package nd

import (
	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/nd/field"
)

var _ field.Reader = (*Nd)(nil)

func (n *Nd) ReadU8(addr db.Address) (uint8, error)   { return n.store.ReadU8(addr) }
func (n *Nd) ReadU16(addr db.Address) (uint16, error) { return n.store.ReadU16(addr) }
func (n *Nd) ReadU32(addr db.Address) (uint32, error) { return n.store.ReadU32(addr) }
func (n *Nd) ReadU64(addr db.Address) (uint64, error) { return n.store.ReadU64(addr) }

// ReadBytes copies count bytes at addr.
func (n *Nd) ReadBytes(addr db.Address, count int) ([]byte, error) {
	return n.store.ReadBytes(addr, count)
}

// readOnly is the Memory of records attached outside Update: reads pass
// through, everything else fails with ErrNotWriting.
type readOnly struct {
	*Nd
}

func (readOnly) WriteU8(db.Address, uint8) error   { return ErrNotWriting }
func (readOnly) WriteU16(db.Address, uint16) error { return ErrNotWriting }
func (readOnly) WriteU32(db.Address, uint32) error { return ErrNotWriting }
func (readOnly) WriteU64(db.Address, uint64) error { return ErrNotWriting }
func (readOnly) WriteBytes(db.Address, []byte) error {
	return ErrNotWriting
}

func (readOnly) Malloc(uint64, alloc.Pool) (db.Address, error) {
	return db.Null, ErrNotWriting
}

func (readOnly) Free(db.Address, alloc.Pool) error { return ErrNotWriting }
