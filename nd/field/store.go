package field

import (
	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
)

// Reader is the fixed-width and bulk read access descriptors decode through.
// *db.DB, *nd.Nd and *nd.Writer implement it.
type Reader interface {
	ReadU8(addr db.Address) (uint8, error)
	ReadU16(addr db.Address) (uint16, error)
	ReadU32(addr db.Address) (uint32, error)
	ReadU64(addr db.Address) (uint64, error)
	ReadBytes(addr db.Address, n int) ([]byte, error)
}

// Store is a Reader that can also write. *db.DB and *nd.Writer implement it.
type Store interface {
	Reader
	WriteU8(addr db.Address, v uint8) error
	WriteU16(addr db.Address, v uint16) error
	WriteU32(addr db.Address, v uint32) error
	WriteU64(addr db.Address, v uint64) error
	WriteBytes(addr db.Address, p []byte) error
}

// Memory is a Store that can also allocate, as needed by descriptors that own
// separate blocks.
type Memory interface {
	Store
	Malloc(size uint64, pool alloc.Pool) (db.Address, error)
	Free(addr db.Address, pool alloc.Pool) error
}
