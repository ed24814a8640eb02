package db

import (
	"fmt"

	"github.com/joshuapare/ndkit/internal/format"
)

// Address is an absolute byte offset into a store.
type Address uint64

const (
	// Null is the unset address. Pointer fields read as Null until written.
	Null Address = 0

	// Empty is returned for zero-length allocations. It lies inside the header
	// page, so it is distinct from Null, never a valid block start, and never
	// written through.
	Empty Address = 1

	// HeaderSize is the first address that can hold data.
	HeaderSize Address = format.HeaderSize
)

// IsNull reports whether a is Null.
func (a Address) IsNull() bool { return a == Null }

// IsEmpty reports whether a is the zero-length sentinel.
func (a Address) IsEmpty() bool { return a == Empty }

// Add returns a+off.
func (a Address) Add(off uint64) Address { return a + Address(off) }

func (a Address) String() string {
	switch a {
	case Null:
		return "null"
	case Empty:
		return "empty"
	default:
		return fmt.Sprintf("0x%x", uint64(a))
	}
}
