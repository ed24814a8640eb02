package field

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/internal/format"
)

// Kind identifies the type of a field.
type Kind uint8

const (
	KindByte Kind = iota + 1
	KindShort
	KindInt
	KindLong
	KindPointer
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindPointer:
		return "pointer"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field is the schema metadata common to every descriptor.
type Field interface {
	Name() string
	Offset() uint64
	Width() uint64
	Kind() Kind
}

// releaser is implemented by descriptors that own a separate block and must
// free it when the record is destructed.
type releaser interface {
	release(m Memory, base db.Address) error
}

type slot struct {
	name   string
	offset uint64
	width  uint64
	kind   Kind
}

func (s slot) Name() string   { return s.name }
func (s slot) Offset() uint64 { return s.offset }
func (s slot) Width() uint64  { return s.width }
func (s slot) Kind() Kind     { return s.kind }

func (s slot) at(base db.Address) db.Address { return base.Add(s.offset) }

// Uint is an unsigned integer field of width 1, 2, 4, or 8 bytes.
type Uint[T constraints.Unsigned] struct {
	slot
}

// Byte, Short, Int, and Long are the fixed-width integer fields.
type (
	Byte  = Uint[uint8]
	Short = Uint[uint16]
	Int   = Uint[uint32]
	Long  = Uint[uint64]
)

// Get reads the field of the record at base.
func (f *Uint[T]) Get(s Reader, base db.Address) (T, error) {
	addr := f.at(base)
	switch f.width {
	case 1:
		v, err := s.ReadU8(addr)
		return T(v), err
	case 2:
		v, err := s.ReadU16(addr)
		return T(v), err
	case 4:
		v, err := s.ReadU32(addr)
		return T(v), err
	default:
		v, err := s.ReadU64(addr)
		return T(v), err
	}
}

// Put writes the field of the record at base.
func (f *Uint[T]) Put(s Store, base db.Address, v T) error {
	addr := f.at(base)
	switch f.width {
	case 1:
		return s.WriteU8(addr, uint8(v))
	case 2:
		return s.WriteU16(addr, uint16(v))
	case 4:
		return s.WriteU32(addr, uint32(v))
	default:
		return s.WriteU64(addr, uint64(v))
	}
}

// Ownership says whether a pointer field owns the block it points to.
type Ownership struct {
	owns bool
	pool alloc.Pool
}

// Referencing marks a pointer that does not own its target. Destruction
// leaves the target alone.
var Referencing = Ownership{}

// Owns marks a pointer that owns a block allocated from pool. Destruction
// frees the block.
func Owns(pool alloc.Pool) Ownership {
	return Ownership{owns: true, pool: pool}
}

// Owning reports whether the pointer owns its target.
func (o Ownership) Owning() bool { return o.owns }

// Pool returns the pool owned blocks come from, or alloc.PoolInvalid for a
// referencing pointer.
func (o Ownership) Pool() alloc.Pool { return o.pool }

func (o Ownership) String() string {
	if !o.owns {
		return "referencing"
	}
	return "owns(" + o.pool.String() + ")"
}

// Pointer is a field holding an Address. db.Null means unset.
type Pointer struct {
	slot
	own Ownership
}

// Ownership returns whether and from which pool the pointer owns its target.
func (f *Pointer) Ownership() Ownership { return f.own }

// Get reads the pointer of the record at base.
func (f *Pointer) Get(s Reader, base db.Address) (db.Address, error) {
	v, err := s.ReadU64(f.at(base))
	return db.Address(v), err
}

// Put writes the pointer of the record at base. It does not free a previous
// owned target.
func (f *Pointer) Put(s Store, base db.Address, v db.Address) error {
	return s.WriteU64(f.at(base), uint64(v))
}

// release frees an owned target and clears the pointer.
func (f *Pointer) release(m Memory, base db.Address) error {
	if !f.own.owns {
		return nil
	}
	target, err := f.Get(m, base)
	if err != nil {
		return err
	}
	if target.IsNull() {
		return nil
	}
	if err := m.Free(target, f.own.pool); err != nil {
		return err
	}
	return f.Put(m, base, db.Null)
}

var (
	_ releaser = (*Pointer)(nil)
	_ releaser = (*String)(nil)
	_ Field    = (*Long)(nil)
	_ Field    = (*Pointer)(nil)
	_ Field    = (*String)(nil)
)

const pointerWidth = format.PointerSize
