package field

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/internal/format"
)

// DestructHook runs when a record of the schema it is attached to is
// destructed, before the schema's owning fields are released.
type DestructHook func(m Memory, base db.Address) error

// StructDef is a record layout. It is mutable until Done and immutable after.
type StructDef struct {
	name   string
	parent *StructDef
	own    []Field
	size   uint64
	align  uint64
	sealed bool
	hook   DestructHook
}

// Create starts a schema. A non-nil parent must be sealed; its fields become
// the new schema's prefix.
func Create(name string, parent *StructDef) (*StructDef, error) {
	if name == "" {
		return nil, errors.New("field: schema name is empty")
	}
	d := &StructDef{name: name, parent: parent, align: 1}
	if parent != nil {
		if !parent.sealed {
			return nil, errors.Wrapf(ErrParentNotSealed, "%s extends %s", name, parent.name)
		}
		d.size = parent.size
		d.align = parent.align
	}
	return d, nil
}

// Name returns the schema name.
func (d *StructDef) Name() string { return d.name }

// Parent returns the parent schema, or nil.
func (d *StructDef) Parent() *StructDef { return d.parent }

// Size returns the running size, or the sealed size after Done.
func (d *StructDef) Size() uint64 { return d.size }

// Align returns the widest alignment of any field in the schema or its
// ancestors.
func (d *StructDef) Align() uint64 { return d.align }

// Sealed reports whether Done has been called.
func (d *StructDef) Sealed() bool { return d.sealed }

// OwnFields returns the fields added to this schema, in order.
func (d *StructDef) OwnFields() []Field {
	return append([]Field(nil), d.own...)
}

// Fields returns all fields, ancestors first.
func (d *StructDef) Fields() []Field {
	var out []Field
	if d.parent != nil {
		out = d.parent.Fields()
	}
	return append(out, d.own...)
}

// Lookup finds a field by name in the schema or its ancestors.
func (d *StructDef) Lookup(name string) (Field, bool) {
	for def := d; def != nil; def = def.parent {
		for _, f := range def.own {
			if f.Name() == name {
				return f, true
			}
		}
	}
	return nil, false
}

// IsA reports whether d is other or descends from it.
func (d *StructDef) IsA(other *StructDef) bool {
	for def := d; def != nil; def = def.parent {
		if def == other {
			return true
		}
	}
	return false
}

// Depth returns the number of ancestors.
func (d *StructDef) Depth() int {
	n := 0
	for def := d.parent; def != nil; def = def.parent {
		n++
	}
	return n
}

func (d *StructDef) place(name string, width uint64, kind Kind) (slot, error) {
	if d.sealed {
		return slot{}, errors.Wrapf(ErrSchemaSealed, "add %s to %s", name, d.name)
	}
	if name == "" {
		return slot{}, errors.Errorf("field: empty field name in %s", d.name)
	}
	if _, dup := d.Lookup(name); dup {
		return slot{}, errors.Wrapf(ErrDuplicateField, "%s.%s", d.name, name)
	}
	off := format.AlignU64(d.size, width)
	d.size = off + width
	d.align = max(d.align, width)
	return slot{name: name, offset: off, width: width, kind: kind}, nil
}

func addUint[T uint8 | uint16 | uint32 | uint64](d *StructDef, name string, width uint64, kind Kind) (*Uint[T], error) {
	s, err := d.place(name, width, kind)
	if err != nil {
		return nil, err
	}
	f := &Uint[T]{slot: s}
	d.own = append(d.own, f)
	return f, nil
}

// AddByte appends a 1-byte field.
func (d *StructDef) AddByte(name string) (*Byte, error) {
	return addUint[uint8](d, name, 1, KindByte)
}

// AddShort appends a 2-byte field.
func (d *StructDef) AddShort(name string) (*Short, error) {
	return addUint[uint16](d, name, 2, KindShort)
}

// AddInt appends a 4-byte field.
func (d *StructDef) AddInt(name string) (*Int, error) {
	return addUint[uint32](d, name, 4, KindInt)
}

// AddLong appends an 8-byte field.
func (d *StructDef) AddLong(name string) (*Long, error) {
	return addUint[uint64](d, name, 8, KindLong)
}

// AddPointer appends a pointer field.
func (d *StructDef) AddPointer(name string, own Ownership) (*Pointer, error) {
	s, err := d.place(name, pointerWidth, KindPointer)
	if err != nil {
		return nil, err
	}
	f := &Pointer{slot: s, own: own}
	d.own = append(d.own, f)
	return f, nil
}

// AddString appends a string field whose blocks come from pool.
func (d *StructDef) AddString(name string, pool alloc.Pool) (*String, error) {
	s, err := d.place(name, pointerWidth, KindString)
	if err != nil {
		return nil, err
	}
	f := &String{slot: s, pool: pool}
	d.own = append(d.own, f)
	return f, nil
}

// OnDestruct attaches a hook run when a record is destructed at this level.
func (d *StructDef) OnDestruct(hook DestructHook) error {
	if d.sealed {
		return errors.Wrapf(ErrSchemaSealed, "hook on %s", d.name)
	}
	d.hook = hook
	return nil
}

// Done rounds the size up to the schema's alignment and seals it.
func (d *StructDef) Done() error {
	if d.sealed {
		return errors.Wrapf(ErrSchemaSealed, "%s sealed twice", d.name)
	}
	d.size = format.AlignU64(d.size, d.align)
	d.sealed = true
	return nil
}

// Destruct releases everything the record at base owns, from this schema up
// to the root. At each level the hook runs first, then every owning pointer
// and string of that level still set is freed and cleared. The first failure
// stops the cascade and is returned.
func (d *StructDef) Destruct(m Memory, base db.Address) error {
	if !d.sealed {
		return errors.Wrap(ErrNotSealed, d.name)
	}
	for def := d; def != nil; def = def.parent {
		if def.hook != nil {
			if err := def.hook(m, base); err != nil {
				return errors.Wrapf(err, "destruct %s", def.name)
			}
		}
		for _, f := range def.own {
			r, ok := f.(releaser)
			if !ok {
				continue
			}
			if err := r.release(m, base); err != nil {
				return errors.Wrapf(err, "destruct %s.%s", def.name, f.Name())
			}
		}
	}
	return nil
}
