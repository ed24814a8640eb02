package nd

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/nd/field"
)

// Record is a view of one record: engine, address, schema. It holds no data.
// Records obtained from a Writer are writable until that Writer's Update
// returns; records obtained from the engine are read-only.
type Record struct {
	nd   *Nd
	w    *Writer
	addr db.Address
	def  *field.StructDef
}

// Address returns the record's address.
func (r *Record) Address() db.Address { return r.addr }

// Schema returns the schema the record is viewed through.
func (r *Record) Schema() *field.StructDef { return r.def }

// Nd returns the engine the record lives in. It reads the record's fields.
func (r *Record) Nd() *Nd { return r.nd }

// Memory returns what the record's fields are written through: its Writer,
// or for read-only records a Memory whose mutations fail with ErrNotWriting.
func (r *Record) Memory() field.Memory {
	if r.w == nil {
		return readOnly{r.nd}
	}
	return r.w
}

// Writable reports whether the record can currently be mutated.
func (r *Record) Writable() bool {
	return r.w != nil && r.w.check() == nil
}

// Destruct releases everything the record owns, from the schema its block is
// tagged with up to the root, leaving the record's own block allocated. A
// record attached through a parent schema is still destructed as its full
// type. Calling it on a record that was already deleted is undefined.
func (r *Record) Destruct() error {
	if r.w == nil {
		return ErrNotWriting
	}
	return r.w.destruct(r.addr)
}

// Delete destructs the record and frees its block.
func (r *Record) Delete() error {
	if r.w == nil {
		return ErrNotWriting
	}
	return r.w.Delete(r)
}

// Attach wraps the record at addr as def, read-only. The block must be tagged
// with def or one of its descendants.
func (n *Nd) Attach(addr db.Address, def *field.StructDef) (*Record, error) {
	if _, ok := n.reg.TypeOf(def); !ok {
		return nil, errors.Wrap(ErrUnregistered, def.Name())
	}
	t, err := n.typeAt(addr)
	if err != nil {
		return nil, err
	}
	if !t.Def.IsA(def) {
		return nil, errors.Wrapf(ErrCorruptLayout, "%v holds %s, not a %s", addr, t.Name, def.Name())
	}
	return &Record{nd: n, addr: addr, def: def}, nil
}

// Resolve wraps the record at addr as the schema its block is tagged with,
// read-only.
func (n *Nd) Resolve(addr db.Address) (*Record, error) {
	t, err := n.typeAt(addr)
	if err != nil {
		return nil, err
	}
	return &Record{nd: n, addr: addr, def: t.Def}, nil
}

// typeAt resolves the tag of the live block at addr.
func (n *Nd) typeAt(addr db.Address) (*Type, error) {
	tag, err := n.alloc.Tag(addr)
	if err != nil {
		return nil, err
	}
	if tag == 0 {
		return nil, errors.Wrapf(ErrCorruptLayout, "%v is untyped", addr)
	}
	t, ok := n.reg.ByID(TypeID(tag))
	if !ok {
		return nil, errors.Wrapf(ErrCorruptLayout, "%v has unknown type %d", addr, tag)
	}
	usable, err := n.alloc.UsableSize(addr)
	if err != nil {
		return nil, err
	}
	if usable < t.Def.Size() {
		return nil, errors.Wrapf(ErrCorruptLayout, "%v holds %d bytes, %s needs %d", addr, usable, t.Name, t.Def.Size())
	}
	return t, nil
}

// Attacher wraps existing records: *Nd attaches read-only, *Writer writable.
type Attacher interface {
	Attach(addr db.Address, def *field.StructDef) (*Record, error)
}

var (
	_ Attacher = (*Nd)(nil)
	_ Attacher = (*Writer)(nil)
)
