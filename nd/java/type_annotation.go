package java

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/nd"
	"github.com/joshuapare/ndkit/nd/field"
)

// maxPathLength is the largest path the one-byte length field can describe.
const maxPathLength = 0xFF

// noTypePath is returned by TypePath for records without a path.
var noTypePath = []byte{}

// TypeAnnotation is a view of a TypeAnnotation record.
type TypeAnnotation struct {
	Annotation
	tl *TypeAnnotationLayout
}

// NewTypeAnnotation allocates a TypeAnnotation record.
func (ls *Layouts) NewTypeAnnotation(w *nd.Writer) (*TypeAnnotation, error) {
	rec, err := w.Allocate(ls.TypeAnnotation.Def, alloc.PoolRecord)
	if err != nil {
		return nil, err
	}
	return ls.wrap(rec), nil
}

// AttachTypeAnnotation wraps the TypeAnnotation at addr. Attaching through a
// Writer makes it writable.
func (ls *Layouts) AttachTypeAnnotation(a nd.Attacher, addr db.Address) (*TypeAnnotation, error) {
	rec, err := a.Attach(addr, ls.TypeAnnotation.Def)
	if err != nil {
		return nil, err
	}
	return ls.wrap(rec), nil
}

func (ls *Layouts) wrap(rec *nd.Record) *TypeAnnotation {
	return &TypeAnnotation{
		Annotation: Annotation{rec: rec, l: ls.Annotation},
		tl:         ls.TypeAnnotation,
	}
}

func (t *TypeAnnotation) nd() *nd.Nd { return t.rec.Nd() }

func (t *TypeAnnotation) mem() field.Memory { return t.rec.Memory() }

// SetTargetType stores one of the Target constants.
func (t *TypeAnnotation) SetTargetType(targetType uint8) error {
	return t.tl.TargetType.Put(t.mem(), t.Address(), targetType)
}

// TargetType returns the stored target type.
func (t *TypeAnnotation) TargetType() (uint8, error) {
	return t.tl.TargetType.Get(t.nd(), t.Address())
}

// SetTargetInfo stores the two target_info bytes.
func (t *TypeAnnotation) SetTargetInfo(arg0, arg1 uint8) error {
	if err := t.tl.TargetArg0.Put(t.mem(), t.Address(), arg0); err != nil {
		return err
	}
	return t.tl.TargetArg1.Put(t.mem(), t.Address(), arg1)
}

// SetTarget stores a 16-bit target_info value, high byte in arg0.
func (t *TypeAnnotation) SetTarget(target uint16) error {
	return t.SetTargetInfo(uint8(target>>8), uint8(target))
}

// TargetArg0 returns the first target_info byte.
func (t *TypeAnnotation) TargetArg0() (uint8, error) {
	return t.tl.TargetArg0.Get(t.nd(), t.Address())
}

// TargetArg1 returns the second target_info byte.
func (t *TypeAnnotation) TargetArg1() (uint8, error) {
	return t.tl.TargetArg1.Get(t.nd(), t.Address())
}

// Target combines the target_info bytes as arg0<<8 | arg1.
func (t *TypeAnnotation) Target() (uint16, error) {
	arg0, err := t.TargetArg0()
	if err != nil {
		return 0, err
	}
	arg1, err := t.TargetArg1()
	if err != nil {
		return 0, err
	}
	return uint16(arg0)<<8 | uint16(arg1), nil
}

// SetPath replaces the type path. The previous blob is freed first; an empty
// path leaves no blob behind.
func (t *TypeAnnotation) SetPath(path []byte) error {
	if len(path) > maxPathLength {
		return errors.Wrapf(ErrPathTooLong, "%d bytes", len(path))
	}
	return t.tl.setPath(t.mem(), t.Address(), path)
}

// TypePath returns a copy of the type path. Records without a path return a
// shared empty slice that callers must not modify.
func (t *TypeAnnotation) TypePath() ([]byte, error) {
	n := t.nd()
	base := t.Address()
	blob, err := t.tl.Path.Get(n, base)
	if err != nil {
		return nil, err
	}
	if blob.IsNull() {
		return noTypePath, nil
	}
	length, err := t.tl.PathLength.Get(n, base)
	if err != nil {
		return nil, err
	}
	return n.ReadBytes(blob, int(length))
}

func (l *TypeAnnotationLayout) setPath(m field.Memory, base db.Address, path []byte) error {
	if err := l.freePath(m, base); err != nil {
		return err
	}
	if len(path) == 0 {
		return nil
	}
	blob, err := m.Malloc(uint64(len(path)), alloc.PoolMisc)
	if err != nil {
		return err
	}
	if err := l.storePath(m, base, blob, path); err != nil {
		if ferr := m.Free(blob, alloc.PoolMisc); ferr != nil {
			return errors.Wrapf(err, "java: free type path after failed write: %v", ferr)
		}
		return err
	}
	return nil
}

// storePath fills a freshly allocated blob and links it into the record. The
// pointer is written last so a failure leaves the record with a null path.
func (l *TypeAnnotationLayout) storePath(m field.Store, base, blob db.Address, path []byte) error {
	if err := m.WriteBytes(blob, path); err != nil {
		return err
	}
	if err := l.PathLength.Put(m, base, uint8(len(path))); err != nil {
		return err
	}
	return l.Path.Put(m, base, blob)
}

// freePath releases the path blob, if any, and clears the pointer and length.
// It is also the schema's destruct hook.
func (l *TypeAnnotationLayout) freePath(m field.Memory, base db.Address) error {
	blob, err := l.Path.Get(m, base)
	if err != nil {
		return err
	}
	if blob.IsNull() {
		return nil
	}
	if err := m.Free(blob, alloc.PoolMisc); err != nil {
		return errors.Wrap(err, "java: free type path")
	}
	if err := l.Path.Put(m, base, db.Null); err != nil {
		return err
	}
	return l.PathLength.Put(m, base, 0)
}
