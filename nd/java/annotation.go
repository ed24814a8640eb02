package java

import (
	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/nd"
)

// Annotation is a view of an Annotation record.
type Annotation struct {
	rec *nd.Record
	l   *AnnotationLayout
}

// NewAnnotation allocates an Annotation record.
func (ls *Layouts) NewAnnotation(w *nd.Writer) (*Annotation, error) {
	rec, err := w.Allocate(ls.Annotation.Def, alloc.PoolRecord)
	if err != nil {
		return nil, err
	}
	return &Annotation{rec: rec, l: ls.Annotation}, nil
}

// AttachAnnotation wraps the Annotation, or any record derived from it, at
// addr. Attaching through a Writer makes it writable.
func (ls *Layouts) AttachAnnotation(a nd.Attacher, addr db.Address) (*Annotation, error) {
	rec, err := a.Attach(addr, ls.Annotation.Def)
	if err != nil {
		return nil, err
	}
	return &Annotation{rec: rec, l: ls.Annotation}, nil
}

// Address returns the record address.
func (a *Annotation) Address() db.Address { return a.rec.Address() }

// Record returns the underlying record handle.
func (a *Annotation) Record() *nd.Record { return a.rec }

// SetTypeName stores the annotation type name, freeing the previous one.
func (a *Annotation) SetTypeName(name string) error {
	return a.l.TypeName.Put(a.rec.Memory(), a.rec.Address(), name)
}

// TypeName returns the annotation type name.
func (a *Annotation) TypeName() (string, error) {
	return a.l.TypeName.Get(a.rec.Nd(), a.rec.Address())
}

// Destruct releases everything the record owns.
func (a *Annotation) Destruct() error {
	return a.rec.Destruct()
}

// Delete destructs the record and frees it.
func (a *Annotation) Delete() error {
	return a.rec.Delete()
}
