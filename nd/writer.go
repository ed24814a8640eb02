package nd

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/nd/field"
)

var _ field.Memory = (*Writer)(nil)

// Writer is the mutation handle of one Update call. It is only valid while
// that call's callback runs; afterwards every mutation fails with
// ErrNotWriting. A Writer must not be shared with other goroutines.
type Writer struct {
	n    *Nd
	live atomic.Bool
}

func (w *Writer) check() error {
	if !w.live.Load() {
		return ErrNotWriting
	}
	return nil
}

// Nd returns the engine the Writer belongs to.
func (w *Writer) Nd() *Nd { return w.n }

// Malloc allocates size bytes in pool.
func (w *Writer) Malloc(size uint64, pool alloc.Pool) (db.Address, error) {
	if err := w.check(); err != nil {
		return db.Null, err
	}
	return w.n.alloc.Malloc(size, pool)
}

// Free releases the block at addr back to pool.
func (w *Writer) Free(addr db.Address, pool alloc.Pool) error {
	if err := w.check(); err != nil {
		return err
	}
	return w.n.alloc.Free(addr, pool)
}

func (w *Writer) ReadU8(addr db.Address) (uint8, error)   { return w.n.ReadU8(addr) }
func (w *Writer) ReadU16(addr db.Address) (uint16, error) { return w.n.ReadU16(addr) }
func (w *Writer) ReadU32(addr db.Address) (uint32, error) { return w.n.ReadU32(addr) }
func (w *Writer) ReadU64(addr db.Address) (uint64, error) { return w.n.ReadU64(addr) }

// ReadBytes copies count bytes at addr.
func (w *Writer) ReadBytes(addr db.Address, count int) ([]byte, error) {
	return w.n.ReadBytes(addr, count)
}

func (w *Writer) WriteU8(addr db.Address, v uint8) error {
	if err := w.check(); err != nil {
		return err
	}
	return w.n.store.WriteU8(addr, v)
}

func (w *Writer) WriteU16(addr db.Address, v uint16) error {
	if err := w.check(); err != nil {
		return err
	}
	return w.n.store.WriteU16(addr, v)
}

func (w *Writer) WriteU32(addr db.Address, v uint32) error {
	if err := w.check(); err != nil {
		return err
	}
	return w.n.store.WriteU32(addr, v)
}

func (w *Writer) WriteU64(addr db.Address, v uint64) error {
	if err := w.check(); err != nil {
		return err
	}
	return w.n.store.WriteU64(addr, v)
}

// WriteBytes copies p to addr.
func (w *Writer) WriteBytes(addr db.Address, p []byte) error {
	if err := w.check(); err != nil {
		return err
	}
	return w.n.store.WriteBytes(addr, p)
}

// Flush writes pending changes to the store file without leaving Update.
func (w *Writer) Flush(ctx context.Context) error {
	if err := w.check(); err != nil {
		return err
	}
	return w.n.store.Flush(ctx)
}

// Allocate creates a record of def in pool. All fields read as zero.
func (w *Writer) Allocate(def *field.StructDef, pool alloc.Pool) (*Record, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	id, ok := w.n.reg.TypeOf(def)
	if !ok {
		return nil, errors.Wrap(ErrUnregistered, def.Name())
	}
	addr, err := w.n.alloc.Malloc(max(def.Size(), 1), pool)
	if err != nil {
		return nil, err
	}
	if err := w.n.alloc.SetTag(addr, uint16(id)); err != nil {
		if ferr := w.n.alloc.Free(addr, pool); ferr != nil {
			return nil, errors.Wrapf(err, "nd: free untagged record: %v", ferr)
		}
		return nil, err
	}
	return &Record{nd: w.n, w: w, addr: addr, def: def}, nil
}

// Attach wraps the record at addr as def, writable through w.
func (w *Writer) Attach(addr db.Address, def *field.StructDef) (*Record, error) {
	rec, err := w.n.Attach(addr, def)
	if err != nil {
		return nil, err
	}
	rec.w = w
	return rec, nil
}

// Resolve wraps the record at addr as its tagged schema, writable through w.
func (w *Writer) Resolve(addr db.Address) (*Record, error) {
	rec, err := w.n.Resolve(addr)
	if err != nil {
		return nil, err
	}
	rec.w = w
	return rec, nil
}

// Delete destructs the record at rec's address and frees its block. rec may
// come from any handle of the same engine.
func (w *Writer) Delete(rec *Record) error {
	if err := w.destruct(rec.addr); err != nil {
		return err
	}
	pool, err := w.n.alloc.PoolOf(rec.addr)
	if err != nil {
		return err
	}
	return w.Free(rec.addr, pool)
}

// destruct runs the cascade of the block's tagged type.
func (w *Writer) destruct(addr db.Address) error {
	if err := w.check(); err != nil {
		return err
	}
	t, err := w.n.typeAt(addr)
	if err != nil {
		return err
	}
	return t.Def.Destruct(w, addr)
}
