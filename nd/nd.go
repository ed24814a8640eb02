package nd

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
)

// Nd is an open record engine. Reads go through the engine directly; every
// mutation goes through the Writer handed to an Update callback.
type Nd struct {
	mu sync.RWMutex

	store *db.DB
	alloc *alloc.Allocator
	reg   *Registry
	opts  *Options
	log   *logrus.Logger
}

// Create creates a new store file at path.
func Create(path string, reg *Registry, opts *Options) (*Nd, error) {
	o := opts.withDefaults()
	s, err := db.Create(path, o.DB)
	if err != nil {
		return nil, err
	}
	return start(s, reg, o, "created")
}

// Open opens an existing store file. reg must hold the same registrations,
// in the same order, as when the records were written.
func Open(path string, reg *Registry, opts *Options) (*Nd, error) {
	o := opts.withDefaults()
	s, err := db.Open(path, o.DB)
	if err != nil {
		return nil, err
	}
	return start(s, reg, o, "opened")
}

// NewMemory returns an engine over an in-memory store.
func NewMemory(reg *Registry, opts *Options) (*Nd, error) {
	o := opts.withDefaults()
	s, err := db.New(o.DB)
	if err != nil {
		return nil, err
	}
	return start(s, reg, o, "memory")
}

func start(s *db.DB, reg *Registry, o *Options, how string) (*Nd, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	a, err := alloc.New(s, o.Alloc)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	reg.Freeze()
	n := &Nd{store: s, alloc: a, reg: reg, opts: o, log: o.Logger}
	n.log.WithFields(logrus.Fields{
		"path":  s.Path(),
		"id":    s.UUID(),
		"types": reg.Len(),
		"size":  s.Size(),
	}).Debugf("nd: %s", how)
	return n, nil
}

// Update runs fn holding the write lock. w is the only way to mutate the store
// and stops working when fn returns. Update, View, Flush, Reopen and Close
// must not be called from inside fn.
func (n *Nd) Update(fn func(w *Writer) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	w := &Writer{n: n}
	w.live.Store(true)
	defer w.live.Store(false)
	return fn(w)
}

// View runs fn holding the read lock.
func (n *Nd) View(fn func() error) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return fn()
}

// Registry returns the frozen registry the engine was opened with.
func (n *Nd) Registry() *Registry { return n.reg }

// DB returns the underlying store. Callers must hold the engine's lock.
func (n *Nd) DB() *db.DB { return n.store }

// Allocator returns the underlying allocator. Callers must hold the engine's
// lock.
func (n *Nd) Allocator() *alloc.Allocator { return n.alloc }

// Path returns the store path, or "" for an in-memory engine. Like the
// accessors below it takes no lock: call it inside Update or View, or while
// no other goroutine can Reopen the engine.
func (n *Nd) Path() string { return n.store.Path() }

// Stats returns the allocator accounting. Callers must hold the engine's lock
// or otherwise exclude concurrent writers.
func (n *Nd) Stats() alloc.Stats { return n.alloc.Stats() }

// Verify checks the block chain against the allocator's indexes. Callers
// must hold the engine's lock or otherwise exclude concurrent writers.
func (n *Nd) Verify() error { return n.alloc.Verify() }

// Flush writes pending changes to the store file.
func (n *Nd) Flush(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.store.Flush(ctx)
}

// Reopen flushes and closes the current store and opens the file at path in
// its place, with the same registry and options. An empty path reopens the
// current file. Addresses from the old store are only meaningful in the new
// one when it is the same file.
func (n *Nd) Reopen(path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if path == "" {
		path = n.store.Path()
	}
	if path == "" {
		return errors.New("nd: reopen of an in-memory store needs a path")
	}
	if err := n.store.Close(); err != nil && !errors.Is(err, db.ErrClosed) {
		return errors.Wrap(err, "nd: close before reopen")
	}
	s, err := db.Open(path, n.opts.DB)
	if err != nil {
		return errors.Wrap(err, "nd: reopen")
	}
	a, err := alloc.New(s, n.opts.Alloc)
	if err != nil {
		_ = s.Close()
		return errors.Wrap(err, "nd: reopen")
	}
	n.store, n.alloc = s, a
	n.log.WithFields(logrus.Fields{"path": path, "size": s.Size()}).Debug("nd: reopened")
	return nil
}

// Close flushes and closes the store.
func (n *Nd) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.store.Close()
}
