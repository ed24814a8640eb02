// Package nd is the record engine: a byte store, its allocator, and a
// registry of record schemas behind one reader/writer lock.
//
// # Setup
//
// Schemas are built with package field and registered once, before any engine
// is opened. Opening an engine freezes the registry; type IDs are assigned in
// registration order and recorded in the header of every record block, so the
// same registration order must be used every time a file is opened.
//
//	reg := nd.NewRegistry()
//	layouts, err := java.Register(reg)
//	...
//	engine, err := nd.Create(path, reg, nil)
//
// # Locking
//
// Every mutation (Malloc, Free, field Put, Allocate, Destruct, Delete) goes
// through the Writer handed to an Update callback. Update holds the write lock
// for the whole callback so that multi-step operations are atomic, and the
// Writer stops working when the callback returns. Reads may run inside View,
// concurrently with other readers.
//
//	err := engine.Update(func(w *nd.Writer) error {
//	    rec, err := w.Allocate(layouts.TypeAnnotation.Def, alloc.PoolRecord)
//	    ...
//	})
//
// Update and View must not be nested. Path, Stats and Verify take no lock and
// may be called from either callback.
//
// # Records
//
// A Record is a view: engine, address, schema. Writer.Allocate creates one
// over a fresh zeroed block and tags the block with the schema's type ID. Attach
// wraps an existing address after checking that tag, and Resolve builds a
// record from the tag alone. A tag that is unknown, names a schema that is not
// the requested one or a descendant, or a block smaller than the schema,
// yields ErrCorruptLayout. Records attached through the engine are read-only;
// attach through a Writer to mutate them.
package nd
