package nd

import (
	"sort"
	"sync/atomic"

	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"

	"github.com/joshuapare/ndkit/nd/field"
)

// TypeID identifies a registered schema. It is stored in the tag of every
// record block. Zero means untyped.
type TypeID uint16

// Type is one registry entry.
type Type struct {
	ID     TypeID
	Name   string
	Parent string // empty for root schemas
	Def    *field.StructDef
}

const typesTable = "types"

var registrySchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		typesTable: {
			Name: typesTable,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.UintFieldIndex{Field: "ID"},
				},
				"name": {
					Name:    "name",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Name"},
				},
				"parent": {
					Name:         "parent",
					AllowMissing: true,
					Indexer:      &memdb.StringFieldIndex{Field: "Parent"},
				},
			},
		},
	},
}

// Registry maps schemas to type IDs. Register everything during setup, then
// Freeze; engines freeze the registry they are opened with. Lookups are safe
// for concurrent use.
type Registry struct {
	db     *memdb.MemDB
	next   TypeID // guarded by the memdb writer lock
	frozen atomic.Bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	mdb, err := memdb.NewMemDB(registrySchema)
	if err != nil {
		// The schema is static; failing here is a programming error.
		panic(err)
	}
	return &Registry{db: mdb}
}

// Register assigns the next type ID to def. def must be sealed and its parent,
// if any, registered first.
func (r *Registry) Register(def *field.StructDef) (TypeID, error) {
	if def == nil {
		return 0, errors.New("nd: register nil schema")
	}
	if r.frozen.Load() {
		return 0, errors.Wrap(ErrRegistryFrozen, def.Name())
	}
	if !def.Sealed() {
		return 0, errors.Wrap(field.ErrNotSealed, def.Name())
	}

	txn := r.db.Txn(true)
	defer txn.Abort()

	if existing, err := txn.First(typesTable, "name", def.Name()); err != nil {
		return 0, err
	} else if existing != nil {
		return 0, errors.Wrap(ErrDuplicateType, def.Name())
	}

	t := &Type{Name: def.Name(), Def: def}
	if p := def.Parent(); p != nil {
		raw, err := txn.First(typesTable, "name", p.Name())
		if err != nil {
			return 0, err
		}
		if raw == nil || raw.(*Type).Def != p {
			return 0, errors.Wrapf(ErrUnregistered, "parent %s of %s", p.Name(), def.Name())
		}
		t.Parent = p.Name()
	}
	if r.next == ^TypeID(0) {
		return 0, errors.Wrap(ErrTooManyTypes, def.Name())
	}
	t.ID = r.next + 1

	if err := txn.Insert(typesTable, t); err != nil {
		return 0, errors.Wrapf(err, "nd: register %s", def.Name())
	}
	txn.Commit()
	r.next = t.ID
	return t.ID, nil
}

// MustRegister is Register for package-level setup code; it panics on error.
func (r *Registry) MustRegister(def *field.StructDef) TypeID {
	id, err := r.Register(def)
	if err != nil {
		panic(err)
	}
	return id
}

// Freeze rejects further registrations. It is idempotent.
func (r *Registry) Freeze() { r.frozen.Store(true) }

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen.Load() }

// ByID returns the type registered under id.
func (r *Registry) ByID(id TypeID) (*Type, bool) {
	return r.first("id", uint16(id))
}

// ByName returns the type registered under name.
func (r *Registry) ByName(name string) (*Type, bool) {
	return r.first("name", name)
}

// TypeOf returns the ID of def, which must be the registered instance, not
// merely one with the same name.
func (r *Registry) TypeOf(def *field.StructDef) (TypeID, bool) {
	if def == nil {
		return 0, false
	}
	t, ok := r.ByName(def.Name())
	if !ok || t.Def != def {
		return 0, false
	}
	return t.ID, true
}

// Types returns every registered type in ID order.
func (r *Registry) Types() []*Type {
	out := r.list("id")
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Children returns the types registered with def as their direct parent, in
// ID order.
func (r *Registry) Children(def *field.StructDef) []*Type {
	out := r.list("parent", def.Name())
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.list("id"))
}

func (r *Registry) first(index string, arg any) (*Type, bool) {
	txn := r.db.Txn(false)
	raw, err := txn.First(typesTable, index, arg)
	if err != nil || raw == nil {
		return nil, false
	}
	return raw.(*Type), true
}

func (r *Registry) list(index string, args ...any) []*Type {
	txn := r.db.Txn(false)
	it, err := txn.Get(typesTable, index, args...)
	if err != nil {
		return nil
	}
	var out []*Type
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(*Type))
	}
	return out
}
