// Package field builds fixed-layout record schemas and the typed descriptors
// that read and write their fields.
//
// A schema is built once during setup:
//
//	base, _ := field.Create("Annotation", nil)
//	typeName, _ := base.AddString("typeName", alloc.PoolString)
//	_ = base.Done()
//
//	child, _ := field.Create("TypeAnnotation", base)
//	target, _ := child.AddByte("targetType")
//	path, _ := child.AddPointer("path", field.Owns(alloc.PoolMisc))
//	_ = child.Done()
//
// Each Add call places the field at the next offset that is a multiple of its
// width and returns an immutable descriptor bound to that offset. A child
// schema starts at its parent's sealed size, so the parent's fields form a
// binary-compatible prefix of every child record. Done rounds the size up to
// the widest alignment used and seals the schema; nothing can be added after.
//
// Descriptors carry no per-record state. They read and write through a Store
// at base+offset, and the ones that allocate (String, owning Pointer cleanup)
// go through a Memory.
package field
