package nd

import "github.com/pkg/errors"

var (
	// ErrCorruptLayout indicates a block whose type tag cannot be resolved to
	// the requested schema.
	ErrCorruptLayout = errors.New("nd: corrupt layout")

	// ErrNotWriting indicates a mutation attempted outside Update.
	ErrNotWriting = errors.New("nd: mutation outside Update")

	// ErrRegistryFrozen indicates Register after Freeze.
	ErrRegistryFrozen = errors.New("nd: registry is frozen")

	// ErrUnregistered indicates a schema that is not in the registry.
	ErrUnregistered = errors.New("nd: schema not registered")

	// ErrDuplicateType indicates a second schema registered under a name.
	ErrDuplicateType = errors.New("nd: duplicate type name")

	// ErrTooManyTypes indicates the 16-bit type ID space is exhausted.
	ErrTooManyTypes = errors.New("nd: too many types")
)
