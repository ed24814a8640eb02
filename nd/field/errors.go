package field

import "github.com/pkg/errors"

var (
	// ErrSchemaSealed is returned when adding to, hooking, or sealing a schema
	// that is already sealed.
	ErrSchemaSealed = errors.New("field: schema is sealed")

	// ErrParentNotSealed is returned by Create when the parent is still open.
	ErrParentNotSealed = errors.New("field: parent schema is not sealed")

	// ErrNotSealed is returned when a schema is used before Done.
	ErrNotSealed = errors.New("field: schema is not sealed")

	// ErrDuplicateField is returned when a field name is already used by the
	// schema or one of its ancestors.
	ErrDuplicateField = errors.New("field: duplicate field name")
)
