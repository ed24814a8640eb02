package db

import "github.com/pkg/errors"

var (
	// ErrOutOfRange is returned when an access falls outside [HeaderSize, Size).
	ErrOutOfRange = errors.New("db: address out of range")
	// ErrBadHeader is returned when a file does not carry a valid store header.
	ErrBadHeader = errors.New("db: bad header")
	// ErrClosed is returned by every operation on a closed store.
	ErrClosed = errors.New("db: store is closed")
	// ErrReadOnly is returned by mutating operations on a store opened read-only.
	ErrReadOnly = errors.New("db: store is read-only")
)
