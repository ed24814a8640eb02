package alloc

import "github.com/pkg/errors"

var (
	// ErrDoubleFree indicates a free of a block that is already free.
	ErrDoubleFree = errors.New("alloc: double free")

	// ErrPoolMismatch indicates a free naming a different pool than the one
	// the block was allocated from.
	ErrPoolMismatch = errors.New("alloc: pool mismatch")

	// ErrBadPool indicates pool 0, a pool past the table, or an undefined pool.
	ErrBadPool = errors.New("alloc: bad pool")

	// ErrBadAddress indicates an address that is not the start of a live block.
	ErrBadAddress = errors.New("alloc: not an allocated block")

	// ErrTooLarge indicates a request that cannot fit in a single block.
	ErrTooLarge = errors.New("alloc: request too large")

	// ErrCorrupt indicates a malformed block chain found while scanning the store.
	ErrCorrupt = errors.New("alloc: corrupt block chain")
)
