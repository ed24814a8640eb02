package format

import "github.com/pkg/errors"

var (
	// ErrSignatureMismatch indicates the header did not start with "NDDB".
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrByteOrder indicates an unknown byte-order flag.
	ErrByteOrder = errors.New("format: unknown byte order flag")
	// ErrVersion indicates a major version this build cannot read.
	ErrVersion = errors.New("format: unsupported version")
)
