package java

import "github.com/pkg/errors"

// ErrPathTooLong is returned by SetPath for paths that do not fit the
// one-byte length field.
var ErrPathTooLong = errors.New("java: type path longer than 255 bytes")
