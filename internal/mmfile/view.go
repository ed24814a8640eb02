package mmfile

import (
	"github.com/joshuapare/ndkit/db"
)

// View is a read-only image of a whole store file.
type View struct {
	path   string
	data   []byte
	closed bool
}

// Path returns the file the View was opened from.
func (v *View) Path() string { return v.path }

// Bytes returns the file contents. The slice is invalid after Close.
func (v *View) Bytes() []byte { return v.data }

// Len returns the file size in bytes.
func (v *View) Len() int { return len(v.data) }

// Header decodes and validates the store header.
func (v *View) Header() (*db.Header, error) {
	if v.closed {
		return nil, db.ErrClosed
	}
	return db.ParseHeader(v.data)
}

// Close releases the View. Closing twice is a no-op.
func (v *View) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	err := release(v.data)
	v.data = nil
	return err
}
