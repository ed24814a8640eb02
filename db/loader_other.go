//go:build !linux && !darwin && !freebsd

package db

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// loadedFile is a store file read fully into memory. Dirty ranges are written
// back with WriteAt on Flush.
type loadedFile struct {
	f    *os.File
	data []byte
}

func openFileBacking(f *os.File, size int, _ bool) (backing, error) {
	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "db: read file")
	}
	return &loadedFile{f: f, data: data}, nil
}

func (l *loadedFile) Bytes() []byte  { return l.data }
func (l *loadedFile) File() *os.File { return l.f }

func (l *loadedFile) resize(n int) error {
	if err := l.f.Truncate(int64(n)); err != nil {
		return errors.Wrap(err, "db: extend file")
	}
	grown := make([]byte, n)
	copy(grown, l.data)
	l.data = grown
	return nil
}

func (l *loadedFile) close() error {
	l.data = nil
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}
