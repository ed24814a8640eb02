//go:build linux || darwin || freebsd

package db

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mappedFile is a store file mapped MAP_SHARED.
type mappedFile struct {
	f    *os.File
	data []byte
	prot int
}

func openFileBacking(f *os.File, size int, readOnly bool) (backing, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	if readOnly {
		prot = unix.PROT_READ
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "db: mmap")
	}
	return &mappedFile{f: f, data: data, prot: prot}, nil
}

func (m *mappedFile) Bytes() []byte  { return m.data }
func (m *mappedFile) File() *os.File { return m.f }

// resize extends the file to n bytes and remaps it. On failure the previous
// mapping is restored so the store stays usable.
func (m *mappedFile) resize(n int) error {
	old := len(m.data)
	if err := unix.Munmap(m.data); err != nil {
		return errors.Wrap(err, "db: unmap before grow")
	}
	m.data = nil

	if err := m.f.Truncate(int64(n)); err != nil {
		m.data, _ = unix.Mmap(int(m.f.Fd()), 0, old, m.prot, unix.MAP_SHARED)
		return errors.Wrap(err, "db: extend file")
	}
	data, err := unix.Mmap(int(m.f.Fd()), 0, n, m.prot, unix.MAP_SHARED)
	if err != nil {
		m.data, _ = unix.Mmap(int(m.f.Fd()), 0, old, m.prot, unix.MAP_SHARED)
		return errors.Wrap(err, "db: remap after grow")
	}
	m.data = data
	return nil
}

func (m *mappedFile) close() error {
	var err error
	if m.data != nil {
		err = unix.Munmap(m.data)
		m.data = nil
	}
	if m.f != nil {
		if cerr := m.f.Close(); err == nil {
			err = cerr
		}
		m.f = nil
	}
	return err
}
