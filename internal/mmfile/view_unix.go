//go:build unix

package mmfile

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Open maps the file at path read-only. The mapping is private, so pages are
// never written back even if the process misbehaves.
func Open(path string) (*View, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, &os.PathError{Op: "fstat", Path: path, Err: err}
	}
	if st.Size == 0 {
		return &View{path: path, data: []byte{}}, nil
	}
	if st.Size > math.MaxInt {
		return nil, errors.Errorf("mmfile: %s too large to map (%d bytes)", path, st.Size)
	}
	data, err := unix.Mmap(fd, 0, int(st.Size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(err, "mmfile: map %s", path)
	}
	return &View{path: path, data: data}, nil
}

func release(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return errors.Wrap(unix.Munmap(data), "mmfile: unmap")
}
