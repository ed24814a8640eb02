//go:build darwin

package dirty

import (
	"context"

	"golang.org/x/sys/unix"
)

// flushRanges syncs the whole mapping. Darwin's msync wants the address the
// mapping started at, and the kernel only writes dirty pages anyway.
func (t *Tracker) flushRanges(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return unix.Msync(data, unix.MS_SYNC)
}

func (t *Tracker) flushHeader(_ []byte) error {
	return unix.Msync(t.target.Bytes(), unix.MS_SYNC)
}

func (t *Tracker) syncFile(fullfsync bool) error {
	f := t.target.File()
	if f == nil {
		return nil
	}
	if fullfsync {
		_, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(int(f.Fd()))
}
