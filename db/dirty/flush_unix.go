//go:build linux || freebsd

package dirty

import (
	"context"

	"golang.org/x/sys/unix"
)

// flushRanges msyncs each coalesced range except the header page.
func (t *Tracker) flushRanges(ctx context.Context, data []byte) error {
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		start, end, ok := t.clip(r, len(data))
		if !ok {
			continue
		}
		if err := unix.Msync(data[start:end], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) flushHeader(header []byte) error {
	return unix.Msync(header, unix.MS_SYNC)
}

// syncFile uses fdatasync; fullfsync only matters on macOS.
func (t *Tracker) syncFile(_ bool) error {
	f := t.target.File()
	if f == nil {
		return nil
	}
	return unix.Fdatasync(int(f.Fd()))
}
