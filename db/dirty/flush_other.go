//go:build !linux && !freebsd && !darwin

package dirty

import "context"

// flushRanges writes each coalesced range back to the file. On these
// platforms the store is read into memory rather than mapped.
func (t *Tracker) flushRanges(ctx context.Context, data []byte) error {
	f := t.target.File()
	if f == nil {
		return nil
	}
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		start, end, ok := t.clip(r, len(data))
		if !ok {
			continue
		}
		if _, err := f.WriteAt(data[start:end], int64(start)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) flushHeader(header []byte) error {
	f := t.target.File()
	if f == nil {
		return nil
	}
	_, err := f.WriteAt(header, 0)
	return err
}

func (t *Tracker) syncFile(_ bool) error {
	f := t.target.File()
	if f == nil {
		return nil
	}
	return f.Sync()
}
