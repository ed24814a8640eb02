package dirty

import (
	"context"
	"os"
	"sort"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// FlushMode controls how far a flush goes towards stable storage.
type FlushMode int

const (
	// FlushAuto msyncs dirty pages, then the header, then fdatasyncs.
	FlushAuto FlushMode = iota

	// FlushDataOnly msyncs dirty pages and the header but skips fdatasync.
	FlushDataOnly

	// FlushFull behaves like FlushAuto and additionally asks macOS for
	// F_FULLFSYNC.
	FlushFull
)

// String names the mode for logs and ndctl output.
func (m FlushMode) String() string {
	switch m {
	case FlushAuto:
		return "auto"
	case FlushDataOnly:
		return "data-only"
	case FlushFull:
		return "full"
	default:
		return "unknown"
	}
}

// Target is the storage a Tracker flushes: the backing bytes and the file they
// belong to.
type Target interface {
	Bytes() []byte
	File() *os.File
}

// Range is a dirty byte range in absolute file offsets.
type Range struct {
	Off int64
	Len int64
}

// Tracker accumulates dirty ranges and flushes them.
type Tracker struct {
	target   Target
	ranges   []Range
	pageSize int64
}

// NewTracker creates a tracker for target.
func NewTracker(target Target) *Tracker {
	return &Tracker{
		target:   target,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. Empty ranges are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Pending reports whether any range is waiting to be flushed.
func (t *Tracker) Pending() bool {
	return len(t.ranges) > 0
}

// FlushDataOnly flushes every dirty range except the header page and clears
// the range list.
func (t *Tracker) FlushDataOnly(ctx context.Context) error {
	if len(t.ranges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := t.target.Bytes()
	if len(data) == 0 {
		t.ranges = t.ranges[:0]
		return nil
	}
	if err := t.flushRanges(ctx, data); err != nil {
		return err
	}
	t.ranges = t.ranges[:0]
	return nil
}

// FlushHeaderAndMeta flushes the header page and, unless mode is
// FlushDataOnly, syncs the file descriptor.
func (t *Tracker) FlushHeaderAndMeta(ctx context.Context, mode FlushMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := t.target.Bytes()
	if len(data) == 0 {
		return nil
	}
	headerLen := min(int(t.pageSize), len(data))
	if err := t.flushHeader(data[:headerLen]); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if mode == FlushDataOnly {
		return nil
	}
	return t.syncFile(mode == FlushFull)
}

// Reset clears all tracked ranges without flushing them.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Ranges returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) Ranges() []Range {
	result := make([]Range, len(t.ranges))
	copy(result, t.ranges)
	return result
}

// CoalescedRanges returns the page-aligned, merged ranges a flush would write.
func (t *Tracker) CoalescedRanges() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping or
// adjacent ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize
		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.Off+current.Len {
			end := max(current.Off+current.Len, next.Off+next.Len)
			current.Len = end - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// clip bounds r to a buffer of length n and drops the header page, reporting
// false when nothing is left.
func (t *Tracker) clip(r Range, n int) (int, int, bool) {
	start := int(max(r.Off, t.pageSize))
	end := min(int(r.Off+r.Len), n)
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}
