// Package buf contains overflow-safe range checks used before touching the
// store's backing bytes.
package buf

import (
	"math"

	"github.com/pkg/errors"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow uint64.
func AddOverflowSafe(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// CheckRange validates that [off, off+n) lies within [lo, hi). It returns the
// exclusive end offset, or an error describing the overflow or bounds failure.
//
//	end, err := buf.CheckRange(format.HeaderSize, size, addr, 8)
//	if err != nil {
//	    return errors.Wrap(ErrOutOfRange, err.Error())
//	}
func CheckRange(lo, hi, off, n uint64) (uint64, error) {
	if off < lo {
		return 0, errors.Errorf("bounds: off=%d < start=%d", off, lo)
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok {
		return 0, errors.Errorf("overflow: off=%d + n=%d", off, n)
	}
	if end > hi {
		return 0, errors.Errorf("bounds: end=%d > size=%d", end, hi)
	}
	return end, nil
}

// Slice returns the sub-slice b[off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	if n > math.MaxInt-off || off+n > len(b) {
		return nil, false
	}
	return b[off : off+n], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
