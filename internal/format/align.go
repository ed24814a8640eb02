package format

// AlignU64 returns n rounded up to a multiple of a. a must be a power of two.
//
//	AlignU64(1, 8)  = 8
//	AlignU64(8, 8)  = 8
//	AlignU64(9, 8)  = 16
func AlignU64(n, a uint64) uint64 {
	if a <= 1 {
		return n
	}
	return (n + a - 1) & ^(a - 1)
}

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
