// Package dirty tracks modified byte ranges of a mapped store file and
// flushes them to stable storage.
//
// The store records every write with Add. At flush time the tracker
// page-aligns the ranges, merges overlapping and adjacent ones, and hands the
// result to the platform flusher: msync on Linux and FreeBSD, a whole-mapping
// msync plus optional F_FULLFSYNC on macOS, and plain WriteAt + Sync where the
// store is held in memory instead of mapped.
//
// # Flush ordering
//
// The header page (offset 0) is excluded from FlushDataOnly so the caller can
// write the header after the data it describes:
//
//	if err := t.FlushDataOnly(ctx); err != nil {
//	    return err
//	}
//	// update sequence numbers in the header page...
//	t.Add(0, format.HeaderSize)
//	return t.FlushHeaderAndMeta(ctx, dirty.FlushAuto)
//
// Tracker is not thread-safe. The engine only flushes while holding its
// write lock.
package dirty
