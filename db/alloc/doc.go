// Package alloc carves a db store into blocks and manages them in pools.
//
// # Blocks
//
// Every block starts with an 8-byte header (see internal/format) followed by
// the payload. The address handed to callers is the payload start. Blocks are
// 8-byte aligned, at least 16 bytes long, never overlap, and together cover
// the store's data extent from HeaderSize to Size exactly. Because the chain
// is self-describing, New rebuilds all allocator state from the store when a
// file is reopened.
//
// # Pools
//
// A pool is a separate set of free lists. A request for pool P is only ever
// satisfied from P's free blocks or from freshly grown space, and adjacent
// free blocks are only merged when they belong to the same pool. Pools 1 to 3
// are predefined (PoolMisc, PoolString, PoolRecord); DefinePool names more,
// and the names are kept in the store header.
//
// # Free lists
//
// Each pool keeps one min-heap per size class, keyed on block size, plus a
// large list for blocks above the configured medium maximum. Malloc takes the
// best fit in the class of the request and otherwise the smallest block of
// the next non-empty class. A block is split when the remainder can hold a
// minimum-size block.
//
// # Growth
//
// On a miss the store is grown by the request rounded up to the store's chunk
// size. The new range becomes a free block of the requesting pool, merged with
// a free block of that pool ending where the range begins, and the search is
// retried.
//
// Payloads are zeroed on every allocation, whether carved from growth or
// recycled from a free list.
//
// # Debugging
//
// Set NDKIT_LOG_ALLOC=1 to log growth, splits and merges at Debug.
//
// The allocator is not thread-safe.
package alloc
