// Package db implements the byte store underneath an ndkit database: one
// growable, addressable extent of bytes with a fixed header page in front.
//
// A store is either backed by a file, mapped read-write where the platform
// supports mmap and read into memory elsewhere, or held purely in memory
// (see New). All multi-byte values use the byte order recorded in the header
// at creation time.
//
// # Addresses
//
// An Address is an absolute byte offset. Null (0) is never a valid
// allocation start, nor is any offset inside the header page, so every
// fixed-width access below HeaderSize fails with ErrOutOfRange. Addresses stay
// valid across Grow even when the backing mapping moves; slices returned by
// Bytes do not.
//
// # Growth
//
// Grow extends the logical extent in chunk multiples and zeroes the new range.
// Physical capacity is grown geometrically (doubling, with a capped step) so a
// store that is grown a chunk at a time is only remapped O(log n) times.
//
// # Thread safety
//
// DB is not safe for concurrent use. The nd engine serializes access with its
// own reader/writer lock.
package db
