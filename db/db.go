package db

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/ndkit/db/dirty"
	"github.com/joshuapare/ndkit/internal/buf"
	"github.com/joshuapare/ndkit/internal/format"
)

// backing owns the bytes of a store: a file mapping, a file read into memory,
// or a plain buffer. Its length is the physical capacity.
type backing interface {
	Bytes() []byte
	File() *os.File
	resize(n int) error
	close() error
}

// DB is an open store.
type DB struct {
	path  string
	b     backing
	size  uint64 // logical end, HeaderSize + data size
	order binary.ByteOrder
	chunk uint64
	id    uuid.UUID
	opts  *Options
	log   *logrus.Logger
	dirty *dirty.Tracker // nil for in-memory stores

	closed bool
}

// Create creates a new store file at path. It fails if the file exists.
func Create(path string, opts *Options) (*DB, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if o.ReadOnly {
		return nil, errors.Wrap(ErrReadOnly, "db: create")
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "db: create")
	}
	initial := format.HeaderSize + o.ChunkSize
	if err := f.Truncate(int64(initial)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, errors.Wrap(err, "db: size new file")
	}
	b, err := openFileBacking(f, initial, false)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}

	d := newDB(path, b, o, uuid.New())
	initHeader(b.Bytes(), o, d.id)
	d.dirty.Add(0, format.HeaderSize)
	d.log.WithFields(logrus.Fields{"path": path, "id": d.id}).Debug("db: created store")
	return d, nil
}

// Open opens an existing store file. Byte order and chunk size come from the
// header; the corresponding Options fields are ignored.
func Open(path string, opts *Options) (*DB, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	flag := os.O_RDWR
	if o.ReadOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, errors.Wrap(err, "db: open")
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "db: stat")
	}
	if st.Size() < format.HeaderSize || st.Size() > math.MaxInt {
		_ = f.Close()
		return nil, errors.Wrapf(ErrBadHeader, "file size %d", st.Size())
	}
	b, err := openFileBacking(f, int(st.Size()), o.ReadOnly)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	h, err := ParseHeader(b.Bytes())
	if err != nil {
		_ = b.close()
		return nil, err
	}

	o.ByteOrder = h.Order
	o.ChunkSize = int(h.ChunkSize)
	d := newDB(path, b, o, h.ID)
	d.size = uint64(h.End())
	d.log.WithFields(logrus.Fields{
		"path":  path,
		"id":    h.ID,
		"size":  d.size,
		"clean": h.Clean(),
	}).Debug("db: opened store")
	if !h.Clean() {
		d.log.WithField("path", path).Warn("db: last flush did not complete")
	}
	return d, nil
}

// New creates an in-memory store. Flush is a no-op for it.
func New(opts *Options) (*DB, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	o.ReadOnly = false
	b := newMemBacking(format.HeaderSize + o.ChunkSize)
	d := newDB("", b, o, uuid.New())
	d.dirty = nil
	initHeader(b.Bytes(), o, d.id)
	return d, nil
}

func newDB(path string, b backing, o *Options, id uuid.UUID) *DB {
	return &DB{
		path:  path,
		b:     b,
		size:  format.HeaderSize,
		order: o.ByteOrder,
		chunk: uint64(o.ChunkSize),
		id:    id,
		opts:  o,
		log:   o.Logger,
		dirty: dirty.NewTracker(b),
	}
}

// Path returns the file path, or "" for an in-memory store.
func (d *DB) Path() string { return d.path }

// UUID returns the identity recorded in the header at creation time.
func (d *DB) UUID() uuid.UUID { return d.id }

// Order returns the store's byte order.
func (d *DB) Order() binary.ByteOrder { return d.order }

// ChunkSize returns the growth unit of the logical extent.
func (d *DB) ChunkSize() uint64 { return d.chunk }

// Size returns the logical end of the store: the first address past the data
// extent.
func (d *DB) Size() uint64 { return d.size }

// Capacity returns the physical size of the backing storage.
func (d *DB) Capacity() uint64 { return uint64(len(d.b.Bytes())) }

// ReadOnly reports whether the store rejects writes.
func (d *DB) ReadOnly() bool { return d.opts.ReadOnly }

// Header decodes the current header page.
func (d *DB) Header() (*Header, error) {
	if d.closed {
		return nil, ErrClosed
	}
	return ParseHeader(d.b.Bytes())
}

// Grow extends the data extent by at least n bytes, rounded up to the chunk
// size, and returns the start of the new zeroed range. Grow(0) returns Size()
// without growing.
func (d *DB) Grow(n uint64) (Address, error) {
	if err := d.writable(); err != nil {
		return Null, err
	}
	start := d.size
	if n == 0 {
		return Address(start), nil
	}
	n = format.AlignU64(n, d.chunk)
	end, ok := buf.AddOverflowSafe(start, n)
	if !ok || end > math.MaxInt {
		return Null, errors.Wrapf(ErrOutOfRange, "grow %d bytes at 0x%x", n, start)
	}

	if capacity := d.Capacity(); end > capacity {
		step := min(capacity, uint64(d.opts.MaxGrowStep))
		newCap := max(format.AlignU64(capacity+step, d.chunk), end)
		if err := d.b.resize(int(newCap)); err != nil {
			return Null, errors.Wrapf(err, "db: grow capacity to %d", newCap)
		}
		d.log.WithFields(logrus.Fields{"from": capacity, "to": newCap}).Debug("db: capacity grown")
	}

	data := d.b.Bytes()
	clear(data[start:end])
	d.size = end
	format.PutU64(d.order, data, format.DataSizeOffset, end-format.HeaderSize)
	d.markDirty(start, n)
	d.markDirty(0, format.HeaderSize)
	return Address(start), nil
}

// check validates [addr, addr+n) against the data extent.
func (d *DB) check(addr Address, n uint64) error {
	if d.closed {
		return ErrClosed
	}
	if n == 0 {
		if uint64(addr) > d.size {
			return errors.Wrapf(ErrOutOfRange, "empty access at %v past size 0x%x", addr, d.size)
		}
		return nil
	}
	if _, err := buf.CheckRange(format.HeaderSize, d.size, uint64(addr), n); err != nil {
		return errors.Wrap(ErrOutOfRange, err.Error())
	}
	return nil
}

func (d *DB) writable() error {
	if d.closed {
		return ErrClosed
	}
	if d.opts.ReadOnly {
		return ErrReadOnly
	}
	return nil
}

func (d *DB) markDirty(off, n uint64) {
	if d.dirty != nil {
		d.dirty.Add(int(off), int(n))
	}
}

// ReadU8 reads one byte at addr.
func (d *DB) ReadU8(addr Address) (uint8, error) {
	if err := d.check(addr, 1); err != nil {
		return 0, err
	}
	return d.b.Bytes()[addr], nil
}

// ReadU16 reads a uint16 at addr.
func (d *DB) ReadU16(addr Address) (uint16, error) {
	if err := d.check(addr, 2); err != nil {
		return 0, err
	}
	return format.ReadU16(d.order, d.b.Bytes(), int(addr)), nil
}

// ReadU32 reads a uint32 at addr.
func (d *DB) ReadU32(addr Address) (uint32, error) {
	if err := d.check(addr, 4); err != nil {
		return 0, err
	}
	return format.ReadU32(d.order, d.b.Bytes(), int(addr)), nil
}

// ReadU64 reads a uint64 at addr.
func (d *DB) ReadU64(addr Address) (uint64, error) {
	if err := d.check(addr, 8); err != nil {
		return 0, err
	}
	return format.ReadU64(d.order, d.b.Bytes(), int(addr)), nil
}

// WriteU8 writes one byte at addr.
func (d *DB) WriteU8(addr Address, v uint8) error {
	if err := d.prepareWrite(addr, 1); err != nil {
		return err
	}
	d.b.Bytes()[addr] = v
	return nil
}

// WriteU16 writes a uint16 at addr.
func (d *DB) WriteU16(addr Address, v uint16) error {
	if err := d.prepareWrite(addr, 2); err != nil {
		return err
	}
	format.PutU16(d.order, d.b.Bytes(), int(addr), v)
	return nil
}

// WriteU32 writes a uint32 at addr.
func (d *DB) WriteU32(addr Address, v uint32) error {
	if err := d.prepareWrite(addr, 4); err != nil {
		return err
	}
	format.PutU32(d.order, d.b.Bytes(), int(addr), v)
	return nil
}

// WriteU64 writes a uint64 at addr.
func (d *DB) WriteU64(addr Address, v uint64) error {
	if err := d.prepareWrite(addr, 8); err != nil {
		return err
	}
	format.PutU64(d.order, d.b.Bytes(), int(addr), v)
	return nil
}

// ReadBytes copies n bytes starting at addr into a new slice.
func (d *DB) ReadBytes(addr Address, n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "negative length %d", n)
	}
	if err := d.check(addr, uint64(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if n > 0 {
		copy(out, d.b.Bytes()[addr:])
	}
	return out, nil
}

// WriteBytes copies p into the store starting at addr.
func (d *DB) WriteBytes(addr Address, p []byte) error {
	if err := d.prepareWrite(addr, uint64(len(p))); err != nil {
		return err
	}
	if len(p) > 0 {
		copy(d.b.Bytes()[addr:], p)
	}
	return nil
}

// Zero clears n bytes starting at addr.
func (d *DB) Zero(addr Address, n uint64) error {
	if err := d.prepareWrite(addr, n); err != nil {
		return err
	}
	if n > 0 {
		clear(d.b.Bytes()[addr : uint64(addr)+n])
	}
	return nil
}

// Bytes returns the backing bytes [addr, addr+n) without copying. The slice
// is only valid until the next Grow. Writes through it are not tracked for
// Flush; callers that modify it must use WriteBytes instead.
func (d *DB) Bytes(addr Address, n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "negative length %d", n)
	}
	if err := d.check(addr, uint64(n)); err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	return d.b.Bytes()[addr : uint64(addr)+uint64(n) : uint64(addr)+uint64(n)], nil
}

func (d *DB) prepareWrite(addr Address, n uint64) error {
	if err := d.writable(); err != nil {
		return err
	}
	if err := d.check(addr, n); err != nil {
		return err
	}
	d.markDirty(uint64(addr), n)
	return nil
}

// PoolCount returns the number of pool table entries in use, including the
// unused entry 0.
func (d *DB) PoolCount() int {
	if d.closed {
		return 0
	}
	return int(format.ReadU16(d.order, d.b.Bytes(), format.PoolCountOffset))
}

// PoolName returns the name recorded for pool i, or "" if none is.
func (d *DB) PoolName(i int) string {
	if i <= 0 || i >= d.PoolCount() {
		return ""
	}
	return readPoolName(d.b.Bytes(), i)
}

// SetPoolName records name for pool i and raises the pool count to cover it.
func (d *DB) SetPoolName(i int, name string) error {
	if err := d.writable(); err != nil {
		return err
	}
	if i <= 0 || i >= format.MaxPools {
		return errors.Errorf("db: pool index %d out of range 1..%d", i, format.MaxPools-1)
	}
	if len(name) > format.PoolNameMax {
		return errors.Errorf("db: pool name %q longer than %d bytes", name, format.PoolNameMax)
	}
	data := d.b.Bytes()
	off := poolEntryOffset(i)
	entry := data[off : off+format.PoolEntrySize]
	clear(entry)
	copy(entry, name)
	if i >= d.PoolCount() {
		format.PutU16(d.order, data, format.PoolCountOffset, uint16(i+1))
	}
	d.markDirty(0, format.HeaderSize)
	return nil
}

// Flush writes dirty ranges and the header to the file. The primary sequence
// number is bumped and the header synced before the data is written; the
// secondary is set to match once the data is down, so a reader that finds
// them unequal knows the last flush did not finish.
func (d *DB) Flush(ctx context.Context) error {
	if d.closed {
		return ErrClosed
	}
	if d.dirty == nil || d.opts.ReadOnly {
		return nil
	}
	if !d.dirty.Pending() {
		return nil
	}

	data := d.b.Bytes()
	seq := format.ReadU32(d.order, data, format.PrimarySeqOffset) + 1
	format.PutU32(d.order, data, format.PrimarySeqOffset, seq)
	format.PutU64(d.order, data, format.TimestampOffset, uint64(time.Now().UnixNano()))
	if err := d.dirty.FlushHeaderAndMeta(ctx, dirty.FlushDataOnly); err != nil {
		return errors.Wrap(err, "db: flush header")
	}

	if err := d.dirty.FlushDataOnly(ctx); err != nil {
		return errors.Wrap(err, "db: flush data")
	}

	format.PutU32(d.order, data, format.SecondarySeqOffset, seq)
	if err := d.dirty.FlushHeaderAndMeta(ctx, d.opts.FlushMode); err != nil {
		return errors.Wrap(err, "db: flush header")
	}
	d.log.WithFields(logrus.Fields{"seq": seq, "mode": d.opts.FlushMode}).Debug("db: flushed")
	return nil
}

// Close flushes a writable file store and releases its backing. Calling Close
// more than once returns ErrClosed.
func (d *DB) Close() error {
	if d.closed {
		return ErrClosed
	}
	flushErr := d.Flush(context.Background())
	d.closed = true
	closeErr := d.b.close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
