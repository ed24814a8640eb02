package format

import "encoding/binary"

// A store picks its byte order once, at creation, and records it in the header
// flag byte. Everything after the flag is decoded with that order, so the
// helpers here take the order explicitly instead of assuming little endian.

// OrderFromFlag maps a header flag byte to a byte order.
func OrderFromFlag(flag byte) (binary.ByteOrder, bool) {
	switch flag {
	case OrderLittle:
		return binary.LittleEndian, true
	case OrderBig:
		return binary.BigEndian, true
	default:
		return nil, false
	}
}

// FlagFromOrder is the inverse of OrderFromFlag. Anything that is not big
// endian is recorded as little endian.
func FlagFromOrder(order binary.ByteOrder) byte {
	if order == binary.BigEndian {
		return OrderBig
	}
	return OrderLittle
}

// PutU16 writes v at b[off:off+2].
func PutU16(order binary.ByteOrder, b []byte, off int, v uint16) {
	order.PutUint16(b[off:off+2], v)
}

// PutU32 writes v at b[off:off+4].
func PutU32(order binary.ByteOrder, b []byte, off int, v uint32) {
	order.PutUint32(b[off:off+4], v)
}

// PutU64 writes v at b[off:off+8].
func PutU64(order binary.ByteOrder, b []byte, off int, v uint64) {
	order.PutUint64(b[off:off+8], v)
}

// ReadU16 reads a uint16 at b[off:off+2].
func ReadU16(order binary.ByteOrder, b []byte, off int) uint16 {
	return order.Uint16(b[off : off+2])
}

// ReadU32 reads a uint32 at b[off:off+4].
func ReadU32(order binary.ByteOrder, b []byte, off int) uint32 {
	return order.Uint32(b[off : off+4])
}

// ReadU64 reads a uint64 at b[off:off+8].
func ReadU64(order binary.ByteOrder, b []byte, off int) uint64 {
	return order.Uint64(b[off : off+8])
}
