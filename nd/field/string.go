package field

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/internal/format"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// String is an owning pointer to a string block:
//
//	0x00 u32 encoded length in bytes
//	0x04 u8  encoding (Latin-1 or UTF-16LE)
//	0x05 3 bytes padding
//	0x08 encoded bytes
//
// Strings whose runes all fit in one byte are stored as Latin-1, anything
// else as UTF-16LE. The empty string is stored as db.Null.
type String struct {
	slot
	pool alloc.Pool
}

// Pool returns the pool string blocks are allocated from.
func (f *String) Pool() alloc.Pool { return f.pool }

// Block returns the address of the string block, or db.Null.
func (f *String) Block(s Reader, base db.Address) (db.Address, error) {
	v, err := s.ReadU64(f.at(base))
	return db.Address(v), err
}

// Get decodes the string of the record at base.
func (f *String) Get(s Reader, base db.Address) (string, error) {
	block, err := f.Block(s, base)
	if err != nil || block.IsNull() {
		return "", err
	}
	n, err := s.ReadU32(block + format.StringLengthOffset)
	if err != nil {
		return "", err
	}
	enc, err := s.ReadU8(block + format.StringEncodingOffset)
	if err != nil {
		return "", err
	}
	raw, err := s.ReadBytes(block+format.StringHeaderSize, int(n))
	if err != nil {
		return "", err
	}
	return decodeString(enc, raw)
}

// Put replaces the string of the record at base, freeing the previous block.
func (f *String) Put(m Memory, base db.Address, v string) error {
	if err := f.release(m, base); err != nil {
		return err
	}
	if v == "" {
		return nil
	}
	enc, raw, err := encodeString(v)
	if err != nil {
		return errors.Wrapf(err, "field: encode %s", f.name)
	}
	block, err := m.Malloc(uint64(format.StringHeaderSize+len(raw)), f.pool)
	if err != nil {
		return err
	}
	if err := f.fill(m, base, block, enc, raw); err != nil {
		if ferr := m.Free(block, f.pool); ferr != nil {
			return errors.Wrapf(err, "field: free %s block after failed write: %v", f.name, ferr)
		}
		return err
	}
	return nil
}

// fill writes a freshly allocated string block and links it into the record.
func (f *String) fill(m Memory, base, block db.Address, enc uint8, raw []byte) error {
	if err := m.WriteU32(block+format.StringLengthOffset, uint32(len(raw))); err != nil {
		return err
	}
	if err := m.WriteU8(block+format.StringEncodingOffset, enc); err != nil {
		return err
	}
	if err := m.WriteBytes(block+format.StringHeaderSize, raw); err != nil {
		return err
	}
	return m.WriteU64(f.at(base), uint64(block))
}

// Free releases the string block of the record at base and clears the field.
func (f *String) Free(m Memory, base db.Address) error {
	return f.release(m, base)
}

func (f *String) release(m Memory, base db.Address) error {
	block, err := f.Block(m, base)
	if err != nil || block.IsNull() {
		return err
	}
	if err := m.Free(block, f.pool); err != nil {
		return err
	}
	return m.WriteU64(f.at(base), uint64(db.Null))
}

func encodeString(v string) (uint8, []byte, error) {
	if !utf8.ValidString(v) {
		return 0, nil, errors.New("invalid UTF-8")
	}
	latin1 := true
	for _, r := range v {
		if r > 0xFF {
			latin1 = false
			break
		}
	}
	if latin1 {
		raw, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(v))
		return format.StringLatin1, raw, err
	}
	raw, err := utf16le.NewEncoder().Bytes([]byte(v))
	return format.StringUTF16, raw, err
}

func decodeString(enc uint8, raw []byte) (string, error) {
	switch enc {
	case format.StringLatin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		return string(out), err
	case format.StringUTF16:
		out, err := utf16le.NewDecoder().Bytes(raw)
		return string(out), err
	default:
		return "", errors.Errorf("field: unknown string encoding %d", enc)
	}
}
