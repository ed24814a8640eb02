package db

import "os"

// memBacking holds an in-memory store.
type memBacking struct {
	data []byte
}

func newMemBacking(n int) *memBacking {
	return &memBacking{data: make([]byte, n)}
}

func (m *memBacking) Bytes() []byte  { return m.data }
func (m *memBacking) File() *os.File { return nil }

func (m *memBacking) resize(n int) error {
	grown := make([]byte, n)
	copy(grown, m.data)
	m.data = grown
	return nil
}

func (m *memBacking) close() error {
	m.data = nil
	return nil
}
