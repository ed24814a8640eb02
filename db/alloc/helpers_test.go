package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/internal/logger"
)

func newTestStore(t testing.TB) *db.DB {
	t.Helper()
	o := db.DefaultOptions()
	o.Logger = logger.Discard()
	s, err := db.New(o)
	require.NoError(t, err)
	return s
}

func newTestAllocator(t testing.TB) (*Allocator, *db.DB) {
	t.Helper()
	s := newTestStore(t)
	a, err := New(s, &Config{Logger: logger.Discard()})
	require.NoError(t, err)
	return a, s
}

// mustMalloc allocates and fails the test on error.
func mustMalloc(t testing.TB, a *Allocator, size uint64, p Pool) db.Address {
	t.Helper()
	addr, err := a.Malloc(size, p)
	require.NoError(t, err)
	return addr
}

// fill writes a recognizable pattern over the first n bytes at addr.
func fill(t testing.TB, s *db.DB, addr db.Address, n int, seed byte) {
	t.Helper()
	p := make([]byte, n)
	for i := range p {
		p[i] = seed + byte(i)
	}
	require.NoError(t, s.WriteBytes(addr, p))
}

func checkFill(t testing.TB, s *db.DB, addr db.Address, n int, seed byte) {
	t.Helper()
	got, err := s.ReadBytes(addr, n)
	require.NoError(t, err)
	for i, c := range got {
		require.Equal(t, seed+byte(i), c, "byte %d at %v", i, addr)
	}
}
