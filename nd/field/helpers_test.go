package field

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/internal/logger"
)

// testMem is a Memory over an in-memory store.
type testMem struct {
	*db.DB
	a *alloc.Allocator
}

func (m *testMem) Malloc(size uint64, pool alloc.Pool) (db.Address, error) {
	return m.a.Malloc(size, pool)
}

func (m *testMem) Free(addr db.Address, pool alloc.Pool) error {
	return m.a.Free(addr, pool)
}

func newTestMem(t *testing.T) *testMem {
	t.Helper()
	o := db.DefaultOptions()
	o.Logger = logger.Discard()
	s, err := db.New(o)
	require.NoError(t, err)
	a, err := alloc.New(s, &alloc.Config{Logger: logger.Discard()})
	require.NoError(t, err)
	return &testMem{DB: s, a: a}
}

func mustSeal(t *testing.T, d *StructDef) *StructDef {
	t.Helper()
	require.NoError(t, d.Done())
	return d
}

func newRecord(t *testing.T, m *testMem, d *StructDef) db.Address {
	t.Helper()
	addr, err := m.Malloc(d.Size(), alloc.PoolRecord)
	require.NoError(t, err)
	return addr
}
