package java

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/internal/logger"
	"github.com/joshuapare/ndkit/nd"
)

func newEngine(t *testing.T) (*nd.Nd, *Layouts) {
	t.Helper()
	reg := nd.NewRegistry()
	ls, err := Register(reg)
	require.NoError(t, err)
	n, err := nd.NewMemory(reg, &nd.Options{Logger: logger.Discard()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Close() })
	return n, ls
}

func liveBlocks(n *nd.Nd, p alloc.Pool) int {
	return n.Stats().Pools[p].LiveBlocks
}

func liveBytes(n *nd.Nd) uint64 {
	return n.Stats().Total.LiveBytes
}

// failingWrites rejects byte writes so the error paths after a Malloc run.
type failingWrites struct {
	*nd.Writer
}

func (failingWrites) WriteBytes(db.Address, []byte) error {
	return errors.New("write rejected")
}
