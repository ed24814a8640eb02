package nd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/internal/logger"
	"github.com/joshuapare/ndkit/nd/field"
)

// schemas is a two-level test hierarchy: node{name, next} <- leaf{weight, blob}.
type schemas struct {
	node   *field.StructDef
	name   *field.String
	next   *field.Pointer
	leaf   *field.StructDef
	weight *field.Int
	blob   *field.Pointer
}

func buildSchemas(t *testing.T) *schemas {
	t.Helper()
	s := &schemas{}
	var err error

	s.node, err = field.Create("node", nil)
	require.NoError(t, err)
	s.name, err = s.node.AddString("name", alloc.PoolString)
	require.NoError(t, err)
	s.next, err = s.node.AddPointer("next", field.Referencing)
	require.NoError(t, err)
	require.NoError(t, s.node.Done())

	s.leaf, err = field.Create("leaf", s.node)
	require.NoError(t, err)
	s.weight, err = s.leaf.AddInt("weight")
	require.NoError(t, err)
	s.blob, err = s.leaf.AddPointer("blob", field.Owns(alloc.PoolMisc))
	require.NoError(t, err)
	require.NoError(t, s.leaf.Done())
	return s
}

func registerAll(t *testing.T, s *schemas) *Registry {
	t.Helper()
	reg := NewRegistry()
	_, err := reg.Register(s.node)
	require.NoError(t, err)
	_, err = reg.Register(s.leaf)
	require.NoError(t, err)
	return reg
}

func quiet() *Options {
	return &Options{Logger: logger.Discard()}
}

func newMemory(t *testing.T) (*Nd, *schemas) {
	t.Helper()
	s := buildSchemas(t)
	n, err := NewMemory(registerAll(t, s), quiet())
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Close() })
	return n, s
}
