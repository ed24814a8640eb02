package nd

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ndkit/nd/field"
)

func TestRegistry_AssignsSequentialIDs(t *testing.T) {
	s := buildSchemas(t)
	reg := registerAll(t, s)

	node, ok := reg.ByName("node")
	require.True(t, ok)
	leaf, ok := reg.ByName("leaf")
	require.True(t, ok)
	assert.Equal(t, TypeID(1), node.ID)
	assert.Equal(t, TypeID(2), leaf.ID)
	assert.Equal(t, "", node.Parent)
	assert.Equal(t, "node", leaf.Parent)

	byID, ok := reg.ByID(2)
	require.True(t, ok)
	assert.Same(t, s.leaf, byID.Def)
	assert.Equal(t, 2, reg.Len())

	types := reg.Types()
	require.Len(t, types, 2)
	assert.Equal(t, "node", types[0].Name)

	kids := reg.Children(s.node)
	require.Len(t, kids, 1)
	assert.Equal(t, "leaf", kids[0].Name)
	assert.Empty(t, reg.Children(s.leaf))
}

func TestRegistry_TypeOfNeedsSameInstance(t *testing.T) {
	s := buildSchemas(t)
	reg := registerAll(t, s)

	id, ok := reg.TypeOf(s.leaf)
	require.True(t, ok)
	assert.Equal(t, TypeID(2), id)

	lookalike, err := field.Create("leaf", nil)
	require.NoError(t, err)
	require.NoError(t, lookalike.Done())
	_, ok = reg.TypeOf(lookalike)
	assert.False(t, ok)
	_, ok = reg.TypeOf(nil)
	assert.False(t, ok)
}

func TestRegistry_Rejects(t *testing.T) {
	s := buildSchemas(t)

	t.Run("parent first", func(t *testing.T) {
		reg := NewRegistry()
		_, err := reg.Register(s.leaf)
		assert.True(t, errors.Is(err, ErrUnregistered))
	})

	t.Run("duplicate name", func(t *testing.T) {
		reg := registerAll(t, s)
		_, err := reg.Register(s.node)
		assert.True(t, errors.Is(err, ErrDuplicateType))
	})

	t.Run("unsealed", func(t *testing.T) {
		open, err := field.Create("open", nil)
		require.NoError(t, err)
		_, err = NewRegistry().Register(open)
		assert.True(t, errors.Is(err, field.ErrNotSealed))
	})

	t.Run("frozen", func(t *testing.T) {
		reg := NewRegistry()
		reg.Freeze()
		assert.True(t, reg.Frozen())
		_, err := reg.Register(s.node)
		assert.True(t, errors.Is(err, ErrRegistryFrozen))
		assert.Panics(t, func() { reg.MustRegister(s.node) })
	})

	t.Run("nil", func(t *testing.T) {
		_, err := NewRegistry().Register(nil)
		assert.Error(t, err)
	})
}

func TestRegistry_FrozenByEngine(t *testing.T) {
	s := buildSchemas(t)
	reg := registerAll(t, s)
	n, err := NewMemory(reg, quiet())
	require.NoError(t, err)
	defer n.Close()

	assert.True(t, reg.Frozen())
	assert.Same(t, reg, n.Registry())
}
