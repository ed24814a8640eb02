package java

import (
	"bytes"
	"math/rand"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/nd"
)

func TestTypeAnnotation_PathLifecycle(t *testing.T) {
	n, ls := newEngine(t)
	before := liveBytes(n)

	require.NoError(t, n.Update(func(w *nd.Writer) error {
		ta, err := ls.NewTypeAnnotation(w)
		require.NoError(t, err)

		require.NoError(t, ta.SetTargetInfo(0x12, 0x34))
		require.NoError(t, ta.SetPath([]byte{0x01, 0x02, 0x03}))

		path, err := ta.TypePath()
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01, 0x02, 0x03}, path)

		blob, err := ls.TypeAnnotation.Path.Get(n, ta.Address())
		require.NoError(t, err)
		require.True(t, n.Allocator().Live(blob))

		require.NoError(t, ta.SetPath(nil))
		path, err = ta.TypePath()
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.False(t, n.Allocator().Live(blob), "old blob must be freed")
		assert.Equal(t, 0, liveBlocks(n, alloc.PoolMisc))

		require.NoError(t, ta.Destruct())
		assert.Equal(t, 0, liveBlocks(n, alloc.PoolMisc))
		assert.Equal(t, 0, liveBlocks(n, alloc.PoolString))
		return ta.Delete()
	}))

	assert.Equal(t, before, liveBytes(n))
	require.NoError(t, n.Verify())
}

func TestTypeAnnotation_Target(t *testing.T) {
	n, ls := newEngine(t)

	require.NoError(t, n.Update(func(w *nd.Writer) error {
		ta, err := ls.NewTypeAnnotation(w)
		require.NoError(t, err)

		require.NoError(t, ta.SetTargetType(TargetMethodFormalParameter))
		require.NoError(t, ta.SetTargetInfo(0x12, 0x34))

		tt, err := ta.TargetType()
		require.NoError(t, err)
		assert.EqualValues(t, TargetMethodFormalParameter, tt)

		target, err := ta.Target()
		require.NoError(t, err)
		assert.Equal(t, uint16(0x1234), target)

		require.NoError(t, ta.SetTarget(0xABCD))
		a0, err := ta.TargetArg0()
		require.NoError(t, err)
		a1, err := ta.TargetArg1()
		require.NoError(t, err)
		assert.Equal(t, uint8(0xAB), a0)
		assert.Equal(t, uint8(0xCD), a1)
		return nil
	}))
}

func TestTypeAnnotation_PathRoundTrip(t *testing.T) {
	n, ls := newEngine(t)
	rng := rand.New(rand.NewSource(7))
	baseline := liveBlocks(n, alloc.PoolMisc)

	require.NoError(t, n.Update(func(w *nd.Writer) error {
		ta, err := ls.NewTypeAnnotation(w)
		require.NoError(t, err)

		for _, size := range []int{0, 1, 2, 7, 8, 9, 64, 254, 255} {
			want := make([]byte, size)
			rng.Read(want)
			require.NoError(t, ta.SetPath(want))

			got, err := ta.TypePath()
			require.NoError(t, err)
			assert.True(t, bytes.Equal(want, got), "size %d", size)

			n2 := liveBlocks(n, alloc.PoolMisc) - baseline
			if size == 0 {
				assert.Equal(t, 0, n2)
			} else {
				assert.Equal(t, 1, n2, "only the current blob may be live")
			}
		}

		require.NoError(t, ta.Destruct())
		assert.Equal(t, baseline, liveBlocks(n, alloc.PoolMisc))
		return nil
	}))
}

func TestTypeAnnotation_PathTooLong(t *testing.T) {
	n, ls := newEngine(t)

	require.NoError(t, n.Update(func(w *nd.Writer) error {
		ta, err := ls.NewTypeAnnotation(w)
		require.NoError(t, err)
		require.NoError(t, ta.SetPath([]byte{9}))

		err = ta.SetPath(make([]byte, 256))
		require.True(t, errors.Is(err, ErrPathTooLong))

		// The existing path is untouched.
		got, err := ta.TypePath()
		require.NoError(t, err)
		assert.Equal(t, []byte{9}, got)
		return nil
	}))
}

func TestTypeAnnotation_FreshRecordHasNullPath(t *testing.T) {
	n, ls := newEngine(t)

	require.NoError(t, n.Update(func(w *nd.Writer) error {
		ta, err := ls.NewTypeAnnotation(w)
		require.NoError(t, err)

		blob, err := ls.TypeAnnotation.Path.Get(n, ta.Address())
		require.NoError(t, err)
		assert.Equal(t, db.Null, blob)

		got, err := ta.TypePath()
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
		assert.Equal(t, reflect.ValueOf(noTypePath).Pointer(), reflect.ValueOf(got).Pointer(), "shared empty path")
		return nil
	}))
}

func TestTypeAnnotation_DestructFreesBothLevels(t *testing.T) {
	n, ls := newEngine(t)
	var misc, str alloc.PoolStats

	require.NoError(t, n.Update(func(w *nd.Writer) error {
		ta, err := ls.NewTypeAnnotation(w)
		require.NoError(t, err)
		require.NoError(t, ta.SetTypeName("Ljava/lang/Deprecated;"))
		require.NoError(t, ta.SetPath([]byte{0, 1, 2, 3}))

		misc = n.Allocator().PoolStats(alloc.PoolMisc)
		str = n.Allocator().PoolStats(alloc.PoolString)
		require.Equal(t, 1, misc.LiveBlocks)
		require.Equal(t, 1, str.LiveBlocks)

		require.NoError(t, ta.Destruct())
		return nil
	}))

	gotMisc := n.Allocator().PoolStats(alloc.PoolMisc)
	gotStr := n.Allocator().PoolStats(alloc.PoolString)
	assert.Equal(t, 0, gotMisc.LiveBlocks)
	assert.Equal(t, 0, gotStr.LiveBlocks)
	assert.Equal(t, misc.Frees+1, gotMisc.Frees, "path freed exactly once")
	assert.Equal(t, str.Frees+1, gotStr.Frees, "type name freed exactly once")
	require.NoError(t, n.Verify())
}

func TestDelete_ThroughParentView(t *testing.T) {
	n, ls := newEngine(t)

	require.NoError(t, n.Update(func(w *nd.Writer) error {
		ta, err := ls.NewTypeAnnotation(w)
		require.NoError(t, err)
		require.NoError(t, ta.SetTypeName("LA;"))
		require.NoError(t, ta.SetPath([]byte{1, 2}))

		a, err := ls.AttachAnnotation(w, ta.Address())
		require.NoError(t, err)
		return a.Delete()
	}))

	assert.Zero(t, liveBytes(n), "the path is freed even through the parent view")
	require.NoError(t, n.Verify())
}

func TestAnnotation_TypeName(t *testing.T) {
	n, ls := newEngine(t)
	var addr db.Address

	require.NoError(t, n.Update(func(w *nd.Writer) error {
		a, err := ls.NewAnnotation(w)
		require.NoError(t, err)
		require.NoError(t, a.SetTypeName("Landroidx/annotation/Nullable;"))
		require.NoError(t, a.SetTypeName("Ljavax/annotation/Nonnull;"))
		addr = a.Address()
		return nil
	}))
	assert.Equal(t, 1, liveBlocks(n, alloc.PoolString))

	require.NoError(t, n.View(func() error {
		a, err := ls.AttachAnnotation(n, addr)
		require.NoError(t, err)
		name, err := a.TypeName()
		require.NoError(t, err)
		assert.Equal(t, "Ljavax/annotation/Nonnull;", name)
		return nil
	}))
}

func TestAttach_Hierarchy(t *testing.T) {
	n, ls := newEngine(t)
	var plain, typed db.Address

	require.NoError(t, n.Update(func(w *nd.Writer) error {
		a, err := ls.NewAnnotation(w)
		require.NoError(t, err)
		plain = a.Address()

		ta, err := ls.NewTypeAnnotation(w)
		require.NoError(t, err)
		require.NoError(t, ta.SetTypeName("LA;"))
		typed = ta.Address()
		return nil
	}))

	require.NoError(t, n.View(func() error {
		_, err := ls.AttachTypeAnnotation(n, plain)
		assert.True(t, errors.Is(err, nd.ErrCorruptLayout))

		// A TypeAnnotation is also an Annotation, and the parent's view
		// reads the same bytes.
		a, err := ls.AttachAnnotation(n, typed)
		require.NoError(t, err)
		name, err := a.TypeName()
		require.NoError(t, err)
		assert.Equal(t, "LA;", name)

		rec, err := n.Resolve(typed)
		require.NoError(t, err)
		assert.Same(t, ls.TypeAnnotation.Def, rec.Schema())
		return nil
	}))
}

func TestMutationOutsideUpdate(t *testing.T) {
	n, ls := newEngine(t)
	var ta *TypeAnnotation

	require.NoError(t, n.Update(func(w *nd.Writer) error {
		var err error
		ta, err = ls.NewTypeAnnotation(w)
		return err
	}))

	// The writer that created the record is gone.
	assert.True(t, errors.Is(ta.SetPath([]byte{1}), nd.ErrNotWriting))
	assert.True(t, errors.Is(ta.SetTargetInfo(1, 2), nd.ErrNotWriting))

	// Records attached through the engine never write.
	ro, err := ls.AttachTypeAnnotation(n, ta.Address())
	require.NoError(t, err)
	assert.True(t, errors.Is(ro.SetTypeName("LA;"), nd.ErrNotWriting))
	assert.True(t, errors.Is(ro.Delete(), nd.ErrNotWriting))
	assert.Equal(t, 0, liveBlocks(n, alloc.PoolString))
}

func TestTypeAnnotation_FailedPathWriteFreesBlob(t *testing.T) {
	n, ls := newEngine(t)

	require.NoError(t, n.Update(func(w *nd.Writer) error {
		ta, err := ls.NewTypeAnnotation(w)
		require.NoError(t, err)
		require.NoError(t, ta.SetPath([]byte{1, 2}))
		misc := liveBlocks(n, alloc.PoolMisc)

		err = ls.TypeAnnotation.setPath(failingWrites{w}, ta.Address(), []byte{3, 4, 5})
		require.Error(t, err)
		assert.Equal(t, misc-1, liveBlocks(n, alloc.PoolMisc), "old and new blob both released")

		got, err := ta.TypePath()
		require.NoError(t, err)
		assert.Empty(t, got)
		return ta.Delete()
	}))

	assert.Zero(t, liveBytes(n))
	require.NoError(t, n.Verify())
}

func TestRegister_Layout(t *testing.T) {
	reg := nd.NewRegistry()
	ls, err := Register(reg)
	require.NoError(t, err)

	a, ok := reg.ByName("Annotation")
	require.True(t, ok)
	ta, ok := reg.ByName("TypeAnnotation")
	require.True(t, ok)
	assert.Equal(t, "Annotation", ta.Parent)
	assert.Less(t, a.ID, ta.ID)

	assert.Equal(t, uint64(0), ls.Annotation.TypeName.Offset())
	assert.Equal(t, ls.Annotation.Def.Size(), ls.TypeAnnotation.TargetType.Offset())
	assert.Zero(t, ls.TypeAnnotation.Path.Offset()%8)

	_, err = Register(reg)
	assert.True(t, errors.Is(err, nd.ErrDuplicateType))
}
