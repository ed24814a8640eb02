package dirty

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type memTarget struct {
	data []byte
	file *os.File
}

func (m *memTarget) Bytes() []byte  { return m.data }
func (m *memTarget) File() *os.File { return m.file }

func TestCoalesce_PageAlignsAndMerges(t *testing.T) {
	tr := NewTracker(&memTarget{data: make([]byte, 64*1024)})

	tr.Add(5000, 10)  // page 1
	tr.Add(4096, 1)   // page 1 again
	tr.Add(8191, 2)   // spans pages 1 and 2
	tr.Add(20480, 10) // page 5

	got := tr.CoalescedRanges()
	require.Equal(t, []Range{
		{Off: 4096, Len: 8192},
		{Off: 20480, Len: 4096},
	}, got)
}

func TestCoalesce_AdjacentRangesMerge(t *testing.T) {
	tr := NewTracker(&memTarget{data: make([]byte, 64*1024)})
	tr.Add(4096, 4096)
	tr.Add(8192, 4096)

	require.Equal(t, []Range{{Off: 4096, Len: 8192}}, tr.CoalescedRanges())
}

func TestAdd_IgnoresEmpty(t *testing.T) {
	tr := NewTracker(&memTarget{})
	tr.Add(100, 0)
	tr.Add(100, -1)
	require.False(t, tr.Pending())
	require.Nil(t, tr.CoalescedRanges())
}

func TestReset(t *testing.T) {
	tr := NewTracker(&memTarget{data: make([]byte, 8192)})
	tr.Add(4096, 16)
	require.True(t, tr.Pending())
	require.Len(t, tr.Ranges(), 1)

	tr.Reset()
	require.False(t, tr.Pending())
}

func TestFlushDataOnly_CancelledContext(t *testing.T) {
	tr := NewTracker(&memTarget{data: make([]byte, 8192)})
	tr.Add(4096, 16)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tr.FlushDataOnly(ctx)
	require.True(t, errors.Is(err, context.Canceled))
	require.True(t, tr.Pending(), "ranges must survive a cancelled flush")
}

func TestFlushHeaderAndMeta_CancelledContext(t *testing.T) {
	tr := NewTracker(&memTarget{data: make([]byte, 8192)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tr.FlushHeaderAndMeta(ctx, FlushAuto)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestFlushDataOnly_NoRanges(t *testing.T) {
	tr := NewTracker(&memTarget{})
	require.NoError(t, tr.FlushDataOnly(context.Background()))
}

func TestFlushMode_String(t *testing.T) {
	require.Equal(t, "auto", FlushAuto.String())
	require.Equal(t, "data-only", FlushDataOnly.String())
	require.Equal(t, "full", FlushFull.String())
	require.Equal(t, "unknown", FlushMode(42).String())
}

func TestClip_DropsHeaderPage(t *testing.T) {
	tr := NewTracker(&memTarget{})

	start, end, ok := tr.clip(Range{Off: 0, Len: 3 * 4096}, 16*4096)
	require.True(t, ok)
	require.Equal(t, 4096, start)
	require.Equal(t, 3*4096, end)

	_, _, ok = tr.clip(Range{Off: 0, Len: 4096}, 16*4096)
	require.False(t, ok, "header-only range has nothing left")

	start, end, ok = tr.clip(Range{Off: 8192, Len: 8192}, 12288)
	require.True(t, ok)
	require.Equal(t, 8192, start)
	require.Equal(t, 12288, end)

	_, _, ok = tr.clip(Range{Off: 16384, Len: 4096}, 12288)
	require.False(t, ok)
}
