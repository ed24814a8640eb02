package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeClassTable_Monotonic(t *testing.T) {
	for _, cfg := range []SizeClassConfig{ConfigFineGrained, ConfigBalanced, ConfigCoarse, ConfigRecords} {
		t.Run(cfg.Name, func(t *testing.T) {
			require.True(t, cfg.valid())
			table := newSizeClassTable(cfg)
			require.Positive(t, table.numClasses)
			for i := 1; i < table.numClasses; i++ {
				require.Greater(t, table.boundaries[i], table.boundaries[i-1])
			}
			require.Equal(t, cfg.Name, table.String())
		})
	}
}

func TestSizeClassTable_ClassOf(t *testing.T) {
	table := newSizeClassTable(ConfigBalanced)

	require.Equal(t, 0, table.classOf(16))
	require.Equal(t, 0, table.classOf(31))
	require.Equal(t, 1, table.classOf(32))
	require.Equal(t, table.numClasses, table.classOf(1<<20), "large list")

	prev := 0
	for size := uint64(16); size <= 20000; size += 8 {
		sc := table.classOf(size)
		require.GreaterOrEqual(t, sc, prev)
		if sc < table.numClasses {
			require.LessOrEqual(t, size, uint64(table.boundaries[sc]))
		}
		prev = sc
	}
}
