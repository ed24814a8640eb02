package alloc

import "math"

// SizeClassConfig defines how block sizes map to free-list classes.
type SizeClassConfig struct {
	// Name for this configuration (for stats output)
	Name string

	// Small block settings (linear increments)
	SmallMin       uint32 // Smallest block size (at least format.MinBlockSize)
	SmallMax       uint32 // Max for linear increments
	SmallIncrement uint32 // Increment between small classes

	// Medium block settings (geometric growth)
	MediumMax    uint32  // Blocks above this go to the large list
	GrowthFactor float64 // Ratio between consecutive medium classes
}

// Predefined configurations.
var (
	// ConfigFineGrained has many small classes: 16-256 step 8, then x1.5 to 16K.
	ConfigFineGrained = SizeClassConfig{
		Name:           "FineGrained",
		SmallMin:       16,
		SmallMax:       256,
		SmallIncrement: 8,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// ConfigBalanced trades some internal fragmentation for fewer heaps:
	// 16-512 step 16, then x1.5 to 16K.
	ConfigBalanced = SizeClassConfig{
		Name:           "Balanced",
		SmallMin:       16,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// ConfigCoarse has few classes: 16-512 step 32, then x2 to 16K.
	ConfigCoarse = SizeClassConfig{
		Name:           "Coarse",
		SmallMin:       16,
		SmallMax:       512,
		SmallIncrement: 32,
		MediumMax:      16384,
		GrowthFactor:   2.0,
	}

	// ConfigRecords suits stores dominated by small fixed-size records and
	// short blobs: 16-128 step 8, then x1.3 to 16K.
	ConfigRecords = SizeClassConfig{
		Name:           "Records",
		SmallMin:       16,
		SmallMax:       128,
		SmallIncrement: 8,
		MediumMax:      16384,
		GrowthFactor:   1.3,
	}

	// DefaultConfig is used when Config.SizeClasses is left empty.
	DefaultConfig = ConfigBalanced
)

// sizeClassTable holds the computed size class boundaries.
type sizeClassTable struct {
	config     SizeClassConfig
	boundaries []uint32 // inclusive upper bound of each class
	numClasses int
}

func newSizeClassTable(config SizeClassConfig) *sizeClassTable {
	table := &sizeClassTable{
		config:     config,
		boundaries: make([]uint32, 0, 64),
	}

	for size := config.SmallMin; size < config.SmallMax; size += config.SmallIncrement {
		table.boundaries = append(table.boundaries, size+config.SmallIncrement-1)
	}

	if config.SmallMax < config.MediumMax {
		size := config.SmallMax
		for size < config.MediumMax {
			next := uint32(math.Ceil(float64(size) * config.GrowthFactor))
			if next <= size {
				next = size + 1
			}
			table.boundaries = append(table.boundaries, next-1)
			size = next
		}
	}

	table.numClasses = len(table.boundaries)
	return table
}

// classOf returns the class index for a block size, or numClasses for the
// large list.
func (t *sizeClassTable) classOf(size uint64) int {
	lo, hi := 0, t.numClasses-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if size <= uint64(t.boundaries[mid]) {
			if mid == 0 || size > uint64(t.boundaries[mid-1]) {
				return mid
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return t.numClasses
}

func (t *sizeClassTable) String() string {
	return t.config.Name
}

// valid reports whether the config can produce a usable table.
func (c SizeClassConfig) valid() bool {
	return c.SmallIncrement > 0 && c.SmallMin > 0 && c.SmallMin <= c.SmallMax &&
		c.SmallMax <= c.MediumMax && c.GrowthFactor > 1
}
