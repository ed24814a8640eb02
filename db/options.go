package db

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/ndkit/db/dirty"
	"github.com/joshuapare/ndkit/internal/format"
	"github.com/joshuapare/ndkit/internal/logger"
)

const (
	// DefaultMaxGrowStep caps a single capacity increase at 64 MiB.
	DefaultMaxGrowStep = 64 << 20

	minChunkSize = 64
)

// Options configures a store. The zero value is not valid; start from
// DefaultOptions.
type Options struct {
	// ChunkSize is the unit the logical extent grows by. It must be a power
	// of two no smaller than 64. Ignored on Open, where the header wins.
	ChunkSize int

	// ByteOrder is used for every multi-byte value. Ignored on Open, where
	// the header wins.
	ByteOrder binary.ByteOrder

	// FlushMode selects how far Flush goes towards stable storage.
	FlushMode dirty.FlushMode

	// ReadOnly maps the file without write access. Mutations return
	// ErrReadOnly.
	ReadOnly bool

	// MaxGrowStep caps a single increase of physical capacity.
	MaxGrowStep int

	// Logger receives growth and flush events at Debug.
	Logger *logrus.Logger
}

// DefaultOptions returns little endian, 4 KiB chunks, and FlushAuto.
func DefaultOptions() *Options {
	return &Options{
		ChunkSize:   format.DefaultChunkSize,
		ByteOrder:   binary.LittleEndian,
		FlushMode:   dirty.FlushAuto,
		MaxGrowStep: DefaultMaxGrowStep,
		Logger:      logger.L,
	}
}

// withDefaults fills unset fields and validates the result.
func (o *Options) withDefaults() (*Options, error) {
	def := DefaultOptions()
	if o == nil {
		return def, nil
	}
	out := *o
	if out.ChunkSize == 0 {
		out.ChunkSize = def.ChunkSize
	}
	if out.ByteOrder == nil {
		out.ByteOrder = def.ByteOrder
	}
	if out.MaxGrowStep <= 0 {
		out.MaxGrowStep = def.MaxGrowStep
	}
	if out.Logger == nil {
		out.Logger = def.Logger
	}
	if !format.IsPow2(out.ChunkSize) || out.ChunkSize < minChunkSize {
		return nil, errors.Errorf("db: chunk size %d must be a power of two >= %d", out.ChunkSize, minChunkSize)
	}
	if out.ByteOrder != binary.LittleEndian && out.ByteOrder != binary.BigEndian {
		return nil, errors.Errorf("db: unsupported byte order %v", out.ByteOrder)
	}
	return &out, nil
}
