package main

import (
	"encoding/binary"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/internal/logger"
)

var (
	createChunkSize int
	createBigEndian bool
	createPools     []string
)

func init() {
	cmd := newCreateCmd()
	cmd.Flags().IntVar(&createChunkSize, "chunk-size", db.DefaultOptions().ChunkSize, "Growth unit in bytes (power of two)")
	cmd.Flags().BoolVar(&createBigEndian, "big-endian", false, "Store integers big endian")
	cmd.Flags().StringSliceVar(&createPools, "pool", nil, "Name an extra pool (repeatable)")
	rootCmd.AddCommand(cmd)
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <file>",
		Short: "Create an empty store",
		Long: `The create command writes a new store file with one empty chunk and the
predefined pool table. It refuses to overwrite an existing file.

Example:
  ndctl create records.nd
  ndctl create records.nd --big-endian --chunk-size 65536 --pool blobs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args)
		},
	}
}

func runCreate(args []string) error {
	path := args[0]
	opts := db.DefaultOptions()
	opts.ChunkSize = createChunkSize
	opts.Logger = logger.L
	if createBigEndian {
		opts.ByteOrder = binary.BigEndian
	}

	printVerbose("Creating store: %s\n", path)
	s, err := db.Create(path, opts)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	a, err := alloc.New(s, &alloc.Config{Logger: logger.L})
	if err != nil {
		_ = s.Close()
		return fmt.Errorf("failed to initialize allocator: %w", err)
	}
	for _, name := range createPools {
		p, err := a.DefinePool(name)
		if err != nil {
			_ = s.Close()
			return fmt.Errorf("failed to define pool %q: %w", name, err)
		}
		printVerbose("  pool %d = %s\n", uint8(p), name)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":       path,
			"id":         s.UUID().String(),
			"chunk_size": s.ChunkSize(),
			"byte_order": s.Order().String(),
		})
	}
	printInfo("%s Created %s (%s)\n", check(true), path, s.UUID())
	return nil
}
