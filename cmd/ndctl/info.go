package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ndkit/internal/mmfile"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Decode and validate a store header",
		Long: `The info command maps a store read-only, validates its header page
and prints the recorded metadata. It never opens the store for writing.

Example:
  ndctl info records.nd
  ndctl info records.nd --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
}

type headerInfo struct {
	Path      string    `json:"path"`
	FileSize  uint64    `json:"file_size"`
	ID        string    `json:"id"`
	ByteOrder string    `json:"byte_order"`
	Version   string    `json:"version"`
	ChunkSize uint32    `json:"chunk_size"`
	DataSize  uint64    `json:"data_size"`
	Clean     bool      `json:"clean"`
	LastFlush time.Time `json:"last_flush"`
	Pools     []string  `json:"pools"`
}

func runInfo(args []string) error {
	path := args[0]
	printVerbose("Mapping store: %s\n", path)

	v, err := mmfile.Open(path)
	if err != nil {
		return fmt.Errorf("failed to map store: %w", err)
	}
	defer v.Close()

	h, err := v.Header()
	if err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}
	info := headerInfo{
		Path:      path,
		FileSize:  uint64(v.Len()),
		ID:        h.ID.String(),
		ByteOrder: h.Order.String(),
		Version:   fmt.Sprintf("%d.%d", h.VersionMajor, h.VersionMinor),
		ChunkSize: h.ChunkSize,
		DataSize:  h.DataSize,
		Clean:     h.Clean(),
		LastFlush: h.LastFlush,
	}
	for i, name := range h.Pools {
		if i > 0 && name != "" {
			info.Pools = append(info.Pools, fmt.Sprintf("%d:%s", i, name))
		}
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\n%s\n", heading("Store Information:"))
	printInfo("  File: %s\n", info.Path)
	printInfo("  Size: %s\n", formatSize(info.FileSize))
	printInfo("  ID: %s\n", info.ID)
	printInfo("  Version: %s\n", info.Version)
	printInfo("  Byte order: %s\n", info.ByteOrder)
	printInfo("  Chunk size: %d\n", info.ChunkSize)
	printInfo("  Data size: %s\n", formatSize(info.DataSize))
	if !info.LastFlush.IsZero() {
		printInfo("  Last flush: %s\n", info.LastFlush.Format(time.RFC3339))
	}
	for _, p := range info.Pools {
		printInfo("  Pool %s\n", p)
	}
	printInfo("\n%s\n", heading("Validation:"))
	printInfo("  %s Header valid\n", check(true))
	printInfo("  %s Last flush completed\n", check(info.Clean))
	return nil
}
