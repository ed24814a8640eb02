package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ndkit/db/alloc"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Show per-pool allocation statistics",
		Long: `The stats command scans the block chain of a store and reports live and
free blocks and bytes for every pool.

Example:
  ndctl stats records.nd
  ndctl stats records.nd --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
}

type poolReport struct {
	Pool       uint8  `json:"pool"`
	Name       string `json:"name"`
	LiveBlocks int    `json:"live_blocks"`
	LiveBytes  uint64 `json:"live_bytes"`
	FreeBlocks int    `json:"free_blocks"`
	FreeBytes  uint64 `json:"free_bytes"`
}

type statsReport struct {
	Path     string       `json:"path"`
	DataSize uint64       `json:"data_size"`
	Classes  string       `json:"size_classes"`
	Pools    []poolReport `json:"pools"`
	Total    poolReport   `json:"total"`
}

func runStats(args []string) error {
	path := args[0]
	printVerbose("Opening store: %s\n", path)

	n, _, err := openEngine(path, true)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer n.Close()

	var rep statsReport
	err = n.View(func() error {
		a := n.Allocator()
		st := a.Stats()
		rep = statsReport{
			Path:     path,
			DataSize: n.DB().Size(),
			Classes:  a.Classes(),
			Total:    toReport(0, "total", st.Total),
		}
		for p, ps := range st.Pools {
			name := a.PoolName(p)
			if name == "" {
				name = p.String()
			}
			rep.Pools = append(rep.Pools, toReport(p, name, ps))
		}
		sort.Slice(rep.Pools, func(i, j int) bool { return rep.Pools[i].Pool < rep.Pools[j].Pool })
		return nil
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(rep)
	}

	printInfo("\n%s\n", heading("Store Statistics:"))
	printInfo("  File: %s\n", rep.Path)
	printInfo("  Data size: %s\n", formatSize(rep.DataSize))
	printInfo("  Size classes: %s\n", rep.Classes)
	printInfo("\n%s\n", heading("Pools:"))
	printInfo("  %-4s %-10s %8s %12s %8s %12s\n", "ID", "NAME", "LIVE", "LIVE BYTES", "FREE", "FREE BYTES")
	for _, p := range append(rep.Pools, rep.Total) {
		id := fmt.Sprintf("%d", p.Pool)
		if p.Name == "total" {
			id = "-"
		}
		printInfo("  %-4s %-10s %8d %12d %8d %12d\n", id, p.Name, p.LiveBlocks, p.LiveBytes, p.FreeBlocks, p.FreeBytes)
	}
	return nil
}

func toReport(p alloc.Pool, name string, st alloc.PoolStats) poolReport {
	return poolReport{
		Pool:       uint8(p),
		Name:       name,
		LiveBlocks: st.LiveBlocks,
		LiveBytes:  st.LiveBytes,
		FreeBlocks: st.FreeBlocks,
		FreeBytes:  st.FreeBytes,
	}
}
