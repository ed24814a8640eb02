package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/nd"
	"github.com/joshuapare/ndkit/nd/java"
)

var (
	dumpPool    string
	dumpFree    bool
	dumpRecords bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpPool, "pool", "", "Only show blocks of this pool")
	cmd.Flags().BoolVar(&dumpFree, "free", false, "Include free blocks")
	cmd.Flags().BoolVar(&dumpRecords, "records", false, "Decode annotation records")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "List the blocks of a store",
		Long: `The dump command walks the block chain in address order and prints each
block with its pool and record type.

Example:
  ndctl dump records.nd
  ndctl dump records.nd --pool record --records
  ndctl dump records.nd --free --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
}

type blockEntry struct {
	Addr   string            `json:"addr"`
	Size   uint64            `json:"size"`
	Pool   string            `json:"pool"`
	Free   bool              `json:"free,omitempty"`
	Type   string            `json:"type,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func runDump(args []string) error {
	path := args[0]
	printVerbose("Opening store: %s\n", path)

	n, ls, err := openEngine(path, true)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer n.Close()

	var entries []blockEntry
	err = n.View(func() error {
		a := n.Allocator()
		return a.Walk(func(b alloc.Block) error {
			if b.Free && !dumpFree {
				return nil
			}
			name := a.PoolName(b.Pool)
			if name == "" {
				name = b.Pool.String()
			}
			if dumpPool != "" && dumpPool != name {
				return nil
			}
			e := blockEntry{Addr: b.Addr.String(), Size: b.Size, Pool: name, Free: b.Free}
			if !b.Free && b.Tag != 0 {
				e.Type = fmt.Sprintf("#%d", b.Tag)
				if t, ok := n.Registry().ByID(nd.TypeID(b.Tag)); ok {
					e.Type = t.Name
				}
				if dumpRecords {
					fields, err := describe(n, ls, b)
					if err != nil {
						return err
					}
					e.Fields = fields
				}
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("failed to walk blocks: %w", err)
	}

	if jsonOut {
		return printJSON(entries)
	}

	printInfo("%s\n", heading(fmt.Sprintf("%-18s %8s %-10s %s", "ADDRESS", "SIZE", "POOL", "TYPE")))
	for _, e := range entries {
		typ := e.Type
		if e.Free {
			typ = render(mutedStyle, "(free)")
		}
		printInfo("%-18s %8d %-10s %s\n", e.Addr, e.Size, e.Pool, typ)
		for _, k := range []string{"typeName", "targetType", "target", "path"} {
			if v, ok := e.Fields[k]; ok {
				printInfo("    %s: %s\n", k, v)
			}
		}
	}
	return nil
}

// describe decodes the annotation fields of a typed block.
func describe(n *nd.Nd, ls *java.Layouts, b alloc.Block) (map[string]string, error) {
	rec, err := n.Resolve(b.Addr)
	if err != nil {
		return nil, err
	}
	if !rec.Schema().IsA(ls.Annotation.Def) {
		return nil, nil
	}
	out := make(map[string]string)
	a, err := ls.AttachAnnotation(n, b.Addr)
	if err != nil {
		return nil, err
	}
	if out["typeName"], err = a.TypeName(); err != nil {
		return nil, err
	}
	if !rec.Schema().IsA(ls.TypeAnnotation.Def) {
		return out, nil
	}
	ta, err := ls.AttachTypeAnnotation(n, b.Addr)
	if err != nil {
		return nil, err
	}
	tt, err := ta.TargetType()
	if err != nil {
		return nil, err
	}
	target, err := ta.Target()
	if err != nil {
		return nil, err
	}
	path, err := ta.TypePath()
	if err != nil {
		return nil, err
	}
	out["targetType"] = fmt.Sprintf("0x%02x", tt)
	out["target"] = fmt.Sprintf("0x%04x", target)
	out["path"] = fmt.Sprintf("% x", path)
	return out, nil
}
