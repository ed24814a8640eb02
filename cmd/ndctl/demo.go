package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ndkit/internal/logger"
	"github.com/joshuapare/ndkit/nd"
	"github.com/joshuapare/ndkit/nd/java"
)

var demoCount int

func init() {
	cmd := newDemoCmd()
	cmd.Flags().IntVar(&demoCount, "count", 3, "Number of type annotations to write")
	rootCmd.AddCommand(cmd)
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo <file>",
		Short: "Create a store populated with sample annotation records",
		Long: `The demo command creates a new store and writes a handful of annotation
and type annotation records with type paths, then deletes one of them so the
store also carries free blocks. Use it to try out dump, stats and verify.

Example:
  ndctl demo sample.nd --count 5
  ndctl dump sample.nd --records`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(args)
		},
	}
}

var demoNames = []string{
	"Ljava/lang/Deprecated;",
	"Ljavax/annotation/Nonnull;",
	"Lorg/checkerframework/checker/nullness/qual/Nullable;",
}

func runDemo(args []string) error {
	path := args[0]
	if demoCount < 1 {
		return fmt.Errorf("--count must be positive, got %d", demoCount)
	}

	reg := nd.NewRegistry()
	ls, err := java.Register(reg)
	if err != nil {
		return err
	}
	opts := nd.DefaultOptions()
	opts.Logger = logger.L
	n, err := nd.Create(path, reg, opts)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	written := 0
	err = n.Update(func(w *nd.Writer) error {
		plain, err := ls.NewAnnotation(w)
		if err != nil {
			return err
		}
		if err := plain.SetTypeName("Ljava/lang/FunctionalInterface;"); err != nil {
			return err
		}

		var last *java.TypeAnnotation
		for i := 0; i < demoCount+1; i++ {
			ta, err := ls.NewTypeAnnotation(w)
			if err != nil {
				return err
			}
			if err := ta.SetTypeName(demoNames[i%len(demoNames)]); err != nil {
				return err
			}
			if err := ta.SetTargetType(java.TargetMethodFormalParameter); err != nil {
				return err
			}
			if err := ta.SetTargetInfo(uint8(i), 0x34); err != nil {
				return err
			}
			path := make([]byte, i%4)
			for j := range path {
				path[j] = byte(j + 1)
			}
			if err := ta.SetPath(path); err != nil {
				return err
			}
			printVerbose("  wrote %s at %s\n", ls.TypeAnnotation.Def.Name(), ta.Address())
			last = ta
			written++
		}
		written--
		return last.Delete()
	})
	if err != nil {
		_ = n.Close()
		return fmt.Errorf("failed to write records: %w", err)
	}

	// Close flushes; its error says whether the records reached the file.
	st := n.Stats()
	if err := n.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":             path,
			"type_annotations": written,
			"live_bytes":       st.Total.LiveBytes,
			"free_bytes":       st.Total.FreeBytes,
		})
	}
	printInfo("%s Wrote %d type annotations to %s\n", check(true), written, path)
	printInfo("  live: %d blocks, %s\n", st.Total.LiveBlocks, formatSize(st.Total.LiveBytes))
	printInfo("  free: %d blocks, %s\n", st.Total.FreeBlocks, formatSize(st.Total.FreeBytes))
	return nil
}
