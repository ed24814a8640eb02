package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ndkit/db/alloc"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Check the block chain and record types",
		Long: `The verify command opens a store read-only and checks that the block
chain covers the data extent, that the allocator's indexes agree with it and
that every typed block resolves to a registered record type.

Example:
  ndctl verify records.nd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args)
		},
	}
}

type verifyReport struct {
	Path    string `json:"path"`
	Chain   bool   `json:"chain"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

func runVerify(args []string) error {
	path := args[0]
	printVerbose("Opening store: %s\n", path)

	n, _, err := openEngine(path, true)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer n.Close()

	rep := verifyReport{Path: path}
	verr := n.View(func() error {
		if err := n.Allocator().Verify(); err != nil {
			return err
		}
		rep.Chain = true
		return n.Allocator().Walk(func(b alloc.Block) error {
			if b.Free || b.Tag == 0 {
				return nil
			}
			if _, err := n.Resolve(b.Addr); err != nil {
				return err
			}
			rep.Records++
			return nil
		})
	})
	if verr != nil {
		rep.Error = verr.Error()
	}

	if jsonOut {
		if err := printJSON(rep); err != nil {
			return err
		}
	} else {
		printInfo("\n%s\n", heading("Verification:"))
		printInfo("  %s Block chain consistent\n", check(rep.Chain))
		printInfo("  %s %d records resolved\n", check(verr == nil), rep.Records)
	}
	if verr != nil {
		return fmt.Errorf("verification failed: %w", verr)
	}
	return nil
}
