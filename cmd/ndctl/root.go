package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/joshuapare/ndkit/internal/logger"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4B4B"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

var rootCmd = &cobra.Command{
	Use:   "ndctl",
	Short: "Create, inspect and verify ndkit record stores",
	Long: `ndctl works on ndkit store files: it creates them, decodes the header
page, walks the block chain, reports per-pool accounting and checks the
allocator's invariants.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose && !quiet {
			logger.L.SetLevel(logrus.DebugLevel)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func render(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

func heading(s string) string { return render(headingStyle, s) }

func check(ok bool) string {
	if ok {
		return render(okStyle, "✓")
	}
	return render(failStyle, "✗")
}

func formatSize(n uint64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d bytes", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
