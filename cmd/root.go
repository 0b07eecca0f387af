// Package cmd wires dsstorekit's cobra command tree (component M).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "dsstorekit",
	Short: "Read-only parser and reporting tool for macOS .DS_Store files",
	Long: `dsstorekit recursively discovers .DS_Store files, parses their
buddy-allocator B-tree structure, recovers allocated and slack-space
records, and writes classified TSV reports.`,
	Version: "0.1.0-dev",
}

// Execute runs the root command, exiting the process with status 1 on
// error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print per-file progress lines")
}

// GetVerbose returns the verbose flag value.
func GetVerbose() bool {
	return verbose
}
