package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ski-ratings %s (commit %s, built %s, %s)\n", Version, GitCommit, BuildDate, runtime.Version())
	},
}
