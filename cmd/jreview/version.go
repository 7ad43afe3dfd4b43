package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/jreview/internal/diagnostics"
	"github.com/codewithboateng/jreview/internal/ir"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jreview %s IR: %s compiler diagnostics: %t\n", version, ir.Version, diagnostics.Available())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
