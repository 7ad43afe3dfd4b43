package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/codewithboateng/jreview/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the review tools over MCP stdio",
	Long: `Run an MCP server on stdin/stdout exposing analyze_source, list_rules and
set_rules. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setupEngine()
		if err != nil {
			return err
		}
		defer a.Close()

		s := mcptools.NewServer(version, a.engine, a.reg, a.db, a.cfg.Analysis.MaxSourceBytes)
		a.logger.Info("mcp server starting", "rules", a.reg.Len())
		return server.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
