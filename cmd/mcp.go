package cmd

import (
	"github.com/spf13/cobra"

	"driftscan/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Driftscan MCP server",
	Long:  `Launch an MCP server that allows AI agents to profile datasets and detect drift via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress normal table output when running in MCP mode to avoid
		// polluting stdio which is used for the protocol.
		return sharedSetup(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, store, embedder)
	},
}
