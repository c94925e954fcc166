package cmd

import (
	"github.com/pharmakit/retroscreen/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Retroscreen MCP server",
	Long:  `Launch an MCP server that allows AI agents to run retrospective screenings via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The pharmacophore inputs arrive per tool call, so only the base
		// validation runs here. Keep stdout clean for the protocol.
		return baseSetupWrapper(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
