package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/symgrep/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the symbol index over MCP on stdio",
	Long: `Start an MCP server exposing the stored symbol index to tools that
speak the Model Context Protocol. The index is loaded once at startup;
run "symgrep index" first and rerun it to pick up source changes.

Tools served:
  symbol_search - structural search (exact, prefix, substring, regex)
  scope_members - direct members of a namespace or type
  index_info    - index metadata and statistics`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	rootDir, err := resolveRoot()
	if err != nil {
		return err
	}
	_, backend, ix, err := loadIndex(rootDir)
	if err != nil {
		return err
	}
	defer backend.Close()

	meta, err := backend.Meta()
	if err != nil {
		return err
	}

	srv, err := mcp.NewServer(ix, meta, Version)
	if err != nil {
		return err
	}
	return srv.Serve(context.Background())
}
