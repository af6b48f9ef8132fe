package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/zhelev-dev/docview/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing documentation search and retrieval tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		v, _, cleanup, err := buildViewer(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		mcpserver.Version = Version

		docs := 0
		for _, sec := range v.Index().Sections() {
			docs += len(sec.Docs)
		}
		fmt.Fprintf(os.Stderr, "docview MCP server started on stdio (%d documents)\n", docs)

		srv := mcpserver.NewServer(v.Index(), v)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
