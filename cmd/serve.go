package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/mindchat/internal/mcp"
	"github.com/ziadkadry99/mindchat/internal/widget"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the study assistant, the reply classifier and knowledge search as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		kb := loadKnowledge(context.Background(), cfg, logger)
		assistant := buildAssistant(cfg, kb, logger)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		passages := 0
		if kb != nil {
			passages = kb.Count()
		}
		fmt.Fprintf(os.Stderr, "mindchat MCP server started on stdio (provider=%s, passages=%d)\n", cfg.Provider, passages)

		srv := mcpserver.NewServer(assistant, kb, widget.NewClassifier(cfg.DiagramTag))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
