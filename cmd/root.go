package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mindchat/internal/logging"
)

var (
	cfgFile string
	verbose bool

	// logger writes to stderr so stdout stays free for replies and MCP.
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mindchat",
	Short: "Study assistant chat with practice questions and mind maps",
	Long: `mindchat is a chat widget and backend for a study assistant. Ask it for
practice questions on a topic, or for a mind map / knowledge graph, and it
replies with formatted Markdown or a rendered diagram. Replies can be read
in the browser, in the terminal, or by AI agents over MCP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.Setup(os.Stderr, verbose)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".mindchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
