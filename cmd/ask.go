package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mindchat/internal/progress"
	"github.com/ziadkadry99/mindchat/internal/terminal"
	"github.com/ziadkadry99/mindchat/internal/widget"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message to the chat endpoint and print the reply",
	Long: `Posts a single message to the configured chat endpoint, the same way the
widget does, and prints the reply. Diagrams are summarized by their node
labels unless --raw or --json is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "print the reply as JSON")
	askCmd.Flags().Bool("raw", false, "print the reply text unrendered")
	askCmd.Flags().String("endpoint", "", "chat endpoint URL (overrides config)")
	rootCmd.AddCommand(askCmd)
}

type askResultJSON struct {
	Message       string `json:"message"`
	Response      string `json:"response"`
	DiagramSource string `json:"diagram_source,omitempty"`
	SummaryText   string `json:"summary_text,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	raw, _ := cmd.Flags().GetBool("raw")
	endpoint, _ := cmd.Flags().GetString("endpoint")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if endpoint == "" {
		endpoint = cfg.ChatEndpoint()
	}

	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		return fmt.Errorf("message is empty")
	}

	done := progress.Spinner(os.Stderr, "Waiting for reply...")
	reply, err := widget.NewClient(endpoint).Send(ctx, message)
	done()
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		c := widget.NewClassifier(cfg.DiagramTag).Classify(reply)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(askResultJSON{
			Message:       message,
			Response:      reply,
			DiagramSource: c.DiagramSource,
			SummaryText:   c.SummaryText,
		})
	case raw:
		fmt.Println(reply)
		return nil
	}

	printReply(ctx, newRenderer(cfg), reply)
	return nil
}

// printReply renders reply the way the widget would and prints it through
// the terminal surface, drawing any diagram after the message is attached.
func printReply(ctx context.Context, renderer *widget.Renderer, reply string) {
	transcript := widget.NewTranscript(terminal.New(os.Stdout))

	msg := widget.NewMessage(reply, widget.Assistant)
	rendered := renderer.Render(msg)
	if rendered.FormatErr != nil {
		logger.Warn().Err(rendered.FormatErr).Msg("formatting failed, showing plain text")
	}
	transcript.Append(msg, rendered.Node)

	for _, p := range rendered.Placeholders {
		err := transcript.Mutate(p.Target, func() error {
			return renderer.Populate(ctx, p)
		})
		if err != nil {
			logger.Debug().Err(err).Msg("diagram shown as source")
		}
	}
}
