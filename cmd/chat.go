package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mindchat/internal/terminal"
	"github.com/ziadkadry99/mindchat/internal/widget"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long: `Runs the chat widget in the terminal against the configured endpoint.
Type a message and press Enter to send it; Ctrl+C or Ctrl+D quits.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("endpoint", "", "chat endpoint URL (overrides config)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	endpoint, _ := cmd.Flags().GetString("endpoint")
	if endpoint == "" {
		endpoint = cfg.ChatEndpoint()
	}

	sess := widget.NewSession(widget.NewClient(endpoint), newRenderer(cfg), terminal.New(os.Stdout), sessionOptions(cfg, logger))
	sess.Start(ctx)
	defer sess.Wait()

	prompt := promptui.Prompt{
		Label:       "you",
		HideEntered: true,
	}
	for {
		line, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				fmt.Println()
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		sess.SetInput(line)
		if sess.KeyPress(ctx, widget.KeyEnter) {
			// One exchange at a time keeps the prompt below the reply.
			sess.Wait()
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
