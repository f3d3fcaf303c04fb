package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mindchat/internal/chatapi"
	"github.com/ziadkadry99/mindchat/internal/logging"
	"github.com/ziadkadry99/mindchat/internal/server"
	"github.com/ziadkadry99/mindchat/internal/web"
	"github.com/ziadkadry99/mindchat/internal/widget"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the chat backend and the browser widget",
	Long: `Starts the HTTP server with the POST /chat endpoint the widget talks to,
the widget page at / and its websocket at /ws/widget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		kb := loadKnowledge(ctx, cfg, logger)
		assistant := buildAssistant(cfg, kb, logger)

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, logging.Component(logger, "http"))

		chatapi.RegisterRoutes(srv.Timed(), assistant, logging.Component(logger, "chat"))

		renderer := newRenderer(cfg)
		opts := sessionOptions(cfg, logger)
		web.New(func(surface widget.Surface) *widget.Session {
			return widget.NewSession(widget.NewClient(cfg.ChatEndpoint()), renderer, surface, opts)
		}, logging.Component(logger, "web")).RegisterRoutes(srv.Router())

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("shutdown")
			}
		}()

		fmt.Fprintf(os.Stderr, "mindchat server %s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Widget:   http://localhost:%d/\n", cfg.Port)
		fmt.Fprintf(os.Stderr, "  Endpoint: %s\n", cfg.ChatEndpoint())
		if kb != nil {
			fmt.Fprintf(os.Stderr, "  Passages indexed: %d\n", kb.Count())
		}

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 5001, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
