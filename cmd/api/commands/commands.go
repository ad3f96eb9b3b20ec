package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pookietodo/core/internal/adapters/chat"
	"github.com/pookietodo/core/internal/adapters/storage"
	"github.com/pookietodo/core/internal/infrastructure/config"
	"github.com/pookietodo/core/internal/infrastructure/logger"
	"github.com/pookietodo/core/internal/infrastructure/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Pookie Todo API server",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the API version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Pookie Todo API v3.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	store := storage.NewFileStore(cfg.Storage.Path, appLogger)
	completer := chat.NewClient(cfg.OpenAI)
	if !completer.Ready() {
		appLogger.Warn("OPENAI_API_KEY not set; chat endpoint will fail")
	}

	srv := server.New(cfg, store, completer, appLogger)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		appLogger.Infow("starting Pookie Todo API",
			"address", addr,
			"environment", cfg.App.Environment,
			"storage_path", cfg.Storage.Path,
		)
		if err := srv.Start(addr); err != nil {
			appLogger.Infow("server stopped", "reason", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("graceful shutdown failed", "error", err)
	}
}
