package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kapu/youtube-dashboard-go/internal/config"
	"github.com/kapu/youtube-dashboard-go/internal/service"
	"github.com/kapu/youtube-dashboard-go/internal/util"
)

// One-off OAuth setup: runs the interactive code exchange and saves the
// token the server picks up when no API key is configured.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := service.Authorize(context.Background(), cfg.YouTube.OAuthCredentialsFile, cfg.YouTube.OAuthTokenFile, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Authorization failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Authorization successful, token saved.")
}
