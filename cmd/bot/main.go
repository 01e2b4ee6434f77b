package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/awnkhoury1/awnzzbot/internal/bot"
	"github.com/awnkhoury1/awnzzbot/internal/config"
	"github.com/awnkhoury1/awnzzbot/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{
		Level:  "info",
		Format: "text",
	})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Recreate with the configured level and format
	log = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	log.Infof("Starting audio bot (token %s)", cfg.GetSafeToken())

	audioBot, err := bot.New(cfg, log)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	if err := audioBot.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	log.Info("Bot is now running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	audioBot.Stop()
	log.Info("Bot stopped")
}
