package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/raqeebanjum/seniordesignproject/internal/config"
	"github.com/raqeebanjum/seniordesignproject/pkg/log"
	"github.com/raqeebanjum/seniordesignproject/pkg/speech"
	"golang.org/x/net/context"
)

func main() {
	envErr := godotenv.Load()
	logger := log.NewLogger()
	if envErr != nil {
		logger.Warnf("No .env file loaded: %v", envErr)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	speechClient := speech.NewOpenAI(speech.ConfigFromEnv(), logger)

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithMiddleware(),
		config.WithCatalog(os.Getenv("CATALOG_SOURCE")),
		config.WithSpeech(speechClient),
		config.WithAudioCache(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	server.StartSessionCleanup(ctx, time.Hour)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.Errorf("Error shutting down server: %v", err)
	}
}
