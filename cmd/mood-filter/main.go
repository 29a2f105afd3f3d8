package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/llm-mood-engine/internal/di"
	"github.com/mikey/llm-mood-engine/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	frontend ports.MoodFrontend,
	runtime *di.Runtime,
) error {
	defer logger.Sync()
	defer runtime.Close()

	if err := frontend.Start(); err != nil {
		logger.Error("Failed to start frontend", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stopping the frontend ends its sessions before the stores close
	if err := frontend.Stop(); err != nil {
		logger.Error("Failed to stop frontend", zap.Error(err))
	}

	logger.Info("Shutdown complete", zap.Int("cached_profiles", runtime.Cache.Len()))
	return nil
}
