package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mikey/llm-mood-engine/internal/di"
	"github.com/mikey/llm-mood-engine/internal/factory"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run analyzes every line of the input as one session
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	frontends *factory.FrontendFactory,
	runtime *di.Runtime,
) error {
	defer logger.Sync()
	defer runtime.Close()

	var in io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file %s: %w", flags.InputFile, err)
		}
		defer file.Close()
		in = file
		logger.Info("Reading messages from file", zap.String("file", flags.InputFile))
	} else {
		in = os.Stdin
		logger.Info("Reading messages from stdin")
	}

	return frontends.CreateCLIFrontend().Run(context.Background(), in)
}
