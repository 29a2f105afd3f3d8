package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mikey/llm-mood-engine/internal/config"
	"github.com/mikey/llm-mood-engine/internal/factory"
	"github.com/mikey/llm-mood-engine/internal/lexicon"
	"github.com/mikey/llm-mood-engine/internal/logging"
	"go.uber.org/zap"
)

var (
	inputFile  = flag.String("file", "", "Lexicon file to import (CSV or JSON Lines)")
	format     = flag.String("format", "", "Input format (csv, jsonl); inferred from the file extension if empty")
	overwrite  = flag.Bool("overwrite", false, "Replace profiles already in the store (defaults to store.overwrite_on_conflict)")
	configFile = flag.String("config", "", "Path to config file")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Error("Import failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	if *inputFile == "" {
		return fmt.Errorf("-file is required")
	}

	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.NewFromFile(*configFile)
	} else {
		cfg, err = config.New()
	}
	if err != nil {
		return err
	}

	lexFormat := lexicon.Format(*format)
	if lexFormat == "" {
		if lexFormat, err = lexicon.FormatFromPath(*inputFile); err != nil {
			return err
		}
	}

	replace := cfg.GetStore().OverwriteOnConflict
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "overwrite" {
			replace = *overwrite
		}
	})

	repo, err := factory.NewStoreFactory(cfg, logger).CreateProfileRepository()
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}
	defer repo.Close()

	file, err := os.Open(*inputFile)
	if err != nil {
		return fmt.Errorf("failed to open input file %s: %w", *inputFile, err)
	}
	defer file.Close()

	logger.Info("Importing lexicon",
		zap.String("file", *inputFile),
		zap.String("format", string(lexFormat)),
		zap.String("store", cfg.GetStore().Type),
		zap.Bool("overwrite", replace))

	start := time.Now()
	stats, err := lexicon.NewImporter(repo, logger, replace).Import(context.Background(), file, lexFormat)
	if err != nil {
		return err
	}

	total, err := repo.CountWords(context.Background())
	if err != nil {
		logger.Warn("Failed to count stored words", zap.Error(err))
	}

	fmt.Printf("Read: %d\n", stats.Read)
	fmt.Printf("Written: %d\n", stats.Written)
	fmt.Printf("Kept existing: %d\n", stats.Kept)
	fmt.Printf("Invalid: %d\n", stats.Invalid)
	fmt.Printf("Words in store: %d\n", total)
	fmt.Printf("Elapsed: %v\n", time.Since(start))
	return nil
}
