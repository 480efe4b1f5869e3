// Command diagnose classifies one leaf photo from disk and prints the report.
//
//	diagnose -image leaf.jpg -city Pune
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/Brownie44l1/crop-api/internal/config"
	"github.com/Brownie44l1/crop-api/internal/diagnosis"
	"github.com/Brownie44l1/crop-api/internal/infrastructure"
)

func main() {
	imagePath := flag.String("image", "", "path to a JPEG or PNG leaf photo")
	city := flag.String("city", "", "city for the weather lookup (defaults to the configured city)")
	configPath := flag.String("config", config.BaseConfigFile, "path to config.toml")
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()

	infra, err := infrastructure.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer infra.Close()

	req := diagnosis.Request{City: *city}
	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			log.Fatalf("Failed to open image: %v", err)
		}
		defer f.Close()
		req.Image = f
	}

	report, err := infra.Diagnosis.Run(ctx, req)
	if err != nil {
		logger.Error("diagnosis failed", "error", err)
		infra.Close()
		os.Exit(1)
	}

	fmt.Print(report.String())
}
