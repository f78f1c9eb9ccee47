package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Project-Sylos/Tabula/internal/api"
	"github.com/Project-Sylos/Tabula/sdk"
	"github.com/dustin/go-humanize"
)

func main() {
	fmt.Println("Tabula API Server")
	fmt.Println("=================")

	// Load configuration
	configPath := getConfigPath()
	fmt.Printf("Loading configuration from: %s\n", configPath)

	tb, err := sdk.New(configPath)
	if err != nil {
		log.Fatalf("Failed to initialize Tabula: %v", err)
	}

	cfg := tb.GetConfig()
	fmt.Printf("Output directory: %s\n", cfg.Output.Dir)
	if tb.CatalogEnabled() {
		count, err := tb.CountDatasets()
		if err != nil {
			log.Fatalf("Failed to read dataset catalog: %v", err)
		}
		fmt.Printf("Dataset catalog: %s (%d datasets)\n", cfg.Catalog.DBPath, count)
	} else {
		fmt.Println("Dataset catalog: disabled")
	}
	if cfg.Generator.MaxRows > 0 {
		fmt.Printf("Row limits: %s - %s\n", humanize.Comma(cfg.Generator.MinRows), humanize.Comma(cfg.Generator.MaxRows))
	}

	server := api.NewServer(tb, &cfg.API)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-sigChan
		fmt.Println("\nShutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			log.Printf("Error closing catalog: %v", err)
		}
		fmt.Println("Server shutdown complete")
	}()

	fmt.Println("Press Ctrl+C to stop the server")
	if err := server.Start(); err != nil {
		log.Fatalf("%v", err)
	}
	<-done
}

// getConfigPath returns the configuration file path
func getConfigPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "configs/default.json"
}
