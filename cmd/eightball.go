package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cfranzen/eightball/pkg/domain"
	"github.com/cfranzen/eightball/pkg/server"
	"github.com/cfranzen/eightball/pkg/storage"
	"github.com/cfranzen/eightball/pkg/storage/bolt"
)

func main() {
	// Command line flags
	var (
		port           = flag.String("port", "8080", "Server port")
		storageBackend = flag.String("storage", "memory", "Storage backend: memory or bolt")
		dataDir        = flag.String("data-dir", ".", "Data directory for storage")
		dataFile       = flag.String("data-file", "eightball_data"+storage.FileExtension, "Snapshot file for the memory backend")
		backgroundSave = flag.Duration("background-save", 0, "Background save interval for the memory backend (e.g., 5m, 30s). Set to 0 to save after every write.")
		showHelp       = flag.Bool("help", false, "Show help message")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\neightball is a Magic 8-Ball web service with a generic record store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Start with defaults\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090 -storage bolt         # bbolt backend on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -background-save 5m              # Snapshot every 5 minutes\n", os.Args[0])
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	store, err := openStore(*storageBackend, *dataDir, *dataFile, *backgroundSave)
	if err != nil {
		log.Fatalf("Could not open storage backend: %v", err)
	}

	srv := server.New(store)

	httpServer := &http.Server{
		Addr:    ":" + *port,
		Handler: srv.Router(),
	}

	go func() {
		log.Printf("Starting eightball server on :%s", *port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	if err := store.Close(); err != nil {
		log.Printf("ERROR: Could not close store: %v", err)
	}

	log.Println("Server exited")
}

// openStore builds the configured storage backend
func openStore(backend, dataDir, dataFile string, backgroundSave time.Duration) (domain.Store, error) {
	switch backend {
	case "memory":
		options := []storage.Option{
			storage.WithDataDir(dataDir),
			storage.WithDataFile(storage.DataFilePath(dataDir, dataFile)),
		}
		if backgroundSave > 0 {
			options = append(options, storage.WithBackgroundSave(backgroundSave))
			log.Printf("INFO: Background save enabled: every %v", backgroundSave)
		}

		engine := storage.NewEngine(options...)
		snapshot := storage.DataFilePath(dataDir, dataFile)
		if err := engine.LoadFromFile(snapshot); err != nil {
			log.Printf("ERROR: Could not load data from file %s: %v", snapshot, err)
		} else {
			log.Printf("INFO: Loaded data from file %s", snapshot)
		}
		engine.StartBackgroundWorkers()
		return engine, nil
	case "bolt":
		log.Printf("INFO: Using bbolt backend in %s", dataDir)
		return bolt.Open(dataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
