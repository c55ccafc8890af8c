// Package main is the entry point for the drain-flow log template
// miner: it wires a sharded Drain index to OTLP log ingestion and a
// small inspection API.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nharring-adjacent/drain-flow/internal/api"
	"github.com/nharring-adjacent/drain-flow/internal/patterns"
	"github.com/nharring-adjacent/drain-flow/internal/receiver"
	"github.com/nharring-adjacent/drain-flow/internal/sharding"
)

func main() {
	log.Println("Starting drain-flow...")

	domainFilters := loadDomainFilters()
	shardCount := getEnvInt("DRAIN_SHARDS", 4)

	index, err := sharding.New(shardCount, domainFilters)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}
	log.Printf("Index ready: %d shards, %d domain filters", shardCount, len(domainFilters))

	otlpHTTPAddr := getEnv("OTLP_HTTP_ADDR", "0.0.0.0:4318")
	otlpGRPCAddr := getEnv("OTLP_GRPC_ADDR", "0.0.0.0:4317")
	httpReceiver := receiver.NewHTTPReceiver(otlpHTTPAddr, index)
	grpcReceiver := receiver.NewGRPCReceiver(otlpGRPCAddr, index)

	apiAddr := getEnv("API_ADDR", "0.0.0.0:8080")
	apiServer := api.NewServer(apiAddr, index)

	pprofAddr := getEnv("PPROF_ADDR", "localhost:6060")
	go func() {
		log.Printf("Starting pprof server on http://%s/debug/pprof", pprofAddr)
		if err := http.ListenAndServe(pprofAddr, nil); err != nil {
			log.Printf("pprof server error: %v", err)
		}
	}()

	errChan := make(chan error, 3)

	go func() {
		log.Printf("Starting OTLP HTTP receiver on %s", otlpHTTPAddr)
		if err := httpReceiver.Start(); err != nil {
			errChan <- fmt.Errorf("OTLP HTTP receiver error: %w", err)
		}
	}()

	go func() {
		log.Printf("Starting OTLP gRPC receiver on %s", otlpGRPCAddr)
		if err := grpcReceiver.Start(); err != nil {
			errChan <- fmt.Errorf("OTLP gRPC receiver error: %w", err)
		}
	}()

	go func() {
		log.Printf("Starting inspection API server on %s", apiAddr)
		if err := apiServer.Start(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)
	log.Println("All servers started successfully")
	log.Println("OTLP endpoints:")
	log.Printf("  - HTTP: http://%s/v1/logs", otlpHTTPAddr)
	log.Printf("  - gRPC: %s", otlpGRPCAddr)
	log.Println("API endpoints:")
	log.Printf("  - Groups: http://%s/groups", apiAddr)
	log.Printf("  - Ingest: http://%s/ingest", apiAddr)
	log.Printf("  - Health: http://%s/health", apiAddr)
	log.Println("Profiling:")
	log.Printf("  - pprof: http://%s/debug/pprof", pprofAddr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down...", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Shutting down servers...")
	if err := httpReceiver.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down OTLP HTTP receiver: %v", err)
	}
	if err := grpcReceiver.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down OTLP gRPC receiver: %v", err)
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down API server: %v", err)
	}

	log.Println("Shutdown complete")
}

// loadDomainFilters loads domain filter patterns from
// DRAIN_PATTERNS_FILE if set, falling back to the built-in defaults.
func loadDomainFilters() []string {
	if path := os.Getenv("DRAIN_PATTERNS_FILE"); path != "" {
		compiled, err := patterns.Load(path)
		if err != nil {
			log.Printf("Warning: failed to load domain filters from %s: %v; using defaults", path, err)
		} else {
			return patterns.Sources(compiled)
		}
	}
	return patterns.Sources(patterns.Default())
}

// getEnv gets an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
