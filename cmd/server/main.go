package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricescout/backend/config"
	httpDelivery "github.com/pricescout/backend/internal/delivery/http"
	"github.com/pricescout/backend/internal/infrastructure/cache"
	"github.com/pricescout/backend/internal/infrastructure/llm"
	"github.com/pricescout/backend/internal/infrastructure/mcpsearch"
	"github.com/pricescout/backend/internal/infrastructure/staticprice"
	"github.com/pricescout/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceScout Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	contextStore := cache.NewUserContextStore(memoryCache)

	searchClient := mcpsearch.NewClient(cfg.Search.Command, cfg.Search.Args)
	if searchClient.Available() {
		log.Printf("Web search configured: %s (timeout %s, limit %d)",
			cfg.Search.Command, cfg.Search.Timeout, cfg.Search.ResultLimit)
	} else {
		log.Printf("WARNING: web search not configured - every lookup will use the estimate table")
	}

	llmClient := llm.NewClient(llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		Timeout:   cfg.LLM.Timeout,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if llmClient.Available() {
		log.Printf("Semantic extraction configured: %s @ %s", cfg.LLM.Model, cfg.LLM.BaseURL)
	} else {
		log.Printf("Semantic extraction not configured - fast path only")
	}

	estimateTable := staticprice.NewTable(nil)
	log.Printf("Estimate table loaded: %d keywords", estimateTable.Size())

	// Initialize usecase layer
	parser := usecase.NewResultParser(cfg.Search.MaxContentLength)
	coordinator := usecase.NewExtractionCoordinator(
		usecase.NewFastPriceExtractor(),
		usecase.NewSemanticPriceExtractor(llmClient),
	)
	priceService := usecase.NewPriceService(
		searchClient,
		parser,
		coordinator,
		estimateTable,
		memoryCache,
		usecase.PriceServiceConfig{
			SearchTimeout: cfg.Search.Timeout,
			ResultLimit:   cfg.Search.ResultLimit,
			CacheTTL:      cfg.Cache.TTL,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(priceService, contextStore, searchClient.Available(), llmClient.Available())

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
