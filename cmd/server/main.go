package main

import (
	"fmt"
	"log"
	"os"

	"github.com/calorietrack/backend/config"
	httpDelivery "github.com/calorietrack/backend/internal/delivery/http"
	"github.com/calorietrack/backend/internal/infrastructure/cache"
	"github.com/calorietrack/backend/internal/infrastructure/nlparser"
	"github.com/calorietrack/backend/internal/infrastructure/spoonacular"
	"github.com/calorietrack/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CalorieTrack Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	detailCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	ingredientClient := spoonacular.NewClient(cfg.Spoonacular.APIKey, cfg.Spoonacular.BaseURL)
	ingredientClient.SetPageSize(cfg.Spoonacular.PageSize)
	ingredientClient.SetImageBaseURL(cfg.Spoonacular.ImageBaseURL)

	nlClient := nlparser.NewClient(cfg.NLParser.BaseURL, cfg.NLParser.Timeout)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		ingredientClient.SetDebug(true)
		nlClient.SetDebug(true)
		log.Printf("Client debug mode enabled")
	}

	if cfg.Spoonacular.APIKey != "" {
		log.Printf("Spoonacular API configured: %s", cfg.Spoonacular.BaseURL)
	} else {
		log.Printf("WARNING: Spoonacular API key NOT CONFIGURED - API calls will fail!")
	}
	log.Printf("NL parser configured: %s", cfg.NLParser.BaseURL)

	// Initialize usecase layer
	pipeline := usecase.NewEnrichmentPipeline(ingredientClient, detailCache, usecase.EnrichConfig{
		MaxAttempts:    cfg.Enrich.MaxAttempts,
		BaseGap:        cfg.Enrich.BaseGap,
		BatchPause:     cfg.Enrich.BatchPause,
		BatchEvery:     cfg.Enrich.BatchEvery,
		RetryBase429:   cfg.Enrich.RetryBase429,
		RetryBaseOther: cfg.Enrich.RetryBaseOther,
		CacheTTL:       cfg.Cache.TTL,
	})
	searchService := usecase.NewSearchService(ingredientClient, pipeline)

	log.Printf("Enrichment: attempts=%d gap=%s batch=%d/%s",
		cfg.Enrich.MaxAttempts, cfg.Enrich.BaseGap, cfg.Enrich.BatchEvery, cfg.Enrich.BatchPause)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, pipeline, nlClient)

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
