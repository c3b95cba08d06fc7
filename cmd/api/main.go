package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"dispatch-core/internal/api/handlers"
	"dispatch-core/internal/api/middleware"
	"dispatch-core/internal/dispatch"
	"dispatch-core/internal/forecast"
	"dispatch-core/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	deps := buildDependencies()

	dispatchHandler := handlers.NewDispatchHandler(deps)
	presetHandler := handlers.NewPresetHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/dispatch", dispatchHandler.RunDispatch)
		api.GET("/presets", presetHandler.ListPresets)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting dispatch API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildDependencies wires a forecast provider and a run persister from
// environment variables, mirroring the teacher's env-var-driven
// configuration (API_PORT, API_ENV, BATTERY_DIR) rather than a config
// file for process-level wiring.
func buildDependencies() dispatch.Dependencies {
	var deps dispatch.Dependencies

	if apiKey := os.Getenv("FORECAST_API_KEY"); apiKey != "" {
		client := forecast.NewHTTPClient(apiKey, os.Getenv("FORECAST_BASE_URL"))
		if ttl := os.Getenv("FORECAST_CACHE_TTL"); ttl != "" {
			if parsed, err := time.ParseDuration(ttl); err == nil {
				client.Cache = forecast.NewCache(parsed)
			}
		}
		deps.Forecast = client
	} else if staticPath := os.Getenv("STATIC_FORECAST_FILE"); staticPath != "" {
		deps.Forecast = forecast.NewStatic(staticPath)
	}

	dbPath := os.Getenv("DISPATCH_DB_PATH")
	if dbPath == "" {
		dbPath = "dispatch.db"
	}
	repo, err := store.New(dbPath)
	if err != nil {
		log.Printf("api: failed to open run store at %s: %v (persistence disabled)", dbPath, err)
	} else {
		deps.Persister = repo
	}

	return deps
}
