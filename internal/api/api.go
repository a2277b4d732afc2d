package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/intake/internal/monitor"
	"github.com/ethanbaker/intake/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	health_module "github.com/ethanbaker/intake/internal/api/modules/health"
	submit_module "github.com/ethanbaker/intake/internal/api/modules/submit"
)

const shutdownTimeout = 30 * time.Second

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Sheet   submit_module.Sheet
	Monitor *monitor.Monitor // Optional
}

// NewEngine builds the gin engine with every route registered
func NewEngine(cfg *utils.Config, deps Dependencies) *gin.Engine {
	engine := gin.Default()
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(corsConfig(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"))))

	health_module.RegisterRoot(engine)

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	var source health_module.StatusSource
	if deps.Monitor != nil {
		source = deps.Monitor
	}
	health_module.RegisterRoutes(baseGroup, source)
	submit_module.RegisterRoutes(baseGroup, deps.Sheet)

	return engine
}

// Start serves the API until ctx is cancelled, then shuts down gracefully
func Start(ctx context.Context, cfg *utils.Config, deps Dependencies) error {
	port := cfg.GetWithDefault("API_PORT", "8080")

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           NewEngine(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[API-MAIN]: Listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("[API-MAIN]: Shutting down server...")

	// Give outstanding requests time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// corsConfig permits every method and header. A "*" entry allows every origin
func corsConfig(origins string) cors.Config {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length", "X-Submission-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			config.AllowAllOrigins = true
			config.AllowOrigins = nil
			return config
		}
		if origin != "" {
			config.AllowOrigins = append(config.AllowOrigins, origin)
		}
	}

	if len(config.AllowOrigins) == 0 {
		config.AllowAllOrigins = true
	}
	return config
}
