// Package api wires the HTTP surface of the simulator.
package api

import (
	"log/slog"
	"net/http"

	"energy-market/internal/api/handlers"
	"energy-market/internal/api/middleware"
	"energy-market/internal/data"
	"energy-market/internal/simulation"

	"github.com/gin-gonic/gin"
)

type Options struct {
	Logger      *slog.Logger
	Results     *data.ResultCache[*simulation.Result]
	Limits      handlers.Limits
	CORSOrigins []string
	// Requests per second per client on /api/v1; 0 disables limiting.
	RateLimit float64
	RateBurst int
}

func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Results == nil {
		opts.Results = data.NewResultCache[*simulation.Result](0)
	}

	router := gin.New()
	router.Use(middleware.CORS(opts.CORSOrigins...))
	router.Use(middleware.Logger(opts.Logger))
	router.Use(middleware.ErrorHandler(opts.Logger))

	simHandler := handlers.NewSimulationHandler(opts.Results, opts.Limits, opts.Logger)
	streamHandler := handlers.NewStreamHandler(opts.Limits, opts.Logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		api.Use(middleware.RateLimit(opts.RateLimit, burst))
	}
	{
		api.GET("/strategies", handlers.ListStrategies)

		api.POST("/simulate", simHandler.RunSimulation)
		api.GET("/simulate/:id/ledger", simHandler.GetLedger)
		api.POST("/simulate/compare", simHandler.CompareSimulations)
		api.GET("/simulate/stream", streamHandler.Stream)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	return router
}
