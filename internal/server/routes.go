package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes configures all API routes, middleware, and error handlers
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	// Set custom error handler for consistent JSON responses
	e.HTTPErrorHandler = NotFoundJSON()

	// Apply global middleware
	e.Use(SetJSONContentType) // Ensure all responses are JSON
	e.Use(SetNoCacheHeaders)  // Prevent caching of API responses

	// API v1 routes
	v1 := e.Group("/v1")
	v1.GET("/health", h.Health)      // Health check endpoint
	v1.GET("/platform", h.PlatformStatus) // Platform state and fee balance

	// Token lifecycle and reads
	tokens := v1.Group("/tokens")
	tokens.POST("", h.CreateToken)                    // Create token on a fresh curve
	tokens.GET("", h.ListTokens)                      // List all tokens
	tokens.GET("/:id", h.GetToken)                    // Token detail with curve snapshot
	tokens.GET("/:id/price", h.Price)                 // Spot price lookup
	tokens.GET("/:id/progress", h.TokenProgress)      // Launch progress
	tokens.GET("/:id/transactions", h.Transactions)   // Ledger entries, newest first
	tokens.GET("/:id/trades/recent", h.RecentTrades)  // Cached rolling trade window
	tokens.GET("/:id/quote", h.Quote)                 // Jupiter quote for launched tokens
	tokens.DELETE("/:id", h.Delete)                   // Delete untraded token

	// Trade endpoints with rate limiting
	tradeLimiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(10),  // 10 requests per second per client
		Burst:     20,              // Allow burst of 20 requests
		ExpiresIn: 2 * time.Minute, // Rate limit window
	}))
	tokens.POST("/:id/buy", h.Buy, tradeLimiter)
	tokens.POST("/:id/sell", h.Sell, tradeLimiter)
	tokens.POST("/:id/launch", h.Launch, tradeLimiter)

	// Admin endpoints behind key auth
	admin := v1.Group("/admin")
	if cfg.APIKey != "" {
		admin.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key", // Look for API key in X-API-Key header
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil // Simple string comparison
			},
		}))
	}
	admin.POST("/settings", h.AdminUpdateSettings)
	admin.POST("/authority", h.AdminUpdateAuthority)
	admin.POST("/treasury", h.AdminUpdateTreasury)
	admin.POST("/pause", h.AdminTogglePause)
	admin.POST("/withdraw", h.AdminWithdrawFees)

	// AI endpoints with rate limiting
	aigroup := v1.Group("/ai")
	aigroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(0.2), // 1 request every 5 seconds
		Burst:     2,               // Allow burst of 2 requests
		ExpiresIn: 2 * time.Minute, // Rate limit window
	})))
	aigroup.POST("/ask", h.AIAsk) // Natural language to SQL endpoint

	// Feature flags CRUD endpoints
	flagGroup := v1.Group("/flags")
	flagGroup.GET("", h.FlagsList)           // List all flags
	flagGroup.POST("", h.FlagsUpsert)        // Create new flag
	flagGroup.GET("/:key", h.FlagsGet)       // Get specific flag
	flagGroup.PUT("/:key", h.FlagsUpdate)    // Update existing flag
	flagGroup.DELETE("/:key", h.FlagsDelete) // Delete flag

	// Catch-all route for 404 responses
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}
