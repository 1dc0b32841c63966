package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-roster/internal/config"
	"github.com/stemsi/student-roster/internal/handler"
	"github.com/stemsi/student-roster/internal/middleware"
	"github.com/stemsi/student-roster/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Roster *handler.RosterHandler
	Health *handler.HealthHandler
	WS     *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.GET("/health", handlers.Health.Health)

	writeLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	limited := writeLimiter.Middleware()

	// ─── 1. Students (addressed by id) ─────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.NoStore(), middleware.Brotli())
	{
		api.GET("/students", handlers.Roster.ListStudents)
		api.GET("/students/:id", handlers.Roster.GetStudent)
		api.POST("/students", limited, handlers.Roster.CreateStudent)
		api.POST("/students/validate", handlers.Roster.ValidateStudent)
		api.PUT("/students/:id", limited, handlers.Roster.UpdateStudent)
		api.DELETE("/students/:id", limited, handlers.Roster.DeleteStudent)

		// ─── 2. Roster positions ───────────────────────────────────────
		api.PUT("/roster/:index", limited, handlers.Roster.UpdateAt)
		api.DELETE("/roster/:index", limited, handlers.Roster.DeleteAt)
	}

	// ─── 3. WebSocket ──────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/students/stream", handlers.WS.StudentStream)
	}

	return router
}
