package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipeshare/backend/internal/api"
	"github.com/recipeshare/backend/internal/middleware"
)

// Handlers collects the route handlers mounted under /api. The AI and
// calendar handlers are nil when their integrations are not configured.
type Handlers struct {
	Recipes  *api.RecipeHandler
	AI       *api.AIHandler
	Booking  *api.BookingHandler
	Calendar *api.CalendarHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, allowedOrigins []string, aiLimiter *middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	root := router.Group("/api")

	h.Recipes.RegisterRoutes(root)

	if h.Booking != nil {
		h.Booking.RegisterRoutes(root)
	}

	if h.AI != nil {
		ai := router.Group("/api")
		if aiLimiter != nil {
			ai.Use(aiLimiter.Middleware())
		}
		h.AI.RegisterRoutes(ai)
	}

	if h.Calendar != nil {
		h.Calendar.RegisterRoutes(root)
	}

	return router
}
