package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipeshare/backend/config"
	"github.com/recipeshare/backend/internal/api"
	"github.com/recipeshare/backend/internal/middleware"
	"github.com/recipeshare/backend/internal/router"
	"github.com/recipeshare/backend/internal/service"
)

// Server wires the services and handlers and owns the HTTP listener.
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New creates a new server instance. Redis may be nil; the AI and
// calendar integrations are enabled only when configured.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *Server {
	if config.IsProduction(cfg.Server.Environment) {
		gin.SetMode(gin.ReleaseMode)
	}

	recipeService := service.NewRecipeService(db, logger)
	orderService := service.NewOrderService(db, logger)

	handlers := router.Handlers{
		Recipes: api.NewRecipeHandler(recipeService, logger),
	}

	var llmService *service.LLMService
	if svc, err := service.NewLLMService(cfg.AI, redisClient, logger); err != nil {
		logger.Warn("AI generation disabled", zap.Error(err))
	} else {
		llmService = svc

		var imageService *service.ImageService
		if s3cfg, err := config.NewS3Config(context.Background(), cfg.Storage); err != nil {
			logger.Warn("photo archival disabled", zap.Error(err))
		} else {
			imageService = service.NewImageService(s3cfg, logger)
		}

		handlers.AI = api.NewAIHandler(llmService, imageService, cfg.AI.RecipeAPIURL, logger)
	}

	handlers.Booking = api.NewBookingHandler(llmService, orderService, logger)

	if calendarService, err := service.NewCalendarService(cfg.Google, logger); err != nil {
		logger.Warn("calendar integration disabled", zap.Error(err))
	} else {
		handlers.Calendar = api.NewCalendarHandler(calendarService, logger)
	}

	var aiLimiter *middleware.RateLimiter
	if redisClient != nil {
		aiLimiter = middleware.NewAIRateLimiter(redisClient, cfg.RateLimit.AIRequests, cfg.RateLimit.AIWindow)
	}

	engine := router.SetupRouter(handlers, cfg.Server.AllowedOrigins, aiLimiter, logger)

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
			Handler: engine,
		},
		logger: logger,
	}
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
