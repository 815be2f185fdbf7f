package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/wod-analyzer/backend/internal/metrics"
	"github.com/pageza/wod-analyzer/backend/internal/middleware"
	"github.com/pageza/wod-analyzer/backend/internal/service"
)

// Services bundles what the handlers depend on. Images and ModelLimiter are
// optional; without them photos are not stored and model calls are not
// rate limited.
type Services struct {
	LLM          service.ILLMService
	Wods         service.IWodService
	Athletes     service.IAthleteService
	Images       service.IImageService
	Metrics      *metrics.Manager
	ModelLimiter *middleware.RateLimiter
}

// RegisterRoutes registers all API routes under /api/v1
func RegisterRoutes(router *gin.Engine, s Services) {
	v1 := router.Group("/api/v1")

	var limit []gin.HandlerFunc
	if s.ModelLimiter != nil {
		limit = append(limit, s.ModelLimiter.RateLimitMiddleware())
	}

	NewAnalysisHandler(s.LLM, s.Wods, s.Athletes, s.Images, s.Metrics).RegisterRoutes(v1, limit...)
	NewHistoryHandler(s.Wods).RegisterRoutes(v1)
	NewAthleteHandler(s.Athletes).RegisterRoutes(v1)
}
