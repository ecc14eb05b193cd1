package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-scheduler-api/api/swagger"
	"github.com/noah-isme/course-scheduler-api/internal/handler"
	"github.com/noah-isme/course-scheduler-api/internal/middleware"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	"github.com/noah-isme/course-scheduler-api/pkg/config"
	"github.com/noah-isme/course-scheduler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-scheduler-api/pkg/middleware/requestid"
)

type routes struct {
	schedules    *handler.ScheduleGeneratorHandler
	saved        *handler.SavedScheduleHandler
	openSections *handler.OpenSectionHandler
	catalog      *handler.CatalogHandler
	metrics      *handler.MetricsHandler
	tokens       middleware.TokenValidator
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, h routes) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, cfg.Log.QuietPaths...))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics"))
	r.Use(middleware.Brotli(cfg.HTTP.CompressionLevel, cfg.HTTP.CompressionMinBytes))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix, middleware.WithResponseMeta())
	api.GET("/metrics/summary", h.metrics.Summary)

	schedules := api.Group("/schedules")
	schedules.POST("/generate", h.schedules.Generate)
	schedules.POST("/score", h.schedules.Score)
	schedules.POST("/itinerary", h.schedules.Itinerary)
	schedules.POST("/itinerary/export", h.schedules.ExportItinerary)
	api.POST("/preferences/redistribute", h.schedules.Redistribute)

	api.GET("/open-sections", h.openSections.Status)
	api.GET("/open-sections/:id", h.openSections.Lookup)

	api.GET("/core-codes", h.catalog.CoreCodes)
	api.GET("/instructor-ratings", h.catalog.InstructorRatings)

	saved := api.Group("/saved-schedules", middleware.JWT(h.tokens))
	saved.GET("", h.saved.List)
	saved.POST("", h.saved.Save)
	saved.GET("/:id", h.saved.Get)
	saved.DELETE("/:id", h.saved.Delete)
	saved.POST("/:id/share", h.saved.Share)
	api.GET("/shared/:token", h.saved.Shared)

	return r
}
