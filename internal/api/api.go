package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/api/handlers"
	"github.com/andresuchdata/inventory-analytics/internal/api/middleware"
	"github.com/andresuchdata/inventory-analytics/internal/metrics"
	"github.com/andresuchdata/inventory-analytics/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	AnalyticsService *service.AnalyticsService
	Metrics          *metrics.Metrics
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	if services != nil && services.Metrics != nil {
		router.Use(middleware.Metrics(services.Metrics))
	}

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	formulaHandler := handlers.NewFormulaHandler()
	formulaGroup := apiGroup.Group("/formulas")
	{
		formulaGroup.POST("/eoq", formulaHandler.EOQ)
		formulaGroup.POST("/rop", formulaHandler.ROP)
		formulaGroup.POST("/newsvendor", formulaHandler.Newsvendor)
	}

	if services != nil {
		if services.AnalyticsService != nil {
			analyticsHandler := handlers.NewAnalyticsHandler(services.AnalyticsService)
			apiGroup.GET("/kpi", analyticsHandler.GetKPI)
			apiGroup.GET("/forecast", analyticsHandler.GetForecast)
			apiGroup.GET("/abc", analyticsHandler.GetABC)
			apiGroup.GET("/bottlenecks", analyticsHandler.GetBottlenecks)
			apiGroup.GET("/inventory", analyticsHandler.GetInventory)
			apiGroup.GET("/dashboard", analyticsHandler.GetDashboard)
			apiGroup.GET("/dimensions", analyticsHandler.GetDimensions)
		}

		if services.Metrics != nil {
			router.GET("/metrics", gin.WrapH(services.Metrics.Handler()))
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
