// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/api/handlers"
	"github.com/andresuchdata/salescast/backend-go/internal/api/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Products  handlers.ProductService
	Sales     handlers.SalesService
	Forecasts handlers.ForecastService
	Alerts    handlers.AlertService
	Dashboard handlers.DashboardService
}

type RouterConfig struct {
	AllowedOrigins []string
	DefaultHorizon int
	MaxUploadBytes int64
}

func NewRouter(services *Services, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.RequireUser())

	if services == nil {
		return router
	}

	if services.Products != nil {
		productHandler := handlers.NewProductHandler(services.Products)
		productGroup := apiGroup.Group("/products")
		{
			productGroup.GET("", productHandler.List)
			productGroup.POST("", productHandler.Create)
			productGroup.GET("/:id", productHandler.Get)
			productGroup.PUT("/:id", productHandler.Update)
			productGroup.DELETE("/:id", productHandler.Delete)
		}
	}

	if services.Sales != nil {
		salesHandler := handlers.NewSalesHandler(services.Sales, cfg.MaxUploadBytes)
		apiGroup.GET("/sales", salesHandler.List)
		apiGroup.POST("/sales", salesHandler.Create)
		apiGroup.POST("/sales/bulk", salesHandler.BulkCreate)
		apiGroup.GET("/products/:id/sales", salesHandler.ListByProduct)
		apiGroup.POST("/products/:id/sales/upload", salesHandler.Upload)
	}

	if services.Forecasts != nil {
		forecastHandler := handlers.NewForecastHandler(services.Forecasts, cfg.DefaultHorizon)
		apiGroup.GET("/forecasts", forecastHandler.List)
		apiGroup.GET("/products/:id/forecasts", forecastHandler.ListByProduct)
		apiGroup.POST("/products/:id/forecasts", forecastHandler.Generate)
		apiGroup.GET("/products/:id/analysis", forecastHandler.Analyze)
	}

	if services.Alerts != nil {
		alertHandler := handlers.NewAlertHandler(services.Alerts)
		apiGroup.GET("/alerts", alertHandler.List)
		apiGroup.PUT("/alerts/:id/read", alertHandler.MarkRead)
		apiGroup.DELETE("/alerts/:id", alertHandler.Delete)
		apiGroup.POST("/products/:id/alerts", alertHandler.Generate)
	}

	if services.Dashboard != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
		apiGroup.GET("/dashboard/overview", dashboardHandler.Overview)
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	cfg := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.UserIDHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			cfg.AllowOrigins = nil
			cfg.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			cfg.AllowOrigins = normalizedOrigins
		}
	}
	return cfg
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
