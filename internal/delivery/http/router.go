package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "stockdesk/internal/middleware"
	"stockdesk/pkg/logger"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler       *AuthHandler
	PredictionHandler *PredictionHandler
	PortfolioHandler  *PortfolioHandler
	MarketDataHandler *MarketDataHandler
	HealthHandler     *HealthHandler
	AdminAPIKey       string
	Logger            *logger.Logger
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	log := config.Logger.Named("http")

	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Health probes poll constantly
			return c.Request().URL.Path == "/health"
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			log.Sugar().Infow("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit("1M"))

	e.GET("/health", config.HealthHandler.GetHealth)

	// Dashboard routes
	e.GET("/allHoldings", config.PortfolioHandler.GetHoldings)
	e.GET("/allPositions", config.PortfolioHandler.GetPositions)
	e.GET("/allOrders", config.PortfolioHandler.GetOrders)
	e.POST("/newOrder", config.PortfolioHandler.NewOrder)

	// API group
	api := e.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", config.AuthHandler.Signup)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
	}

	predictions := api.Group("/predictions")
	{
		predictions.POST("/predict", config.PredictionHandler.Predict)
		predictions.POST("/batch", config.PredictionHandler.BatchPredict)
		predictions.POST("/indicators", config.PredictionHandler.GetIndicators)
		predictions.POST("/train", config.PredictionHandler.Train, custommiddleware.AdminKey(config.AdminAPIKey))
		predictions.GET("/:symbol", config.PredictionHandler.GetLatest)
		predictions.GET("/:symbol/history", config.PredictionHandler.GetHistory)
	}

	stocks := api.Group("/stocks")
	{
		stocks.GET("/:symbol/bars", config.MarketDataHandler.GetBars)
	}
}
