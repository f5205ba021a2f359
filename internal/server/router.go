package server

import (
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/lotoracle/lotoracle-backend/internal/handlers"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
  "github.com/lotoracle/lotoracle-backend/internal/middleware"
)

type RouterConfig struct {
  Log               *logger.Logger
  AuthMiddleware    *middleware.AuthMiddleware
  LotteryHandler    *handlers.LotteryHandler
  AdminHandler      *handlers.AdminHandler
  PredictionHandler *handlers.PredictionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.New()
  router.Use(gin.Recovery())
  router.Use(middleware.CORS())
  router.Use(otelgin.Middleware("lotoracle-backend"))
  router.Use(middleware.AttachTraceContext())
  router.Use(middleware.RequestLogger(cfg.Log))

  api := router.Group("/api")

  // ===============
  // || Public    ||
  // ===============
  api.GET("/health", handlers.HealthCheck)
  api.GET("/lottery-configs", cfg.LotteryHandler.GetConfigs)

  // ===============
  // || Admin     ||
  // ===============
  admin := api.Group("/admin")
  admin.Use(cfg.AuthMiddleware.RequireAdmin())
  admin.POST("/manage-users", cfg.AdminHandler.ManageUsers)
  admin.GET("/users", cfg.AdminHandler.ListUsers)

  // ===============
  // || User      ||
  // ===============
  user := api.Group("/")
  user.Use(cfg.AuthMiddleware.RequireUser())
  user.POST("/predict", cfg.PredictionHandler.Predict)
  user.GET("/user/predictions", cfg.PredictionHandler.ListForUser)

  return router
}
