package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
  "github.com/lotoracle/lotoracle-backend/internal/utils"
  "github.com/lotoracle/lotoracle-backend/internal/db"
  "github.com/lotoracle/lotoracle-backend/internal/lottery"
  "github.com/lotoracle/lotoracle-backend/internal/observability"
  "github.com/lotoracle/lotoracle-backend/internal/predictor"
  "github.com/lotoracle/lotoracle-backend/internal/repos"
  "github.com/lotoracle/lotoracle-backend/internal/services"
  "github.com/lotoracle/lotoracle-backend/internal/handlers"
  "github.com/lotoracle/lotoracle-backend/internal/middleware"
  "github.com/lotoracle/lotoracle-backend/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "lotoracle-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if shutdownOTel != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdownOTel(ctx)
    }()
  }

  // Lottery registry
  log.Info("Loading lottery configurations from main...")
  registry := lottery.NewRegistry()
  if path := os.Getenv("LOTTERY_CONFIG_PATH"); path != "" {
    registry, err = lottery.LoadFile(path)
    if err != nil {
      log.Error("Could not load lottery config file", "path", path, "error", err)
      os.Exit(1)
    }
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  predictionRepo := repos.NewPredictionRepo(thePG, log)
  historyRepo := repos.NewHistoryRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  geminiClient, err := services.NewGeminiClient(log)
  if err != nil {
    log.Error("Could not init GeminiClient", "error", err)
    os.Exit(1)
  }
  analyzer := services.NewPatternAnalyzer(log, geminiClient)
  sequenceModel := predictor.New(log)
  authService := services.NewAuthService(log, thePG, userRepo)
  userService := services.NewUserService(log, thePG, userRepo)
  predictionService := services.NewPredictionService(log, thePG, registry, historyRepo, predictionRepo, sequenceModel, analyzer)

  // Handlers
  log.Info("Setting up handlers from main...")
  lotteryHandler := handlers.NewLotteryHandler(registry)
  adminHandler := handlers.NewAdminHandler(log, userService)
  predictionHandler := handlers.NewPredictionHandler(log, predictionService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    Log:               log,
    AuthMiddleware:    authMiddleware,
    LotteryHandler:    lotteryHandler,
    AdminHandler:      adminHandler,
    PredictionHandler: predictionHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
