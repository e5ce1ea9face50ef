package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/db"
	"github.com/pawlog/pawlog-backend/internal/handlers"
	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/middleware"
	"github.com/pawlog/pawlog-backend/internal/repos"
	"github.com/pawlog/pawlog-backend/internal/scheduler"
	"github.com/pawlog/pawlog-backend/internal/server"
	"github.com/pawlog/pawlog-backend/internal/services"
	"github.com/pawlog/pawlog-backend/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

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

	// Env
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	internalKey := utils.GetEnv("INTERNAL_API_KEY", "", log)
	port := utils.GetEnv("PORT", "8080", log)
	allowOrigin := utils.GetEnv("CORS_ALLOW_ORIGIN", "http://localhost:3000", log)
	generateAtHour := utils.GetEnvAsInt("GENERATE_AT_HOUR", 0, log)
	generateAtMinute := utils.GetEnvAsInt("GENERATE_AT_MINUTE", 5, log)

	// Database
	var gormDB *gorm.DB
	switch utils.GetEnv("DB_DRIVER", "postgres", log) {
	case "sqlite":
		sqlitePath := utils.GetEnv("SQLITE_PATH", "pawlog.db", log)
		gormDB, err = db.NewSQLite(sqlitePath, log)
		if err != nil {
			log.Fatal("SQLite init failed", "error", err)
		}
	default:
		postgresService, err := db.NewPostgresService(log)
		if err != nil {
			log.Fatal("Postgres init failed", "error", err)
		}
		if err := postgresService.AutoMigrateAll(); err != nil {
			log.Fatal("Postgres auto migration failed", "error", err)
		}
		gormDB = postgresService.DB()
	}

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(gormDB, log)
	petRepo := repos.NewPetRepo(gormDB, log)
	itemRepo := repos.NewItemRepo(gormDB, log)
	scheduleRepo := repos.NewItemScheduleRepo(gormDB, log)
	instanceRepo := repos.NewDailyInstanceRepo(gormDB, log)
	historyRepo := repos.NewConfirmationHistoryRepo(gormDB, log)

	// Services
	log.Info("Setting up services...")
	authService := services.NewAuthService(log, jwtSecretKey)
	userService := services.NewUserService(gormDB, log, userRepo)
	catalogService := services.NewCatalogService(gormDB, log, userRepo, petRepo, itemRepo, scheduleRepo)
	generatorService := services.NewGeneratorService(gormDB, log, itemRepo, scheduleRepo, instanceRepo)
	lifecycleService := services.NewLifecycleService(gormDB, log, userRepo, instanceRepo, historyRepo)
	todayService := services.NewTodayService(gormDB, log, itemRepo, instanceRepo)
	historyService := services.NewHistoryService(gormDB, log, userRepo, itemRepo, instanceRepo, historyRepo)
	seedService := services.NewSeedService(gormDB, log, petRepo, itemRepo, scheduleRepo, instanceRepo, historyRepo)

	if utils.GetEnv("SEED_DEMO_DATA", "false", log) == "true" {
		if err := seedService.SeedDemoData(context.Background()); err != nil {
			log.Warn("Demo seed failed", "error", err)
		}
	}

	// Daily generation trigger
	cron, err := scheduler.Start(log, generatorService, scheduler.Config{
		AtHour:   generateAtHour,
		AtMinute: generateAtMinute,
	})
	if err != nil {
		log.Fatal("Scheduler init failed", "error", err)
	}
	defer func() { _ = cron.Shutdown() }()

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:        middleware.NewAuthMiddleware(log, authService),
		InternalKeyMiddleware: middleware.NewInternalKeyMiddleware(log, internalKey),
		UserHandler:           handlers.NewUserHandler(userService),
		TodayHandler:          handlers.NewTodayHandler(todayService),
		ActionsHandler:        handlers.NewActionsHandler(lifecycleService),
		HistoryHandler:        handlers.NewHistoryHandler(historyService),
		AdminHandler:          handlers.NewAdminHandler(catalogService),
		InternalHandler:       handlers.NewInternalHandler(generatorService, seedService),
		AllowOrigins:          []string{allowOrigin},
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
