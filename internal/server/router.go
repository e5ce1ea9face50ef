package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pawlog/pawlog-backend/internal/handlers"
	"github.com/pawlog/pawlog-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware        *middleware.AuthMiddleware
	InternalKeyMiddleware *middleware.InternalKeyMiddleware
	UserHandler           *handlers.UserHandler
	TodayHandler          *handlers.TodayHandler
	ActionsHandler        *handlers.ActionsHandler
	HistoryHandler        *handlers.HistoryHandler
	AdminHandler          *handlers.AdminHandler
	InternalHandler       *handlers.InternalHandler
	AllowOrigins          []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Internal-Key"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.POST("/users/sync", cfg.UserHandler.Sync)
		api.GET("/user", cfg.UserHandler.Current)

		api.GET("/today", cfg.TodayHandler.GetToday)
		api.GET("/history", cfg.HistoryHandler.GetForDate)

		api.POST("/instances/:id/confirm", cfg.ActionsHandler.Confirm)
		api.POST("/instances/:id/snooze", cfg.ActionsHandler.Snooze)
		api.POST("/instances/:id/undo", cfg.ActionsHandler.Undo)
		api.POST("/observations", cfg.ActionsHandler.AddObservation)

		admin := api.Group("/admin")
		{
			admin.GET("/pet", cfg.AdminHandler.GetPet)
			admin.GET("/items", cfg.AdminHandler.ListItems)
			admin.POST("/items", cfg.AdminHandler.AddItem)
			admin.PATCH("/items/:id", cfg.AdminHandler.UpdateItem)
			admin.POST("/items/:id/activate", cfg.AdminHandler.ActivateItem)
			admin.POST("/items/:id/deactivate", cfg.AdminHandler.DeactivateItem)
			admin.POST("/items/:id/schedules", cfg.AdminHandler.AddSchedule)
			admin.DELETE("/schedules/:scheduleId", cfg.AdminHandler.RemoveSchedule)
		}
	}

	// Operator-only
	internal := router.Group("/internal")
	internal.Use(cfg.InternalKeyMiddleware.RequireKey())
	{
		internal.POST("/generate", cfg.InternalHandler.Generate)
		internal.POST("/test-seed", cfg.InternalHandler.TestSeed)
	}

	return router
}
