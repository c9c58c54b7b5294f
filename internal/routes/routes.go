package routes

import (
	"worksite-task-api/internal/handlers"
	"worksite-task-api/internal/middleware"
	"worksite-task-api/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Worksite Task API is running",
		})
	})

	// Uploaded files are served statically and referenced by relative URL
	ginRouter.Static("/uploads", handlers.UploadDir)

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/auth/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/auth/me", handlers.Me)
		protected.GET("/auth/verify-token", handlers.VerifyToken)

		// Worker-scoped task views (any authenticated caller)
		protected.GET("/worker/:workerId/tasks", handlers.GetWorkerTasks)
		protected.PATCH("/worker/tasks/:id/status", handlers.UpdateWorkerTaskStatus)

		// Work reports
		protected.GET("/work/task/:taskId", handlers.GetReportsByTask)
		protected.GET("/work/my-reports", handlers.GetMyReports)

		// Generic file upload (images/docs, 10MB cap)
		protected.POST("/upload", handlers.UploadFile)
	}

	adminOnly := protected.Group("")
	adminOnly.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		adminOnly.POST("/users", handlers.CreateUser)
		adminOnly.GET("/users", handlers.GetAllUsers)
		adminOnly.GET("/users/:id", handlers.GetUserByID)
		adminOnly.PUT("/users/:id", handlers.UpdateUser)
		adminOnly.DELETE("/users/:id", handlers.DeleteUser)
		adminOnly.POST("/users/bulk-upload", handlers.BulkUploadUsers)

		adminOnly.GET("/tasks/today", handlers.GetTodayTasks)
		adminOnly.PUT("/tasks/update-today", handlers.UpdateTodaySelection)
		adminOnly.POST("/tasks/upload-excel", handlers.UploadTasksExcel)
		adminOnly.DELETE("/tasks/:id", handlers.DeleteTask)
	}

	supervisorOnly := protected.Group("")
	supervisorOnly.Use(middleware.RequireRoles(models.RoleSupervisor))
	{
		supervisorOnly.GET("/tasks/supervisor-today", handlers.GetSupervisorTodayTasks)
	}

	adminOrSupervisor := protected.Group("")
	adminOrSupervisor.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor))
	{
		adminOrSupervisor.GET("/tasks", handlers.GetTasks)
		adminOrSupervisor.POST("/tasks", handlers.CreateTask)
		adminOrSupervisor.GET("/tasks/dashboard-stats", handlers.GetDashboardStats)
		adminOrSupervisor.GET("/tasks/:id", handlers.GetTaskByID)
		adminOrSupervisor.PUT("/tasks/:id", handlers.UpdateTask)

		adminOrSupervisor.POST("/work/submit", handlers.SubmitWorkReport)
		adminOrSupervisor.GET("/work/all-reports", handlers.GetAllReports)
	}

	// Realtime channel: every accepted connection becomes a subscriber
	protected.GET("/ws", handlers.WebSocketHandler)

	return ginRouter
}
