package main

import (
	"log"

	"worksite-task-api/internal/config"
	"worksite-task-api/internal/database"
	"worksite-task-api/internal/handlers"
	"worksite-task-api/internal/routes"
)

func main() {
	cfg := config.Load()

	// Init database
	database.InitDB(cfg.DatabasePath)
	if err := database.SeedAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("Failed to seed admin user: ", err)
	}

	handlers.UploadDir = cfg.UploadDir

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server starting on port %s", port)
	log.Println("API endpoints:")
	log.Println("  POST   /api/auth/login")
	log.Println("  GET    /api/auth/me")
	log.Println("  POST   /api/users")
	log.Println("  POST   /api/users/bulk-upload")
	log.Println("  GET    /api/tasks")
	log.Println("  POST   /api/tasks")
	log.Println("  PUT    /api/tasks/update-today")
	log.Println("  POST   /api/tasks/upload-excel")
	log.Println("  GET    /api/worker/:workerId/tasks")
	log.Println("  POST   /api/work/submit")
	log.Println("  GET    /api/ws")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
