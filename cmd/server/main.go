package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/api"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/ai"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/sandbox"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/service"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common/security"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/repository"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/platform/cache"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/platform/config"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.Migrate()
	fmt.Println("Database connected and migrated.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	adminRepo := repository.NewPgAdminRepository(database.DB)
	teacherRepo := repository.NewPgTeacherRepository(database.DB)
	studentRepo := repository.NewPgStudentRepository(database.DB)
	taskRepo := repository.NewPgTaskRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	notificationRepo := repository.NewPgNotificationRepository(database.DB)
	referenceRepo := repository.NewPgReferenceRepository(database.DB)

	// 6. Initialize Services
	authService := service.NewAuthService(adminRepo, teacherRepo, studentRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	studentService := service.NewStudentService(studentRepo, notificationService)
	teacherService := service.NewTeacherService(teacherRepo, notificationService)
	taskService := service.NewTaskService(taskRepo, notificationService)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, studentRepo, notificationService)
	progressService := service.NewProgressService(studentRepo, taskRepo, submissionRepo, cache.RDB, config.AppConfig.ProgressCacheTTL)
	referenceService := service.NewReferenceService(referenceRepo)

	// 7. Seed reference data and the bootstrap admin
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer seedCancel()
	if err := referenceService.Seed(seedCtx); err != nil {
		log.Fatalf("Reference seeding failed: %v", err)
	}
	if err := authService.EnsureDefaultAdmin(seedCtx); err != nil {
		log.Fatalf("Default admin setup failed: %v", err)
	}
	fmt.Println("Reference data seeded.")

	// 8. Collaborators
	runner := sandbox.NewLocal(config.AppConfig.RunTimeout)
	aiClient := ai.NewClient(config.AppConfig.AIBaseURL, config.AppConfig.AIAPIKey, config.AppConfig.AIModel, config.AppConfig.AITimeout)

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(
		authService,
		studentService,
		teacherService,
		taskService,
		submissionService,
		notificationService,
		progressService,
		referenceService,
		runner,
		aiClient,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
