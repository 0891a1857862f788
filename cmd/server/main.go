package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/database"
	"taskflow/internal/handlers"
	"taskflow/internal/repository"
	"taskflow/internal/security"
	"taskflow/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := config.Load()

	// Initialize database (supports postgres, mysql, sqlite)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	familyRepo := repository.NewFamilyRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.FrontendURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	jwtSecret := []byte(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, emailService, jwtSecret, cfg.TokenDuration)
	taskService := service.NewTaskService(taskRepo)
	familyService := service.NewFamilyService(familyRepo)
	dashboardService := service.NewDashboardService(taskRepo)

	// Initialize handlers
	rateLimiter := security.NewRateLimiter(20, time.Minute)
	middleware := handlers.NewMiddleware(jwtSecret, rateLimiter)
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	familyHandler := handlers.NewFamilyHandler(familyService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /{$}", dashboardHandler.Index)
	mux.HandleFunc("GET /api/health", dashboardHandler.Health)
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/forgot-password", middleware.RateLimit(authHandler.ForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", middleware.RateLimit(authHandler.ResetPassword))

	// Personal task routes
	mux.HandleFunc("POST /api/tasks", middleware.RequireAuth(taskHandler.Create))
	mux.HandleFunc("GET /api/tasks", middleware.RequireAuth(taskHandler.List))
	mux.HandleFunc("PUT /api/tasks/{id}", middleware.RequireAuth(taskHandler.Update))
	mux.HandleFunc("DELETE /api/tasks/{id}", middleware.RequireAuth(taskHandler.Delete))
	mux.HandleFunc("POST /api/tasks/archive", middleware.RequireAuth(taskHandler.Archive))

	// Family routes
	mux.HandleFunc("POST /api/family/create", middleware.RequireAuth(familyHandler.Create))
	mux.HandleFunc("POST /api/family/join", middleware.RequireAuth(familyHandler.Join))
	mux.HandleFunc("GET /api/family/info", middleware.RequireAuth(familyHandler.Info))
	mux.HandleFunc("GET /api/family/members", middleware.RequireAuth(familyHandler.Members))
	mux.HandleFunc("GET /api/family/tasks", middleware.RequireAuth(familyHandler.Tasks))
	mux.HandleFunc("POST /api/family/tasks", middleware.RequireAuth(familyHandler.CreateTask))
	mux.HandleFunc("PUT /api/family/tasks/{taskId}", middleware.RequireAuth(familyHandler.UpdateTask))
	mux.HandleFunc("DELETE /api/family/tasks/{taskId}", middleware.RequireAuth(familyHandler.DeleteTask))

	// Dashboard routes
	mux.HandleFunc("GET /api/dashboard/stats", middleware.RequireAuth(dashboardHandler.Stats))
	mux.HandleFunc("GET /api/dashboard/analytics", middleware.RequireAuth(dashboardHandler.Analytics))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background cleanup of expired password reset tokens
	go cleanupExpiredResetTokens(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// cleanupExpiredResetTokens periodically removes expired password
// reset tokens
func cleanupExpiredResetTokens(authService *service.AuthService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredResetTokens(); err != nil {
			log.Printf("Failed to clean up expired reset tokens: %v", err)
		}
	}
}
