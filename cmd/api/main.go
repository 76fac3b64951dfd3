package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/unisga/academic-service/internal/adapters/cache"
	"github.com/unisga/academic-service/internal/adapters/handler"
	"github.com/unisga/academic-service/internal/adapters/middleware"
	"github.com/unisga/academic-service/internal/adapters/repository"
	"github.com/unisga/academic-service/internal/config"
	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/services"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := repository.Migrate(db, cfg.MigrationsURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	classRepo := repository.NewClassRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	identityCache := cache.NewRedisIdentityCache(redisClient, cfg.IdentityCacheTTL)

	authService := services.NewAuthService(userRepo, cfg.JWTPrivateKey, cfg.TokenTTL)
	userService := services.NewUserService(userRepo, classRepo, enrollmentRepo, identityCache)
	subjectService := services.NewSubjectService(subjectRepo, classRepo)
	classService := services.NewClassService(classRepo, subjectRepo, userRepo, enrollmentRepo)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, classRepo, userRepo)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey, userRepo, identityCache)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	subjectHandler := handler.NewSubjectHandler(subjectService)
	classHandler := handler.NewClassHandler(classService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	adminOnly := []domain.Role{domain.RoleAdmin}
	adminOrProfessor := []domain.Role{domain.RoleAdmin, domain.RoleProfessor}
	adminOrStudent := []domain.Role{domain.RoleAdmin, domain.RoleStudent}
	studentOnly := []domain.Role{domain.RoleStudent}

	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Auth (public)
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("POST /auth/reset-password", authHandler.ResetPassword)

	// Users
	mux.HandleFunc("GET /users/profile", authMiddleware.Authenticate(userHandler.Profile))
	mux.HandleFunc("GET /users/professors", authMiddleware.Authenticate(userHandler.Professors))
	mux.HandleFunc("GET /users/students", authMiddleware.Authenticate(userHandler.Students))
	mux.HandleFunc("GET /users", authMiddleware.RequireRole(adminOnly, userHandler.List))
	mux.HandleFunc("GET /users/{id}", authMiddleware.RequireRole(adminOnly, userHandler.Get))
	mux.HandleFunc("PUT /users/{id}", authMiddleware.RequireRole(adminOnly, userHandler.Update))
	mux.HandleFunc("DELETE /users/{id}", authMiddleware.RequireRole(adminOnly, userHandler.Delete))

	// Subjects
	mux.HandleFunc("GET /subjects", authMiddleware.Authenticate(subjectHandler.List))
	mux.HandleFunc("GET /subjects/{id}", authMiddleware.Authenticate(subjectHandler.Get))
	mux.HandleFunc("POST /subjects", authMiddleware.RequireRole(adminOnly, subjectHandler.Create))
	mux.HandleFunc("PUT /subjects/{id}", authMiddleware.RequireRole(adminOnly, subjectHandler.Update))
	mux.HandleFunc("DELETE /subjects/{id}", authMiddleware.RequireRole(adminOnly, subjectHandler.Delete))

	// Classes
	mux.HandleFunc("GET /classes", authMiddleware.Authenticate(classHandler.List))
	mux.HandleFunc("GET /classes/{id}", authMiddleware.Authenticate(classHandler.Get))
	mux.HandleFunc("GET /classes/profesor/{id_profesor}", authMiddleware.RequireRole(adminOrProfessor, classHandler.ListByProfessor))
	mux.HandleFunc("GET /classes/{id}/students", authMiddleware.RequireRole(adminOrProfessor, classHandler.Students))
	mux.HandleFunc("POST /classes", authMiddleware.RequireRole(adminOnly, classHandler.Create))
	mux.HandleFunc("PUT /classes/{id}", authMiddleware.RequireRole(adminOrProfessor, classHandler.Update))
	mux.HandleFunc("DELETE /classes/{id}", authMiddleware.RequireRole(adminOnly, classHandler.Delete))

	// Enrollments
	mux.HandleFunc("POST /enrollments", authMiddleware.RequireRole(studentOnly, enrollmentHandler.Create))
	mux.HandleFunc("GET /enrollments/my-enrollments", authMiddleware.RequireRole(studentOnly, enrollmentHandler.ListMine))
	mux.HandleFunc("GET /enrollments/available-classes", authMiddleware.RequireRole(studentOnly, enrollmentHandler.AvailableClasses))
	mux.HandleFunc("GET /enrollments/my-schedule", authMiddleware.RequireRole(studentOnly, enrollmentHandler.Schedule))
	mux.HandleFunc("GET /enrollments/user/{id_usuario}", authMiddleware.RequireRole(adminOnly, enrollmentHandler.ListByUser))
	mux.HandleFunc("GET /enrollments", authMiddleware.RequireRole(adminOnly, enrollmentHandler.ListAll))
	mux.HandleFunc("DELETE /enrollments/{id}", authMiddleware.RequireRole(adminOrStudent, enrollmentHandler.Delete))

	// Welcome payload on "/", JSON 404 for everything unmatched
	mux.HandleFunc("/", handler.Index)

	root := middleware.Metrics(middleware.CORSMiddleware(cfg.AllowedOrigins)(mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %s", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal %v, shutting down...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
