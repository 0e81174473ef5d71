package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"parkmate/internal/caching"
	"parkmate/internal/common"
	"parkmate/internal/handlers"
	"parkmate/internal/middleware"
	"parkmate/internal/models"
	"parkmate/internal/services"
	"parkmate/internal/store"
)

const version = "1.0.0"

// Session tokens expire after 24 hours; there is no refresh flow.
const tokenTTL = 24 * time.Hour

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Users table name
	usersTable := os.Getenv("USERS_TABLE")
	if usersTable == "" {
		usersTable = "ParkMateUsers"
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// Document store and cache
	docStore := store.NewPostgresStore(pool, "userId")
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	authSvc := services.NewAuthService(docStore, usersTable, []byte(jwtSecret), tokenTTL)
	allocator := services.NewDisplayIDAllocator(docStore, usersTable)
	inspectorSvc := services.NewInspectorService(docStore, cacheSvc, usersTable, allocator)
	officerSvc := services.NewOfficerService(docStore, cacheSvc, usersTable, allocator)
	ownerSvc := services.NewOwnerService(docStore, cacheSvc, usersTable)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, cacheSvc)
	inspectorHandlers := handlers.NewInspectorHandlers(inspectorSvc)
	officerHandlers := handlers.NewOfficerHandlers(officerSvc)
	ownerHandlers := handlers.NewOwnerHandlers(ownerSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Create Echo instance
	e := echo.New()
	e.Validator = common.NewRequestValidator()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware()

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	// Login (no JWT required)
	e.POST("/login", authHandlers.Login)

	// Protected routes
	protected := e.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.GET("/me", authHandlers.Me)

	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))
	v1.Use(middleware.JWT(authSvc))

	adminRead := middleware.RequireRole(models.RoleSuperAdmin, models.RoleMunicipalAdmin)
	adminWrite := middleware.RequireRole(models.RoleSuperAdmin)

	// Inspector routes
	v1.GET("/inspectors", inspectorHandlers.ListInspectors, adminRead)
	v1.POST("/inspectors", inspectorHandlers.CreateInspector, adminWrite)
	v1.GET("/inspectors/:id", inspectorHandlers.GetInspector, adminRead)
	v1.PUT("/inspectors/:id", inspectorHandlers.UpdateInspector, adminWrite)
	v1.DELETE("/inspectors/:id", inspectorHandlers.DeleteInspector, adminWrite)
	v1.PUT("/inspectors/:id/status", inspectorHandlers.UpdateInspectorStatus, adminWrite)
	// Zone assignment is a council-admin operation
	v1.PUT("/inspectors/:id/zone", inspectorHandlers.AssignInspectorZone, adminRead)

	// Officer routes
	v1.GET("/officers", officerHandlers.ListOfficers, adminRead)
	v1.POST("/officers", officerHandlers.CreateOfficer, adminWrite)
	v1.GET("/officers/:id", officerHandlers.GetOfficer, adminRead)
	v1.PUT("/officers/:id", officerHandlers.UpdateOfficer, adminWrite)
	v1.DELETE("/officers/:id", officerHandlers.DeleteOfficer, adminWrite)
	v1.PUT("/officers/:id/status", officerHandlers.UpdateOfficerStatus, adminWrite)

	// Owner routes (owners are provisioned externally, no create route)
	v1.GET("/owners", ownerHandlers.ListOwners, adminRead)
	v1.GET("/owners/nic/:nic", ownerHandlers.GetOwnerByNIC, adminRead)
	v1.GET("/owners/:id", ownerHandlers.GetOwner, adminRead)
	v1.PUT("/owners/:id", ownerHandlers.UpdateOwner, adminWrite)
	v1.DELETE("/owners/:id", ownerHandlers.DeleteOwner, adminWrite)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("ParkMate admin server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
