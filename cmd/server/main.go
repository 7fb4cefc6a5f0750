package main

import (
	"log"
	"os"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/mpetrenko/visitboard/internal/config"
	"github.com/mpetrenko/visitboard/internal/constants"
	"github.com/mpetrenko/visitboard/internal/database"
	"github.com/mpetrenko/visitboard/internal/handlers"
	"github.com/mpetrenko/visitboard/internal/middleware"
	"github.com/mpetrenko/visitboard/internal/repository"
	"github.com/mpetrenko/visitboard/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)
	if cfg.GinMode != "release" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations and first-boot seeding
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(middleware.RequestID())
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Wire repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	visitRepo := repository.NewVisitRepository(db)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, roleRepo)
	visitService := services.NewVisitService(visitRepo, userRepo)

	// Every routed request is recorded before its handler runs
	r.Use(middleware.VisitRecorder(visitService))

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	logsHandler := handlers.NewLogsHandler(visitService)

	// Static assets, excluded from visit recording
	r.Static("/static", "./static")

	// Public routes
	r.POST("/login", authHandler.Login)
	r.GET("/", userHandler.Index)

	// Authenticated routes
	r.GET("/logout", middleware.RequireAuth(), authHandler.Logout)
	r.POST("/change-password", middleware.RequireAuth(), authHandler.ChangePassword)

	user := r.Group("/user")
	user.Use(middleware.RequireAuth())
	{
		user.GET("/:id", userHandler.GetUser)
		user.POST("/create", middleware.RequireRole(constants.RoleAdmin), userHandler.CreateUser)
		user.POST("/edit/:id", userHandler.UpdateUser)
		user.POST("/delete/:id", middleware.RequireRole(constants.RoleAdmin), userHandler.DeleteUser)
	}

	r.GET("/roles", middleware.RequireAuth(), middleware.RequireRole(constants.RoleAdmin), userHandler.ListRoles)

	logs := r.Group("/logs")
	logs.Use(middleware.RequireAuth())
	{
		logs.GET("/", logsHandler.List)
		logs.GET("/pages", middleware.RequireRole(constants.RoleAdmin), logsHandler.PageStats)
		logs.GET("/pages/export", middleware.RequireRole(constants.RoleAdmin), logsHandler.ExportPageStats)
		logs.GET("/users", middleware.RequireRole(constants.RoleAdmin), logsHandler.UserStats)
		logs.GET("/users/export", middleware.RequireRole(constants.RoleAdmin), logsHandler.ExportUserStats)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
