package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	contactapp "github.com/contactbook/backend/internal/application/contact"
	identityapp "github.com/contactbook/backend/internal/application/identity"
	"github.com/contactbook/backend/internal/infrastructure/auth"
	"github.com/contactbook/backend/internal/infrastructure/avatar"
	"github.com/contactbook/backend/internal/infrastructure/config"
	"github.com/contactbook/backend/internal/infrastructure/logger"
	"github.com/contactbook/backend/internal/infrastructure/mail"
	"github.com/contactbook/backend/internal/infrastructure/persistence"
	"github.com/contactbook/backend/internal/infrastructure/ratelimit"
	"github.com/contactbook/backend/internal/interfaces/http/handler"
	"github.com/contactbook/backend/internal/interfaces/http/middleware"
	"github.com/contactbook/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting contact book backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)

	// Confirmation mail events
	var mailer mail.Publisher
	if cfg.Mail.Enabled {
		mailer = mail.NewKafkaPublisher(cfg.Mail, log)
		log.Info("Mail event publisher enabled",
			zap.String("broker", cfg.Mail.Broker),
			zap.String("topic", cfg.Mail.Topic),
		)
	} else {
		mailer = mail.NewNopPublisher(log)
	}
	defer func() {
		if err := mailer.Close(); err != nil {
			log.Error("Error closing mail publisher", zap.Error(err))
		}
	}()

	// Avatar storage
	uploader, err := avatar.NewCloudinaryUploader(cfg.Avatar)
	if err != nil {
		log.Fatal("Failed to initialize avatar uploader", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, mailer, log)
	userService := identityapp.NewUserService(userRepo, uploader, log)
	contactService := contactapp.NewContactService(contactRepo, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	contactHandler := handler.NewContactHandler(contactService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health checks stay outside of authentication
	engine.GET("/health", systemHandler.Health)
	engine.GET("/api/v1/health", systemHandler.Health)

	// Rate limiters; the create/list/auth routes carry their own budgets on
	// top of the default one
	var redisClient *redis.Client
	newLimiter := func(rule config.RateLimitRule) ratelimit.Limiter {
		if !cfg.RateLimit.Enabled {
			return nil
		}
		if cfg.RateLimit.Backend == "redis" {
			if redisClient == nil {
				redisClient = redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Addr(),
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
			}
			return ratelimit.NewRedisLimiter(redisClient, rule.Requests, rule.Window, cfg.App.Name, true)
		}
		return ratelimit.NewMemoryLimiter(rule.Requests, rule.Window)
	}
	limit := func(rule config.RateLimitRule, keyFunc middleware.RateLimitKeyFunc) gin.HandlerFunc {
		limiter := newLimiter(rule)
		if limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(limiter, keyFunc, log)
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}
	}()
	if cfg.RateLimit.Enabled {
		log.Info("Rate limiting enabled", zap.String("backend", cfg.RateLimit.Backend))
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.DefaultJWTConfig(jwtService)))
	r.Use(limit(cfg.RateLimit.Default, middleware.KeyByUser))

	// Auth routes, throttled by client IP since callers are anonymous
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.Use(limit(cfg.RateLimit.Auth, middleware.KeyByIP))
	authRoutes.POST("/signup", authHandler.Signup)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.GET("/refresh_token", authHandler.Refresh)
	authRoutes.GET("/confirmed_email/:token", authHandler.ConfirmEmail)
	authRoutes.POST("/request_email", authHandler.RequestEmail)

	// Account routes
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.GET("/me", userHandler.Me)
	userRoutes.PATCH("/avatar", userHandler.UpdateAvatar)

	// Contact routes; create and list carry dedicated per-user budgets
	contactRoutes := router.NewDomainGroup("contacts", "/contacts")
	contactRoutes.GET("", limit(cfg.RateLimit.ContactList, middleware.KeyByUser), contactHandler.List)
	contactRoutes.POST("", limit(cfg.RateLimit.ContactCreate, middleware.KeyByUser), contactHandler.Create)
	contactRoutes.GET("/query", contactHandler.Search)
	contactRoutes.GET("/birthdays", contactHandler.Birthdays)
	contactRoutes.GET("/:id", contactHandler.GetByID)
	contactRoutes.PUT("/:id", contactHandler.Update)
	contactRoutes.DELETE("/:id", contactHandler.Delete)

	r.Register(authRoutes).
		Register(userRoutes).
		Register(contactRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
