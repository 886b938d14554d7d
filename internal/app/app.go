package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/meetgo/server/cmd/server/docs" // swagger docs
	"github.com/meetgo/server/internal/module/auth"
	"github.com/meetgo/server/internal/module/auth/oauth"
	"github.com/meetgo/server/internal/module/friend"
	"github.com/meetgo/server/internal/module/meeting"
	"github.com/meetgo/server/internal/module/storage"
	"github.com/meetgo/server/internal/module/user"
	sharedcache "github.com/meetgo/server/internal/shared/cache"
	"github.com/meetgo/server/internal/shared/config"
	"github.com/meetgo/server/internal/shared/database"
	"github.com/meetgo/server/internal/shared/events"
	"github.com/meetgo/server/internal/shared/logger"
	"github.com/meetgo/server/internal/shared/metrics"
	"github.com/meetgo/server/internal/shared/middleware"
)

// App represents the application.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     redis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger

	// Shared infrastructure
	eventBus *events.Bus
	metrics  *metrics.Metrics

	// Modules
	authHandler    *auth.Handler
	authService    *auth.Service
	rateLimiter    *auth.RateLimiter
	userHandler    *user.Handler
	meetingHandler *meeting.Handler
	friendHandler  *friend.Handler

	// Cross-module services
	meetingRepo   meeting.Repository
	avatarService *storage.AvatarService
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	// Initialize logger
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	// Initialize zap logger for modules that use zap
	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New("meetgo"),
	}

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.InstrumentMetrics(db, app.metrics); err != nil {
		return nil, fmt.Errorf("instrument database: %w", err)
	}
	app.db = db

	// Initialize Redis (optional)
	if cfg.Redis.Address != "" {
		redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("Redis connection failed, rate limiting and OAuth state fall back to memory", "error", err)
		} else {
			app.redis = redisClient
		}
	}

	// Initialize router
	app.router = app.setupRouter()

	// Initialize modules
	if err := app.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.registerRoutes()

	return app, nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	// Set Gin mode based on environment
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Metrics(a.metrics))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// initModules initializes all application modules.
func (a *App) initModules() error {
	// Event bus for membership events
	a.eventBus = events.NewBus(a.zapLogger)

	if err := a.initStorageModule(); err != nil {
		return fmt.Errorf("init storage module: %w", err)
	}
	if err := a.initAuthModule(); err != nil {
		return fmt.Errorf("init auth module: %w", err)
	}
	if err := a.initUserModule(); err != nil {
		return fmt.Errorf("init user module: %w", err)
	}
	if err := a.initMeetingModule(); err != nil {
		return fmt.Errorf("init meeting module: %w", err)
	}
	if err := a.initFriendModule(); err != nil {
		return fmt.Errorf("init friend module: %w", err)
	}

	// Register event handlers after all modules are initialized
	a.registerEventHandlers()

	return nil
}

// registerEventHandlers registers all membership event handlers.
func (a *App) registerEventHandlers() {
	// Meeting module maintains the per-user meeting index
	indexHandler := meeting.NewIndexHandler(a.meetingRepo, a.zapLogger)
	a.eventBus.Register(indexHandler)

	// Record membership events in prometheus
	metricsHandler := events.NewHandlerFunc(
		[]string{
			events.MeetingCreatedType,
			events.MeetingDeletedType,
			events.ParticipantJoinedType,
			events.ParticipantLeftType,
		},
		func(e events.Event) error {
			a.metrics.RecordMeetingEvent(e.EventType())
			return nil
		},
	)
	a.eventBus.Register(metricsHandler)
}

// initStorageModule initializes the avatar storage client.
func (a *App) initStorageModule() error {
	// Skip if storage is not configured; the avatar endpoint degrades to 503
	if a.config.Storage.Endpoint == "" || a.config.Storage.Bucket == "" {
		a.logger.Warn("avatar storage disabled, storage not configured")
		return nil
	}

	client, err := storage.NewClient(&storage.Config{
		Endpoint:        a.config.Storage.Endpoint,
		Region:          a.config.Storage.Region,
		AccessKeyID:     a.config.Storage.AccessKeyID,
		SecretAccessKey: a.config.Storage.SecretAccessKey,
		Bucket:          a.config.Storage.Bucket,
		PublicBaseURL:   a.config.Storage.PublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}

	a.avatarService = storage.NewAvatarService(client, a.metrics)
	return nil
}

// initAuthModule initializes the auth module.
func (a *App) initAuthModule() error {
	// Create repositories
	userRepo := auth.NewUserRepository(a.db)
	tokenRepo := auth.NewRefreshTokenRepository(a.db)

	// Create OAuth provider registry
	oauthRegistry := oauth.NewRegistry()
	if a.config.OAuth.Kakao.ClientID != "" {
		oauthRegistry.Register(oauth.NewKakaoProvider(&oauth.Config{
			ClientID:     a.config.OAuth.Kakao.ClientID,
			ClientSecret: a.config.OAuth.Kakao.ClientSecret,
			RedirectURL:  a.config.OAuth.Kakao.RedirectURL,
		}))
	}

	// Create state store (Redis-backed when available)
	var stateStore auth.StateStore
	if a.redis != nil {
		stateStore = auth.NewRedisStateStore(a.redis, 0)
	} else {
		stateStore = auth.NewMemoryStateStore(0)
	}

	authService := auth.NewService(
		userRepo,
		tokenRepo,
		oauthRegistry,
		stateStore,
		&auth.ServiceConfig{
			JWTConfig: &auth.JWTConfig{
				Secret:             a.config.Auth.JWTSecret,
				AccessTokenExpiry:  a.config.Auth.AccessTokenExpiry,
				RefreshTokenExpiry: a.config.Auth.RefreshTokenExpiry,
			},
			Metrics: a.metrics,
		},
	)
	a.authService = authService

	// Login rate limiter (only if Redis is available)
	if a.redis != nil {
		a.rateLimiter = auth.NewRateLimiter(a.redis)
	}

	a.authHandler = auth.NewHandler(authService, a.rateLimiter, a.config.Auth.LoginRateLimitRPM)

	return nil
}

// initUserModule initializes the user module.
func (a *App) initUserModule() error {
	userRepo := user.NewRepository(a.db)
	tokenRepo := auth.NewRefreshTokenRepository(a.db)

	// avatarService is nil when storage is not configured
	var avatars user.AvatarStorage
	if a.avatarService != nil {
		avatars = a.avatarService
	}

	userService := user.NewService(
		userRepo,
		tokenRepo,
		a.authService.JWTManager(),
		avatars,
		a.metrics,
		a.zapLogger,
	)

	a.userHandler = user.NewHandler(userService, avatars)

	return nil
}

// initMeetingModule initializes the meeting module.
func (a *App) initMeetingModule() error {
	a.meetingRepo = meeting.NewRepository(a.db)
	userRepo := meeting.NewUserRepository(a.db)

	meetingService := meeting.NewService(
		a.meetingRepo,
		userRepo,
		a.eventBus,
		a.metrics,
		a.zapLogger,
		a.config.Meeting.OpenEnrollment,
	)

	a.meetingHandler = meeting.NewHandler(meetingService)

	return nil
}

// initFriendModule initializes the friend module.
func (a *App) initFriendModule() error {
	friendRepo := friend.NewRepository(a.db)
	userRepo := friend.NewUserRepository(a.db)

	friendService := friend.NewService(friendRepo, userRepo, a.metrics, a.zapLogger)

	a.friendHandler = friend.NewHandler(friendService)

	return nil
}

// registerRoutes registers routes for all modules.
func (a *App) registerRoutes() {
	// API v1 group
	v1 := a.router.Group("/api/v1")

	// Public routes (no auth required)
	publicRouter := v1.Group("")

	// Protected routes (requires auth)
	protectedRouter := v1.Group("")
	protectedRouter.Use(a.authHandler.AuthMiddleware())

	// Public module routes
	a.authHandler.RegisterRoutes(publicRouter)
	a.userHandler.RegisterRoutes(publicRouter)

	// Protected module routes
	a.authHandler.RegisterProtectedRoutes(protectedRouter)
	a.userHandler.RegisterProtectedRoutes(protectedRouter)
	a.meetingHandler.RegisterProtectedRoutes(protectedRouter)
	a.friendHandler.RegisterProtectedRoutes(protectedRouter)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop stops the application and releases resources.
func (a *App) Stop() {
	// Sync zap logger
	if a.zapLogger != nil {
		_ = a.zapLogger.Sync()
	}

	// Close Redis connection
	if a.redis != nil {
		_ = a.redis.Close()
	}

	// Close database connection
	if a.db != nil {
		_ = database.Close(a.db)
	}
}
