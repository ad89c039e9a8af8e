package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"TapaalTracker/internal/auth"
	"TapaalTracker/internal/cache"
	"TapaalTracker/internal/chatbot"
	"TapaalTracker/internal/config"
	"TapaalTracker/internal/dashboard"
	"TapaalTracker/internal/department"
	"TapaalTracker/internal/mail"
	"TapaalTracker/internal/notification"
	"TapaalTracker/internal/storage"
	"TapaalTracker/pkg/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// CoreModules provides configuration, logging, MongoDB and the user store. The
// create-admin command runs on it alone.
var CoreModules = fx.Module("core",
	fx.Provide(config.NewLogger),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewAuthConfig),
	fx.Provide(auth.NewUserRepository),
	fx.Provide(newUserService),
)

// DomainModules provides the mail, department, notification, dashboard and chat services.
var DomainModules = fx.Module("domain",
	fx.Provide(config.NewServerConfig),
	fx.Provide(config.NewRedisConfig),
	fx.Provide(config.NewRedisClient),
	fx.Provide(config.NewEmailConfig),
	fx.Provide(config.NewEmailService),
	fx.Provide(config.NewReminderConfig),
	fx.Provide(config.NewGeminiConfig),
	fx.Provide(config.NewChatConfig),
	fx.Provide(cache.NewCache),
	fx.Provide(NewLocalStorage),

	fx.Provide(department.NewDepartmentRepository),
	fx.Provide(newDepartmentService),
	fx.Provide(mail.NewMailRepository),
	fx.Provide(newMailService),
	fx.Provide(notification.NewNotificationRepository),
	fx.Provide(newNotificationService),
	fx.Provide(notification.NewReminderScheduler),
	fx.Provide(newDashboardService),

	fx.Provide(NewClassifier),
	fx.Provide(newAggregator),
	fx.Provide(chatbot.NewGeminiClient),
	fx.Provide(newChatService),
)

// EchoModules is the full HTTP application.
var EchoModules = fx.Module("echo",
	CoreModules,
	DomainModules,
	fx.Provide(NewEchoServer),
	fx.Provide(middleware.NewEnforcer),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(department.NewDepartmentHandler),
	fx.Provide(newMailHandler),
	fx.Provide(dashboard.NewDashboardHandler),
	fx.Provide(notification.NewNotificationHandler),
	fx.Provide(chatbot.NewChatHandler),
	fx.Invoke(EnsureIndexes),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(func(s *notification.ReminderScheduler, lc fx.Lifecycle) { s.StartScheduler(lc) }),
)

// NewLocalStorage prepares the upload root with one directory per mail direction.
func NewLocalStorage(cfg *config.ServerConfig, logger *zap.Logger) (*storage.LocalStorage, error) {
	return storage.NewLocalStorage(cfg, logger, string(mail.Inward), string(mail.Outward))
}

func NewClassifier(cfg *config.ChatConfig, logger *zap.Logger) (*chatbot.Classifier, error) {
	if cfg.IntentsPath != "" {
		logger.Info("loading chat intents", zap.String("path", cfg.IntentsPath))
	}
	return chatbot.LoadClassifier(cfg.IntentsPath)
}

func NewEchoServer(lc fx.Lifecycle, cfg *config.ServerConfig, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	middleware.SetupMiddleware(e, cfg, logger)
	addr := ":" + cfg.Port
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("server running", zap.String("addr", "http://localhost"+addr))
			go func() {
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start the server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down the server")
			return e.Shutdown(ctx)
		},
	})
	return e
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func EnsureIndexes(
	users *auth.UserRepository,
	departments *department.DepartmentRepository,
	mails *mail.MailRepository,
	notifications *notification.NotificationRepository,
) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, r := range []indexer{users, departments, mails, notifications} {
		if err := r.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

type Handlers struct {
	fx.In

	Auth        *auth.AuthHandler
	Departments *department.DepartmentHandler
	Mails       *mail.MailHandler
	Dashboard   *dashboard.DashboardHandler
	Reminders   *notification.NotificationHandler
	Chat        *chatbot.ChatHandler
}

func RegisterRoutes(
	e *echo.Echo,
	h Handlers,
	cfg *config.ServerConfig,
	authCfg *config.AuthConfig,
	files *storage.LocalStorage,
	enforcer *casbin.Enforcer,
	users *auth.UserRepository,
	stats *dashboard.DashboardService,
	logger *zap.Logger,
) {
	registerRoutes(e, h, cfg, authCfg, files, enforcer, users, stats, logger)
}

func registerRoutes(
	e *echo.Echo,
	h Handlers,
	cfg *config.ServerConfig,
	authCfg *config.AuthConfig,
	files *storage.LocalStorage,
	enforcer *casbin.Enforcer,
	users middleware.UserLookup,
	stats invalidator,
	logger *zap.Logger,
) {
	e.Static("/uploads", files.Root())

	e.POST("/api/auth/register", h.Auth.Register)
	e.POST("/api/auth/login", h.Auth.Login)
	e.GET("/api/health", Health)

	// chat is public and only rate limited
	limiter := middleware.ChatRateLimiter(cfg)
	e.POST("/api/chatbot", h.Chat.Chat, limiter)
	e.POST("/api/chat", h.Chat.Chat, limiter)

	api := e.Group("/api",
		middleware.JWTMiddleware(authCfg),
		middleware.ActiveUserMiddleware(users, logger),
		middleware.CasbinMiddleware(enforcer, logger))
	invalidate := InvalidateOnWrite(stats)

	api.GET("/profile", h.Auth.Profile)
	u := api.Group("/users", invalidate)
	u.GET("", h.Auth.ListUsers)
	u.GET("/:id", h.Auth.GetUser)
	u.PUT("/:id", h.Auth.UpdateUser)
	u.DELETE("/:id", h.Auth.DeleteUser)

	dep := api.Group("/departments", invalidate)
	dep.GET("", h.Departments.List)
	dep.POST("", h.Departments.Create)
	dep.GET("/:id", h.Departments.Get)
	dep.PUT("/:id", h.Departments.Update)
	dep.DELETE("/:id", h.Departments.Delete)

	for _, d := range mail.Directions {
		g := api.Group("/"+string(d)+"-mails", invalidate)
		g.GET("", h.Mails.List(d))
		g.POST("", h.Mails.Create(d))
		g.GET("/stats/summary", h.Mails.Summary(d))
		g.GET("/:id", h.Mails.Get(d))
		g.PUT("/:id", h.Mails.Update(d))
		g.DELETE("/:id", h.Mails.Delete(d))
	}
	api.GET("/track/:code", h.Mails.Track)

	api.GET("/dashboard/stats", h.Dashboard.Stats)
	api.GET("/reminders", h.Reminders.List)
}

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Tapaal Server is running",
		"timestamp": time.Now().UTC(),
	})
}

type invalidator interface {
	Invalidate(ctx context.Context)
}

// InvalidateOnWrite drops cached dashboard stats after a successful mail write.
func InvalidateOnWrite(stats invalidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if c.Request().Method == http.MethodGet || err != nil {
				return err
			}
			if status := c.Response().Status; status >= 200 && status < 300 {
				stats.Invalidate(c.Request().Context())
			}
			return nil
		}
	}
}
