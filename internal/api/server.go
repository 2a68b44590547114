package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"taskhub/internal/api/auth"
	"taskhub/internal/api/middleware"
	"taskhub/internal/api/respond"
	"taskhub/internal/config"
	"taskhub/internal/model"
	"taskhub/internal/pkg/metrics"
	"taskhub/internal/pkg/ratelimit"
	"taskhub/internal/pkg/session"
	"taskhub/internal/repository"
)

// Server wires the HTTP routes to the repositories. It owns the database
// handle, the Redis client, the session store and the auth handler.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *gorm.DB
	rdb      *redis.Client
	router   *gin.Engine
	auth     *auth.Handler
	sessions *session.Store

	categories repository.TaskCategoryRepository
	tasks      repository.TaskRepository
	priorities repository.TaskPriorityRepository
	statuses   repository.TaskStatusRepository
}

// NewServer connects to MySQL and Redis, migrates the schema and builds
// the router.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := repository.Open(mysql.Open(cfg.MySQL.DSN))
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	return newServer(cfg, logger, db, rdb), nil
}

// newServer assembles routes and repositories on top of already opened
// connections. Tests call it directly with SQLite and miniredis.
func newServer(cfg *config.Config, logger *slog.Logger, db *gorm.DB, rdb *redis.Client) *Server {
	metrics.InitMetrics()

	sessions := session.NewStore(rdb, cfg.App.TokenTTL)
	limiter := ratelimit.New(rdb, "taskhub:ratelimit:login:", cfg.App.LoginRateLimit, cfg.App.LoginRateBurst)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		rdb:      rdb,
		router:   r,
		sessions: sessions,
		auth:     auth.NewHandler(db, sessions, limiter, cfg.Security.JWTSecret, cfg.App.TokenTTL, logger),

		categories: repository.NewTaskCategoryRepository(db),
		tasks:      repository.NewTaskRepository(db),
		priorities: repository.NewTaskPriorityRepository(db),
		statuses:   repository.NewTaskStatusRepository(db),
	}
	s.registerRoutes()
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database and Redis connections.
func (s *Server) Close() error {
	var firstErr error
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			firstErr = err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else if closeErr := sqlDB.Close(); closeErr != nil {
			if firstErr == nil {
				firstErr = closeErr
			}
		}
	}
	return firstErr
}

// registerRoutes registers all API routes. TaskStatus mutation carries the
// admin role gate at registration; handler bodies stay role-agnostic.
func (s *Server) registerRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/healthz", s.handleHealthz)

	s.router.POST("/register", s.auth.Register)
	s.router.POST("/login", s.auth.Login)

	authed := s.router.Group("/")
	authed.Use(middleware.AuthMiddleware(s.cfg.Security.JWTSecret, s.sessions))

	authed.GET("/tasks", s.handleListTasks)
	authed.POST("/tasks", s.handleCreateTask)
	authed.GET("/tasks/:id", s.handleShowTask)
	authed.PUT("/tasks/:id", s.handleUpdateTask)
	authed.DELETE("/tasks/:id", s.handleDeleteTask)

	authed.GET("/task-categories", s.handleListCategories)
	authed.POST("/task-categories", s.handleCreateCategory)
	authed.GET("/task-categories/:id", s.handleShowCategory)
	authed.PUT("/task-categories/:id", s.handleUpdateCategory)
	authed.DELETE("/task-categories/:id", s.handleDeleteCategory)

	authed.GET("/task-priorities", s.handleListPriorities)
	authed.POST("/task-priorities", s.handleCreatePriority)
	authed.GET("/task-priorities/:id", s.handleShowPriority)
	authed.PUT("/task-priorities/:id", s.handleUpdatePriority)
	authed.DELETE("/task-priorities/:id", s.handleDeletePriority)

	authed.GET("/task-statuses", s.handleListStatuses)
	authed.GET("/task-statuses/:id", s.handleShowStatus)

	admin := authed.Group("/")
	admin.Use(middleware.RequireRoles(model.RoleAdmin))
	admin.POST("/task-statuses", s.handleCreateStatus)
	admin.PUT("/task-statuses/:id", s.handleUpdateStatus)
	admin.DELETE("/task-statuses/:id", s.handleDeleteStatus)
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// currentUserID reads the authenticated user id set by AuthMiddleware.
func currentUserID(c *gin.Context) uint {
	return uint(c.GetInt("userID"))
}

// parseIDParam parses the :id path parameter. A non-numeric id can never
// match a row, so the caller answers 404.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func notFound(c *gin.Context, message string) {
	respond.Error(c, http.StatusNotFound, message, nil)
}

func forbidden(c *gin.Context) {
	respond.Error(c, http.StatusForbidden, "Forbidden.", nil)
}

func serverError(c *gin.Context, message string) {
	respond.Error(c, http.StatusInternalServerError, message, nil)
}
