// Package server contains the HTTP handlers for the application's pages.
package server

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"mingle/internal/cache"
	"mingle/internal/config"
	"mingle/internal/database"
	"mingle/internal/middleware"
	"mingle/internal/repository"
	"mingle/internal/session"
	"mingle/internal/uploads"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Flash notice categories, matching what the page templates style on.
const (
	noticeWarning = "warning"
	noticeSuccess = "success"
	noticeInfo    = "info"
)

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// initMetrics creates the Prometheus middleware once; repeated server
// construction (tests) must not re-register collectors.
func initMetrics(service string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New(service)
	})
	return promMiddleware
}

// Server holds all dependencies and provides handlers
type Server struct {
	config      *config.Config
	db          *gorm.DB
	redis       *redis.Client
	sessions    *session.Store
	uploads     *uploads.Sanitizer
	prom        *fiberprometheus.FiberPrometheus
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	friendRepo  repository.FriendRepository
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)
	if redisClient == nil {
		return nil, errors.New("redis connection failed: sessions require Redis")
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if redisClient == nil {
		return nil, errors.New("sessions require a Redis client")
	}

	uploadsDir := filepath.Join(cfg.InstancePath, cfg.UploadsFolder)

	server := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		sessions:    session.NewStore(redisClient, cfg.SessionSecret, cfg.SessionTTL()),
		uploads:     uploads.New(uploadsDir, cfg.AllowedExtensionSet()),
		prom:        initMetrics("mingle"),
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		friendRepo:  repository.NewFriendRepository(db),
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry spans (no-op tracer when tracing is disabled)
	app.Use(middleware.TracingMiddleware())

	// Prometheus metrics
	if s.prom != nil {
		app.Use(s.prom.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.prom != nil {
		s.prom.RegisterAt(app, "/metrics")
	}

	// Index page carries both the login and registration forms
	app.Get("/", s.Index)
	app.Post("/", s.Index)
	app.Get("/index", s.Index)
	app.Post("/index", s.Index)
	app.Get("/logout", s.Logout)
	app.Post("/logout", s.Logout)

	// Session-gated pages
	guard := s.RequireSession()
	app.Get("/stream/:username", guard, s.Stream)
	app.Post("/stream/:username", guard, s.Stream)
	app.Get("/comments/:username/:postID", guard, s.Comments)
	app.Post("/comments/:username/:postID", guard, s.Comments)
	app.Get("/friends/:username", guard, s.Friends)
	app.Post("/friends/:username", guard, s.Friends)
	app.Get("/profile/:username", guard, s.Profile)
	app.Post("/profile/:username", guard, s.Profile)

	// Uploaded files are public but gated by the extension allow-list
	app.Get("/uploads/:filename", s.ServeUpload)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(_ context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}
	return nil
}
