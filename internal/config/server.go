package config

import (
	"ProjectFusion/database/postgres"
	ageHandler "ProjectFusion/internal/api/age/handler"
	ageService "ProjectFusion/internal/api/age/service"
	filesHandler "ProjectFusion/internal/api/files/handler"
	filesRepository "ProjectFusion/internal/api/files/repository"
	filesService "ProjectFusion/internal/api/files/service"
	fusionHandler "ProjectFusion/internal/api/fusion/handler"
	fusionService "ProjectFusion/internal/api/fusion/service"
	translateHandler "ProjectFusion/internal/api/translate/handler"
	translateService "ProjectFusion/internal/api/translate/service"
	"ProjectFusion/internal/entity"
	"ProjectFusion/internal/middleware"
	"ProjectFusion/pkg/filestore"
	"ProjectFusion/pkg/frameprocessor"
	"ProjectFusion/pkg/langdetect"
	"ProjectFusion/pkg/redis"
	"ProjectFusion/pkg/s3"
	"ProjectFusion/pkg/utils"
	websocketPkg "ProjectFusion/pkg/websocket"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	closers     []io.Closer
	redisServer redis.IRedis
	s3Client    s3.ItfS3
	inference   websocketPkg.IInference
	fileStore   filestore.IFileStore
	fusionCfg   entity.FusionConfig
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{fusionCfg: FusionConfigFromEnv()}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}
	if server.fileStore == nil {
		return nil, fmt.Errorf("file store is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase connects the output file index. It is a no-op unless
// FILE_INDEX_ENABLED is true.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		if os.Getenv("FILE_INDEX_ENABLED") != "true" {
			return nil
		}

		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		s.closers = append(s.closers, db)
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		if redisServer != nil {
			s.closers = append(s.closers, redisServer)
		}
		return nil
	}
}

// WithS3Client mirrors stored outputs to S3. It is a no-op unless
// S3_MIRROR_ENABLED is true.
func WithS3Client() ServerOption {
	return func(s *Server) error {
		if os.Getenv("S3_MIRROR_ENABLED") != "true" {
			return nil
		}

		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithInference(client websocketPkg.IInference) ServerOption {
	return func(s *Server) error {
		s.inference = client
		if client != nil {
			s.closers = append(s.closers, client)
		}
		return nil
	}
}

func WithFileStore() ServerOption {
	return func(s *Server) error {
		store, err := filestore.NewFromEnv(s.log)
		if err != nil {
			return fmt.Errorf("failed to create file store: %w", err)
		}
		s.fileStore = store
		return nil
	}
}

// FusionConfigFromEnv is the fixed pipeline configuration with the memory cap
// taken from FUSION_MAX_MEMORY (GiB).
func FusionConfigFromEnv() entity.FusionConfig {
	cfg := entity.DefaultFusionConfig()
	if raw := os.Getenv("FUSION_MAX_MEMORY"); raw != "" {
		if gigabytes, err := strconv.Atoi(raw); err == nil && gigabytes > 0 {
			cfg.MaxMemory = gigabytes
		}
	}
	return cfg
}

func WithFusionConfig(cfg entity.FusionConfig) ServerOption {
	return func(s *Server) error {
		s.fusionCfg = cfg
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Files Domain
	var filesRepo filesRepository.Repository
	if s.db != nil {
		filesRepo = filesRepository.New(s.db, s.log)
	}
	filesServices := filesService.New(s.log, s.fileStore, s.s3Client, filesRepo)
	filesHandlers := filesHandler.New(s.log, s.validator, s.middleware, filesServices, s.utils)

	// Fusion Domain
	registry := frameprocessor.NewDefaultRegistry(s.fusionCfg, s.inference, s.log)
	analyser := frameprocessor.NewRemoteAnalyser(s.fusionCfg, s.inference)
	fusionServices := fusionService.New(s.log, s.fusionCfg, analyser, registry, s.fileStore, filesServices)
	fusionHandlers := fusionHandler.New(s.log, s.middleware, fusionServices, s.utils)

	// Age Domain
	classifier := ageService.NewClassifierHandle("", s.inference)
	ageServices := ageService.New(s.log, classifier, s.redisServer, s.utils)
	ageHandlers := ageHandler.New(s.log, s.validator, s.middleware, ageServices, s.utils)

	// Translate Domain
	translator := translateService.NewTranslatorHandle("")
	translateServices := translateService.New(s.log, langdetect.New(), translator, s.redisServer)
	translateHandlers := translateHandler.New(s.log, s.validator, s.middleware, translateServices)

	s.closers = append(s.closers, ageServices, translateServices)

	s.handlers = append(s.handlers, filesHandlers, fusionHandlers, ageHandlers, translateHandlers)
}

func (s *Server) Run() error {
	s.mount()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8888"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// mount registers the middleware before any route so the health check and
// static files get request ids and access logs too.
func (s *Server) mount() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()
	s.engine.Static("/files", s.fileStore.Root())

	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}
}

// Shutdown stops accepting requests and releases model handles and clients.
func (s *Server) Shutdown() error {
	errs := []error{s.engine.Shutdown()}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	return errors.Join(errs...)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message":   "Server is Healthy!",
			"inference": s.inference != nil && s.inference.IsConnected(),
		})
	})
}
