package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	receivingHandler "github.com/raqeebanjum/seniordesignproject/internal/api/receiving/handler"
	receivingRepository "github.com/raqeebanjum/seniordesignproject/internal/api/receiving/repository"
	receivingService "github.com/raqeebanjum/seniordesignproject/internal/api/receiving/service"
	"github.com/raqeebanjum/seniordesignproject/internal/middleware"
	"github.com/raqeebanjum/seniordesignproject/internal/workflow"
	"github.com/raqeebanjum/seniordesignproject/pkg/catalog"
	"github.com/raqeebanjum/seniordesignproject/pkg/nlp"
	"github.com/raqeebanjum/seniordesignproject/pkg/redis"
	"github.com/raqeebanjum/seniordesignproject/pkg/speech"
	"github.com/raqeebanjum/seniordesignproject/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type ServerOption func(*Server) error

type Server struct {
	engine           *fiber.App
	log              *logrus.Logger
	middleware       middleware.Middleware
	validator        *validator.Validate
	utils            utils.IUtils
	catalog          *catalog.Catalog
	speech           speech.ItfSpeech
	audioCache       redis.IRedis
	receivingConfig  *receivingService.ReceivingConfig
	receivingService receivingService.IReceivingService
	handlers         []handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

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
	if server.speech == nil {
		return nil, fmt.Errorf("speech client is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.catalog == nil {
		server.catalog = catalog.Empty()
	}
	if server.audioCache == nil {
		server.audioCache = redis.NewMemory()
	}
	if server.receivingConfig == nil {
		server.receivingConfig = receivingService.ConfigFromEnv()
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

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

// WithCatalog loads the purchase order catalog once. A source that fails
// to load leaves the server running with an empty catalog.
func WithCatalog(source string) ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before catalog")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s.catalog = catalog.Load(ctx, s.log, source)
		return nil
	}
}

func WithSpeech(client speech.ItfSpeech) ServerOption {
	return func(s *Server) error {
		s.speech = client
		return nil
	}
}

// WithAudioCache keeps synthesized prompts in Redis when REDIS_ADDRESS is
// set and in process memory otherwise.
func WithAudioCache() ServerOption {
	return func(s *Server) error {
		if os.Getenv("REDIS_ADDRESS") == "" {
			if s.log != nil {
				s.log.Warn("REDIS_ADDRESS not set, caching prompt audio in memory")
			}
			s.audioCache = redis.NewMemory()
			return nil
		}
		s.audioCache = redis.New()
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithReceivingConfig(cfg *receivingService.ReceivingConfig) ServerOption {
	return func(s *Server) error {
		s.receivingConfig = cfg
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Receiving Domain
	machine := workflow.NewMachine(nlp.NewClassifier(), s.catalog)
	receivingRepo := receivingRepository.New(s.log)
	s.receivingService = receivingService.New(s.log, receivingRepo, machine, s.speech, s.audioCache, s.receivingConfig)
	receivingHandlers := receivingHandler.New(s.log, s.validator, s.middleware, s.receivingService, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, receivingHandlers)
}

// StartSessionCleanup sweeps idle sessions every interval until ctx ends.
func (s *Server) StartSessionCleanup(ctx context.Context, interval time.Duration) {
	if s.receivingService == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.receivingService.CleanupIdleSessions(ctx)
			}
		}
	}()
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware)
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(timeout time.Duration) error {
	return s.engine.ShutdownWithTimeout(timeout)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message":         "Server is Healthy!",
			"purchase_orders": s.catalog.Len(),
		})
	})
}
