// @title YouTube Quiz Generator API
// @version 1.0
// @description Generates multiple-choice quizzes from YouTube video transcripts.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ytquiz/internal/adapter"
	"ytquiz/internal/adapter/quizgen"
	"ytquiz/internal/adapter/transcript"
	"ytquiz/internal/cache"
	"ytquiz/internal/config"
	"ytquiz/internal/domain"
	"ytquiz/internal/handler"
	"ytquiz/internal/logger"
	"ytquiz/internal/middleware"
	"ytquiz/internal/service"
	"ytquiz/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()
		requestID := util.NewULID()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Initialize Gemini LLM client
	llm, err := googleai.New(context.Background(),
		googleai.WithAPIKey(cfg.Gemini.APIKey),
		googleai.WithDefaultModel(cfg.Gemini.Model),
	)
	if err != nil {
		appLogger.Fatal("Failed to create Gemini client", zap.Error(err))
	}
	generator, err := quizgen.NewGeminiGenerator(llm, cfg.Gemini, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create quiz generator", zap.Error(err))
	}
	appLogger.Info("Gemini quiz generator initialized", zap.String("model", cfg.Gemini.Model))

	// Initialize YouTube transcript client
	transcriptClient, err := transcript.NewClient(cfg.Transcript, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create transcript client", zap.Error(err))
	}
	appLogger.Info("Transcript client initialized",
		zap.String("primary_language", cfg.Transcript.PrimaryLanguage),
		zap.String("fallback_language", cfg.Transcript.FallbackLanguage),
		zap.Bool("proxy", cfg.Transcript.ProxyURL != ""),
	)

	// Initialize Redis quiz cache; the service degrades to uncached
	// generation when no redis address is configured.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	} else {
		appLogger.Warn("Redis address not configured; quiz caching disabled")
	}

	// Initialize services and handlers
	quizService := service.NewQuizService(transcriptClient, generator, cacheAdapter, cfg)
	quizHandler := handler.NewQuizHandler(quizService, cacheAdapter)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Post("/generate-quiz", quizHandler.GenerateQuiz)
	app.Get("/healthz", quizHandler.Health)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
