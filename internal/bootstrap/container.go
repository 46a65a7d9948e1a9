package bootstrap

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-storefront-be/internal/config"
	"ai-storefront-be/internal/controller"
	"ai-storefront-be/internal/pkg/logger"
	"ai-storefront-be/internal/pkg/ratelimit"
	"ai-storefront-be/internal/repository/implementation"
	"ai-storefront-be/internal/service"
	"ai-storefront-be/pkg/llm/factory"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	CatalogController   controller.ICatalogController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Repositories
	categoryRepo := implementation.NewCategoryRepository(db)
	productRepo := implementation.NewProductRepository(db)

	// 4. Assistant Provider
	// A missing credential is not fatal: the server still serves the catalog
	// and the assistant endpoints answer 503 until one is configured.
	baseURL := cfg.Assistant.BaseURL
	if cfg.Assistant.Provider == "ollama" {
		baseURL = cfg.Assistant.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Assistant.Provider,
		cfg.Assistant.Model,
		cfg.Assistant.APIKey,
		baseURL,
	)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Assistant provider not configured", map[string]interface{}{"error": err.Error()})
		llmProvider = nil
	} else {
		sysLogger.Info("Bootstrap", "Assistant provider ready", map[string]interface{}{
			"provider": cfg.Assistant.Provider,
			"model":    cfg.Assistant.Model,
		})
	}

	// 5. Rate Limiter (Redis when configured, in-process otherwise)
	var limiter ratelimit.Limiter
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		}
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
	}

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.TelemetryTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.App.TelemetryTopic, sysLogger)

	catalogService := service.NewCatalogService(categoryRepo, productRepo)
	assistantService := service.NewAssistantService(categoryRepo, productRepo, llmProvider, sysLogger)

	// 7. Controllers
	return &Container{
		AssistantController: controller.NewAssistantController(
			assistantService,
			publisherService,
			limiter,
			sysLogger,
			cfg.Assistant.StreamTimeout,
		),
		CatalogController: controller.NewCatalogController(catalogService),

		ConsumerService: consumerService,

		Logger: sysLogger,
	}
}
