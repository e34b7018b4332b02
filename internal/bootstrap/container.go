package bootstrap

import (
	"context"
	"fmt"
	"time"

	"interview-prep-be/internal/config"
	"interview-prep-be/internal/controller"
	"interview-prep-be/internal/handler"
	"interview-prep-be/internal/pkg/logger"
	"interview-prep-be/internal/pkg/serverutils"
	"interview-prep-be/internal/repository/cache"
	"interview-prep-be/internal/repository/unitofwork"
	"interview-prep-be/internal/service"
	"interview-prep-be/internal/websocket"
	"interview-prep-be/pkg/events"
	"interview-prep-be/pkg/llm"
	"interview-prep-be/pkg/llm/factory"
	"interview-prep-be/pkg/llm/ollama"
	"interview-prep-be/pkg/llm/openai"
	pktNats "interview-prep-be/pkg/nats"
	"interview-prep-be/pkg/prep/prompt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	TopicController    controller.ITopicController
	DocumentController controller.IDocumentController

	// WebSockets
	TopicEventsHandler *handler.TopicEventsHandler
	WebSocketHub       *websocket.Hub

	// Services (exposed for main.go and prepctl)
	TopicService      service.ITopicService
	TopicEventService *service.TopicEventService
	PromptBuilder     *prompt.Builder

	AuthMiddleware fiber.Handler
	Logger         logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	// 2. Model provider
	llmProvider, err := factory.NewLLMProvider(LLMSettings(cfg.Llm))
	if err != nil {
		return nil, err
	}
	sysLogger.Info("Bootstrap", "LLM provider ready", map[string]interface{}{
		"provider":  cfg.Llm.Provider,
		"powerful":  cfg.Llm.ModelPowerful,
		"efficient": cfg.Llm.ModelEfficient,
	})

	policy := prompt.DefaultPolicy()
	policy.MinChars = cfg.Prep.MeaningfulMinChars
	builder := prompt.NewBuilder(policy)
	style := prompt.ParseStyle(cfg.Prep.CrossQuestionStyle)
	c.PromptBuilder = builder

	// 3. Infrastructure
	rdb := connectRedis(ctx, cfg.Cache.RedisURL, sysLogger)
	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	var readCache cache.Cache
	if rdb != nil {
		readCache = cache.NewRedisCache(rdb, sysLogger)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	} else {
		readCache = cache.NewMemoryCache(cacheTTL)
	}

	publisher, subscriber := c.connectBus(ctx, cfg.Events.NatsURL, sysLogger)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// 4. Services
	contentService := service.NewContentService(
		uowFactory,
		llmProvider,
		builder,
		service.ContentSettings{Style: style, SourceMaxChars: cfg.Prep.SourceMaxChars},
		readCache,
		publisher,
		sysLogger,
	)
	c.TopicService = service.NewTopicService(
		uowFactory,
		contentService,
		llmProvider,
		builder,
		service.TopicSettings{
			Style:               style,
			MaxProposedTopics:   cfg.Prep.MaxProposedTopics,
			SourceMaxChars:      cfg.Prep.SourceMaxChars,
			ProposalWithContent: cfg.Prep.ProposalWithContent,
			CacheTTL:            cacheTTL,
		},
		readCache,
		publisher,
		sysLogger,
	)
	documentService := service.NewDocumentService(uowFactory, sysLogger)
	c.TopicEventService = service.NewTopicEventService(subscriber, c.WebSocketHub, cfg.Events.DurableName, sysLogger)

	// 5. Controllers
	c.AuthMiddleware = serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret)
	c.TopicController = controller.NewTopicController(c.TopicService)
	c.DocumentController = controller.NewDocumentController(documentService)
	c.TopicEventsHandler = handler.NewTopicEventsHandler(c.WebSocketHub, wsLogger)

	c.closers = append(c.closers, func() { _ = sysLogger.Sync(); _ = wsLogger.Sync() })
	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// LLMSettings maps the LLM section of the configuration onto the provider factory.
func LLMSettings(cfg config.LLMConfig) factory.Settings {
	retry := llm.DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	return factory.Settings{
		Provider: cfg.Provider,
		OpenAI: openai.Config{
			APIKey:          cfg.APIKey,
			BaseURL:         cfg.BaseURL,
			PowerfulModel:   cfg.ModelPowerful,
			EfficientModel:  cfg.ModelEfficient,
			MaxTokens:       cfg.MaxTokens,
			LegacyMaxTokens: cfg.LegacyMaxTokens,
			Timeout:         timeout,
			Retry:           retry,
			RatePerSecond:   cfg.RatePerSecond,
		},
		Ollama: ollama.Config{
			BaseURL:        cfg.BaseURL,
			PowerfulModel:  cfg.ModelPowerful,
			EfficientModel: cfg.ModelEfficient,
			MaxTokens:      cfg.MaxTokens,
			Timeout:        timeout,
			Retry:          retry,
		},
	}
}

// connectRedis returns nil when Redis is unreachable; the app then runs single instance.
func connectRedis(ctx context.Context, url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Bootstrap", "Redis unavailable, using in-memory cache", map[string]interface{}{"error": err})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// connectBus prefers NATS JetStream and falls back to the in-process bus.
func (c *Container) connectBus(ctx context.Context, url string, log logger.ILogger) (events.Publisher, events.Subscriber) {
	if url != "" {
		pub, pubErr := pktNats.NewPublisher(ctx, url)
		sub, subErr := pktNats.NewSubscriber(ctx, url, log)
		if pubErr == nil && subErr == nil {
			c.closers = append(c.closers, pub.Close, sub.Close)
			log.Info("Bootstrap", "Event bus: NATS JetStream", map[string]interface{}{"url": url})
			return pub, sub
		}
		if pub != nil {
			pub.Close()
		}
		if sub != nil {
			sub.Close()
		}
		log.Warn("Bootstrap", "NATS unavailable, using in-process bus", map[string]interface{}{
			"error": fmt.Errorf("publisher: %v, subscriber: %v", pubErr, subErr),
		})
	}

	bus := events.NewLocalBus()
	c.closers = append(c.closers, func() { _ = bus.Close() })
	return bus, bus
}
