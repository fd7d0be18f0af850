package bootstrap

import (
	"context"
	"log"

	"infoex-agent-service/internal/config"
	"infoex-agent-service/internal/controller"
	"infoex-agent-service/internal/pkg/logger"
	"infoex-agent-service/internal/pkg/mailer"
	"infoex-agent-service/internal/repository/contract"
	"infoex-agent-service/internal/repository/implementation"
	"infoex-agent-service/internal/service"
	"infoex-agent-service/pkg/agent"
	"infoex-agent-service/pkg/infoex"
	"infoex-agent-service/pkg/llm/factory"

	pktNats "infoex-agent-service/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ReportController controller.IReportController
	HealthController controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	alertMailer := mailer.NewAlertMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.SMTP.AlertRecipient,
	)

	// 2. Domain Knowledge (fatal when missing: the service cannot validate
	// or build payloads without it)
	registry, err := infoex.LoadRegistry(cfg.Data.ConstantsPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load InfoEx constants: %v", err)
	}
	templates, err := infoex.LoadTemplates(cfg.Data.TemplatesDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load payload templates: %v", err)
	}
	validators := infoex.NewValidatorSet(registry)
	builder := infoex.NewBuilder(templates, validators)

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 4. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		llmAPIKey(cfg),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 6. Repositories
	sessionRepo := implementation.NewSessionRepository(rdb, cfg.App.SessionTTLSeconds, sysLogger)

	var logRepo contract.SubmissionLogRepository
	if db != nil {
		logRepo = implementation.NewSubmissionLogRepository(db)
	} else {
		log.Printf("[WARN] No database configured, submission audit log disabled")
	}

	// 7. Services
	infoexClient := infoex.NewClient(cfg.InfoEx.BaseURL, cfg.InfoEx.APIKey, cfg.InfoEx.OperationUUID, sysLogger)

	reportAgent := agent.NewAgent(
		llmProvider,
		registry,
		templates,
		cfg.App.MaxConversationLength,
		cfg.Ai.Temperature,
		sysLogger,
	)

	publisherService := service.NewPublisherService(cfg.Topics.SubmissionTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Topics.SubmissionTopic,
		logRepo,
		alertMailer,
		natsPub,
	)

	submissionService := service.NewSubmissionService(sessionRepo, infoexClient, builder, publisherService, sysLogger)
	reportService := service.NewReportService(sessionRepo, reportAgent, submissionService, sysLogger)

	// 8. Controllers
	reportController := controller.NewReportController(reportService, infoexClient)
	healthController := controller.NewHealthController(sessionRepo, infoexClient, cfg.InfoEx.Environment, llmReady(cfg))

	return &Container{
		ReportController: reportController,
		HealthController: healthController,
		ConsumerService:  consumerService,
	}
}

func llmAPIKey(cfg *config.Config) string {
	switch cfg.Ai.LLMProvider {
	case "anthropic":
		return cfg.Ai.AnthropicAPIKey
	case "huggingface":
		return cfg.Ai.HuggingFaceKey
	}
	return ""
}

func llmReady(cfg *config.Config) bool {
	switch cfg.Ai.LLMProvider {
	case "anthropic":
		return cfg.Ai.AnthropicAPIKey != ""
	case "huggingface":
		return cfg.Ai.HuggingFaceKey != ""
	}
	return true
}
