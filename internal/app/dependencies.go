package app

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/acs/internal/catalog"
	"github.com/vladislavdragonenkov/acs/internal/domain"
	"github.com/vladislavdragonenkov/acs/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/acs/internal/service/outbox"
	"github.com/vladislavdragonenkov/acs/internal/service/payment"
	"github.com/vladislavdragonenkov/acs/internal/storage/memory"
	"github.com/vladislavdragonenkov/acs/internal/storage/postgres"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	CheckoutRepo    domain.CheckoutRepository
	OutboxRepo      domain.OutboxRepository
	IdempotencyRepo domain.IdempotencyRepository
	Catalog         catalog.Static
	PaymentSvc      domain.PaymentService
	Logger          *log.Entry

	Store         *postgres.Store
	KafkaProducer *kafka.Producer
	OutboxWorker  *outbox.Worker
}

// NewDependencies создаёт in-memory зависимости без внешних систем.
// Используется в тестах и при запуске без PostgreSQL и Kafka.
func NewDependencies(logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	return &Dependencies{
		CheckoutRepo:    memory.NewCheckoutRepository(),
		OutboxRepo:      memory.NewOutboxRepository(),
		IdempotencyRepo: memory.NewIdempotencyRepository(),
		Catalog:         catalog.NewStatic(),
		PaymentSvc:      payment.NewMockService(),
		Logger:          logger,
	}
}

// buildDependencies собирает зависимости по конфигурации: storage,
// платёжный клиент и опциональный Kafka-контур с outbox worker.
func buildDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	deps := NewDependencies(logger)

	switch strings.TrimSpace(cfg.StorageDriver) {
	case "", StorageDriverMemory:
	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply postgres migrations: %w", err)
			}
		}
		deps.Store = store
		deps.CheckoutRepo = postgres.NewCheckoutRepository(store)
		deps.OutboxRepo = postgres.NewOutboxRepository(store)
		deps.IdempotencyRepo = postgres.NewIdempotencyRepository(store)
		logger.Info("postgres storage initialized")
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}

	if cfg.PaymentBaseURL != "" {
		deps.PaymentSvc = payment.NewSPTClient(cfg.PaymentBaseURL, cfg.PaymentAPIKey, log.StandardLogger())
		logger.WithField("base_url", cfg.PaymentBaseURL).Info("payment client initialized")
	}

	producer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
	if err == nil && producer != nil {
		deps.KafkaProducer = producer
		deps.OutboxWorker = outbox.NewWorker(
			deps.OutboxRepo,
			kafka.NewOutboxPublisher(producer),
			outbox.WithLogger(logger.WithField("component", "outbox-worker")),
			outbox.WithDLQPublisher(kafka.NewDLQPublisher(producer)),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
			outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
		)
	}

	return deps, nil
}

// Close освобождает внешние ресурсы зависимостей.
func (d *Dependencies) Close(logger *log.Entry) {
	closeKafka(d.KafkaProducer, logger)
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
