package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
	"github.com/vladislavdragonenkov/order-tracker/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/order-tracker/internal/storage/file"
	"github.com/vladislavdragonenkov/order-tracker/internal/storage/memory"
	"github.com/vladislavdragonenkov/order-tracker/internal/storage/postgres"
)

// runtimeDependencies содержит хранилище и публикатор событий выбранной конфигурации.
type runtimeDependencies struct {
	store     domain.CollectionStore
	publisher domain.EventPublisher
	closers   []func()
}

// close освобождает ресурсы в обратном порядке.
func (d *runtimeDependencies) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	deps := &runtimeDependencies{publisher: domain.NoopPublisher{}}

	switch cfg.StorageDriver {
	case StorageDriverFile:
		deps.store = file.NewStore(cfg.fileConfig(), logger.WithField("layer", "file-store"))
	case StorageDriverMemory:
		deps.store = memory.NewCollectionStore()
	case StorageDriverPostgres:
		pgStore, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		if err := pgStore.EnsureSchema(ctx); err != nil {
			_ = pgStore.Close()
			return nil, err
		}
		deps.store = postgres.NewCollectionStore(pgStore)
		deps.closers = append(deps.closers, func() {
			if err := pgStore.Close(); err != nil {
				logger.WithError(err).Warn("failed to close postgres store")
			}
		})
	}

	if publisher := initKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger); publisher != nil {
		deps.publisher = publisher
		deps.closers = append(deps.closers, func() { closeKafka(publisher, logger) })
	}

	return deps, nil
}

// initKafkaPublisher создаёт публикатор, если заданы брокеры.
// Ошибка подключения не фатальна: приложение продолжает работу без событий.
func initKafkaPublisher(brokers []string, topic string, logger *log.Entry) *kafka.Publisher {
	if len(brokers) == 0 {
		return nil
	}

	publisher, err := kafka.NewPublisher(brokers, topic, logger.WithField("layer", "kafka"))
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka publisher, continuing without kafka")
		return nil
	}

	logger.WithField("brokers", brokers).Info("kafka publisher initialized")
	return publisher
}

// closeKafka закрывает Kafka publisher если он не nil.
func closeKafka(publisher *kafka.Publisher, logger *log.Entry) {
	if publisher == nil {
		return
	}

	if err := publisher.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka publisher")
	} else {
		logger.Info("kafka publisher closed")
	}
}
