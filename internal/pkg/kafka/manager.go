package kafka

import (
	"ShareLens/internal/api/config"
	"ShareLens/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	shareConsumer sarama.ConsumerGroup
	shareHandler  sarama.ConsumerGroupHandler
	topic         string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, shareSvc service.ShareService) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	shareConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaShareConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		shareConsumer: shareConsumer,
		shareHandler:  NewShareHandler(shareSvc),
		topic:         cfg.KafkaShareConsumer.Topic,
	}, nil
}

// Start 启动消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.shareConsumer.Errors() {
			log.Error("share consumer group error", "err", err)
		}
	}()

	go func() {
		log.Info("Share consumer started", "topic", m.topic)
		for {
			if err := m.shareConsumer.Consume(ctx, []string{m.topic}, m.shareHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.shareConsumer.Close(); err != nil {
		log.Error("Failed to close share consumer", "err", err)
	}
	return nil
}
