package kafka

import (
	"ShareLens/internal/api/config"
	log "log/slog"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

const defaultClientID = "sharelens"

// newSaramaConfig 分享事件消费组使用的 sarama.Config
func newSaramaConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = kafkaCfg.ClientID
	if c.ClientID == "" {
		c.ClientID = defaultClientID
	}

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = initialOffset(kafkaCfg.Consumer.InitialOffset)
	// 分区重平衡时尽量保留原有分配，减少批次中断
	c.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategySticky()}

	c.Consumer.Group.Session.Timeout = time.Duration(kafkaCfg.Consumer.SessionTimeout) * time.Second
	c.Consumer.Group.Heartbeat.Interval = time.Duration(kafkaCfg.Consumer.HeartbeatInterval) * time.Second
	c.Consumer.Group.Rebalance.Timeout = time.Duration(kafkaCfg.Consumer.RebalanceTimeout) * time.Second
	// 位点由 processBatch 在整批处理完成后手动提交
	c.Consumer.Offsets.AutoCommit.Enable = false
	c.Consumer.MaxProcessingTime = time.Duration(kafkaCfg.Consumer.MaxProcessingTime) * time.Second

	return c
}

func initialOffset(v string) int64 {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "newest":
		return sarama.OffsetNewest
	case "oldest":
		return sarama.OffsetOldest
	default:
		log.Warn("Unknown kafka initial offset, falling back to newest", "initial_offset", v)
		return sarama.OffsetNewest
	}
}
