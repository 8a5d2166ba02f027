package kafka

import (
	"ShareLens/internal/api/dto"
	"ShareLens/internal/pkg/logger"
	"ShareLens/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// ShareHandler 消费可信分享事件，走与 HTTP 相同的写入链路但不限流
type ShareHandler struct {
	shareSvc service.ShareService
}

func NewShareHandler(shareSvc service.ShareService) *ShareHandler {
	return &ShareHandler{shareSvc: shareSvc}
}

func (s *ShareHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("share consumer setup")
	return nil
}

func (s *ShareHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("share consumer cleanup")
	return nil
}

func (s *ShareHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("share consume claim", "topic", claim.Topic(), "partition", claim.Partition())
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("share process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ShareHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ctx = logger.NewTraceContext(ctx, "kafka-share")

	var shareMsg ShareMessage
	if err := json.Unmarshal(msg.Value, &shareMsg); err != nil {
		log.WarnContext(ctx, "drop malformed share message", "offset", msg.Offset, "err", err)
		return nil
	}

	req := &dto.ShareRequest{
		Platform:  shareMsg.Platform,
		ContentID: shareMsg.ContentID,
		URL:       shareMsg.URL,
	}
	caller := &dto.Caller{ID: shareMsg.CallerID, IP: shareMsg.CallerIP}

	_, err := s.shareSvc.RecordTrusted(ctx, req, caller)
	if err == nil {
		return nil
	}

	// 校验类错误重试也不会成功
	if info, known := service.Lookup(err); known && !errors.Is(err, service.UnExpectedError) {
		log.WarnContext(ctx, "drop rejected share message", "offset", msg.Offset, "kind", info.Kind, "err", err)
		return nil
	}
	return err
}
