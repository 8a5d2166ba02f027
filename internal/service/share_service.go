package service

import (
	"ShareLens/internal/api/dto"
	"ShareLens/internal/model"
	"ShareLens/internal/pkg/content"
	"ShareLens/internal/pkg/metrics"
	"ShareLens/internal/pkg/ratelimit"
	"ShareLens/internal/pkg/util"
	"ShareLens/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coder/quartz"
)

const (
	SourceHTTP  = "http"
	SourceKafka = "kafka"

	maxPlatformLen = 32
	maxURLLen      = 2048

	defaultContentCheckTimeout = 500 * time.Millisecond
)

type ShareService interface {
	// RecordShare 处理一次对外上报：限流 -> 校验 -> 写入 -> 汇总 -> 回执
	RecordShare(ctx context.Context, req *dto.ShareRequest, caller *dto.Caller) (*dto.ShareAckDTO, error)
	// RecordTrusted 处理服务端可信事件，不经过限流
	RecordTrusted(ctx context.Context, req *dto.ShareRequest, caller *dto.Caller) (*dto.ShareAckDTO, error)
}

// ShareOptions 写入链路参数
type ShareOptions struct {
	ContentCheckTimeout time.Duration
	SiteWideContentID   uint64
	AnonymizeIP         bool
}

type shareServiceImpl struct {
	eventRepo repository.ShareEventRepo
	rollupSvc RollupService
	limiter   ratelimit.Limiter
	resolver  content.Resolver
	clock     quartz.Clock
	opts      ShareOptions
}

func NewShareService(
	eventRepo repository.ShareEventRepo,
	rollupSvc RollupService,
	limiter ratelimit.Limiter,
	resolver content.Resolver,
	clock quartz.Clock,
	opts ShareOptions,
) ShareService {
	if opts.ContentCheckTimeout <= 0 {
		opts.ContentCheckTimeout = defaultContentCheckTimeout
	}
	return &shareServiceImpl{
		eventRepo: eventRepo,
		rollupSvc: rollupSvc,
		limiter:   limiter,
		resolver:  resolver,
		clock:     clock,
		opts:      opts,
	}
}

func (s *shareServiceImpl) RecordShare(ctx context.Context, req *dto.ShareRequest, caller *dto.Caller) (*dto.ShareAckDTO, error) {
	return s.record(ctx, req, caller, SourceHTTP, true)
}

func (s *shareServiceImpl) RecordTrusted(ctx context.Context, req *dto.ShareRequest, caller *dto.Caller) (*dto.ShareAckDTO, error) {
	return s.record(ctx, req, caller, SourceKafka, false)
}

func (s *shareServiceImpl) record(ctx context.Context, req *dto.ShareRequest, caller *dto.Caller, source string, limited bool) (*dto.ShareAckDTO, error) {
	if caller == nil {
		caller = &dto.Caller{}
	}

	// Received
	platform := strings.TrimSpace(req.Platform)
	if platform == "" {
		metrics.IngestTotal.WithLabelValues(metrics.ResultRejected, source).Inc()
		return nil, ErrMissingPlatform
	}
	if utf8.RuneCountInString(platform) > maxPlatformLen {
		metrics.IngestTotal.WithLabelValues(metrics.ResultRejected, source).Inc()
		return nil, ErrParamInvalid
	}

	// RateChecked
	callerIP, _ := util.NormalizeIP(caller.IP)
	identity := strings.TrimSpace(caller.ID)
	if identity == "" {
		identity = callerIP
	}
	callerHash := util.HashCaller(identity)
	if limited && !s.limiter.Allow(ctx, callerHash) {
		metrics.IngestTotal.WithLabelValues(metrics.ResultRateLimited, source).Inc()
		return nil, ErrRateLimited
	}

	// Validated
	contentID, err := s.resolveContent(ctx, req.ContentID, req.URL)
	if err != nil {
		metrics.IngestTotal.WithLabelValues(metrics.ResultRejected, source).Inc()
		return nil, err
	}

	// Stored
	storedIP := callerIP
	if s.opts.AnonymizeIP {
		storedIP = util.AnonymizeIP(callerIP)
	}
	now := s.clock.Now().UTC()
	event := &model.ShareEvent{
		ContentID:  contentID,
		Platform:   platform,
		CallerHash: callerHash,
		CallerIP:   storedIP,
		SharedURL:  util.Truncate(strings.TrimSpace(req.URL), maxURLLen),
		CreatedAt:  now,
	}
	if err = s.eventRepo.Append(ctx, event); err != nil {
		log.ErrorContext(ctx, "append share event error", "platform", platform, "content_id", contentID, "err", err)
		metrics.IngestTotal.WithLabelValues(metrics.ResultFailed, source).Inc()
		return nil, UnExpectedError
	}

	// Aggregated
	if err = s.rollupSvc.Recompute(ctx, now, platform); err != nil {
		log.ErrorContext(ctx, "recompute daily stat error", "platform", platform, "err", err)
		metrics.RollupFailures.Inc()
		if markErr := s.rollupSvc.MarkDirty(ctx, now, platform); markErr != nil {
			log.ErrorContext(ctx, "mark rollup dirty error", "platform", platform, "err", markErr)
		}
	}

	// Acknowledged
	metrics.IngestTotal.WithLabelValues(metrics.ResultAccepted, source).Inc()
	ack := &dto.ShareAckDTO{
		Success:   true,
		Platform:  platform,
		ContentID: contentID,
	}
	if ack.Count, err = s.eventRepo.CountByContent(ctx, contentID, platform); err != nil {
		log.WarnContext(ctx, "count shares by platform error", "content_id", contentID, "err", err)
	}
	if ack.Total, err = s.eventRepo.CountByContent(ctx, contentID, ""); err != nil {
		log.WarnContext(ctx, "count shares error", "content_id", contentID, "err", err)
	}
	return ack, nil
}

// resolveContent 明确不存在的内容拒绝；内容 id 缺省、或内容服务超时/异常时，
// 从链接推导，推导不出则归入全站
func (s *shareServiceImpl) resolveContent(ctx context.Context, contentID uint64, rawURL string) (uint64, error) {
	if contentID != 0 {
		exists, err := s.checkContent(ctx, contentID)
		if err == nil {
			if !exists {
				return 0, ErrInvalidContent
			}
			return contentID, nil
		}
		log.WarnContext(ctx, "content check unavailable, falling back", "content_id", contentID, "err", err)
	}

	if rawURL != "" {
		resolveCtx, cancel := context.WithTimeout(ctx, s.opts.ContentCheckTimeout)
		derived, err := s.resolver.ResolveURL(resolveCtx, rawURL)
		cancel()
		if err != nil {
			log.WarnContext(ctx, "resolve content from url failed", "url", rawURL, "err", err)
		} else if derived != 0 {
			return derived, nil
		}
	}
	return s.opts.SiteWideContentID, nil
}

func (s *shareServiceImpl) checkContent(ctx context.Context, contentID uint64) (bool, error) {
	checkCtx, cancel := context.WithTimeout(ctx, s.opts.ContentCheckTimeout)
	defer cancel()
	return s.resolver.Exists(checkCtx, contentID)
}
