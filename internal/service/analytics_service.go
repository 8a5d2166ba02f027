package service

import (
	"ShareLens/internal/api/dto"
	"ShareLens/internal/model"
	"ShareLens/internal/pkg/cache"
	"ShareLens/internal/pkg/consts"
	"ShareLens/internal/pkg/content"
	"ShareLens/internal/pkg/util"
	"context"
	log "log/slog"
	"math"
	"strconv"
	"time"

	"github.com/coder/quartz"
	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPeriod = 30

	overviewPlatformLimit = 5
	platformStatsLimit    = 50
	contentStatsLimit     = 10

	scopeLive = "live"
	scopeDemo = "demo"
)

var allowedPeriods = map[int]struct{}{1: {}, 7: {}, 30: {}, 90: {}}

// NormalizePeriod 只接受 1/7/30/90 天，其余一律按 30 天
func NormalizePeriod(period int) int {
	if _, ok := allowedPeriods[period]; ok {
		return period
	}
	return DefaultPeriod
}

// GrowthPercentage 当前窗口相对上一窗口的增长率，保留一位小数
func GrowthPercentage(current, previous int64) float64 {
	if previous > 0 {
		return math.Round(float64(current-previous)/float64(previous)*1000) / 10
	}
	if current > 0 {
		return 100
	}
	return 0
}

type AnalyticsService interface {
	// Overview 总量、增长率与前 5 平台
	Overview(ctx context.Context, period int, elevated bool) (*dto.OverviewDTO, error)
	// PlatformStats 平台排行，最多 50 行
	PlatformStats(ctx context.Context, period int, elevated bool) ([]*dto.PlatformStatDTO, error)
	// ContentStats 内容排行前 10
	ContentStats(ctx context.Context, period int, elevated bool) ([]*dto.ContentStatDTO, error)
	// DailyStats 按日趋势，日期升序
	DailyStats(ctx context.Context, period int, elevated bool) ([]*dto.DailyStatDTO, error)
}

// AnalyticsOptions 查询链路参数
type AnalyticsOptions struct {
	SchemaTTL         time.Duration
	ResultTTL         time.Duration
	SiteWideContentID uint64
}

// dataset 某一访问级别下的数据来源与内容补全
type dataset struct {
	scope    string
	source   AnalyticsSource
	enricher ContentEnricher
}

type analyticsServiceImpl struct {
	live  dataset
	demo  dataset
	cache *cache.QueryCache
	clock quartz.Clock
	opts  AnalyticsOptions
}

func NewAnalyticsService(
	liveSource AnalyticsSource,
	resolver content.Resolver,
	demoSource AnalyticsSource,
	demoEnricher ContentEnricher,
	queryCache *cache.QueryCache,
	clock quartz.Clock,
	opts AnalyticsOptions,
) AnalyticsService {
	return &analyticsServiceImpl{
		live:  dataset{scope: scopeLive, source: liveSource, enricher: resolver},
		demo:  dataset{scope: scopeDemo, source: demoSource, enricher: demoEnricher},
		cache: queryCache,
		clock: clock,
		opts:  opts,
	}
}

func (s *analyticsServiceImpl) pick(elevated bool) dataset {
	if elevated {
		return s.live
	}
	return s.demo
}

func (s *analyticsServiceImpl) key(ds dataset, query string, period int) string {
	return consts.AnalyticsCacheKey + ds.scope + ":" + query + ":" + strconv.Itoa(period)
}

// ready 表是否已初始化，结果缓存 1 小时
func (s *analyticsServiceImpl) ready(ctx context.Context, ds dataset) (bool, error) {
	ready, err := cache.GetOrCompute(ctx, s.cache, consts.AnalyticsSchemaKey+ds.scope, s.opts.SchemaTTL, ds.source.TableReady)
	if err != nil {
		log.ErrorContext(ctx, "check analytics schema error", "scope", ds.scope, "err", err)
		return false, UnExpectedError
	}
	return ready, nil
}

// window 当前窗口 [now-period, now)
func (s *analyticsServiceImpl) window(period int) (time.Time, time.Time) {
	now := s.clock.Now().UTC()
	return now.Add(-time.Duration(period) * 24 * time.Hour), now
}

func (s *analyticsServiceImpl) Overview(ctx context.Context, period int, elevated bool) (*dto.OverviewDTO, error) {
	period = NormalizePeriod(period)
	ds := s.pick(elevated)
	empty := &dto.OverviewDTO{Period: period, TopPlatforms: []*dto.PlatformStatDTO{}, Synthetic: !elevated}

	ready, err := s.ready(ctx, ds)
	if err != nil || !ready {
		return empty, err
	}

	return cache.GetOrCompute(ctx, s.cache, s.key(ds, "overview", period), s.opts.ResultTTL, func(ctx context.Context) (*dto.OverviewDTO, error) {
		start, end := s.window(period)
		prevStart := start.Add(-end.Sub(start))

		var current, previous *model.ShareTotals
		var platforms []*model.PlatformAggregate
		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			current, err = ds.source.Totals(gCtx, start, end)
			return err
		})
		g.Go(func() error {
			var err error
			previous, err = ds.source.Totals(gCtx, prevStart, start)
			return err
		})
		g.Go(func() error {
			var err error
			platforms, err = ds.source.PlatformBreakdown(gCtx, start, end, overviewPlatformLimit)
			return err
		})
		if err := g.Wait(); err != nil {
			log.ErrorContext(ctx, "query overview error", "period", period, "err", err)
			return nil, UnExpectedError
		}

		return &dto.OverviewDTO{
			Period:           period,
			TotalShares:      current.TotalShares,
			UniqueContent:    current.UniqueContent,
			GrowthPercentage: GrowthPercentage(current.TotalShares, previous.TotalShares),
			TopPlatforms:     toPlatformDTOs(platforms),
			Synthetic:        !elevated,
		}, nil
	})
}

func (s *analyticsServiceImpl) PlatformStats(ctx context.Context, period int, elevated bool) ([]*dto.PlatformStatDTO, error) {
	period = NormalizePeriod(period)
	ds := s.pick(elevated)

	ready, err := s.ready(ctx, ds)
	if err != nil || !ready {
		return []*dto.PlatformStatDTO{}, err
	}

	return cache.GetOrCompute(ctx, s.cache, s.key(ds, "platforms", period), s.opts.ResultTTL, func(ctx context.Context) ([]*dto.PlatformStatDTO, error) {
		start, end := s.window(period)
		rows, err := ds.source.PlatformBreakdown(ctx, start, end, platformStatsLimit)
		if err != nil {
			log.ErrorContext(ctx, "query platform stats error", "period", period, "err", err)
			return nil, UnExpectedError
		}
		return toPlatformDTOs(rows), nil
	})
}

func (s *analyticsServiceImpl) ContentStats(ctx context.Context, period int, elevated bool) ([]*dto.ContentStatDTO, error) {
	period = NormalizePeriod(period)
	ds := s.pick(elevated)

	ready, err := s.ready(ctx, ds)
	if err != nil || !ready {
		return []*dto.ContentStatDTO{}, err
	}

	return cache.GetOrCompute(ctx, s.cache, s.key(ds, "content", period), s.opts.ResultTTL, func(ctx context.Context) ([]*dto.ContentStatDTO, error) {
		start, end := s.window(period)
		rows, err := ds.source.TopContent(ctx, start, end, contentStatsLimit)
		if err != nil {
			log.ErrorContext(ctx, "query content stats error", "period", period, "err", err)
			return nil, UnExpectedError
		}

		ids := make([]uint64, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ContentID)
		}
		infos, err := ds.enricher.Lookup(ctx, ids)
		if err != nil {
			log.WarnContext(ctx, "enrich content stats error", "err", err)
			infos = nil
		}

		result := make([]*dto.ContentStatDTO, 0, len(rows))
		for _, row := range rows {
			item := &dto.ContentStatDTO{}
			_ = copier.Copy(item, row)
			s.enrich(item, infos[row.ContentID])
			result = append(result, item)
		}
		return result, nil
	})
}

func (s *analyticsServiceImpl) enrich(item *dto.ContentStatDTO, info *content.Info) {
	switch {
	case info != nil:
		item.Title = info.Title
		item.URL = info.URL
		item.Type = info.Type
		if item.Type == "" {
			item.Type = consts.UnknownContentType
		}
	case item.ContentID == s.opts.SiteWideContentID:
		item.Title = consts.SiteWideTitle
		item.Type = consts.UnknownContentType
	default:
		item.Title = consts.UnknownContentTitle
		item.Type = consts.UnknownContentType
	}
}

func (s *analyticsServiceImpl) DailyStats(ctx context.Context, period int, elevated bool) ([]*dto.DailyStatDTO, error) {
	period = NormalizePeriod(period)
	ds := s.pick(elevated)

	ready, err := s.ready(ctx, ds)
	if err != nil || !ready {
		return []*dto.DailyStatDTO{}, err
	}

	return cache.GetOrCompute(ctx, s.cache, s.key(ds, "daily", period), s.opts.ResultTTL, func(ctx context.Context) ([]*dto.DailyStatDTO, error) {
		now := s.clock.Now().UTC()
		fromDate := util.FormatDate(now.AddDate(0, 0, -(period - 1)))
		toDate := util.FormatDate(now)

		rows, err := ds.source.DailyTotals(ctx, fromDate, toDate)
		if err != nil {
			log.ErrorContext(ctx, "query daily stats error", "period", period, "err", err)
			return nil, UnExpectedError
		}

		result := make([]*dto.DailyStatDTO, 0, len(rows))
		for _, row := range rows {
			item := &dto.DailyStatDTO{}
			_ = copier.Copy(item, row)
			result = append(result, item)
		}
		return result, nil
	})
}

func toPlatformDTOs(rows []*model.PlatformAggregate) []*dto.PlatformStatDTO {
	result := make([]*dto.PlatformStatDTO, 0, len(rows))
	for _, row := range rows {
		item := &dto.PlatformStatDTO{}
		_ = copier.Copy(item, row)
		if row.UniqueContent > 0 {
			item.AvgSharesPerContent = math.Round(float64(row.TotalShares)/float64(row.UniqueContent)*100) / 100
		}
		result = append(result, item)
	}
	return result
}
