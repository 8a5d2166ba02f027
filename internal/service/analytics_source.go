package service

import (
	"ShareLens/internal/model"
	"ShareLens/internal/pkg/content"
	"ShareLens/internal/repository"
	"context"
	"time"
)

// AnalyticsSource 分析查询的数据来源，真实数据与演示数据各有一份实现
type AnalyticsSource interface {
	TableReady(ctx context.Context) (bool, error)
	Totals(ctx context.Context, start, end time.Time) (*model.ShareTotals, error)
	PlatformBreakdown(ctx context.Context, start, end time.Time, limit int) ([]*model.PlatformAggregate, error)
	TopContent(ctx context.Context, start, end time.Time, limit int) ([]*model.ContentAggregate, error)
	DailyTotals(ctx context.Context, fromDate, toDate string) ([]*model.DailyAggregate, error)
}

// ContentEnricher 为内容排行补全标题、链接、类型
type ContentEnricher interface {
	Lookup(ctx context.Context, ids []uint64) (map[uint64]*content.Info, error)
}

// storeSource 事件表 + 日汇总表
type storeSource struct {
	repository.ShareEventRepo
	statRepo repository.DailyStatRepo
}

// NewStoreSource 真实数据来源：窗口查询走事件表，按日趋势走汇总表
func NewStoreSource(eventRepo repository.ShareEventRepo, statRepo repository.DailyStatRepo) AnalyticsSource {
	return &storeSource{
		ShareEventRepo: eventRepo,
		statRepo:       statRepo,
	}
}

func (s *storeSource) TableReady(ctx context.Context) (bool, error) {
	ready, err := s.ShareEventRepo.TableReady(ctx)
	if err != nil || !ready {
		return false, err
	}
	return s.statRepo.TableReady(ctx)
}

func (s *storeSource) DailyTotals(ctx context.Context, fromDate, toDate string) ([]*model.DailyAggregate, error) {
	return s.statRepo.DailyTotals(ctx, fromDate, toDate)
}
