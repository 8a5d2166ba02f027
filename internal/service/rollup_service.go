package service

import (
	"ShareLens/internal/model"
	"ShareLens/internal/pkg/consts"
	"ShareLens/internal/pkg/redis"
	"ShareLens/internal/pkg/util"
	"ShareLens/internal/repository"
	"context"
	"fmt"
	"strings"
	"time"
)

type RollupService interface {
	// Recompute 从事件表重新计算 (date, platform) 与当日跨平台汇总并 upsert，可重复执行
	Recompute(ctx context.Context, date time.Time, platform string) error
	// Rebuild 重算某天出现过的所有平台，返回处理的平台
	Rebuild(ctx context.Context, date time.Time) ([]string, error)
	// MarkDirty 记录重算失败的 key，由补偿任务处理
	MarkDirty(ctx context.Context, date time.Time, platform string) error
}

type rollupServiceImpl struct {
	eventRepo repository.ShareEventRepo
	statRepo  repository.DailyStatRepo
}

func NewRollupService(eventRepo repository.ShareEventRepo, statRepo repository.DailyStatRepo) RollupService {
	return &rollupServiceImpl{
		eventRepo: eventRepo,
		statRepo:  statRepo,
	}
}

func (s *rollupServiceImpl) Recompute(ctx context.Context, date time.Time, platform string) error {
	if err := s.recomputePlatform(ctx, date, platform); err != nil {
		return err
	}
	return s.recomputeDay(ctx, date)
}

func (s *rollupServiceImpl) recomputePlatform(ctx context.Context, date time.Time, platform string) error {
	start, end := util.DayRange(date)
	totals, err := s.eventRepo.AggregateDay(ctx, platform, start, end)
	if err != nil {
		return fmt.Errorf("aggregate %s/%s: %w", util.FormatDate(start), platform, err)
	}

	stat := &model.DailyStat{
		StatDate:      util.FormatDate(start),
		Platform:      platform,
		TotalShares:   totals.TotalShares,
		UniqueContent: totals.UniqueContent,
		UniqueCallers: totals.UniqueCallers,
	}
	if err = s.statRepo.SaveOrUpdateStat(ctx, stat); err != nil {
		return fmt.Errorf("upsert %s/%s: %w", stat.StatDate, platform, err)
	}
	return nil
}

// recomputeDay 跨平台去重，同一内容或来源在多个平台出现只计一次
func (s *rollupServiceImpl) recomputeDay(ctx context.Context, date time.Time) error {
	start, end := util.DayRange(date)
	totals, err := s.eventRepo.AggregateDay(ctx, "", start, end)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", util.FormatDate(start), err)
	}

	total := &model.DailyTotal{
		StatDate:      util.FormatDate(start),
		TotalShares:   totals.TotalShares,
		UniqueContent: totals.UniqueContent,
		UniqueCallers: totals.UniqueCallers,
	}
	if err = s.statRepo.SaveOrUpdateTotal(ctx, total); err != nil {
		return fmt.Errorf("upsert %s: %w", total.StatDate, err)
	}
	return nil
}

func (s *rollupServiceImpl) Rebuild(ctx context.Context, date time.Time) ([]string, error) {
	start, end := util.DayRange(date)
	platforms, err := s.eventRepo.PlatformsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(platforms) == 0 {
		return platforms, nil
	}
	for _, platform := range platforms {
		if err = s.recomputePlatform(ctx, start, platform); err != nil {
			return nil, err
		}
	}
	if err = s.recomputeDay(ctx, start); err != nil {
		return nil, err
	}
	return platforms, nil
}

func (s *rollupServiceImpl) MarkDirty(ctx context.Context, date time.Time, platform string) error {
	return redis.AddToSet(ctx, consts.ShareRollupDirtyKey, DirtyMember(date, platform))
}

// DirtyMember 补偿集合成员格式 YYYY-MM-DD|platform
func DirtyMember(date time.Time, platform string) string {
	return util.FormatDate(date) + "|" + platform
}

// ParseDirtyMember 解析补偿集合成员
func ParseDirtyMember(member string) (time.Time, string, error) {
	dateStr, platform, ok := strings.Cut(member, "|")
	if !ok || platform == "" {
		return time.Time{}, "", fmt.Errorf("malformed dirty member %q", member)
	}
	date, err := util.ParseDate(dateStr)
	if err != nil {
		return time.Time{}, "", err
	}
	return date, platform, nil
}
