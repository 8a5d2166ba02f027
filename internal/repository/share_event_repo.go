package repository

import (
	"ShareLens/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type ShareEventRepo interface {
	// Append 追加一条分享事件，ID 由数据库分配
	Append(ctx context.Context, event *model.ShareEvent) error
	// AggregateDay 统计某平台在 [start, end) 内的分享量、去重内容数、去重来源数，platform 为空时跨全部平台去重
	AggregateDay(ctx context.Context, platform string, start, end time.Time) (*model.ShareTotals, error)
	// PlatformsBetween [start, end) 内出现过的平台
	PlatformsBetween(ctx context.Context, start, end time.Time) ([]string, error)
	// CountByContent 某内容的累计分享数，platform 为空时统计全部平台
	CountByContent(ctx context.Context, contentID uint64, platform string) (int64, error)
	Totals(ctx context.Context, start, end time.Time) (*model.ShareTotals, error)
	PlatformBreakdown(ctx context.Context, start, end time.Time, limit int) ([]*model.PlatformAggregate, error)
	TopContent(ctx context.Context, start, end time.Time, limit int) ([]*model.ContentAggregate, error)
	TableReady(ctx context.Context) (bool, error)
}

type shareEventRepoImpl struct {
	db *gorm.DB
}

func NewShareEventRepo(db *gorm.DB) ShareEventRepo {
	return &shareEventRepoImpl{db: db}
}

func (r *shareEventRepoImpl) Append(ctx context.Context, event *model.ShareEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *shareEventRepoImpl) AggregateDay(ctx context.Context, platform string, start, end time.Time) (*model.ShareTotals, error) {
	if platform == "" {
		return r.Totals(ctx, start, end)
	}
	var totals model.ShareTotals
	err := r.db.WithContext(ctx).
		Model(&model.ShareEvent{}).
		Select("COUNT(*) AS total_shares, COUNT(DISTINCT content_id) AS unique_content, COUNT(DISTINCT caller_hash) AS unique_callers").
		Where("platform = ?", platform).
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *shareEventRepoImpl) PlatformsBetween(ctx context.Context, start, end time.Time) ([]string, error) {
	platforms := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&model.ShareEvent{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Distinct().
		Pluck("platform", &platforms).Error
	return platforms, err
}

func (r *shareEventRepoImpl) CountByContent(ctx context.Context, contentID uint64, platform string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&model.ShareEvent{}).
		Where("content_id = ?", contentID)
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *shareEventRepoImpl) Totals(ctx context.Context, start, end time.Time) (*model.ShareTotals, error) {
	var totals model.ShareTotals
	err := r.db.WithContext(ctx).
		Model(&model.ShareEvent{}).
		Select("COUNT(*) AS total_shares, COUNT(DISTINCT content_id) AS unique_content, COUNT(DISTINCT caller_hash) AS unique_callers").
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// PlatformBreakdown 平台维度聚合；最近一次分享时间取该平台最大 ID 对应事件的创建时间
func (r *shareEventRepoImpl) PlatformBreakdown(ctx context.Context, start, end time.Time, limit int) ([]*model.PlatformAggregate, error) {
	var rows []struct {
		Platform      string
		TotalShares   int64
		UniqueContent int64
		LastID        uint64
	}
	err := r.db.WithContext(ctx).
		Model(&model.ShareEvent{}).
		Select("platform, COUNT(*) AS total_shares, COUNT(DISTINCT content_id) AS unique_content, MAX(id) AS last_id").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("platform").
		Order("total_shares DESC, platform ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*model.PlatformAggregate, 0, len(rows))
	if len(rows) == 0 {
		return result, nil
	}

	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.LastID)
	}
	var latest []*model.ShareEvent
	err = r.db.WithContext(ctx).
		Select("id", "created_at").
		Where("id IN ?", ids).
		Find(&latest).Error
	if err != nil {
		return nil, err
	}
	lastShared := make(map[uint64]time.Time, len(latest))
	for _, e := range latest {
		lastShared[e.ID] = e.CreatedAt
	}

	for _, row := range rows {
		result = append(result, &model.PlatformAggregate{
			Platform:      row.Platform,
			TotalShares:   row.TotalShares,
			UniqueContent: row.UniqueContent,
			LastSharedAt:  lastShared[row.LastID],
		})
	}
	return result, nil
}

func (r *shareEventRepoImpl) TopContent(ctx context.Context, start, end time.Time, limit int) ([]*model.ContentAggregate, error) {
	rows := make([]*model.ContentAggregate, 0)
	err := r.db.WithContext(ctx).
		Model(&model.ShareEvent{}).
		Select("content_id, COUNT(*) AS total_shares, COUNT(DISTINCT platform) AS distinct_platform").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("content_id").
		Order("total_shares DESC, content_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *shareEventRepoImpl) TableReady(ctx context.Context) (bool, error) {
	return r.db.WithContext(ctx).Migrator().HasTable(&model.ShareEvent{}), nil
}
