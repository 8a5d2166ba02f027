package repository

import (
	"ShareLens/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyStatRepo interface {
	SaveOrUpdateStat(ctx context.Context, stat *model.DailyStat) error
	GetStat(ctx context.Context, statDate, platform string) (*model.DailyStat, error)
	SaveOrUpdateTotal(ctx context.Context, total *model.DailyTotal) error
	GetTotal(ctx context.Context, statDate string) (*model.DailyTotal, error)
	// DailyTotals 读取 [fromDate, toDate] 内的跨平台日汇总，日期升序
	DailyTotals(ctx context.Context, fromDate, toDate string) ([]*model.DailyAggregate, error)
	TableReady(ctx context.Context) (bool, error)
}

type dailyStatRepoImpl struct {
	db *gorm.DB
}

func NewDailyStatRepo(db *gorm.DB) DailyStatRepo {
	return &dailyStatRepoImpl{db: db}
}

// SaveOrUpdateStat 采用 Upsert 逻辑。如果 stat_date + platform 已存在，则覆盖各项数值
func (r *dailyStatRepoImpl) SaveOrUpdateStat(ctx context.Context, stat *model.DailyStat) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stat_date"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_shares",
			"unique_content",
			"unique_callers",
			"updated_at",
		}),
	}).Create(stat).Error
}

func (r *dailyStatRepoImpl) GetStat(ctx context.Context, statDate, platform string) (*model.DailyStat, error) {
	var stat model.DailyStat
	err := r.db.WithContext(ctx).
		Where("stat_date = ? AND platform = ?", statDate, platform).
		First(&stat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stat, nil
}

// SaveOrUpdateTotal 以 stat_date 为冲突键覆盖跨平台日汇总
func (r *dailyStatRepoImpl) SaveOrUpdateTotal(ctx context.Context, total *model.DailyTotal) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stat_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_shares",
			"unique_content",
			"unique_callers",
			"updated_at",
		}),
	}).Create(total).Error
}

func (r *dailyStatRepoImpl) GetTotal(ctx context.Context, statDate string) (*model.DailyTotal, error) {
	var total model.DailyTotal
	err := r.db.WithContext(ctx).
		Where("stat_date = ?", statDate).
		First(&total).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &total, nil
}

func (r *dailyStatRepoImpl) DailyTotals(ctx context.Context, fromDate, toDate string) ([]*model.DailyAggregate, error) {
	rows := make([]*model.DailyAggregate, 0)
	err := r.db.WithContext(ctx).
		Model(&model.DailyTotal{}).
		Select("stat_date, total_shares, unique_content, unique_callers").
		Where("stat_date >= ? AND stat_date <= ?", fromDate, toDate).
		Order("stat_date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *dailyStatRepoImpl) TableReady(ctx context.Context) (bool, error) {
	migrator := r.db.WithContext(ctx).Migrator()
	return migrator.HasTable(&model.DailyStat{}) && migrator.HasTable(&model.DailyTotal{}), nil
}
