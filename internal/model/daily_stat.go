package model

import (
	"time"
)

// DailyStat 按 (日期, 平台) 汇总的分享指标，由 share_events 重新计算得到
type DailyStat struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	StatDate      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_date_platform" json:"date"`
	Platform      string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_date_platform" json:"platform"`
	TotalShares   int64     `gorm:"not null;default:0" json:"totalShares"`
	UniqueContent int64     `gorm:"not null;default:0" json:"uniqueContent"`
	UniqueCallers int64     `gorm:"not null;default:0" json:"uniqueCallers"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (DailyStat) TableName() string {
	return "daily_share_stats"
}

// DailyTotal 按日期跨平台汇总，去重口径与窗口查询一致
type DailyTotal struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	StatDate      string    `gorm:"type:varchar(10);not null;uniqueIndex" json:"date"`
	TotalShares   int64     `gorm:"not null;default:0" json:"totalShares"`
	UniqueContent int64     `gorm:"not null;default:0" json:"uniqueContent"`
	UniqueCallers int64     `gorm:"not null;default:0" json:"uniqueCallers"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (DailyTotal) TableName() string {
	return "daily_share_totals"
}
