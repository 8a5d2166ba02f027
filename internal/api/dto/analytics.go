package dto

import "time"

// PeriodQuery 统计窗口，单位天
type PeriodQuery struct {
	Period int `form:"period"`
}

type OverviewDTO struct {
	Period           int                `json:"period"`
	TotalShares      int64              `json:"totalShares"`
	UniqueContent    int64              `json:"uniqueContent"`
	GrowthPercentage float64            `json:"growthPercentage"`
	TopPlatforms     []*PlatformStatDTO `json:"topPlatforms"`
	Synthetic        bool               `json:"synthetic"`
}

type PlatformStatDTO struct {
	Platform            string    `json:"platform"`
	TotalShares         int64     `json:"totalShares"`
	UniqueContent       int64     `json:"uniqueContent"`
	AvgSharesPerContent float64   `json:"avgSharesPerContent"`
	LastSharedAt        time.Time `json:"lastShareTimestamp"`
}

type ContentStatDTO struct {
	ContentID        uint64 `json:"contentId"`
	Title            string `json:"title"`
	URL              string `json:"url"`
	Type             string `json:"type"`
	TotalShares      int64  `json:"totalShares"`
	DistinctPlatform int64  `json:"distinctPlatformsUsed"`
}

type DailyStatDTO struct {
	StatDate      string `json:"date"`
	TotalShares   int64  `json:"totalShares"`
	UniqueContent int64  `json:"uniqueContent"`
	UniqueCallers int64  `json:"uniqueCallers"`
}

// RebuildResultDTO 按日重建汇总的结果
type RebuildResultDTO struct {
	Date      string   `json:"date"`
	Platforms []string `json:"platforms"`
}
