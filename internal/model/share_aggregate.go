package model

import "time"

// ShareTotals 时间窗口内的总量
type ShareTotals struct {
	TotalShares   int64
	UniqueContent int64
	UniqueCallers int64
}

// PlatformAggregate 平台维度聚合行
type PlatformAggregate struct {
	Platform      string
	TotalShares   int64
	UniqueContent int64
	LastSharedAt  time.Time
}

// ContentAggregate 内容维度聚合行
type ContentAggregate struct {
	ContentID        uint64
	TotalShares      int64
	DistinctPlatform int64
}

// DailyAggregate 按日聚合行
type DailyAggregate struct {
	StatDate      string
	TotalShares   int64
	UniqueContent int64
	UniqueCallers int64
}
