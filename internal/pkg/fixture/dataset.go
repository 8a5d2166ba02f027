package fixture

import (
	"ShareLens/internal/model"
	"ShareLens/internal/pkg/content"
	"ShareLens/internal/pkg/util"
	"context"
	_ "embed"
	"fmt"
	"sort"
	"time"

	"github.com/coder/quartz"
	"github.com/goccy/go-json"
)

//go:embed dataset.json
var raw []byte

// Row 一组合成分享：dayOffset 天前在 platform 上对 contentId 的分享
type Row struct {
	DayOffset int    `json:"dayOffset"`
	Platform  string `json:"platform"`
	ContentID uint64 `json:"contentId"`
	Shares    int64  `json:"shares"`
	Callers   int64  `json:"callers"`
}

type file struct {
	Contents []*content.Info `json:"contents"`
	Rows     []*Row          `json:"rows"`
}

// Dataset 无高级权限时展示的演示数据。
// 每行的时间戳为 now - dayOffset*24h - 1m，因此同一时刻的任意查询结果都是确定的
type Dataset struct {
	clock    quartz.Clock
	rows     []*Row
	contents map[uint64]*content.Info
}

func New(clock quartz.Clock) (*Dataset, error) {
	var f file
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	contents := make(map[uint64]*content.Info, len(f.Contents))
	for _, c := range f.Contents {
		contents[c.ID] = c
	}
	return &Dataset{clock: clock, rows: f.Rows, contents: contents}, nil
}

func (d *Dataset) timestamp(r *Row, now time.Time) time.Time {
	return now.Add(-time.Duration(r.DayOffset)*24*time.Hour - time.Minute)
}

func (d *Dataset) between(start, end time.Time) []*Row {
	now := d.clock.Now().UTC()
	result := make([]*Row, 0)
	for _, r := range d.rows {
		ts := d.timestamp(r, now)
		if !ts.Before(start) && ts.Before(end) {
			result = append(result, r)
		}
	}
	return result
}

func (d *Dataset) TableReady(context.Context) (bool, error) {
	return true, nil
}

func (d *Dataset) Totals(_ context.Context, start, end time.Time) (*model.ShareTotals, error) {
	var totals model.ShareTotals
	seen := make(map[uint64]struct{})
	for _, r := range d.between(start, end) {
		totals.TotalShares += r.Shares
		totals.UniqueCallers += r.Callers
		seen[r.ContentID] = struct{}{}
	}
	totals.UniqueContent = int64(len(seen))
	return &totals, nil
}

func (d *Dataset) PlatformBreakdown(_ context.Context, start, end time.Time, limit int) ([]*model.PlatformAggregate, error) {
	now := d.clock.Now().UTC()
	byPlatform := make(map[string]*model.PlatformAggregate)
	contents := make(map[string]map[uint64]struct{})
	for _, r := range d.between(start, end) {
		agg, ok := byPlatform[r.Platform]
		if !ok {
			agg = &model.PlatformAggregate{Platform: r.Platform}
			byPlatform[r.Platform] = agg
			contents[r.Platform] = make(map[uint64]struct{})
		}
		agg.TotalShares += r.Shares
		contents[r.Platform][r.ContentID] = struct{}{}
		if ts := d.timestamp(r, now); ts.After(agg.LastSharedAt) {
			agg.LastSharedAt = ts
		}
	}

	result := make([]*model.PlatformAggregate, 0, len(byPlatform))
	for platform, agg := range byPlatform {
		agg.UniqueContent = int64(len(contents[platform]))
		result = append(result, agg)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalShares != result[j].TotalShares {
			return result[i].TotalShares > result[j].TotalShares
		}
		return result[i].Platform < result[j].Platform
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (d *Dataset) TopContent(_ context.Context, start, end time.Time, limit int) ([]*model.ContentAggregate, error) {
	byContent := make(map[uint64]*model.ContentAggregate)
	platforms := make(map[uint64]map[string]struct{})
	for _, r := range d.between(start, end) {
		agg, ok := byContent[r.ContentID]
		if !ok {
			agg = &model.ContentAggregate{ContentID: r.ContentID}
			byContent[r.ContentID] = agg
			platforms[r.ContentID] = make(map[string]struct{})
		}
		agg.TotalShares += r.Shares
		platforms[r.ContentID][r.Platform] = struct{}{}
	}

	result := make([]*model.ContentAggregate, 0, len(byContent))
	for id, agg := range byContent {
		agg.DistinctPlatform = int64(len(platforms[id]))
		result = append(result, agg)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalShares != result[j].TotalShares {
			return result[i].TotalShares > result[j].TotalShares
		}
		return result[i].ContentID < result[j].ContentID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// DailyTotals 按日期跨平台去重内容数；演示来源没有身份信息，每行的 callers 视为互不相同，与 Totals 口径一致
func (d *Dataset) DailyTotals(_ context.Context, fromDate, toDate string) ([]*model.DailyAggregate, error) {
	now := d.clock.Now().UTC()
	byDate := make(map[string]*model.DailyAggregate)
	contents := make(map[string]map[uint64]struct{})
	for _, r := range d.rows {
		date := util.FormatDate(d.timestamp(r, now))
		if date < fromDate || date > toDate {
			continue
		}
		agg, ok := byDate[date]
		if !ok {
			agg = &model.DailyAggregate{StatDate: date}
			byDate[date] = agg
			contents[date] = make(map[uint64]struct{})
		}
		agg.TotalShares += r.Shares
		agg.UniqueCallers += r.Callers
		contents[date][r.ContentID] = struct{}{}
	}
	for date, set := range contents {
		byDate[date].UniqueContent = int64(len(set))
	}

	result := make([]*model.DailyAggregate, 0, len(byDate))
	for _, agg := range byDate {
		result = append(result, agg)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StatDate < result[j].StatDate
	})
	return result, nil
}

// Lookup 演示内容的元数据
func (d *Dataset) Lookup(_ context.Context, ids []uint64) (map[uint64]*content.Info, error) {
	result := make(map[uint64]*content.Info, len(ids))
	for _, id := range ids {
		if info, ok := d.contents[id]; ok {
			result[id] = info
		}
	}
	return result, nil
}
