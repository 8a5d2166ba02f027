package handler

import (
	"ShareLens/internal/api/dto"
	"ShareLens/internal/pkg/consts"
	"ShareLens/internal/pkg/response"
	"ShareLens/internal/pkg/util"
	"ShareLens/internal/service"
	"time"

	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
	rollupSvc    service.RollupService
	clock        quartz.Clock
}

func NewAnalyticsHandler(analyticsSvc service.AnalyticsService, rollupSvc service.RollupService, clock quartz.Clock) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
		rollupSvc:    rollupSvc,
		clock:        clock,
	}
}

// period 非法或缺失时交给 service 归一化为 30
func period(c *gin.Context) int {
	var q dto.PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return service.DefaultPeriod
	}
	return q.Period
}

func elevated(c *gin.Context) bool {
	return c.GetBool(consts.ContextElevatedKey)
}

// Overview 总览
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	data, err := h.analyticsSvc.Overview(c.Request.Context(), period(c), elevated(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, data)
}

// Platforms 平台排行
func (h *AnalyticsHandler) Platforms(c *gin.Context) {
	data, err := h.analyticsSvc.PlatformStats(c.Request.Context(), period(c), elevated(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, data)
}

// Content 内容排行
func (h *AnalyticsHandler) Content(c *gin.Context) {
	data, err := h.analyticsSvc.ContentStats(c.Request.Context(), period(c), elevated(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, data)
}

// Daily 按日趋势
func (h *AnalyticsHandler) Daily(c *gin.Context) {
	data, err := h.analyticsSvc.DailyStats(c.Request.Context(), period(c), elevated(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, data)
}

// Rebuild 重算某天的汇总，date 缺省为今天
func (h *AnalyticsHandler) Rebuild(c *gin.Context) {
	date := h.clock.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := util.ParseDate(raw)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		date = parsed
	}
	if date.After(h.clock.Now().UTC().Add(24 * time.Hour)) {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	platforms, err := h.rollupSvc.Rebuild(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.RebuildResultDTO{
		Date:      util.FormatDate(date),
		Platforms: platforms,
	})
}
