package api

import "ShareLens/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	ShareHandler     *handler.ShareHandler
	AnalyticsHandler *handler.AnalyticsHandler
}
