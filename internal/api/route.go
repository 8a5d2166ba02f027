package api

import (
	"ShareLens/internal/api/middleware"
	"ShareLens/internal/pkg/logger"
	"ShareLens/internal/pkg/security"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions 路由层配置
type RouterOptions struct {
	TrustedProxies []string
	Policy         security.AccessPolicy
	ExposeMetrics  bool
}

func SetupRouter(group *HandlersGroup, opts RouterOptions) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(opts.TrustedProxies)

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware("/metrics"))
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	if opts.ExposeMetrics {
		r.Use(middleware.MetricsMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	policy := opts.Policy
	if policy == nil {
		policy = security.StaticPolicy{}
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		apiGroup.POST("/share", middleware.CallerMiddleware(opts.TrustedProxies), group.ShareHandler.Share)

		analyticsGroup := apiGroup.Group("/analytics")
		analyticsGroup.Use(middleware.AccessMiddleware(policy))
		{
			analyticsGroup.GET("/overview", group.AnalyticsHandler.Overview)
			analyticsGroup.GET("/platforms", group.AnalyticsHandler.Platforms)
			analyticsGroup.GET("/content", group.AnalyticsHandler.Content)
			analyticsGroup.GET("/daily", group.AnalyticsHandler.Daily)

			adminGroup := analyticsGroup.Group("")
			adminGroup.Use(middleware.RequireElevated())
			{
				adminGroup.POST("/rollups/rebuild", group.AnalyticsHandler.Rebuild)
			}
		}
	}

	return r
}
