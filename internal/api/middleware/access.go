package middleware

import (
	"ShareLens/internal/pkg/consts"
	"ShareLens/internal/pkg/response"
	"ShareLens/internal/pkg/security"
	"ShareLens/internal/service"

	"github.com/gin-gonic/gin"
)

// AccessMiddleware 根据访问策略标记请求是否可查看真实数据
func AccessMiddleware(policy security.AccessPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		elevated := policy.Elevated(c.Request.Context(), c.GetHeader("Authorization"))
		c.Set(consts.ContextElevatedKey, elevated)
		c.Next()
	}
}

// RequireElevated 仅允许高级权限访问
func RequireElevated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(consts.ContextElevatedKey) {
			response.Fail(c, response.Forbidden, service.KindUnauthorized, "权限不足：无权访问该资源")
			c.Abort()
			return
		}
		c.Next()
	}
}
