package handler

import (
	"ShareLens/internal/api/dto"
	"ShareLens/internal/api/middleware"
	"ShareLens/internal/pkg/response"
	"ShareLens/internal/pkg/util"
	"ShareLens/internal/service"
	"errors"
	log "log/slog"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ShareHandler struct {
	shareSvc service.ShareService
}

func NewShareHandler(shareSvc service.ShareService) *ShareHandler {
	return &ShareHandler{
		shareSvc: shareSvc,
	}
}

// Share 分享上报
func (h *ShareHandler) Share(c *gin.Context) {
	var req dto.ShareRequest
	if err := c.ShouldBind(&req); err != nil {
		log.InfoContext(c.Request.Context(), "bind share request failed", "err", err)
		// platform 是唯一的 required 字段，其余绑定失败都是字段格式错误
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.Error(c, service.ErrMissingPlatform)
			return
		}
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	ack, err := h.shareSvc.RecordShare(c.Request.Context(), &req, middleware.GetCaller(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ack)
}
