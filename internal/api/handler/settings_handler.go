package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anushka-2626/Seat-booking-system/internal/dto"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
	"github.com/anushka-2626/Seat-booking-system/internal/service"
	"github.com/anushka-2626/Seat-booking-system/pkg/response"
)

// SettingsHandler 座位设置 HTTP 处理器
type SettingsHandler struct {
	settingsSvc service.SettingsService
}

// NewSettingsHandler 创建 SettingsHandler
func NewSettingsHandler(settingsSvc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// Get 获取座位设置
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}
	response.OK(c, s)
}

// Update 更新座位设置
// PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	s, err := h.settingsSvc.Update(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}
	response.OK(c, s)
}

// handleSettingsError 统一处理座位设置业务错误
func (h *SettingsHandler) handleSettingsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rules.ErrInvalidSettings):
		response.BadRequest(c, 22001, err.Error())
	default:
		response.InternalError(c)
	}
}
