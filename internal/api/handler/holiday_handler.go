package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anushka-2626/Seat-booking-system/internal/dto"
	"github.com/anushka-2626/Seat-booking-system/internal/service"
	"github.com/anushka-2626/Seat-booking-system/pkg/response"
)

// HolidayHandler 节假日 HTTP 处理器
type HolidayHandler struct {
	holidaySvc service.HolidayService
}

// NewHolidayHandler 创建 HolidayHandler
func NewHolidayHandler(holidaySvc service.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidaySvc: holidaySvc}
}

// List 节假日列表
// GET /api/v1/holidays
func (h *HolidayHandler) List(c *gin.Context) {
	list, err := h.holidaySvc.List(c.Request.Context())
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}
	response.OK(c, list)
}

// Create 新增节假日
// POST /api/v1/holidays
func (h *HolidayHandler) Create(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	holiday, err := h.holidaySvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}
	response.Created(c, holiday)
}

// Delete 删除节假日
// DELETE /api/v1/holidays/:id
func (h *HolidayHandler) Delete(c *gin.Context) {
	if err := h.holidaySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleHolidayError(c, err)
		return
	}
	response.OK(c, nil)
}

// Import 导入 ICS 节假日
// POST /api/v1/holidays/import
// multipart 上传 file 字段，或 JSON {"url": "..."} 指定订阅地址
func (h *HolidayHandler) Import(c *gin.Context) {
	var (
		result *dto.ImportHolidayResponse
		err    error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			response.BadRequest(c, 10001, "请上传 ICS 文件")
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			response.BadRequest(c, 10001, "读取上传文件失败")
			return
		}
		defer f.Close()
		result, err = h.holidaySvc.ImportICS(c.Request.Context(), f)
	} else {
		var req dto.ImportHolidayRequest
		if berr := c.ShouldBindJSON(&req); berr != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
		result, err = h.holidaySvc.ImportFromURL(c.Request.Context(), req.URL)
	}

	if err != nil {
		h.handleHolidayError(c, err)
		return
	}
	response.OK(c, result)
}

// handleHolidayError 统一处理节假日业务错误
func (h *HolidayHandler) handleHolidayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHolidayNotFound):
		response.NotFound(c, 23001, "节假日不存在")
	case errors.Is(err, service.ErrHolidayExists):
		response.Conflict(c, 23002, "该日期已登记为节假日")
	case errors.Is(err, service.ErrInvalidHolidayDate):
		response.BadRequest(c, 23003, "日期格式无效")
	case errors.Is(err, service.ErrHolidayICSEmpty):
		response.BadRequest(c, 23004, "ICS 文件中没有可导入的节假日")
	case errors.Is(err, service.ErrHolidayICSInvalid):
		response.BadRequest(c, 23005, "ICS 格式解析失败")
	case errors.Is(err, service.ErrHolidayICSFetch):
		response.Error(c, 502, 23006, "获取 ICS 订阅失败")
	default:
		response.InternalError(c)
	}
}
