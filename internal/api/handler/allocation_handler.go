package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anushka-2626/Seat-booking-system/internal/dto"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
	"github.com/anushka-2626/Seat-booking-system/internal/service"
	pkgerrors "github.com/anushka-2626/Seat-booking-system/pkg/errors"
	"github.com/anushka-2626/Seat-booking-system/pkg/response"
)

// 订座校验失败的业务码
var validationCodes = map[rules.ValidationCode]int{
	rules.CodeBookingWindowClosed: 21101,
	rules.CodeHoliday:             21102,
	rules.CodeScheduleMismatch:    21103,
	rules.CodeNoSeatSelected:      21104,
}

// AllocationHandler 座位分配模块 HTTP 处理器
type AllocationHandler struct {
	allocSvc  service.AllocationService
	seederSvc service.SeederService
}

// NewAllocationHandler 创建 AllocationHandler
func NewAllocationHandler(allocSvc service.AllocationService, seederSvc service.SeederService) *AllocationHandler {
	return &AllocationHandler{allocSvc: allocSvc, seederSvc: seederSvc}
}

// ── 员工操作 ──

// Seed 为本人批次补齐某周的常规座位分配
// POST /api/v1/allocations/seed
func (h *AllocationHandler) Seed(c *gin.Context) {
	var req dto.SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.seederSvc.SeedForEmployee(c.Request.Context(), employeeID, req.Week)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, result)
}

// Check 订座预检
// POST /api/v1/allocations/check
func (h *AllocationHandler) Check(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.allocSvc.ValidateBooking(c.Request.Context(), &req, employeeID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, result)
}

// Book 订座
// POST /api/v1/allocations/book
func (h *AllocationHandler) Book(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	alloc, err := h.allocSvc.Book(c.Request.Context(), &req, employeeID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, alloc)
}

// Release 释放本人座位
// POST /api/v1/allocations/release
func (h *AllocationHandler) Release(c *gin.Context) {
	var req dto.ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	alloc, err := h.allocSvc.Release(c.Request.Context(), &req, employeeID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, alloc)
}

// ListDay 查询某天全部座位
// GET /api/v1/allocations?week=Week 1&day=Mon
func (h *AllocationHandler) ListDay(c *gin.Context) {
	var req dto.AllocationListRequest
	if err := c.ShouldBindQuery(&req); err != nil || req.Day == "" {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.allocSvc.ListDay(c.Request.Context(), req.Week, req.Day)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, list)
}

// ListMine 查询本人持有的座位
// GET /api/v1/allocations/me
func (h *AllocationHandler) ListMine(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	list, err := h.allocSvc.ListMine(c.Request.Context(), employeeID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, list)
}

// ── 管理员操作 ──

// ListWeek 查询整周全部座位
// GET /api/v1/admin/allocations?week=Week 1
func (h *AllocationHandler) ListWeek(c *gin.Context) {
	var req dto.AllocationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.allocSvc.ListWeek(c.Request.Context(), req.Week)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, list)
}

// SeedWeek 两个批次一起补齐某周
// POST /api/v1/admin/allocations/seed-week
func (h *AllocationHandler) SeedWeek(c *gin.Context) {
	var req dto.SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.seederSvc.SeedAll(c.Request.Context(), req.Week)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, result)
}

// ForceRelease 管理员强制释放
// POST /api/v1/admin/allocations/:id/force-release
func (h *AllocationHandler) ForceRelease(c *gin.Context) {
	h.adminTransition(c, h.allocSvc.AdminForceRelease)
}

// Lock 锁定座位
// POST /api/v1/admin/allocations/:id/lock
func (h *AllocationHandler) Lock(c *gin.Context) {
	h.adminTransition(c, h.allocSvc.Lock)
}

// Unlock 解锁座位
// POST /api/v1/admin/allocations/:id/unlock
func (h *AllocationHandler) Unlock(c *gin.Context) {
	h.adminTransition(c, h.allocSvc.Unlock)
}

type adminTransitionFunc func(ctx context.Context, allocationID, adminID string) (*dto.AllocationResponse, error)

func (h *AllocationHandler) adminTransition(c *gin.Context, fn adminTransitionFunc) {
	adminID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	alloc, err := fn(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, alloc)
}

// handleAllocationError 统一处理座位分配模块业务错误
func (h *AllocationHandler) handleAllocationError(c *gin.Context, err error) {
	var ve *rules.ValidationError
	if errors.As(err, &ve) {
		code, ok := validationCodes[ve.Code]
		if !ok {
			code = 21100
		}
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, code, ve.Err.Error(), ve.Detail)
		return
	}

	switch {
	case pkgerrors.IsRetryable(err):
		response.Conflict(c, 21409, "座位状态已变化，请刷新后重试")
	case errors.Is(err, service.ErrInvalidWeek):
		response.BadRequest(c, 21001, "周次无效")
	case errors.Is(err, service.ErrInvalidDay):
		response.BadRequest(c, 21002, "日期无效")
	case errors.Is(err, service.ErrSeatOutOfRange):
		response.BadRequest(c, 21004, "座位号超出范围")
	case errors.Is(err, service.ErrAllocationNotFound):
		response.NotFound(c, 21201, "座位分配记录不存在")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 20001, "员工不存在")
	case errors.Is(err, service.ErrNotSeatHolder):
		response.Forbidden(c, 21301, "该座位不属于当前员工")
	case errors.Is(err, service.ErrEmployeeInactive):
		response.Forbidden(c, 20002, "员工已停用")
	case errors.Is(err, service.ErrSeatTaken):
		response.Conflict(c, 21401, "座位已被预订")
	case errors.Is(err, service.ErrSeatUnavailable):
		response.Conflict(c, 21402, "该座位未被释放，不可预订")
	case errors.Is(err, service.ErrSeatLocked):
		response.Conflict(c, 21403, "座位维护中，暂不可用")
	case errors.Is(err, service.ErrAlreadyHoldsSeat):
		response.Conflict(c, 21404, "当天已持有座位，请先释放")
	case errors.Is(err, service.ErrSeatNotLocked):
		response.Conflict(c, 21405, "座位未处于锁定状态")
	case errors.Is(err, service.ErrAlreadyReleased):
		response.Conflict(c, 21406, "座位已释放")
	default:
		response.InternalError(c)
	}
}
