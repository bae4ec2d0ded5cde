package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anushka-2626/Seat-booking-system/internal/dto"
	"github.com/anushka-2626/Seat-booking-system/internal/service"
	"github.com/anushka-2626/Seat-booking-system/pkg/response"
)

// EmployeeHandler 员工目录 HTTP 处理器
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// Me 当前员工信息
// GET /api/v1/employees/me
func (h *EmployeeHandler) Me(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	emp, err := h.employeeSvc.Get(c.Request.Context(), employeeID)
	if err != nil {
		handleEmployeeError(c, err)
		return
	}
	response.OK(c, emp)
}

// List 员工列表
// GET /api/v1/employees?batch=Batch 1&include_inactive=true
func (h *EmployeeHandler) List(c *gin.Context) {
	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.employeeSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleEmployeeError(c, err)
		return
	}
	response.OK(c, list)
}

// handleEmployeeError 统一处理员工目录业务错误
func handleEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 20001, "员工不存在")
	case errors.Is(err, service.ErrEmployeeInactive):
		response.Forbidden(c, 20002, "员工已停用")
	case errors.Is(err, service.ErrInvalidBatch):
		response.BadRequest(c, 20003, "批次无效")
	default:
		response.InternalError(c)
	}
}
