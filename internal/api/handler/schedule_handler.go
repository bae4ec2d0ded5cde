package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/anushka-2626/Seat-booking-system/internal/dto"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
	"github.com/anushka-2626/Seat-booking-system/internal/service"
	"github.com/anushka-2626/Seat-booking-system/pkg/response"
)

// ScheduleHandler 批次排班查询 HTTP 处理器
type ScheduleHandler struct {
	employeeSvc service.EmployeeService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(employeeSvc service.EmployeeService) *ScheduleHandler {
	return &ScheduleHandler{employeeSvc: employeeSvc}
}

// WorkingDays 批次某周的到岗日
// GET /api/v1/schedule/working-days?batch=Batch 1&week=Week 1
func (h *ScheduleHandler) WorkingDays(c *gin.Context) {
	var req dto.WorkingDaysRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	batch, ok := rules.ParseBatch(req.Batch)
	if !ok {
		response.BadRequest(c, 20003, "批次无效")
		return
	}
	week, ok := rules.ParseWeek(req.Week)
	if !ok {
		response.BadRequest(c, 21001, "周次无效")
		return
	}

	days := rules.WorkingDays(batch, week)
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = string(d)
	}
	response.OK(c, dto.WorkingDaysResponse{
		Batch: string(batch),
		Week:  string(week),
		Days:  names,
	})
}

// AllowedSeats 以某工作批次到岗时可选的座位
// GET /api/v1/schedule/allowed-seats?working_batch=Batch 2
func (h *ScheduleHandler) AllowedSeats(c *gin.Context) {
	var req dto.AllowedSeatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.employeeSvc.AllowedSeats(c.Request.Context(), employeeID, req.WorkingBatch)
	if err != nil {
		handleEmployeeError(c, err)
		return
	}
	response.OK(c, result)
}
