package dto

// ── 座位分配模块 DTO ──

// BookRequest 订座请求（也用于预检）
type BookRequest struct {
	Week         string `json:"week"          binding:"required"`
	Day          string `json:"day"           binding:"required"`
	WorkingBatch string `json:"working_batch" binding:"required"`
	Seat         *int   `json:"seat"`
}

// ReleaseRequest 释放座位请求
type ReleaseRequest struct {
	Week string `json:"week" binding:"required"`
	Day  string `json:"day"  binding:"required"`
	Seat int    `json:"seat" binding:"required,min=1"`
}

// SeedRequest 为本人批次补齐某周的常规座位分配
type SeedRequest struct {
	Week string `json:"week" binding:"required"`
}

// AllocationListRequest 按周/日查询分配
type AllocationListRequest struct {
	Week string `form:"week" binding:"required"`
	Day  string `form:"day"`
}

// AllocationResponse 座位分配响应
type AllocationResponse struct {
	ID         string `json:"id"`
	Week       string `json:"week"`
	Day        string `json:"day"`
	Seat       int    `json:"seat"`
	EmployeeID string `json:"allocated_to_employee_id,omitempty"`
	Batch      string `json:"batch"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	Version    int    `json:"version"`
	UpdatedAt  string `json:"updated_at"`
}

// BookingCheckResponse 订座预检结果（不写入任何数据）
type BookingCheckResponse struct {
	Allowed         bool   `json:"allowed"`
	Reason          string `json:"reason,omitempty"`
	Code            string `json:"code,omitempty"`
	RequiresFloater bool   `json:"requires_floater"`
	AllowedSeats    []int  `json:"allowed_seats"`
}

// SeedResultResponse 自动分配结果
type SeedResultResponse struct {
	Week                 string   `json:"week"`
	Batches              []string `json:"batches"`
	Created              int      `json:"created"`
	Skipped              int      `json:"skipped"`
	EmployeesWithoutSeat []string `json:"employees_without_seat,omitempty"`
}
