package dto

// ── 排班规则查询 DTO ──

// WorkingDaysRequest 查询批次某周的到岗日
type WorkingDaysRequest struct {
	Batch string `form:"batch" binding:"required"`
	Week  string `form:"week"  binding:"required"`
}

// WorkingDaysResponse 到岗日响应
type WorkingDaysResponse struct {
	Batch string   `json:"batch"`
	Week  string   `json:"week"`
	Days  []string `json:"days"`
}

// AllowedSeatsRequest 查询以某工作批次到岗时可选的座位
type AllowedSeatsRequest struct {
	WorkingBatch string `form:"working_batch" binding:"required"`
}

// AllowedSeatsResponse 可选座位响应
type AllowedSeatsResponse struct {
	EmployeeBatch   string `json:"employee_batch"`
	WorkingBatch    string `json:"working_batch"`
	RequiresFloater bool   `json:"requires_floater"`
	Seats           []int  `json:"seats"`
}
