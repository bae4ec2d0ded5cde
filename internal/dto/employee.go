package dto

// ── 员工目录模块 DTO ──

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	Batch           string `form:"batch"`
	IncludeInactive bool   `form:"include_inactive"`
}

// EmployeeResponse 员工信息响应
type EmployeeResponse struct {
	EmployeeID  string `json:"employee_id"`
	Name        string `json:"name"`
	Batch       string `json:"batch"`
	DefaultSeat *int   `json:"default_seat,omitempty"`
	Role        string `json:"role"`
	IsActive    bool   `json:"is_active"`
}
