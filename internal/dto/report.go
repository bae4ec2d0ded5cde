package dto

// ── 周报模块 DTO ──

// SummaryCounts 按状态分类的计数
type SummaryCounts struct {
	RegularAllocated int `json:"regular_allocated"`
	FloaterBooked    int `json:"floater_booked"`
	TempAvailable    int `json:"temp_available"`
	TempBooked       int `json:"temp_booked"`
	Locked           int `json:"locked"`
}

// SeatStatus 单个座位当天的状态
type SeatStatus struct {
	ID         string `json:"id"`
	Seat       int    `json:"seat"`
	EmployeeID string `json:"employee_id,omitempty"`
	Batch      string `json:"batch"`
	Type       string `json:"type"`
	Status     string `json:"status"`
}

// DaySummary 单日汇总
type DaySummary struct {
	Day    string        `json:"day"`
	Counts SummaryCounts `json:"counts"`
	Seats  []SeatStatus  `json:"seats"`
}

// WeekSummaryResponse 周汇总
type WeekSummaryResponse struct {
	Week   string        `json:"week"`
	Totals SummaryCounts `json:"totals"`
	ByDay  []DaySummary  `json:"by_day"`
}
