package dto

// ── 节假日模块 DTO ──

// CreateHolidayRequest 新增节假日请求
type CreateHolidayRequest struct {
	Date     string `json:"date"      binding:"required,datetime=2006-01-02"`
	Name     string `json:"name"      binding:"required,min=1,max=200"`
	IsClosed *bool  `json:"is_closed"`
}

// ImportHolidayRequest 从 ICS 订阅地址导入（也可直接上传文件）
type ImportHolidayRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// HolidayResponse 节假日响应
type HolidayResponse struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Name     string `json:"name"`
	IsClosed bool   `json:"is_closed"`
}

// ImportHolidayResponse ICS 导入结果
type ImportHolidayResponse struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
}
