package dto

// ── 座位设置模块 DTO ──

// UpdateSettingsRequest 更新座位设置请求（未提供的字段保持原值）
type UpdateSettingsRequest struct {
	RegularSeats     *int `json:"regular_seats"      binding:"omitempty,min=1,max=500"`
	FloaterSeats     *int `json:"floater_seats"      binding:"omitempty,min=0,max=500"`
	FloaterStartSeat *int `json:"floater_start_seat" binding:"omitempty,min=1,max=1000"`
	BookingOpenHour  *int `json:"booking_open_hour"  binding:"omitempty,min=0,max=23"`
}

// SettingsResponse 座位设置响应
type SettingsResponse struct {
	RegularSeats     int    `json:"regular_seats"`
	FloaterSeats     int    `json:"floater_seats"`
	FloaterStartSeat int    `json:"floater_start_seat"`
	BookingOpenHour  int    `json:"booking_open_hour"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}
