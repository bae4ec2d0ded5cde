package dto

import "github.com/anushka-2626/Seat-booking-system/internal/model"

// ── 模型 → 响应转换 ──

const timeLayout = "2006-01-02T15:04:05Z07:00"

// ToAllocationResponse 转换座位分配
func ToAllocationResponse(a *model.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:         a.ID,
		Week:       string(a.Week),
		Day:        string(a.Day),
		Seat:       a.Seat,
		EmployeeID: a.HolderID(),
		Batch:      string(a.Batch),
		Type:       string(a.Type),
		Status:     string(a.Status),
		Version:    a.Version,
		UpdatedAt:  a.UpdatedAt.Format(timeLayout),
	}
}

// ToAllocationList 批量转换
func ToAllocationList(list []model.Allocation) []AllocationResponse {
	result := make([]AllocationResponse, 0, len(list))
	for i := range list {
		result = append(result, ToAllocationResponse(&list[i]))
	}
	return result
}

// ToEmployeeResponse 转换员工
func ToEmployeeResponse(e *model.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID:  e.EmployeeID,
		Name:        e.Name,
		Batch:       string(e.Batch),
		DefaultSeat: e.DefaultSeat,
		Role:        e.Role,
		IsActive:    e.IsActive,
	}
}

// ToHolidayResponse 转换节假日
func ToHolidayResponse(h *model.Holiday) HolidayResponse {
	return HolidayResponse{
		ID:       h.ID,
		Date:     h.HolidayDate.Format("2006-01-02"),
		Name:     h.Name,
		IsClosed: h.IsClosed,
	}
}
