package handler

import "github.com/anushka-2626/Seat-booking-system/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Employee   *EmployeeHandler
	Schedule   *ScheduleHandler
	Settings   *SettingsHandler
	Holiday    *HolidayHandler
	Allocation *AllocationHandler
	Report     *ReportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Employee:   NewEmployeeHandler(svc.Employee),
		Schedule:   NewScheduleHandler(svc.Employee),
		Settings:   NewSettingsHandler(svc.Settings),
		Holiday:    NewHolidayHandler(svc.Holiday),
		Allocation: NewAllocationHandler(svc.Allocation, svc.Seeder),
		Report:     NewReportHandler(svc.Report),
	}
}
