package service

import (
	"go.uber.org/zap"

	"github.com/anushka-2626/Seat-booking-system/config"
	"github.com/anushka-2626/Seat-booking-system/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Settings   SettingsService
	Holiday    HolidayService
	Employee   EmployeeService
	Allocation AllocationService
	Seeder     SeederService
	Report     ReportService
}

// NewService 创建 Service 聚合
// shared 为 nil 时座位设置只在进程内缓存
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	shared SharedCache,
	logger *zap.Logger,
) (*Service, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, err
	}

	settings := NewSettingsService(repo, shared, cfg.Booking.SettingsCacheTTL, logger)
	holiday := NewHolidayService(repo, loc, logger)
	allocation := NewAllocationService(repo, settings, holiday, loc, logger)

	return &Service{
		Settings:   settings,
		Holiday:    holiday,
		Employee:   NewEmployeeService(repo, settings, logger),
		Allocation: allocation,
		Seeder:     NewSeederService(repo, allocation, settings, logger),
		Report:     NewReportService(repo, logger),
	}, nil
}
