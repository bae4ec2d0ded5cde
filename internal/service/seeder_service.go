package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anushka-2626/Seat-booking-system/internal/dto"
	"github.com/anushka-2626/Seat-booking-system/internal/repository"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
)

// SeedResult 一次自动分配的统计
type SeedResult struct {
	Created              int
	Skipped              int
	EmployeesWithoutSeat []string
}

func (r *SeedResult) merge(o *SeedResult) {
	r.Created += o.Created
	r.Skipped += o.Skipped
	r.EmployeesWithoutSeat = append(r.EmployeesWithoutSeat, o.EmployeesWithoutSeat...)
}

// SeederService 常规座位自动分配
//
// 按批次排班为每位有默认座位的在职员工补齐常规分配。已存在的记录（包括已释放、已锁定的）
// 一律跳过，因此可在每次切换周次时重复执行。
type SeederService interface {
	EnsureWeek(ctx context.Context, batch rules.Batch, week rules.Week) (*SeedResult, error)
	// EnsureAll 两个批次一起补齐
	EnsureAll(ctx context.Context, week rules.Week) (*SeedResult, error)
	// SeedForEmployee 为调用者所在批次补齐指定周
	SeedForEmployee(ctx context.Context, employeeID, week string) (*dto.SeedResultResponse, error)
	SeedAll(ctx context.Context, week string) (*dto.SeedResultResponse, error)
}

type seederService struct {
	repo       *repository.Repository
	allocation AllocationService
	settings   SettingsService
	logger     *zap.Logger
}

// NewSeederService 创建 SeederService 实例
func NewSeederService(repo *repository.Repository, allocation AllocationService, settings SettingsService, logger *zap.Logger) SeederService {
	return &seederService{repo: repo, allocation: allocation, settings: settings, logger: logger}
}

func (s *seederService) EnsureWeek(ctx context.Context, batch rules.Batch, week rules.Week) (*SeedResult, error) {
	result := &SeedResult{}
	days := rules.WorkingDays(batch, week)
	if len(days) == 0 {
		return result, nil
	}

	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.repo.Employee.ListActiveByBatch(ctx, batch)
	if err != nil {
		s.logger.Error("查询批次员工失败", zap.String("batch", string(batch)), zap.Error(err))
		return nil, err
	}

	for _, emp := range employees {
		// 默认座位必须落在常规座位区
		if emp.DefaultSeat == nil || *emp.DefaultSeat < 1 || *emp.DefaultSeat > snap.RegularSeats {
			result.EmployeesWithoutSeat = append(result.EmployeesWithoutSeat, emp.EmployeeID)
			continue
		}
		for _, day := range days {
			created, err := s.allocation.SeedRegular(ctx, emp.EmployeeID, *emp.DefaultSeat, batch, week, day)
			if err != nil {
				return nil, err
			}
			if created {
				result.Created++
			} else {
				result.Skipped++
			}
		}
	}

	s.logger.Info("常规座位自动分配完成",
		zap.String("batch", string(batch)),
		zap.String("week", string(week)),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("without_seat", len(result.EmployeesWithoutSeat)),
	)
	return result, nil
}

func (s *seederService) EnsureAll(ctx context.Context, week rules.Week) (*SeedResult, error) {
	total := &SeedResult{}
	for _, batch := range rules.Batches {
		r, err := s.EnsureWeek(ctx, batch, week)
		if err != nil {
			return nil, err
		}
		total.merge(r)
	}
	return total, nil
}

func (s *seederService) SeedForEmployee(ctx context.Context, employeeID, week string) (*dto.SeedResultResponse, error) {
	w, ok := rules.ParseWeek(week)
	if !ok {
		return nil, ErrInvalidWeek
	}
	emp, err := s.repo.Employee.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	r, err := s.EnsureWeek(ctx, emp.Batch, w)
	if err != nil {
		return nil, err
	}
	return toSeedResultResponse(w, []rules.Batch{emp.Batch}, r), nil
}

func (s *seederService) SeedAll(ctx context.Context, week string) (*dto.SeedResultResponse, error) {
	w, ok := rules.ParseWeek(week)
	if !ok {
		return nil, ErrInvalidWeek
	}
	r, err := s.EnsureAll(ctx, w)
	if err != nil {
		return nil, err
	}
	return toSeedResultResponse(w, rules.Batches, r), nil
}

func toSeedResultResponse(week rules.Week, batches []rules.Batch, r *SeedResult) *dto.SeedResultResponse {
	names := make([]string, len(batches))
	for i, b := range batches {
		names[i] = string(b)
	}
	return &dto.SeedResultResponse{
		Week:                 string(week),
		Batches:              names,
		Created:              r.Created,
		Skipped:              r.Skipped,
		EmployeesWithoutSeat: r.EmployeesWithoutSeat,
	}
}
