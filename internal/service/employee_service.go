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

// ── 员工目录模块业务错误 ──

var (
	ErrEmployeeNotFound = errors.New("员工不存在")
	ErrEmployeeInactive = errors.New("员工已停用")
	ErrInvalidBatch     = errors.New("批次无效，应为 Batch 1 或 Batch 2")
)

// EmployeeService 员工目录业务接口（只读）
type EmployeeService interface {
	Get(ctx context.Context, employeeID string) (*dto.EmployeeResponse, error)
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, error)
	// AllowedSeats 员工以 workingBatch 到岗时可选的座位范围
	AllowedSeats(ctx context.Context, employeeID, workingBatch string) (*dto.AllowedSeatsResponse, error)
}

type employeeService struct {
	repo     *repository.Repository
	settings SettingsService
	logger   *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, settings SettingsService, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, settings: settings, logger: logger}
}

func (s *employeeService) Get(ctx context.Context, employeeID string) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.Employee.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	resp := dto.ToEmployeeResponse(emp)
	return &resp, nil
}

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, error) {
	var batch *rules.Batch
	if req.Batch != "" {
		b, ok := rules.ParseBatch(req.Batch)
		if !ok {
			return nil, ErrInvalidBatch
		}
		batch = &b
	}

	list, err := s.repo.Employee.List(ctx, batch, req.IncludeInactive)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.EmployeeResponse, 0, len(list))
	for i := range list {
		result = append(result, dto.ToEmployeeResponse(&list[i]))
	}
	return result, nil
}

func (s *employeeService) AllowedSeats(ctx context.Context, employeeID, workingBatch string) (*dto.AllowedSeatsResponse, error) {
	wb, ok := rules.ParseBatch(workingBatch)
	if !ok {
		return nil, ErrInvalidBatch
	}
	emp, err := s.repo.Employee.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	requiresFloater := rules.RequiresFloater(emp.Batch, wb)
	return &dto.AllowedSeatsResponse{
		EmployeeBatch:   string(emp.Batch),
		WorkingBatch:    string(wb),
		RequiresFloater: requiresFloater,
		Seats:           rules.AllowedSeatRange(snap, requiresFloater),
	}, nil
}
