package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anushka-2626/Seat-booking-system/internal/model"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
)

// EmployeeRepository 员工目录只读访问接口
type EmployeeRepository interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.Employee, error)
	ListActiveByBatch(ctx context.Context, batch rules.Batch) ([]model.Employee, error)
	List(ctx context.Context, batch *rules.Batch, includeInactive bool) ([]model.Employee, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) ListActiveByBatch(ctx context.Context, batch rules.Batch) ([]model.Employee, error) {
	var list []model.Employee
	err := r.db.WithContext(ctx).
		Where("batch = ? AND is_active = ?", batch, true).
		Order("employee_id ASC").
		Find(&list).Error
	return list, err
}

func (r *employeeRepo) List(ctx context.Context, batch *rules.Batch, includeInactive bool) ([]model.Employee, error) {
	var list []model.Employee
	db := r.db.WithContext(ctx).Model(&model.Employee{})
	if batch != nil {
		db = db.Where("batch = ?", *batch)
	}
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("employee_id ASC").Find(&list).Error
	return list, err
}
