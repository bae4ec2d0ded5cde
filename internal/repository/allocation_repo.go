package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anushka-2626/Seat-booking-system/internal/model"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
	pkgerrors "github.com/anushka-2626/Seat-booking-system/pkg/errors"
)

// AllocationRepository 座位分配数据访问接口
//
// 所有状态迁移都通过 UpdateState 的条件写完成：只有库中 version 与调用方读到的一致时才会写入，
// 否则返回 pkgerrors.ErrConcurrentModification。
// 同一员工同一天只能占用一个座位，由唯一索引 uq_allocations_holder_day 保证，违反时返回 pkgerrors.ErrHolderConflict。
type AllocationRepository interface {
	GetByKey(ctx context.Context, week rules.Week, day rules.Day, seat int) (*model.Allocation, error)
	GetByID(ctx context.Context, id string) (*model.Allocation, error)
	ListByWeek(ctx context.Context, week rules.Week) ([]model.Allocation, error)
	ListByWeekDay(ctx context.Context, week rules.Week, day rules.Day) ([]model.Allocation, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]model.Allocation, error)
	// Create 插入新记录；(week, day, seat) 已存在时返回 ErrConcurrentModification，
	// 占用人当天已持有座位时返回 ErrHolderConflict
	Create(ctx context.Context, a *model.Allocation) error
	// CreateIfAbsent 仅在 (week, day, seat) 无记录且占用人当天未持有座位时插入，返回是否插入
	CreateIfAbsent(ctx context.Context, a *model.Allocation) (bool, error)
	// UpdateState 以 a.Version 为期望版本做条件更新，成功后 a.Version +1
	UpdateState(ctx context.Context, a *model.Allocation) error
}

type allocationRepo struct {
	db *gorm.DB
}

// NewAllocationRepo 创建 AllocationRepository 实例
func NewAllocationRepo(db *gorm.DB) AllocationRepository {
	return &allocationRepo{db: db}
}

func (r *allocationRepo) GetByKey(ctx context.Context, week rules.Week, day rules.Day, seat int) (*model.Allocation, error) {
	var a model.Allocation
	err := r.db.WithContext(ctx).
		Where("week = ? AND day = ? AND seat = ?", week, day, seat).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *allocationRepo) GetByID(ctx context.Context, id string) (*model.Allocation, error) {
	var a model.Allocation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *allocationRepo) ListByWeek(ctx context.Context, week rules.Week) ([]model.Allocation, error) {
	var list []model.Allocation
	err := r.db.WithContext(ctx).
		Where("week = ?", week).
		Order("day ASC, seat ASC").
		Find(&list).Error
	return list, err
}

func (r *allocationRepo) ListByWeekDay(ctx context.Context, week rules.Week, day rules.Day) ([]model.Allocation, error) {
	var list []model.Allocation
	err := r.db.WithContext(ctx).
		Where("week = ? AND day = ?", week, day).
		Order("seat ASC").
		Find(&list).Error
	return list, err
}

func (r *allocationRepo) ListByEmployee(ctx context.Context, employeeID string) ([]model.Allocation, error) {
	var list []model.Allocation
	err := r.db.WithContext(ctx).
		Where("allocated_to_employee_id = ?", employeeID).
		Order("week ASC, seat ASC").
		Find(&list).Error
	return list, err
}

func (r *allocationRepo) Create(ctx context.Context, a *model.Allocation) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	// 两个唯一约束都会翻译成 ErrDuplicatedKey，按座位记录是否存在区分
	var n int64
	if cerr := r.db.WithContext(ctx).
		Model(&model.Allocation{}).
		Where("week = ? AND day = ? AND seat = ?", a.Week, a.Day, a.Seat).
		Count(&n).Error; cerr != nil {
		return cerr
	}
	if n > 0 {
		return pkgerrors.ErrConcurrentModification
	}
	return pkgerrors.ErrHolderConflict
}

func (r *allocationRepo) CreateIfAbsent(ctx context.Context, a *model.Allocation) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(a)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *allocationRepo) UpdateState(ctx context.Context, a *model.Allocation) error {
	oldVersion := a.Version
	result := r.db.WithContext(ctx).
		Model(&model.Allocation{}).
		Where("id = ? AND version = ?", a.ID, oldVersion).
		Updates(map[string]interface{}{
			"allocated_to_employee_id": a.AllocatedToEmployeeID,
			"batch":                    a.Batch,
			"type":                     a.Type,
			"status":                   a.Status,
			"locked_from":              a.LockedFrom,
			"updated_by":               a.UpdatedBy,
			"updated_at":               gorm.Expr("CURRENT_TIMESTAMP"),
			"version":                  oldVersion + 1,
		})
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrHolderConflict
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrConcurrentModification
	}
	a.Version = oldVersion + 1
	return nil
}
