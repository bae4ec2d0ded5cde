package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anushka-2626/Seat-booking-system/internal/model"
)

// HolidayRepository 节假日数据访问接口
type HolidayRepository interface {
	List(ctx context.Context) ([]model.Holiday, error)
	ExistsClosedOn(ctx context.Context, date time.Time) (bool, error)
	Create(ctx context.Context, h *model.Holiday) error
	// BatchUpsert 按 holiday_date 覆盖名称与 is_closed，返回受影响行数
	BatchUpsert(ctx context.Context, holidays []model.Holiday) (int64, error)
	Delete(ctx context.Context, id string) error
}

type holidayRepo struct {
	db *gorm.DB
}

// NewHolidayRepo 创建 HolidayRepository 实例
func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

func (r *holidayRepo) List(ctx context.Context) ([]model.Holiday, error) {
	var list []model.Holiday
	err := r.db.WithContext(ctx).
		Order("holiday_date ASC").
		Find(&list).Error
	return list, err
}

// ExistsClosedOn date 只取日历日期部分
func (r *holidayRepo) ExistsClosedOn(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Holiday{}).
		Where("holiday_date = ? AND is_closed = ?", date.Format("2006-01-02"), true).
		Count(&count).Error
	return count > 0, err
}

func (r *holidayRepo) Create(ctx context.Context, h *model.Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *holidayRepo) BatchUpsert(ctx context.Context, holidays []model.Holiday) (int64, error) {
	if len(holidays) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "holiday_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "is_closed"}),
		}).
		Create(&holidays)
	return result.RowsAffected, result.Error
}

func (r *holidayRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Holiday{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
