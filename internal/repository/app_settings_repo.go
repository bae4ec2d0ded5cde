package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anushka-2626/Seat-booking-system/internal/model"
)

// AppSettingsRepository 座位设置数据访问接口
type AppSettingsRepository interface {
	Get(ctx context.Context) (*model.AppSettings, error)
	Save(ctx context.Context, s *model.AppSettings) error
}

type appSettingsRepo struct {
	db *gorm.DB
}

// NewAppSettingsRepo 创建 AppSettingsRepository 实例
func NewAppSettingsRepo(db *gorm.DB) AppSettingsRepository {
	return &appSettingsRepo{db: db}
}

func (r *appSettingsRepo) Get(ctx context.Context) (*model.AppSettings, error) {
	var s model.AppSettings
	err := r.db.WithContext(ctx).Where("id = ?", 1).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Save 单行表按 id=1 upsert
func (r *appSettingsRepo) Save(ctx context.Context, s *model.AppSettings) error {
	s.ID = 1
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"regular_seats", "floater_seats", "floater_start_seat", "booking_open_hour", "updated_by", "updated_at",
			}),
		}).
		Create(s).Error
}
