package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anushka-2626/Seat-booking-system/internal/dto"
	"github.com/anushka-2626/Seat-booking-system/internal/model"
	"github.com/anushka-2626/Seat-booking-system/internal/repository"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
)

// settingsCacheKey 座位设置在 Redis 中的共享副本
const settingsCacheKey = "seat:settings"

// SharedCache 跨进程共享缓存（由 pkg/redis.Client 实现）
type SharedCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SettingsService 座位设置业务接口
//
// 设置在进程内以快照形式缓存（TTL 内不回源），Redis 保存一份共享副本；
// 保存设置时两级缓存同时失效。读到的快照允许短暂过期。
type SettingsService interface {
	// Snapshot 返回当前设置快照，供一次业务操作使用
	Snapshot(ctx context.Context) (rules.Settings, error)
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req *dto.UpdateSettingsRequest, callerID string) (*dto.SettingsResponse, error)
	Invalidate(ctx context.Context)
}

type cachedSettings struct {
	settings  rules.Settings
	expiresAt time.Time
}

type settingsService struct {
	repo   *repository.Repository
	shared SharedCache
	ttl    time.Duration
	local  atomic.Pointer[cachedSettings]
	now    func() time.Time
	logger *zap.Logger
}

// NewSettingsService 创建 SettingsService 实例
// shared 为 nil 时只使用进程内缓存；ttl <= 0 时不缓存
func NewSettingsService(repo *repository.Repository, shared SharedCache, ttl time.Duration, logger *zap.Logger) SettingsService {
	return &settingsService{
		repo:   repo,
		shared: shared,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// ────────────────────── Snapshot ──────────────────────

func (s *settingsService) Snapshot(ctx context.Context) (rules.Settings, error) {
	if c := s.local.Load(); c != nil && s.now().Before(c.expiresAt) {
		return c.settings, nil
	}

	if s.shared != nil && s.ttl > 0 {
		var snap rules.Settings
		hit, err := s.shared.GetJSON(ctx, settingsCacheKey, &snap)
		if err != nil {
			s.logger.Warn("读取共享设置缓存失败，回源数据库", zap.Error(err))
		} else if hit && snap.Validate() == nil {
			s.store(snap)
			return snap, nil
		}
	}

	snap, _, err := s.load(ctx)
	if err != nil {
		return rules.Settings{}, err
	}
	s.store(snap)
	if s.shared != nil && s.ttl > 0 {
		if err := s.shared.SetJSON(ctx, settingsCacheKey, snap, s.ttl); err != nil {
			s.logger.Warn("写入共享设置缓存失败", zap.Error(err))
		}
	}
	return snap, nil
}

// load 从数据库读取设置；单行记录缺失时使用默认值
func (s *settingsService) load(ctx context.Context) (rules.Settings, *model.AppSettings, error) {
	row, err := s.repo.AppSettings.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("座位设置未初始化，使用默认值")
			return rules.DefaultSettings(), nil, nil
		}
		s.logger.Error("查询座位设置失败", zap.Error(err))
		return rules.Settings{}, nil, err
	}
	return row.Snapshot(), row, nil
}

func (s *settingsService) store(snap rules.Settings) {
	if s.ttl <= 0 {
		return
	}
	s.local.Store(&cachedSettings{settings: snap, expiresAt: s.now().Add(s.ttl)})
}

// ────────────────────── Get ──────────────────────

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	snap, row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(snap, row), nil
}

// ────────────────────── Update ──────────────────────

func (s *settingsService) Update(ctx context.Context, req *dto.UpdateSettingsRequest, callerID string) (*dto.SettingsResponse, error) {
	snap, row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if req.RegularSeats != nil {
		snap.RegularSeats = *req.RegularSeats
	}
	if req.FloaterSeats != nil {
		snap.FloaterSeats = *req.FloaterSeats
	}
	if req.FloaterStartSeat != nil {
		snap.FloaterStartSeat = *req.FloaterStartSeat
	}
	if req.BookingOpenHour != nil {
		snap.BookingOpenHour = *req.BookingOpenHour
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	if row == nil {
		row = &model.AppSettings{}
	}
	row.Apply(snap)
	row.UpdatedBy = &callerID
	row.UpdatedAt = s.now()
	if err := s.repo.AppSettings.Save(ctx, row); err != nil {
		s.logger.Error("保存座位设置失败", zap.Error(err))
		return nil, err
	}

	s.Invalidate(ctx)
	s.logger.Info("座位设置已更新",
		zap.String("updated_by", callerID),
		zap.Int("regular_seats", snap.RegularSeats),
		zap.Int("floater_seats", snap.FloaterSeats),
		zap.Int("floater_start_seat", snap.FloaterStartSeat),
		zap.Int("booking_open_hour", snap.BookingOpenHour),
	)
	return toSettingsResponse(snap, row), nil
}

// ────────────────────── Invalidate ──────────────────────

func (s *settingsService) Invalidate(ctx context.Context) {
	s.local.Store(nil)
	if s.shared == nil {
		return
	}
	if err := s.shared.Delete(ctx, settingsCacheKey); err != nil {
		s.logger.Warn("清理共享设置缓存失败", zap.Error(err))
	}
}

func toSettingsResponse(snap rules.Settings, row *model.AppSettings) *dto.SettingsResponse {
	resp := &dto.SettingsResponse{
		RegularSeats:     snap.RegularSeats,
		FloaterSeats:     snap.FloaterSeats,
		FloaterStartSeat: snap.FloaterStartSeat,
		BookingOpenHour:  snap.BookingOpenHour,
	}
	if row != nil && !row.UpdatedAt.IsZero() {
		resp.UpdatedAt = row.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
