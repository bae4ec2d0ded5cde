package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anushka-2626/Seat-booking-system/internal/dto"
	"github.com/anushka-2626/Seat-booking-system/internal/model"
	"github.com/anushka-2626/Seat-booking-system/internal/repository"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
)

// ── 节假日模块业务错误 ──

var (
	ErrHolidayNotFound    = errors.New("节假日不存在")
	ErrHolidayExists      = errors.New("该日期已登记为节假日")
	ErrInvalidHolidayDate = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrHolidayICSEmpty    = errors.New("ICS 文件中没有可导入的节假日")
	ErrHolidayICSInvalid  = errors.New("ICS 格式解析失败")
	ErrHolidayICSFetch    = errors.New("获取 ICS 失败")
)

// icsImportHorizon 重复节日展开的时间范围
const icsImportHorizon = 2 * 365 * 24 * time.Hour

// HolidayService 节假日业务接口
type HolidayService interface {
	List(ctx context.Context) ([]dto.HolidayResponse, error)
	Create(ctx context.Context, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error)
	Delete(ctx context.Context, id string) error
	ImportICS(ctx context.Context, r io.Reader) (*dto.ImportHolidayResponse, error)
	ImportFromURL(ctx context.Context, url string) (*dto.ImportHolidayResponse, error)
	// IsClosedOn 判断 date 所在日历日是否为闭馆节假日；每次调用都查询存储
	IsClosedOn(ctx context.Context, date time.Time) (bool, error)
}

type holidayService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewHolidayService 创建 HolidayService 实例
func NewHolidayService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) HolidayService {
	return &holidayService{repo: repo, loc: loc, now: time.Now, logger: logger}
}

func (s *holidayService) List(ctx context.Context) ([]dto.HolidayResponse, error) {
	list, err := s.repo.Holiday.List(ctx)
	if err != nil {
		s.logger.Error("查询节假日列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.HolidayResponse, 0, len(list))
	for i := range list {
		result = append(result, dto.ToHolidayResponse(&list[i]))
	}
	return result, nil
}

func (s *holidayService) Create(ctx context.Context, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error) {
	date, err := rules.ParseDateKey(req.Date, s.loc)
	if err != nil {
		return nil, ErrInvalidHolidayDate
	}

	h := &model.Holiday{
		HolidayDate: date,
		Name:        strings.TrimSpace(req.Name),
		IsClosed:    true,
	}
	if req.IsClosed != nil {
		h.IsClosed = *req.IsClosed
	}

	if err := s.repo.Holiday.Create(ctx, h); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrHolidayExists
		}
		s.logger.Error("创建节假日失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("节假日已创建", zap.String("date", req.Date), zap.Bool("is_closed", h.IsClosed))
	resp := dto.ToHolidayResponse(h)
	return &resp, nil
}

func (s *holidayService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Holiday.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHolidayNotFound
		}
		s.logger.Error("删除节假日失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ICS 导入 ──────────────────────

func (s *holidayService) ImportICS(ctx context.Context, r io.Reader) (*dto.ImportHolidayResponse, error) {
	holidays, err := ParseHolidayICS(r, s.loc, s.now().In(s.loc).Add(icsImportHorizon))
	if err != nil {
		return nil, err
	}
	if len(holidays) == 0 {
		return nil, ErrHolidayICSEmpty
	}

	affected, err := s.repo.Holiday.BatchUpsert(ctx, holidays)
	if err != nil {
		s.logger.Error("批量导入节假日失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("ICS 节假日导入完成", zap.Int("total", len(holidays)), zap.Int64("imported", affected))
	return &dto.ImportHolidayResponse{Total: len(holidays), Imported: int(affected)}, nil
}

func (s *holidayService) ImportFromURL(ctx context.Context, url string) (*dto.ImportHolidayResponse, error) {
	body, err := FetchICSContent(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return s.ImportICS(ctx, body)
}

// ────────────────────── 闭馆判断 ──────────────────────

func (s *holidayService) IsClosedOn(ctx context.Context, date time.Time) (bool, error) {
	closed, err := s.repo.Holiday.ExistsClosedOn(ctx, rules.CalendarDate(date.In(s.loc)))
	if err != nil {
		s.logger.Error("查询节假日失败", zap.Error(err))
		return false, err
	}
	return closed, nil
}
