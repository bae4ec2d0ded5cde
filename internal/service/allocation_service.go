package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anushka-2626/Seat-booking-system/internal/dto"
	"github.com/anushka-2626/Seat-booking-system/internal/model"
	"github.com/anushka-2626/Seat-booking-system/internal/repository"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
	pkgerrors "github.com/anushka-2626/Seat-booking-system/pkg/errors"
	"github.com/anushka-2626/Seat-booking-system/pkg/logger"
)

// ── 座位分配模块业务错误 ──

var (
	ErrAllocationNotFound = errors.New("座位分配记录不存在")
	ErrNotSeatHolder      = errors.New("该座位不属于当前员工")
	ErrSeatTaken          = errors.New("座位已被预订")
	ErrSeatUnavailable    = errors.New("该座位未被释放，不可预订")
	ErrSeatLocked         = errors.New("座位维护中，暂不可用")
	ErrSeatNotLocked      = errors.New("座位未处于锁定状态")
	ErrAlreadyReleased    = errors.New("座位已释放")
	ErrSeatOutOfRange     = errors.New("座位号超出范围")
	ErrAlreadyHoldsSeat   = errors.New("当天已持有座位，请先释放")
	ErrInvalidWeek        = errors.New("周次无效，应为 Week 1 或 Week 2")
	ErrInvalidDay         = errors.New("日期无效，应为 Mon~Fri")
)

// codeSeatOutOfRange 预检中座位号越界的原因编码
const codeSeatOutOfRange = "seat_out_of_range"

// AllocationService 座位分配状态机
//
// 状态迁移：
//   - 自动分配          (无记录)            → allocated/regular
//   - 员工释放          allocated|booked    → released/temp_floater
//   - 订浮动座位        (无记录)|非 booked  → booked/floater
//   - 订临时浮动座位    released            → booked/temp_floater
//   - 管理员强制释放    非 locked           → released/temp_floater（清空占用人）
//   - 锁定              任意                → locked（保留 type，记录 locked_from）
//   - 解锁              locked              → 恢复锁定前的状态与占用人
//
// 每次迁移都是一次带 version 条件的写入，冲突时返回 pkgerrors.ErrConcurrentModification，不做重试。
// 同一员工同一天至多占用一个座位，由存储层唯一索引兜底，违反时返回 ErrAlreadyHoldsSeat。
type AllocationService interface {
	// SeedRegular 仅当 (week, day, seat) 无记录时创建常规分配，返回是否创建
	SeedRegular(ctx context.Context, employeeID string, seat int, batch rules.Batch, week rules.Week, day rules.Day) (bool, error)
	Release(ctx context.Context, req *dto.ReleaseRequest, employeeID string) (*dto.AllocationResponse, error)
	Book(ctx context.Context, req *dto.BookRequest, employeeID string) (*dto.AllocationResponse, error)
	// ValidateBooking 订座预检，不写入任何数据
	ValidateBooking(ctx context.Context, req *dto.BookRequest, employeeID string) (*dto.BookingCheckResponse, error)
	AdminForceRelease(ctx context.Context, allocationID, adminID string) (*dto.AllocationResponse, error)
	Lock(ctx context.Context, allocationID, adminID string) (*dto.AllocationResponse, error)
	Unlock(ctx context.Context, allocationID, adminID string) (*dto.AllocationResponse, error)
	ListDay(ctx context.Context, week, day string) ([]dto.AllocationResponse, error)
	ListWeek(ctx context.Context, week string) ([]dto.AllocationResponse, error)
	ListMine(ctx context.Context, employeeID string) ([]dto.AllocationResponse, error)
}

type allocationService struct {
	repo     *repository.Repository
	settings SettingsService
	holidays HolidayService
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewAllocationService 创建 AllocationService 实例
// loc 为办公室时区，开放时间与节假日均按该时区的“今天”判断
func NewAllocationService(
	repo *repository.Repository,
	settings SettingsService,
	holidays HolidayService,
	loc *time.Location,
	logger *zap.Logger,
) AllocationService {
	return &allocationService{
		repo:     repo,
		settings: settings,
		holidays: holidays,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// ═══════════════════════════════════════════════════════════
// SeedRegular — 自动分配常规座位
// ═══════════════════════════════════════════════════════════

func (s *allocationService) SeedRegular(ctx context.Context, employeeID string, seat int, batch rules.Batch, week rules.Week, day rules.Day) (bool, error) {
	a := model.NewRegularAllocation(employeeID, seat, batch, week, day)
	a.UpdatedBy = &employeeID

	created, err := s.repo.Allocation.CreateIfAbsent(ctx, a)
	if err != nil {
		s.logger.Error("自动分配常规座位失败",
			append(logger.SeatFields(string(week), string(day), seat), zap.String("employee_id", employeeID), zap.Error(err))...)
		return false, err
	}
	return created, nil
}

// ═══════════════════════════════════════════════════════════
// Release — 员工释放自己的座位
// ═══════════════════════════════════════════════════════════

func (s *allocationService) Release(ctx context.Context, req *dto.ReleaseRequest, employeeID string) (*dto.AllocationResponse, error) {
	week, day, err := parseWeekDay(req.Week, req.Day)
	if err != nil {
		return nil, err
	}
	fields := append(logger.SeatFields(string(week), string(day), req.Seat), zap.String("employee_id", employeeID))

	a, err := s.getByKey(ctx, week, day, req.Seat)
	if err != nil {
		return nil, err
	}

	state, err := a.State()
	if err != nil {
		s.logger.Error("座位记录状态非法", append(fields, zap.Error(err))...)
		return nil, err
	}
	switch {
	case state == model.StateLocked:
		return nil, ErrSeatLocked
	case state == model.StateTempReleased && a.HolderID() == employeeID:
		return nil, ErrAlreadyReleased
	case !a.IsHeldBy(employeeID):
		return nil, ErrNotSeatHolder
	}

	// 占用人编号保留到有人订下该座位为止
	if err := a.SetState(model.StateTempReleased); err != nil {
		return nil, err
	}
	a.UpdatedBy = &employeeID
	if err := s.repo.Allocation.UpdateState(ctx, a); err != nil {
		return nil, s.writeFailed("释放座位失败", fields, err)
	}

	s.logger.Info("座位已释放", fields...)
	resp := dto.ToAllocationResponse(a)
	return &resp, nil
}

// ═══════════════════════════════════════════════════════════
// Book — 预订浮动座位或已释放的临时浮动座位
// ═══════════════════════════════════════════════════════════

func (s *allocationService) Book(ctx context.Context, req *dto.BookRequest, employeeID string) (*dto.AllocationResponse, error) {
	breq := bookingRequest(req)
	bc, err := s.bookingContext(ctx)
	if err != nil {
		return nil, err
	}

	seatNo := 0
	if breq.Seat != nil {
		seatNo = *breq.Seat
	}
	fields := append(logger.SeatFields(string(breq.Week), string(breq.Day), seatNo),
		zap.String("employee_id", employeeID),
		zap.String("working_batch", string(breq.WorkingBatch)),
	)

	// 1. 校验流水线
	if err := rules.ValidateBooking(bc, breq); err != nil {
		s.logger.Info("订座校验未通过", append(fields, zap.Error(err))...)
		return nil, err
	}
	if !rules.IsSeatInRange(bc.Settings, seatNo) {
		return nil, ErrSeatOutOfRange
	}

	// 2. 订座员工
	if _, err := s.activeEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	// 3. 同一天只能持有一个座位（快速失败，并发下由唯一索引兜底）
	holding, err := s.holdsSeatOn(ctx, employeeID, breq.Week, breq.Day)
	if err != nil {
		return nil, err
	}
	if holding {
		return nil, ErrAlreadyHoldsSeat
	}

	// 4. 按座位号决定座位类别
	existing, err := s.repo.Allocation.GetByKey(ctx, breq.Week, breq.Day, seatNo)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询座位记录失败", append(fields, zap.Error(err))...)
		return nil, err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		existing = nil
	}

	var a *model.Allocation
	if rules.IsFloaterSeat(bc.Settings, seatNo) {
		a, err = s.bookFloater(ctx, existing, breq, seatNo, employeeID)
	} else {
		a, err = s.bookTempFloater(ctx, existing, breq, employeeID)
	}
	if err != nil {
		return nil, s.writeFailed("订座失败", fields, holderConflict(err))
	}

	s.logger.Info("订座成功", append(fields, zap.String("type", string(a.Type)))...)
	resp := dto.ToAllocationResponse(a)
	return &resp, nil
}

// bookFloater 浮动座位：无记录则插入，非 booked 记录则覆盖
func (s *allocationService) bookFloater(ctx context.Context, existing *model.Allocation, req rules.BookingRequest, seat int, employeeID string) (*model.Allocation, error) {
	if existing == nil {
		a := model.NewFloaterBooking(employeeID, seat, req.WorkingBatch, req.Week, req.Day)
		a.UpdatedBy = &employeeID
		if err := s.repo.Allocation.Create(ctx, a); err != nil {
			return nil, err
		}
		return a, nil
	}

	switch existing.Status {
	case model.StatusLocked:
		return nil, ErrSeatLocked
	case model.StatusBooked:
		return nil, ErrSeatTaken
	}
	return existing, s.occupy(ctx, existing, model.StateFloaterBooked, req.WorkingBatch, employeeID)
}

// bookTempFloater 常规座位只有在被释放后才可预订
func (s *allocationService) bookTempFloater(ctx context.Context, existing *model.Allocation, req rules.BookingRequest, employeeID string) (*model.Allocation, error) {
	if existing == nil {
		return nil, ErrSeatUnavailable
	}
	state, err := existing.State()
	if err != nil {
		return nil, err
	}
	switch state {
	case model.StateLocked:
		return nil, ErrSeatLocked
	case model.StateTempReleased:
		return existing, s.occupy(ctx, existing, model.StateTempBooked, req.WorkingBatch, employeeID)
	}
	return nil, ErrSeatUnavailable
}

func (s *allocationService) occupy(ctx context.Context, a *model.Allocation, state model.AllocationState, workingBatch rules.Batch, employeeID string) error {
	if err := a.SetState(state); err != nil {
		return err
	}
	holder := employeeID
	a.AllocatedToEmployeeID = &holder
	a.Batch = workingBatch
	a.UpdatedBy = &employeeID
	return s.repo.Allocation.UpdateState(ctx, a)
}

// ═══════════════════════════════════════════════════════════
// ValidateBooking — 订座预检
// ═══════════════════════════════════════════════════════════

func (s *allocationService) ValidateBooking(ctx context.Context, req *dto.BookRequest, employeeID string) (*dto.BookingCheckResponse, error) {
	breq := bookingRequest(req)
	emp, err := s.activeEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	bc, err := s.bookingContext(ctx)
	if err != nil {
		return nil, err
	}

	requiresFloater := rules.RequiresFloater(emp.Batch, breq.WorkingBatch)
	resp := &dto.BookingCheckResponse{
		Allowed:         true,
		RequiresFloater: requiresFloater,
		AllowedSeats:    rules.AllowedSeatRange(bc.Settings, requiresFloater),
	}

	if err := rules.ValidateBooking(bc, breq); err != nil {
		var ve *rules.ValidationError
		if errors.As(err, &ve) {
			resp.Allowed = false
			resp.Reason = ve.Error()
			resp.Code = string(ve.Code)
			return resp, nil
		}
		return nil, err
	}
	if !rules.IsSeatInRange(bc.Settings, *breq.Seat) {
		resp.Allowed = false
		resp.Reason = fmt.Sprintf("%s: 1-%d", ErrSeatOutOfRange.Error(), rules.MaxSeat(bc.Settings))
		resp.Code = codeSeatOutOfRange
	}
	return resp, nil
}

// ═══════════════════════════════════════════════════════════
// 管理员操作
// ═══════════════════════════════════════════════════════════

func (s *allocationService) AdminForceRelease(ctx context.Context, allocationID, adminID string) (*dto.AllocationResponse, error) {
	a, err := s.getByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	fields := append(logger.SeatFields(string(a.Week), string(a.Day), a.Seat),
		zap.String("admin_id", adminID),
		zap.String("previous_holder", a.HolderID()),
	)
	if a.Status == model.StatusLocked {
		return nil, ErrSeatLocked
	}

	if err := a.SetState(model.StateTempReleased); err != nil {
		return nil, err
	}
	a.AllocatedToEmployeeID = nil
	a.UpdatedBy = &adminID
	if err := s.repo.Allocation.UpdateState(ctx, a); err != nil {
		return nil, s.writeFailed("强制释放座位失败", fields, err)
	}

	s.logger.Info("管理员强制释放座位", fields...)
	resp := dto.ToAllocationResponse(a)
	return &resp, nil
}

func (s *allocationService) Lock(ctx context.Context, allocationID, adminID string) (*dto.AllocationResponse, error) {
	a, err := s.getByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if a.Status == model.StatusLocked {
		resp := dto.ToAllocationResponse(a)
		return &resp, nil
	}
	fields := append(logger.SeatFields(string(a.Week), string(a.Day), a.Seat), zap.String("admin_id", adminID))

	if err := a.SetState(model.StateLocked); err != nil {
		return nil, err
	}
	a.UpdatedBy = &adminID
	if err := s.repo.Allocation.UpdateState(ctx, a); err != nil {
		return nil, s.writeFailed("锁定座位失败", fields, err)
	}

	s.logger.Info("座位已锁定", fields...)
	resp := dto.ToAllocationResponse(a)
	return &resp, nil
}

func (s *allocationService) Unlock(ctx context.Context, allocationID, adminID string) (*dto.AllocationResponse, error) {
	a, err := s.getByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if a.Status != model.StatusLocked {
		return nil, ErrSeatNotLocked
	}
	fields := append(logger.SeatFields(string(a.Week), string(a.Day), a.Seat), zap.String("admin_id", adminID))

	target, exact := unlockedState(a)
	if err := a.SetState(target); err != nil {
		return nil, err
	}
	if !exact && target == model.StateTempReleased {
		a.AllocatedToEmployeeID = nil
	}
	a.UpdatedBy = &adminID
	if err := s.repo.Allocation.UpdateState(ctx, a); err != nil {
		// 锁定期间原占用人可能已改订其他座位
		return nil, s.writeFailed("解锁座位失败", fields, holderConflict(err))
	}

	s.logger.Info("座位已解锁", append(fields, zap.Stringer("state", target))...)
	resp := dto.ToAllocationResponse(a)
	return &resp, nil
}

// unlockedState 优先恢复 locked_from 记录的状态（exact=true）。
// 没有 locked_from 的旧记录按保留的 type 推断：有占用人的常规座位恢复为 allocated/regular，
// 有占用人的浮动座位恢复为 booked/floater，其余回到 released/temp_floater 供重新预订
func unlockedState(a *model.Allocation) (state model.AllocationState, exact bool) {
	if s, ok := a.PreLockState(); ok {
		return s, true
	}
	if a.AllocatedToEmployeeID != nil {
		switch a.Type {
		case model.SeatTypeRegular:
			return model.StateRegularAllocated, false
		case model.SeatTypeFloater:
			return model.StateFloaterBooked, false
		}
	}
	return model.StateTempReleased, false
}

// ═══════════════════════════════════════════════════════════
// 查询
// ═══════════════════════════════════════════════════════════

func (s *allocationService) ListDay(ctx context.Context, week, day string) ([]dto.AllocationResponse, error) {
	w, d, err := parseWeekDay(week, day)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.Allocation.ListByWeekDay(ctx, w, d)
	if err != nil {
		s.logger.Error("查询当日座位失败", zap.String("week", week), zap.String("day", day), zap.Error(err))
		return nil, err
	}
	return dto.ToAllocationList(list), nil
}

func (s *allocationService) ListWeek(ctx context.Context, week string) ([]dto.AllocationResponse, error) {
	w, ok := rules.ParseWeek(week)
	if !ok {
		return nil, ErrInvalidWeek
	}
	list, err := s.repo.Allocation.ListByWeek(ctx, w)
	if err != nil {
		s.logger.Error("查询周座位失败", zap.String("week", week), zap.Error(err))
		return nil, err
	}
	return dto.ToAllocationList(list), nil
}

func (s *allocationService) ListMine(ctx context.Context, employeeID string) ([]dto.AllocationResponse, error) {
	list, err := s.repo.Allocation.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询员工座位失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return dto.ToAllocationList(list), nil
}

// ── 内部辅助 ──

// bookingContext 加载本次操作使用的设置快照、当前时间与节假日判断
func (s *allocationService) bookingContext(ctx context.Context) (rules.BookingContext, error) {
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return rules.BookingContext{}, err
	}
	now := s.now().In(s.loc)
	holiday, err := s.holidays.IsClosedOn(ctx, now)
	if err != nil {
		return rules.BookingContext{}, err
	}
	return rules.BookingContext{Settings: snap, Now: now, IsHoliday: holiday}, nil
}

func (s *allocationService) activeEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	emp, err := s.repo.Employee.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	if !emp.IsActive {
		return nil, ErrEmployeeInactive
	}
	return emp, nil
}

func (s *allocationService) holdsSeatOn(ctx context.Context, employeeID string, week rules.Week, day rules.Day) (bool, error) {
	list, err := s.repo.Allocation.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询员工座位失败", zap.String("employee_id", employeeID), zap.Error(err))
		return false, err
	}
	for i := range list {
		if list[i].Week == week && list[i].Day == day && list[i].IsHeldBy(employeeID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *allocationService) getByKey(ctx context.Context, week rules.Week, day rules.Day, seat int) (*model.Allocation, error) {
	a, err := s.repo.Allocation.GetByKey(ctx, week, day, seat)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		s.logger.Error("查询座位记录失败", append(logger.SeatFields(string(week), string(day), seat), zap.Error(err))...)
		return nil, err
	}
	return a, nil
}

func (s *allocationService) getByID(ctx context.Context, id string) (*model.Allocation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrAllocationNotFound
	}
	a, err := s.repo.Allocation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		s.logger.Error("查询座位记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

// writeFailed 并发冲突记 Warn，其余存储错误记 Error，错误原样返回
func (s *allocationService) writeFailed(msg string, fields []zap.Field, err error) error {
	if isBusinessRejection(err) {
		s.logger.Warn(msg, append(fields, zap.Error(err))...)
		return err
	}
	s.logger.Error(msg, append(fields, zap.Error(err))...)
	return err
}

// holderConflict 把存储层的占用人唯一约束冲突翻译为业务错误
func holderConflict(err error) error {
	if errors.Is(err, pkgerrors.ErrHolderConflict) {
		return ErrAlreadyHoldsSeat
	}
	return err
}

// isBusinessRejection 业务规则拒绝与并发冲突都不是存储故障
func isBusinessRejection(err error) bool {
	switch {
	case errors.Is(err, ErrSeatTaken),
		errors.Is(err, ErrAlreadyHoldsSeat),
		errors.Is(err, ErrSeatUnavailable),
		errors.Is(err, ErrSeatLocked),
		errors.Is(err, pkgerrors.ErrConcurrentModification):
		return true
	}
	return false
}

func parseWeekDay(week, day string) (rules.Week, rules.Day, error) {
	w, ok := rules.ParseWeek(week)
	if !ok {
		return "", "", ErrInvalidWeek
	}
	d, ok := rules.ParseDay(day)
	if !ok {
		return "", "", ErrInvalidDay
	}
	return w, d, nil
}

// bookingRequest 原样交给校验流水线：未知的周次、日期或批次不在任何排班内，
// 由排班校验拒绝，开放时间与节假日仍优先判断
func bookingRequest(req *dto.BookRequest) rules.BookingRequest {
	return rules.BookingRequest{
		Week:         rules.Week(req.Week),
		Day:          rules.Day(req.Day),
		WorkingBatch: rules.Batch(req.WorkingBatch),
		Seat:         req.Seat,
	}
}
