package rules

import (
	"errors"
	"fmt"
	"time"
)

// ValidationCode 订座校验失败原因编码（供前端区分展示）
type ValidationCode string

const (
	CodeBookingWindowClosed ValidationCode = "booking_window_closed"
	CodeHoliday             ValidationCode = "holiday"
	CodeScheduleMismatch    ValidationCode = "schedule_mismatch"
	CodeNoSeatSelected      ValidationCode = "no_seat_selected"
)

// ── 校验错误 ──

var (
	ErrBookingWindowClosed = errors.New("订座尚未开放")
	ErrHoliday             = errors.New("节假日不可订座")
	ErrScheduleMismatch    = errors.New("该日不在所选批次的排班内")
	ErrNoSeatSelected      = errors.New("请选择座位")
)

// ValidationError 可由用户自行纠正的订座校验失败
type ValidationError struct {
	Code   ValidationCode
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidationError 判断 err 是否为订座校验失败
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// BookingContext 一次订座校验所需的外部事实
// IsHoliday 由调用方按当天日期查询节假日表得出
type BookingContext struct {
	Settings  Settings
	Now       time.Time
	IsHoliday bool
}

// BookingRequest 订座请求
type BookingRequest struct {
	Week         Week
	Day          Day
	WorkingBatch Batch
	Seat         *int
}

// ValidateBooking 按顺序执行校验，首个失败即返回：
//  1. 订座开放时间
//  2. 节假日
//  3. 到岗日属于工作批次的排班
//  4. 已选择座位
//
// 纯函数，可用于前端提交前的预检。
func ValidateBooking(bc BookingContext, req BookingRequest) error {
	if !IsBookingWindowOpen(bc.Settings, bc.Now) {
		return &ValidationError{
			Code:   CodeBookingWindowClosed,
			Err:    ErrBookingWindowClosed,
			Detail: fmt.Sprintf("每天 %02d:00 后开放", bc.Settings.BookingOpenHour),
		}
	}
	if bc.IsHoliday {
		return &ValidationError{Code: CodeHoliday, Err: ErrHoliday}
	}
	if !IsWorkingDay(req.WorkingBatch, req.Week, req.Day) {
		return &ValidationError{
			Code:   CodeScheduleMismatch,
			Err:    ErrScheduleMismatch,
			Detail: fmt.Sprintf("%s %s %s", req.WorkingBatch, req.Week, req.Day),
		}
	}
	if req.Seat == nil || *req.Seat <= 0 {
		return &ValidationError{Code: CodeNoSeatSelected, Err: ErrNoSeatSelected}
	}
	return nil
}
