package rules

import (
	"errors"
	"fmt"
)

// 默认座位设置
const (
	DefaultRegularSeats     = 40
	DefaultFloaterSeats     = 10
	DefaultFloaterStartSeat = 41
	DefaultBookingOpenHour  = 15
)

var ErrInvalidSettings = errors.New("座位设置无效")

// Settings 座位设置快照
// 每次操作开始时加载一次，作为显式参数传给规则函数
type Settings struct {
	RegularSeats     int `json:"regular_seats"`
	FloaterSeats     int `json:"floater_seats"`
	FloaterStartSeat int `json:"floater_start_seat"`
	BookingOpenHour  int `json:"booking_open_hour"`
}

// DefaultSettings 返回默认设置（40 个常规座位 + 41~50 号浮动座位，15 点开放）
func DefaultSettings() Settings {
	return Settings{
		RegularSeats:     DefaultRegularSeats,
		FloaterSeats:     DefaultFloaterSeats,
		FloaterStartSeat: DefaultFloaterStartSeat,
		BookingOpenHour:  DefaultBookingOpenHour,
	}
}

// Validate 校验设置的一致性
func (s Settings) Validate() error {
	switch {
	case s.RegularSeats < 1:
		return fmt.Errorf("%w: regular_seats 必须大于 0", ErrInvalidSettings)
	case s.FloaterSeats < 0:
		return fmt.Errorf("%w: floater_seats 不能为负数", ErrInvalidSettings)
	case s.FloaterStartSeat <= s.RegularSeats:
		return fmt.Errorf("%w: floater_start_seat 必须大于 regular_seats", ErrInvalidSettings)
	case s.BookingOpenHour < 0 || s.BookingOpenHour > 23:
		return fmt.Errorf("%w: booking_open_hour 必须在 0-23 之间", ErrInvalidSettings)
	}
	return nil
}
