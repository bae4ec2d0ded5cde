package model

import "github.com/anushka-2626/Seat-booking-system/internal/rules"

// AppSettings 座位设置表 — 对应 app_settings（单行强类型）
type AppSettings struct {
	ID               int `gorm:"primaryKey;default:1"          json:"-"`
	RegularSeats     int `gorm:"type:smallint;not null;default:40" json:"regular_seats"`
	FloaterSeats     int `gorm:"type:smallint;not null;default:10" json:"floater_seats"`
	FloaterStartSeat int `gorm:"type:smallint;not null;default:41" json:"floater_start_seat"`
	BookingOpenHour  int `gorm:"type:smallint;not null;default:15" json:"booking_open_hour"`
	BaseModel
}

func (AppSettings) TableName() string { return "app_settings" }

// Snapshot 转换为规则层使用的设置快照
func (s *AppSettings) Snapshot() rules.Settings {
	return rules.Settings{
		RegularSeats:     s.RegularSeats,
		FloaterSeats:     s.FloaterSeats,
		FloaterStartSeat: s.FloaterStartSeat,
		BookingOpenHour:  s.BookingOpenHour,
	}
}

// Apply 将设置快照写回表记录
func (s *AppSettings) Apply(snap rules.Settings) {
	s.RegularSeats = snap.RegularSeats
	s.FloaterSeats = snap.FloaterSeats
	s.FloaterStartSeat = snap.FloaterStartSeat
	s.BookingOpenHour = snap.BookingOpenHour
}
