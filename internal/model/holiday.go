package model

import "time"

// Holiday 节假日 — 对应 holidays
// 只有 is_closed=true 的日期会阻止订座
type Holiday struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	HolidayDate time.Time `gorm:"type:date;not null;uniqueIndex"                json:"holiday_date"`
	Name        string    `gorm:"type:varchar(200);not null"                    json:"name"`
	IsClosed    bool      `gorm:"not null;default:true"                         json:"is_closed"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"            json:"created_at"`
}

func (Holiday) TableName() string { return "holidays" }
