package model

import (
	"time"

	"github.com/anushka-2626/Seat-booking-system/internal/rules"
)

// 员工角色
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Employee 员工目录 — 对应 employees（订座引擎只读）
type Employee struct {
	EmployeeID  string      `gorm:"type:varchar(32);primaryKey"               json:"employee_id"`
	Name        string      `gorm:"type:varchar(100);not null"                json:"name"`
	Batch       rules.Batch `gorm:"type:varchar(16);not null"                 json:"batch"`
	DefaultSeat *int        `gorm:"type:smallint"                             json:"default_seat,omitempty"`
	Role        string      `gorm:"type:varchar(16);not null;default:'employee'" json:"role"`
	IsActive    bool        `gorm:"not null;default:true"                     json:"is_active"`
	CreatedAt   time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }
