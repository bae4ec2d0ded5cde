package model

import (
	"errors"
	"fmt"

	"github.com/anushka-2626/Seat-booking-system/internal/rules"
)

// SeatType 座位分配类型
type SeatType string

const (
	SeatTypeRegular     SeatType = "regular"
	SeatTypeFloater     SeatType = "floater"
	SeatTypeTempFloater SeatType = "temp_floater"
)

// AllocationStatus 座位分配状态
type AllocationStatus string

const (
	StatusAllocated AllocationStatus = "allocated"
	StatusBooked    AllocationStatus = "booked"
	StatusReleased  AllocationStatus = "released"
	StatusLocked    AllocationStatus = "locked"
)

var ErrInvalidAllocationState = errors.New("非法的座位状态组合")

// StateKind 合法的 (status, type) 组合
type StateKind int

const (
	KindRegularAllocated StateKind = iota + 1 // allocated / regular
	KindFloaterBooked                         // booked / floater
	KindTempReleased                          // released / temp_floater
	KindTempBooked                            // booked / temp_floater
	KindLocked                                // locked（保留原 type）
)

// AllocationState 座位状态的标签类型
// 字段不导出，包外只能通过下列预定义值或 StateOf 得到合法状态
type AllocationState struct {
	kind StateKind
}

var (
	StateRegularAllocated = AllocationState{kind: KindRegularAllocated}
	StateFloaterBooked    = AllocationState{kind: KindFloaterBooked}
	StateTempReleased     = AllocationState{kind: KindTempReleased}
	StateTempBooked       = AllocationState{kind: KindTempBooked}
	StateLocked           = AllocationState{kind: KindLocked}
)

// StateOf 由存储的 type/status 列还原状态；非法组合返回 ErrInvalidAllocationState
func StateOf(t SeatType, s AllocationStatus) (AllocationState, error) {
	switch {
	case s == StatusLocked:
		return StateLocked, nil
	case s == StatusAllocated && t == SeatTypeRegular:
		return StateRegularAllocated, nil
	case s == StatusBooked && t == SeatTypeFloater:
		return StateFloaterBooked, nil
	case s == StatusReleased && t == SeatTypeTempFloater:
		return StateTempReleased, nil
	case s == StatusBooked && t == SeatTypeTempFloater:
		return StateTempBooked, nil
	}
	return AllocationState{}, fmt.Errorf("%w: status=%s type=%s", ErrInvalidAllocationState, s, t)
}

// Valid 零值状态不合法
func (s AllocationState) Valid() bool { return s.kind >= KindRegularAllocated && s.kind <= KindLocked }

// Status 对应的 status 列
func (s AllocationState) Status() AllocationStatus {
	switch s.kind {
	case KindRegularAllocated:
		return StatusAllocated
	case KindFloaterBooked, KindTempBooked:
		return StatusBooked
	case KindTempReleased:
		return StatusReleased
	case KindLocked:
		return StatusLocked
	}
	return ""
}

// Type 对应的 type 列；锁定状态不改变 type，返回 false
func (s AllocationState) Type() (SeatType, bool) {
	switch s.kind {
	case KindRegularAllocated:
		return SeatTypeRegular, true
	case KindFloaterBooked:
		return SeatTypeFloater, true
	case KindTempReleased, KindTempBooked:
		return SeatTypeTempFloater, true
	}
	return "", false
}

func (s AllocationState) String() string {
	if !s.Valid() {
		return "invalid"
	}
	if t, ok := s.Type(); ok {
		return string(s.Status()) + "/" + string(t)
	}
	return string(s.Status())
}

// Allocation 座位分配 — 对应 allocations，(week, day, seat) 唯一
type Allocation struct {
	ID                    string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Week                  rules.Week        `gorm:"type:varchar(8);not null"                       json:"week"`
	Day                   rules.Day         `gorm:"type:varchar(3);not null"                       json:"day"`
	Seat                  int               `gorm:"type:smallint;not null"                         json:"seat"`
	AllocatedToEmployeeID *string           `gorm:"type:varchar(32)"                               json:"allocated_to_employee_id"`
	Batch                 rules.Batch       `gorm:"type:varchar(16);not null"                      json:"batch"`
	Type                  SeatType          `gorm:"type:varchar(16);not null"                      json:"type"`
	Status                AllocationStatus  `gorm:"type:varchar(16);not null"                      json:"status"`
	LockedFrom            *AllocationStatus `gorm:"type:varchar(16)"                               json:"locked_from,omitempty"`
	VersionedModel
}

func (Allocation) TableName() string { return "allocations" }

// State 当前状态
func (a *Allocation) State() (AllocationState, error) {
	return StateOf(a.Type, a.Status)
}

// SetState 写入目标状态；锁定只改 status，保留原 type 并记录锁定前的 status
func (a *Allocation) SetState(s AllocationState) error {
	if !s.Valid() {
		return ErrInvalidAllocationState
	}
	switch {
	case s == StateLocked && a.Status != StatusLocked:
		prev := a.Status
		a.LockedFrom = &prev
	case s != StateLocked:
		a.LockedFrom = nil
	}
	a.Status = s.Status()
	if t, ok := s.Type(); ok {
		a.Type = t
	}
	return nil
}

// PreLockState 锁定前的状态；未记录 locked_from 的旧数据返回 false
func (a *Allocation) PreLockState() (AllocationState, bool) {
	if a.Status != StatusLocked || a.LockedFrom == nil {
		return AllocationState{}, false
	}
	s, err := StateOf(a.Type, *a.LockedFrom)
	if err != nil || s == StateLocked {
		return AllocationState{}, false
	}
	return s, true
}

// IsHeldBy 座位当前是否由该员工占用（已释放或锁定的座位不属于任何人）
func (a *Allocation) IsHeldBy(employeeID string) bool {
	if a.AllocatedToEmployeeID == nil || *a.AllocatedToEmployeeID != employeeID {
		return false
	}
	return a.Status == StatusAllocated || a.Status == StatusBooked
}

// HolderID 占用人编号，无人时为空串
func (a *Allocation) HolderID() string {
	if a.AllocatedToEmployeeID == nil {
		return ""
	}
	return *a.AllocatedToEmployeeID
}

// NewRegularAllocation 构造默认座位的常规分配
func NewRegularAllocation(employeeID string, seat int, batch rules.Batch, week rules.Week, day rules.Day) *Allocation {
	holder := employeeID
	return &Allocation{
		Week:                  week,
		Day:                   day,
		Seat:                  seat,
		AllocatedToEmployeeID: &holder,
		Batch:                 batch,
		Type:                  SeatTypeRegular,
		Status:                StatusAllocated,
		VersionedModel:        VersionedModel{Version: 1},
	}
}

// NewFloaterBooking 构造浮动座位预订
func NewFloaterBooking(employeeID string, seat int, workingBatch rules.Batch, week rules.Week, day rules.Day) *Allocation {
	holder := employeeID
	return &Allocation{
		Week:                  week,
		Day:                   day,
		Seat:                  seat,
		AllocatedToEmployeeID: &holder,
		Batch:                 workingBatch,
		Type:                  SeatTypeFloater,
		Status:                StatusBooked,
		VersionedModel:        VersionedModel{Version: 1},
	}
}
