package model

import (
	"errors"
	"testing"

	"github.com/anushka-2626/Seat-booking-system/internal/rules"
)

func TestStateOf_ValidCombinations(t *testing.T) {
	tests := []struct {
		typ    SeatType
		status AllocationStatus
		want   AllocationState
	}{
		{SeatTypeRegular, StatusAllocated, StateRegularAllocated},
		{SeatTypeFloater, StatusBooked, StateFloaterBooked},
		{SeatTypeTempFloater, StatusReleased, StateTempReleased},
		{SeatTypeTempFloater, StatusBooked, StateTempBooked},
		{SeatTypeRegular, StatusLocked, StateLocked},
		{SeatTypeFloater, StatusLocked, StateLocked},
	}

	for _, tt := range tests {
		got, err := StateOf(tt.typ, tt.status)
		if err != nil {
			t.Errorf("StateOf(%s, %s) 不应失败: %v", tt.typ, tt.status, err)
			continue
		}
		if got != tt.want {
			t.Errorf("StateOf(%s, %s) = %s，期望 %s", tt.typ, tt.status, got, tt.want)
		}
	}
}

func TestStateOf_InvalidCombinations(t *testing.T) {
	invalid := []struct {
		typ    SeatType
		status AllocationStatus
	}{
		{SeatTypeRegular, StatusReleased},
		{SeatTypeFloater, StatusReleased},
		{SeatTypeRegular, StatusBooked},
		{SeatTypeFloater, StatusAllocated},
		{SeatTypeTempFloater, StatusAllocated},
		{"", ""},
	}

	for _, tt := range invalid {
		if _, err := StateOf(tt.typ, tt.status); !errors.Is(err, ErrInvalidAllocationState) {
			t.Errorf("StateOf(%s, %s) 期望 ErrInvalidAllocationState，实际: %v", tt.typ, tt.status, err)
		}
	}
}

func TestSetState_RoundTrip(t *testing.T) {
	for _, s := range []AllocationState{StateRegularAllocated, StateFloaterBooked, StateTempReleased, StateTempBooked} {
		a := &Allocation{Type: SeatTypeRegular, Status: StatusAllocated}
		if err := a.SetState(s); err != nil {
			t.Fatalf("SetState(%s) 失败: %v", s, err)
		}
		got, err := a.State()
		if err != nil || got != s {
			t.Errorf("期望 %s，实际 %s (err=%v)", s, got, err)
		}
	}
}

func TestSetState_LockKeepsType(t *testing.T) {
	a := &Allocation{Type: SeatTypeFloater, Status: StatusBooked}
	if err := a.SetState(StateLocked); err != nil {
		t.Fatalf("SetState 失败: %v", err)
	}
	if a.Status != StatusLocked || a.Type != SeatTypeFloater {
		t.Errorf("锁定应保留 type，实际 status=%s type=%s", a.Status, a.Type)
	}
}

func TestSetState_LockRecordsPreLockState(t *testing.T) {
	for _, s := range []AllocationState{StateRegularAllocated, StateFloaterBooked, StateTempReleased, StateTempBooked} {
		a := &Allocation{}
		_ = a.SetState(s)
		if _, ok := a.PreLockState(); ok {
			t.Errorf("%s 未锁定，不应有锁定前状态", s)
		}

		_ = a.SetState(StateLocked)
		// 重复锁定不覆盖 locked_from
		_ = a.SetState(StateLocked)
		got, ok := a.PreLockState()
		if !ok || got != s {
			t.Errorf("期望锁定前状态 %s，实际 %s (ok=%v)", s, got, ok)
		}

		_ = a.SetState(got)
		if a.LockedFrom != nil {
			t.Errorf("解锁到 %s 后应清空 locked_from", s)
		}
	}

	legacy := &Allocation{Type: SeatTypeRegular, Status: StatusLocked}
	if _, ok := legacy.PreLockState(); ok {
		t.Error("没有 locked_from 的锁定记录不应返回锁定前状态")
	}
}

func TestSetState_ZeroValueRejected(t *testing.T) {
	a := &Allocation{}
	if err := a.SetState(AllocationState{}); !errors.Is(err, ErrInvalidAllocationState) {
		t.Errorf("零值状态应被拒绝，实际: %v", err)
	}
}

func TestIsHeldBy(t *testing.T) {
	a := NewRegularAllocation("E1", 5, rules.Batch1, rules.Week1, rules.Mon)
	if !a.IsHeldBy("E1") {
		t.Error("常规分配应属于 E1")
	}
	if a.IsHeldBy("E2") {
		t.Error("常规分配不应属于 E2")
	}

	_ = a.SetState(StateTempReleased)
	if a.IsHeldBy("E1") {
		t.Error("已释放的座位不属于任何人")
	}
	if a.HolderID() != "E1" {
		t.Errorf("释放后仍记录原占用人，实际=%q", a.HolderID())
	}
}
