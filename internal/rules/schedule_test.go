package rules

import (
	"reflect"
	"testing"
)

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		name  string
		batch Batch
		week  Week
		want  []Day
	}{
		{"Batch1 Week1", Batch1, Week1, []Day{Mon, Tue, Wed}},
		{"Batch1 Week2", Batch1, Week2, []Day{Thu, Fri}},
		{"Batch2 Week1", Batch2, Week1, []Day{Thu, Fri}},
		{"Batch2 Week2", Batch2, Week2, []Day{Mon, Tue, Wed}},
		{"未知批次", Batch("Batch 3"), Week1, []Day{}},
		{"未知周次", Batch1, Week("Week 3"), []Day{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorkingDays(tt.batch, tt.week)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WorkingDays(%q, %q) = %v，期望 %v", tt.batch, tt.week, got, tt.want)
			}
		})
	}
}

func TestWorkingDays_ReturnsCopy(t *testing.T) {
	days := WorkingDays(Batch1, Week1)
	days[0] = Fri

	if again := WorkingDays(Batch1, Week1); again[0] != Mon {
		t.Errorf("修改返回值不应影响排班表，实际首日=%s", again[0])
	}
}

func TestWorkingDays_BatchesAreComplementary(t *testing.T) {
	for _, week := range Weeks {
		seen := make(map[Day]int)
		for _, batch := range Batches {
			for _, d := range WorkingDays(batch, week) {
				seen[d]++
			}
		}
		for _, d := range Days {
			if seen[d] != 1 {
				t.Errorf("%s %s 应恰好属于一个批次，实际出现 %d 次", week, d, seen[d])
			}
		}
	}
}

func TestRequiresFloater(t *testing.T) {
	if !RequiresFloater(Batch1, Batch2) {
		t.Error("跨批次到岗应需要浮动座位")
	}
	if RequiresFloater(Batch1, Batch1) {
		t.Error("本批次到岗不应需要浮动座位")
	}
}

func TestAllowedSeatRange_Defaults(t *testing.T) {
	s := DefaultSettings()

	floater := AllowedSeatRange(s, true)
	if len(floater) != 10 || floater[0] != 41 || floater[9] != 50 {
		t.Errorf("期望浮动座位 41..50，实际 %v", floater)
	}

	regular := AllowedSeatRange(s, false)
	if len(regular) != 40 || regular[0] != 1 || regular[39] != 40 {
		t.Errorf("期望常规座位 1..40，实际 %v", regular)
	}
}

func TestAllowedSeatRange_CustomSettings(t *testing.T) {
	s := Settings{RegularSeats: 30, FloaterSeats: 5, FloaterStartSeat: 31, BookingOpenHour: 15}

	got := AllowedSeatRange(s, true)
	want := []int{31, 32, 33, 34, 35}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}

	s.FloaterSeats = 0
	if got := AllowedSeatRange(s, true); len(got) != 0 {
		t.Errorf("无浮动座位时应返回空切片，实际 %v", got)
	}
}

func TestIsFloaterSeat(t *testing.T) {
	s := DefaultSettings()
	cases := map[int]bool{1: false, 40: false, 41: true, 50: true}
	for seat, want := range cases {
		if got := IsFloaterSeat(s, seat); got != want {
			t.Errorf("IsFloaterSeat(%d) = %v，期望 %v", seat, got, want)
		}
	}
}

func TestIsSeatInRange(t *testing.T) {
	s := Settings{RegularSeats: 40, FloaterSeats: 10, FloaterStartSeat: 45, BookingOpenHour: 15}

	cases := map[int]bool{0: false, 1: true, 40: true, 42: false, 45: true, 54: true, 55: false}
	for seat, want := range cases {
		if got := IsSeatInRange(s, seat); got != want {
			t.Errorf("IsSeatInRange(%d) = %v，期望 %v", seat, got, want)
		}
	}
}

func TestParseHelpers(t *testing.T) {
	if _, ok := ParseBatch("Batch 2"); !ok {
		t.Error("Batch 2 应可解析")
	}
	if _, ok := ParseBatch("batch 2"); ok {
		t.Error("批次解析应区分大小写")
	}
	if _, ok := ParseWeek("Week 1"); !ok {
		t.Error("Week 1 应可解析")
	}
	if _, ok := ParseDay("Sat"); ok {
		t.Error("Sat 不是工作日")
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("默认设置应合法: %v", err)
	}

	bad := []Settings{
		{RegularSeats: 0, FloaterSeats: 10, FloaterStartSeat: 41, BookingOpenHour: 15},
		{RegularSeats: 40, FloaterSeats: -1, FloaterStartSeat: 41, BookingOpenHour: 15},
		{RegularSeats: 40, FloaterSeats: 10, FloaterStartSeat: 40, BookingOpenHour: 15},
		{RegularSeats: 40, FloaterSeats: 10, FloaterStartSeat: 41, BookingOpenHour: 24},
	}
	for i, s := range bad {
		if err := s.Validate(); err == nil {
			t.Errorf("第 %d 组设置应校验失败", i)
		}
	}
}
