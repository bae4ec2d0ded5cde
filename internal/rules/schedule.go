// Package rules 座位分配的纯规则：批次排班、座位类别、订座开放时间与订座校验流水线。
// 本包不做任何 I/O，所有输入（设置快照、当前时间、节假日判定结果）由调用方显式传入。
package rules

// Batch 员工批次
type Batch string

const (
	Batch1 Batch = "Batch 1"
	Batch2 Batch = "Batch 2"
)

// Week 两周轮换中的周次
type Week string

const (
	Week1 Week = "Week 1"
	Week2 Week = "Week 2"
)

// Day 工作日
type Day string

const (
	Mon Day = "Mon"
	Tue Day = "Tue"
	Wed Day = "Wed"
	Thu Day = "Thu"
	Fri Day = "Fri"
)

// Days 一周内的全部工作日（有序）
var Days = []Day{Mon, Tue, Wed, Thu, Fri}

// Batches 全部批次
var Batches = []Batch{Batch1, Batch2}

// Weeks 全部周次
var Weeks = []Week{Week1, Week2}

// batchSchedule 批次排班表：Batch 2 与 Batch 1 互补
var batchSchedule = map[Batch]map[Week][]Day{
	Batch1: {
		Week1: {Mon, Tue, Wed},
		Week2: {Thu, Fri},
	},
	Batch2: {
		Week1: {Thu, Fri},
		Week2: {Mon, Tue, Wed},
	},
}

// Valid 是否为已知批次
func (b Batch) Valid() bool {
	_, ok := batchSchedule[b]
	return ok
}

// Valid 是否为已知周次
func (w Week) Valid() bool {
	return w == Week1 || w == Week2
}

// Valid 是否为工作日
func (d Day) Valid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// ParseBatch 解析外部输入的批次
func ParseBatch(s string) (Batch, bool) {
	b := Batch(s)
	return b, b.Valid()
}

// ParseWeek 解析外部输入的周次
func ParseWeek(s string) (Week, bool) {
	w := Week(s)
	return w, w.Valid()
}

// ParseDay 解析外部输入的工作日
func ParseDay(s string) (Day, bool) {
	d := Day(s)
	return d, d.Valid()
}

// WorkingDays 返回批次在指定周的到岗日
// 未知批次或周次返回空切片，不报错
func WorkingDays(batch Batch, week Week) []Day {
	days := batchSchedule[batch][week]
	out := make([]Day, len(days))
	copy(out, days)
	return out
}

// IsWorkingDay 判断某天是否在批次的到岗日内
func IsWorkingDay(batch Batch, week Week, day Day) bool {
	for _, d := range batchSchedule[batch][week] {
		if d == day {
			return true
		}
	}
	return false
}

// RequiresFloater 员工以非本批次身份到岗时必须使用浮动类座位
func RequiresFloater(employeeBatch, workingBatch Batch) bool {
	return employeeBatch != workingBatch
}

// AllowedSeatRange 返回可选座位号
//   - requiresFloater=true:  [floater_start_seat, floater_start_seat+floater_seats-1]
//   - requiresFloater=false: [1, regular_seats]
func AllowedSeatRange(s Settings, requiresFloater bool) []int {
	start, count := 1, s.RegularSeats
	if requiresFloater {
		start, count = s.FloaterStartSeat, s.FloaterSeats
	}
	if count <= 0 {
		return []int{}
	}
	seats := make([]int, count)
	for i := range seats {
		seats[i] = start + i
	}
	return seats
}

// IsFloaterSeat 座位类别只由座位号与浮动起始号决定
func IsFloaterSeat(s Settings, seat int) bool {
	return seat >= s.FloaterStartSeat
}

// MaxSeat 最大合法座位号
func MaxSeat(s Settings) int {
	if s.FloaterSeats <= 0 {
		return s.RegularSeats
	}
	return s.FloaterStartSeat + s.FloaterSeats - 1
}

// IsSeatInRange 座位号是否在 [1, MaxSeat] 且不落在常规区与浮动区之间的空档
func IsSeatInRange(s Settings, seat int) bool {
	if seat < 1 || seat > MaxSeat(s) {
		return false
	}
	return seat <= s.RegularSeats || IsFloaterSeat(s, seat)
}
