package errors

import "errors"

// ErrConcurrentModification 乐观并发冲突：写入时记录状态已被其他操作修改
// 与业务规则拒绝区分开，调用方可以选择静默重试
var ErrConcurrentModification = errors.New("座位状态已被其他操作修改，请刷新后重试")

// ErrHolderConflict 写入会让同一员工在同一天占用两个座位（uq_allocations_holder_day）
var ErrHolderConflict = errors.New("员工当天已占用其他座位")

// IsRetryable 判断错误是否可由调用方直接重试
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
