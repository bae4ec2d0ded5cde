//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anushka-2626/Seat-booking-system/internal/model"
	"github.com/anushka-2626/Seat-booking-system/internal/repository"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
	"github.com/anushka-2626/Seat-booking-system/pkg/database"
	pkgerrors "github.com/anushka-2626/Seat-booking-system/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=seat_booking_test sslmode=disable TimeZone=Asia/Kolkata"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 与生产一致，使用嵌入的迁移脚本建表
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// resetTables 清空业务表并写入两名测试员工
func resetTables(t *testing.T) {
	t.Helper()
	for _, stmt := range []string{
		"TRUNCATE allocations, holidays",
		"DELETE FROM employees",
		"UPDATE app_settings SET regular_seats = 40, floater_seats = 10, floater_start_seat = 41, booking_open_hour = 15 WHERE id = 1",
	} {
		if err := testDB.Exec(stmt).Error; err != nil {
			t.Fatalf("重置数据失败 (%s): %v", stmt, err)
		}
	}

	seat1, seat2 := 1, 1
	employees := []model.Employee{
		{EmployeeID: "E1", Name: "Employee One", Batch: rules.Batch1, DefaultSeat: &seat1, Role: model.RoleEmployee, IsActive: true},
		{EmployeeID: "E2", Name: "Employee Two", Batch: rules.Batch2, DefaultSeat: &seat2, Role: model.RoleEmployee, IsActive: true},
		{EmployeeID: "E3", Name: "Employee Three", Batch: rules.Batch1, Role: model.RoleEmployee, IsActive: false},
	}
	if err := testDB.Create(&employees).Error; err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}
	// gorm 会跳过零值 bool，停用状态需单独写入
	if err := testDB.Model(&model.Employee{}).Where("employee_id = ?", "E3").Update("is_active", false).Error; err != nil {
		t.Fatalf("停用员工失败: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Allocation 插入
// ═══════════════════════════════════════════════════════════

func TestAllocation_CreateIfAbsent_Idempotent(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	created, err := repo.Allocation.CreateIfAbsent(ctx, model.NewRegularAllocation("E1", 1, rules.Batch1, rules.Week1, rules.Mon))
	if err != nil || !created {
		t.Fatalf("首次插入应成功: created=%v err=%v", created, err)
	}

	created, err = repo.Allocation.CreateIfAbsent(ctx, model.NewRegularAllocation("E1", 1, rules.Batch1, rules.Week1, rules.Mon))
	if err != nil {
		t.Fatalf("重复插入不应报错: %v", err)
	}
	if created {
		t.Error("重复插入应返回 created=false")
	}

	var count int64
	testDB.Model(&model.Allocation{}).Where("week = ? AND day = ? AND seat = ?", rules.Week1, rules.Mon, 1).Count(&count)
	if count != 1 {
		t.Errorf("期望 1 条记录，实际 %d", count)
	}
}

func TestAllocation_Create_DuplicateKey(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.Allocation.Create(ctx, model.NewFloaterBooking("E1", 41, rules.Batch1, rules.Week1, rules.Mon)); err != nil {
		t.Fatalf("创建浮动座位失败: %v", err)
	}
	err := repo.Allocation.Create(ctx, model.NewFloaterBooking("E2", 41, rules.Batch1, rules.Week1, rules.Mon))
	if !errors.Is(err, pkgerrors.ErrConcurrentModification) {
		t.Errorf("期望 ErrConcurrentModification，实际: %v", err)
	}
}

func TestAllocation_Create_ConcurrentSingleWinner(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, id := range []string{"E1", "E2"} {
		wg.Add(1)
		go func(employeeID string) {
			defer wg.Done()
			err := repo.Allocation.Create(ctx, model.NewFloaterBooking(employeeID, 42, rules.Batch1, rules.Week1, rules.Tue))
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, pkgerrors.ErrConcurrentModification) {
				t.Errorf("非预期错误: %v", err)
			}
		}(id)
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("期望恰好 1 次成功，实际 %d", successes)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic Lock
// ═══════════════════════════════════════════════════════════

func TestAllocation_UpdateState_ConflictDetected(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if _, err := repo.Allocation.CreateIfAbsent(ctx, model.NewRegularAllocation("E1", 1, rules.Batch1, rules.Week1, rules.Mon)); err != nil {
		t.Fatalf("创建分配失败: %v", err)
	}

	// 模拟并发：获取两份副本
	copy1, _ := repo.Allocation.GetByKey(ctx, rules.Week1, rules.Mon, 1)
	copy2, _ := repo.Allocation.GetByKey(ctx, rules.Week1, rules.Mon, 1)

	// 第一份：释放
	copy1.SetState(model.StateTempReleased)
	if err := repo.Allocation.UpdateState(ctx, copy1); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}
	if copy1.Version != 2 {
		t.Errorf("更新后 version 应为 2，实际 %d", copy1.Version)
	}

	// 第二份：持有过期 version，应被拒绝
	holder := "E2"
	copy2.AllocatedToEmployeeID = &holder
	copy2.SetState(model.StateTempBooked)
	err := repo.Allocation.UpdateState(ctx, copy2)
	if !errors.Is(err, pkgerrors.ErrConcurrentModification) {
		t.Fatalf("期望 ErrConcurrentModification，实际: %v", err)
	}

	stored, _ := repo.Allocation.GetByID(ctx, copy1.ID)
	state, _ := stored.State()
	if state != model.StateTempReleased || stored.HolderID() != "E1" {
		t.Errorf("库中状态应保持 released/E1，实际 %s/%s", state, stored.HolderID())
	}
}

func TestAllocation_StateCheckConstraint(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	a := model.NewRegularAllocation("E1", 2, rules.Batch1, rules.Week1, rules.Mon)
	if err := repo.Allocation.Create(ctx, a); err != nil {
		t.Fatalf("创建分配失败: %v", err)
	}

	// released/regular 不是合法组合
	err := testDB.Model(&model.Allocation{}).Where("id = ?", a.ID).Update("status", model.StatusReleased).Error
	if err == nil {
		t.Error("期望 CHECK 约束拒绝非法状态组合")
	}
}

func TestAllocation_HolderPerDayIndex(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.Allocation.Create(ctx, model.NewFloaterBooking("E2", 41, rules.Batch1, rules.Week1, rules.Mon)); err != nil {
		t.Fatalf("创建浮动座位失败: %v", err)
	}

	// 同一员工同一天的第二个座位
	err := repo.Allocation.Create(ctx, model.NewFloaterBooking("E2", 42, rules.Batch1, rules.Week1, rules.Mon))
	if !errors.Is(err, pkgerrors.ErrHolderConflict) {
		t.Errorf("期望 ErrHolderConflict，实际: %v", err)
	}
	created, err := repo.Allocation.CreateIfAbsent(ctx, model.NewRegularAllocation("E2", 1, rules.Batch2, rules.Week1, rules.Mon))
	if err != nil || created {
		t.Errorf("占用人冲突时 CreateIfAbsent 应跳过: created=%v err=%v", created, err)
	}

	// 释放后的记录不计入
	first, _ := repo.Allocation.GetByKey(ctx, rules.Week1, rules.Mon, 41)
	first.SetState(model.StateTempReleased)
	if err := repo.Allocation.UpdateState(ctx, first); err != nil {
		t.Fatalf("释放失败: %v", err)
	}
	second := model.NewFloaterBooking("E2", 42, rules.Batch1, rules.Week1, rules.Mon)
	if err := repo.Allocation.Create(ctx, second); err != nil {
		t.Fatalf("释放后改订应成功: %v", err)
	}

	// 重新占用已释放的记录会违反索引
	holder := "E2"
	first.AllocatedToEmployeeID = &holder
	first.SetState(model.StateTempBooked)
	if err := repo.Allocation.UpdateState(ctx, first); !errors.Is(err, pkgerrors.ErrHolderConflict) {
		t.Errorf("期望 ErrHolderConflict，实际: %v", err)
	}
}

func TestAllocation_LockedFromPersisted(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	a := model.NewFloaterBooking("E2", 43, rules.Batch1, rules.Week1, rules.Wed)
	if err := repo.Allocation.Create(ctx, a); err != nil {
		t.Fatalf("创建浮动座位失败: %v", err)
	}
	a.SetState(model.StateLocked)
	if err := repo.Allocation.UpdateState(ctx, a); err != nil {
		t.Fatalf("锁定失败: %v", err)
	}

	stored, _ := repo.Allocation.GetByID(ctx, a.ID)
	if stored.LockedFrom == nil || *stored.LockedFrom != model.StatusBooked {
		t.Fatalf("期望 locked_from=booked，实际 %v", stored.LockedFrom)
	}
	prev, ok := stored.PreLockState()
	if !ok || prev != model.StateFloaterBooked {
		t.Errorf("期望锁定前状态 booked/floater，实际 %s (%v)", prev, ok)
	}

	stored.SetState(prev)
	if err := repo.Allocation.UpdateState(ctx, stored); err != nil {
		t.Fatalf("解锁失败: %v", err)
	}
	stored, _ = repo.Allocation.GetByID(ctx, a.ID)
	if stored.LockedFrom != nil || stored.HolderID() != "E2" {
		t.Errorf("解锁后应清空 locked_from 并保留占用人，实际 %v/%s", stored.LockedFrom, stored.HolderID())
	}

	// 非锁定记录不允许带 locked_from
	err := testDB.Model(&model.Allocation{}).Where("id = ?", a.ID).Update("locked_from", model.StatusAllocated).Error
	if err == nil {
		t.Error("期望 CHECK 约束拒绝非锁定记录的 locked_from")
	}
}

func TestAllocation_Lists(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	for _, a := range []*model.Allocation{
		model.NewRegularAllocation("E1", 1, rules.Batch1, rules.Week1, rules.Tue),
		model.NewRegularAllocation("E1", 1, rules.Batch1, rules.Week1, rules.Mon),
		model.NewFloaterBooking("E2", 41, rules.Batch1, rules.Week1, rules.Mon),
		model.NewRegularAllocation("E2", 1, rules.Batch2, rules.Week2, rules.Mon),
	} {
		if err := repo.Allocation.Create(ctx, a); err != nil {
			t.Fatalf("创建分配失败: %v", err)
		}
	}

	day, err := repo.Allocation.ListByWeekDay(ctx, rules.Week1, rules.Mon)
	if err != nil {
		t.Fatalf("ListByWeekDay 失败: %v", err)
	}
	if len(day) != 2 || day[0].Seat != 1 || day[1].Seat != 41 {
		t.Errorf("ListByWeekDay 结果不符: %+v", day)
	}

	week, _ := repo.Allocation.ListByWeek(ctx, rules.Week1)
	if len(week) != 3 {
		t.Errorf("期望 Week 1 共 3 条，实际 %d", len(week))
	}

	mine, _ := repo.Allocation.ListByEmployee(ctx, "E2")
	if len(mine) != 2 {
		t.Errorf("期望 E2 持有 2 条，实际 %d", len(mine))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Employee / AppSettings / Holiday
// ═══════════════════════════════════════════════════════════

func TestEmployee_ListActiveByBatch(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	list, err := repo.Employee.ListActiveByBatch(ctx, rules.Batch1)
	if err != nil {
		t.Fatalf("ListActiveByBatch 失败: %v", err)
	}
	if len(list) != 1 || list[0].EmployeeID != "E1" {
		t.Errorf("期望仅 E1，实际 %+v", list)
	}

	all, _ := repo.Employee.List(ctx, nil, true)
	if len(all) != 3 {
		t.Errorf("包含停用员工应有 3 人，实际 %d", len(all))
	}

	if _, err := repo.Employee.GetByEmployeeID(ctx, "E404"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound，实际: %v", err)
	}
}

func TestAppSettings_SeededAndSave(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	s, err := repo.AppSettings.Get(ctx)
	if err != nil {
		t.Fatalf("读取设置失败: %v", err)
	}
	if s.Snapshot() != rules.DefaultSettings() {
		t.Errorf("迁移应写入默认设置，实际 %+v", s.Snapshot())
	}

	s.BookingOpenHour = 9
	if err := repo.AppSettings.Save(ctx, s); err != nil {
		t.Fatalf("保存设置失败: %v", err)
	}
	again, _ := repo.AppSettings.Get(ctx)
	if again.BookingOpenHour != 9 {
		t.Errorf("期望 booking_open_hour=9，实际 %d", again.BookingOpenHour)
	}
}

func TestHoliday_ClosedAndUpsert(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	loc, _ := time.LoadLocation("Asia/Kolkata")
	day := time.Date(2025, 1, 26, 0, 0, 0, 0, loc)

	if err := repo.Holiday.Create(ctx, &model.Holiday{HolidayDate: day, Name: "Republic Day", IsClosed: true}); err != nil {
		t.Fatalf("创建节假日失败: %v", err)
	}
	closed, err := repo.Holiday.ExistsClosedOn(ctx, day.Add(15*time.Hour))
	if err != nil || !closed {
		t.Fatalf("期望当天闭馆: closed=%v err=%v", closed, err)
	}

	// 覆盖为开放日后不再阻止订座
	n, err := repo.Holiday.BatchUpsert(ctx, []model.Holiday{{HolidayDate: day, Name: "Republic Day (open)", IsClosed: false}})
	if err != nil || n != 1 {
		t.Fatalf("BatchUpsert 失败: n=%d err=%v", n, err)
	}
	closed, _ = repo.Holiday.ExistsClosedOn(ctx, day)
	if closed {
		t.Error("is_closed=false 的节假日不应阻止订座")
	}

	if err := repo.Holiday.Delete(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("删除不存在的节假日应返回 ErrRecordNotFound，实际: %v", err)
	}
}
