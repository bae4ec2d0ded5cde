package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anushka-2626/Seat-booking-system/internal/model"
	"github.com/anushka-2626/Seat-booking-system/internal/repository"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
	pkgerrors "github.com/anushka-2626/Seat-booking-system/pkg/errors"
)

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
	err       error
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) add(id string, batch rules.Batch, seat int) *model.Employee {
	e := &model.Employee{EmployeeID: id, Name: "员工" + id, Batch: batch, Role: model.RoleEmployee, IsActive: true}
	if seat > 0 {
		e.DefaultSeat = &seat
	}
	m.employees[id] = e
	return e
}

func (m *mockEmployeeRepo) GetByEmployeeID(_ context.Context, employeeID string) (*model.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	if e, ok := m.employees[employeeID]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ListActiveByBatch(_ context.Context, batch rules.Batch) ([]model.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Employee
	for _, e := range m.employees {
		if e.Batch == batch && e.IsActive {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (m *mockEmployeeRepo) List(_ context.Context, batch *rules.Batch, includeInactive bool) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if batch != nil && e.Batch != *batch {
			continue
		}
		if !includeInactive && !e.IsActive {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

// ── Mock AllocationRepository ──
// 与数据库实现保持相同的语义：(week, day, seat) 唯一，同一员工同一天至多占用一个座位，
// UpdateState 按 version 条件写入

type mockAllocationRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.Allocation
	byKey   map[string]string
	updates int
	// beforeUpdate 在条件写入前调用，用于模拟并发修改
	beforeUpdate func(a *model.Allocation)
}

func newMockAllocationRepo() *mockAllocationRepo {
	return &mockAllocationRepo{
		byID:  make(map[string]*model.Allocation),
		byKey: make(map[string]string),
	}
}

func allocKey(week rules.Week, day rules.Day, seat int) string {
	return fmt.Sprintf("%s|%s|%d", week, day, seat)
}

// get 测试断言用：按 key 读取当前记录
func (m *mockAllocationRepo) get(week rules.Week, day rules.Day, seat int) *model.Allocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byKey[allocKey(week, day, seat)]
	if !ok {
		return nil
	}
	cp := *m.byID[id]
	return &cp
}

func (m *mockAllocationRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// put 直接写入一条记录（绕过状态机）
func (m *mockAllocationRepo) put(a *model.Allocation) *model.Allocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Version == 0 {
		a.Version = 1
	}
	cp := *a
	m.byID[a.ID] = &cp
	m.byKey[allocKey(a.Week, a.Day, a.Seat)] = a.ID
	return a
}

func (m *mockAllocationRepo) GetByKey(_ context.Context, week rules.Week, day rules.Day, seat int) (*model.Allocation, error) {
	if a := m.get(week, day, seat); a != nil {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAllocationRepo) GetByID(_ context.Context, id string) (*model.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAllocationRepo) list(match func(a *model.Allocation) bool) []model.Allocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Allocation
	for _, a := range m.byID {
		if match(a) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Day != result[j].Day {
			return result[i].Day < result[j].Day
		}
		return result[i].Seat < result[j].Seat
	})
	return result
}

func (m *mockAllocationRepo) ListByWeek(_ context.Context, week rules.Week) ([]model.Allocation, error) {
	return m.list(func(a *model.Allocation) bool { return a.Week == week }), nil
}

func (m *mockAllocationRepo) ListByWeekDay(_ context.Context, week rules.Week, day rules.Day) ([]model.Allocation, error) {
	return m.list(func(a *model.Allocation) bool { return a.Week == week && a.Day == day }), nil
}

func (m *mockAllocationRepo) ListByEmployee(_ context.Context, employeeID string) ([]model.Allocation, error) {
	return m.list(func(a *model.Allocation) bool { return a.HolderID() == employeeID }), nil
}

func (m *mockAllocationRepo) Create(_ context.Context, a *model.Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := allocKey(a.Week, a.Day, a.Seat)
	if _, exists := m.byKey[key]; exists {
		return pkgerrors.ErrConcurrentModification
	}
	if m.holderTakenLocked(a) {
		return pkgerrors.ErrHolderConflict
	}
	m.insertLocked(a, key)
	return nil
}

func (m *mockAllocationRepo) CreateIfAbsent(_ context.Context, a *model.Allocation) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := allocKey(a.Week, a.Day, a.Seat)
	if _, exists := m.byKey[key]; exists || m.holderTakenLocked(a) {
		return false, nil
	}
	m.insertLocked(a, key)
	return true, nil
}

// holderTakenLocked 对应 uq_allocations_holder_day
func (m *mockAllocationRepo) holderTakenLocked(a *model.Allocation) bool {
	if a.AllocatedToEmployeeID == nil || (a.Status != model.StatusAllocated && a.Status != model.StatusBooked) {
		return false
	}
	for id, other := range m.byID {
		if id != a.ID && other.Week == a.Week && other.Day == a.Day && other.IsHeldBy(*a.AllocatedToEmployeeID) {
			return true
		}
	}
	return false
}

func (m *mockAllocationRepo) insertLocked(a *model.Allocation, key string) {
	a.ID = uuid.NewString()
	if a.Version == 0 {
		a.Version = 1
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.byID[a.ID] = &cp
	m.byKey[key] = a.ID
}

func (m *mockAllocationRepo) UpdateState(_ context.Context, a *model.Allocation) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate(a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[a.ID]
	if !ok || stored.Version != a.Version {
		return pkgerrors.ErrConcurrentModification
	}
	if m.holderTakenLocked(a) {
		return pkgerrors.ErrHolderConflict
	}
	a.Version++
	a.UpdatedAt = time.Now()
	cp := *a
	m.byID[a.ID] = &cp
	m.updates++
	return nil
}

// ── Mock AppSettingsRepository ──

type mockAppSettingsRepo struct {
	mu    sync.Mutex
	row   *model.AppSettings
	gets  int
	saves int
}

func newMockAppSettingsRepo() *mockAppSettingsRepo {
	row := &model.AppSettings{ID: 1}
	row.Apply(rules.DefaultSettings())
	return &mockAppSettingsRepo{row: row}
}

func (m *mockAppSettingsRepo) Get(_ context.Context) (*model.AppSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.row
	return &cp, nil
}

func (m *mockAppSettingsRepo) Save(_ context.Context, s *model.AppSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	cp := *s
	m.row = &cp
	return nil
}

// ── Mock HolidayRepository ──

type mockHolidayRepo struct {
	holidays map[string]*model.Holiday
	err      error
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{holidays: make(map[string]*model.Holiday)}
}

func (m *mockHolidayRepo) List(_ context.Context) ([]model.Holiday, error) {
	var result []model.Holiday
	for _, h := range m.holidays {
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].HolidayDate.Before(result[j].HolidayDate) })
	return result, nil
}

func (m *mockHolidayRepo) ExistsClosedOn(_ context.Context, date time.Time) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, h := range m.holidays {
		if h.IsClosed && rules.DateKey(h.HolidayDate) == rules.DateKey(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockHolidayRepo) Create(_ context.Context, h *model.Holiday) error {
	for _, existing := range m.holidays {
		if rules.DateKey(existing.HolidayDate) == rules.DateKey(h.HolidayDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	cp := *h
	m.holidays[h.ID] = &cp
	return nil
}

func (m *mockHolidayRepo) BatchUpsert(_ context.Context, holidays []model.Holiday) (int64, error) {
	var n int64
	for i := range holidays {
		h := holidays[i]
		replaced := false
		for _, existing := range m.holidays {
			if rules.DateKey(existing.HolidayDate) == rules.DateKey(h.HolidayDate) {
				existing.Name = h.Name
				existing.IsClosed = h.IsClosed
				replaced = true
			}
		}
		if !replaced {
			h.ID = uuid.NewString()
			m.holidays[h.ID] = &h
		}
		n++
	}
	return n, nil
}

func (m *mockHolidayRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.holidays[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.holidays, id)
	return nil
}

// ── Mock SharedCache ──

type mockSharedCache struct {
	mu     sync.Mutex
	values map[string]interface{}
	err    error
}

func newMockSharedCache() *mockSharedCache {
	return &mockSharedCache{values: make(map[string]interface{})}
}

func (m *mockSharedCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	v, ok := m.values[key]
	if !ok {
		return false, nil
	}
	snap, ok := v.(rules.Settings)
	out, isSettings := dst.(*rules.Settings)
	if !ok || !isSettings {
		return false, errors.New("unexpected cache type")
	}
	*out = snap
	return true, nil
}

func (m *mockSharedCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = v
	return nil
}

func (m *mockSharedCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// ── 测试环境 ──

type testEnv struct {
	repo       *repository.Repository
	employees  *mockEmployeeRepo
	allocs     *mockAllocationRepo
	settings   *mockAppSettingsRepo
	holidays   *mockHolidayRepo
	loc        *time.Location
	settingSvc SettingsService
	holidaySvc HolidayService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		employees: newMockEmployeeRepo(),
		allocs:    newMockAllocationRepo(),
		settings:  newMockAppSettingsRepo(),
		holidays:  newMockHolidayRepo(),
		loc:       time.FixedZone("IST", 5*3600+1800),
	}
	env.repo = &repository.Repository{
		Employee:    env.employees,
		Allocation:  env.allocs,
		AppSettings: env.settings,
		Holiday:     env.holidays,
	}
	env.settingSvc = NewSettingsService(env.repo, nil, 0, zap.NewNop())
	env.holidaySvc = NewHolidayService(env.repo, env.loc, zap.NewNop())
	return env
}
