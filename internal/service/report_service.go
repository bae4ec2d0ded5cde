package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/anushka-2626/Seat-booking-system/internal/dto"
	"github.com/anushka-2626/Seat-booking-system/internal/model"
	"github.com/anushka-2626/Seat-booking-system/internal/repository"
	"github.com/anushka-2626/Seat-booking-system/internal/rules"
)

// ── 周报模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ReportService 周占用汇总
//
// 每次请求都全量扫描该周记录重新计算，不做缓存或增量维护。
type ReportService interface {
	WeekSummary(ctx context.Context, week string) (*dto.WeekSummaryResponse, error)
	// ExportWeek 导出周占用表为 Excel，返回内容与建议文件名
	ExportWeek(ctx context.Context, week string) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// ────────────────────── WeekSummary ──────────────────────

func (s *reportService) WeekSummary(ctx context.Context, week string) (*dto.WeekSummaryResponse, error) {
	w, ok := rules.ParseWeek(week)
	if !ok {
		return nil, ErrInvalidWeek
	}
	list, err := s.repo.Allocation.ListByWeek(ctx, w)
	if err != nil {
		s.logger.Error("查询周座位失败", zap.String("week", week), zap.Error(err))
		return nil, err
	}
	return summarize(w, list), nil
}

// summarize 按天、按状态分类计数；不属于 Mon~Fri 的记录忽略
func summarize(week rules.Week, list []model.Allocation) *dto.WeekSummaryResponse {
	resp := &dto.WeekSummaryResponse{
		Week:  string(week),
		ByDay: make([]dto.DaySummary, len(rules.Days)),
	}
	dayIndex := make(map[rules.Day]int, len(rules.Days))
	for i, d := range rules.Days {
		dayIndex[d] = i
		resp.ByDay[i] = dto.DaySummary{Day: string(d), Seats: []dto.SeatStatus{}}
	}

	for i := range list {
		a := &list[i]
		idx, ok := dayIndex[a.Day]
		if !ok {
			continue
		}
		day := &resp.ByDay[idx]
		if state, err := a.State(); err == nil {
			countState(&day.Counts, state)
			countState(&resp.Totals, state)
		}
		day.Seats = append(day.Seats, dto.SeatStatus{
			ID:         a.ID,
			Seat:       a.Seat,
			EmployeeID: a.HolderID(),
			Batch:      string(a.Batch),
			Type:       string(a.Type),
			Status:     string(a.Status),
		})
	}

	for i := range resp.ByDay {
		seats := resp.ByDay[i].Seats
		sort.Slice(seats, func(a, b int) bool { return seats[a].Seat < seats[b].Seat })
	}
	return resp
}

func countState(c *dto.SummaryCounts, state model.AllocationState) {
	switch state {
	case model.StateRegularAllocated:
		c.RegularAllocated++
	case model.StateFloaterBooked:
		c.FloaterBooked++
	case model.StateTempReleased:
		c.TempAvailable++
	case model.StateTempBooked:
		c.TempBooked++
	case model.StateLocked:
		c.Locked++
	}
}

// ═══════════════════════════════════════════════════════════
// ExportWeek — 导出周占用表
// ═══════════════════════════════════════════════════════════
//
// Sheet "汇总"：每天一行，按状态分类计数
// Sheet "座位"：行为座位号，列为 Mon~Fri，单元格为 "占用人 (状态)"

func (s *reportService) ExportWeek(ctx context.Context, week string) (*bytes.Buffer, string, error) {
	summary, err := s.WeekSummary(ctx, week)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 1. 汇总
	const summarySheet = "汇总"
	idx, _ := f.NewSheet(summarySheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	f.SetColWidth(summarySheet, "A", "F", 16)

	headers := []string{"日期", "常规已分配", "浮动已预订", "临时可预订", "临时已预订", "维护锁定"}
	for i, h := range headers {
		f.SetCellValue(summarySheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(summarySheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	writeCounts := func(label string, c dto.SummaryCounts) {
		values := []interface{}{label, c.RegularAllocated, c.FloaterBooked, c.TempAvailable, c.TempBooked, c.Locked}
		for i, v := range values {
			f.SetCellValue(summarySheet, cell(colName(i), row), v)
		}
		row++
	}
	for _, d := range summary.ByDay {
		writeCounts(d.Day, d.Counts)
	}
	writeCounts("合计", summary.Totals)

	// 2. 座位明细
	const seatSheet = "座位"
	f.NewSheet(seatSheet)
	f.SetColWidth(seatSheet, "A", "A", 8)
	f.SetColWidth(seatSheet, "B", colName(len(summary.ByDay)), 22)

	f.SetCellValue(seatSheet, "A1", "座位")
	for i, d := range summary.ByDay {
		f.SetCellValue(seatSheet, cell(colName(i+1), 1), d.Day)
	}
	f.SetCellStyle(seatSheet, "A1", cell(colName(len(summary.ByDay)), 1), headerStyle)

	seatSet := make(map[int]bool)
	cells := make(map[string]string)
	for i, d := range summary.ByDay {
		for _, st := range d.Seats {
			seatSet[st.Seat] = true
			text := st.Status
			if st.EmployeeID != "" && st.Status != string(model.StatusReleased) {
				text = fmt.Sprintf("%s (%s)", st.EmployeeID, st.Status)
			}
			cells[fmt.Sprintf("%d:%d", st.Seat, i)] = text
		}
	}
	seats := make([]int, 0, len(seatSet))
	for seat := range seatSet {
		seats = append(seats, seat)
	}
	sort.Ints(seats)

	for r, seat := range seats {
		f.SetCellValue(seatSheet, cell("A", r+2), seat)
		for i := range summary.ByDay {
			text, ok := cells[fmt.Sprintf("%d:%d", seat, i)]
			if !ok {
				text = "-"
			}
			f.SetCellValue(seatSheet, cell(colName(i+1), r+2), text)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("week", week), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("座位占用_%s.xlsx", summary.Week)
	return buf, filename, nil
}

// colName 0-based 列号 → Excel 列名
func colName(i int) string {
	name, _ := excelize.ColumnNumberToName(i + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
