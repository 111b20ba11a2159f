package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gridwatch/geninspect/internal/thailocale"
)

// ReportService renders KPI rollups as downloadable xlsx workbooks.
type ReportService struct {
	kpiService *KPIService
}

func NewReportService(kpiService *KPIService) *ReportService {
	return &ReportService{kpiService: kpiService}
}

var kpiExportHeaders = []string{
	"ลำดับ", "หน่วยงาน", "จำนวนเครื่อง", "ใช้งานได้", "รอซ่อม", "รอจำหน่าย",
	"ตรวจแล้ว", "KPI (%)", "คะแนน", "ความครบถ้วน", "เดือนที่ขาด",
}

// ExportKPIReport builds the organization KPI workbook for the reference month.
func (s *ReportService) ExportKPIReport(ctx context.Context, month, year int) (*excelize.File, string, error) {
	report, err := s.kpiService.ComputeOrganizationSummary(ctx, month, year)
	if err != nil {
		return nil, "", fmt.Errorf("compute kpi: %w", err)
	}

	f := excelize.NewFile()
	sheet := "KPI"
	f.SetSheetName("Sheet1", sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	title := fmt.Sprintf("รายงาน KPI เครื่องกำเนิดไฟฟ้าสำรอง ประจำเดือน%s %d",
		thailocale.MonthName(month), thailocale.BuddhistYear(year))
	f.SetCellValue(sheet, "A1", title)
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.MergeCell(sheet, "A1", "K1")

	headerRow := 3
	for i, h := range kpiExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, dept := range report.Departments {
		row := headerRow + 1 + i
		completeness := "ครบ"
		if !dept.AllMonthsComplete {
			completeness = "ไม่ครบ"
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), dept.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), dept.Total)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), dept.Working)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), dept.Repair)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), dept.Disposal)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), dept.Inspected)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), dept.KpiPercent)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), dept.KpiScore)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), completeness)
		if len(dept.IncompleteMonths) > 0 {
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), strings.Join(dept.IncompleteMonths, ", "))
		}
	}

	summaryRow := headerRow + 1 + len(report.Departments)
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	overallComplete := "ครบ"
	if !report.Overall.AllComplete {
		overallComplete = "ไม่ครบ"
	}
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), "รวมทั้งองค์กร")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow), report.Overall.Total)
	f.SetCellValue(sheet, fmt.Sprintf("D%d", summaryRow), report.Overall.Working)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", summaryRow), report.Overall.Repair)
	f.SetCellValue(sheet, fmt.Sprintf("F%d", summaryRow), report.Overall.Disposal)
	f.SetCellValue(sheet, fmt.Sprintf("G%d", summaryRow), report.Overall.Inspected)
	f.SetCellValue(sheet, fmt.Sprintf("H%d", summaryRow), report.Overall.KpiPercent)
	f.SetCellValue(sheet, fmt.Sprintf("I%d", summaryRow), report.Overall.KpiScore)
	f.SetCellValue(sheet, fmt.Sprintf("J%d", summaryRow), overallComplete)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("K%d", summaryRow), summaryStyle)

	colWidths := []float64{8, 28, 12, 10, 10, 12, 10, 10, 8, 12, 30}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("kpi_report_%d_%02d.xlsx", year, month)
	return f, filename, nil
}
