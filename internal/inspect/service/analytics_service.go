package service

import (
	"context"
	"fmt"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"github.com/gridwatch/geninspect/internal/inspect/repository"
	"github.com/gridwatch/geninspect/internal/thailocale"
)

// Heatmap cell states
const (
	HeatmapComplete = "complete"
	HeatmapPartial  = "partial"
	HeatmapNone     = "none"
)

// AnalyticsService secondary aggregations built from the same materialized
// rows as the KPI rollup.
type AnalyticsService struct {
	departmentRepo *repository.DepartmentRepository
	generatorRepo  *repository.GeneratorRepository
	inspectionRepo *repository.InspectionRepository
	templateRepo   *repository.TemplateRepository
}

func NewAnalyticsService(
	departmentRepo *repository.DepartmentRepository,
	generatorRepo *repository.GeneratorRepository,
	inspectionRepo *repository.InspectionRepository,
	templateRepo *repository.TemplateRepository,
) *AnalyticsService {
	return &AnalyticsService{
		departmentRepo: departmentRepo,
		generatorRepo:  generatorRepo,
		inspectionRepo: inspectionRepo,
		templateRepo:   templateRepo,
	}
}

// TrendPoint one month's KPI snapshot. Unlike the gated department KPI this
// uses only the month's own inspections, so a silent month reads as zero.
type TrendPoint struct {
	Month      int    `json:"month"`
	MonthName  string `json:"month_name"`
	Inspected  int    `json:"inspected"`
	Working    int    `json:"working"`
	Repair     int    `json:"repair"`
	Disposal   int    `json:"disposal"`
	KpiPercent int    `json:"kpi_percent"`
}

// TemplateAbnormalRank the most frequently abnormal checklist items of one template.
type TemplateAbnormalRank struct {
	TemplateID   string              `json:"template_id"`
	TemplateName string              `json:"template_name"`
	Items        []AbnormalItemCount `json:"items"`
}

// HeatmapCell one department-month coverage cell.
type HeatmapCell struct {
	Month     int    `json:"month"`
	Inspected int    `json:"inspected"`
	Total     int    `json:"total"`
	Status    string `json:"status"`
}

// HeatmapRow a department's cells for months 1..current.
type HeatmapRow struct {
	DepartmentID   string        `json:"department_id"`
	DepartmentName string        `json:"department_name"`
	Cells          []HeatmapCell `json:"cells"`
}

// AnalyticsReport the full secondary-aggregation payload.
type AnalyticsReport struct {
	Trend         []TrendPoint           `json:"trend"`
	TopAbnormal   []TemplateAbnormalRank `json:"top_abnormal"`
	RepeatRepairs []RepeatRepair         `json:"repeat_repairs"`
	Heatmap       []HeatmapRow           `json:"heatmap"`
	Month         int                    `json:"month"`
	Year          int                    `json:"year"`
}

// ComputeAnalytics builds trend, abnormal-item ranking, repeat-repair and
// completeness heatmap for the organization up to the reference month.
func (s *AnalyticsService) ComputeAnalytics(ctx context.Context, month, year int) (*AnalyticsReport, error) {
	report := &AnalyticsReport{Month: month, Year: year}

	statusRows, err := s.inspectionRepo.ListStatusRows(ctx, "", true)
	if err != nil {
		return nil, fmt.Errorf("load status rows: %w", err)
	}

	report.Trend = buildTrend(statusRows, month, year)
	report.RepeatRepairs = DetectRepeatRepairs(statusRows, year, 2, 20)

	abnormalRows, err := s.inspectionRepo.ListAbnormalItemRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load abnormal rows: %w", err)
	}
	report.TopAbnormal, err = s.rankTemplates(ctx, abnormalRows)
	if err != nil {
		return nil, err
	}

	report.Heatmap, err = s.buildHeatmap(ctx, month, year)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// buildTrend derives one KPI point per month from that month's inspections
// alone. The month's inspected count is the fleet baseline for its formula.
func buildTrend(rows []repository.StatusRow, throughMonth, year int) []TrendPoint {
	points := make([]TrendPoint, 0, throughMonth)
	for m := 1; m <= throughMonth; m++ {
		point := TrendPoint{Month: m, MonthName: thailocale.MonthName(m)}
		seen := make(map[string]struct{})
		for _, row := range rows {
			if row.Year != year || row.Month != m {
				continue
			}
			if _, dup := seen[row.GeneratorID]; dup {
				continue
			}
			seen[row.GeneratorID] = struct{}{}
			point.Inspected++
			switch row.MachineStatus {
			case entity.MachineStatusOperational:
				point.Working++
			case entity.MachineStatusRepair:
				point.Repair++
			case entity.MachineStatusPendingDisposal:
				point.Disposal++
			}
		}
		if point.Inspected > 0 {
			point.KpiPercent = ComputeKPIPercent(point.Inspected, point.Repair, point.Disposal)
		}
		points = append(points, point)
	}
	return points
}

func (s *AnalyticsService) rankTemplates(ctx context.Context, rows []repository.AbnormalItemRow) ([]TemplateAbnormalRank, error) {
	templates, err := s.templateRepo.FindAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	names := make(map[string]string, len(templates))
	for _, t := range templates {
		names[t.ID] = t.Name
	}

	ranked := TopAbnormalItems(rows, 10)

	// Emit in template list order so the payload is stable.
	out := make([]TemplateAbnormalRank, 0, len(ranked))
	for _, t := range templates {
		items, ok := ranked[t.ID]
		if !ok {
			continue
		}
		out = append(out, TemplateAbnormalRank{
			TemplateID:   t.ID,
			TemplateName: names[t.ID],
			Items:        items,
		})
	}
	return out, nil
}

func (s *AnalyticsService) buildHeatmap(ctx context.Context, month, year int) ([]HeatmapRow, error) {
	depts, err := s.departmentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	periodRows, err := s.inspectionRepo.ListPeriodRows(ctx, "", year, month)
	if err != nil {
		return nil, fmt.Errorf("load period rows: %w", err)
	}
	byDept := make(map[string][]repository.PeriodRow)
	for _, row := range periodRows {
		byDept[row.DepartmentID] = append(byDept[row.DepartmentID], row)
	}

	rowsOut := make([]HeatmapRow, 0, len(depts))
	for _, dept := range depts {
		total, err := s.generatorRepo.CountActiveByDepartment(ctx, dept.ID)
		if err != nil {
			return nil, fmt.Errorf("count fleet: %w", err)
		}
		perMonth := InspectedPerMonth(byDept[dept.ID])

		row := HeatmapRow{DepartmentID: dept.ID, DepartmentName: dept.Name}
		for m := 1; m <= month; m++ {
			inspected := perMonth[m]
			status := HeatmapPartial
			if inspected == 0 {
				status = HeatmapNone
			}
			if inspected >= total {
				status = HeatmapComplete
			}
			row.Cells = append(row.Cells, HeatmapCell{
				Month:     m,
				Inspected: inspected,
				Total:     total,
				Status:    status,
			})
		}
		rowsOut = append(rowsOut, row)
	}
	return rowsOut, nil
}
