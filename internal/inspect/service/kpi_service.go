package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridwatch/geninspect/internal/inspect/repository"
	"github.com/gridwatch/geninspect/internal/thailocale"
)

// KPIService rolls per-generator inspection history up into department and
// organization compliance figures.
type KPIService struct {
	departmentRepo *repository.DepartmentRepository
	generatorRepo  *repository.GeneratorRepository
	inspectionRepo *repository.InspectionRepository
}

func NewKPIService(
	departmentRepo *repository.DepartmentRepository,
	generatorRepo *repository.GeneratorRepository,
	inspectionRepo *repository.InspectionRepository,
) *KPIService {
	return &KPIService{
		departmentRepo: departmentRepo,
		generatorRepo:  generatorRepo,
		inspectionRepo: inspectionRepo,
	}
}

// DepartmentKPI a department's compliance snapshot for a reference month.
// KpiPercent/KpiScore are zero unless every month to date is fully inspected.
type DepartmentKPI struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Total             int      `json:"total"`
	Working           int      `json:"working"`
	Repair            int      `json:"repair"`
	Disposal          int      `json:"disposal"`
	Inspected         int      `json:"inspected"`
	KpiPercent        int      `json:"kpi_percent"`
	KpiScore          int      `json:"kpi_score"`
	AllMonthsComplete bool     `json:"all_months_complete"`
	IncompleteMonths  []string `json:"incomplete_months"`
}

// OrgSummary the organization-wide rollup. The overall KPI is defined only
// when every department is individually complete.
type OrgSummary struct {
	Total       int  `json:"total"`
	Working     int  `json:"working"`
	Repair      int  `json:"repair"`
	Disposal    int  `json:"disposal"`
	Inspected   int  `json:"inspected"`
	KpiPercent  int  `json:"kpi_percent"`
	KpiScore    int  `json:"kpi_score"`
	AllComplete bool `json:"all_complete"`
}

// OrgKPIReport per-department KPIs plus the organization rollup.
type OrgKPIReport struct {
	Departments []DepartmentKPI `json:"departments"`
	Overall     OrgSummary      `json:"overall"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
}

// ComputeDepartmentKPI evaluates one department against the reference month.
//
// A department with no active generators reports 100%/score 5 and vacuous
// completeness. Otherwise the KPI gate requires every month 1..month of the
// year to have all active generators inspected; an incomplete month zeroes
// both percent and score regardless of the status breakdown.
func (s *KPIService) ComputeDepartmentKPI(ctx context.Context, departmentID string, month, year int) (*DepartmentKPI, error) {
	dept, err := s.departmentRepo.FindByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("load department: %w", err)
	}

	total, err := s.generatorRepo.CountActiveByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("count fleet: %w", err)
	}

	kpi := &DepartmentKPI{
		ID:               dept.ID,
		Name:             dept.Name,
		Total:            total,
		IncompleteMonths: []string{},
	}

	if total == 0 {
		kpi.KpiPercent = 100
		kpi.KpiScore = 5
		kpi.AllMonthsComplete = true
		return kpi, nil
	}

	periodRows, err := s.inspectionRepo.ListPeriodRows(ctx, departmentID, year, month)
	if err != nil {
		return nil, fmt.Errorf("load period rows: %w", err)
	}
	missing := IncompleteMonths(InspectedPerMonth(periodRows), total, month)
	for _, m := range missing {
		kpi.IncompleteMonths = append(kpi.IncompleteMonths, thailocale.MonthName(m))
	}
	kpi.AllMonthsComplete = len(missing) == 0

	statusRows, err := s.inspectionRepo.ListStatusRows(ctx, departmentID, true)
	if err != nil {
		return nil, fmt.Errorf("load status rows: %w", err)
	}
	b := LatestStatusBreakdown(statusRows)
	kpi.Working = b.Working
	kpi.Repair = b.Repair
	kpi.Disposal = b.Disposal
	kpi.Inspected = b.Inspected

	if kpi.AllMonthsComplete {
		kpi.KpiPercent = ComputeKPIPercent(total, b.Repair, b.Disposal)
		kpi.KpiScore = ScoreFromPercent(kpi.KpiPercent)
	}

	return kpi, nil
}

// ComputeOrganizationSummary evaluates every department and sums the results.
func (s *KPIService) ComputeOrganizationSummary(ctx context.Context, month, year int) (*OrgKPIReport, error) {
	depts, err := s.departmentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	report := &OrgKPIReport{
		Departments: make([]DepartmentKPI, 0, len(depts)),
		Month:       month,
		Year:        year,
	}
	report.Overall.AllComplete = true

	for _, dept := range depts {
		kpi, err := s.ComputeDepartmentKPI(ctx, dept.ID, month, year)
		if err != nil {
			return nil, err
		}
		report.Departments = append(report.Departments, *kpi)

		report.Overall.Total += kpi.Total
		report.Overall.Working += kpi.Working
		report.Overall.Repair += kpi.Repair
		report.Overall.Disposal += kpi.Disposal
		report.Overall.Inspected += kpi.Inspected
		if !kpi.AllMonthsComplete {
			report.Overall.AllComplete = false
		}
	}

	if report.Overall.AllComplete {
		report.Overall.KpiPercent = ComputeKPIPercent(report.Overall.Total, report.Overall.Repair, report.Overall.Disposal)
		report.Overall.KpiScore = ScoreFromPercent(report.Overall.KpiPercent)
	}

	return report, nil
}
