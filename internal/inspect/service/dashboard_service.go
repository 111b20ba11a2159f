package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"github.com/gridwatch/geninspect/internal/inspect/repository"
	"github.com/gridwatch/geninspect/internal/thailocale"
	"github.com/redis/go-redis/v9"
)

const dashboardCacheTTL = time.Minute

// DashboardService serves the live monthly views. Denominators here are
// disposal-aware: a generator marked pending-disposal in an earlier month is
// out of the obligation count from the following month on, independent of its
// current active flag, so past months' figures never shift retroactively.
type DashboardService struct {
	departmentRepo *repository.DepartmentRepository
	generatorRepo  *repository.GeneratorRepository
	inspectionRepo *repository.InspectionRepository
	rdb            *redis.Client
}

// NewDashboardService wires the dashboard reads. rdb may be nil; caching is
// then skipped entirely.
func NewDashboardService(
	departmentRepo *repository.DepartmentRepository,
	generatorRepo *repository.GeneratorRepository,
	inspectionRepo *repository.InspectionRepository,
	rdb *redis.Client,
) *DashboardService {
	return &DashboardService{
		departmentRepo: departmentRepo,
		generatorRepo:  generatorRepo,
		inspectionRepo: inspectionRepo,
		rdb:            rdb,
	}
}

// DepartmentProgress one department's inspection progress for a month.
type DepartmentProgress struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Inspected int    `json:"inspected"`
	Progress  int    `json:"progress"`
	Status    string `json:"status"`
}

// MonthlyProgressReport the live dashboard payload.
type MonthlyProgressReport struct {
	Departments []DepartmentProgress `json:"departments"`
	Summary     struct {
		TotalGenerators int `json:"total_generators"`
		TotalInspected  int `json:"total_inspected"`
		TotalRemaining  int `json:"total_remaining"`
		Progress        int `json:"progress"`
	} `json:"summary"`
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	MonthName string `json:"month_name"`
}

// MonthlyProgress computes per-department inspection coverage for a month,
// with a short-lived cache in front since this is the hottest read.
func (s *DashboardService) MonthlyProgress(ctx context.Context, month, year int) (*MonthlyProgressReport, error) {
	cacheKey := fmt.Sprintf("dashboard:monthly:%d-%02d", year, month)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached MonthlyProgressReport
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	depts, err := s.departmentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	// Disposal history across the whole fleet, retired machines included.
	allStatusRows, err := s.inspectionRepo.ListStatusRows(ctx, "", false)
	if err != nil {
		return nil, fmt.Errorf("load status rows: %w", err)
	}
	cutoffs := DisposalCutoffs(allStatusRows)

	periodRows, err := s.inspectionRepo.ListPeriodRows(ctx, "", year, month)
	if err != nil {
		return nil, fmt.Errorf("load period rows: %w", err)
	}
	inspectedByDept := make(map[string]map[string]struct{})
	for _, row := range periodRows {
		if row.Month != month {
			continue
		}
		if inspectedByDept[row.DepartmentID] == nil {
			inspectedByDept[row.DepartmentID] = make(map[string]struct{})
		}
		inspectedByDept[row.DepartmentID][row.GeneratorID] = struct{}{}
	}

	report := &MonthlyProgressReport{
		Month:     month,
		Year:      year,
		MonthName: thailocale.MonthName(month),
	}

	for _, dept := range depts {
		gens, err := s.generatorRepo.ListActiveByDepartment(ctx, dept.ID)
		if err != nil {
			return nil, fmt.Errorf("list generators: %w", err)
		}
		ids := make([]string, len(gens))
		for i, g := range gens {
			ids[i] = g.ID
		}

		total := CountObligedForMonth(ids, cutoffs, month, year)
		inspected := len(inspectedByDept[dept.ID])

		report.Departments = append(report.Departments, DepartmentProgress{
			ID:        dept.ID,
			Name:      dept.Name,
			Total:     total,
			Inspected: inspected,
			Progress:  progressPercent(inspected, total),
			Status:    progressStatus(inspected, total),
		})

		report.Summary.TotalGenerators += total
		report.Summary.TotalInspected += inspected
	}

	report.Summary.TotalRemaining = report.Summary.TotalGenerators - report.Summary.TotalInspected
	report.Summary.Progress = progressPercent(report.Summary.TotalInspected, report.Summary.TotalGenerators)

	if s.rdb != nil {
		if raw, err := json.Marshal(report); err == nil {
			s.rdb.Set(ctx, cacheKey, raw, dashboardCacheTTL)
		}
	}

	return report, nil
}

// CalendarMonth one cell of a department's yearly calendar.
type CalendarMonth struct {
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Total     int    `json:"total"`
	Inspected int    `json:"inspected"`
	Progress  int    `json:"progress"`
	Status    string `json:"status"`
}

// DepartmentCalendar a department's 12-month coverage for one year.
type DepartmentCalendar struct {
	Department *entity.Department `json:"department"`
	Year       int                `json:"year"`
	Months     []CalendarMonth    `json:"months"`
}

// GetDepartmentCalendar builds all 12 month cells for a department and year,
// each with its own disposal-aware denominator.
func (s *DashboardService) GetDepartmentCalendar(ctx context.Context, departmentID string, year int) (*DepartmentCalendar, error) {
	dept, err := s.departmentRepo.FindByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	gens, err := s.generatorRepo.ListActiveByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list generators: %w", err)
	}
	ids := make([]string, len(gens))
	for i, g := range gens {
		ids[i] = g.ID
	}

	statusRows, err := s.inspectionRepo.ListStatusRows(ctx, departmentID, false)
	if err != nil {
		return nil, fmt.Errorf("load status rows: %w", err)
	}
	cutoffs := DisposalCutoffs(statusRows)

	periodRows, err := s.inspectionRepo.ListPeriodRows(ctx, departmentID, year, 12)
	if err != nil {
		return nil, fmt.Errorf("load period rows: %w", err)
	}
	inspectedPerMonth := InspectedPerMonth(periodRows)

	cal := &DepartmentCalendar{Department: dept, Year: year}
	for m := 1; m <= 12; m++ {
		total := CountObligedForMonth(ids, cutoffs, m, year)
		inspected := inspectedPerMonth[m]
		cal.Months = append(cal.Months, CalendarMonth{
			Month:     m,
			MonthName: thailocale.MonthName(m),
			Total:     total,
			Inspected: inspected,
			Progress:  progressPercent(inspected, total),
			Status:    progressStatus(inspected, total),
		})
	}

	return cal, nil
}

// GeneratorMonthStatus a generator's row in the department month view.
type GeneratorMonthStatus struct {
	Generator    entity.Generator   `json:"generator"`
	TemplateName string             `json:"template_name"`
	IsInspected  bool               `json:"is_inspected"`
	Inspection   *entity.Inspection `json:"inspection,omitempty"`
}

// DepartmentMonthView all of a department's generators against one period,
// uninspected machines first so the backlog is visible at the top.
type DepartmentMonthView struct {
	Department       *entity.Department     `json:"department"`
	Month            int                    `json:"month"`
	Year             int                    `json:"year"`
	MonthName        string                 `json:"month_name"`
	Generators       []GeneratorMonthStatus `json:"generators"`
	InspectedCount   int                    `json:"inspected_count"`
	UninspectedCount int                    `json:"uninspected_count"`
}

// GetDepartmentMonth assembles the month detail view for a department.
func (s *DashboardService) GetDepartmentMonth(ctx context.Context, departmentID string, month, year int) (*DepartmentMonthView, error) {
	dept, err := s.departmentRepo.FindByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	gens, err := s.generatorRepo.FindAll(ctx, repository.GeneratorFilter{DepartmentID: departmentID})
	if err != nil {
		return nil, fmt.Errorf("list generators: %w", err)
	}

	inspections, err := s.inspectionRepo.FindAll(ctx, repository.InspectionFilter{
		DepartmentID: departmentID,
		Month:        month,
		Year:         year,
		Limit:        len(gens) + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	byGenerator := make(map[string]*entity.Inspection, len(inspections))
	for i := range inspections {
		byGenerator[inspections[i].GeneratorID] = &inspections[i]
	}

	view := &DepartmentMonthView{
		Department: dept,
		Month:      month,
		Year:       year,
		MonthName:  thailocale.MonthName(month),
	}

	for _, gen := range gens {
		insp := byGenerator[gen.ID]
		templateName := "ไม่ระบุ"
		if gen.FormTemplate != nil {
			templateName = gen.FormTemplate.Name
		}
		view.Generators = append(view.Generators, GeneratorMonthStatus{
			Generator:    gen,
			TemplateName: templateName,
			IsInspected:  insp != nil,
			Inspection:   insp,
		})
		if insp != nil {
			view.InspectedCount++
		} else {
			view.UninspectedCount++
		}
	}

	sort.SliceStable(view.Generators, func(i, j int) bool {
		return !view.Generators[i].IsInspected && view.Generators[j].IsInspected
	})

	return view, nil
}

func progressPercent(inspected, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(inspected) / float64(total) * 100))
}

func progressStatus(inspected, total int) string {
	switch {
	case inspected == 0:
		return "ยังไม่เริ่ม"
	case inspected >= total:
		return "ครบ"
	default:
		return "กำลังดำเนินการ"
	}
}
