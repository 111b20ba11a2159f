package repository

import (
	"context"
	"time"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"gorm.io/gorm"
)

// InspectionRepository data access for inspections and their detail rows
type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// InspectionFilter narrows FindAll.
type InspectionFilter struct {
	DepartmentID  string
	GeneratorID   string
	Month         int
	Year          int
	MachineStatus string
	Search        string
	Limit         int
}

func (r *InspectionRepository) FindAll(ctx context.Context, filter InspectionFilter) ([]entity.Inspection, error) {
	var items []entity.Inspection
	query := r.db.WithContext(ctx).Model(&entity.Inspection{}).
		Joins("JOIN generators ON generators.id = inspections.generator_id").
		Preload("Generator").
		Preload("Generator.Department")

	if filter.DepartmentID != "" {
		query = query.Where("generators.department_id = ?", filter.DepartmentID)
	}
	if filter.GeneratorID != "" {
		query = query.Where("inspections.generator_id = ?", filter.GeneratorID)
	}
	if filter.Month != 0 {
		query = query.Where("inspections.month = ?", filter.Month)
	}
	if filter.Year != 0 {
		query = query.Where("inspections.year = ?", filter.Year)
	}
	if filter.MachineStatus != "" {
		query = query.Where("inspections.machine_status = ?", filter.MachineStatus)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"inspections.inspector_name ILIKE ? OR inspections.inspection_code ILIKE ? OR generators.asset_id ILIKE ?",
			like, like, like,
		)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	err := query.Order("inspections.created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *InspectionRepository) FindByID(ctx context.Context, id string) (*entity.Inspection, error) {
	var insp entity.Inspection
	err := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Generator").
		Where("id = ?", id).
		First(&insp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &insp, nil
}

// FindByPeriod looks up the inspection for (generator, month, year), if any.
func (r *InspectionRepository) FindByPeriod(ctx context.Context, generatorID string, month, year int) (*entity.Inspection, error) {
	var insp entity.Inspection
	err := r.db.WithContext(ctx).
		Where("generator_id = ? AND month = ? AND year = ?", generatorID, month, year).
		First(&insp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &insp, nil
}

// FindByPeriodWithDetails is FindByPeriod plus detail rows, for form pre-fill.
func (r *InspectionRepository) FindByPeriodWithDetails(ctx context.Context, generatorID string, month, year int) (*entity.Inspection, error) {
	var insp entity.Inspection
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("generator_id = ? AND month = ? AND year = ?", generatorID, month, year).
		First(&insp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &insp, nil
}

// Create inserts the inspection and its detail rows in one transaction.
// A period collision comes back as ErrDuplicate from the unique index.
func (r *InspectionRepository) Create(ctx context.Context, insp *entity.Inspection, details []entity.InspectionDetail) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(insp).Error; err != nil {
			return err
		}
		if len(details) > 0 {
			if err := tx.Create(&details).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

// Update rewrites the inspection record and replaces its detail set.
// Details are delete-then-insert, not merged.
func (r *InspectionRepository) Update(ctx context.Context, insp *entity.Inspection, details []entity.InspectionDetail) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(insp).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.InspectionDetail{}, "inspection_id = ?", insp.ID).Error; err != nil {
			return err
		}
		if len(details) > 0 {
			if err := tx.Create(&details).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

// PeriodRow a materialized (generator, month) pair for completeness grouping.
type PeriodRow struct {
	GeneratorID  string
	DepartmentID string
	Month        int
}

// ListPeriodRows returns one row per inspection of the given year up to
// throughMonth, for active generators. departmentID "" means all departments.
// Grouping happens in the service layer.
func (r *InspectionRepository) ListPeriodRows(ctx context.Context, departmentID string, year, throughMonth int) ([]PeriodRow, error) {
	var rows []PeriodRow
	query := r.db.WithContext(ctx).Model(&entity.Inspection{}).
		Select("inspections.generator_id, generators.department_id, inspections.month").
		Joins("JOIN generators ON generators.id = inspections.generator_id").
		Where("generators.is_active = ?", true).
		Where("inspections.year = ? AND inspections.month <= ?", year, throughMonth)
	if departmentID != "" {
		query = query.Where("generators.department_id = ?", departmentID)
	}
	err := query.Scan(&rows).Error
	return rows, err
}

// StatusRow a materialized inspection status observation. Feeds the
// latest-status window, trend, repeat-repair and disposal-history passes.
type StatusRow struct {
	InspectionID  string
	GeneratorID   string
	DepartmentID  string
	AssetID       string
	Month         int
	Year          int
	MachineStatus string
	CreatedAt     time.Time
}

// ListStatusRows returns every inspection's status observation joined with its
// generator. departmentID "" means all departments; activeOnly filters to the
// live fleet (the disposal-history pass needs retired machines too).
func (r *InspectionRepository) ListStatusRows(ctx context.Context, departmentID string, activeOnly bool) ([]StatusRow, error) {
	var rows []StatusRow
	query := r.db.WithContext(ctx).Model(&entity.Inspection{}).
		Select(`inspections.id AS inspection_id,
			inspections.generator_id,
			generators.department_id,
			generators.asset_id,
			inspections.month,
			inspections.year,
			inspections.machine_status,
			inspections.created_at`).
		Joins("JOIN generators ON generators.id = inspections.generator_id")
	if departmentID != "" {
		query = query.Where("generators.department_id = ?", departmentID)
	}
	if activeOnly {
		query = query.Where("generators.is_active = ?", true)
	}
	err := query.Scan(&rows).Error
	return rows, err
}

// AbnormalItemRow a single abnormal detail observation.
type AbnormalItemRow struct {
	FormTemplateID string
	ItemCode       string
}

// ListAbnormalItemRows returns one row per abnormal detail across all time,
// restricted to active generators. Ranking happens in the service layer.
func (r *InspectionRepository) ListAbnormalItemRows(ctx context.Context) ([]AbnormalItemRow, error) {
	var rows []AbnormalItemRow
	err := r.db.WithContext(ctx).Model(&entity.InspectionDetail{}).
		Select("inspections.form_template_id, inspection_details.item_code").
		Joins("JOIN inspections ON inspections.id = inspection_details.inspection_id").
		Joins("JOIN generators ON generators.id = inspections.generator_id").
		Where("inspection_details.status = ?", entity.OverallStatusAbnormal).
		Where("generators.is_active = ?", true).
		Scan(&rows).Error
	return rows, err
}
