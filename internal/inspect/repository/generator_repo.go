package repository

import (
	"context"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"gorm.io/gorm"
)

// GeneratorRepository data access for generators
type GeneratorRepository struct {
	db *gorm.DB
}

func NewGeneratorRepository(db *gorm.DB) *GeneratorRepository {
	return &GeneratorRepository{db: db}
}

// GeneratorFilter narrows FindAll.
type GeneratorFilter struct {
	DepartmentID string
	ActiveOnly   bool
	Search       string
}

func (r *GeneratorRepository) FindAll(ctx context.Context, filter GeneratorFilter) ([]entity.Generator, error) {
	var items []entity.Generator
	query := r.db.WithContext(ctx).Model(&entity.Generator{}).
		Preload("Department").
		Preload("FormTemplate")

	if filter.DepartmentID != "" {
		query = query.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("asset_id ILIKE ? OR location ILIKE ?", like, like)
	}

	err := query.Order("asset_id").Find(&items).Error
	return items, err
}

func (r *GeneratorRepository) FindByID(ctx context.Context, id string) (*entity.Generator, error) {
	var gen entity.Generator
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("id = ?", id).
		First(&gen).Error
	if err != nil {
		return nil, translate(err)
	}
	return &gen, nil
}

func (r *GeneratorRepository) Create(ctx context.Context, gen *entity.Generator) error {
	return translate(r.db.WithContext(ctx).Create(gen).Error)
}

func (r *GeneratorRepository) Update(ctx context.Context, gen *entity.Generator) error {
	return translate(r.db.WithContext(ctx).Save(gen).Error)
}

// SetActive flips the retired flag without touching other columns.
func (r *GeneratorRepository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).Model(&entity.Generator{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveByDepartment counts a department's active fleet.
func (r *GeneratorRepository) CountActiveByDepartment(ctx context.Context, departmentID string) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Generator{}).
		Where("department_id = ? AND is_active = ?", departmentID, true).
		Count(&n).Error
	return int(n), err
}

// ListActiveByDepartment returns the department's active generators ordered by asset id.
func (r *GeneratorRepository) ListActiveByDepartment(ctx context.Context, departmentID string) ([]entity.Generator, error) {
	var items []entity.Generator
	err := r.db.WithContext(ctx).
		Where("department_id = ? AND is_active = ?", departmentID, true).
		Order("asset_id").
		Find(&items).Error
	return items, err
}
