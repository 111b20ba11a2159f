package repository

import (
	"context"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"gorm.io/gorm"
)

// DepartmentRepository data access for departments
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) FindAll(ctx context.Context) ([]entity.Department, error) {
	var items []entity.Department
	err := r.db.WithContext(ctx).Order("name").Find(&items).Error
	return items, err
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*entity.Department, error) {
	var dept entity.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dept).Error
	if err != nil {
		return nil, translate(err)
	}
	return &dept, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *entity.Department) error {
	return translate(r.db.WithContext(ctx).Create(dept).Error)
}

func (r *DepartmentRepository) Update(ctx context.Context, dept *entity.Department) error {
	return translate(r.db.WithContext(ctx).Save(dept).Error)
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entity.Department{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountGenerators counts all generators owned by a department, retired included.
// A department is deletable only when this is zero.
func (r *DepartmentRepository) CountGenerators(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Generator{}).
		Where("department_id = ?", id).
		Count(&n).Error
	return n, err
}
