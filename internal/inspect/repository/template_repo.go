package repository

import (
	"context"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"gorm.io/gorm"
)

// TemplateRepository data access for form templates and their items
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) FindAll(ctx context.Context, activeOnly bool) ([]entity.FormTemplate, error) {
	var items []entity.FormTemplate
	query := r.db.WithContext(ctx).Model(&entity.FormTemplate{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name").Find(&items).Error
	return items, err
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*entity.FormTemplate, error) {
	var tpl entity.FormTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tpl).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tpl, nil
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *entity.FormTemplate) error {
	return translate(r.db.WithContext(ctx).Create(tpl).Error)
}

func (r *TemplateRepository) Update(ctx context.Context, tpl *entity.FormTemplate) error {
	return translate(r.db.WithContext(ctx).Save(tpl).Error)
}

// ListItems returns a template's active items ordered by sort_order.
func (r *TemplateRepository) ListItems(ctx context.Context, templateID string) ([]entity.FormTemplateItem, error) {
	var items []entity.FormTemplateItem
	err := r.db.WithContext(ctx).
		Where("form_template_id = ? AND is_active = ?", templateID, true).
		Order("sort_order").
		Find(&items).Error
	return items, err
}

func (r *TemplateRepository) FindItemByID(ctx context.Context, itemID string) (*entity.FormTemplateItem, error) {
	var item entity.FormTemplateItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *TemplateRepository) CreateItem(ctx context.Context, item *entity.FormTemplateItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

func (r *TemplateRepository) UpdateItem(ctx context.Context, item *entity.FormTemplateItem) error {
	return translate(r.db.WithContext(ctx).Save(item).Error)
}

func (r *TemplateRepository) DeleteItem(ctx context.Context, itemID string) error {
	res := r.db.WithContext(ctx).Delete(&entity.FormTemplateItem{}, "id = ?", itemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
