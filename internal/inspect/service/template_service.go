package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"github.com/gridwatch/geninspect/internal/inspect/repository"
)

// TemplateService checklist-template administration.
type TemplateService struct {
	templateRepo *repository.TemplateRepository
}

func NewTemplateService(templateRepo *repository.TemplateRepository) *TemplateService {
	return &TemplateService{templateRepo: templateRepo}
}

type CreateTemplateRequest struct {
	Name        string                      `json:"name" binding:"required"`
	Description string                      `json:"description"`
	Items       []CreateTemplateItemRequest `json:"items"`
}

type CreateTemplateItemRequest struct {
	ItemCode           string `json:"item_code" binding:"required"`
	Category           string `json:"category" binding:"required"`
	Description        string `json:"description" binding:"required"`
	IsDisposalCriteria bool   `json:"is_disposal_criteria"`
	SortOrder          int    `json:"sort_order"`
}

type UpdateTemplateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateTemplateItemRequest struct {
	Category           *string `json:"category"`
	Description        *string `json:"description"`
	IsDisposalCriteria *bool   `json:"is_disposal_criteria"`
	SortOrder          *int    `json:"sort_order"`
	IsActive           *bool   `json:"is_active"`
}

func (s *TemplateService) ListTemplates(ctx context.Context, activeOnly bool) ([]entity.FormTemplate, error) {
	return s.templateRepo.FindAll(ctx, activeOnly)
}

func (s *TemplateService) GetTemplate(ctx context.Context, id string) (*entity.FormTemplate, error) {
	tpl, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	items, err := s.templateRepo.ListItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	tpl.Items = items
	return tpl, nil
}

func (s *TemplateService) CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*entity.FormTemplate, error) {
	tpl := &entity.FormTemplate{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.templateRepo.Create(ctx, tpl); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	for i, it := range req.Items {
		sortOrder := it.SortOrder
		if sortOrder == 0 {
			sortOrder = i + 1
		}
		item := &entity.FormTemplateItem{
			ID:                 uuid.New().String(),
			FormTemplateID:     tpl.ID,
			ItemCode:           it.ItemCode,
			Category:           it.Category,
			Description:        it.Description,
			IsDisposalCriteria: it.IsDisposalCriteria,
			SortOrder:          sortOrder,
			IsActive:           true,
		}
		if err := s.templateRepo.CreateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("create template item %s: %w", it.ItemCode, err)
		}
		tpl.Items = append(tpl.Items, *item)
	}
	return tpl, nil
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, req UpdateTemplateRequest) (*entity.FormTemplate, error) {
	tpl, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if req.Name != nil {
		tpl.Name = *req.Name
	}
	if req.Description != nil {
		tpl.Description = *req.Description
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return tpl, nil
}

func (s *TemplateService) AddTemplateItem(ctx context.Context, templateID string, req CreateTemplateItemRequest) (*entity.FormTemplateItem, error) {
	if _, err := s.templateRepo.FindByID(ctx, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	item := &entity.FormTemplateItem{
		ID:                 uuid.New().String(),
		FormTemplateID:     templateID,
		ItemCode:           req.ItemCode,
		Category:           req.Category,
		Description:        req.Description,
		IsDisposalCriteria: req.IsDisposalCriteria,
		SortOrder:          req.SortOrder,
		IsActive:           true,
	}
	if err := s.templateRepo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create template item: %w", err)
	}
	return item, nil
}

func (s *TemplateService) UpdateTemplateItem(ctx context.Context, itemID string, req UpdateTemplateItemRequest) (*entity.FormTemplateItem, error) {
	item, err := s.templateRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.IsDisposalCriteria != nil {
		item.IsDisposalCriteria = *req.IsDisposalCriteria
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if err := s.templateRepo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update template item: %w", err)
	}
	return item, nil
}

func (s *TemplateService) DeleteTemplateItem(ctx context.Context, itemID string) error {
	if _, err := s.templateRepo.FindItemByID(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return s.templateRepo.DeleteItem(ctx, itemID)
}
