package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"github.com/gridwatch/geninspect/internal/inspect/repository"
)

// GeneratorService fleet administration.
type GeneratorService struct {
	generatorRepo  *repository.GeneratorRepository
	departmentRepo *repository.DepartmentRepository
	templateRepo   *repository.TemplateRepository
}

func NewGeneratorService(
	generatorRepo *repository.GeneratorRepository,
	departmentRepo *repository.DepartmentRepository,
	templateRepo *repository.TemplateRepository,
) *GeneratorService {
	return &GeneratorService{
		generatorRepo:  generatorRepo,
		departmentRepo: departmentRepo,
		templateRepo:   templateRepo,
	}
}

type CreateGeneratorRequest struct {
	AssetID        string  `json:"asset_id" binding:"required"`
	Type           string  `json:"type" binding:"required"`
	SizeKW         float64 `json:"size_kw" binding:"required,gt=0"`
	Product        string  `json:"product"`
	Location       string  `json:"location" binding:"required"`
	DepartmentID   string  `json:"department_id" binding:"required"`
	FormTemplateID *string `json:"form_template_id"`
}

type UpdateGeneratorRequest struct {
	AssetID      *string  `json:"asset_id"`
	Type         *string  `json:"type"`
	SizeKW       *float64 `json:"size_kw"`
	Product      *string  `json:"product"`
	Location     *string  `json:"location"`
	DepartmentID *string  `json:"department_id"`
	// Nullable; sending null detaches the checklist template.
	FormTemplateID OptionalString `json:"form_template_id"`
	IsActive       *bool          `json:"is_active"`
}

func (s *GeneratorService) ListGenerators(ctx context.Context, filter repository.GeneratorFilter) ([]entity.Generator, error) {
	return s.generatorRepo.FindAll(ctx, filter)
}

func (s *GeneratorService) GetGenerator(ctx context.Context, id string) (*entity.Generator, error) {
	gen, err := s.generatorRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGeneratorNotFound
		}
		return nil, err
	}
	return gen, nil
}

func (s *GeneratorService) CreateGenerator(ctx context.Context, req CreateGeneratorRequest) (*entity.Generator, error) {
	if err := s.checkReferences(ctx, req.DepartmentID, req.FormTemplateID); err != nil {
		return nil, err
	}

	gen := &entity.Generator{
		ID:             uuid.New().String(),
		AssetID:        req.AssetID,
		Type:           req.Type,
		SizeKW:         req.SizeKW,
		Product:        req.Product,
		Location:       req.Location,
		DepartmentID:   req.DepartmentID,
		FormTemplateID: req.FormTemplateID,
		IsActive:       true,
	}
	if err := s.generatorRepo.Create(ctx, gen); err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}
	return gen, nil
}

func (s *GeneratorService) UpdateGenerator(ctx context.Context, id string, req UpdateGeneratorRequest) (*entity.Generator, error) {
	gen, err := s.GetGenerator(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AssetID != nil {
		gen.AssetID = *req.AssetID
	}
	if req.Type != nil {
		gen.Type = *req.Type
	}
	if req.SizeKW != nil {
		gen.SizeKW = *req.SizeKW
	}
	if req.Product != nil {
		gen.Product = *req.Product
	}
	if req.Location != nil {
		gen.Location = *req.Location
	}
	if req.DepartmentID != nil {
		gen.DepartmentID = *req.DepartmentID
	}
	if req.FormTemplateID.Set {
		gen.FormTemplateID = req.FormTemplateID.Ref()
	}
	if req.IsActive != nil {
		gen.IsActive = *req.IsActive
	}

	if err := s.checkReferences(ctx, gen.DepartmentID, gen.FormTemplateID); err != nil {
		return nil, err
	}
	if err := s.generatorRepo.Update(ctx, gen); err != nil {
		return nil, fmt.Errorf("update generator: %w", err)
	}
	return gen, nil
}

// RetireGenerator marks the machine inactive, removing it from future
// inspection obligations. Past inspections stay on record.
func (s *GeneratorService) RetireGenerator(ctx context.Context, id string) error {
	if _, err := s.GetGenerator(ctx, id); err != nil {
		return err
	}
	return s.generatorRepo.SetActive(ctx, id, false)
}

func (s *GeneratorService) checkReferences(ctx context.Context, departmentID string, templateID *string) error {
	if _, err := s.departmentRepo.FindByID(ctx, departmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}
	if templateID != nil && *templateID != "" {
		if _, err := s.templateRepo.FindByID(ctx, *templateID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTemplateNotFound
			}
			return err
		}
	}
	return nil
}
