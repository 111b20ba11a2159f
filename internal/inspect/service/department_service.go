package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"github.com/gridwatch/geninspect/internal/inspect/repository"
)

// DepartmentService department administration.
type DepartmentService struct {
	departmentRepo *repository.DepartmentRepository
	generatorRepo  *repository.GeneratorRepository
}

func NewDepartmentService(departmentRepo *repository.DepartmentRepository, generatorRepo *repository.GeneratorRepository) *DepartmentService {
	return &DepartmentService{departmentRepo: departmentRepo, generatorRepo: generatorRepo}
}

type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateDepartmentRequest struct {
	Name *string `json:"name"`
}

func (s *DepartmentService) ListDepartments(ctx context.Context) ([]entity.Department, error) {
	return s.departmentRepo.FindAll(ctx)
}

func (s *DepartmentService) GetDepartment(ctx context.Context, id string) (*entity.Department, error) {
	dept, err := s.departmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return dept, nil
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*entity.Department, error) {
	dept := &entity.Department{
		ID:   uuid.New().String(),
		Name: req.Name,
	}
	if err := s.departmentRepo.Create(ctx, dept); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	return dept, nil
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, id string, req UpdateDepartmentRequest) (*entity.Department, error) {
	dept, err := s.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		dept.Name = *req.Name
	}
	if err := s.departmentRepo.Update(ctx, dept); err != nil {
		return nil, fmt.Errorf("update department: %w", err)
	}
	return dept, nil
}

// DeleteDepartment refuses while the department still owns generators.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id string) error {
	if _, err := s.GetDepartment(ctx, id); err != nil {
		return err
	}
	count, err := s.departmentRepo.CountGenerators(ctx, id)
	if err != nil {
		return fmt.Errorf("count generators: %w", err)
	}
	if count > 0 {
		return ErrDepartmentInUse
	}
	return s.departmentRepo.Delete(ctx, id)
}
