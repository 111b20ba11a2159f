package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"github.com/gridwatch/geninspect/internal/inspect/repository"
)

// InspectionService writes and reads inspection records. Authorization is the
// caller's concern; route middleware rejects viewer tokens before any write
// reaches this service.
type InspectionService struct {
	inspectionRepo *repository.InspectionRepository
	generatorRepo  *repository.GeneratorRepository
	templateRepo   *repository.TemplateRepository
}

func NewInspectionService(
	inspectionRepo *repository.InspectionRepository,
	generatorRepo *repository.GeneratorRepository,
	templateRepo *repository.TemplateRepository,
) *InspectionService {
	return &InspectionService{
		inspectionRepo: inspectionRepo,
		generatorRepo:  generatorRepo,
		templateRepo:   templateRepo,
	}
}

// ItemValue the submitted reading for one checklist item, keyed by item code.
type ItemValue struct {
	Status string `json:"status"`
	Remark string `json:"remark"`
}

// CreateInspectionRequest payload for creating a monthly inspection.
type CreateInspectionRequest struct {
	GeneratorID   string               `json:"generator_id" binding:"required"`
	Month         int                  `json:"month" binding:"required,min=1,max=12"`
	Year          int                  `json:"year" binding:"required"`
	InspectorName string               `json:"inspector_name"`
	Items         map[string]ItemValue `json:"items" binding:"required"`
	OverallRemark string               `json:"overall_remark"`
}

// UpdateInspectionRequest payload for editing an existing inspection.
// Month, year and generator association never change on update.
type UpdateInspectionRequest struct {
	InspectorName string               `json:"inspector_name"`
	Items         map[string]ItemValue `json:"items" binding:"required"`
	OverallRemark string               `json:"overall_remark"`
}

// CreateInspection records one monthly inspection and its detail rows.
//
// The period pre-check is an early exit only; the unique index on
// (generator_id, month, year) is the authoritative guard, and a losing racer
// surfaces as ErrDuplicatePeriod from the insert itself.
func (s *InspectionService) CreateInspection(ctx context.Context, req *CreateInspectionRequest) (*entity.Inspection, error) {
	gen, err := s.generatorRepo.FindByID(ctx, req.GeneratorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGeneratorNotFound
		}
		return nil, fmt.Errorf("load generator: %w", err)
	}
	if gen.FormTemplateID == nil {
		return nil, ErrNoTemplateAssigned
	}

	templateItems, err := s.templateRepo.ListItems(ctx, *gen.FormTemplateID)
	if err != nil {
		return nil, fmt.Errorf("load template items: %w", err)
	}

	items, refs := buildEvaluatedItems(req.Items, templateItems)
	if msgs := ValidateItems(itemInputs(items)); len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}

	if _, err := s.inspectionRepo.FindByPeriod(ctx, req.GeneratorID, req.Month, req.Year); err == nil {
		return nil, ErrDuplicatePeriod
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check period: %w", err)
	}

	overallStatus := EvaluateOverallStatus(itemInputs(items))
	machineStatus := EvaluateMachineStatus(itemInputs(items), refs)

	insp := &entity.Inspection{
		ID:             uuid.New().String(),
		InspectionCode: GenerateInspectionCode(),
		GeneratorID:    gen.ID,
		Month:          req.Month,
		Year:           req.Year,
		InspectionDate: time.Now(),
		FormTemplateID: *gen.FormTemplateID,
		InspectorName:  req.InspectorName,
		OverallStatus:  overallStatus,
		MachineStatus:  machineStatus,
		OverallRemark:  req.OverallRemark,
	}

	details := make([]entity.InspectionDetail, 0, len(items))
	for _, item := range items {
		details = append(details, entity.InspectionDetail{
			ID:           uuid.New().String(),
			InspectionID: insp.ID,
			ItemCode:     item.ItemCode,
			Description:  item.Description,
			Status:       item.Status,
			Remark:       item.Remark,
		})
	}

	if err := s.inspectionRepo.Create(ctx, insp, details); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicatePeriod
		}
		return nil, fmt.Errorf("create inspection: %w", err)
	}

	if err := s.generatorRepo.SetActive(ctx, gen.ID, machineStatus != entity.MachineStatusPendingDisposal); err != nil {
		return nil, fmt.Errorf("update generator flag: %w", err)
	}

	return insp, nil
}

// UpdateInspection replaces an inspection's readings. The detail set is fully
// rewritten (delete-then-insert) and the generator's retired flag re-derived.
func (s *InspectionService) UpdateInspection(ctx context.Context, id string, req *UpdateInspectionRequest) (*entity.Inspection, error) {
	insp, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInspectionNotFound
		}
		return nil, fmt.Errorf("load inspection: %w", err)
	}

	gen, err := s.generatorRepo.FindByID(ctx, insp.GeneratorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGeneratorNotFound
		}
		return nil, fmt.Errorf("load generator: %w", err)
	}
	if gen.FormTemplateID == nil {
		return nil, ErrNoTemplateAssigned
	}

	templateItems, err := s.templateRepo.ListItems(ctx, *gen.FormTemplateID)
	if err != nil {
		return nil, fmt.Errorf("load template items: %w", err)
	}

	items, refs := buildEvaluatedItems(req.Items, templateItems)
	if msgs := ValidateItems(itemInputs(items)); len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}

	insp.InspectorName = req.InspectorName
	insp.OverallRemark = req.OverallRemark
	insp.OverallStatus = EvaluateOverallStatus(itemInputs(items))
	insp.MachineStatus = EvaluateMachineStatus(itemInputs(items), refs)
	insp.Details = nil

	details := make([]entity.InspectionDetail, 0, len(items))
	for _, item := range items {
		details = append(details, entity.InspectionDetail{
			ID:           uuid.New().String(),
			InspectionID: insp.ID,
			ItemCode:     item.ItemCode,
			Description:  item.Description,
			Status:       item.Status,
			Remark:       item.Remark,
		})
	}

	if err := s.inspectionRepo.Update(ctx, insp, details); err != nil {
		return nil, fmt.Errorf("update inspection: %w", err)
	}

	if err := s.generatorRepo.SetActive(ctx, gen.ID, insp.MachineStatus != entity.MachineStatusPendingDisposal); err != nil {
		return nil, fmt.Errorf("update generator flag: %w", err)
	}

	return insp, nil
}

// GetInspection loads one inspection with its detail rows.
func (s *InspectionService) GetInspection(ctx context.Context, id string) (*entity.Inspection, error) {
	insp, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInspectionNotFound
		}
		return nil, err
	}
	return insp, nil
}

// ListInspections returns filtered inspection records for the admin list view.
func (s *InspectionService) ListInspections(ctx context.Context, filter repository.InspectionFilter) ([]entity.Inspection, error) {
	return s.inspectionRepo.FindAll(ctx, filter)
}

// InspectionForm everything the monthly inspection form needs: the checklist
// grouped by category, any existing record for the period, and the previous
// month's record for pre-filling.
type InspectionForm struct {
	Generator     *entity.Generator                    `json:"generator"`
	FormTemplate  *entity.FormTemplate                 `json:"form_template"`
	GroupedItems  map[string][]entity.FormTemplateItem `json:"grouped_items"`
	Categories    []string                             `json:"categories"`
	Existing      *entity.Inspection                   `json:"existing,omitempty"`
	PreviousMonth *entity.Inspection                   `json:"previous_month,omitempty"`
	Month         int                                  `json:"month"`
	Year          int                                  `json:"year"`
}

// GetInspectionForm assembles the new-inspection form payload for a period.
func (s *InspectionService) GetInspectionForm(ctx context.Context, generatorID string, month, year int) (*InspectionForm, error) {
	gen, err := s.generatorRepo.FindByID(ctx, generatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGeneratorNotFound
		}
		return nil, err
	}
	if gen.FormTemplateID == nil {
		return nil, ErrNoTemplateAssigned
	}

	tpl, err := s.templateRepo.FindByID(ctx, *gen.FormTemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	templateItems, err := s.templateRepo.ListItems(ctx, tpl.ID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]entity.FormTemplateItem)
	var categories []string
	for _, item := range templateItems {
		if _, seen := grouped[item.Category]; !seen {
			categories = append(categories, item.Category)
		}
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	form := &InspectionForm{
		Generator:    gen,
		FormTemplate: tpl,
		GroupedItems: grouped,
		Categories:   categories,
		Month:        month,
		Year:         year,
	}

	existing, err := s.inspectionRepo.FindByPeriodWithDetails(ctx, generatorID, month, year)
	switch {
	case err == nil:
		form.Existing = existing
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	default:
		// No record yet: offer the previous month's readings for pre-fill.
		prevMonth, prevYear := month-1, year
		if prevMonth == 0 {
			prevMonth, prevYear = 12, year-1
		}
		prev, err := s.inspectionRepo.FindByPeriodWithDetails(ctx, generatorID, prevMonth, prevYear)
		if err == nil {
			form.PreviousMonth = prev
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	return form, nil
}

// evaluatedItem an item ready for persistence, with the template description
// snapshotted at submission time.
type evaluatedItem struct {
	ItemCode    string
	Description string
	Status      string
	Remark      string
}

// buildEvaluatedItems joins submitted readings with template definitions.
// Template order wins; submitted codes with no template item fall back to the
// raw code as description and keep a stable alphabetical order at the tail.
func buildEvaluatedItems(submitted map[string]ItemValue, templateItems []entity.FormTemplateItem) ([]evaluatedItem, []TemplateItemRef) {
	refs := make([]TemplateItemRef, 0, len(templateItems))
	items := make([]evaluatedItem, 0, len(submitted))
	matched := make(map[string]bool, len(submitted))

	for _, t := range templateItems {
		refs = append(refs, TemplateItemRef{ItemCode: t.ItemCode, IsDisposalCriteria: t.IsDisposalCriteria})
		val, ok := submitted[t.ItemCode]
		if !ok {
			continue
		}
		matched[t.ItemCode] = true
		items = append(items, evaluatedItem{
			ItemCode:    t.ItemCode,
			Description: t.Description,
			Status:      val.Status,
			Remark:      val.Remark,
		})
	}

	var extra []string
	for code := range submitted {
		if !matched[code] {
			extra = append(extra, code)
		}
	}
	sort.Strings(extra)
	for _, code := range extra {
		val := submitted[code]
		items = append(items, evaluatedItem{
			ItemCode:    code,
			Description: code,
			Status:      val.Status,
			Remark:      val.Remark,
		})
	}

	return items, refs
}

func itemInputs(items []evaluatedItem) []ItemInput {
	out := make([]ItemInput, len(items))
	for i, item := range items {
		out[i] = ItemInput{ItemCode: item.ItemCode, Status: item.Status, Remark: item.Remark}
	}
	return out
}
