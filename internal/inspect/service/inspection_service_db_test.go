package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"github.com/gridwatch/geninspect/internal/inspect/repository"
	"github.com/gridwatch/geninspect/internal/inspect/testutil"
)

func setupInspectionTest(t *testing.T) (*gorm.DB, *repository.Repositories, *InspectionService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewInspectionService(repos.Inspection, repos.Generator, repos.Template)
	return db, repos, svc
}

func seedFleet(t *testing.T, db *gorm.DB) *entity.Generator {
	t.Helper()
	testutil.SeedDepartment(t, db, "dept-001", "กฟภ. เขต 1")
	tpl := testutil.SeedTemplate(t, db, "tpl-001", "แบบตรวจมาตรฐาน")
	return testutil.SeedGenerator(t, db, "gen-001", "PEA-GEN-001", "dept-001", &tpl.ID)
}

func allNormalItems() map[string]ItemValue {
	return map[string]ItemValue{
		"ENG-01":  {Status: entity.OverallStatusNormal},
		"ELEC-01": {Status: entity.OverallStatusNormal},
		"DIS-01":  {Status: entity.OverallStatusNormal},
		"DIS-02":  {Status: entity.OverallStatusNormal},
	}
}

func TestCreateInspectionAllNormal(t *testing.T) {
	db, _, svc := setupInspectionTest(t)
	seedFleet(t, db)
	ctx := context.Background()

	insp, err := svc.CreateInspection(ctx, &CreateInspectionRequest{
		GeneratorID:   "gen-001",
		Month:         3,
		Year:          2026,
		InspectorName: "สมชาย",
		Items:         allNormalItems(),
	})
	if err != nil {
		t.Fatalf("CreateInspection: %v", err)
	}

	if insp.OverallStatus != entity.OverallStatusNormal {
		t.Errorf("overall status = %q, want %q", insp.OverallStatus, entity.OverallStatusNormal)
	}
	if insp.MachineStatus != entity.MachineStatusOperational {
		t.Errorf("machine status = %q, want %q", insp.MachineStatus, entity.MachineStatusOperational)
	}
	if insp.InspectionCode == "" {
		t.Error("inspection code not generated")
	}

	got, err := svc.GetInspection(ctx, insp.ID)
	if err != nil {
		t.Fatalf("GetInspection: %v", err)
	}
	if len(got.Details) != 4 {
		t.Errorf("details = %d, want 4", len(got.Details))
	}
}

func TestCreateInspectionDuplicatePeriod(t *testing.T) {
	db, _, svc := setupInspectionTest(t)
	seedFleet(t, db)
	ctx := context.Background()

	req := &CreateInspectionRequest{
		GeneratorID:   "gen-001",
		Month:         3,
		Year:          2026,
		InspectorName: "สมชาย",
		Items:         allNormalItems(),
	}
	if _, err := svc.CreateInspection(ctx, req); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.CreateInspection(ctx, req)
	if !errors.Is(err, ErrDuplicatePeriod) {
		t.Fatalf("second create err = %v, want ErrDuplicatePeriod", err)
	}

	// A different month on the same generator is still fine.
	req.Month = 4
	if _, err := svc.CreateInspection(ctx, req); err != nil {
		t.Fatalf("different month create: %v", err)
	}
}

// A writer that gets past the period pre-check must still lose at the unique
// index, surfacing a duplicate error rather than a silent second record.
func TestCreateInspectionPeriodConstraint(t *testing.T) {
	db, repos, svc := setupInspectionTest(t)
	seedFleet(t, db)
	ctx := context.Background()

	if _, err := svc.CreateInspection(ctx, &CreateInspectionRequest{
		GeneratorID:   "gen-001",
		Month:         3,
		Year:          2026,
		InspectorName: "สมชาย",
		Items:         allNormalItems(),
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Insert through the repository directly, as a racing request would after
	// both pre-checks found the period free.
	racer := &entity.Inspection{
		ID:             "race-001",
		InspectionCode: GenerateInspectionCode(),
		GeneratorID:    "gen-001",
		Month:          3,
		Year:           2026,
		InspectionDate: time.Now(),
		FormTemplateID: "tpl-001",
		InspectorName:  "สมหญิง",
		OverallStatus:  entity.OverallStatusNormal,
		MachineStatus:  entity.MachineStatusOperational,
	}
	err := repos.Inspection.Create(ctx, racer, nil)
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("racing create err = %v, want ErrDuplicate", err)
	}

	var count int64
	if err := db.Model(&entity.Inspection{}).
		Where("generator_id = ? AND month = ? AND year = ?", "gen-001", 3, 2026).
		Count(&count).Error; err != nil {
		t.Fatalf("count inspections: %v", err)
	}
	if count != 1 {
		t.Errorf("inspections for period = %d, want 1", count)
	}
}

func TestCreateInspectionAbnormalNeedsRemark(t *testing.T) {
	db, _, svc := setupInspectionTest(t)
	seedFleet(t, db)

	items := allNormalItems()
	items["ENG-01"] = ItemValue{Status: entity.OverallStatusAbnormal}

	_, err := svc.CreateInspection(context.Background(), &CreateInspectionRequest{
		GeneratorID: "gen-001",
		Month:       3,
		Year:        2026,
		Items:       items,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(verr.Messages) != 1 {
		t.Fatalf("messages = %v, want exactly one", verr.Messages)
	}
}

func TestCreateInspectionRepairStatus(t *testing.T) {
	db, repos, svc := setupInspectionTest(t)
	seedFleet(t, db)

	items := allNormalItems()
	items["ENG-01"] = ItemValue{Status: entity.OverallStatusAbnormal, Remark: "น้ำมันรั่ว"}

	insp, err := svc.CreateInspection(context.Background(), &CreateInspectionRequest{
		GeneratorID: "gen-001",
		Month:       3,
		Year:        2026,
		Items:       items,
	})
	if err != nil {
		t.Fatalf("CreateInspection: %v", err)
	}
	if insp.OverallStatus != entity.OverallStatusAbnormal {
		t.Errorf("overall status = %q, want abnormal", insp.OverallStatus)
	}
	if insp.MachineStatus != entity.MachineStatusRepair {
		t.Errorf("machine status = %q, want repair", insp.MachineStatus)
	}

	// Generator stays in the active fleet.
	gen, err := repos.Generator.FindByID(context.Background(), "gen-001")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !gen.IsActive {
		t.Error("generator retired on repair status")
	}
}

func TestCreateInspectionDisposalRetiresGenerator(t *testing.T) {
	db, repos, svc := setupInspectionTest(t)
	seedFleet(t, db)
	ctx := context.Background()

	items := map[string]ItemValue{
		"ENG-01":  {Status: entity.OverallStatusNormal},
		"ELEC-01": {Status: entity.OverallStatusNormal},
		"DIS-01":  {Status: entity.OverallStatusAbnormal, Remark: "ผุกร่อนทั้งโครง"},
		"DIS-02":  {Status: entity.OverallStatusAbnormal, Remark: "ซ่อมไม่ได้"},
	}

	insp, err := svc.CreateInspection(ctx, &CreateInspectionRequest{
		GeneratorID: "gen-001",
		Month:       5,
		Year:        2026,
		Items:       items,
	})
	if err != nil {
		t.Fatalf("CreateInspection: %v", err)
	}
	if insp.MachineStatus != entity.MachineStatusPendingDisposal {
		t.Fatalf("machine status = %q, want pending_disposal", insp.MachineStatus)
	}

	gen, err := repos.Generator.FindByID(ctx, "gen-001")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if gen.IsActive {
		t.Error("generator still active after disposal verdict")
	}
}

func TestUpdateInspectionReplacesDetails(t *testing.T) {
	db, _, svc := setupInspectionTest(t)
	seedFleet(t, db)
	ctx := context.Background()

	insp, err := svc.CreateInspection(ctx, &CreateInspectionRequest{
		GeneratorID: "gen-001",
		Month:       3,
		Year:        2026,
		Items:       allNormalItems(),
	})
	if err != nil {
		t.Fatalf("CreateInspection: %v", err)
	}

	items := allNormalItems()
	items["ELEC-01"] = ItemValue{Status: entity.OverallStatusAbnormal, Remark: "แบตเตอรี่เสื่อม"}

	updated, err := svc.UpdateInspection(ctx, insp.ID, &UpdateInspectionRequest{Items: items})
	if err != nil {
		t.Fatalf("UpdateInspection: %v", err)
	}
	if updated.MachineStatus != entity.MachineStatusRepair {
		t.Errorf("machine status = %q, want repair", updated.MachineStatus)
	}

	got, err := svc.GetInspection(ctx, insp.ID)
	if err != nil {
		t.Fatalf("GetInspection: %v", err)
	}
	if len(got.Details) != 4 {
		t.Errorf("details = %d, want 4 after update", len(got.Details))
	}
	if got.Month != 3 || got.Year != 2026 {
		t.Errorf("period changed on update: %d/%d", got.Month, got.Year)
	}
}

func TestGetInspectionFormPrefill(t *testing.T) {
	db, _, svc := setupInspectionTest(t)
	seedFleet(t, db)
	ctx := context.Background()

	if _, err := svc.CreateInspection(ctx, &CreateInspectionRequest{
		GeneratorID: "gen-001",
		Month:       2,
		Year:        2026,
		Items:       allNormalItems(),
	}); err != nil {
		t.Fatalf("CreateInspection: %v", err)
	}

	form, err := svc.GetInspectionForm(ctx, "gen-001", 3, 2026)
	if err != nil {
		t.Fatalf("GetInspectionForm: %v", err)
	}
	if form.Existing != nil {
		t.Error("unexpected existing record for March")
	}
	if form.PreviousMonth == nil {
		t.Fatal("February record not offered for pre-fill")
	}
	if len(form.Categories) == 0 {
		t.Error("no grouped categories")
	}
}

func TestCreateInspectionUnknownGenerator(t *testing.T) {
	_, _, svc := setupInspectionTest(t)

	_, err := svc.CreateInspection(context.Background(), &CreateInspectionRequest{
		GeneratorID: "missing",
		Month:       1,
		Year:        2026,
		Items:       allNormalItems(),
	})
	if !errors.Is(err, ErrGeneratorNotFound) {
		t.Fatalf("err = %v, want ErrGeneratorNotFound", err)
	}
}
