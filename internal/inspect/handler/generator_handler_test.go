package handler

import (
	"net/http"
	"testing"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"github.com/gridwatch/geninspect/internal/inspect/repository"
	"github.com/gridwatch/geninspect/internal/inspect/service"
	"github.com/gridwatch/geninspect/internal/inspect/testutil"
	"github.com/gridwatch/geninspect/internal/middleware"
)

func setupGeneratorHandlerTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	svc := service.NewGeneratorService(repos.Generator, repos.Department, repos.Template)
	h := NewGeneratorHandler(svc)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/generators", h.List)
	api.GET("/generators/:id", h.Get)

	admin := api.Group("", middleware.RequireRole(entity.RoleAdmin))
	admin.POST("/generators", h.Create)
	admin.PUT("/generators/:id", h.Update)
	admin.DELETE("/generators/:id", h.Retire)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestGeneratorUpdateTemplateAssignment(t *testing.T) {
	env := setupGeneratorHandlerTest(t)
	testutil.SeedDepartment(t, env.DB, "dept-001", "กฟภ. เขต 1")
	tpl := testutil.SeedTemplate(t, env.DB, "tpl-001", "แบบตรวจมาตรฐาน")
	testutil.SeedGenerator(t, env.DB, "gen-001", "PEA-GEN-001", "dept-001", &tpl.ID)
	token := testutil.DefaultTestToken()

	// A payload without the field leaves the assignment alone.
	w := testutil.DoRequest(env.Router, "PUT", "/api/v1/generators/gen-001",
		map[string]interface{}{"location": "โรงไฟฟ้าสำรอง"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var gen entity.Generator
	if err := env.DB.First(&gen, "id = ?", "gen-001").Error; err != nil {
		t.Fatalf("Failed to reload generator: %v", err)
	}
	if gen.FormTemplateID == nil || *gen.FormTemplateID != "tpl-001" {
		t.Fatalf("form_template_id = %v, want tpl-001", gen.FormTemplateID)
	}

	// An explicit null detaches the template.
	w = testutil.DoRequest(env.Router, "PUT", "/api/v1/generators/gen-001",
		map[string]interface{}{"form_template_id": nil}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := env.DB.First(&gen, "id = ?", "gen-001").Error; err != nil {
		t.Fatalf("Failed to reload generator: %v", err)
	}
	if gen.FormTemplateID != nil {
		t.Errorf("form_template_id = %q, want NULL after explicit null", *gen.FormTemplateID)
	}

	// And a value re-attaches it.
	w = testutil.DoRequest(env.Router, "PUT", "/api/v1/generators/gen-001",
		map[string]interface{}{"form_template_id": "tpl-001"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := env.DB.First(&gen, "id = ?", "gen-001").Error; err != nil {
		t.Fatalf("Failed to reload generator: %v", err)
	}
	if gen.FormTemplateID == nil || *gen.FormTemplateID != "tpl-001" {
		t.Errorf("form_template_id = %v, want tpl-001 after re-assignment", gen.FormTemplateID)
	}
}

func TestGeneratorUpdateUnknownTemplateRejected(t *testing.T) {
	env := setupGeneratorHandlerTest(t)
	testutil.SeedDepartment(t, env.DB, "dept-001", "กฟภ. เขต 1")
	testutil.SeedGenerator(t, env.DB, "gen-001", "PEA-GEN-001", "dept-001", nil)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "PUT", "/api/v1/generators/gen-001",
		map[string]interface{}{"form_template_id": "no-such-tpl"}, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
