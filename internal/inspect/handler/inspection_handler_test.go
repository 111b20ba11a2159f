package handler

import (
	"net/http"
	"testing"

	"github.com/gridwatch/geninspect/internal/inspect/repository"
	"github.com/gridwatch/geninspect/internal/inspect/service"
	"github.com/gridwatch/geninspect/internal/inspect/testutil"
	"github.com/gridwatch/geninspect/internal/middleware"
)

func setupInspectionHandlerTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	svc := service.NewInspectionService(repos.Inspection, repos.Generator, repos.Template)
	h := NewInspectionHandler(svc)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/inspections", h.List)
	api.GET("/inspections/:id", h.Get)
	api.GET("/generators/:id/inspection-form", h.Form)

	writes := api.Group("", middleware.RequireWriter())
	writes.POST("/inspections", h.Create)
	writes.PUT("/inspections/:id", h.Update)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func seedInspectionFixtures(t *testing.T, env *testutil.TestEnv) {
	t.Helper()
	testutil.SeedDepartment(t, env.DB, "dept-001", "กฟภ. เขต 1")
	tpl := testutil.SeedTemplate(t, env.DB, "tpl-001", "แบบตรวจมาตรฐาน")
	testutil.SeedGenerator(t, env.DB, "gen-001", "PEA-GEN-001", "dept-001", &tpl.ID)
}

func inspectionBody(month int) map[string]interface{} {
	return map[string]interface{}{
		"generator_id": "gen-001",
		"month":        month,
		"year":         2026,
		"items": map[string]interface{}{
			"ENG-01":  map[string]interface{}{"status": "normal"},
			"ELEC-01": map[string]interface{}{"status": "normal"},
			"DIS-01":  map[string]interface{}{"status": "normal"},
			"DIS-02":  map[string]interface{}{"status": "normal"},
		},
	}
}

func TestInspectionCreateAndGet(t *testing.T) {
	env := setupInspectionHandlerTest(t)
	seedInspectionFixtures(t, env)
	token := testutil.InspectorToken("dept-001")

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inspections", inspectionBody(3), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["machine_status"] != "operational" {
		t.Errorf("machine_status = %v, want operational", data["machine_status"])
	}
	// inspector_name falls back to the token's display name
	if data["inspector_name"] != "Test Inspector" {
		t.Errorf("inspector_name = %v, want Test Inspector", data["inspector_name"])
	}
	id := data["id"].(string)

	w2 := testutil.DoRequest(env.Router, "GET", "/api/v1/inspections/"+id, nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestInspectionDuplicatePeriodConflict(t *testing.T) {
	env := setupInspectionHandlerTest(t)
	seedInspectionFixtures(t, env)
	token := testutil.InspectorToken("dept-001")

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inspections", inspectionBody(3), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(env.Router, "POST", "/api/v1/inspections", inspectionBody(3), token)
	if w2.Code != http.StatusConflict {
		t.Fatalf("second create: expected 409, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestInspectionAbnormalWithoutRemarkRejected(t *testing.T) {
	env := setupInspectionHandlerTest(t)
	seedInspectionFixtures(t, env)
	token := testutil.InspectorToken("dept-001")

	body := inspectionBody(3)
	body["items"].(map[string]interface{})["ENG-01"] = map[string]interface{}{"status": "abnormal"}

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inspections", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInspectionWriteRequiresWriterRole(t *testing.T) {
	env := setupInspectionHandlerTest(t)
	seedInspectionFixtures(t, env)
	viewer := testutil.GenerateTestToken("test-user-003", "viewer", "Test Viewer", "viewer", "")

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inspections", inspectionBody(3), viewer)
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for viewer, got %d: %s", w.Code, w.Body.String())
	}

	// Reads stay open to viewers.
	w2 := testutil.DoRequest(env.Router, "GET", "/api/v1/inspections", nil, viewer)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200 for viewer read, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestInspectionRequiresAuth(t *testing.T) {
	env := setupInspectionHandlerTest(t)

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/inspections", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInspectionFormEndpoint(t *testing.T) {
	env := setupInspectionHandlerTest(t)
	seedInspectionFixtures(t, env)
	token := testutil.InspectorToken("dept-001")

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/generators/gen-001/inspection-form?month=3&year=2026", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["generator"] == nil {
		t.Error("form payload missing generator")
	}
	if data["categories"] == nil {
		t.Error("form payload missing categories")
	}
}
