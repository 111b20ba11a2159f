package handler

import (
	"net/http"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gridwatch/geninspect/internal/inspect/repository"
	"github.com/gridwatch/geninspect/internal/inspect/service"
	"github.com/gridwatch/geninspect/internal/inspect/testutil"
)

func setupAuthTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	svc := service.NewAuthService(repos.User, testutil.JWTSecret, time.Hour)
	h := NewAuthHandler(svc)

	router.POST("/api/v1/auth/login", h.Login)
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/auth/me", h.Me)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestLoginAndMe(t *testing.T) {
	env := setupAuthTest(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("opensesame1"), bcrypt.DefaultCost)
	testutil.SeedUser(t, env.DB, "user-001", "somchai", string(hash), "inspector")

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"username": "somchai",
		"password": "opensesame1",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	user := data["user"].(map[string]interface{})
	if _, leaked := user["password_hash"]; leaked {
		t.Error("password hash leaked in login response")
	}

	w2 := testutil.DoRequest(env.Router, "GET", "/api/v1/auth/me", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	me := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if me["username"] != "somchai" {
		t.Errorf("me username = %v, want somchai", me["username"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupAuthTest(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("opensesame1"), bcrypt.DefaultCost)
	testutil.SeedUser(t, env.DB, "user-001", "somchai", string(hash), "inspector")

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"username": "somchai",
		"password": "wrong",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginUnknownUser(t *testing.T) {
	env := setupAuthTest(t)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"username": "nobody",
		"password": "whatever",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginDisabledUser(t *testing.T) {
	env := setupAuthTest(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("opensesame1"), bcrypt.DefaultCost)
	user := testutil.SeedUser(t, env.DB, "user-001", "somchai", string(hash), "inspector")
	env.DB.Model(user).Update("is_active", false)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"username": "somchai",
		"password": "opensesame1",
	}, "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d: %s", w.Code, w.Body.String())
	}
}
