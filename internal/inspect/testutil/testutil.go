package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"github.com/gridwatch/geninspect/internal/middleware"
)

const (
	TestSchema = "test_geninspect"
	JWTSecret  = "geninspect-test-jwt-secret"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

// SetupTestDB creates a test database connection using a dedicated test schema.
// Each test gets an isolated schema that is cleaned up after the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "geninspect")
	password := getEnv("DB_PASSWORD", "geninspect123")
	dbname := getEnv("DB_NAME", "geninspect")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// search_path in the DSN so all pooled connections use the test schema.
	// TranslateError matches production: unique violations surface as
	// gorm.ErrDuplicatedKey.
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.Department{},
		&entity.User{},
		&entity.FormTemplate{},
		&entity.FormTemplateItem{},
		&entity.Generator{},
		&entity.Inspection{},
		&entity.InspectionDetail{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, username, displayName, role, departmentID string) string {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:       userID,
		Username:     username,
		DisplayName:  displayName,
		Role:         role,
		DepartmentID: departmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user
func DefaultTestToken() string {
	return GenerateTestToken("test-user-001", "admin", "Test Admin", "admin", "")
}

// InspectorToken returns a token for an inspector scoped to a department
func InspectorToken(departmentID string) string {
	return GenerateTestToken("test-user-002", "inspector", "Test Inspector", "inspector", departmentID)
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a generic map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedDepartment creates a department row
func SeedDepartment(t *testing.T, db *gorm.DB, id, name string) *entity.Department {
	t.Helper()
	dept := &entity.Department{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(dept).Error; err != nil {
		t.Fatalf("Failed to seed department: %v", err)
	}
	return dept
}

// SeedTemplate creates a checklist template with a standard item mix:
// two ordinary items (ENG-01, ELEC-01) and two disposal-criteria items
// (DIS-01, DIS-02).
func SeedTemplate(t *testing.T, db *gorm.DB, id, name string) *entity.FormTemplate {
	t.Helper()
	tpl := &entity.FormTemplate{
		ID:        id,
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(tpl).Error; err != nil {
		t.Fatalf("Failed to seed template: %v", err)
	}

	items := []entity.FormTemplateItem{
		{ID: id + "-i1", FormTemplateID: id, ItemCode: "ENG-01", Category: "เครื่องยนต์", Description: "ระดับน้ำมันเครื่อง", SortOrder: 1, IsActive: true},
		{ID: id + "-i2", FormTemplateID: id, ItemCode: "ELEC-01", Category: "ระบบไฟฟ้า", Description: "แรงดันแบตเตอรี่", SortOrder: 2, IsActive: true},
		{ID: id + "-i3", FormTemplateID: id, ItemCode: "DIS-01", Category: "เกณฑ์จำหน่าย", Description: "โครงสร้างผุกร่อน", IsDisposalCriteria: true, SortOrder: 3, IsActive: true},
		{ID: id + "-i4", FormTemplateID: id, ItemCode: "DIS-02", Category: "เกณฑ์จำหน่าย", Description: "เครื่องยนต์เสียหายถาวร", IsDisposalCriteria: true, SortOrder: 4, IsActive: true},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("Failed to seed template item: %v", err)
		}
	}
	tpl.Items = items
	return tpl
}

// SeedGenerator creates an active generator assigned to a department and template
func SeedGenerator(t *testing.T, db *gorm.DB, id, assetID, departmentID string, templateID *string) *entity.Generator {
	t.Helper()
	gen := &entity.Generator{
		ID:             id,
		AssetID:        assetID,
		Type:           "diesel",
		SizeKW:         200,
		Location:       "อาคารสำนักงาน",
		DepartmentID:   departmentID,
		FormTemplateID: templateID,
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := db.Create(gen).Error; err != nil {
		t.Fatalf("Failed to seed generator: %v", err)
	}
	return gen
}

// SeedUser creates an application account with the given bcrypt hash
func SeedUser(t *testing.T, db *gorm.DB, id, username, passwordHash, role string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		DisplayName:  "User " + username,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
