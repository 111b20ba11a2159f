package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gridwatch/geninspect/internal/inspect/service"
)

// Handlers HTTP handler set
type Handlers struct {
	Auth       *AuthHandler
	Inspection *InspectionHandler
	Dashboard  *DashboardHandler
	KPI        *KPIHandler
	Analytics  *AnalyticsHandler
	Generator  *GeneratorHandler
	Department *DepartmentHandler
	Template   *TemplateHandler
	User       *UserHandler
}

func NewHandlers(
	authSvc *service.AuthService,
	inspectionSvc *service.InspectionService,
	dashboardSvc *service.DashboardService,
	kpiSvc *service.KPIService,
	analyticsSvc *service.AnalyticsService,
	reportSvc *service.ReportService,
	generatorSvc *service.GeneratorService,
	departmentSvc *service.DepartmentService,
	templateSvc *service.TemplateService,
	userSvc *service.UserService,
) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(authSvc),
		Inspection: NewInspectionHandler(inspectionSvc),
		Dashboard:  NewDashboardHandler(dashboardSvc),
		KPI:        NewKPIHandler(kpiSvc, reportSvc),
		Analytics:  NewAnalyticsHandler(analyticsSvc),
		Generator:  NewGeneratorHandler(generatorSvc),
		Department: NewDepartmentHandler(departmentSvc),
		Template:   NewTemplateHandler(templateSvc),
		User:       NewUserHandler(userSvc),
	}
}

// Response common response envelope
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// GetUserID reads the authenticated user id set by the JWT middleware.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPeriod reads month/year query params, defaulting to the current month.
func GetPeriod(c *gin.Context) (month, year int, ok bool) {
	now := time.Now()
	month = int(now.Month())
	year = now.Year()

	if m := c.Query("month"); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil || v < 1 || v > 12 {
			BadRequest(c, "เดือนไม่ถูกต้อง")
			return 0, 0, false
		}
		month = v
	}
	if y := c.Query("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil || v < 2000 || v > 3000 {
			BadRequest(c, "ปีไม่ถูกต้อง")
			return 0, 0, false
		}
		year = v
	}
	return month, year, true
}

// writeServiceError maps service sentinels onto the response envelope.
func writeServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		BadRequest(c, strings.Join(verr.Messages, "; "))
		return
	}

	switch {
	case errors.Is(err, service.ErrGeneratorNotFound):
		NotFound(c, "ไม่พบเครื่องกำเนิดไฟฟ้า")
	case errors.Is(err, service.ErrInspectionNotFound):
		NotFound(c, "ไม่พบใบตรวจสอบ")
	case errors.Is(err, service.ErrDepartmentNotFound):
		NotFound(c, "ไม่พบหน่วยงาน")
	case errors.Is(err, service.ErrTemplateNotFound):
		NotFound(c, "ไม่พบแบบฟอร์มตรวจสอบ")
	case errors.Is(err, service.ErrUserNotFound):
		NotFound(c, "ไม่พบผู้ใช้งาน")
	case errors.Is(err, service.ErrNoTemplateAssigned):
		BadRequest(c, "เครื่องนี้ยังไม่ได้กำหนดแบบฟอร์มตรวจสอบ")
	case errors.Is(err, service.ErrDuplicatePeriod):
		Conflict(c, "มีการบันทึกผลตรวจของเดือนนี้แล้ว")
	case errors.Is(err, service.ErrDepartmentInUse):
		Conflict(c, "ไม่สามารถลบหน่วยงานที่ยังมีเครื่องกำเนิดไฟฟ้า")
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, "ชื่อผู้ใช้หรือรหัสผ่านไม่ถูกต้อง")
	case errors.Is(err, service.ErrUserDisabled):
		Forbidden(c, "บัญชีนี้ถูกระงับการใช้งาน")
	default:
		InternalError(c, err.Error())
	}
}
