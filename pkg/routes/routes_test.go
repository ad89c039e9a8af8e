package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TapaalTracker/internal/auth"
	"TapaalTracker/internal/chatbot"
	"TapaalTracker/internal/config"
	"TapaalTracker/internal/dashboard"
	"TapaalTracker/internal/department"
	"TapaalTracker/internal/mail"
	"TapaalTracker/internal/notification"
	"TapaalTracker/internal/storage"
	"TapaalTracker/pkg/middleware"
	"TapaalTracker/pkg/validate"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/api/health", Health)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["success"] != true || body["message"] != "Tapaal Server is running" || body["timestamp"] == nil {
		t.Errorf("body = %v", body)
	}
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

func TestInvalidateOnWrite(t *testing.T) {
	tests := []struct {
		name   string
		method string
		status int
		want   int
	}{
		{"read", http.MethodGet, http.StatusOK, 0},
		{"create", http.MethodPost, http.StatusCreated, 1},
		{"update", http.MethodPut, http.StatusOK, 1},
		{"rejected write", http.MethodPut, http.StatusUnprocessableEntity, 0},
		{"delete", http.MethodDelete, http.StatusOK, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &countingInvalidator{}
			e := echo.New()
			e.Any("/api/inward-mails", func(c echo.Context) error {
				return c.NoContent(tt.status)
			}, InvalidateOnWrite(inv))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/inward-mails", nil))
			if inv.calls != tt.want {
				t.Errorf("invalidations = %d, want %d", inv.calls, tt.want)
			}
		})
	}
}

type userTable map[primitive.ObjectID]*auth.User

func (u userTable) FindByID(_ context.Context, id primitive.ObjectID) (*auth.User, error) {
	return u[id], nil
}

type departmentTable struct {
	items []department.Department
}

func (d *departmentTable) Create(_ context.Context, dep *department.Department) error {
	d.items = append(d.items, *dep)
	return nil
}

func (d *departmentTable) FindByID(context.Context, primitive.ObjectID) (*department.Department, error) {
	return nil, nil
}

func (d *departmentTable) FindByName(context.Context, string) (*department.Department, error) {
	return nil, nil
}

func (d *departmentTable) List(context.Context) ([]department.Department, error) {
	return d.items, nil
}

func (d *departmentTable) Update(context.Context, primitive.ObjectID, bson.M) (*department.Department, error) {
	return nil, nil
}

func (d *departmentTable) Delete(context.Context, primitive.ObjectID) (bool, error) {
	return false, nil
}

var routesAuthConfig = &config.AuthConfig{
	JWTKey:     []byte("routes-test-key"),
	TokenTTL:   time.Hour,
	PolicyPath: "../../rbac_policy.csv",
}

func newTestRouter(t *testing.T, users userTable, stats invalidator) *echo.Echo {
	t.Helper()
	logger := zap.NewNop()
	cfg := &config.ServerConfig{UploadDir: t.TempDir(), ChatRateLimit: 100}
	files, err := storage.NewLocalStorage(cfg, logger)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	enf, err := middleware.NewEnforcer(routesAuthConfig, logger)
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	chat := chatbot.NewChatService(chatbot.DefaultClassifier(), chatbot.NewAggregator(nil, nil, nil, logger), nil, logger)
	h := Handlers{
		Auth:        auth.NewAuthHandler(nil, logger),
		Departments: department.NewDepartmentHandler(department.NewDepartmentService(&departmentTable{}, logger), logger),
		Mails:       mail.NewMailHandler(nil, nil, logger),
		Dashboard:   dashboard.NewDashboardHandler(nil),
		Reminders:   notification.NewNotificationHandler(nil, logger),
		Chat:        chatbot.NewChatHandler(chat),
	}

	e := echo.New()
	e.Validator = validate.New()
	registerRoutes(e, h, cfg, routesAuthConfig, files, enf, users, stats, logger)
	return e
}

func bearer(t *testing.T, u *auth.User) string {
	t.Helper()
	token, err := auth.GenerateJWT(routesAuthConfig.JWTKey, u, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return "Bearer " + token
}

func TestChatRoutesArePublic(t *testing.T) {
	e := newTestRouter(t, userTable{}, &countingInvalidator{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
		want   string
	}{
		{"chatbot empty body", http.MethodPost, "/api/chatbot", `{}`, http.StatusBadRequest, `"error":"Message required"`},
		{"chat alias greeting", http.MethodPost, "/api/chat", `{"message":"hello"}`, http.StatusOK, `"reply":`},
		{"dashboard still protected", http.MethodGet, "/api/dashboard/stats", ``, http.StatusUnauthorized, "Missing Token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.code || !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("%s %s = %d %s; want %d containing %s", tt.method, tt.path, rec.Code, rec.Body, tt.code, tt.want)
			}
		})
	}
}

func TestDepartmentWritesInvalidateDashboard(t *testing.T) {
	admin := &auth.User{ID: primitive.NewObjectID(), Role: auth.RoleAdmin, Active: true}
	retired := &auth.User{ID: primitive.NewObjectID(), Role: auth.RoleAdmin, Active: false}
	inv := &countingInvalidator{}
	e := newTestRouter(t, userTable{admin.ID: admin, retired.ID: retired}, inv)

	do := func(u *auth.User, method, path, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, bearer(t, u))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(admin, http.MethodPost, "/api/departments", `{"name":"Accounts"}`); code != http.StatusCreated {
		t.Fatalf("create department = %d", code)
	}
	if inv.calls != 1 {
		t.Errorf("invalidations after department create = %d, want 1", inv.calls)
	}
	if code := do(admin, http.MethodGet, "/api/departments", ""); code != http.StatusOK {
		t.Fatalf("list departments = %d", code)
	}
	if inv.calls != 1 {
		t.Errorf("a read invalidated the dashboard")
	}
	if code := do(retired, http.MethodPost, "/api/departments", `{"name":"Legal"}`); code != http.StatusUnauthorized {
		t.Errorf("deactivated admin write = %d, want 401", code)
	}
	if inv.calls != 1 {
		t.Errorf("rejected write invalidated the dashboard")
	}
}
