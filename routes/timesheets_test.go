package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"brainhr-server/models"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func buildTimesheetApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	openTestDB(t)

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	employee := app.Party("/api/employee", accessTokenVerifierMiddleware, utils.EmployeeOnlyMiddleware)
	employee.Post("/timesheets/{id:uint}/submit", SubmitTimesheet)

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func TestSubmitTimesheetCreatesNotification(t *testing.T) {
	app := buildTimesheetApp(t)

	ts := models.Timesheet{EmployeeID: 3, Year: 2026, Month: 8, Week: 2,
		Filename: "ts.pdf", FilePath: "uploads/ts.pdf", Status: "draft"}
	storage.DB.Create(&ts)

	url := fmt.Sprintf("/api/employee/timesheets/%d/submit", ts.ID)
	req := httptest.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 3, models.RoleEmployee))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", resp.Code, resp.Body.String())
	}

	var updated models.Timesheet
	storage.DB.First(&updated, ts.ID)
	if updated.Status != "submitted" || updated.SubmittedAt == nil {
		t.Errorf("timesheet not submitted: %+v", updated)
	}

	var notif models.Notification
	if err := storage.DB.Where("employee_id = ? AND type = ?", 3, "timesheet").First(&notif).Error; err != nil {
		t.Fatalf("notification not created: %v", err)
	}
	if notif.RelatedID == nil || *notif.RelatedID != ts.ID {
		t.Errorf("notification related_id = %v, want %d", notif.RelatedID, ts.ID)
	}
}

func TestSubmitTimesheetScopedToOwner(t *testing.T) {
	app := buildTimesheetApp(t)

	ts := models.Timesheet{EmployeeID: 3, Year: 2026, Month: 8, Week: 2,
		Filename: "ts.pdf", FilePath: "uploads/ts.pdf", Status: "draft"}
	storage.DB.Create(&ts)

	// A different employee's token must not flip it.
	url := fmt.Sprintf("/api/employee/timesheets/%d/submit", ts.ID)
	req := httptest.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 4, models.RoleEmployee))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	var after models.Timesheet
	storage.DB.First(&after, ts.ID)
	if after.Status != "draft" {
		t.Errorf("timesheet submitted by non-owner: %+v", after)
	}
}
