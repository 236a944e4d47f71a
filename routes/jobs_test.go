package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"brainhr-server/models"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func buildJobsApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	openTestDB(t)

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	app.Get("/api/jobs", ListJobs)
	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	admin.Get("/stats", AdminStats)
	admin.Post("/jobs", CreateJob)
	admin.Post("/jobs/delete", DeactivateJobsBulk)

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func TestPublicJobsActiveOnly(t *testing.T) {
	app := buildJobsApp(t)
	storage.DB.Create(&models.Job{Title: "Go Developer", Location: "Remote", Description: "x", Active: true})
	storage.DB.Create(&models.Job{Title: "Old Role", Location: "NYC", Description: "x", Active: false})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var jobs []models.Job
	if err := json.Unmarshal(resp.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "Go Developer" {
		t.Errorf("public board = %+v, want only the active posting", jobs)
	}
}

func TestCreateJobAndBulkDeactivate(t *testing.T) {
	app := buildJobsApp(t)
	token := signTestToken(t, 1, models.RoleAdmin)

	body := `{"title":"Data Engineer","location":"Austin","description":"pipelines"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", resp.Code, resp.Body.String())
	}

	var created struct {
		JobID uint `json:"job_id"`
	}
	json.Unmarshal(resp.Body.Bytes(), &created)

	req2 := httptest.NewRequest(http.MethodPost, "/api/admin/jobs/delete",
		strings.NewReader(fmt.Sprintf(`{"job_ids":[%d]}`, created.JobID)))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("Authorization", "Bearer "+token)
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("bulk deactivate status = %d body=%s", resp2.Code, resp2.Body.String())
	}

	var job models.Job
	storage.DB.First(&job, created.JobID)
	if job.Active {
		t.Error("job still active after bulk deactivate")
	}
}

func TestAdminStats(t *testing.T) {
	app := buildJobsApp(t)
	storage.DB.Create(&models.Job{Title: "A", Location: "x", Description: "x", Active: true})
	storage.DB.Create(&models.Job{Title: "B", Location: "x", Description: "x", Active: false})
	storage.DB.Create(&models.Application{Name: "c1", Email: "c1@x.com", JobID: 1, Viewed: true})
	storage.DB.Create(&models.Application{Name: "c2", Email: "c2@x.com", JobID: 1})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, models.RoleAdmin))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}

	var stats struct {
		TotalApplications    int64 `json:"total_applications"`
		UnviewedApplications int64 `json:"unviewed_applications"`
		ActiveJobs           int64 `json:"active_jobs"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalApplications != 2 || stats.UnviewedApplications != 1 || stats.ActiveJobs != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
