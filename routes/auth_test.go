package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"brainhr-server/models"
	"brainhr-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func buildAuthApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	openTestDB(t)

	app := iris.New()
	app.Validator = validator.New()

	app.Post("/api/admin/login", AdminLogin)
	app.Get("/api/admin/check", utils.OptionalTokenMiddleware, AuthCheck)

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	os.Setenv("ADMIN_PASSWORD", "correct-horse")
	app := buildAuthApp(t)

	body := `{"username":"BHRadmin","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
}

func TestAdminLoginDisabledWithoutPassword(t *testing.T) {
	os.Unsetenv("ADMIN_PASSWORD")
	app := buildAuthApp(t)

	body := `{"username":"BHRadmin","password":"anything"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 when no password is configured", resp.Code)
	}
}

func TestAuthCheck(t *testing.T) {
	app := buildAuthApp(t)

	// Anonymous.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/check", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var out struct {
		LoggedIn bool   `json:"logged_in"`
		Role     string `json:"role"`
	}
	json.Unmarshal(resp.Body.Bytes(), &out)
	if out.LoggedIn {
		t.Error("anonymous check must report logged_in false")
	}

	// With a valid token.
	req2 := httptest.NewRequest(http.MethodGet, "/api/admin/check", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, models.RoleAdmin))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	json.Unmarshal(resp2.Body.Bytes(), &out)
	if !out.LoggedIn || out.Role != models.RoleAdmin {
		t.Errorf("check = %+v, want admin identity", out)
	}
}
