package routes

import (
	"crypto/subtle"
	"log"
	"os"

	"brainhr-server/models"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

// The portal has exactly one admin identity. Credentials come from the
// environment; the id is fixed.
const adminID uint = 1

func adminUsername() string {
	if u := os.Getenv("ADMIN_USERNAME"); u != "" {
		return u
	}
	return "BHRadmin"
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type EmployeeLoginInput struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AdminLogin checks the fixed admin credentials and issues a token pair.
func AdminLogin(ctx iris.Context) {
	var input LoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	expected := os.Getenv("ADMIN_PASSWORD")
	if expected == "" {
		log.Println("ADMIN_PASSWORD not set, admin login disabled")
		utils.JSONError(ctx, iris.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(adminUsername())) == 1
	passOK := subtle.ConstantTimeCompare([]byte(input.Password), []byte(expected)) == 1
	if !userOK || !passOK {
		log.Println("Invalid admin login attempt.")
		utils.JSONError(ctx, iris.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	tokenPair, err := utils.CreateTokenPair(adminID, models.RoleAdmin)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	log.Println("Admin login successful.")
	ctx.JSON(iris.Map{
		"ok":           true,
		"admin":        iris.Map{"id": adminID, "username": input.Username},
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

// ManagerLogin authenticates a manager by username and password.
func ManagerLogin(ctx iris.Context) {
	var input LoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var manager models.Manager
	if err := storage.DB.Where("username = ?", input.Username).First(&manager).Error; err != nil {
		log.Printf("Invalid manager login attempt: %s", input.Username)
		utils.JSONError(ctx, iris.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(manager.PasswordHash), []byte(input.Password)) != nil {
		log.Printf("Invalid manager login attempt: %s", input.Username)
		utils.JSONError(ctx, iris.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	tokenPair, err := utils.CreateTokenPair(manager.ID, models.RoleManager)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	log.Printf("Manager login successful: %s", input.Username)
	ctx.JSON(iris.Map{
		"ok":           true,
		"manager":      iris.Map{"id": manager.ID, "username": manager.Username},
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

// EmployeeLogin authenticates an employee by badge id plus username.
func EmployeeLogin(ctx iris.Context) {
	var input EmployeeLoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var employee models.Employee
	err := storage.DB.Where("employee_id_field = ? AND username = ?", input.EmployeeID, input.Username).
		First(&employee).Error
	if err != nil {
		log.Printf("Invalid employee login attempt: %s / %s", input.EmployeeID, input.Username)
		utils.JSONError(ctx, iris.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(input.Password)) != nil {
		log.Printf("Invalid employee login attempt: %s / %s", input.EmployeeID, input.Username)
		utils.JSONError(ctx, iris.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	tokenPair, err := utils.CreateTokenPair(employee.ID, models.RoleEmployee)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	log.Printf("Employee login successful: %s / %s", input.EmployeeID, input.Username)
	ctx.JSON(iris.Map{
		"ok":           true,
		"employee":     iris.Map{"id": employee.ID, "username": employee.Username},
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

type LogoutInput struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the presented refresh token. Access tokens simply expire.
func Logout(ctx iris.Context) {
	var input LogoutInput
	if err := ctx.ReadJSON(&input); err == nil && input.RefreshToken != "" {
		utils.RevokeRefreshToken(input.RefreshToken)
	}
	ctx.JSON(iris.Map{"success": true})
}

// AuthCheck reports whether the request carries a valid identity, and
// which one. Mounted with optional auth so it never 401s.
func AuthCheck(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		ctx.JSON(iris.Map{"logged_in": false})
		return
	}
	ctx.JSON(iris.Map{"logged_in": true, "role": caller.Role, "id": caller.ID})
}

// Me returns the caller's directory entry.
func Me(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		utils.JSONError(ctx, iris.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	name, found := identityDirectory().Lookup(caller.Role, caller.ID)
	if !found {
		utils.CreateNotFound(ctx)
		return
	}

	switch caller.Role {
	case models.RoleAdmin:
		ctx.JSON(iris.Map{"id": caller.ID, "username": adminUsername(), "name": name})
	case models.RoleManager:
		var manager models.Manager
		storage.DB.Select("id, username").First(&manager, caller.ID)
		ctx.JSON(iris.Map{"id": caller.ID, "username": manager.Username, "name": name})
	default:
		var employee models.Employee
		storage.DB.Select("id, username").First(&employee, caller.ID)
		ctx.JSON(iris.Map{"id": caller.ID, "username": employee.Username, "name": name})
	}
}
