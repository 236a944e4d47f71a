package routes

import (
	"crypto/rand"
	"log"
	"math/big"
	"strings"

	"brainhr-server/models"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

// Admin-side management of employee and manager accounts.

type CreateEmployeeInput struct {
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required,min=6"`
	EmployeeName string `json:"employee_name" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	EmployeeID   string `json:"employee_id_field" validate:"required"`
	Role         string `json:"role"`
}

func ListEmployees(ctx iris.Context) {
	var employees []models.Employee
	if err := storage.DB.Order("created_at DESC").Find(&employees).Error; err != nil {
		utils.LogStoreError(ctx, "list employees", err)
		return
	}
	ctx.JSON(employees)
}

func CreateEmployee(ctx iris.Context) {
	var input CreateEmployeeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleEmployee
	}
	employee := models.Employee{
		Username:     input.Username,
		PasswordHash: string(hash),
		EmployeeName: input.EmployeeName,
		Email:        input.Email,
		EmployeeCode: input.EmployeeID,
		Role:         role,
	}
	if err := storage.DB.Create(&employee).Error; err != nil {
		if isDuplicateError(err) {
			field := "Username"
			if strings.Contains(err.Error(), "employee_id_field") {
				field = "Employee ID"
			}
			utils.JSONError(ctx, iris.StatusBadRequest, "duplicate", field+" already exists")
			return
		}
		utils.LogStoreError(ctx, "create employee", err)
		return
	}

	utils.Audit(ctx, "create", "employee", employee.ID, nil, employee)
	log.Printf("Employee created: %s", input.Username)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "employee_id": employee.ID})
}

type UpdateEmployeeInput struct {
	Password     string `json:"password"`
	EmployeeName string `json:"employee_name"`
	Email        string `json:"email"`
	EmployeeID   string `json:"employee_id_field"`
	Role         string `json:"role"`
}

func UpdateEmployee(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid employee id")
		return
	}
	var input UpdateEmployeeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var before models.Employee
	if err := storage.DB.First(&before, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	updates := map[string]any{
		"employee_name":     input.EmployeeName,
		"email":             input.Email,
		"employee_id_field": input.EmployeeID,
	}
	if input.Role != "" {
		updates["role"] = input.Role
	}
	if input.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		updates["password_hash"] = string(hash)
	}

	if err := storage.DB.Model(&models.Employee{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if isDuplicateError(err) {
			utils.JSONError(ctx, iris.StatusBadRequest, "duplicate", "Update failed due to duplicate value")
			return
		}
		utils.LogStoreError(ctx, "update employee", err)
		return
	}

	utils.Audit(ctx, "update", "employee", id, before, updates)
	ctx.JSON(iris.Map{"success": true})
}

func DeleteEmployee(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid employee id")
		return
	}
	if err := storage.DB.Delete(&models.Employee{}, id).Error; err != nil {
		utils.LogStoreError(ctx, "delete employee", err)
		return
	}
	utils.Audit(ctx, "delete", "employee", id, nil, nil)
	log.Printf("Employee deleted: %d", id)
	ctx.JSON(iris.Map{"success": true})
}

func ResetEmployeePassword(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid employee id")
		return
	}
	resetPassword(ctx, &models.Employee{}, "employee", id)
}

type CreateManagerInput struct {
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required,min=6"`
	EmployeeName string `json:"employee_name" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
}

func ListManagers(ctx iris.Context) {
	var managers []models.Manager
	if err := storage.DB.Order("created_at DESC").Find(&managers).Error; err != nil {
		utils.LogStoreError(ctx, "list managers", err)
		return
	}
	ctx.JSON(managers)
}

// ListManagersForEmployee is the recipient picker on the employee portal.
func ListManagersForEmployee(ctx iris.Context) {
	var managers []models.Manager
	err := storage.DB.Select("id, username, employee_name").
		Order("employee_name").Find(&managers).Error
	if err != nil {
		utils.LogStoreError(ctx, "list managers", err)
		return
	}
	ctx.JSON(managers)
}

func CreateManager(ctx iris.Context) {
	var input CreateManagerInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	manager := models.Manager{
		Username:     input.Username,
		PasswordHash: string(hash),
		EmployeeName: input.EmployeeName,
		Email:        input.Email,
	}
	if err := storage.DB.Create(&manager).Error; err != nil {
		if isDuplicateError(err) {
			utils.JSONError(ctx, iris.StatusBadRequest, "duplicate", "Username already exists")
			return
		}
		utils.LogStoreError(ctx, "create manager", err)
		return
	}

	utils.Audit(ctx, "create", "manager", manager.ID, nil, manager)
	log.Printf("Manager created: %s", input.Username)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "manager_id": manager.ID})
}

type UpdateManagerInput struct {
	Password     string `json:"password"`
	EmployeeName string `json:"employee_name"`
	Email        string `json:"email"`
}

func UpdateManager(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid manager id")
		return
	}
	var input UpdateManagerInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var before models.Manager
	if err := storage.DB.First(&before, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	updates := map[string]any{
		"employee_name": input.EmployeeName,
		"email":         input.Email,
	}
	if input.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		updates["password_hash"] = string(hash)
	}

	if err := storage.DB.Model(&models.Manager{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		utils.LogStoreError(ctx, "update manager", err)
		return
	}

	utils.Audit(ctx, "update", "manager", id, before, updates)
	ctx.JSON(iris.Map{"success": true})
}

func DeleteManager(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid manager id")
		return
	}
	if err := storage.DB.Delete(&models.Manager{}, id).Error; err != nil {
		utils.LogStoreError(ctx, "delete manager", err)
		return
	}
	utils.Audit(ctx, "delete", "manager", id, nil, nil)
	log.Printf("Manager deleted: %d", id)
	ctx.JSON(iris.Map{"success": true})
}

func ResetManagerPassword(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid manager id")
		return
	}
	resetPassword(ctx, &models.Manager{}, "manager", id)
}

func resetPassword(ctx iris.Context, model any, resource string, id uint) {
	temp, err := generateTempPassword(12)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	res := storage.DB.Model(model).Where("id = ?", id).Update("password_hash", string(hash))
	if res.Error != nil {
		utils.LogStoreError(ctx, "reset password", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	utils.Audit(ctx, "reset-password", resource, id, nil, nil)
	log.Printf("%s password reset: %d", resource, id)
	ctx.JSON(iris.Map{"temporary_password": temp})
}

const tempPasswordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%"

func generateTempPassword(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordChars))))
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordChars[idx.Int64()]
	}
	return string(out), nil
}

// isDuplicateError matches unique-constraint failures across Postgres and
// SQLite without driver-specific error types.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
