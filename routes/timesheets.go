package routes

import (
	"fmt"
	"os"
	"time"

	"brainhr-server/models"
	"brainhr-server/services"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
)

// EmployeeListTimesheets returns the caller's own timesheets, most recent
// period first.
func EmployeeListTimesheets(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		utils.JSONError(ctx, iris.StatusUnauthorized, "unauthorized", "login required")
		return
	}

	var timesheets []models.Timesheet
	err := storage.DB.Where("employee_id = ?", caller.ID).
		Order("year DESC, month DESC, week DESC").Find(&timesheets).Error
	if err != nil {
		utils.LogStoreError(ctx, "list timesheets", err)
		return
	}
	ctx.JSON(timesheets)
}

func UploadTimesheet(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		utils.JSONError(ctx, iris.StatusUnauthorized, "unauthorized", "login required")
		return
	}

	file, header, err := ctx.FormFile("file")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "File is required")
		return
	}
	defer file.Close()

	year, yearErr := ctx.PostValueInt("year")
	month, monthErr := ctx.PostValueInt("month")
	week, weekErr := ctx.PostValueInt("week")
	if yearErr != nil || monthErr != nil || weekErr != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request",
			"Missing required fields: year, month, week")
		return
	}

	prefix := fmt.Sprintf("timesheet_%d_%d_%d", year, month, week)
	stored, err := storage.SaveUpload(file, prefix, header.Filename)
	if err != nil {
		if err == storage.ErrFileTooLarge {
			utils.JSONError(ctx, iris.StatusRequestEntityTooLarge, "too_large", "File exceeds the size limit")
			return
		}
		utils.LogStoreError(ctx, "save timesheet", err)
		return
	}
	path, _ := storage.UploadPath(stored)

	timesheet := models.Timesheet{
		EmployeeID: caller.ID,
		Year:       year,
		Month:      month,
		Week:       week,
		Filename:   stored,
		FilePath:   path,
		Status:     "draft",
	}
	if err := storage.DB.Create(&timesheet).Error; err != nil {
		utils.LogStoreError(ctx, "create timesheet", err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "timesheet_id": timesheet.ID})
}

// SubmitTimesheet flips a draft to submitted and drops a notification for
// the employee. Submitting twice just refreshes the timestamp.
func SubmitTimesheet(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		utils.JSONError(ctx, iris.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid timesheet id")
		return
	}

	now := time.Now()
	res := storage.DB.Model(&models.Timesheet{}).
		Where("id = ? AND employee_id = ?", id, caller.ID).
		Updates(map[string]any{"status": "submitted", "submitted_at": now})
	if res.Error != nil {
		utils.LogStoreError(ctx, "submit timesheet", res.Error)
		return
	}

	var ts models.Timesheet
	if res.RowsAffected > 0 && storage.DB.First(&ts, id).Error == nil {
		notification := models.Notification{
			EmployeeID: caller.ID,
			Type:       "timesheet",
			Title:      fmt.Sprintf("Timesheet submitted for Week %d, Month %d, Year %d", ts.Week, ts.Month, ts.Year),
			Description: fmt.Sprintf("Your timesheet for week %d of month %d in year %d has been submitted.",
				ts.Week, ts.Month, ts.Year),
			RelatedID: &ts.ID,
		}
		if nerr := storage.DB.Create(&notification).Error; nerr != nil {
			utils.LogStoreError(ctx, "create timesheet notification", nerr)
			return
		}
		publishEvent(services.EventTimesheetSubmitted, ts)
	}

	ctx.JSON(iris.Map{"success": true})
}

// timesheetWithEmployee joins in the owner's name for the admin listing.
type timesheetWithEmployee struct {
	models.Timesheet
	EmployeeName string `json:"employee_name"`
	Username     string `json:"username"`
}

func AdminListTimesheets(ctx iris.Context) {
	query := storage.DB.Model(&models.Timesheet{}).
		Select("timesheets.*, employees.employee_name, employees.username").
		Joins("JOIN employees ON employees.id = timesheets.employee_id")
	if employeeID := ctx.URLParam("employee_id"); employeeID != "" {
		query = query.Where("timesheets.employee_id = ?", employeeID)
	}

	var timesheets []timesheetWithEmployee
	err := query.Order("timesheets.year DESC, timesheets.month DESC, timesheets.week DESC").
		Scan(&timesheets).Error
	if err != nil {
		utils.LogStoreError(ctx, "list admin timesheets", err)
		return
	}
	if timesheets == nil {
		timesheets = []timesheetWithEmployee{}
	}
	ctx.JSON(timesheets)
}

func DownloadTimesheet(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid timesheet id")
		return
	}

	var ts models.Timesheet
	if err := storage.DB.First(&ts, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Timesheet not found")
		return
	}
	if _, statErr := os.Stat(ts.FilePath); statErr != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Timesheet not found")
		return
	}
	ctx.SendFile(ts.FilePath, ts.Filename)
}
