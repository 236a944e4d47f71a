package routes

import (
	"brainhr-server/models"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
)

func EmployeeListActivities(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		utils.JSONError(ctx, iris.StatusUnauthorized, "unauthorized", "login required")
		return
	}

	var activities []models.Activity
	err := storage.DB.Where("employee_id = ?", caller.ID).
		Order("created_at DESC").Find(&activities).Error
	if err != nil {
		utils.LogStoreError(ctx, "list activities", err)
		return
	}
	ctx.JSON(activities)
}

type CreateActivityInput struct {
	ActivityName        string `json:"activity_name" validate:"required"`
	ActivityDescription string `json:"activity_description"`
}

// CreateActivity records the entry and mirrors it as a notification so the
// employee's feed shows it.
func CreateActivity(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		utils.JSONError(ctx, iris.StatusUnauthorized, "unauthorized", "login required")
		return
	}

	var input CreateActivityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	activity := models.Activity{
		EmployeeID:          caller.ID,
		ActivityName:        input.ActivityName,
		ActivityDescription: input.ActivityDescription,
	}
	if err := storage.DB.Create(&activity).Error; err != nil {
		utils.LogStoreError(ctx, "create activity", err)
		return
	}

	notification := models.Notification{
		EmployeeID:  caller.ID,
		Type:        "activity",
		Title:       "Activity: " + input.ActivityName,
		Description: "You have posted a new activity: " + input.ActivityName,
		RelatedID:   &activity.ID,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		utils.LogStoreError(ctx, "create activity notification", err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "activity_id": activity.ID})
}

type activityWithEmployee struct {
	models.Activity
	EmployeeName string `json:"employee_name"`
	Username     string `json:"username"`
}

func AdminListActivities(ctx iris.Context) {
	query := storage.DB.Model(&models.Activity{}).
		Select("activities.*, employees.employee_name, employees.username").
		Joins("JOIN employees ON employees.id = activities.employee_id")
	if employeeID := ctx.URLParam("employee_id"); employeeID != "" {
		query = query.Where("activities.employee_id = ?", employeeID)
	}

	var activities []activityWithEmployee
	err := query.Order("activities.created_at DESC").Scan(&activities).Error
	if err != nil {
		utils.LogStoreError(ctx, "list admin activities", err)
		return
	}
	if activities == nil {
		activities = []activityWithEmployee{}
	}
	ctx.JSON(activities)
}
