package routes

import (
	"brainhr-server/models"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
)

type notificationWithEmployee struct {
	models.Notification
	EmployeeName string `json:"employee_name"`
	Username     string `json:"username"`
}

func AdminListNotifications(ctx iris.Context) {
	query := storage.DB.Model(&models.Notification{}).
		Select("notifications.*, employees.employee_name, employees.username").
		Joins("JOIN employees ON employees.id = notifications.employee_id")
	if employeeID := ctx.URLParam("employee_id"); employeeID != "" {
		query = query.Where("notifications.employee_id = ?", employeeID)
	}

	var notifications []notificationWithEmployee
	err := query.Order("notifications.created_at DESC").Scan(&notifications).Error
	if err != nil {
		utils.LogStoreError(ctx, "list notifications", err)
		return
	}
	if notifications == nil {
		notifications = []notificationWithEmployee{}
	}
	ctx.JSON(notifications)
}

func MarkNotificationRead(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid notification id")
		return
	}
	err = storage.DB.Model(&models.Notification{}).Where("id = ?", id).
		Update("status", "read").Error
	if err != nil {
		utils.LogStoreError(ctx, "mark notification read", err)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}
