package routes

import (
	"strconv"
	"strings"

	"brainhr-server/models"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
)

// Enroll is the public course enrollment form.
func Enroll(ctx iris.Context) {
	required := []string{"name", "email", "contact_no", "course_id", "course_title"}
	var missing []string
	for _, field := range required {
		if ctx.FormValue(field) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request",
			"Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	courseID, _ := strconv.ParseUint(ctx.FormValue("course_id"), 10, 32)
	enrollment := models.CourseEnrollment{
		Name:        ctx.FormValue("name"),
		Email:       ctx.FormValue("email"),
		ContactNo:   ctx.FormValue("contact_no"),
		CourseID:    uint(courseID),
		CourseTitle: ctx.FormValue("course_title"),
	}
	if err := storage.DB.Create(&enrollment).Error; err != nil {
		utils.LogStoreError(ctx, "create enrollment", err)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Enrollment submitted successfully"})
}

func AdminListEnrollments(ctx iris.Context) {
	courseID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid course id")
		return
	}

	var enrollments []models.CourseEnrollment
	err = storage.DB.Where("course_id = ?", courseID).
		Order("enrolled_at DESC").Find(&enrollments).Error
	if err != nil {
		utils.LogStoreError(ctx, "list enrollments", err)
		return
	}
	ctx.JSON(enrollments)
}
