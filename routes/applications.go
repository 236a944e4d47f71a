package routes

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"brainhr-server/models"
	"brainhr-server/services"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
)

var allowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// Apply is the public application endpoint. Multipart form with a resume
// file plus the candidate fields.
func Apply(ctx iris.Context) {
	file, header, err := ctx.FormFile("resume")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "Resume file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if header.Filename == "" || !allowedResumeExtensions[ext] {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request",
			"Invalid file type. Please upload PDF, DOC, or DOCX.")
		return
	}

	required := []string{"name", "email", "contact_no", "job_id", "job_title", "location", "visa_status", "relocation"}
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

	stored, err := storage.SaveUpload(file, "resume", header.Filename)
	if err != nil {
		if err == storage.ErrFileTooLarge {
			utils.JSONError(ctx, iris.StatusRequestEntityTooLarge, "too_large", "Resume exceeds the size limit")
			return
		}
		utils.LogStoreError(ctx, "save resume", err)
		return
	}

	jobID, _ := strconv.ParseUint(ctx.FormValue("job_id"), 10, 32)
	years, _ := strconv.ParseFloat(ctx.FormValue("experience_years"), 64)

	application := models.Application{
		Name:            ctx.FormValue("name"),
		Email:           ctx.FormValue("email"),
		ContactNo:       ctx.FormValue("contact_no"),
		LinkedIn:        ctx.FormValue("linkedin"),
		Location:        ctx.FormValue("location"),
		VisaStatus:      ctx.FormValue("visa_status"),
		Relocation:      ctx.FormValue("relocation"),
		ExperienceYears: years,
		JobID:           uint(jobID),
		JobTitle:        ctx.FormValue("job_title"),
		ResumeFilename:  stored,
	}
	if err := storage.DB.Create(&application).Error; err != nil {
		utils.LogStoreError(ctx, "create application", err)
		return
	}

	resumePath, _ := storage.UploadPath(stored)
	go services.NewEmailService().SendApplicationEmail(application, resumePath)
	publishEvent(services.EventApplicationReceived, application)

	ctx.JSON(iris.Map{"success": true, "message": "Application submitted successfully"})
}

// AdminListApplications supports ?job_id=<id|all> filtering.
func AdminListApplications(ctx iris.Context) {
	query := storage.DB.Model(&models.Application{})
	if jobID := ctx.URLParam("job_id"); jobID != "" && jobID != "all" {
		query = query.Where("job_id = ?", jobID)
	}

	var applications []models.Application
	if err := query.Order("applied_at DESC").Find(&applications).Error; err != nil {
		utils.LogStoreError(ctx, "list applications", err)
		return
	}
	ctx.JSON(applications)
}

func MarkApplicationViewed(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid application id")
		return
	}
	err = storage.DB.Model(&models.Application{}).Where("id = ?", id).
		Update("viewed", true).Error
	if err != nil {
		utils.LogStoreError(ctx, "mark application viewed", err)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

func DeleteApplication(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid application id")
		return
	}
	if err := storage.DB.Delete(&models.Application{}, id).Error; err != nil {
		utils.LogStoreError(ctx, "delete application", err)
		return
	}
	utils.Audit(ctx, "delete", "application", id, nil, nil)
	ctx.JSON(iris.Map{"success": true, "message": "Application deleted."})
}

type BulkApplicationIDsInput struct {
	ApplicationIDs []uint `json:"application_ids" validate:"required,min=1"`
}

func DeleteApplicationsBulk(ctx iris.Context) {
	var input BulkApplicationIDsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	err := storage.DB.Where("id IN ?", input.ApplicationIDs).
		Delete(&models.Application{}).Error
	if err != nil {
		utils.LogStoreError(ctx, "delete applications", err)
		return
	}
	utils.Audit(ctx, "delete-bulk", "application", 0, nil, input.ApplicationIDs)
	ctx.JSON(iris.Map{"success": true, "message": fmt.Sprintf("%d applications deleted.", len(input.ApplicationIDs))})
}

// DownloadResume streams a single resume and marks its application viewed.
func DownloadResume(ctx iris.Context) {
	filename := ctx.Params().Get("filename")
	path, err := storage.UploadPath(filename)
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	err = storage.DB.Model(&models.Application{}).
		Where("resume_filename = ?", filename).
		Update("viewed", true).Error
	if err != nil {
		utils.LogStoreError(ctx, "mark resume viewed", err)
		return
	}

	if _, statErr := os.Stat(path); statErr != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Resume file not found")
		return
	}
	ctx.SendFile(path, filepath.Base(path))
}
