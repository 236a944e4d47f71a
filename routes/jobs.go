package routes

import (
	"fmt"

	"brainhr-server/models"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
)

// ListJobs is the public job board: active postings, newest first.
func ListJobs(ctx iris.Context) {
	var jobs []models.Job
	err := storage.DB.Where("active = ?", true).
		Order("created_at DESC").Find(&jobs).Error
	if err != nil {
		utils.LogStoreError(ctx, "list jobs", err)
		return
	}
	ctx.JSON(jobs)
}

// jobWithCount carries the per-job application tally for the admin view.
type jobWithCount struct {
	models.Job
	ApplicationCount int64 `json:"application_count"`
}

func AdminListJobs(ctx iris.Context) {
	var jobs []jobWithCount
	err := storage.DB.Model(&models.Job{}).
		Select("jobs.*, COUNT(applications.id) AS application_count").
		Joins("LEFT JOIN applications ON applications.job_id = jobs.id").
		Group("jobs.id").
		Order("jobs.created_at DESC").
		Scan(&jobs).Error
	if err != nil {
		utils.LogStoreError(ctx, "list admin jobs", err)
		return
	}
	if jobs == nil {
		jobs = []jobWithCount{}
	}
	ctx.JSON(jobs)
}

type CreateJobInput struct {
	Title           string `json:"title" validate:"required"`
	Location        string `json:"location" validate:"required"`
	Description     string `json:"description" validate:"required"`
	VisaConstraints string `json:"visa_constraints"`
	AssessmentURL   string `json:"assessment_url"`
	JobCategory     string `json:"job_category"`
}

func CreateJob(ctx iris.Context) {
	var input CreateJobInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	job := models.Job{
		Title:           input.Title,
		Location:        input.Location,
		Description:     input.Description,
		VisaConstraints: input.VisaConstraints,
		AssessmentURL:   input.AssessmentURL,
		JobCategory:     input.JobCategory,
		Active:          true,
	}
	if err := storage.DB.Create(&job).Error; err != nil {
		utils.LogStoreError(ctx, "create job", err)
		return
	}

	utils.Audit(ctx, "create", "job", job.ID, nil, job)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "job_id": job.ID})
}

// DeactivateJob soft-deletes: the posting drops off the public board but
// its applications keep their reference.
func DeactivateJob(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid job id")
		return
	}
	err = storage.DB.Model(&models.Job{}).Where("id = ?", id).
		Update("active", false).Error
	if err != nil {
		utils.LogStoreError(ctx, "deactivate job", err)
		return
	}
	utils.Audit(ctx, "deactivate", "job", id, nil, nil)
	ctx.JSON(iris.Map{"success": true, "message": "Job deactivated."})
}

type BulkJobIDsInput struct {
	JobIDs []uint `json:"job_ids" validate:"required,min=1"`
}

func DeactivateJobsBulk(ctx iris.Context) {
	var input BulkJobIDsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	err := storage.DB.Model(&models.Job{}).Where("id IN ?", input.JobIDs).
		Update("active", false).Error
	if err != nil {
		utils.LogStoreError(ctx, "deactivate jobs", err)
		return
	}
	utils.Audit(ctx, "deactivate-bulk", "job", 0, nil, input.JobIDs)
	ctx.JSON(iris.Map{"success": true, "message": fmt.Sprintf("%d jobs deactivated.", len(input.JobIDs))})
}

// AdminStats feeds the dashboard header cards.
func AdminStats(ctx iris.Context) {
	var totalApplications, unviewedApplications, activeJobs int64
	db := storage.DB
	if err := db.Model(&models.Application{}).Count(&totalApplications).Error; err != nil {
		utils.LogStoreError(ctx, "count applications", err)
		return
	}
	if err := db.Model(&models.Application{}).Where("viewed = ?", false).Count(&unviewedApplications).Error; err != nil {
		utils.LogStoreError(ctx, "count unviewed applications", err)
		return
	}
	if err := db.Model(&models.Job{}).Where("active = ?", true).Count(&activeJobs).Error; err != nil {
		utils.LogStoreError(ctx, "count active jobs", err)
		return
	}
	ctx.JSON(iris.Map{
		"total_applications":    totalApplications,
		"unviewed_applications": unviewedApplications,
		"active_jobs":           activeJobs,
	})
}
